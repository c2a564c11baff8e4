package ossindex

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/lockaudit/internal/adapters/config"
	"go.trai.ch/lockaudit/internal/core/domain"
	"go.trai.ch/lockaudit/internal/core/ports"
)

// NodeID is the unique identifier for the OSS Index lookup client Graft node.
const NodeID graft.ID = "adapter.lookup_client"

func init() {
	graft.Register(graft.Node[ports.LookupClient]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.SettingsNodeID},
		Run: func(ctx context.Context) (ports.LookupClient, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			return NewClient(
				WithBaseURL(cfg.BaseURL),
				WithCredentials(cfg.Username, cfg.Token),
				WithTimeout(cfg.Timeout),
			), nil
		},
	})
}
