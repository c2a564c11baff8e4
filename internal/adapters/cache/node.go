package cache

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/lockaudit/internal/adapters/config"
	"go.trai.ch/lockaudit/internal/adapters/sqlite"
	"go.trai.ch/lockaudit/internal/core/domain"
	"go.trai.ch/lockaudit/internal/core/ports"
	"go.trai.ch/zerr"
)

// NodeID is the unique identifier for the cache store Graft node.
const NodeID graft.ID = "adapter.cache_store"

func init() {
	graft.Register(graft.Node[ports.CacheStore]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.SettingsNodeID},
		Run: func(ctx context.Context) (ports.CacheStore, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			return New(cfg.Cache)
		},
	})
}

// New returns the Cache Store selected by cfg.
func New(cfg domain.CacheConfig) (ports.CacheStore, error) {
	switch cfg.Backend {
	case domain.CacheBackendFile, "":
		return NewFileStore(domain.RecordsPath(cfg.Dir)), nil
	case domain.CacheBackendSQLite:
		return sqlite.NewStore(domain.DatabasePath(cfg.Dir)), nil
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrUnknownCacheBackend, "cannot open cache store"), "backend", string(cfg.Backend))
	}
}
