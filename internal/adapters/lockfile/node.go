package lockfile

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/lockaudit/internal/core/ports"
)

// NodeID is the unique identifier for the lockfile reader Graft node.
const NodeID graft.ID = "adapter.lockfile_reader"

func init() {
	graft.Register(graft.Node[ports.CoordinateSource]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.CoordinateSource, error) {
			return NewReader(nil), nil
		},
	})
}
