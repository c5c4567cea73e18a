package git

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/forge/internal/core/ports"
)

// NodeID is the unique identifier for the revision reader Graft node.
const NodeID graft.ID = "adapter.git"

func init() {
	graft.Register(graft.Node[ports.RevisionReader]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.RevisionReader, error) {
			return NewRevisionReader(), nil
		},
	})
}
