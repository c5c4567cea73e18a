package copytask

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/forge/internal/adapters/cas" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/forge/internal/adapters/fs"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/forge/internal/core/ports"
)

// NodeID is the unique identifier for the copy task runner Graft node.
const NodeID graft.ID = "engine.copytask"

func init() {
	graft.Register(graft.Node[*Runner]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.HasherNodeID, fs.CopierNodeID, cas.NodeID},
		Run: func(ctx context.Context) (*Runner, error) {
			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}
			copier, err := graft.Dep[ports.ArtifactCopier](ctx)
			if err != nil {
				return nil, err
			}
			store, err := graft.Dep[ports.SignatureStore](ctx)
			if err != nil {
				return nil, err
			}
			return NewRunner(hasher, store, copier), nil
		},
	})
}
