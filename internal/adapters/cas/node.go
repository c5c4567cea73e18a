package cas

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/forge/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the signature store Graft node.
	NodeID graft.ID = "adapter.signature_store"
	// StoreNodeID is the unique identifier for the concrete store Graft node.
	// The app opens it under the project root once the project is loaded.
	StoreNodeID graft.ID = "adapter.signature_store.file"
)

func init() {
	graft.Register(graft.Node[*Store]{
		ID:        StoreNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Store, error) {
			return New(), nil
		},
	})

	graft.Register(graft.Node[ports.SignatureStore]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{StoreNodeID},
		Run: func(ctx context.Context) (ports.SignatureStore, error) {
			store, err := graft.Dep[*Store](ctx)
			if err != nil {
				return nil, err
			}
			return store, nil
		},
	})
}
