package config

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/forge/internal/adapters/logger"
	"go.trai.ch/forge/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the project loader Graft node.
	NodeID graft.ID = "adapter.config_loader"
	// StoreNodeID is the unique identifier for the configuration store Graft node.
	StoreNodeID graft.ID = "adapter.config_store"
)

func init() {
	graft.Register(graft.Node[ports.ProjectLoader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.ProjectLoader, error) {
			log, err := graft.Dep[*logger.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewLoader(log), nil
		},
	})

	graft.Register(graft.Node[ports.ConfigurationStore]{
		ID:        StoreNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ConfigurationStore, error) {
			return NewStore(), nil
		},
	})
}
