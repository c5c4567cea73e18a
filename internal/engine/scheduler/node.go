package scheduler

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/forge/internal/adapters/cas"                //nolint:depguard // Wired in engine wiring
	"go.trai.ch/forge/internal/adapters/cmake"              //nolint:depguard // Wired in engine wiring
	"go.trai.ch/forge/internal/adapters/fs"                 //nolint:depguard // Wired in engine wiring
	"go.trai.ch/forge/internal/adapters/shell"              //nolint:depguard // Wired in engine wiring
	"go.trai.ch/forge/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/forge/internal/engine/copytask"
)

// NodeID is the unique identifier for the scheduler Graft node.
const NodeID graft.ID = "engine.scheduler"

func init() {
	graft.Register(graft.Node[*Scheduler]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			shell.NodeID,
			cas.NodeID,
			fs.HasherNodeID,
			progrock.NodeID,
			copytask.NodeID,
			cmake.RunnerNodeID,
		},
		Run: func(ctx context.Context) (*Scheduler, error) {
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}

			store, err := graft.Dep[ports.SignatureStore](ctx)
			if err != nil {
				return nil, err
			}

			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}

			telemetry, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			copier, err := graft.Dep[*copytask.Runner](ctx)
			if err != nil {
				return nil, err
			}

			subBuild, err := graft.Dep[*cmake.Runner](ctx)
			if err != nil {
				return nil, err
			}

			s := NewScheduler(executor, hasher, store, telemetry)
			s.RegisterRunner(domain.TaskCopy, copier)
			s.RegisterRunner(domain.TaskSubBuild, subBuild)
			return s, nil
		},
	})
}
