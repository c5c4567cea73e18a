package ports

import (
	"context"

	"go.trai.ch/forge/internal/core/domain"
)

// Executor defines the interface for executing tasks.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs the given task's command.
	//
	// The env parameter contains environment variables in "KEY=VALUE" format
	// layered on top of the process environment.
	//
	// It returns an error if the command fails.
	Execute(ctx context.Context, task *domain.Task, env []string) error
}

// TaskRunner runs tasks of one domain.TaskKind that need their own
// staleness logic instead of the scheduler's input-hash cache.
type TaskRunner interface {
	// Run brings task up to date. It reports cached=true when nothing had to be done.
	Run(ctx context.Context, task *domain.Task) (cached bool, err error)
}
