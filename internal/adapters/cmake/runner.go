package cmake

import (
	"context"
	"errors"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.TaskRunner = (*Runner)(nil)

// Runner runs sub-build tasks. CMake tracks its own freshness, so every
// task is executed and reported as not cached.
type Runner struct {
	executor ports.Executor
}

// NewRunner creates a Runner.
func NewRunner(executor ports.Executor) *Runner {
	return &Runner{executor: executor}
}

// Run executes task and ties a failure to domain.ErrSubBuildFailed.
func (r *Runner) Run(ctx context.Context, task *domain.Task) (bool, error) {
	if err := r.executor.Execute(ctx, task, nil); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, ctxErr
		}
		wrapped := zerr.Wrap(errors.Join(domain.ErrSubBuildFailed, err), "sub-build step failed")
		return false, zerr.With(wrapped, "task", task.Name.String())
	}
	return false, nil
}
