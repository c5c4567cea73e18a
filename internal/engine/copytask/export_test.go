package copytask

import (
	"context"

	"go.trai.ch/forge/internal/core/domain"
)

// Status exposes the freshness check Run performs, under the same lock.
func (r *Runner) Status(_ context.Context, task *domain.Task) domain.CopyState {
	ep, err := resolve(task)
	if err != nil {
		return domain.CopyStale
	}
	unlock := r.lock(ep.target)
	defer unlock()

	state, _ := r.status(ep)
	return state
}
