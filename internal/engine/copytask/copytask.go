// Package copytask runs incremental artifact copies into locations the task
// graph does not track, judging freshness by content signature alone.
package copytask

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

// Runner implements ports.TaskRunner for domain.TaskCopy tasks.
//
// A copy task has one input, the artifact, and one output, the pseudo-target.
// The pseudo-target's cached signature is kept in the signature store under
// its absolute path.
type Runner struct {
	hasher ports.Hasher
	store  ports.SignatureStore
	copier ports.ArtifactCopier

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewRunner creates a Runner.
func NewRunner(hasher ports.Hasher, store ports.SignatureStore, copier ports.ArtifactCopier) *Runner {
	return &Runner{
		hasher: hasher,
		store:  store,
		copier: copier,
		locks:  make(map[string]*sync.Mutex),
	}
}

// lock serializes every read and write of one pseudo-target's signature.
func (r *Runner) lock(path string) func() {
	r.mu.Lock()
	l, ok := r.locks[path]
	if !ok {
		l = &sync.Mutex{}
		r.locks[path] = l
	}
	r.mu.Unlock()

	l.Lock()
	return l.Unlock
}

type endpoints struct {
	input  string
	target string
}

func resolve(task *domain.Task) (endpoints, error) {
	if len(task.Inputs) != 1 || len(task.Outputs) != 1 {
		return endpoints{}, zerr.With(
			zerr.New("copy task needs exactly one input and one output"), "task", task.Name.String())
	}
	target, err := filepath.Abs(task.Outputs[0].String())
	if err != nil {
		return endpoints{}, zerr.Wrap(err, "failed to resolve pseudo-target")
	}
	return endpoints{input: task.Inputs[0].String(), target: target}, nil
}

// status returns the state and, when it could be computed, the input signature.
func (r *Runner) status(ep endpoints) (domain.CopyState, string) {
	sig, err := r.hasher.ComputeFileHash(ep.input)
	if err != nil {
		return domain.CopyStale, ""
	}
	if _, err := os.Stat(ep.target); err != nil {
		return domain.CopyStale, sig
	}
	rec, err := r.store.Get(ep.target)
	if err != nil || rec == nil || rec.Signature == "" {
		return domain.CopyStale, sig
	}
	if rec.Signature != sig {
		return domain.CopyStale, sig
	}
	return domain.CopyFresh, sig
}

// Run copies the input over the pseudo-target when it is stale, then records
// the input signature as the pseudo-target's signature. It reports
// cached=true when no copy was needed. Nothing is recorded when ctx is
// cancelled before the copy finishes.
func (r *Runner) Run(ctx context.Context, task *domain.Task) (bool, error) {
	ep, err := resolve(task)
	if err != nil {
		return false, err
	}
	unlock := r.lock(ep.target)
	defer unlock()

	state, sig := r.status(ep)
	if state == domain.CopyFresh {
		return true, nil
	}
	if sig == "" {
		return false, zerr.With(zerr.Wrap(domain.ErrMissingArtifact, "copy input unreadable"), "path", ep.input)
	}

	if v, ok := ports.VertexFromContext(ctx); ok {
		v.Log(domain.LogLevelInfo, "copying "+ep.input+" to "+ep.target)
	}

	if err := ctx.Err(); err != nil {
		return false, err
	}
	if err := r.copier.Copy(ep.input, ep.target); err != nil {
		return false, zerr.With(zerr.Wrap(err, "copy failed"), "task", task.Name.String())
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	rec := domain.SignatureRecord{Key: ep.target, Signature: sig, Timestamp: time.Now()}
	if err := r.store.Put(rec); err != nil {
		return false, zerr.With(zerr.Wrap(err, "failed to record signature"), "path", ep.target)
	}
	return false, nil
}
