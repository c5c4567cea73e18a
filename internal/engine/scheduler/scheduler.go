// Package scheduler implements the task execution scheduler.
package scheduler

import (
	"context"
	"errors"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

// Options control one run.
type Options struct {
	// Parallelism bounds the number of tasks running at once. Values below 1 mean 1.
	Parallelism int
	// NoCache runs every command task regardless of its recorded input hash.
	NoCache bool
	// Root resolves relative task inputs when hashing.
	Root string
	// Env is layered over the process environment of every command, as KEY=VALUE.
	Env []string
}

// Scheduler runs task graphs. Command tasks go through the executor behind an
// input-hash cache; tasks of a kind with a registered runner are handed to
// that runner, which owns its own freshness check.
type Scheduler struct {
	executor  ports.Executor
	hasher    ports.Hasher
	store     ports.SignatureStore
	telemetry ports.Telemetry
	runners   map[domain.TaskKind]ports.TaskRunner

	mu         sync.RWMutex
	taskStatus map[domain.InternedString]domain.TaskStatus
}

// NewScheduler creates a new Scheduler.
func NewScheduler(
	executor ports.Executor,
	hasher ports.Hasher,
	store ports.SignatureStore,
	telemetry ports.Telemetry,
) *Scheduler {
	return &Scheduler{
		executor:   executor,
		hasher:     hasher,
		store:      store,
		telemetry:  telemetry,
		runners:    make(map[domain.TaskKind]ports.TaskRunner),
		taskStatus: make(map[domain.InternedString]domain.TaskStatus),
	}
}

// RegisterRunner routes tasks of kind to runner.
func (s *Scheduler) RegisterRunner(kind domain.TaskKind, runner ports.TaskRunner) {
	s.runners[kind] = runner
}

func (s *Scheduler) updateStatus(name domain.InternedString, status domain.TaskStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.taskStatus[name] = status
}

// Status returns the status of name in the last run.
func (s *Scheduler) Status(name domain.InternedString) domain.TaskStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.taskStatus[name]
}

// Run executes every task of g, each only after all of its dependencies
// completed. Once a task fails no new task is started; running tasks are
// awaited and every failure is returned, tagged with its task name.
func (s *Scheduler) Run(ctx context.Context, g *domain.Graph, opts Options) error {
	if err := g.Validate(); err != nil {
		return err
	}
	if opts.Parallelism < 1 {
		opts.Parallelism = 1
	}

	state := s.newRunState(ctx, g, opts)

	for !state.isDone() {
		state.schedule()

		if state.isDone() {
			break
		}

		select {
		case res := <-state.resultsCh:
			state.handleResult(res)
		case <-state.ctx.Done():
			if state.active == 0 {
				return errors.Join(state.errs, state.ctx.Err())
			}
			state.handleResult(<-state.resultsCh)
		}
	}

	if err := state.ctx.Err(); err != nil {
		state.errs = errors.Join(state.errs, err)
	}
	return state.errs
}

type result struct {
	task   domain.InternedString
	cached bool
	err    error
}

type runState struct {
	s         *Scheduler
	ctx       context.Context
	graph     *domain.Graph
	opts      Options
	env       map[string]string
	inDegree  map[domain.InternedString]int
	tasks     map[domain.InternedString]domain.Task
	ready     []domain.InternedString
	active    int
	failed    bool
	resultsCh chan result
	errs      error
}

func (s *Scheduler) newRunState(ctx context.Context, g *domain.Graph, opts Options) *runState {
	taskCount := g.TaskCount()
	inDegree := make(map[domain.InternedString]int, taskCount)
	tasks := make(map[domain.InternedString]domain.Task, taskCount)

	s.mu.Lock()
	clear(s.taskStatus)
	var ready []domain.InternedString
	for task := range g.Walk() {
		tasks[task.Name] = task
		inDegree[task.Name] = len(task.Dependencies)
		s.taskStatus[task.Name] = domain.StatusPending
		if len(task.Dependencies) == 0 {
			ready = append(ready, task.Name)
		}
	}
	s.mu.Unlock()

	return &runState{
		s:         s,
		ctx:       ctx,
		graph:     g,
		opts:      opts,
		env:       parseEnvironment(opts.Env),
		inDegree:  inDegree,
		tasks:     tasks,
		ready:     ready,
		resultsCh: make(chan result, opts.Parallelism),
	}
}

func (state *runState) isDone() bool {
	if state.failed || state.ctx.Err() != nil {
		return state.active == 0
	}
	return state.active == 0 && len(state.ready) == 0
}

func (state *runState) schedule() {
	for len(state.ready) > 0 && state.active < state.opts.Parallelism && !state.failed && state.ctx.Err() == nil {
		name := state.ready[0]
		state.ready = state.ready[1:]

		state.active++
		state.s.updateStatus(name, domain.StatusRunning)

		go func(t domain.Task) {
			cached, err := state.execute(state.ctx, &t)
			state.resultsCh <- result{task: t.Name, cached: cached, err: err}
		}(state.tasks[name])
	}
}

func (state *runState) execute(ctx context.Context, task *domain.Task) (cached bool, err error) {
	ctx, vertex := state.s.telemetry.Record(ctx, task.DisplayName())
	ctx = ports.ContextWithVertex(ctx, vertex)
	defer func() {
		if cached {
			vertex.Cached()
		}
		vertex.Complete(err)
	}()

	if runner, ok := state.s.runners[task.Kind]; ok {
		return runner.Run(ctx, task)
	}
	return state.executeWithCache(ctx, task)
}

func (state *runState) executeWithCache(ctx context.Context, task *domain.Task) (bool, error) {
	if task.AlwaysRun || state.opts.NoCache {
		return false, state.s.executor.Execute(ctx, task, state.opts.Env)
	}

	inputHash, err := state.s.hasher.ComputeInputHash(task, state.env, state.opts.Root)
	if err != nil {
		return false, err
	}

	if state.cacheHit(task, inputHash) {
		return true, nil
	}

	if err := state.s.executor.Execute(ctx, task, state.opts.Env); err != nil {
		return false, err
	}

	// The run rewrote the depfile, so sign the prerequisites it lists now.
	if task.Depfile != "" {
		inputHash, err = state.s.hasher.ComputeInputHash(task, state.env, state.opts.Root)
		if err != nil {
			return false, err
		}
	}

	rec := domain.SignatureRecord{
		Key:       cacheKey(task),
		Signature: inputHash,
		Timestamp: time.Now(),
	}
	if err := state.s.store.Put(rec); err != nil {
		return false, zerr.Wrap(err, "failed to store task signature")
	}
	return false, nil
}

// cacheHit reports whether task ran before with the same inputs and its
// outputs are still on disk. Lookup failures count as misses.
func (state *runState) cacheHit(task *domain.Task, inputHash string) bool {
	rec, err := state.s.store.Get(cacheKey(task))
	if err != nil || rec == nil || rec.Signature != inputHash {
		return false
	}
	for _, out := range task.Outputs {
		path := out.String()
		if !filepath.IsAbs(path) {
			path = filepath.Join(state.opts.Root, path)
		}
		if _, err := os.Stat(path); err != nil {
			return false
		}
	}
	return true
}

// cacheKey keys a task by its first output, which carries the variant
// directory, so that switching boards does not evict another board's entries.
func cacheKey(task *domain.Task) string {
	if len(task.Outputs) > 0 {
		return task.Outputs[0].String()
	}
	return task.Name.String()
}

func parseEnvironment(env []string) map[string]string {
	out := make(map[string]string, len(env))
	for _, e := range env {
		if k, v, ok := strings.Cut(e, "="); ok {
			out[k] = v
		}
	}
	return out
}

func (state *runState) handleResult(res result) {
	state.active--
	if res.err != nil {
		wrappedErr := zerr.With(zerr.Wrap(res.err, "task execution failed"), "task", res.task.String())
		state.errs = errors.Join(state.errs, wrappedErr)
		state.failed = true
		state.s.updateStatus(res.task, domain.StatusFailed)
		return
	}

	if res.cached {
		state.s.updateStatus(res.task, domain.StatusCached)
	} else {
		state.s.updateStatus(res.task, domain.StatusCompleted)
	}
	for _, dep := range state.graph.Dependents(res.task) {
		state.inDegree[dep]--
		if state.inDegree[dep] == 0 {
			state.ready = append(state.ready, dep)
		}
	}
}

// Statuses returns a copy of every task status of the last run.
func (s *Scheduler) Statuses() map[domain.InternedString]domain.TaskStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.taskStatus)
}
