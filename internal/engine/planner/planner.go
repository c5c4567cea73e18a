// Package planner turns declared targets into executable task graphs.
//
// Tasks are produced in two groups that run one after the other. The
// dynamic_sources group configures the nested sub-build and generates the
// headers the primary build includes; the build group compiles and links the
// requested targets. Targets are posted lazily while the build group is
// planned, after the first group has run, so hooks that read sub-build output
// find it on disk.
package planner

import (
	"context"
	"path/filepath"
	"slices"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

// Task group names.
const (
	GroupDynamicSources = "dynamic_sources"
	GroupBuild          = "build"
)

// Sub-build targets built in the dynamic_sources group, and the one that
// produces the final image.
const (
	subBuildMsgGen    = "msg_gen"
	subBuildPrebuild  = "prebuild_targets"
	subBuildFirmware  = "firmware_nuttx"
	programCopyPrefix = "px4_copy:"
)

// SubBuild creates the tasks that drive the nested build.
type SubBuild interface {
	ConfigureTask() *domain.Task
	BuildTask(target string) *domain.Task
}

// Options configure a Planner.
type Options struct {
	// Root is the absolute project root. Relative sources and includes are
	// resolved against it.
	Root string
	// VariantDir is the absolute per-board output directory.
	VariantDir string
	// Env is the configured environment.
	Env *domain.Environment

	PreCompile []ports.PreCompileHook
	PreLink    []ports.PreLinkHook

	// SubBuild is nil for boards without a nested build.
	SubBuild SubBuild
}

// Planner posts targets and collects their tasks. It is not safe for
// concurrent use; hooks may call Post re-entrantly.
type Planner struct {
	targets  *domain.TargetGraph
	resolver ports.SourceResolver
	opts     Options

	tasks map[domain.InternedString]*domain.Task
	order []domain.InternedString
}

var _ ports.TargetPoster = (*Planner)(nil)

// New creates a Planner.
func New(targets *domain.TargetGraph, resolver ports.SourceResolver, opts Options) *Planner {
	if opts.Env == nil {
		opts.Env = domain.NewEnvironment()
	}
	return &Planner{
		targets:  targets,
		resolver: resolver,
		opts:     opts,
		tasks:    make(map[domain.InternedString]*domain.Task),
	}
}

// DynamicSources returns the dynamic_sources group. It is empty when the
// board has no sub-build.
func (p *Planner) DynamicSources() (*domain.Graph, error) {
	p.reset()
	if p.opts.SubBuild == nil {
		return p.graph()
	}

	configure := p.opts.SubBuild.ConfigureTask()
	if err := p.add(configure); err != nil {
		return nil, err
	}
	for _, target := range []string{subBuildMsgGen, subBuildPrebuild} {
		task := p.opts.SubBuild.BuildTask(target)
		task.After(configure.Name)
		if err := p.add(task); err != nil {
			return nil, err
		}
	}
	return p.graph()
}

// Build posts the named targets, or every target when names is empty, and
// returns the build group. Posting mutates the targets, so Build is called
// once per Planner.
func (p *Planner) Build(ctx context.Context, names []domain.InternedString) (*domain.Graph, error) {
	p.reset()
	if len(names) == 0 {
		names = p.targets.Names()
	}

	for _, name := range names {
		_, ok, err := p.Post(ctx, name)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, zerr.With(zerr.Wrap(domain.ErrTargetNotFound, "cannot plan build"), "target", name.String())
		}
	}
	return p.graph()
}

// Post creates the tasks of the named target unless it was posted already.
// It reports false when no target has that name.
func (p *Planner) Post(ctx context.Context, name domain.InternedString) (*domain.Target, bool, error) {
	t, ok := p.targets.Lookup(name)
	if !ok {
		return nil, false, nil
	}
	if t.Posted {
		return t, true, nil
	}
	// Marked before hooks run so a use cycle reaching t again stops here.
	t.Posted = true

	for _, hook := range p.opts.PreCompile {
		if err := hook.PreCompile(ctx, t); err != nil {
			return nil, false, err
		}
	}

	if err := p.compile(t); err != nil {
		return nil, false, err
	}

	switch t.Kind {
	case domain.TargetProgram:
		if err := p.link(ctx, t); err != nil {
			return nil, false, err
		}
	case domain.TargetStaticLib:
		if err := p.archive(t); err != nil {
			return nil, false, err
		}
	}
	return t, true, nil
}

func (p *Planner) compile(t *domain.Target) error {
	sources, err := p.resolver.ResolveSources(t.Sources, p.opts.Root)
	if err != nil {
		return zerr.With(err, "target", t.Name.String())
	}

	t.CompileTasks = t.CompileTasks[:0]
	t.CompiledObjects = t.CompiledObjects[:0]
	for _, src := range sources {
		task := p.compileTask(t, src)
		if err := p.add(task); err != nil {
			return err
		}
		t.CompileTasks = append(t.CompileTasks, task.Name)
		t.CompiledObjects = append(t.CompiledObjects, task.Outputs[0].String())
	}
	return nil
}

func (p *Planner) link(ctx context.Context, t *domain.Target) error {
	task := p.linkTask(t)
	t.LinkTask = task

	if p.opts.SubBuild != nil {
		if err := p.firmware(t); err != nil {
			return err
		}
	}

	for _, hook := range p.opts.PreLink {
		if err := hook.PreLink(ctx, t, p); err != nil {
			return err
		}
	}
	if err := p.processUse(ctx, t); err != nil {
		return err
	}

	p.finalizeLink(t)
	return p.add(task)
}

func (p *Planner) archive(t *domain.Target) error {
	task := p.archiveTask(t, p.staticLibPath(t.Name.String()))
	t.LinkTask = task
	task.Command = append(task.Command, domain.Strings(task.Inputs)...)
	return p.add(task)
}

// processUse links the use closure the conventional way: objects targets
// contribute their objects and static libraries their archive. On sub-build
// boards static libraries only order the link.
func (p *Planner) processUse(ctx context.Context, t *domain.Target) error {
	link := t.LinkTask
	queue := slices.Clone(t.Use)
	visited := map[domain.InternedString]bool{t.Name: true}
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if visited[name] {
			continue
		}
		visited[name] = true

		dep, ok, err := p.Post(ctx, name)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}

		switch dep.Kind {
		case domain.TargetObjects:
			addInputs(link, dep.CompiledObjects...)
			link.After(dep.CompileTasks...)
		case domain.TargetStaticLib:
			if dep.LinkTask == nil {
				break
			}
			link.After(dep.LinkTask.Name)
			// With a sub-build the program is itself archived and its
			// dependencies' objects are inlined by the pre-link hooks; an
			// archive must not become a member of another archive.
			if p.opts.SubBuild == nil {
				addInputs(link, domain.Strings(dep.LinkTask.Outputs)...)
			}
		}
		queue = append(queue, dep.Use...)
	}
	return nil
}

// firmware hands the program's link output to the sub-build: a copy task
// keeps the sub-build's program library in sync and the firmware build runs
// after it.
func (p *Planner) firmware(t *domain.Target) error {
	link := t.LinkTask
	dest := p.opts.Env.Flat(domain.VarProgramLib)
	if dest == "" {
		return zerr.With(zerr.Wrap(domain.ErrNotConfigured, "program library path not set"), "target", t.Name.String())
	}

	cp := &domain.Task{
		Name:    domain.NewInternedString(programCopyPrefix + t.Name.String()),
		Kind:    domain.TaskCopy,
		Label:   "PX4: Copying program library",
		Inputs:  slices.Clone(link.Outputs),
		Outputs: domain.NewInternedStrings([]string{dest}),
	}
	cp.After(link.Name)
	if err := p.add(cp); err != nil {
		return err
	}

	fw := p.opts.SubBuild.BuildTask(subBuildFirmware)
	if existing, ok := p.tasks[fw.Name]; ok {
		existing.After(cp.Name)
		return nil
	}
	fw.After(cp.Name)
	return p.add(fw)
}

func (p *Planner) reset() {
	p.tasks = make(map[domain.InternedString]*domain.Task)
	p.order = nil
}

func (p *Planner) add(task *domain.Task) error {
	if _, exists := p.tasks[task.Name]; exists {
		return zerr.With(zerr.Wrap(domain.ErrTaskAlreadyExists, "cannot plan task"), "task_name", task.Name.String())
	}
	p.tasks[task.Name] = task
	p.order = append(p.order, task.Name)
	return nil
}

// graph freezes the collected tasks. Tasks are copied into the graph, so no
// mutation may follow.
func (p *Planner) graph() (*domain.Graph, error) {
	g := domain.NewGraph()
	for _, name := range p.order {
		if err := g.AddTask(p.tasks[name]); err != nil {
			return nil, err
		}
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

func (p *Planner) abs(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.opts.Root, path)
}

func addInputs(task *domain.Task, paths ...string) {
	for _, path := range paths {
		in := domain.NewInternedString(path)
		if !slices.Contains(task.Inputs, in) {
			task.Inputs = append(task.Inputs, in)
		}
	}
}
