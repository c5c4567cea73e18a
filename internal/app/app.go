// Package app implements the application layer for forge.
package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"go.trai.ch/forge/internal/adapters/cmake" //nolint:depguard // Sub-build layout is part of the configure step
	"go.trai.ch/forge/internal/boards"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/forge/internal/engine/bridge"
	"go.trai.ch/forge/internal/engine/composer"
	"go.trai.ch/forge/internal/engine/linker"
	"go.trai.ch/forge/internal/engine/planner"
	"go.trai.ch/forge/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

// Runner runs a task graph.
type Runner interface {
	Run(ctx context.Context, g *domain.Graph, opts scheduler.Options) error
}

// SignatureStore is the signature store the scheduler records into. It is
// opened under the project root before a build runs.
type SignatureStore interface {
	Open(path string) error
}

// App represents the main application logic.
type App struct {
	loader     ports.ProjectLoader
	configs    ports.ConfigurationStore
	boards     *boards.Registry
	composer   *composer.Composer
	resolver   ports.SourceResolver
	manifests  ports.ManifestReader
	revisions  ports.RevisionReader
	signatures SignatureStore
	runner     Runner
	logger     ports.Logger
}

// Dependencies groups the collaborators of an App.
type Dependencies struct {
	Loader     ports.ProjectLoader
	Configs    ports.ConfigurationStore
	Boards     *boards.Registry
	Discoverer ports.ToolchainDiscoverer
	Resolver   ports.SourceResolver
	Manifests  ports.ManifestReader
	Revisions  ports.RevisionReader
	Signatures SignatureStore
	Runner     Runner
	Logger     ports.Logger
}

// New creates a new App instance.
func New(deps Dependencies) *App {
	return &App{
		loader:     deps.Loader,
		configs:    deps.Configs,
		boards:     deps.Boards,
		composer:   composer.New(deps.Boards, deps.Discoverer),
		resolver:   deps.Resolver,
		manifests:  deps.Manifests,
		revisions:  deps.Revisions,
		signatures: deps.Signatures,
		runner:     deps.Runner,
		logger:     deps.Logger,
	}
}

// ConfigureOptions configure the Configure method.
type ConfigureOptions struct {
	// ProjectFile is the path of forge.yaml.
	ProjectFile string
	// Board overrides the project's default board.
	Board     string
	Overrides composer.Overrides
}

// BuildOptions configure the Build method.
type BuildOptions struct {
	ProjectFile string
	Board       string
	// Jobs bounds parallel tasks. Zero means one per CPU.
	Jobs    int
	NoCache bool
}

// Configure composes the selected board's environment, locates its
// toolchain and persists the result in the board's variant directory.
func (a *App) Configure(ctx context.Context, opts ConfigureOptions) (*domain.Configuration, error) {
	project, err := a.loader.Load(opts.ProjectFile)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load project")
	}

	board, err := a.selectBoard(project, opts.Board)
	if err != nil {
		return nil, err
	}

	env, err := a.composer.Configure(ctx, board, domain.NewEnvironment(), opts.Overrides)
	if err != nil {
		return nil, err
	}

	variant := domain.VariantDir(project.Out, board)
	cfg := &domain.Configuration{Board: board, Env: env}

	if px4 := env.Flat(domain.VarPX4Version); px4 != "" {
		if !project.SubBuild.Enabled() {
			a.logger.Warn("board " + board + " expects a sub-build but the project declares none")
		} else {
			programLib := cmake.ProgramLibPath(variant)
			if err := os.MkdirAll(filepath.Dir(programLib), domain.DirPerm); err != nil {
				return nil, zerr.With(zerr.Wrap(err, "failed to create sub-build directory"), "path", filepath.Dir(programLib))
			}
			env.Set(domain.VarProgramLib, programLib)
			cfg.SubBuildVars = cmake.Vars(project.Root, project.SubBuild, px4, programLib)
		}
	}

	if err := a.configs.Save(variant, cfg); err != nil {
		return nil, zerr.Wrap(err, "failed to save configuration")
	}
	a.logger.Info("configured board " + board + " in " + variant)
	return cfg, nil
}

// Build runs the dynamic_sources group and then the build group for the
// named targets, or for every target when none are named.
func (a *App) Build(ctx context.Context, targets []string, opts BuildOptions) error {
	project, err := a.loader.Load(opts.ProjectFile)
	if err != nil {
		return zerr.Wrap(err, "failed to load project")
	}

	board, err := a.selectBoard(project, opts.Board)
	if err != nil {
		return err
	}
	variant := domain.VariantDir(project.Out, board)

	cfg, err := a.configs.Load(variant)
	if err != nil {
		return err
	}

	if a.signatures != nil {
		if err := a.signatures.Open(domain.SignaturesPath(project.Root)); err != nil {
			return err
		}
	}

	planOpts := planner.Options{
		Root:       project.Root,
		VariantDir: variant,
		Env:        cfg.Env,
	}
	if len(cfg.SubBuildVars) > 0 {
		sub := &cmake.SubBuild{
			Source:   filepath.Join(project.Root, project.SubBuild.Source),
			BuildDir: cmake.BuildDir(variant, project.SubBuild),
			Vars:     cfg.SubBuildVars,
		}
		b := bridge.New(a.manifests, a.revisions, bridge.Paths{
			ManifestDir: sub.BuildDir,
			NuttX:       filepath.Join(project.Root, project.SubBuild.NuttX),
			Firmware:    sub.Source,
		}, bridge.ModeBuild)

		planOpts.SubBuild = sub
		planOpts.PreCompile = []ports.PreCompileHook{b}
		planOpts.PreLink = []ports.PreLinkHook{linker.NewAggregator()}
	}
	p := planner.New(project.Targets, a.resolver, planOpts)

	runOpts := scheduler.Options{
		Parallelism: opts.Jobs,
		NoCache:     opts.NoCache,
		Root:        project.Root,
	}
	if runOpts.Parallelism <= 0 {
		runOpts.Parallelism = runtime.NumCPU()
	}

	dynamic, err := p.DynamicSources()
	if err != nil {
		return err
	}
	if err := a.run(ctx, planner.GroupDynamicSources, dynamic, runOpts); err != nil {
		return err
	}

	graph, err := p.Build(ctx, domain.NewInternedStrings(targets))
	if err != nil {
		return err
	}
	return a.run(ctx, planner.GroupBuild, graph, runOpts)
}

func (a *App) run(ctx context.Context, group string, g *domain.Graph, opts scheduler.Options) error {
	if g.TaskCount() == 0 {
		return nil
	}
	a.logger.Info("running group " + group)
	if err := a.runner.Run(ctx, g, opts); err != nil {
		if ctx.Err() != nil {
			return err
		}
		return zerr.With(zerr.Wrap(errors.Join(domain.ErrBuildExecutionFailed, err), "build failed"), "group", group)
	}
	return nil
}

// List returns the declared target names in declaration order. The sub-build
// is never touched, so listing works before configure.
func (a *App) List(ctx context.Context, projectFile string) ([]string, error) {
	project, err := a.loader.Load(projectFile)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load project")
	}

	hook := bridge.New(a.manifests, a.revisions, bridge.Paths{}, bridge.ModeList)
	names := make([]string, 0, project.Targets.Len())
	for _, name := range project.Targets.Names() {
		target, _ := project.Targets.Lookup(name)
		if err := hook.PreCompile(ctx, target); err != nil {
			return nil, err
		}
		names = append(names, name.String())
	}
	return names, nil
}

// Boards returns every known board name, sorted.
func (a *App) Boards() []string {
	return a.boards.Names()
}

func (a *App) selectBoard(project *domain.Project, flag string) (string, error) {
	board := flag
	if board == "" {
		board = project.Board
	}
	if board == "" {
		return "", zerr.With(zerr.Wrap(domain.ErrUnknownBoard, "no board selected"), "available", strings.Join(a.boards.Names(), ", "))
	}
	if _, err := a.boards.Resolve(board); err != nil {
		return "", err
	}
	return board, nil
}
