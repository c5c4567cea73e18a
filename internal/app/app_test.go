package app_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/forge/internal/app"
	"go.trai.ch/forge/internal/boards"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports/mocks"
	"go.trai.ch/forge/internal/engine/composer"
	"go.trai.ch/forge/internal/engine/scheduler"
	"go.uber.org/mock/gomock"
)

type fakeRunner struct {
	graphs []*domain.Graph
	opts   []scheduler.Options
	err    error
}

func (r *fakeRunner) Run(_ context.Context, g *domain.Graph, opts scheduler.Options) error {
	r.graphs = append(r.graphs, g)
	r.opts = append(r.opts, opts)
	return r.err
}

type fakeSignatures struct {
	paths []string
}

func (s *fakeSignatures) Open(path string) error {
	s.paths = append(s.paths, path)
	return nil
}

type fixture struct {
	loader     *mocks.MockProjectLoader
	configs    *mocks.MockConfigurationStore
	discoverer *mocks.MockToolchainDiscoverer
	resolver   *mocks.MockSourceResolver
	manifests  *mocks.MockManifestReader
	revisions  *mocks.MockRevisionReader
	logger     *mocks.MockLogger
	signatures *fakeSignatures
	runner     *fakeRunner
	app        *app.App
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &fixture{
		loader:     mocks.NewMockProjectLoader(ctrl),
		configs:    mocks.NewMockConfigurationStore(ctrl),
		discoverer: mocks.NewMockToolchainDiscoverer(ctrl),
		resolver:   mocks.NewMockSourceResolver(ctrl),
		manifests:  mocks.NewMockManifestReader(ctrl),
		revisions:  mocks.NewMockRevisionReader(ctrl),
		logger:     mocks.NewMockLogger(ctrl),
		signatures: &fakeSignatures{},
		runner:     &fakeRunner{},
	}
	f.app = app.New(app.Dependencies{
		Loader:     f.loader,
		Configs:    f.configs,
		Boards:     boards.Builtin(),
		Discoverer: f.discoverer,
		Resolver:   f.resolver,
		Manifests:  f.manifests,
		Revisions:  f.revisions,
		Signatures: f.signatures,
		Runner:     f.runner,
		Logger:     f.logger,
	})
	return f
}

func testProject(t *testing.T, board string, subBuild bool) *domain.Project {
	t.Helper()
	root := t.TempDir()
	targets := domain.NewTargetGraph()
	require.NoError(t, targets.Add(&domain.Target{
		Name:    domain.NewInternedString("ArduCopter"),
		Kind:    domain.TargetProgram,
		Sources: []string{"ArduCopter/*.cpp"},
		Use:     domain.NewInternedStrings([]string{"ap_libs"}),
	}))
	require.NoError(t, targets.Add(&domain.Target{
		Name:    domain.NewInternedString("ap_libs"),
		Kind:    domain.TargetObjects,
		Sources: []string{"libraries/*.cpp"},
	}))

	project := &domain.Project{
		Root:    root,
		Board:   board,
		Out:     filepath.Join(root, "build"),
		Targets: targets,
	}
	if subBuild {
		project.SubBuild = domain.SubBuildConfig{
			Source:       "modules/PX4Firmware",
			NuttX:        "modules/PX4NuttX",
			UAVCAN:       "modules/uavcan",
			CMakeModules: "Tools/cmake",
		}
	}
	return project
}

func TestApp_Configure(t *testing.T) {
	f := newFixture(t)
	project := testProject(t, "sitl", false)
	variant := filepath.Join(project.Out, "sitl")

	var saved *domain.Configuration
	f.loader.EXPECT().Load("forge.yaml").Return(project, nil)
	f.discoverer.EXPECT().Discover(gomock.Any(), gomock.Any()).Return(nil)
	f.configs.EXPECT().Save(variant, gomock.Any()).DoAndReturn(func(_ string, cfg *domain.Configuration) error {
		saved = cfg
		return nil
	})
	f.logger.EXPECT().Info("configured board sitl in " + variant)

	cfg, err := f.app.Configure(context.Background(), app.ConfigureOptions{
		ProjectFile: "forge.yaml",
		Overrides:   composer.Overrides{CXXFlags: []string{"-g"}},
	})
	require.NoError(t, err)
	require.Same(t, cfg, saved)

	assert.Equal(t, "sitl", cfg.Board)
	assert.Empty(t, cfg.SubBuildVars)
	assert.Contains(t, cfg.Env.Get(domain.VarDefines), "CONFIG_HAL_BOARD=HAL_BOARD_SITL")
	assert.Equal(t, "-g", cfg.Env.Get(domain.VarCXXFlags)[0])
}

func TestApp_Configure_BoardFlagWins(t *testing.T) {
	f := newFixture(t)
	project := testProject(t, "sitl", false)

	f.loader.EXPECT().Load("forge.yaml").Return(project, nil)
	f.discoverer.EXPECT().Discover(gomock.Any(), gomock.Any()).Return(nil)
	f.configs.EXPECT().Save(filepath.Join(project.Out, "navio"), gomock.Any()).Return(nil)
	f.logger.EXPECT().Info(gomock.Any())

	cfg, err := f.app.Configure(context.Background(), app.ConfigureOptions{ProjectFile: "forge.yaml", Board: "navio"})
	require.NoError(t, err)
	assert.Equal(t, "navio", cfg.Board)
	assert.Equal(t, []string{"arm-linux-gnueabihf"}, cfg.Env.Get(domain.VarToolchain))
}

func TestApp_Configure_SubBuild(t *testing.T) {
	f := newFixture(t)
	project := testProject(t, "px4-v2", true)
	variant := filepath.Join(project.Out, "px4-v2")
	programLib := filepath.Join(variant, "px4-extra-files", "libap_program.a")

	f.loader.EXPECT().Load("forge.yaml").Return(project, nil)
	f.discoverer.EXPECT().Discover(gomock.Any(), gomock.Any()).Return(nil)
	f.configs.EXPECT().Save(variant, gomock.Any()).Return(nil)
	f.logger.EXPECT().Info(gomock.Any())

	cfg, err := f.app.Configure(context.Background(), app.ConfigureOptions{ProjectFile: "forge.yaml"})
	require.NoError(t, err)

	assert.Equal(t, programLib, cfg.Env.Flat(domain.VarProgramLib))
	assert.Equal(t, []domain.DefinePair{
		{Name: "CONFIG", Value: "nuttx_px4fmu-v2_apm"},
		{Name: "CMAKE_MODULE_PATH", Value: filepath.Join(project.Root, "Tools/cmake")},
		{Name: "UAVCAN_LIBUAVCAN_PATH", Value: filepath.Join(project.Root, "modules/uavcan")},
		{Name: "NUTTX_SRC", Value: filepath.Join(project.Root, "modules/PX4NuttX")},
		{Name: "APM_PROGRAM_LIB", Value: programLib},
	}, cfg.SubBuildVars)

	info, err := os.Stat(filepath.Dir(programLib))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestApp_Configure_SubBuildBoardWithoutSubBuild(t *testing.T) {
	f := newFixture(t)
	project := testProject(t, "px4-v4", false)

	f.loader.EXPECT().Load("forge.yaml").Return(project, nil)
	f.discoverer.EXPECT().Discover(gomock.Any(), gomock.Any()).Return(nil)
	f.logger.EXPECT().Warn("board px4-v4 expects a sub-build but the project declares none")
	f.configs.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
	f.logger.EXPECT().Info(gomock.Any())

	cfg, err := f.app.Configure(context.Background(), app.ConfigureOptions{ProjectFile: "forge.yaml"})
	require.NoError(t, err)
	assert.Empty(t, cfg.SubBuildVars)
	assert.False(t, cfg.Env.Has(domain.VarProgramLib))
}

func TestApp_Configure_UnknownBoard(t *testing.T) {
	f := newFixture(t)
	f.loader.EXPECT().Load("forge.yaml").Return(testProject(t, "", false), nil)

	_, err := f.app.Configure(context.Background(), app.ConfigureOptions{ProjectFile: "forge.yaml", Board: "nosuch"})
	require.ErrorIs(t, err, domain.ErrUnknownBoard)
}

func TestApp_Configure_NoBoard(t *testing.T) {
	f := newFixture(t)
	f.loader.EXPECT().Load("forge.yaml").Return(testProject(t, "", false), nil)

	_, err := f.app.Configure(context.Background(), app.ConfigureOptions{ProjectFile: "forge.yaml"})
	require.ErrorIs(t, err, domain.ErrUnknownBoard)
}

func TestApp_Configure_ToolchainMissing(t *testing.T) {
	f := newFixture(t)
	f.loader.EXPECT().Load("forge.yaml").Return(testProject(t, "sitl", false), nil)
	f.discoverer.EXPECT().Discover(gomock.Any(), gomock.Any()).Return(domain.ErrToolNotFound)

	_, err := f.app.Configure(context.Background(), app.ConfigureOptions{ProjectFile: "forge.yaml"})
	require.ErrorIs(t, err, domain.ErrToolNotFound)
}

func TestApp_Build_NotConfigured(t *testing.T) {
	f := newFixture(t)
	project := testProject(t, "sitl", false)

	f.loader.EXPECT().Load("forge.yaml").Return(project, nil)
	f.configs.EXPECT().Load(filepath.Join(project.Out, "sitl")).Return(nil, domain.ErrNotConfigured)

	err := f.app.Build(context.Background(), nil, app.BuildOptions{ProjectFile: "forge.yaml"})
	require.ErrorIs(t, err, domain.ErrNotConfigured)
	assert.Empty(t, f.runner.graphs)
	assert.Empty(t, f.signatures.paths)
}

func TestApp_Build(t *testing.T) {
	f := newFixture(t)
	project := testProject(t, "sitl", false)

	f.loader.EXPECT().Load("forge.yaml").Return(project, nil)
	f.configs.EXPECT().Load(filepath.Join(project.Out, "sitl")).Return(&domain.Configuration{
		Board: "sitl",
		Env:   domain.NewEnvironment(),
	}, nil)
	f.resolver.EXPECT().ResolveSources([]string{"ArduCopter/*.cpp"}, project.Root).Return([]string{"ArduCopter/Copter.cpp"}, nil)
	f.resolver.EXPECT().ResolveSources([]string{"libraries/*.cpp"}, project.Root).Return([]string{"libraries/AP_Math.cpp"}, nil)
	f.logger.EXPECT().Info("running group build")

	err := f.app.Build(context.Background(), []string{"ArduCopter"}, app.BuildOptions{
		ProjectFile: "forge.yaml",
		Jobs:        3,
		NoCache:     true,
	})
	require.NoError(t, err)

	require.Len(t, f.runner.graphs, 1)
	assert.Equal(t, scheduler.Options{Parallelism: 3, NoCache: true, Root: project.Root}, f.runner.opts[0])
	assert.Equal(t, []string{filepath.Join(project.Root, ".forge", "signatures.json")}, f.signatures.paths)

	g := f.runner.graphs[0]
	link, ok := g.GetTask(domain.NewInternedString("link:ArduCopter"))
	require.True(t, ok)
	assert.Contains(t, domain.Strings(link.Dependencies),
		"compile:ap_libs:libraries/AP_Math.cpp")
	_, ok = g.GetTask(domain.NewInternedString("cmake_configure:px4"))
	assert.False(t, ok)
}

func TestApp_Build_SubBuild(t *testing.T) {
	f := newFixture(t)
	project := testProject(t, "px4-v2", true)
	variant := filepath.Join(project.Out, "px4-v2")

	env := domain.NewEnvironment()
	env.Set(domain.VarPX4Version, "2")
	env.Set(domain.VarProgramLib, filepath.Join(variant, "px4-extra-files", "libap_program.a"))

	f.loader.EXPECT().Load("forge.yaml").Return(project, nil)
	f.configs.EXPECT().Load(variant).Return(&domain.Configuration{
		Board:        "px4-v2",
		Env:          env,
		SubBuildVars: []domain.DefinePair{{Name: "CONFIG", Value: "nuttx_px4fmu-v2_apm"}},
	}, nil)
	f.manifests.EXPECT().Read(filepath.Join(variant, "modules/PX4Firmware")).Return(domain.ExternalBuildManifest{
		CXXFlags:    []string{"-mcpu=cortex-m4"},
		IncludeDirs: []string{"/px4/include"},
		Definitions: []string{"-D__PX4_NUTTX"},
	}, nil)
	f.revisions.EXPECT().Head(gomock.Any(), filepath.Join(project.Root, "modules/PX4NuttX")).Return("aaaaaaaabbbbbbbb", nil)
	f.revisions.EXPECT().Head(gomock.Any(), filepath.Join(project.Root, "modules/PX4Firmware")).Return("ccccccccdddddddd", nil)
	f.resolver.EXPECT().ResolveSources(gomock.Any(), project.Root).Return([]string{"main.cpp"}, nil).Times(2)
	f.logger.EXPECT().Info("running group dynamic_sources")
	f.logger.EXPECT().Info("running group build")

	err := f.app.Build(context.Background(), []string{"ArduCopter"}, app.BuildOptions{ProjectFile: "forge.yaml"})
	require.NoError(t, err)
	require.Len(t, f.runner.graphs, 2)

	dynamic := f.runner.graphs[0]
	configure, ok := dynamic.GetTask(domain.NewInternedString("cmake_configure:px4"))
	require.True(t, ok)
	assert.Contains(t, configure.Command, "-DCONFIG=nuttx_px4fmu-v2_apm")
	assert.Contains(t, configure.Command, filepath.Join(variant, "modules/PX4Firmware"))

	build := f.runner.graphs[1]
	_, ok = build.GetTask(domain.NewInternedString("px4_copy:ArduCopter"))
	assert.True(t, ok)
	firmware, ok := build.GetTask(domain.NewInternedString("cmake_build:px4:firmware_nuttx"))
	require.True(t, ok)
	assert.Equal(t, []string{"px4_copy:ArduCopter"}, domain.Strings(firmware.Dependencies))

	compile, ok := build.GetTask(domain.NewInternedString("compile:ArduCopter:main.cpp"))
	require.True(t, ok)
	assert.Contains(t, compile.Command, "-I/px4/include")
	assert.Contains(t, compile.Command, `-DNUTTX_GIT_VERSION="aaaaaaaa"`)
	assert.Contains(t, compile.Command, `-DPX4_GIT_VERSION="cccccccc"`)
}

func TestApp_Build_Failure(t *testing.T) {
	f := newFixture(t)
	project := testProject(t, "sitl", false)
	f.runner.err = errors.New("compile failed")

	f.loader.EXPECT().Load("forge.yaml").Return(project, nil)
	f.configs.EXPECT().Load(gomock.Any()).Return(&domain.Configuration{Board: "sitl", Env: domain.NewEnvironment()}, nil)
	f.resolver.EXPECT().ResolveSources(gomock.Any(), gomock.Any()).Return([]string{"a.cpp"}, nil).AnyTimes()
	f.logger.EXPECT().Info(gomock.Any())

	err := f.app.Build(context.Background(), nil, app.BuildOptions{ProjectFile: "forge.yaml"})
	require.ErrorIs(t, err, domain.ErrBuildExecutionFailed)
	assert.Contains(t, err.Error(), "compile failed")
}

func TestApp_Build_UnknownTarget(t *testing.T) {
	f := newFixture(t)
	project := testProject(t, "sitl", false)

	f.loader.EXPECT().Load("forge.yaml").Return(project, nil)
	f.configs.EXPECT().Load(gomock.Any()).Return(&domain.Configuration{Board: "sitl", Env: domain.NewEnvironment()}, nil)

	err := f.app.Build(context.Background(), []string{"AntennaTracker"}, app.BuildOptions{ProjectFile: "forge.yaml"})
	require.ErrorIs(t, err, domain.ErrTargetNotFound)
	assert.Empty(t, f.runner.graphs)
}

func TestApp_List(t *testing.T) {
	f := newFixture(t)
	f.loader.EXPECT().Load("forge.yaml").Return(testProject(t, "px4-v2", true), nil)

	names, err := f.app.List(context.Background(), "forge.yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{"ArduCopter", "ap_libs"}, names)
}

func TestApp_Boards(t *testing.T) {
	f := newFixture(t)
	names := f.app.Boards()
	assert.IsNonDecreasing(t, names)
	assert.Contains(t, names, "sitl")
	assert.Contains(t, names, "px4-v2")
}
