package cmake

import (
	"fmt"
	"path/filepath"

	"go.trai.ch/forge/internal/core/domain"
)

// Names of the sub-build variables.
const (
	VarConfig          = "CONFIG"
	VarModulePath      = "CMAKE_MODULE_PATH"
	VarUAVCANPath      = "UAVCAN_LIBUAVCAN_PATH"
	VarNuttXSource     = "NUTTX_SRC"
	VarProgramLib      = "APM_PROGRAM_LIB"
	programLibFileName = "libap_program.a"
	extraFilesDir      = "px4-extra-files"
)

// DefaultName names the sub-build in task names.
const DefaultName = "px4"

// BuildDir is the sub-build's binary directory inside a variant directory.
// It mirrors the source location so generated files land where the sub-build expects them.
func BuildDir(variantDir string, cfg domain.SubBuildConfig) string {
	return filepath.Join(variantDir, cfg.Source)
}

// ProgramLibPath is where the primary build deposits the program library
// the firmware links against.
func ProgramLibPath(variantDir string) string {
	return filepath.Join(variantDir, extraFilesDir, programLibFileName)
}

// Vars returns the fixed variable set passed to the sub-build's configure
// step. Paths from cfg are resolved against root.
func Vars(root string, cfg domain.SubBuildConfig, px4Version, programLib string) []domain.DefinePair {
	abs := func(p string) string {
		if filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(root, p)
	}
	return []domain.DefinePair{
		{Name: VarConfig, Value: fmt.Sprintf("nuttx_px4fmu-v%s_apm", px4Version)},
		{Name: VarModulePath, Value: abs(cfg.CMakeModules)},
		{Name: VarUAVCANPath, Value: abs(cfg.UAVCAN)},
		{Name: VarNuttXSource, Value: abs(cfg.NuttX)},
		{Name: VarProgramLib, Value: programLib},
	}
}

// SubBuild creates the tasks that configure and build the nested project.
type SubBuild struct {
	Name     string
	Source   string
	BuildDir string
	Vars     []domain.DefinePair

	// Program is the cmake executable. Empty means "cmake" from PATH.
	Program string
}

func (s *SubBuild) program() string {
	if s.Program == "" {
		return "cmake"
	}
	return s.Program
}

func (s *SubBuild) name() string {
	if s.Name == "" {
		return DefaultName
	}
	return s.Name
}

// ConfigureTask runs the sub-build's configure step.
func (s *SubBuild) ConfigureTask() *domain.Task {
	cmd := []string{s.program(), "-S", s.Source, "-B", s.BuildDir}
	for _, v := range s.Vars {
		cmd = append(cmd, "-D"+v.Token())
	}
	return &domain.Task{
		Name:      domain.NewInternedString("cmake_configure:" + s.name()),
		Kind:      domain.TaskSubBuild,
		Label:     "CMake: configure " + s.name(),
		Command:   cmd,
		AlwaysRun: true,
	}
}

// BuildTask builds one target of the sub-build.
func (s *SubBuild) BuildTask(target string) *domain.Task {
	return &domain.Task{
		Name:      domain.NewInternedString("cmake_build:" + s.name() + ":" + target),
		Kind:      domain.TaskSubBuild,
		Label:     "CMake: build " + s.name() + " " + target,
		Command:   []string{s.program(), "--build", s.BuildDir, "--target", target},
		AlwaysRun: true,
	}
}
