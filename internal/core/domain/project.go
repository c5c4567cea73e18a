package domain

import "path/filepath"

// SubBuildConfig locates the nested CMake project and the source trees it
// needs, relative to the project root.
type SubBuildConfig struct {
	Source       string
	NuttX        string
	UAVCAN       string
	CMakeModules string
}

// Enabled reports whether the project declares a sub-build.
func (c SubBuildConfig) Enabled() bool {
	return c.Source != ""
}

// Project is the loaded project file.
type Project struct {
	Root     string
	Board    string
	Out      string
	Targets  *TargetGraph
	SubBuild SubBuildConfig
}

// Configuration is the result of the configure phase, persisted so that
// later builds reuse it without recomposing the board.
type Configuration struct {
	Board string
	Env   *Environment

	// SubBuildVars are the named variables handed to the sub-build's configure
	// step. Empty when the board has no sub-build.
	SubBuildVars []DefinePair
}

// VariantDir is the per-board build directory under the build root.
func VariantDir(out, board string) string {
	if out == "" {
		out = DefaultOutDir
	}
	return filepath.Join(out, board)
}
