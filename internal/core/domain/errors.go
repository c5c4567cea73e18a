package domain

import "go.trai.ch/zerr"

// Configuration errors. These abort the configure phase and are never retried.
var (
	// ErrDuplicateBoard is returned when a board name is registered twice.
	ErrDuplicateBoard = zerr.New("board already registered")

	// ErrUnknownBoard is returned when a board name or a board's parent cannot be resolved.
	ErrUnknownBoard = zerr.New("unknown board")

	// ErrBoardCycle is returned when a board's parent chain loops back on itself.
	ErrBoardCycle = zerr.New("board inheritance cycle")

	// ErrMissingArtifact is returned when a file generated by the sub-build's
	// configure step is absent.
	ErrMissingArtifact = zerr.New("missing sub-build artifact")

	// ErrNotConfigured is returned when a build is requested before configure ran.
	ErrNotConfigured = zerr.New("project is not configured")

	// ErrToolNotFound is returned when toolchain discovery cannot locate a compiler.
	ErrToolNotFound = zerr.New("tool not found")

	// ErrInvalidConfig is returned when the project file cannot be interpreted.
	ErrInvalidConfig = zerr.New("invalid project configuration")
)

// Graph and execution errors.
var (
	// ErrTaskAlreadyExists is returned when attempting to add a task with a name that already exists.
	ErrTaskAlreadyExists = zerr.New("task already exists")

	// ErrTargetAlreadyExists is returned when two targets share a name.
	ErrTargetAlreadyExists = zerr.New("target already exists")

	// ErrMissingDependency is returned when a task references a dependency that doesn't exist in the graph.
	ErrMissingDependency = zerr.New("missing dependency")

	// ErrCycleDetected is returned when a cycle is detected in the task dependency graph.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrTargetNotFound is returned when a requested target is not declared.
	ErrTargetNotFound = zerr.New("target not found")

	// ErrSubBuildFailed is returned when the nested build process fails.
	ErrSubBuildFailed = zerr.New("sub-build failed")

	// ErrBuildExecutionFailed is returned when one or more tasks of a build fail.
	ErrBuildExecutionFailed = zerr.New("build execution failed")
)
