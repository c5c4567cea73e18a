package domain

// TaskStatus represents the lifecycle state of a task during one build.
type TaskStatus string

const (
	// StatusPending indicates the task is waiting for its dependencies.
	StatusPending TaskStatus = "pending"
	// StatusRunning indicates the task is executing.
	StatusRunning TaskStatus = "running"
	// StatusCompleted indicates the task executed successfully.
	StatusCompleted TaskStatus = "completed"
	// StatusFailed indicates the task failed.
	StatusFailed TaskStatus = "failed"
	// StatusCached indicates the task was skipped because its result was up to date.
	StatusCached TaskStatus = "cached"
)

// IsTerminal reports whether s is a final state.
func (s TaskStatus) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCached:
		return true
	default:
		return false
	}
}

// CopyState is the freshness of an incremental copy's pseudo-target.
type CopyState string

const (
	// CopyStale means the copy must run.
	CopyStale CopyState = "stale"
	// CopyFresh means the pseudo-target already holds the input's content.
	CopyFresh CopyState = "fresh"
)

// LogLevel represents the severity of a log line, mirroring the slog levels.
type LogLevel int

const (
	// LogLevelDebug represents debug-level verbosity.
	LogLevelDebug LogLevel = -4
	// LogLevelInfo represents informational verbosity.
	LogLevelInfo LogLevel = 0
	// LogLevelWarn represents warning verbosity.
	LogLevelWarn LogLevel = 4
	// LogLevelError represents error verbosity.
	LogLevelError LogLevel = 8
)

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}
