package domain

import "slices"

// TaskKind selects how the scheduler runs a task.
type TaskKind string

const (
	// TaskCommand runs Command through the executor behind an input-hash cache.
	TaskCommand TaskKind = "command"
	// TaskCopy is an incremental artifact copy judged by content signature.
	TaskCopy TaskKind = "copy"
	// TaskSubBuild invokes the nested build; its failures surface as ErrSubBuildFailed.
	TaskSubBuild TaskKind = "subbuild"
)

// Task represents a unit of work in the build graph.
// It uses InternedString for fields that are frequently repeated to save memory.
type Task struct {
	Name         InternedString
	Kind         TaskKind
	Label        string
	Command      []string
	Inputs       []InternedString
	Outputs      []InternedString
	Dependencies []InternedString
	Environment  map[string]string
	WorkingDir   InternedString

	// Depfile is the make-style dependency file the command writes. The
	// prerequisites it lists are hashed as additional inputs.
	Depfile string

	// AlwaysRun bypasses the input-hash cache. Sub-build invocations set it
	// because the nested build tracks its own freshness.
	AlwaysRun bool
}

// AddInputs appends paths to Inputs.
func (t *Task) AddInputs(paths ...string) {
	for _, p := range paths {
		t.Inputs = append(t.Inputs, NewInternedString(p))
	}
}

// After adds ordering edges from t to every task in deps, skipping duplicates.
func (t *Task) After(deps ...InternedString) {
	for _, d := range deps {
		if d == t.Name {
			continue
		}
		if !slices.Contains(t.Dependencies, d) {
			t.Dependencies = append(t.Dependencies, d)
		}
	}
}

// DisplayName is the label shown in logs and telemetry.
func (t *Task) DisplayName() string {
	if t.Label != "" {
		return t.Label
	}
	return t.Name.String()
}
