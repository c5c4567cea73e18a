package domain

import (
	"slices"

	"go.trai.ch/zerr"
)

// TargetKind selects what a target produces.
type TargetKind string

const (
	// TargetProgram is linked into an executable (and, on PX4 boards, handed to the sub-build).
	TargetProgram TargetKind = "program"
	// TargetStaticLib is archived into a static library.
	TargetStaticLib TargetKind = "stlib"
	// TargetObjects only compiles; its objects are consumed by dependents.
	TargetObjects TargetKind = "objects"
)

// Target is a declared build target. Its Use list forms the link closure
// relation walked by the transitive link aggregator.
type Target struct {
	Name     InternedString
	Kind     TargetKind
	Sources  []string
	Use      []InternedString
	Includes []string
	Defines  []string
	CXXFlags []string

	// Populated when the target is posted.
	Posted          bool
	CompileTasks    []InternedString
	CompiledObjects []string
	LinkTask        *Task
}

// TargetGraph holds the declared targets of a project in declaration order.
type TargetGraph struct {
	targets map[InternedString]*Target
	order   []InternedString
}

// NewTargetGraph returns an empty TargetGraph.
func NewTargetGraph() *TargetGraph {
	return &TargetGraph{targets: make(map[InternedString]*Target)}
}

// Add registers t. Names must be unique.
func (g *TargetGraph) Add(t *Target) error {
	if _, exists := g.targets[t.Name]; exists {
		return zerr.With(zerr.Wrap(ErrTargetAlreadyExists, "cannot add target"), "target", t.Name.String())
	}
	g.targets[t.Name] = t
	g.order = append(g.order, t.Name)
	return nil
}

// Lookup returns the target called name.
func (g *TargetGraph) Lookup(name InternedString) (*Target, bool) {
	t, ok := g.targets[name]
	return t, ok
}

// Names returns target names in declaration order.
func (g *TargetGraph) Names() []InternedString {
	return slices.Clone(g.order)
}

// Len returns the number of targets.
func (g *TargetGraph) Len() int {
	return len(g.order)
}
