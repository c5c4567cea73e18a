// Package linker inlines the compiled objects of a program's transitive
// dependencies into its link step.
package linker

import (
	"context"
	"slices"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
)

// Aggregator implements ports.PreLinkHook.
//
// The sub-build's final link does not search archives the way the host
// toolchain does, so every locally compiled object in the closure is passed
// to the link task explicitly. Dependencies that expose no compiled objects
// (prebuilt archives, for instance) contribute nothing and are skipped.
type Aggregator struct{}

// NewAggregator creates an Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// PreLink walks target's use closure breadth-first. Each name is visited at
// most once, so cycles terminate. Unknown names are skipped. Every visited
// dependency is posted first; its objects become link inputs and its compile
// tasks become ordering edges of the link task.
func (a *Aggregator) PreLink(ctx context.Context, target *domain.Target, targets ports.TargetPoster) error {
	if target.Kind != domain.TargetProgram || target.LinkTask == nil {
		return nil
	}
	link := target.LinkTask

	queue := slices.Clone(target.Use)
	visited := make(map[domain.InternedString]bool)
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if visited[name] {
			continue
		}
		visited[name] = true

		dep, ok, err := targets.Post(ctx, name)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}

		for _, obj := range dep.CompiledObjects {
			in := domain.NewInternedString(obj)
			if !slices.Contains(link.Inputs, in) {
				link.Inputs = append(link.Inputs, in)
			}
		}
		link.After(dep.CompileTasks...)

		queue = append(queue, dep.Use...)
	}
	return nil
}
