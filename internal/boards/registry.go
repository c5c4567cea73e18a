// Package boards holds the board specification registry.
//
// A registry is filled once at start-up and only read afterwards, so lookups
// take no lock.
package boards

import (
	"slices"
	"strings"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/zerr"
)

// Registry maps board names to their specifications.
type Registry struct {
	specs map[string]domain.BoardSpec
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{specs: make(map[string]domain.BoardSpec)}
}

// Register adds spec. A second spec with the same name is rejected with
// domain.ErrDuplicateBoard. Parents are looked up by name when a chain is
// resolved, so a child may be registered before its parent.
func (r *Registry) Register(spec domain.BoardSpec) error {
	if _, exists := r.specs[spec.Name]; exists {
		return zerr.With(zerr.Wrap(domain.ErrDuplicateBoard, "register board"), "board", spec.Name)
	}
	spec.Delta = spec.Delta.Clone()
	r.specs[spec.Name] = spec
	return nil
}

// Resolve returns the spec registered under name.
func (r *Registry) Resolve(name string) (domain.BoardSpec, error) {
	spec, ok := r.specs[name]
	if !ok {
		return domain.BoardSpec{}, r.unknown(name)
	}
	return spec, nil
}

// Names returns every registered board name in lexicographic order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.specs))
	for name := range r.specs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Chain returns the specs from the root ancestor down to name.
func (r *Registry) Chain(name string) ([]domain.BoardSpec, error) {
	spec, err := r.Resolve(name)
	if err != nil {
		return nil, err
	}

	chain := []domain.BoardSpec{spec}
	seen := map[string]bool{spec.Name: true}
	for spec.Parent != "" {
		parent, ok := r.specs[spec.Parent]
		if !ok {
			err := zerr.With(r.unknown(spec.Parent), "child", spec.Name)
			return nil, err
		}
		if seen[parent.Name] {
			err := zerr.Wrap(domain.ErrBoardCycle, "resolve board chain")
			return nil, zerr.With(err, "board", name)
		}
		seen[parent.Name] = true
		chain = append(chain, parent)
		spec = parent
	}

	slices.Reverse(chain)
	return chain, nil
}

func (r *Registry) unknown(name string) error {
	err := zerr.With(zerr.Wrap(domain.ErrUnknownBoard, "resolve board"), "board", name)
	return zerr.With(err, "available", strings.Join(r.Names(), ", "))
}
