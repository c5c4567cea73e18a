// Package toolchain locates the compilers named by an environment's TOOLCHAIN.
package toolchain

import (
	"context"
	"os"

	"go.trai.ch/forge/internal/adapters/shell"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

// Native is the TOOLCHAIN value selecting the host compilers.
const Native = "native"

var _ ports.ToolchainDiscoverer = (*Discoverer)(nil)

// LookPathFunc resolves an executable name to a path.
type LookPathFunc func(file string) (string, error)

// Discoverer fills CC, CXX, AR and CP. A cross toolchain triple T selects
// T-gcc, T-g++ and T-ar; the native toolchain selects cc, c++ and ar.
// Variables that are already set are left alone.
type Discoverer struct {
	lookPath LookPathFunc
}

// NewDiscoverer creates a Discoverer that searches the process PATH.
func NewDiscoverer() *Discoverer {
	return NewDiscovererWithLookPath(func(file string) (string, error) {
		return shell.LookPath(file, os.Environ())
	})
}

// NewDiscovererWithLookPath creates a Discoverer using lookPath.
func NewDiscovererWithLookPath(lookPath LookPathFunc) *Discoverer {
	return &Discoverer{lookPath: lookPath}
}

// Programs returns the executable names used for toolchain, keyed by variable.
func Programs(toolchain string) []domain.DefinePair {
	prefix := ""
	cc, cxx := "cc", "c++"
	if toolchain != "" && toolchain != Native {
		prefix = toolchain + "-"
		cc, cxx = "gcc", "g++"
	}
	return []domain.DefinePair{
		{Name: domain.VarCC, Value: prefix + cc},
		{Name: domain.VarCXX, Value: prefix + cxx},
		{Name: domain.VarAR, Value: prefix + "ar"},
		{Name: domain.VarCP, Value: "cp"},
	}
}

// Discover resolves every program of env's toolchain and stores its path.
func (d *Discoverer) Discover(ctx context.Context, env *domain.Environment) error {
	toolchain := env.Flat(domain.VarToolchain)
	for _, prog := range Programs(toolchain) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if env.Has(prog.Name) && len(env.Get(prog.Name)) > 0 {
			continue
		}
		path, err := d.lookPath(prog.Value)
		if err != nil {
			err = zerr.With(zerr.Wrap(domain.ErrToolNotFound, "toolchain discovery failed"), "program", prog.Value)
			return zerr.With(err, "toolchain", toolchain)
		}
		env.Set(prog.Name, path)
	}
	return nil
}
