// Package composer turns a board's inheritance chain into the compiler and
// linker environment used by the build.
package composer

import (
	"context"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

// ChainResolver returns a board's specs ordered from root ancestor to the board.
type ChainResolver interface {
	Chain(name string) ([]domain.BoardSpec, error)
}

// Overrides are the values given on the command line at configure time.
// They take precedence over everything a board declares.
type Overrides struct {
	CFlags    []string
	CXXFlags  []string
	LinkFlags []string
	Defines   []domain.DefinePair
}

// scalarVars hold a single value; merging replaces them instead of prepending.
var scalarVars = map[string]bool{
	domain.VarToolchain:  true,
	domain.VarPX4Version: true,
	domain.VarStaticLink: true,
}

// Composer composes board environments.
type Composer struct {
	boards     ChainResolver
	discoverer ports.ToolchainDiscoverer
}

// New creates a Composer.
func New(boards ChainResolver, discoverer ports.ToolchainDiscoverer) *Composer {
	return &Composer{boards: boards, discoverer: discoverer}
}

// Compose returns the environment of board: the baseline flags followed by
// every ancestor's delta, root first. Each call starts from a fresh
// environment.
func (c *Composer) Compose(board string) (*domain.Environment, error) {
	chain, err := c.boards.Chain(board)
	if err != nil {
		return nil, err
	}

	env := Baseline()
	for _, spec := range chain {
		spec.Delta.Apply(env)
	}
	return env, nil
}

// Merge publishes env into dst. Token variables are prepended so values
// already in dst keep their position after the board's. Definition mappings
// are flattened here, in mapping order.
func Merge(dst, env *domain.Environment) {
	for _, v := range env.Variables() {
		switch {
		case v.IsDefines:
			tokens := make([]string, len(v.Defines))
			for i, p := range v.Defines {
				tokens[i] = p.Token()
			}
			dst.Prepend(v.Name, tokens...)
		case scalarVars[v.Name]:
			dst.Set(v.Name, v.Tokens...)
		default:
			dst.Prepend(v.Name, v.Tokens...)
		}
	}
}

// Configure composes board, merges it into a copy of base, prepends the
// command-line overrides and runs toolchain discovery on the result.
// base is not modified.
func (c *Composer) Configure(
	ctx context.Context,
	board string,
	base *domain.Environment,
	overrides Overrides,
) (*domain.Environment, error) {
	env, err := c.Compose(board)
	if err != nil {
		return nil, err
	}

	final := domain.NewEnvironment()
	if base != nil {
		final = base.Clone()
	}
	Merge(final, env)
	applyOverrides(final, overrides)

	if err := c.discoverer.Discover(ctx, final); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "toolchain discovery failed"), "board", board)
	}
	return final, nil
}

func applyOverrides(env *domain.Environment, o Overrides) {
	if len(o.CFlags) > 0 {
		env.Prepend(domain.VarCFlags, o.CFlags...)
	}
	if len(o.CXXFlags) > 0 {
		env.Prepend(domain.VarCXXFlags, o.CXXFlags...)
	}
	if len(o.LinkFlags) > 0 {
		env.Prepend(domain.VarLinkFlags, o.LinkFlags...)
	}
	if len(o.Defines) > 0 {
		tokens := make([]string, len(o.Defines))
		for i, p := range o.Defines {
			tokens[i] = p.Token()
		}
		env.Prepend(domain.VarDefines, tokens...)
	}
}
