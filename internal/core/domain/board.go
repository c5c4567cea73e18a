package domain

import "slices"

// BoardSpec declares one board: its name, an optional parent board it derives
// from, and the environment delta it applies on top of the parent's.
// Specs are plain data; composing a board is a fold of the deltas along
// the parent chain, root first.
type BoardSpec struct {
	Name   string
	Parent string
	Delta  EnvDelta
}

// OpKind identifies an environment delta operation.
type OpKind int

const (
	// OpAppend adds tokens after the variable's current value.
	OpAppend OpKind = iota
	// OpPrepend adds tokens before the variable's current value.
	OpPrepend
	// OpSet overwrites a variable, e.g. the TOOLCHAIN triple selector.
	OpSet
	// OpDefine updates one key of a definition mapping.
	OpDefine
)

// EnvOp is a single environment mutation.
type EnvOp struct {
	Kind   OpKind
	Var    string
	Tokens []string
	Key    string
	Value  string
}

// EnvDelta is the ordered list of mutations one board applies.
type EnvDelta []EnvOp

// Append returns an OpAppend operation.
func Append(name string, tokens ...string) EnvOp {
	return EnvOp{Kind: OpAppend, Var: name, Tokens: tokens}
}

// Prepend returns an OpPrepend operation.
func Prepend(name string, tokens ...string) EnvOp {
	return EnvOp{Kind: OpPrepend, Var: name, Tokens: tokens}
}

// Set returns an OpSet operation.
func Set(name string, tokens ...string) EnvOp {
	return EnvOp{Kind: OpSet, Var: name, Tokens: tokens}
}

// Define returns an OpDefine operation on the DEFINES mapping.
func Define(key, value string) EnvOp {
	return EnvOp{Kind: OpDefine, Var: VarDefines, Key: key, Value: value}
}

// Apply runs every operation of d against env in order.
func (d EnvDelta) Apply(env *Environment) {
	for _, op := range d {
		switch op.Kind {
		case OpAppend:
			env.Append(op.Var, op.Tokens...)
		case OpPrepend:
			env.Prepend(op.Var, op.Tokens...)
		case OpSet:
			env.Set(op.Var, op.Tokens...)
		case OpDefine:
			env.Define(op.Var, op.Key, op.Value)
		}
	}
}

// Clone returns a deep copy of d.
func (d EnvDelta) Clone() EnvDelta {
	out := make(EnvDelta, len(d))
	for i, op := range d {
		op.Tokens = slices.Clone(op.Tokens)
		out[i] = op
	}
	return out
}

// Well-known environment variable names.
const (
	VarCFlags      = "CFLAGS"
	VarCXXFlags    = "CXXFLAGS"
	VarLinkFlags   = "LINKFLAGS"
	VarDefines     = "DEFINES"
	VarIncludes    = "INCLUDES"
	VarLib         = "LIB"
	VarToolchain   = "TOOLCHAIN"
	VarAPLibraries = "AP_LIBRARIES"
	VarStaticLink  = "STATIC_LINKING"
	VarPX4Version  = "PX4_VERSION"
	VarCC          = "CC"
	VarCXX         = "CXX"
	VarAR          = "AR"
	VarCP          = "CP"
	VarProgramLib  = "PX4_AP_PROGRAM_LIB"
)
