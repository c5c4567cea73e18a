package domain

import (
	"slices"
	"strings"
)

// Environment is an ordered mapping from variable name to either a token list
// (compiler flags, libraries) or a definition mapping (preprocessor definitions).
//
// Definition mappings stay keyed until they are consumed so that a later
// update of the same key replaces the earlier value instead of appending a
// second token. Use Flatten to obtain NAME=VALUE tokens.
type Environment struct {
	order []string
	vars  map[string]*variable
}

type variable struct {
	tokens  []string
	defines *Defines
}

// Variable is a serializable snapshot of one environment variable.
// Exactly one of Tokens or Defines is meaningful, as reported by IsDefines.
type Variable struct {
	Name      string
	Tokens    []string
	Defines   []DefinePair
	IsDefines bool
}

// NewEnvironment returns an empty Environment.
func NewEnvironment() *Environment {
	return &Environment{vars: make(map[string]*variable)}
}

// NewEnvironmentFrom rebuilds an Environment from a snapshot produced by Variables.
func NewEnvironmentFrom(vars []Variable) *Environment {
	env := NewEnvironment()
	for _, v := range vars {
		if v.IsDefines {
			d := env.definesVar(v.Name)
			for _, p := range v.Defines {
				d.Set(p.Name, p.Value)
			}
			continue
		}
		env.Append(v.Name, v.Tokens...)
	}
	return env
}

func (e *Environment) lookup(name string) *variable {
	v, ok := e.vars[name]
	if !ok {
		v = &variable{}
		e.vars[name] = v
		e.order = append(e.order, name)
	}
	return v
}

func (e *Environment) definesVar(name string) *Defines {
	v := e.lookup(name)
	if v.defines == nil {
		v.defines = NewDefines()
		// Tokens recorded before the variable became a mapping are already flat.
		for _, tok := range v.tokens {
			k, val := splitDefine(tok)
			v.defines.Set(k, val)
		}
		v.tokens = nil
	}
	return v.defines
}

// Append adds tokens after the current value of name.
func (e *Environment) Append(name string, tokens ...string) {
	v := e.lookup(name)
	if v.defines != nil {
		for _, tok := range tokens {
			k, val := splitDefine(tok)
			v.defines.Set(k, val)
		}
		return
	}
	v.tokens = append(v.tokens, tokens...)
}

// Prepend adds tokens before the current value of name, keeping their relative order.
func (e *Environment) Prepend(name string, tokens ...string) {
	v := e.lookup(name)
	if v.defines != nil {
		// A mapping has no position; flatten it so the prepended tokens keep priority.
		v.tokens = v.defines.Flatten()
		v.defines = nil
	}
	v.tokens = append(slices.Clone(tokens), v.tokens...)
}

// Set replaces the value of name.
func (e *Environment) Set(name string, tokens ...string) {
	v := e.lookup(name)
	v.defines = nil
	v.tokens = slices.Clone(tokens)
}

// Define sets key=value in the definition mapping name, creating it if needed.
// A later Define of the same key wins.
func (e *Environment) Define(name, key, value string) {
	e.definesVar(name).Set(key, value)
}

// InitDefines makes name an empty definition mapping unless it already is one.
func (e *Environment) InitDefines(name string) {
	e.definesVar(name)
}

// Get returns a copy of the tokens of name. Definition mappings are flattened.
func (e *Environment) Get(name string) []string {
	v, ok := e.vars[name]
	if !ok {
		return nil
	}
	if v.defines != nil {
		return v.defines.Flatten()
	}
	return slices.Clone(v.tokens)
}

// Flat returns the first token of name, or "" when unset.
// It is meant for scalar variables such as TOOLCHAIN.
func (e *Environment) Flat(name string) string {
	v, ok := e.vars[name]
	if !ok || v.defines != nil || len(v.tokens) == 0 {
		return ""
	}
	return v.tokens[0]
}

// Has reports whether name was ever assigned.
func (e *Environment) Has(name string) bool {
	_, ok := e.vars[name]
	return ok
}

// IsDefines reports whether name holds a definition mapping.
func (e *Environment) IsDefines(name string) bool {
	v, ok := e.vars[name]
	return ok && v.defines != nil
}

// Defines returns the definition mapping held by name, or nil.
func (e *Environment) Defines(name string) *Defines {
	v, ok := e.vars[name]
	if !ok {
		return nil
	}
	return v.defines
}

// Names returns variable names in first-assignment order.
func (e *Environment) Names() []string {
	return slices.Clone(e.order)
}

// Variables returns a snapshot of every variable in first-assignment order.
func (e *Environment) Variables() []Variable {
	out := make([]Variable, 0, len(e.order))
	for _, name := range e.order {
		v := e.vars[name]
		if v.defines != nil {
			out = append(out, Variable{Name: name, Defines: v.defines.Pairs(), IsDefines: true})
			continue
		}
		out = append(out, Variable{Name: name, Tokens: slices.Clone(v.tokens)})
	}
	return out
}

// Clone returns a deep copy.
func (e *Environment) Clone() *Environment {
	return NewEnvironmentFrom(e.Variables())
}

// DefinePair is one NAME=VALUE definition.
type DefinePair struct {
	Name  string
	Value string
}

// Token flattens the pair. An empty value yields a bare NAME.
func (p DefinePair) Token() string {
	if p.Value == "" {
		return p.Name
	}
	return p.Name + "=" + p.Value
}

// Defines is an insertion-ordered definition mapping.
type Defines struct {
	keys   []string
	values map[string]string
}

// NewDefines returns an empty mapping.
func NewDefines() *Defines {
	return &Defines{values: make(map[string]string)}
}

// Set updates key. The key keeps its original position when overwritten.
func (d *Defines) Set(key, value string) {
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = value
}

// Get returns the value of key.
func (d *Defines) Get(key string) (string, bool) {
	v, ok := d.values[key]
	return v, ok
}

// Len returns the number of keys.
func (d *Defines) Len() int {
	return len(d.keys)
}

// Pairs returns the mapping in iteration order.
func (d *Defines) Pairs() []DefinePair {
	out := make([]DefinePair, len(d.keys))
	for i, k := range d.keys {
		out[i] = DefinePair{Name: k, Value: d.values[k]}
	}
	return out
}

// Flatten converts the mapping to NAME=VALUE tokens in iteration order.
func (d *Defines) Flatten() []string {
	out := make([]string, len(d.keys))
	for i, k := range d.keys {
		out[i] = DefinePair{Name: k, Value: d.values[k]}.Token()
	}
	return out
}

func splitDefine(tok string) (string, string) {
	k, v, _ := strings.Cut(tok, "=")
	return k, v
}
