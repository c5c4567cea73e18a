package planner

import (
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/forge/internal/core/domain"
)

func tool(env *domain.Environment, name, fallback string) []string {
	if tokens := env.Get(name); len(tokens) > 0 {
		return tokens
	}
	return []string{fallback}
}

func isC(src string) bool {
	return strings.EqualFold(filepath.Ext(src), ".c")
}

func (p *Planner) compileTask(t *domain.Target, src string) *domain.Task {
	env := p.opts.Env
	obj := filepath.Join(p.opts.VariantDir, "obj", t.Name.String(), src+".o")

	var cmd []string
	if isC(src) {
		cmd = append(cmd, tool(env, domain.VarCC, "cc")...)
		cmd = append(cmd, env.Get(domain.VarCFlags)...)
	} else {
		cmd = append(cmd, tool(env, domain.VarCXX, "c++")...)
		cmd = append(cmd, t.CXXFlags...)
		cmd = append(cmd, env.Get(domain.VarCXXFlags)...)
	}
	for _, inc := range slices.Concat(t.Includes, env.Get(domain.VarIncludes)) {
		cmd = append(cmd, "-I"+p.abs(inc))
	}
	for _, def := range slices.Concat(env.Get(domain.VarDefines), t.Defines) {
		cmd = append(cmd, "-D"+def)
	}
	cmd = append(cmd, "-MMD", "-MF", obj+".d", "-c", p.abs(src), "-o", obj)

	return &domain.Task{
		Name:       domain.NewInternedString("compile:" + t.Name.String() + ":" + src),
		Kind:       domain.TaskCommand,
		Label:      "Compiling " + src,
		Command:    cmd,
		Inputs:     domain.NewInternedStrings([]string{p.abs(src)}),
		Outputs:    domain.NewInternedStrings([]string{obj}),
		WorkingDir: domain.NewInternedString(p.opts.Root),
		Depfile:    obj + ".d",
	}
}

// linkTask prepares the link step of a program. Its command is filled in by
// finalizeLink once hooks have settled the inputs. With a sub-build the
// program is archived instead, since the nested build performs the final link.
func (p *Planner) linkTask(t *domain.Target) *domain.Task {
	out := filepath.Join(p.opts.VariantDir, "bin", t.Name.String())
	if p.opts.SubBuild != nil {
		out = filepath.Join(p.opts.VariantDir, "bin", "lib"+t.Name.String()+".a")
	}

	task := &domain.Task{
		Name:       domain.NewInternedString("link:" + t.Name.String()),
		Kind:       domain.TaskCommand,
		Label:      "Linking " + t.Name.String(),
		Outputs:    domain.NewInternedStrings([]string{out}),
		WorkingDir: domain.NewInternedString(p.opts.Root),
	}
	task.AddInputs(t.CompiledObjects...)
	task.After(t.CompileTasks...)
	return task
}

func (p *Planner) finalizeLink(t *domain.Target) {
	task := t.LinkTask
	env := p.opts.Env
	out := task.Outputs[0].String()
	inputs := domain.Strings(task.Inputs)

	if p.opts.SubBuild != nil {
		task.Command = slices.Concat(tool(env, domain.VarAR, "ar"), []string{"rcs", out}, inputs)
		return
	}

	cmd := slices.Concat(tool(env, domain.VarCXX, "c++"), env.Get(domain.VarLinkFlags), inputs, []string{"-o", out})
	if env.Flat(domain.VarStaticLink) == "true" {
		cmd = append(cmd, "-static")
	}
	for _, lib := range env.Get(domain.VarLib) {
		cmd = append(cmd, "-l"+lib)
	}
	task.Command = cmd
}

func (p *Planner) staticLibPath(name string) string {
	return filepath.Join(p.opts.VariantDir, "lib", "lib"+name+".a")
}

func (p *Planner) archiveTask(t *domain.Target, out string) *domain.Task {
	task := &domain.Task{
		Name:       domain.NewInternedString("archive:" + t.Name.String()),
		Kind:       domain.TaskCommand,
		Label:      "Archiving " + t.Name.String(),
		Command:    slices.Concat(tool(p.opts.Env, domain.VarAR, "ar"), []string{"rcs", out}),
		Outputs:    domain.NewInternedStrings([]string{out}),
		WorkingDir: domain.NewInternedString(p.opts.Root),
	}
	task.AddInputs(t.CompiledObjects...)
	task.After(t.CompileTasks...)
	return task
}
