// Package config loads forge.yaml and persists the result of the configure phase.
package config

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// SupportedVersion is the only project file version understood.
const SupportedVersion = "1"

var _ ports.ProjectLoader = (*Loader)(nil)

// Loader implements ports.ProjectLoader.
type Loader struct {
	logger ports.Logger
}

// NewLoader creates a new Loader.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{logger: logger}
}

// Discover returns the path of the nearest project file named name in start
// or one of its parents.
func Discover(start, name string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", zerr.Wrap(err, "failed to resolve start directory")
	}
	for {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", zerr.With(zerr.Wrap(fs.ErrNotExist, "project file not found"), "name", name)
		}
		dir = parent
	}
}

// Load reads the project file at path. The project root is the file's directory.
func (l *Loader) Load(path string) (*domain.Project, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to resolve project file path")
	}

	data, err := os.ReadFile(absPath) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read project file"), "path", absPath)
	}

	var file Forgefile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, zerr.With(zerr.Wrap(errors.Join(domain.ErrInvalidConfig, err), "failed to parse project file"), "path", absPath)
	}

	if file.Version != "" && file.Version != SupportedVersion {
		err := zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "unsupported project file version"), "version", file.Version)
		return nil, zerr.With(err, "path", absPath)
	}

	root := filepath.Dir(absPath)
	project := &domain.Project{
		Root:    root,
		Board:   file.Board,
		Out:     resolve(root, defaultString(file.Out, domain.DefaultOutDir)),
		Targets: domain.NewTargetGraph(),
	}
	if file.SubBuild != nil {
		project.SubBuild = domain.SubBuildConfig{
			Source:       file.SubBuild.Source,
			NuttX:        file.SubBuild.NuttX,
			UAVCAN:       file.SubBuild.UAVCAN,
			CMakeModules: file.SubBuild.CMakeModules,
		}
	}

	for _, nt := range file.Targets {
		target, err := toTarget(nt)
		if err != nil {
			return nil, zerr.With(err, "path", absPath)
		}
		if err := project.Targets.Add(target); err != nil {
			return nil, err
		}
	}

	l.warnUnknownUses(project.Targets)
	return project, nil
}

func toTarget(nt NamedTarget) (*domain.Target, error) {
	if nt.Name == "" {
		return nil, zerr.Wrap(domain.ErrInvalidConfig, "target name must not be empty")
	}

	kind := domain.TargetKind(defaultString(nt.Target.Kind, string(domain.TargetProgram)))
	switch kind {
	case domain.TargetProgram, domain.TargetStaticLib, domain.TargetObjects:
	default:
		err := zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "unknown target kind"), "kind", string(kind))
		return nil, zerr.With(err, "target", nt.Name)
	}

	defines := make([]string, len(nt.Target.Defines))
	for i, d := range nt.Target.Defines {
		defines[i] = d.Token()
	}

	return &domain.Target{
		Name:     domain.NewInternedString(nt.Name),
		Kind:     kind,
		Sources:  slices.Clone(nt.Target.Sources),
		Use:      domain.NewInternedStrings(nt.Target.Use),
		Includes: slices.Clone(nt.Target.Includes),
		Defines:  defines,
		CXXFlags: slices.Clone(nt.Target.CXXFlags),
	}, nil
}

// warnUnknownUses reports use entries that name no target. They are skipped
// when linking, which is easy to miss.
func (l *Loader) warnUnknownUses(targets *domain.TargetGraph) {
	for _, name := range targets.Names() {
		t, _ := targets.Lookup(name)
		for _, use := range t.Use {
			if _, ok := targets.Lookup(use); !ok {
				l.logger.Warn("target " + name.String() + " uses unknown target " + use.String())
			}
		}
	}
}

func defaultString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func resolve(root, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
