package config

import (
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Forgefile represents the structure of the forge.yaml project file.
type Forgefile struct {
	Version  string       `yaml:"version"`
	Board    string       `yaml:"board"`
	Out      string       `yaml:"out"`
	Targets  TargetList   `yaml:"targets"`
	SubBuild *SubBuildDTO `yaml:"subbuild"`
}

// TargetDTO represents a target definition in the project file.
type TargetDTO struct {
	Kind     string     `yaml:"kind"`
	Sources  []string   `yaml:"sources"`
	Use      []string   `yaml:"use"`
	Includes []string   `yaml:"includes"`
	Defines  DefineList `yaml:"defines"`
	CXXFlags []string   `yaml:"cxxflags"`
}

// SubBuildDTO locates the nested CMake project.
type SubBuildDTO struct {
	Source       string `yaml:"source"`
	NuttX        string `yaml:"nuttx"`
	UAVCAN       string `yaml:"uavcan"`
	CMakeModules string `yaml:"cmake_modules"`
}

// NamedTarget is one entry of the targets mapping.
type NamedTarget struct {
	Name   string
	Target TargetDTO
}

// TargetList keeps the targets mapping in file order.
type TargetList []NamedTarget

// UnmarshalYAML decodes a mapping node without losing key order.
func (l *TargetList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "targets must be a mapping"), "line", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		var dto TargetDTO
		if err := node.Content[i+1].Decode(&dto); err != nil {
			return zerr.With(zerr.Wrap(err, "invalid target"), "target", node.Content[i].Value)
		}
		*l = append(*l, NamedTarget{Name: node.Content[i].Value, Target: dto})
	}
	return nil
}

// DefineList keeps a definitions mapping in file order.
type DefineList []domain.DefinePair

// UnmarshalYAML decodes a mapping node without losing key order.
func (l *DefineList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "defines must be a mapping"), "line", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		*l = append(*l, domain.DefinePair{Name: node.Content[i].Value, Value: node.Content[i+1].Value})
	}
	return nil
}

// configFile is the persisted result of the configure phase.
type configFile struct {
	Board        string              `yaml:"board"`
	Env          []variableDTO       `yaml:"env"`
	SubBuildVars []domain.DefinePair `yaml:"subbuild_vars,omitempty"`
}

type variableDTO struct {
	Name    string              `yaml:"name"`
	Tokens  []string            `yaml:"tokens,omitempty"`
	Defines []domain.DefinePair `yaml:"defines,omitempty"`
	Mapping bool                `yaml:"mapping,omitempty"`
}
