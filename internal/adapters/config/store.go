package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigurationStore = (*Store)(nil)

// Store implements ports.ConfigurationStore with one YAML file per variant directory.
type Store struct{}

// NewStore creates a new Store.
func NewStore() *Store {
	return &Store{}
}

// Save writes cfg to dir/forge_config.yaml, replacing any previous file atomically.
func (s *Store) Save(dir string, cfg *domain.Configuration) error {
	file := configFile{
		Board:        cfg.Board,
		SubBuildVars: cfg.SubBuildVars,
	}
	if cfg.Env != nil {
		for _, v := range cfg.Env.Variables() {
			file.Env = append(file.Env, variableDTO{
				Name:    v.Name,
				Tokens:  v.Tokens,
				Defines: v.Defines,
				Mapping: v.IsDefines,
			})
		}
	}

	data, err := yaml.Marshal(&file)
	if err != nil {
		return zerr.Wrap(err, "failed to marshal configuration")
	}

	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create variant directory"), "path", dir)
	}

	path := filepath.Join(dir, domain.ConfigFileName)
	tmp, err := os.CreateTemp(dir, domain.ConfigFileName+".*")
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create temporary configuration file"), "path", path)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // Already renamed on success

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return zerr.With(zerr.Wrap(err, "failed to write configuration"), "path", path)
	}
	if err := tmp.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write configuration"), "path", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to replace configuration"), "path", path)
	}
	return nil
}

// Load reads the configuration saved under dir.
func (s *Store) Load(dir string) (*domain.Configuration, error) {
	path := filepath.Join(dir, domain.ConfigFileName)
	data, err := os.ReadFile(path) //nolint:gosec // Path is built from the configured build directory
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, zerr.With(zerr.Wrap(domain.ErrNotConfigured, "run forge configure first"), "path", path)
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to read configuration"), "path", path)
	}

	var file configFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.With(zerr.Wrap(errors.Join(domain.ErrInvalidConfig, err), "failed to parse configuration"), "path", path)
	}
	if file.Board == "" {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "configuration names no board"), "path", path)
	}

	vars := make([]domain.Variable, len(file.Env))
	for i, v := range file.Env {
		vars[i] = domain.Variable{
			Name:      v.Name,
			Tokens:    v.Tokens,
			Defines:   v.Defines,
			IsDefines: v.Mapping,
		}
	}

	return &domain.Configuration{
		Board:        file.Board,
		Env:          domain.NewEnvironmentFrom(vars),
		SubBuildVars: file.SubBuildVars,
	}, nil
}
