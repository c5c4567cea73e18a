// Package ports defines the core interfaces for the application.
package ports

import "go.trai.ch/forge/internal/core/domain"

// ProjectLoader reads the project file.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ProjectLoader interface {
	// Load reads the project file at path and returns the declared project.
	Load(path string) (*domain.Project, error)
}

// ConfigurationStore persists the result of the configure phase.
type ConfigurationStore interface {
	// Save writes cfg under the variant directory dir.
	Save(dir string, cfg *domain.Configuration) error

	// Load reads the configuration saved under dir.
	// It returns domain.ErrNotConfigured when nothing was saved.
	Load(dir string) (*domain.Configuration, error)
}
