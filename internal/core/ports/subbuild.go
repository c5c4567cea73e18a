package ports

import (
	"context"

	"go.trai.ch/forge/internal/core/domain"
)

// ManifestReader reads the files the sub-build's configure step emits.
//
//go:generate go run go.uber.org/mock/mockgen -source=subbuild.go -destination=mocks/mock_subbuild.go -package=mocks
type ManifestReader interface {
	// Read loads the compiler flags, include directories and definitions from dir.
	// A missing file yields domain.ErrMissingArtifact.
	Read(dir string) (domain.ExternalBuildManifest, error)
}

// RevisionReader reports the checked-out revision of a source tree.
type RevisionReader interface {
	// Head returns the full revision hash checked out at path.
	Head(ctx context.Context, path string) (string, error)
}

// ArtifactCopier copies a build artifact to a location outside the task graph.
type ArtifactCopier interface {
	Copy(src, dst string) error
}
