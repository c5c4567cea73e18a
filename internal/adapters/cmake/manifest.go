// Package cmake drives the nested CMake sub-build and reads what its
// configure step leaves behind.
package cmake

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

// Names of the files the sub-build's configure step writes into its binary directory.
const (
	CXXFlagsFile    = "cxx_flags"
	IncludeDirsFile = "include_dirs"
	DefinitionsFile = "definitions"
)

var _ ports.ManifestReader = (*ManifestReader)(nil)

// ManifestReader implements ports.ManifestReader.
type ManifestReader struct{}

// NewManifestReader creates a new ManifestReader.
func NewManifestReader() *ManifestReader {
	return &ManifestReader{}
}

// Read loads the three manifest files from dir. Each holds one
// semicolon-delimited list; empty entries are dropped.
func (r *ManifestReader) Read(dir string) (domain.ExternalBuildManifest, error) {
	var m domain.ExternalBuildManifest
	for _, f := range []struct {
		name string
		dst  *[]string
	}{
		{CXXFlagsFile, &m.CXXFlags},
		{IncludeDirsFile, &m.IncludeDirs},
		{DefinitionsFile, &m.Definitions},
	} {
		tokens, err := readList(filepath.Join(dir, f.name))
		if err != nil {
			return domain.ExternalBuildManifest{}, err
		}
		*f.dst = tokens
	}
	return m, nil
}

func readList(path string) ([]string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Path is built from the configured build directory
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, zerr.With(zerr.Wrap(domain.ErrMissingArtifact, "sub-build manifest file missing"), "path", path)
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to read sub-build manifest"), "path", path)
	}
	return SplitList(string(data)), nil
}

// SplitList splits a CMake list.
func SplitList(s string) []string {
	s = strings.TrimRight(s, "\r\n")
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ";")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
