package fs

import (
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.SourceResolver = (*Resolver)(nil)

// Resolver implements ports.SourceResolver with doublestar globs, so
// patterns may use ** to cross directories.
type Resolver struct{}

// NewResolver creates a new Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// ResolveSources resolves the given patterns to a sorted, duplicate-free list
// of files. Relative patterns yield paths relative to root; absolute
// patterns yield absolute paths. A pattern matching nothing is an error.
func (r *Resolver) ResolveSources(patterns []string, root string) ([]string, error) {
	unique := make(map[string]struct{})

	for _, pattern := range patterns {
		matches, err := r.glob(pattern, root)
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "source pattern matched no files"), "pattern", pattern)
		}
		for _, m := range matches {
			unique[m] = struct{}{}
		}
	}

	result := make([]string, 0, len(unique))
	for path := range unique {
		result = append(result, path)
	}
	slices.Sort(result)

	return result, nil
}

func (r *Resolver) glob(pattern, root string) ([]string, error) {
	if filepath.IsAbs(pattern) {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to glob path"), "pattern", pattern)
		}
		return matches, nil
	}

	slashed := filepath.ToSlash(filepath.Clean(pattern))
	if !doublestar.ValidatePattern(slashed) {
		return nil, zerr.With(zerr.Wrap(doublestar.ErrBadPattern, "failed to glob path"), "pattern", pattern)
	}

	matches, err := doublestar.Glob(os.DirFS(root), slashed, doublestar.WithFilesOnly())
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to glob path"), "pattern", pattern)
	}
	for i, m := range matches {
		matches[i] = filepath.FromSlash(m)
	}
	return matches, nil
}
