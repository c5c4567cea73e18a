// Package git reads revisions of nested source trees with go-git.
package git

import (
	"context"

	gogit "github.com/go-git/go-git/v5"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.RevisionReader = (*RevisionReader)(nil)

// RevisionReader implements ports.RevisionReader. Submodule checkouts,
// whose .git is a file pointing into the superproject, are supported.
type RevisionReader struct{}

// NewRevisionReader creates a new RevisionReader.
func NewRevisionReader() *RevisionReader {
	return &RevisionReader{}
}

// Head returns the full hash of the commit checked out at path.
func (r *RevisionReader) Head(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{
		DetectDotGit:          false,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to open repository"), "path", path)
	}

	head, err := repo.Head()
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to resolve HEAD"), "path", path)
	}

	return head.Hash().String(), nil
}
