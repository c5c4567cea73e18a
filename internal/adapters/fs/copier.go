package fs

import (
	"os"
	"path/filepath"

	cp "github.com/otiai10/copy"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ArtifactCopier = (*Copier)(nil)

// Copier copies build artifacts. The destination is replaced by rename,
// so an interrupted copy never leaves a truncated file at dst.
type Copier struct{}

// NewCopier creates a new Copier.
func NewCopier() *Copier {
	return &Copier{}
}

// Copy copies the file at src to dst, creating dst's parent directories.
func (c *Copier) Copy(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create destination directory"), "path", dst)
	}

	tmp := dst + ".partial"
	if err := cp.Copy(src, tmp, cp.Options{Sync: true}); err != nil {
		_ = os.Remove(tmp)
		return zerr.With(zerr.With(zerr.Wrap(err, "failed to copy artifact"), "src", src), "dst", dst)
	}
	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return zerr.With(zerr.Wrap(err, "failed to move artifact into place"), "dst", dst)
	}
	return nil
}
