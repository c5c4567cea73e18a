package fs

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cespare/xxhash/v2"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher provides hashing functionality for tasks and files.
type Hasher struct {
	walker *Walker
}

// NewHasher creates a new Hasher.
func NewHasher(walker *Walker) *Hasher {
	return &Hasher{walker: walker}
}

// ComputeFileHash returns the XXHash of a file's content as 16 hex digits.
func (h *Hasher) ComputeFileHash(path string) (string, error) {
	sum, err := h.fileSum(path)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", sum), nil
}

func (h *Hasher) fileSum(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to hash file content"), "path", path)
	}

	return hasher.Sum64(), nil
}

// ComputeInputHash computes a single hash representing the task definition,
// environment, and input files. Relative inputs are resolved against root.
func (h *Hasher) ComputeInputHash(task *domain.Task, env map[string]string, root string) (string, error) {
	hasher := xxhash.New()

	hashTaskDefinition(task, hasher)
	hashEnvironment(env, hasher)

	for _, input := range task.Inputs {
		path := input.String()
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, path)
		}
		if err := h.hashInputPath(path, hasher); err != nil {
			return "", err
		}
	}

	if task.Depfile != "" {
		if err := h.hashDepfile(task, root, hasher); err != nil {
			return "", err
		}
	}

	return fmt.Sprintf("%016x", hasher.Sum64()), nil
}

func writeSection(hasher *xxhash.Digest, values []string) {
	for _, v := range values {
		_, _ = hasher.WriteString(v)
		_, _ = hasher.Write([]byte{0})
	}
	_, _ = hasher.Write([]byte{0})
}

// hashTaskDefinition hashes the task's name, command, inputs, outputs and dependencies.
// A changed compiler flag therefore changes the hash even when no file did.
func hashTaskDefinition(task *domain.Task, hasher *xxhash.Digest) {
	writeSection(hasher, []string{task.Name.String(), string(task.Kind)})
	writeSection(hasher, task.Command)
	writeSection(hasher, internedStrings(task.Inputs))
	writeSection(hasher, internedStrings(task.Outputs))
	writeSection(hasher, internedStrings(task.Dependencies))
	writeSection(hasher, []string{task.WorkingDir.String(), task.Depfile})
}

func internedStrings(in []domain.InternedString) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = s.String()
	}
	return out
}

// hashEnvironment hashes environment variables in a deterministic order.
func hashEnvironment(env map[string]string, hasher *xxhash.Digest) {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		_, _ = hasher.WriteString(k)
		_, _ = hasher.Write([]byte{'='})
		_, _ = hasher.WriteString(env[k])
		_, _ = hasher.Write([]byte{0})
	}
	_, _ = hasher.Write([]byte{0})
}

// hashInputPath hashes a single input path, attempting glob resolution if path doesn't exist.
func (h *Hasher) hashInputPath(path string, hasher *xxhash.Digest) error {
	if _, err := os.Stat(path); err != nil {
		return h.tryGlobAndHash(path, hasher)
	}
	return h.hashPath(path, hasher)
}

// tryGlobAndHash attempts to resolve a path as a glob pattern and hash all matches.
func (h *Hasher) tryGlobAndHash(path string, hasher *xxhash.Digest) error {
	matches, globErr := doublestar.FilepathGlob(path, doublestar.WithFilesOnly())
	if globErr == nil && len(matches) > 0 {
		for _, match := range matches {
			if err := h.hashPath(match, hasher); err != nil {
				return err
			}
		}
		return nil
	}
	return zerr.With(zerr.New("input not found"), "path", path)
}

func (h *Hasher) hashPath(path string, hasher io.Writer) error {
	info, err := os.Stat(path)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to stat path"), "path", path)
	}

	if !info.IsDir() {
		return h.hashFile(path, hasher)
	}
	for filePath := range h.walker.WalkFiles(path, nil) {
		if err := h.hashFile(filePath, hasher); err != nil {
			return err
		}
	}
	return nil
}

func (h *Hasher) hashFile(path string, hasher io.Writer) error {
	_, _ = hasher.Write([]byte(path))
	_, _ = hasher.Write([]byte{0})

	sum, err := h.fileSum(path)
	if err != nil {
		return err
	}

	if err := binary.Write(hasher, binary.LittleEndian, sum); err != nil {
		return zerr.Wrap(err, "failed to write hash to digest")
	}
	return nil
}
