package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/forge/internal/adapters/fs"
	"go.trai.ch/forge/internal/core/domain"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestWalker_WalkFiles(t *testing.T) {
	// tmp/
	//   .git/config
	//   .forge/signatures.json
	//   ignored/file
	//   src/main.cpp
	//   README.md
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".git", "config"), "git config")
	writeFile(t, filepath.Join(tmpDir, ".forge", "signatures.json"), "{}")
	writeFile(t, filepath.Join(tmpDir, "ignored", "file"), "ignored content")
	writeFile(t, filepath.Join(tmpDir, "src", "main.cpp"), "int main() {}")
	writeFile(t, filepath.Join(tmpDir, "README.md"), "# Readme")

	walker := fs.NewWalker()

	var files []string
	for path := range walker.WalkFiles(tmpDir, []string{"ignored"}) {
		rel, err := filepath.Rel(tmpDir, path)
		require.NoError(t, err)
		files = append(files, filepath.ToSlash(rel))
	}

	assert.Equal(t, []string{"README.md", "src/main.cpp"}, files)
}

func TestWalker_WalkFiles_StopsEarly(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "a"), "a")
	writeFile(t, filepath.Join(tmpDir, "b"), "b")

	count := 0
	for range fs.NewWalker().WalkFiles(tmpDir, nil) {
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestHasher_ComputeFileHash(t *testing.T) {
	path := filepath.Join(t.TempDir(), "libap_program.a")
	writeFile(t, path, "hello world")

	hasher := fs.NewHasher(fs.NewWalker())

	hash1, err := hasher.ComputeFileHash(path)
	require.NoError(t, err)
	assert.Len(t, hash1, 16)

	hash2, err := hasher.ComputeFileHash(path)
	require.NoError(t, err)
	assert.Equal(t, hash1, hash2)

	writeFile(t, path, "hello world!")
	hash3, err := hasher.ComputeFileHash(path)
	require.NoError(t, err)
	assert.NotEqual(t, hash1, hash3)
}

func TestHasher_ComputeFileHash_Missing(t *testing.T) {
	hasher := fs.NewHasher(fs.NewWalker())

	_, err := hasher.ComputeFileHash(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open file")
}

func TestHasher_ComputeInputHash(t *testing.T) {
	tmpDir := t.TempDir()
	inputFile := filepath.Join(tmpDir, "input.cpp")
	writeFile(t, inputFile, "input content")

	hasher := fs.NewHasher(fs.NewWalker())

	newTask := func(name string, command ...string) *domain.Task {
		return &domain.Task{
			Name:    domain.NewInternedString(name),
			Command: command,
			Inputs:  []domain.InternedString{domain.NewInternedString("input.cpp")},
		}
	}
	env := map[string]string{"KEY": "VALUE"}

	base, err := hasher.ComputeInputHash(newTask("task1", "c++", "-Os"), env, tmpDir)
	require.NoError(t, err)

	t.Run("task name", func(t *testing.T) {
		h, err := hasher.ComputeInputHash(newTask("task2", "c++", "-Os"), env, tmpDir)
		require.NoError(t, err)
		assert.NotEqual(t, base, h)
	})

	t.Run("command", func(t *testing.T) {
		h, err := hasher.ComputeInputHash(newTask("task1", "c++", "-O2"), env, tmpDir)
		require.NoError(t, err)
		assert.NotEqual(t, base, h)
	})

	t.Run("environment", func(t *testing.T) {
		h, err := hasher.ComputeInputHash(newTask("task1", "c++", "-Os"), map[string]string{"KEY": "VALUE2"}, tmpDir)
		require.NoError(t, err)
		assert.NotEqual(t, base, h)
	})

	t.Run("absolute input", func(t *testing.T) {
		task := newTask("task1", "c++", "-Os")
		task.Inputs = []domain.InternedString{domain.NewInternedString(inputFile)}
		h, err := hasher.ComputeInputHash(task, env, "/elsewhere")
		require.NoError(t, err)
		assert.NotEmpty(t, h)
	})

	t.Run("file content", func(t *testing.T) {
		writeFile(t, inputFile, "modified content")
		h, err := hasher.ComputeInputHash(newTask("task1", "c++", "-Os"), env, tmpDir)
		require.NoError(t, err)
		assert.NotEqual(t, base, h)
	})
}

func TestHasher_ComputeInputHash_DirectoryAndGlob(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "libraries", "AP_HAL", "hal.cpp"), "hal")
	writeFile(t, filepath.Join(tmpDir, "libraries", "AP_Math", "math.cpp"), "math")

	hasher := fs.NewHasher(fs.NewWalker())

	dirTask := &domain.Task{
		Name:   domain.NewInternedString("dir"),
		Inputs: []domain.InternedString{domain.NewInternedString("libraries")},
	}
	globTask := &domain.Task{
		Name:   domain.NewInternedString("dir"),
		Inputs: []domain.InternedString{domain.NewInternedString("libraries/**/*.cpp")},
	}

	dirHash, err := hasher.ComputeInputHash(dirTask, nil, tmpDir)
	require.NoError(t, err)
	globHash, err := hasher.ComputeInputHash(globTask, nil, tmpDir)
	require.NoError(t, err)
	assert.NotEmpty(t, dirHash)
	assert.NotEmpty(t, globHash)

	writeFile(t, filepath.Join(tmpDir, "libraries", "AP_Math", "math.cpp"), "math v2")
	dirHash2, err := hasher.ComputeInputHash(dirTask, nil, tmpDir)
	require.NoError(t, err)
	assert.NotEqual(t, dirHash, dirHash2)
}

func TestHasher_ComputeInputHash_MissingInput(t *testing.T) {
	hasher := fs.NewHasher(fs.NewWalker())
	task := &domain.Task{
		Name:   domain.NewInternedString("task"),
		Inputs: []domain.InternedString{domain.NewInternedString("nope.cpp")},
	}

	_, err := hasher.ComputeInputHash(task, nil, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input not found")
}
