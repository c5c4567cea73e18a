package git_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/forge/internal/adapters/git"
)

func commitFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	repo, err := gogit.PlainOpen(dir)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	_, err = wt.Add(name)
	require.NoError(t, err)

	hash, err := wt.Commit("update "+name, &gogit.CommitOptions{
		Author: &object.Signature{Name: "forge", Email: "forge@example.com", When: time.Unix(1700000000, 0)},
	})
	require.NoError(t, err)
	return hash.String()
}

func TestRevisionReader_Head(t *testing.T) {
	dir := t.TempDir()
	_, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	first := commitFile(t, dir, "CMakeLists.txt", "project(px4)")

	reader := git.NewRevisionReader()
	got, err := reader.Head(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, first, got)
	assert.Len(t, got, 40)

	second := commitFile(t, dir, "CMakeLists.txt", "project(px4 C CXX)")
	got, err = reader.Head(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, second, got)
}

func TestRevisionReader_NotARepository(t *testing.T) {
	dir := t.TempDir()

	_, err := git.NewRevisionReader().Head(context.Background(), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open repository")
}

func TestRevisionReader_NoCommits(t *testing.T) {
	dir := t.TempDir()
	_, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	_, err = git.NewRevisionReader().Head(context.Background(), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to resolve HEAD")
}

func TestRevisionReader_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := git.NewRevisionReader().Head(ctx, t.TempDir())
	require.ErrorIs(t, err, context.Canceled)
}
