package shell_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/forge/internal/adapters/shell"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/forge/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func TestExecutor_Execute_MultiLineOutput(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockLogger := mocks.NewMockLogger(ctrl)
	gomock.InOrder(
		mockLogger.EXPECT().Info("line1"),
		mockLogger.EXPECT().Info("line2"),
	)

	task := &domain.Task{
		Name:       domain.NewInternedString("test-task"),
		Command:    []string{"sh", "-c", "echo line1; echo line2"},
		WorkingDir: domain.NewInternedString(t.TempDir()),
	}

	require.NoError(t, shell.NewExecutor(mockLogger).Execute(context.Background(), task, nil))
}

func TestExecutor_Execute_FragmentedOutput(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Info("part1part2").Times(1)

	task := &domain.Task{
		Name:       domain.NewInternedString("test-fragmented"),
		Command:    []string{"sh", "-c", "printf part1; sleep 0.1; echo part2"},
		WorkingDir: domain.NewInternedString(t.TempDir()),
	}

	require.NoError(t, shell.NewExecutor(mockLogger).Execute(context.Background(), task, nil))
}

func TestExecutor_Execute_TrailingPartialLineFlushed(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Info("no newline").Times(1)

	task := &domain.Task{
		Name:       domain.NewInternedString("test-partial"),
		Command:    []string{"sh", "-c", "printf 'no newline'"},
		WorkingDir: domain.NewInternedString(t.TempDir()),
	}

	require.NoError(t, shell.NewExecutor(mockLogger).Execute(context.Background(), task, nil))
}

func TestExecutor_Execute_StderrIsWarning(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Warn("warning: unused variable").Times(1)

	task := &domain.Task{
		Name:       domain.NewInternedString("test-stderr"),
		Command:    []string{"sh", "-c", "echo 'warning: unused variable' >&2"},
		WorkingDir: domain.NewInternedString(t.TempDir()),
	}

	require.NoError(t, shell.NewExecutor(mockLogger).Execute(context.Background(), task, nil))
}

func TestExecutor_Execute_EnvironmentPriority(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Info("task-value build-only").Times(1)

	task := &domain.Task{
		Name:    domain.NewInternedString("test-env-task"),
		Command: []string{"sh", "-c", "echo $SHARED $BUILD_ONLY"},
		Environment: map[string]string{
			"SHARED": "task-value",
		},
		WorkingDir: domain.NewInternedString(t.TempDir()),
	}
	env := []string{"SHARED=build-value", "BUILD_ONLY=build-only"}

	require.NoError(t, shell.NewExecutor(mockLogger).Execute(context.Background(), task, env))
}

func TestExecutor_Execute_PathFromBuildEnv(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Info("cross compiler").Times(1)

	binDir := t.TempDir()
	tool := filepath.Join(binDir, "arm-none-eabi-g++")
	//nolint:gosec // Test requires executable file
	require.NoError(t, os.WriteFile(tool, []byte("#!/bin/sh\necho cross compiler\n"), 0o700))

	task := &domain.Task{
		Name:       domain.NewInternedString("test-path"),
		Command:    []string{"arm-none-eabi-g++"},
		WorkingDir: domain.NewInternedString(t.TempDir()),
	}

	require.NoError(t, shell.NewExecutor(mockLogger).Execute(context.Background(), task, []string{"PATH=" + binDir}))
}

func TestExecutor_Execute_CreatesOutputDirectories(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)

	root := t.TempDir()
	task := &domain.Task{
		Name:       domain.NewInternedString("compile:app:main.cpp"),
		Command:    []string{"sh", "-c", "touch build/sitl/obj/app/main.cpp.o"},
		Outputs:    []domain.InternedString{domain.NewInternedString("build/sitl/obj/app/main.cpp.o")},
		WorkingDir: domain.NewInternedString(root),
	}

	require.NoError(t, shell.NewExecutor(mockLogger).Execute(context.Background(), task, nil))
	assert.FileExists(t, filepath.Join(root, "build", "sitl", "obj", "app", "main.cpp.o"))
}

func TestExecutor_Execute_InvalidCommand(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)

	task := &domain.Task{
		Name:       domain.NewInternedString("test-invalid"),
		Command:    []string{"nonexistent-command-xyz123"},
		WorkingDir: domain.NewInternedString(t.TempDir()),
	}

	err := shell.NewExecutor(mockLogger).Execute(context.Background(), task, nil)
	require.Error(t, err)
}

func TestExecutor_Execute_CommandFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)

	task := &domain.Task{
		Name:       domain.NewInternedString("test-fail"),
		Command:    []string{"sh", "-c", "exit 42"},
		WorkingDir: domain.NewInternedString(t.TempDir()),
	}

	err := shell.NewExecutor(mockLogger).Execute(context.Background(), task, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "command failed")

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, 42, zErr.Metadata()["exit_code"])
	assert.Equal(t, "sh -c exit 42", zErr.Metadata()["command"])
}

func TestExecutor_Execute_EmptyCommand(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)

	task := &domain.Task{
		Name:       domain.NewInternedString("test-empty"),
		WorkingDir: domain.NewInternedString(t.TempDir()),
	}

	require.NoError(t, shell.NewExecutor(mockLogger).Execute(context.Background(), task, nil))
}

func TestExecutor_Execute_WithVertex(t *testing.T) {
	ctrl := gomock.NewController(t)

	// Output goes to the vertex, not the logger.
	mockLogger := mocks.NewMockLogger(ctrl)
	mockVertex := mocks.NewMockVertex(ctrl)

	var stdoutBuf, stderrBuf bytes.Buffer
	mockVertex.EXPECT().Stdout().Return(&stdoutBuf).AnyTimes()
	mockVertex.EXPECT().Stderr().Return(&stderrBuf).AnyTimes()

	task := &domain.Task{
		Name:       domain.NewInternedString("test-vertex"),
		Command:    []string{"sh", "-c", "echo hello to stdout; echo hello to stderr >&2"},
		WorkingDir: domain.NewInternedString(t.TempDir()),
	}

	ctx := ports.ContextWithVertex(context.Background(), mockVertex)
	require.NoError(t, shell.NewExecutor(mockLogger).Execute(ctx, task, nil))

	assert.Contains(t, stdoutBuf.String(), "hello to stdout")
	assert.Contains(t, stderrBuf.String(), "hello to stderr")
}

func TestExecutor_Execute_Cancelled(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	task := &domain.Task{
		Name:       domain.NewInternedString("test-cancel"),
		Command:    []string{"sh", "-c", "sleep 5"},
		WorkingDir: domain.NewInternedString(t.TempDir()),
	}

	require.Error(t, shell.NewExecutor(mockLogger).Execute(ctx, task, nil))
}

func TestLookPath(t *testing.T) {
	binDir := t.TempDir()
	tool := filepath.Join(binDir, "xyz-gcc")
	//nolint:gosec // Test requires executable file
	require.NoError(t, os.WriteFile(tool, []byte("#!/bin/sh\n"), 0o700))

	got, err := shell.LookPath("xyz-gcc", []string{"PATH=" + binDir})
	require.NoError(t, err)
	assert.Equal(t, tool, got)

	got, err = shell.LookPath(tool, nil)
	require.NoError(t, err)
	assert.Equal(t, tool, got)

	_, err = shell.LookPath("definitely-not-a-tool-xyz", []string{"PATH=" + binDir})
	require.Error(t, err)
}
