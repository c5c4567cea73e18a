// Package shell provides the shell executor adapter.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Executor = (*Executor)(nil)

// Executor implements ports.Executor using os/exec.
type Executor struct {
	logger ports.Logger
}

// NewExecutor creates a new Executor.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{
		logger: logger,
	}
}

// Execute runs the task's command with the specified environment.
// It merges environments with the following priority (low to high):
// 1. os.Environ()
// 2. env (the configured build environment)
// 3. task.Environment
//
// PATH entries from env are prepended to the system PATH. The parent
// directories of all outputs are created before the command starts.
func (e *Executor) Execute(ctx context.Context, task *domain.Task, env []string) error {
	if len(task.Command) == 0 {
		return nil
	}

	if err := prepareOutputs(task); err != nil {
		return err
	}

	name := task.Command[0]
	args := task.Command[1:]

	cmdEnv := resolveEnvironment(os.Environ(), env, task.Environment)

	executable := name
	if !filepath.IsAbs(name) {
		if lp, err := lookPath(name, cmdEnv); err == nil {
			executable = lp
		}
	}

	cmd := exec.CommandContext(ctx, executable, args...) //nolint:gosec // user provided command

	// Keep the name the command was invoked as.
	if len(cmd.Args) > 0 {
		cmd.Args[0] = name
	}

	if dir := task.WorkingDir.String(); dir != "" {
		cmd.Dir = dir
	}
	cmd.Env = cmdEnv

	var stdout, stderr io.Writer
	var flush func()
	if vertex, ok := ports.VertexFromContext(ctx); ok {
		stdout, stderr = vertex.Stdout(), vertex.Stderr()
		flush = func() {}
	} else {
		outW := &logWriter{emit: e.logger.Info}
		errW := &logWriter{emit: e.logger.Warn}
		stdout, stderr = outW, errW
		flush = func() {
			outW.Flush()
			errW.Flush()
		}
	}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	flush()
	if err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}

		wrapped := zerr.With(zerr.Wrap(err, "command failed"), "exit_code", exitCode)
		return zerr.With(wrapped, "command", strings.Join(task.Command, " "))
	}

	return nil
}

func prepareOutputs(task *domain.Task) error {
	for _, out := range task.Outputs {
		path := out.String()
		if !filepath.IsAbs(path) && task.WorkingDir.String() != "" {
			path = filepath.Join(task.WorkingDir.String(), path)
		}
		if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to create output directory"), "path", path)
		}
	}
	return nil
}

// logWriter forwards complete lines to emit, holding back a trailing
// partial line until the next write or Flush.
type logWriter struct {
	mu   sync.Mutex
	emit func(string)
	buf  bytes.Buffer
}

func (w *logWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf.Write(p)
	for {
		line, err := w.buf.ReadString('\n')
		if err != nil {
			// Partial line: put it back for the next write.
			w.buf.Reset()
			w.buf.WriteString(line)
			break
		}
		w.emit(strings.TrimRight(line, "\r\n"))
	}
	return len(p), nil
}

// Flush emits any buffered partial line.
func (w *logWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.buf.Len() > 0 {
		w.emit(w.buf.String())
		w.buf.Reset()
	}
}

// resolveEnvironment merges environment variables with the defined priority.
func resolveEnvironment(sysEnv, buildEnv []string, taskEnv map[string]string) []string {
	envMap := make(map[string]string)
	for _, entry := range sysEnv {
		if k, v, ok := strings.Cut(entry, "="); ok {
			envMap[k] = v
		}
	}

	for _, entry := range buildEnv {
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if k == "PATH" {
			if sysPath, exists := envMap["PATH"]; exists && sysPath != "" {
				v = v + string(os.PathListSeparator) + sysPath
			}
		}
		envMap[k] = v
	}

	for k, v := range taskEnv {
		envMap[k] = v
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	return result
}

// lookPath searches for an executable in the directories named by the PATH
// entry of env rather than the current process environment.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if p, ok := strings.CutPrefix(e, "PATH="); ok {
			path = p
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}

// LookPath resolves file against the PATH of env, falling back to the
// process PATH when env carries none.
func LookPath(file string, env []string) (string, error) {
	if filepath.IsAbs(file) {
		if err := findExecutable(file); err != nil {
			return "", err
		}
		return file, nil
	}
	if p, err := lookPath(file, env); err == nil {
		return p, nil
	}
	return exec.LookPath(file)
}
