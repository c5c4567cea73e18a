package fs

import (
	"errors"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/zerr"
)

// missingPrerequisite is hashed in place of the content of a listed
// prerequisite that no longer exists.
var missingPrerequisite = []byte{0xff}

// hashDepfile hashes every prerequisite listed in the task's depfile. A
// depfile that was not written yet contributes nothing.
func (h *Hasher) hashDepfile(task *domain.Task, root string, hasher io.Writer) error {
	path := task.Depfile
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}

	data, err := os.ReadFile(path) //nolint:gosec // Path is produced by the planner
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return nil
		}
		return zerr.With(zerr.Wrap(err, "failed to read depfile"), "path", path)
	}

	base := task.WorkingDir.String()
	if base == "" {
		base = root
	}
	for _, prereq := range parseDepfile(data) {
		if !filepath.IsAbs(prereq) {
			prereq = filepath.Join(base, prereq)
		}
		if _, err := os.Stat(prereq); err != nil {
			_, _ = hasher.Write([]byte(prereq))
			_, _ = hasher.Write(missingPrerequisite)
			continue
		}
		if err := h.hashFile(prereq, hasher); err != nil {
			return err
		}
	}
	return nil
}

// parseDepfile returns the prerequisites of the rules in a make-style
// dependency file as written by -MD or -MMD. Backslash-newline continuations
// are joined and "\ " is an escaped space. Phony rules added by -MP repeat
// prerequisites; duplicates are dropped.
func parseDepfile(data []byte) []string {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.ReplaceAll(text, "\\\n", " ")

	var out []string
	seen := make(map[string]bool)
	for line := range strings.SplitSeq(text, "\n") {
		_, prereqs, ok := cutRule(line)
		if !ok {
			continue
		}
		for _, p := range splitEscaped(prereqs) {
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	return out
}

// cutRule splits a rule at the colon that ends its targets. A colon followed
// by a path separator belongs to a drive letter.
func cutRule(line string) (targets, prereqs string, ok bool) {
	for i := 0; i < len(line); i++ {
		if line[i] != ':' {
			continue
		}
		if i+1 < len(line) && (line[i+1] == '\\' || line[i+1] == '/') {
			continue
		}
		return line[:i], line[i+1:], true
	}
	return "", "", false
}

func splitEscaped(s string) []string {
	var (
		fields []string
		cur    strings.Builder
	)
	flush := func() {
		if cur.Len() > 0 {
			fields = append(fields, cur.String())
			cur.Reset()
		}
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s) && s[i+1] == ' ':
			cur.WriteByte(' ')
			i++
		case c == ' ' || c == '\t':
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	flush()
	return fields
}
