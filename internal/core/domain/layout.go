package domain

import "path/filepath"

const (
	// ForgeDirName is the name of the internal workspace directory.
	ForgeDirName = ".forge"

	// SignaturesFileName is the name of the signature store file.
	SignaturesFileName = "signatures.json"

	// ProjectFileName is the default name of the project file.
	ProjectFileName = "forge.yaml"

	// ConfigFileName is the name of the persisted configure result inside a variant directory.
	ConfigFileName = "forge_config.yaml"

	// DefaultOutDir is the build root used when the project file names none.
	DefaultOutDir = "build"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// SignaturesPath returns the path of the signature store of the project
// rooted at root.
func SignaturesPath(root string) string {
	return filepath.Join(root, ForgeDirName, SignaturesFileName)
}
