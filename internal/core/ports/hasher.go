package ports

import "go.trai.ch/forge/internal/core/domain"

// Hasher computes content signatures.
//
//go:generate go run go.uber.org/mock/mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// ComputeInputHash computes the input hash for a given task.
	ComputeInputHash(task *domain.Task, env map[string]string, root string) (string, error)

	// ComputeFileHash computes the content signature of a single file.
	ComputeFileHash(path string) (string, error)
}
