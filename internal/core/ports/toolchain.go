package ports

import (
	"context"

	"go.trai.ch/forge/internal/core/domain"
)

// ToolchainDiscoverer locates the compilers selected by an environment.
//
//go:generate go run go.uber.org/mock/mockgen -source=toolchain.go -destination=mocks/mock_toolchain.go -package=mocks
type ToolchainDiscoverer interface {
	// Discover reads TOOLCHAIN from env and fills CC, CXX, AR and CP.
	Discover(ctx context.Context, env *domain.Environment) error
}
