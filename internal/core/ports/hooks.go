package ports

import (
	"context"

	"go.trai.ch/forge/internal/core/domain"
)

// PreCompileHook runs when a target is posted, before its compile tasks are created.
//
//go:generate go run go.uber.org/mock/mockgen -source=hooks.go -destination=mocks/mock_hooks.go -package=mocks
type PreCompileHook interface {
	PreCompile(ctx context.Context, target *domain.Target) error
}

// PreLinkHook runs for a program target after its link task is prepared and
// before its link inputs are final.
type PreLinkHook interface {
	PreLink(ctx context.Context, target *domain.Target, targets TargetPoster) error
}

// TargetPoster gives hooks access to other targets, posting them on demand.
type TargetPoster interface {
	// Post creates the compile tasks of the named target if it was not posted yet.
	// It reports false when no such target exists.
	Post(ctx context.Context, name domain.InternedString) (*domain.Target, bool, error)
}
