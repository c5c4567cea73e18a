// Package telemetry holds the telemetry implementation used when no
// recorder is attached.
package telemetry

import (
	"context"
	"io"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
)

var _ ports.Telemetry = (*Noop)(nil)

// Noop discards everything.
type Noop struct{}

// NewNoop creates a Noop.
func NewNoop() *Noop {
	return &Noop{}
}

// Record returns ctx carrying a vertex that discards its output.
func (n *Noop) Record(ctx context.Context, _ string) (context.Context, ports.Vertex) {
	v := noopVertex{}
	return ports.ContextWithVertex(ctx, v), v
}

// Close does nothing.
func (n *Noop) Close() error {
	return nil
}

type noopVertex struct{}

func (noopVertex) Stdout() io.Writer { return io.Discard }
func (noopVertex) Stderr() io.Writer { return io.Discard }
func (noopVertex) Log(_ domain.LogLevel, _ string) {}
func (noopVertex) Complete(_ error) {}
func (noopVertex) Cached() {}
