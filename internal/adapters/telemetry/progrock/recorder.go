// Package progrock records build progress on a progrock tape.
package progrock

import (
	"context"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/forge/internal/core/ports"
)

var _ ports.Telemetry = (*Recorder)(nil)

// Recorder implements ports.Telemetry. One vertex is recorded per task;
// its digest is derived from the session and the task name so that tasks of
// different builds never share a vertex.
type Recorder struct {
	w       progrock.Writer
	rec     *progrock.Recorder
	session string
}

// New creates a Recorder writing to a fresh in-memory tape.
func New(session string) *Recorder {
	return NewRecorder(progrock.NewTape(), session)
}

// NewRecorder creates a Recorder writing to w.
func NewRecorder(w progrock.Writer, session string) *Recorder {
	return &Recorder{
		w:       w,
		rec:     progrock.NewRecorder(w),
		session: session,
	}
}

// Record starts a vertex called name.
func (r *Recorder) Record(ctx context.Context, name string) (context.Context, ports.Vertex) {
	d := digest.FromString(r.session + "\x00" + name)
	vertex := &Vertex{vertex: r.rec.Vertex(d, name)}
	return ports.ContextWithVertex(ctx, vertex), vertex
}

// Close flushes the tape when the writer supports it.
func (r *Recorder) Close() error {
	if c, ok := r.w.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
