package telemetry

import (
	"context"
	"io"

	"go.kiln.sh/kiln/internal/core/ports"
)

// Noop is a ports.Telemetry that records nothing. Used when progress
// output is suppressed and in tests.
type Noop struct{}

var _ ports.Telemetry = Noop{}

// NewNoop creates a no-op telemetry implementation.
func NewNoop() Noop {
	return Noop{}
}

// Record returns a vertex that discards everything.
func (Noop) Record(ctx context.Context, _ string) (context.Context, ports.Vertex) {
	return ctx, noopVertex{}
}

// Close is a no-op.
func (Noop) Close() error { return nil }

type noopVertex struct{}

func (noopVertex) Stdout() io.Writer { return io.Discard }
func (noopVertex) Stderr() io.Writer { return io.Discard }
func (noopVertex) Log(string)        {}
func (noopVertex) Complete(error)    {}
func (noopVertex) Cached()           {}
