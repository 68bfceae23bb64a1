package telemetry_test

import (
	"context"
	"fmt"
	"testing"

	"go.kiln.sh/kiln/internal/adapters/telemetry"
)

func TestRecorder_Record(t *testing.T) {
	rec := telemetry.New()

	ctx, vertex := rec.Record(context.Background(), "zlib-1.3.1")
	if ctx == nil {
		t.Fatal("expected a context back from Record")
	}

	// Streams and lifecycle calls must not panic or error.
	if _, err := fmt.Fprintln(vertex.Stdout(), "checking for gcc... yes"); err != nil {
		t.Fatalf("stdout write failed: %v", err)
	}
	if _, err := fmt.Fprintln(vertex.Stderr(), "warning: deprecated flag"); err != nil {
		t.Fatalf("stderr write failed: %v", err)
	}
	vertex.Log("running configure phase")
	vertex.Complete(nil)

	if err := rec.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
}

func TestRecorder_CachedVertex(t *testing.T) {
	rec := telemetry.New()

	_, vertex := rec.Record(context.Background(), "zlib-1.3.1")
	vertex.Cached()
	vertex.Complete(nil)

	if err := rec.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
}

func TestNoop(t *testing.T) {
	noop := telemetry.NewNoop()

	_, vertex := noop.Record(context.Background(), "anything")
	if _, err := vertex.Stdout().Write([]byte("discarded")); err != nil {
		t.Fatalf("noop stdout write failed: %v", err)
	}
	vertex.Log("discarded")
	vertex.Cached()
	vertex.Complete(nil)

	if err := noop.Close(); err != nil {
		t.Fatalf("noop close failed: %v", err)
	}
}
