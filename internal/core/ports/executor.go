package ports

import (
	"context"
	"io"

	"go.kiln.sh/kiln/internal/core/domain"
)

// Executor runs one build phase invocation.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs the invocation with the given environment on top of
	// the process environment. env entries are "KEY=VALUE"; PATH entries
	// are prepended to the system PATH rather than replacing it.
	//
	// Process output is streamed to stdout and stderr as it is produced.
	// A non-zero exit is returned as an error carrying the exit code.
	Execute(ctx context.Context, inv *domain.Invocation, env []string, stdout, stderr io.Writer) error
}
