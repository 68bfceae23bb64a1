package ports

import "go.kiln.sh/kiln/internal/core/domain"

// ResultStore is the content-addressed output store: built trees plus a
// persistent index of build results.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type ResultStore interface {
	// Get retrieves the recorded result for a package name.
	// Returns nil, nil if not found.
	Get(name string) (*domain.BuildResult, error)

	// Put records a build result.
	Put(result domain.BuildResult) error

	// Path returns the absolute store path for the given digest and
	// recipe, creating the store root if needed.
	Path(digest string, r *domain.Recipe) (string, error)
}
