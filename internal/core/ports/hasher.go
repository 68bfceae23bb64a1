package ports

import "go.kiln.sh/kiln/internal/core/domain"

// Hasher computes the hashes that drive cache decisions.
//
//go:generate go run go.uber.org/mock/mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// ComputeInputHash computes the hash covering the recipe definition,
	// its pinned source, and the input hashes of its dependencies.
	ComputeInputHash(r *domain.Recipe, inputHashes map[string]string) string

	// ComputeOutputHash hashes the installed tree under root.
	ComputeOutputHash(root string) (string, error)
}
