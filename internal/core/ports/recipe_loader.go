// Package ports defines the core interfaces for the application.
package ports

import "go.kiln.sh/kiln/internal/core/domain"

// RecipeLoader loads recipes and their transitive inputs into a graph.
//
//go:generate go run go.uber.org/mock/mockgen -source=recipe_loader.go -destination=mocks/mock_recipe_loader.go -package=mocks
type RecipeLoader interface {
	// Load reads the named recipes from dir, follows their input
	// references to sibling recipe files, and returns the validated graph.
	Load(dir string, names []string) (*domain.Graph, error)
}
