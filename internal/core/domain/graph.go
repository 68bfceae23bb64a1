package domain

import (
	"iter"

	"go.trai.ch/zerr"
)

// Graph is the dependency graph of recipes for one build. Edges run from
// a recipe to its inputs (nativeBuildInputs and buildInputs).
type Graph struct {
	recipes    map[InternedString]Recipe
	buildOrder []InternedString
}

// NewGraph creates an empty Graph.
func NewGraph() *Graph {
	return &Graph{
		recipes: make(map[InternedString]Recipe),
	}
}

// AddRecipe adds a recipe to the graph. Adding the same name twice is an error.
func (g *Graph) AddRecipe(r *Recipe) error {
	if _, exists := g.recipes[r.Name]; exists {
		return zerr.With(ErrRecipeAlreadyExists, "recipe", r.Name.String())
	}
	g.recipes[r.Name] = *r
	return nil
}

// Get returns the recipe with the given name.
func (g *Graph) Get(name InternedString) (Recipe, error) {
	r, ok := g.recipes[name]
	if !ok {
		return Recipe{}, zerr.With(ErrRecipeNotFound, "recipe", name.String())
	}
	return r, nil
}

// Len returns the number of recipes in the graph.
func (g *Graph) Len() int {
	return len(g.recipes)
}

// Validate checks that every referenced input exists and that the graph
// is acyclic. On success it populates the build order used by Walk.
func (g *Graph) Validate() error {
	g.buildOrder = make([]InternedString, 0, len(g.recipes))
	visited := make(map[InternedString]int) // 0 unvisited, 1 visiting, 2 done
	var path []InternedString

	var visit func(u InternedString) error
	visit = func(u InternedString) error {
		visited[u] = 1
		path = append(path, u)

		recipe, exists := g.recipes[u]
		if !exists {
			return zerr.With(ErrMissingInput, "input", u.String())
		}

		for _, dep := range recipe.Inputs() {
			if visited[dep] == 1 {
				return g.cycleError(path, dep)
			}
			if visited[dep] == 0 {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		visited[u] = 2
		path = path[:len(path)-1]
		g.buildOrder = append(g.buildOrder, u)
		return nil
	}

	for name := range g.recipes {
		if visited[name] == 0 {
			if err := visit(name); err != nil {
				return err
			}
		}
	}

	return nil
}

func (g *Graph) cycleError(path []InternedString, dep InternedString) error {
	start := 0
	for i, node := range path {
		if node == dep {
			start = i
			break
		}
	}
	cycle := ""
	for i := start; i < len(path); i++ {
		cycle += path[i].String() + " -> "
	}
	cycle += dep.String()
	return zerr.With(ErrCycleDetected, "cycle", cycle)
}

// Walk yields recipes in build order (inputs before dependents).
// Validate must have succeeded first.
func (g *Graph) Walk() iter.Seq[Recipe] {
	return func(yield func(Recipe) bool) {
		for _, name := range g.buildOrder {
			if !yield(g.recipes[name]) {
				return
			}
		}
	}
}

// Dependents returns the names of recipes that list name as an input.
func (g *Graph) Dependents(name InternedString) []InternedString {
	var out []InternedString
	for _, candidate := range g.buildOrder {
		recipe := g.recipes[candidate]
		for _, dep := range recipe.Inputs() {
			if dep == name {
				out = append(out, candidate)
				break
			}
		}
	}
	return out
}
