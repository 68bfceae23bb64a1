// Package config provides the YAML recipe loader.
package config

import (
	"os"
	"path/filepath"
	"slices"

	"go.kiln.sh/kiln/internal/core/domain"
	"go.kiln.sh/kiln/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.RecipeLoader over a directory of recipe files.
// A recipe named "foo" lives in "<dir>/foo.yaml"; input references are
// resolved against the same directory.
type Loader struct{}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{}
}

var _ ports.RecipeLoader = (*Loader)(nil)

// Load reads the named recipes and their transitive inputs, validates
// each one, and returns the validated dependency graph.
func (l *Loader) Load(dir string, names []string) (*domain.Graph, error) {
	g := domain.NewGraph()

	pending := slices.Clone(names)
	seen := make(map[string]bool, len(names))

	for len(pending) > 0 {
		name := pending[0]
		pending = pending[1:]
		if seen[name] {
			continue
		}
		seen[name] = true

		recipe, err := LoadRecipe(filepath.Join(dir, name+".yaml"))
		if err != nil {
			return nil, zerr.With(err, "recipe", name)
		}
		if recipe.Name.String() != name {
			err := zerr.With(zerr.New("recipe name does not match file name"), "file", name+".yaml")
			return nil, zerr.With(err, "pname", recipe.Name.String())
		}

		if err := g.AddRecipe(recipe); err != nil {
			return nil, err
		}

		for _, input := range recipe.Inputs() {
			pending = append(pending, input.String())
		}
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// LoadRecipe reads and validates a single recipe file.
func LoadRecipe(path string) (*domain.Recipe, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read recipe file")
	}

	var dto recipeDTO
	if err := yaml.Unmarshal(data, &dto); err != nil {
		return nil, zerr.Wrap(err, "failed to parse recipe file")
	}

	recipe, err := dto.toDomain()
	if err != nil {
		return nil, err
	}
	if err := recipe.Validate(); err != nil {
		return nil, err
	}
	return recipe, nil
}

func (dto *recipeDTO) toDomain() (*domain.Recipe, error) {
	hash, err := domain.ParseSourceHash(dto.Source.Hash)
	if err != nil && dto.Source.Hash != "" {
		return nil, err
	}

	platforms := make([]domain.Platform, 0, len(dto.Meta.Platforms))
	for _, p := range dto.Meta.Platforms {
		platform, err := domain.ParsePlatform(p)
		if err != nil {
			return nil, err
		}
		platforms = append(platforms, platform)
	}

	maintainers := make([]domain.Maintainer, 0, len(dto.Meta.Maintainers))
	for _, m := range dto.Meta.Maintainers {
		maintainers = append(maintainers, domain.Maintainer{
			Name:   m.Name,
			Email:  m.Email,
			GitHub: m.GitHub,
		})
	}

	return &domain.Recipe{
		Name:    domain.NewInternedString(dto.Name),
		Version: domain.NewInternedString(dto.Version),
		Source: domain.Source{
			Host:  dto.Source.Host,
			Owner: dto.Source.Owner,
			Repo:  dto.Source.Repo,
			Rev:   dto.Source.Rev,
			Hash:  hash,
		},
		NativeBuildInputs: internStrings(dto.NativeBuildInputs),
		BuildInputs:       internStrings(dto.BuildInputs),
		ConfigureScript:   dto.ConfigureScript,
		ConfigureFlags:    slices.Clone(dto.ConfigureFlags),
		BuildCommand:      slices.Clone(dto.Build),
		InstallCommand:    slices.Clone(dto.Install),
		Check: domain.Check{
			Enable:    dto.Check.Enable,
			Target:    slices.Clone(dto.Check.Target),
			PreCheck:  slices.Clone(dto.Check.PreCheck),
			PostCheck: slices.Clone(dto.Check.PostCheck),
			Reason:    dto.Check.Reason,
		},
		Meta: domain.Meta{
			Homepage:    dto.Meta.Homepage,
			Description: dto.Meta.Description,
			License:     dto.Meta.License,
			Platforms:   platforms,
			Maintainers: maintainers,
		},
	}, nil
}

func internStrings(strs []string) []domain.InternedString {
	if len(strs) == 0 {
		return nil
	}
	res := make([]domain.InternedString, len(strs))
	for i, s := range strs {
		res[i] = domain.NewInternedString(s)
	}
	return res
}
