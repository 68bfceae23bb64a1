// Package app implements the application layer for kiln.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"go.kiln.sh/kiln/internal/core/domain"
	"go.kiln.sh/kiln/internal/core/ports"
	"go.kiln.sh/kiln/internal/engine/scheduler"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// prefetchParallelism bounds concurrent source downloads.
const prefetchParallelism = 8

// App wires the recipe loader, the build scheduler, and the fetcher
// into the operations the CLI exposes.
type App struct {
	loader    ports.RecipeLoader
	scheduler *scheduler.Scheduler
	fetcher   ports.SourceFetcher
	logger    ports.Logger
}

// New creates a new App instance.
func New(loader ports.RecipeLoader, sched *scheduler.Scheduler, fetcher ports.SourceFetcher, logger ports.Logger) *App {
	return &App{
		loader:    loader,
		scheduler: sched,
		fetcher:   fetcher,
		logger:    logger,
	}
}

// BuildOptions carries the CLI flags a build run needs.
type BuildOptions struct {
	RecipeDir string
	Jobs      int
	Force     bool
}

// Build builds the named packages and everything they depend on.
func (a *App) Build(ctx context.Context, targets []string, opts BuildOptions) error {
	if len(targets) == 0 {
		return domain.ErrNoTargetsSpecified
	}

	graph, err := a.loader.Load(opts.RecipeDir, targets)
	if err != nil {
		return zerr.Wrap(err, "failed to load recipes")
	}

	if err := a.scheduler.Run(ctx, graph, opts.Jobs, opts.Force); err != nil {
		return errors.Join(domain.ErrBuildExecutionFailed, err)
	}

	return nil
}

// FetchOptions carries the CLI flags a prefetch run needs.
type FetchOptions struct {
	RecipeDir string

	// WriteLock writes the resolved sources to LockPath.
	WriteLock bool
	LockPath  string
}

// Fetch downloads and verifies the sources of the named packages and
// their inputs without building anything. Downloads run in parallel.
func (a *App) Fetch(ctx context.Context, targets []string, opts FetchOptions) error {
	if len(targets) == 0 {
		return domain.ErrNoTargetsSpecified
	}

	graph, err := a.loader.Load(opts.RecipeDir, targets)
	if err != nil {
		return zerr.Wrap(err, "failed to load recipes")
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(prefetchParallelism)

	for recipe := range graph.Walk() {
		g.Go(func() error {
			archive, err := a.fetcher.Fetch(ctx, recipe.Source)
			if err != nil {
				return zerr.With(err, "package", recipe.Name.String())
			}
			a.logger.Info("fetched " + recipe.Name.String() + " -> " + archive)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	if opts.WriteLock {
		return a.writeLockfile(graph, opts)
	}
	return nil
}

func (a *App) writeLockfile(graph *domain.Graph, opts FetchOptions) error {
	lock := domain.NewLockfile()
	for recipe := range graph.Walk() {
		archiveURL, err := a.fetcher.URL(recipe.Source)
		if err != nil {
			return err
		}
		lock.Packages[recipe.Name.String()] = domain.LockedSource{
			Host:  recipe.Source.Host,
			Owner: recipe.Source.Owner,
			Repo:  recipe.Source.Repo,
			Rev:   recipe.Source.Rev,
			Hash:  recipe.Source.Hash.String(),
			URL:   archiveURL,
		}
	}

	path := opts.LockPath
	if path == "" {
		path = filepath.Join(opts.RecipeDir, "kiln.lock.json")
	}

	data, err := json.MarshalIndent(lock, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal lockfile")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // lockfile is project metadata
		return zerr.Wrap(err, "failed to write lockfile")
	}

	a.logger.Info("wrote " + path)
	return nil
}

// showModel is the YAML rendering of an evaluated recipe.
type showModel struct {
	Name    string `yaml:"pname"`
	Version string `yaml:"version"`
	Source  struct {
		URL  string `yaml:"url"`
		Rev  string `yaml:"rev"`
		Hash string `yaml:"hash"`
	} `yaml:"source"`
	NativeBuildInputs []string `yaml:"nativeBuildInputs,omitempty"`
	BuildInputs       []string `yaml:"buildInputs,omitempty"`
	ConfigureFlags    []string `yaml:"configureFlags,omitempty"`
	Check             struct {
		Enable bool   `yaml:"enable"`
		Reason string `yaml:"reason,omitempty"`
	} `yaml:"check"`
	Meta struct {
		Homepage    string   `yaml:"homepage,omitempty"`
		Description string   `yaml:"description,omitempty"`
		License     string   `yaml:"license,omitempty"`
		Platforms   []string `yaml:"platforms,omitempty"`
		Maintainers []string `yaml:"maintainers,omitempty"`
	} `yaml:"meta"`
}

// Show renders the evaluated recipe for one package.
func (a *App) Show(recipeDir, name string) (string, error) {
	graph, err := a.loader.Load(recipeDir, []string{name})
	if err != nil {
		return "", zerr.Wrap(err, "failed to load recipe")
	}

	recipe, err := graph.Get(domain.NewInternedString(name))
	if err != nil {
		return "", err
	}

	archiveURL, err := a.fetcher.URL(recipe.Source)
	if err != nil {
		return "", err
	}

	var model showModel
	model.Name = recipe.Name.String()
	model.Version = recipe.Version.String()
	model.Source.URL = archiveURL
	model.Source.Rev = recipe.Source.Rev
	model.Source.Hash = recipe.Source.Hash.SRI()
	model.NativeBuildInputs = internedStrings(recipe.NativeBuildInputs)
	model.BuildInputs = internedStrings(recipe.BuildInputs)
	model.ConfigureFlags = recipe.ConfigureFlags
	model.Check.Enable = recipe.Check.Enable
	model.Check.Reason = recipe.Check.Reason
	model.Meta.Homepage = recipe.Meta.Homepage
	model.Meta.Description = recipe.Meta.Description
	model.Meta.License = recipe.Meta.License
	for _, p := range recipe.Meta.Platforms {
		model.Meta.Platforms = append(model.Meta.Platforms, p.String())
	}
	for _, m := range recipe.Meta.Maintainers {
		model.Meta.Maintainers = append(model.Meta.Maintainers, m.Name)
	}

	data, err := yaml.Marshal(&model)
	if err != nil {
		return "", zerr.Wrap(err, "failed to render recipe")
	}
	return string(data), nil
}

func internedStrings(in []domain.InternedString) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = s.String()
	}
	return out
}
