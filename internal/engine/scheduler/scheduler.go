// Package scheduler executes recipe graphs with bounded parallelism.
package scheduler

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"go.kiln.sh/kiln/internal/core/domain"
	"go.kiln.sh/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

// Status represents the build status of one recipe.
type Status string

const (
	// StatusPending indicates the recipe is waiting for its inputs.
	StatusPending Status = "Pending"
	// StatusRunning indicates the recipe is currently building.
	StatusRunning Status = "Running"
	// StatusCompleted indicates the recipe built successfully.
	StatusCompleted Status = "Completed"
	// StatusFailed indicates a phase failed.
	StatusFailed Status = "Failed"
	// StatusCached indicates the store already held a matching result.
	StatusCached Status = "Cached"
)

// Scheduler builds recipe graphs: inputs first, independent packages in
// parallel, every package through fetch, unpack, and its build phases.
type Scheduler struct {
	executor   ports.Executor
	fetcher    ports.SourceFetcher
	store      ports.ResultStore
	hasher     ports.Hasher
	envFactory ports.EnvironmentFactory
	telemetry  ports.Telemetry
	logger     ports.Logger

	mu     sync.RWMutex
	status map[domain.InternedString]Status
}

// NewScheduler creates a new Scheduler.
func NewScheduler(
	executor ports.Executor,
	fetcher ports.SourceFetcher,
	store ports.ResultStore,
	hasher ports.Hasher,
	envFactory ports.EnvironmentFactory,
	telemetry ports.Telemetry,
	logger ports.Logger,
) *Scheduler {
	return &Scheduler{
		executor:   executor,
		fetcher:    fetcher,
		store:      store,
		hasher:     hasher,
		envFactory: envFactory,
		telemetry:  telemetry,
		logger:     logger,
		status:     make(map[domain.InternedString]Status),
	}
}

// Status returns the recorded status for a recipe name.
func (s *Scheduler) Status(name domain.InternedString) Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status[name]
}

func (s *Scheduler) setStatus(name domain.InternedString, status Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status[name] = status
}

// Run builds the whole graph. jobs bounds the number of packages built
// concurrently; zero means the number of CPUs. force bypasses the
// result cache. The first failure prevents dependents from starting but
// lets inflight builds drain.
func (s *Scheduler) Run(ctx context.Context, graph *domain.Graph, jobs int, force bool) error {
	if err := graph.Validate(); err != nil {
		return err
	}
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	state := s.newRunState(ctx, graph, jobs, force)

	for !state.isDone() {
		state.schedule()

		if state.isDone() {
			break
		}

		if state.ctx.Err() != nil && state.active == 0 {
			return errors.Join(state.errs, state.ctx.Err())
		}

		select {
		case res := <-state.resultsCh:
			state.handleResult(res)
		case <-state.ctx.Done():
		}
	}

	if state.ctx.Err() != nil {
		state.errs = errors.Join(state.errs, state.ctx.Err())
	}

	return state.errs
}

type buildOutcome struct {
	name   domain.InternedString
	result domain.BuildResult
	err    error
}

type runState struct {
	graph     *domain.Graph
	inDegree  map[domain.InternedString]int
	ready     []domain.InternedString
	results   map[domain.InternedString]domain.BuildResult
	active    int
	resultsCh chan buildOutcome
	errs      error
	ctx       context.Context
	jobs      int
	force     bool
	s         *Scheduler
}

func (s *Scheduler) newRunState(ctx context.Context, graph *domain.Graph, jobs int, force bool) *runState {
	inDegree := make(map[domain.InternedString]int, graph.Len())

	for recipe := range graph.Walk() {
		inDegree[recipe.Name] = len(recipe.Inputs())
		s.setStatus(recipe.Name, StatusPending)
	}

	var ready []domain.InternedString
	for recipe := range graph.Walk() {
		if inDegree[recipe.Name] == 0 {
			ready = append(ready, recipe.Name)
		}
	}

	return &runState{
		graph:     graph,
		inDegree:  inDegree,
		ready:     ready,
		results:   make(map[domain.InternedString]domain.BuildResult, graph.Len()),
		resultsCh: make(chan buildOutcome, jobs),
		ctx:       ctx,
		jobs:      jobs,
		force:     force,
		s:         s,
	}
}

func (state *runState) isDone() bool {
	return state.active == 0 && len(state.ready) == 0
}

func (state *runState) schedule() {
	for len(state.ready) > 0 && state.active < state.jobs && state.ctx.Err() == nil {
		name := state.ready[0]
		state.ready = state.ready[1:]

		recipe, err := state.graph.Get(name)
		if err != nil {
			state.errs = errors.Join(state.errs, err)
			continue
		}

		deps := state.collectInputs(&recipe)

		state.active++
		state.s.setStatus(name, StatusRunning)

		go func(r domain.Recipe, deps map[string]domain.BuildResult) {
			result, err := state.s.buildOne(state.ctx, &r, deps, state.force)
			state.resultsCh <- buildOutcome{name: r.Name, result: result, err: err}
		}(recipe, deps)
	}
}

// collectInputs snapshots the results of a recipe's inputs. All of them
// completed before the recipe became ready.
func (state *runState) collectInputs(r *domain.Recipe) map[string]domain.BuildResult {
	deps := make(map[string]domain.BuildResult, len(r.Inputs()))
	for _, input := range r.Inputs() {
		if result, ok := state.results[input]; ok {
			deps[input.String()] = result
		}
	}
	return deps
}

func (state *runState) handleResult(res buildOutcome) {
	state.active--
	if res.err != nil {
		wrapped := zerr.With(zerr.Wrap(res.err, "package build failed"), "package", res.name.String())
		state.errs = errors.Join(state.errs, wrapped)
		state.s.setStatus(res.name, StatusFailed)
		return
	}

	state.results[res.name] = res.result
	if state.s.Status(res.name) != StatusCached {
		state.s.setStatus(res.name, StatusCompleted)
	}
	for _, dependent := range state.graph.Dependents(res.name) {
		state.inDegree[dependent]--
		if state.inDegree[dependent] == 0 {
			state.ready = append(state.ready, dependent)
		}
	}
}

// buildOne takes a single recipe from pinned source to store output.
func (s *Scheduler) buildOne(
	ctx context.Context,
	r *domain.Recipe,
	deps map[string]domain.BuildResult,
	force bool,
) (domain.BuildResult, error) {
	if !r.SupportsPlatform(runtime.GOOS, runtime.GOARCH) {
		return domain.BuildResult{}, zerr.With(zerr.With(domain.ErrUnsupportedPlatform,
			"package", r.Name.String()),
			"platform", runtime.GOOS+"/"+runtime.GOARCH)
	}

	inputHashes := make(map[string]string, len(deps))
	for name, result := range deps {
		inputHashes[name] = result.InputHash
	}
	inputHash := s.hasher.ComputeInputHash(r, inputHashes)

	if !force {
		prev, err := s.store.Get(r.Name.String())
		if err == nil && prev != nil && prev.InputHash == inputHash {
			s.setStatus(r.Name, StatusCached)
			s.logger.Info("cache hit: " + r.Name.String() + "-" + r.Version.String())
			_, vertex := s.telemetry.Record(ctx, r.Name.String()+"-"+r.Version.String())
			vertex.Cached()
			vertex.Complete(nil)
			return *prev, nil
		}
	}

	ctx, vertex := s.telemetry.Record(ctx, r.Name.String()+"-"+r.Version.String())
	result, err := s.runPhases(ctx, r, deps, inputHash, vertex)
	vertex.Complete(err)
	if err == nil {
		s.logger.Info("built " + result.Name + "-" + result.Version + " -> " + result.StorePath)
	}
	return result, err
}

func (s *Scheduler) runPhases(
	ctx context.Context,
	r *domain.Recipe,
	deps map[string]domain.BuildResult,
	inputHash string,
	vertex ports.Vertex,
) (domain.BuildResult, error) {
	digest := domain.StoreDigest(r, inputHashesOf(deps))
	outPath, err := s.store.Path(digest, r)
	if err != nil {
		return domain.BuildResult{}, err
	}

	workDir, err := os.MkdirTemp("", "kiln-"+r.Name.String()+"-")
	if err != nil {
		return domain.BuildResult{}, zerr.Wrap(err, "failed to create work directory")
	}
	defer func() { _ = os.RemoveAll(workDir) }()

	archive, err := s.fetcher.Fetch(ctx, r.Source)
	if err != nil {
		return domain.BuildResult{}, err
	}

	srcDir := filepath.Join(workDir, "src")
	if err := s.fetcher.Unpack(archive, srcDir); err != nil {
		return domain.BuildResult{}, err
	}

	if !r.Check.Enable && r.Check.Reason != "" {
		vertex.Log("check phase disabled: " + r.Check.Reason)
	}

	native, libraries := s.splitInputs(r, deps)
	phaseEnv := s.envFactory.Compose(native, libraries)
	phaseEnv = append(phaseEnv, "out="+outPath)

	if err := os.MkdirAll(outPath, 0o750); err != nil {
		return domain.BuildResult{}, zerr.Wrap(err, "failed to create output path")
	}

	for _, phase := range r.Phases(srcDir, outPath) {
		vertex.Log("running " + phase.Phase + " phase")
		if err := s.executor.Execute(ctx, &phase, phaseEnv, vertex.Stdout(), vertex.Stderr()); err != nil {
			// A partial install must not look like a valid output.
			_ = os.RemoveAll(outPath)
			return domain.BuildResult{}, err
		}
	}

	outputHash, err := s.hasher.ComputeOutputHash(outPath)
	if err != nil {
		return domain.BuildResult{}, err
	}

	result := domain.BuildResult{
		Name:       r.Name.String(),
		Version:    r.Version.String(),
		InputHash:  inputHash,
		OutputHash: outputHash,
		StorePath:  outPath,
		Timestamp:  time.Now(),
	}
	if err := s.store.Put(result); err != nil {
		return domain.BuildResult{}, err
	}
	return result, nil
}

func (s *Scheduler) splitInputs(r *domain.Recipe, deps map[string]domain.BuildResult) (native, libraries []domain.BuildResult) {
	for _, name := range r.NativeBuildInputs {
		if result, ok := deps[name.String()]; ok {
			native = append(native, result)
		}
	}
	for _, name := range r.BuildInputs {
		if result, ok := deps[name.String()]; ok {
			libraries = append(libraries, result)
		}
	}
	return native, libraries
}

func inputHashesOf(deps map[string]domain.BuildResult) map[string]string {
	hashes := make(map[string]string, len(deps))
	for name, result := range deps {
		hashes[name] = result.InputHash
	}
	return hashes
}
