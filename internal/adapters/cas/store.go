// Package cas implements the content-addressed output store and its
// build result index.
package cas

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.kiln.sh/kiln/internal/core/domain"
	"go.kiln.sh/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

const indexFile = "index.json"

// Store implements ports.ResultStore. Built trees live under the store
// root at "<digest12>-<name>-<version>"; results are indexed in a flat
// JSON file next to them.
type Store struct {
	root  string
	mu    sync.RWMutex
	cache map[string]domain.BuildResult
}

var _ ports.ResultStore = (*Store)(nil)

// NewStore creates a ResultStore rooted at the given directory.
func NewStore(root string) (*Store, error) {
	s := &Store{
		root:  filepath.Clean(root),
		cache: make(map[string]domain.BuildResult),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Root returns the store root directory.
func (s *Store) Root() string {
	return s.root
}

func (s *Store) indexPath() string {
	return filepath.Join(s.root, indexFile)
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	//nolint:gosec // path is inside the store root
	data, err := os.ReadFile(s.indexPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.Wrap(err, "failed to read store index")
	}

	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, &s.cache); err != nil {
		return zerr.Wrap(err, "failed to unmarshal store index")
	}

	return nil
}

func (s *Store) save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(s.cache, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal store index")
	}

	if err := os.MkdirAll(s.root, 0o750); err != nil {
		return zerr.Wrap(err, "failed to create store root")
	}

	//nolint:gosec // path is inside the store root
	if err := os.WriteFile(s.indexPath(), data, 0o644); err != nil {
		return zerr.Wrap(err, "failed to write store index")
	}

	return nil
}

// Get retrieves the recorded result for a package name.
func (s *Store) Get(name string) (*domain.BuildResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result, ok := s.cache[name]
	if !ok {
		return nil, nil
	}
	return &result, nil
}

// Put records a build result and persists the index.
func (s *Store) Put(result domain.BuildResult) error {
	s.mu.Lock()
	s.cache[result.Name] = result
	s.mu.Unlock()

	return s.save()
}

// Path returns the absolute store path for the given digest and recipe,
// creating the store root if needed.
func (s *Store) Path(digest string, r *domain.Recipe) (string, error) {
	if err := os.MkdirAll(s.root, 0o750); err != nil {
		return "", zerr.Wrap(err, "failed to create store root")
	}
	abs, err := filepath.Abs(filepath.Join(s.root, domain.StorePathComponent(digest, r)))
	if err != nil {
		return "", zerr.Wrap(err, "failed to resolve store path")
	}
	return abs, nil
}
