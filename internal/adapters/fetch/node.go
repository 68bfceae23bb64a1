package fetch

import (
	"context"
	"os"
	"path/filepath"

	"github.com/grindlemire/graft"
	"go.kiln.sh/kiln/internal/core/ports"
)

// NodeID is the unique identifier for the source fetcher Graft node.
const NodeID graft.ID = "adapter.source_fetcher"

// DefaultCacheDir returns the download cache location, honoring KILN_CACHE.
func DefaultCacheDir() string {
	if dir := os.Getenv("KILN_CACHE"); dir != "" {
		return dir
	}
	return filepath.Join(".kiln", "cache")
}

func init() {
	graft.Register(graft.Node[ports.SourceFetcher]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.SourceFetcher, error) {
			return NewFetcher(DefaultCacheDir()), nil
		},
	})
}
