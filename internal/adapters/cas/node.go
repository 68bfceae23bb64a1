package cas

import (
	"context"
	"os"
	"path/filepath"

	"github.com/grindlemire/graft"
	"go.kiln.sh/kiln/internal/core/ports"
)

// NodeID is the unique identifier for the result store Graft node.
const NodeID graft.ID = "adapter.result_store"

// DefaultStoreRoot returns the store location, honoring KILN_STORE.
func DefaultStoreRoot() string {
	if dir := os.Getenv("KILN_STORE"); dir != "" {
		return dir
	}
	return filepath.Join(".kiln", "store")
}

func init() {
	graft.Register(graft.Node[ports.ResultStore]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ResultStore, error) {
			return NewStore(DefaultStoreRoot())
		},
	})
}
