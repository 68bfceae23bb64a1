package ports

import (
	"context"

	"go.kiln.sh/kiln/internal/core/domain"
)

// SourceFetcher acquires pinned source snapshots.
//
//go:generate go run go.uber.org/mock/mockgen -source=fetcher.go -destination=mocks/mock_fetcher.go -package=mocks
type SourceFetcher interface {
	// URL resolves the archive URL the pinned revision downloads from.
	URL(src domain.Source) (string, error)

	// Fetch downloads the archive for the pinned revision, verifies its
	// content hash against src.Hash, and returns the path of the cached
	// archive. A hash mismatch fails with domain.ErrHashMismatch; there
	// are no retries.
	Fetch(ctx context.Context, src domain.Source) (string, error)

	// Unpack extracts a fetched archive into dest, stripping the single
	// top-level directory forge archives carry.
	Unpack(archive, dest string) error
}
