// Package fetch acquires pinned source archives and unpacks them.
package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"go.kiln.sh/kiln/internal/core/domain"
	"go.kiln.sh/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	dirPerm  = 0o750
	filePerm = 0o600
)

// Fetcher implements ports.SourceFetcher with an HTTP client and a
// content-addressed download cache: archives are stored under the
// declared hash, so a cache hit never needs the network.
type Fetcher struct {
	cacheDir string
	client   *http.Client
}

var _ ports.SourceFetcher = (*Fetcher)(nil)

// NewFetcher creates a Fetcher caching downloads under cacheDir.
func NewFetcher(cacheDir string) *Fetcher {
	return &Fetcher{
		cacheDir: cacheDir,
		client:   http.DefaultClient,
	}
}

// NewFetcherWithClient creates a Fetcher with a custom HTTP client.
// Used by tests to point at an httptest server.
func NewFetcherWithClient(cacheDir string, client *http.Client) *Fetcher {
	return &Fetcher{cacheDir: cacheDir, client: client}
}

// URL resolves the archive URL src downloads from.
func (f *Fetcher) URL(src domain.Source) (string, error) {
	return ArchiveURL(src)
}

// Fetch downloads the archive for src, verifies its content hash, and
// returns the cached archive path. A mismatch aborts with
// domain.ErrHashMismatch; there is no retry.
func (f *Fetcher) Fetch(ctx context.Context, src domain.Source) (string, error) {
	archiveURL, err := ArchiveURL(src)
	if err != nil {
		return "", err
	}
	return f.FetchURL(ctx, archiveURL, src.Hash)
}

// FetchURL downloads url and verifies it against the expected hash.
func (f *Fetcher) FetchURL(ctx context.Context, archiveURL string, expected domain.SourceHash) (string, error) {
	cached := filepath.Join(f.cacheDir, expected.Digest+".tar")

	if verifyFile(cached, expected) {
		return cached, nil
	}

	if err := os.MkdirAll(f.cacheDir, dirPerm); err != nil {
		return "", zerr.Wrap(err, "failed to create download cache")
	}

	tmp, err := os.CreateTemp(f.cacheDir, "fetch-*")
	if err != nil {
		return "", zerr.Wrap(err, "failed to create temp file")
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	digest, err := f.download(ctx, archiveURL, tmp)
	if err != nil {
		return "", err
	}

	if digest != expected.Digest {
		return "", zerr.With(zerr.With(zerr.With(domain.ErrHashMismatch,
			"url", archiveURL),
			"expected", expected.String()),
			"got", "sha256:"+digest)
	}

	if err := tmp.Close(); err != nil {
		return "", zerr.Wrap(err, "failed to close temp file")
	}
	if err := os.Rename(tmp.Name(), cached); err != nil {
		return "", zerr.Wrap(err, "failed to move archive into cache")
	}
	return cached, nil
}

// download streams the response body into w and returns the hex sha256
// of the bytes written.
func (f *Fetcher) download(ctx context.Context, archiveURL string, w io.Writer) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, archiveURL, nil)
	if err != nil {
		return "", zerr.Wrap(err, "failed to build request")
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "download failed"), "url", archiveURL)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", zerr.With(zerr.With(zerr.New("unexpected HTTP status"),
			"status", resp.StatusCode),
			"url", archiveURL)
	}

	hasher := sha256.New()
	if _, err := io.Copy(io.MultiWriter(w, hasher), resp.Body); err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to read response body"), "url", archiveURL)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// verifyFile reports whether path exists and matches the expected hash.
// A corrupt cache entry is removed so the caller re-downloads.
func verifyFile(path string, expected domain.SourceHash) bool {
	data, err := os.ReadFile(path) //nolint:gosec // path is inside our cache dir
	if err != nil {
		return false
	}
	if !expected.Matches(data) {
		_ = os.Remove(path)
		return false
	}
	return true
}
