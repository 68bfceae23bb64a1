package fs

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/cespare/xxhash/v2"
	"go.kiln.sh/kiln/internal/core/domain"
	"go.kiln.sh/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher computes input and output hashes for recipes.
type Hasher struct {
	walker *Walker
}

// NewHasher creates a new Hasher.
func NewHasher(walker *Walker) *Hasher {
	return &Hasher{walker: walker}
}

// ComputeInputHash hashes everything that determines a build result:
// the recipe definition, the pinned source, and the input hashes of all
// dependencies in deterministic order.
func (h *Hasher) ComputeInputHash(r *domain.Recipe, inputHashes map[string]string) string {
	hasher := xxhash.New()

	writeField := func(parts ...string) {
		for _, p := range parts {
			_, _ = hasher.WriteString(p)
			_, _ = hasher.Write([]byte{0})
		}
	}

	writeField(r.Name.String(), r.Version.String())
	writeField(r.Source.Host, r.Source.Owner, r.Source.Repo, r.Source.Rev, r.Source.Hash.String())
	writeField(r.ConfigureScript)
	writeField(r.ConfigureFlags...)
	writeField(r.BuildCommand...)
	writeField(r.InstallCommand...)
	if r.Check.Enable {
		writeField("check")
		writeField(r.Check.Target...)
		writeField(r.Check.PreCheck...)
		writeField(r.Check.PostCheck...)
	}
	_, _ = hasher.Write([]byte{0})

	names := make([]string, 0, len(inputHashes))
	for name := range inputHashes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		writeField(name, inputHashes[name])
	}

	return fmt.Sprintf("%016x", hasher.Sum64())
}

// ComputeOutputHash hashes the installed tree under root: each file's
// store-relative path and content digest, in walk order.
func (h *Hasher) ComputeOutputHash(root string) (string, error) {
	hasher := xxhash.New()

	for path := range h.walker.WalkFiles(root) {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		_, _ = hasher.WriteString(rel)
		_, _ = hasher.Write([]byte{0})

		fileHash, err := h.ComputeFileHash(path)
		if err != nil {
			return "", err
		}
		if err := binary.Write(hasher, binary.LittleEndian, fileHash); err != nil {
			return "", zerr.Wrap(err, "failed to write hash to digest")
		}
	}

	return fmt.Sprintf("%016x", hasher.Sum64()), nil
}

// ComputeFileHash computes the XXHash of a file's content.
func (h *Hasher) ComputeFileHash(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from walking the store
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to hash file content"), "path", path)
	}

	return hasher.Sum64(), nil
}
