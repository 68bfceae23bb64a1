// Package fs provides file system helpers for walking and hashing
// installed trees.
package fs

import (
	"io/fs"
	"iter"
	"path/filepath"
)

// Walker yields the files of a directory tree in walk order.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkFiles yields all regular file paths under root, in the
// deterministic lexical order of filepath.WalkDir.
func (w *Walker) WalkFiles(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}
