// Package env composes build phase environments from installed inputs.
package env

import (
	"os"
	"path/filepath"
	"strings"

	"go.kiln.sh/kiln/internal/core/domain"
	"go.kiln.sh/kiln/internal/core/ports"
)

// Factory implements ports.EnvironmentFactory against the on-disk
// layout of store outputs: bin/, include/, lib/, lib/pkgconfig/.
type Factory struct{}

var _ ports.EnvironmentFactory = (*Factory)(nil)

// NewFactory creates a new Factory.
func NewFactory() *Factory {
	return &Factory{}
}

// Compose builds the environment for a recipe's phases. Native build
// inputs contribute bin/ directories to PATH; library inputs contribute
// include and link flags plus pkg-config search paths. Directories that
// an input did not install are left out.
func (f *Factory) Compose(native, libraries []domain.BuildResult) []string {
	var (
		pathDirs  []string
		cflags    []string
		ldflags   []string
		pkgConfig []string
	)

	for _, input := range native {
		if dir := existingDir(input.StorePath, "bin"); dir != "" {
			pathDirs = append(pathDirs, dir)
		}
	}

	for _, input := range libraries {
		if dir := existingDir(input.StorePath, "include"); dir != "" {
			cflags = append(cflags, "-I"+dir)
		}
		if dir := existingDir(input.StorePath, "lib"); dir != "" {
			ldflags = append(ldflags, "-L"+dir)
		}
		if dir := existingDir(input.StorePath, "lib", "pkgconfig"); dir != "" {
			pkgConfig = append(pkgConfig, dir)
		}
	}

	var out []string
	if len(pathDirs) > 0 {
		out = append(out, "PATH="+strings.Join(pathDirs, string(os.PathListSeparator)))
	}
	if len(cflags) > 0 {
		out = append(out, "CFLAGS="+strings.Join(cflags, " "))
		out = append(out, "CXXFLAGS="+strings.Join(cflags, " "))
	}
	if len(ldflags) > 0 {
		out = append(out, "LDFLAGS="+strings.Join(ldflags, " "))
	}
	if len(pkgConfig) > 0 {
		out = append(out, "PKG_CONFIG_PATH="+strings.Join(pkgConfig, string(os.PathListSeparator)))
	}
	return out
}

func existingDir(parts ...string) string {
	dir := filepath.Join(parts...)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return ""
	}
	return dir
}
