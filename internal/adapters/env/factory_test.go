package env_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.kiln.sh/kiln/internal/adapters/env"
	"go.kiln.sh/kiln/internal/core/domain"
)

// fakeOutput lays out a store output with the named subdirectories.
func fakeOutput(t *testing.T, name string, dirs ...string) domain.BuildResult {
	t.Helper()
	root := filepath.Join(t.TempDir(), name)
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(root, d), 0o750); err != nil {
			t.Fatalf("failed to create %s: %v", d, err)
		}
	}
	return domain.BuildResult{Name: name, StorePath: root}
}

func envValue(envs []string, key string) (string, bool) {
	for _, e := range envs {
		if v, ok := strings.CutPrefix(e, key+"="); ok {
			return v, true
		}
	}
	return "", false
}

func TestFactory_Compose(t *testing.T) {
	gcc := fakeOutput(t, "gcc", "bin")
	zlib := fakeOutput(t, "zlib", "include", "lib", filepath.Join("lib", "pkgconfig"))

	f := env.NewFactory()
	envs := f.Compose([]domain.BuildResult{gcc}, []domain.BuildResult{zlib})

	path, ok := envValue(envs, "PATH")
	if !ok {
		t.Fatal("expected PATH in composed environment")
	}
	if path != filepath.Join(gcc.StorePath, "bin") {
		t.Errorf("PATH = %q", path)
	}

	cflags, ok := envValue(envs, "CFLAGS")
	if !ok || cflags != "-I"+filepath.Join(zlib.StorePath, "include") {
		t.Errorf("CFLAGS = %q (present=%v)", cflags, ok)
	}
	if cxx, ok := envValue(envs, "CXXFLAGS"); !ok || cxx != cflags {
		t.Errorf("CXXFLAGS = %q, want same as CFLAGS", cxx)
	}

	ldflags, ok := envValue(envs, "LDFLAGS")
	if !ok || ldflags != "-L"+filepath.Join(zlib.StorePath, "lib") {
		t.Errorf("LDFLAGS = %q (present=%v)", ldflags, ok)
	}

	pkg, ok := envValue(envs, "PKG_CONFIG_PATH")
	if !ok || pkg != filepath.Join(zlib.StorePath, "lib", "pkgconfig") {
		t.Errorf("PKG_CONFIG_PATH = %q (present=%v)", pkg, ok)
	}
}

func TestFactory_Compose_SkipsMissingDirs(t *testing.T) {
	// A header-only input installs include/ but no lib/.
	headers := fakeOutput(t, "headers", "include")
	// A tool without bin/ contributes nothing to PATH.
	bare := fakeOutput(t, "bare")

	f := env.NewFactory()
	envs := f.Compose([]domain.BuildResult{bare}, []domain.BuildResult{headers})

	if _, ok := envValue(envs, "PATH"); ok {
		t.Error("expected no PATH entry for input without bin/")
	}
	if _, ok := envValue(envs, "LDFLAGS"); ok {
		t.Error("expected no LDFLAGS for input without lib/")
	}
	if _, ok := envValue(envs, "CFLAGS"); !ok {
		t.Error("expected CFLAGS for input with include/")
	}
}

func TestFactory_Compose_Empty(t *testing.T) {
	f := env.NewFactory()
	if envs := f.Compose(nil, nil); len(envs) != 0 {
		t.Errorf("expected empty environment, got %v", envs)
	}
}

func TestFactory_Compose_MultiplePaths(t *testing.T) {
	a := fakeOutput(t, "make", "bin")
	b := fakeOutput(t, "cmake", "bin")

	f := env.NewFactory()
	envs := f.Compose([]domain.BuildResult{a, b}, nil)

	path, ok := envValue(envs, "PATH")
	if !ok {
		t.Fatal("expected PATH in composed environment")
	}
	want := filepath.Join(a.StorePath, "bin") + string(os.PathListSeparator) + filepath.Join(b.StorePath, "bin")
	if path != want {
		t.Errorf("PATH = %q, want %q", path, want)
	}
}
