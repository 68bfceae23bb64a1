package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// Recipe is a declarative build of one upstream package: where to fetch
// the pinned source, what it needs to build, how the upstream build is
// invoked, and the package metadata. Recipes are immutable once loaded.
type Recipe struct {
	Name    InternedString
	Version InternedString

	Source Source

	// NativeBuildInputs are tools required on PATH during the build.
	// BuildInputs are libraries linked or referenced by the result.
	NativeBuildInputs []InternedString
	BuildInputs       []InternedString

	// ConfigureScript is the script run during the configure phase,
	// relative to the unpacked source root. Empty means ./configure
	// when flags are declared, otherwise the phase is skipped.
	ConfigureScript string
	ConfigureFlags  []string

	BuildCommand   []string
	InstallCommand []string

	Check Check
	Meta  Meta
}

// Check controls the optional test phase. Disabled checks should carry
// a Reason explaining why upstream tests are not run.
type Check struct {
	Enable    bool
	Target    []string
	PreCheck  []string
	PostCheck []string
	Reason    string
}

// Source pins an upstream forge tarball by revision and content hash.
type Source struct {
	Host  string
	Owner string
	Repo  string
	Rev   string
	Hash  SourceHash
}

// Maintainer identifies one package maintainer.
type Maintainer struct {
	Name   string
	Email  string
	GitHub string
}

// Meta is descriptive package metadata. It never influences the build
// output or its store digest.
type Meta struct {
	Homepage    string
	Description string
	License     string
	Platforms   []Platform
	Maintainers []Maintainer
}

// Platform is an os/arch pair a recipe declares support for.
type Platform struct {
	OS   string
	Arch string
}

// ParsePlatform parses a "os/arch" string such as "linux/amd64".
func ParsePlatform(s string) (Platform, error) {
	osPart, archPart, ok := strings.Cut(s, "/")
	if !ok || osPart == "" || archPart == "" {
		return Platform{}, zerr.With(ErrInvalidPlatform, "platform", s)
	}
	return Platform{OS: osPart, Arch: archPart}, nil
}

func (p Platform) String() string {
	return p.OS + "/" + p.Arch
}

// SupportsPlatform reports whether the recipe builds on the given
// platform. A recipe that declares no platforms supports all of them.
func (r *Recipe) SupportsPlatform(goos, goarch string) bool {
	if len(r.Meta.Platforms) == 0 {
		return true
	}
	for _, p := range r.Meta.Platforms {
		if p.OS == goos && p.Arch == goarch {
			return true
		}
	}
	return false
}

// Inputs returns all declared inputs, native build inputs first.
func (r *Recipe) Inputs() []InternedString {
	if len(r.NativeBuildInputs)+len(r.BuildInputs) == 0 {
		return nil
	}
	inputs := make([]InternedString, 0, len(r.NativeBuildInputs)+len(r.BuildInputs))
	inputs = append(inputs, r.NativeBuildInputs...)
	inputs = append(inputs, r.BuildInputs...)
	return inputs
}

// Validate checks structural invariants the loader cannot express.
func (r *Recipe) Validate() error {
	if r.Name.String() == "" {
		return ErrMissingName
	}
	if r.Version.String() == "" {
		return zerr.With(ErrMissingVersion, "recipe", r.Name.String())
	}
	if err := r.Source.Validate(); err != nil {
		return zerr.With(err, "recipe", r.Name.String())
	}
	if r.Check.Enable && len(r.Check.Target) == 0 {
		return zerr.With(ErrMissingCheckTarget, "recipe", r.Name.String())
	}
	return nil
}

// Validate checks that the source pins owner, repo, revision, and hash.
func (s *Source) Validate() error {
	if s.Owner == "" || s.Repo == "" || s.Rev == "" {
		return ErrIncompleteSource
	}
	if s.Hash.IsZero() {
		return zerr.With(ErrIncompleteSource, "missing", "hash")
	}
	return nil
}
