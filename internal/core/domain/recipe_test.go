package domain_test

import (
	"testing"

	"go.kiln.sh/kiln/internal/core/domain"
	"go.trai.ch/zerr"
)

func validRecipe() *domain.Recipe {
	hash, _ := domain.ParseSourceHash(helloHex)
	return &domain.Recipe{
		Name:    domain.NewInternedString("zlib"),
		Version: domain.NewInternedString("1.3.1"),
		Source: domain.Source{
			Owner: "madler",
			Repo:  "zlib",
			Rev:   "v1.3.1",
			Hash:  hash,
		},
	}
}

func TestRecipe_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *domain.Recipe)
		wantErr error
	}{
		{name: "valid", mutate: func(r *domain.Recipe) {}},
		{
			name:    "missing name",
			mutate:  func(r *domain.Recipe) { r.Name = domain.InternedString{} },
			wantErr: domain.ErrMissingName,
		},
		{
			name:    "missing version",
			mutate:  func(r *domain.Recipe) { r.Version = domain.InternedString{} },
			wantErr: domain.ErrMissingVersion,
		},
		{
			name:    "missing rev",
			mutate:  func(r *domain.Recipe) { r.Source.Rev = "" },
			wantErr: domain.ErrIncompleteSource,
		},
		{
			name:    "missing hash",
			mutate:  func(r *domain.Recipe) { r.Source.Hash = domain.SourceHash{} },
			wantErr: domain.ErrIncompleteSource,
		},
		{
			name:    "check without target",
			mutate:  func(r *domain.Recipe) { r.Check.Enable = true },
			wantErr: domain.ErrMissingCheckTarget,
		},
		{
			name: "check with target",
			mutate: func(r *domain.Recipe) {
				r.Check.Enable = true
				r.Check.Target = []string{"make", "check"}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRecipe()
			tt.mutate(r)

			err := r.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected %v, got nil", tt.wantErr)
			}
			if err.Error() != tt.wantErr.Error() {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestParsePlatform(t *testing.T) {
	p, err := domain.ParsePlatform("linux/amd64")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.OS != "linux" || p.Arch != "amd64" {
		t.Errorf("unexpected platform: %+v", p)
	}
	if p.String() != "linux/amd64" {
		t.Errorf("String() = %q", p.String())
	}

	for _, bad := range []string{"", "linux", "linux/", "/amd64"} {
		_, err := domain.ParsePlatform(bad)
		if err == nil || err.Error() != domain.ErrInvalidPlatform.Error() {
			t.Errorf("ParsePlatform(%q): expected ErrInvalidPlatform, got %v", bad, err)
			continue
		}
		zErr, ok := err.(*zerr.Error)
		if !ok {
			t.Fatalf("expected *zerr.Error, got %T", err)
		}
		if got, ok := zErr.Metadata()["platform"].(string); !ok || got != bad {
			t.Errorf("expected metadata platform=%q, got %v", bad, zErr.Metadata()["platform"])
		}
	}
}

func TestRecipe_SupportsPlatform(t *testing.T) {
	r := validRecipe()

	// No declared platforms means all platforms are supported.
	if !r.SupportsPlatform("plan9", "mips") {
		t.Error("recipe without platforms should support everything")
	}

	r.Meta.Platforms = []domain.Platform{
		{OS: "linux", Arch: "amd64"},
		{OS: "darwin", Arch: "arm64"},
	}
	if !r.SupportsPlatform("linux", "amd64") {
		t.Error("expected linux/amd64 to be supported")
	}
	if r.SupportsPlatform("linux", "arm64") {
		t.Error("expected linux/arm64 to be unsupported")
	}
}

func TestRecipe_Inputs(t *testing.T) {
	r := validRecipe()
	if got := r.Inputs(); got != nil {
		t.Errorf("expected nil inputs, got %v", got)
	}

	r.NativeBuildInputs = []domain.InternedString{domain.NewInternedString("pkg-config")}
	r.BuildInputs = []domain.InternedString{domain.NewInternedString("openssl")}

	inputs := r.Inputs()
	if len(inputs) != 2 {
		t.Fatalf("expected 2 inputs, got %d", len(inputs))
	}
	if inputs[0].String() != "pkg-config" || inputs[1].String() != "openssl" {
		t.Errorf("expected native inputs first, got %v", inputs)
	}
}
