package domain_test

import (
	"strings"
	"testing"

	"go.kiln.sh/kiln/internal/core/domain"
)

func TestStoreDigest_Deterministic(t *testing.T) {
	r := validRecipe()
	inputs := map[string]string{
		"zlib":    strings.Repeat("a", 64),
		"openssl": strings.Repeat("b", 64),
	}

	first := domain.StoreDigest(r, inputs)
	second := domain.StoreDigest(r, inputs)
	if first != second {
		t.Errorf("digest not deterministic: %s != %s", first, second)
	}
	if len(first) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(first))
	}
}

func TestStoreDigest_SensitiveToRecipe(t *testing.T) {
	base := domain.StoreDigest(validRecipe(), nil)

	mutations := map[string]func(r *domain.Recipe){
		"version":        func(r *domain.Recipe) { r.Version = domain.NewInternedString("2.0") },
		"rev":            func(r *domain.Recipe) { r.Source.Rev = "deadbeef" },
		"configureFlags": func(r *domain.Recipe) { r.ConfigureFlags = []string{"--static"} },
		"buildCommand":   func(r *domain.Recipe) { r.BuildCommand = []string{"ninja"} },
		"check": func(r *domain.Recipe) {
			r.Check.Enable = true
			r.Check.Target = []string{"make", "check"}
		},
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			r := validRecipe()
			mutate(r)
			if domain.StoreDigest(r, nil) == base {
				t.Errorf("mutation %q did not change the digest", name)
			}
		})
	}
}

func TestStoreDigest_InputOrderIndependent(t *testing.T) {
	r := validRecipe()

	// Maps iterate in random order; the digest must not depend on it.
	inputs := map[string]string{
		"a": strings.Repeat("1", 64),
		"b": strings.Repeat("2", 64),
		"c": strings.Repeat("3", 64),
	}
	want := domain.StoreDigest(r, inputs)
	for range 10 {
		if got := domain.StoreDigest(r, inputs); got != want {
			t.Fatalf("digest depends on map iteration order")
		}
	}

	inputs["c"] = strings.Repeat("4", 64)
	if domain.StoreDigest(r, inputs) == want {
		t.Error("changing an input digest did not change the digest")
	}
}

func TestStorePathComponent(t *testing.T) {
	r := validRecipe()
	digest := strings.Repeat("ab", 32)

	got := domain.StorePathComponent(digest, r)
	want := "abababababab-zlib-1.3.1"
	if got != want {
		t.Errorf("StorePathComponent = %q, want %q", got, want)
	}
}
