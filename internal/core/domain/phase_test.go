package domain_test

import (
	"slices"
	"testing"

	"go.kiln.sh/kiln/internal/core/domain"
)

func phaseNames(invs []domain.Invocation) []string {
	names := make([]string, len(invs))
	for i, inv := range invs {
		names[i] = inv.Phase
	}
	return names
}

func TestRecipe_Phases_Defaults(t *testing.T) {
	r := validRecipe()

	phases := r.Phases("/work/src", "/store/out")

	// No configure script and no flags: configure is skipped entirely.
	want := []string{domain.PhaseBuild, domain.PhaseInstall}
	if got := phaseNames(phases); !slices.Equal(got, want) {
		t.Fatalf("expected phases %v, got %v", want, got)
	}
	if !slices.Equal(phases[0].Argv, []string{"make"}) {
		t.Errorf("expected default build command, got %v", phases[0].Argv)
	}
	if !slices.Equal(phases[1].Argv, []string{"make", "install"}) {
		t.Errorf("expected default install command, got %v", phases[1].Argv)
	}
	for _, inv := range phases {
		if inv.Dir != "/work/src" {
			t.Errorf("phase %s runs in %q, want /work/src", inv.Phase, inv.Dir)
		}
	}
}

func TestRecipe_Phases_ConfigureFlags(t *testing.T) {
	r := validRecipe()
	r.ConfigureFlags = []string{"--enable-shared", "--without-docs"}

	phases := r.Phases("/work/src", "/store/out")
	if phases[0].Phase != domain.PhaseConfigure {
		t.Fatalf("expected configure first, got %s", phases[0].Phase)
	}

	want := []string{"./configure", "--prefix=/store/out", "--enable-shared", "--without-docs"}
	if !slices.Equal(phases[0].Argv, want) {
		t.Errorf("expected argv %v, got %v", want, phases[0].Argv)
	}
}

func TestRecipe_Phases_CustomConfigureScript(t *testing.T) {
	r := validRecipe()
	r.ConfigureScript = "./Configure"

	phases := r.Phases("/work/src", "/store/out")
	if phases[0].Phase != domain.PhaseConfigure {
		t.Fatalf("expected configure first, got %s", phases[0].Phase)
	}
	if phases[0].Argv[0] != "./Configure" {
		t.Errorf("expected custom script, got %v", phases[0].Argv)
	}
	if phases[0].Argv[1] != "--prefix=/store/out" {
		t.Errorf("expected prefix injection, got %v", phases[0].Argv)
	}
}

func TestRecipe_Phases_Check(t *testing.T) {
	r := validRecipe()
	r.Check = domain.Check{
		Enable:    true,
		Target:    []string{"make", "check"},
		PreCheck:  []string{"make", "test-prep"},
		PostCheck: []string{"rm", "-rf", "test-tmp"},
	}

	phases := r.Phases("/work/src", "/store/out")
	want := []string{
		domain.PhaseBuild, domain.PhaseInstall,
		domain.PhasePreCheck, domain.PhaseCheck, domain.PhasePostCheck,
	}
	if got := phaseNames(phases); !slices.Equal(got, want) {
		t.Fatalf("expected phases %v, got %v", want, got)
	}

	// Disabled check contributes nothing, regardless of targets.
	r.Check.Enable = false
	phases = r.Phases("/work/src", "/store/out")
	want = []string{domain.PhaseBuild, domain.PhaseInstall}
	if got := phaseNames(phases); !slices.Equal(got, want) {
		t.Errorf("expected phases %v, got %v", want, got)
	}
}
