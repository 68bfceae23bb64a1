package domain

// Phase names, in execution order.
const (
	PhaseConfigure = "configure"
	PhaseBuild     = "build"
	PhaseInstall   = "install"
	PhasePreCheck  = "preCheck"
	PhaseCheck     = "check"
	PhasePostCheck = "postCheck"
)

// Invocation is one delegated upstream build step: a command run in the
// unpacked source tree. The environment is composed separately by the
// environment factory.
type Invocation struct {
	Phase string
	Argv  []string
	Dir   string
}

const defaultConfigureScript = "./configure"

// Phases returns the ordered invocations for building the recipe into
// outPath, run in srcDir. Fetching and unpacking are not phases here;
// they happen before and are the fetcher's concern. Check phases are
// present only when enabled.
func (r *Recipe) Phases(srcDir, outPath string) []Invocation {
	var phases []Invocation

	script := r.ConfigureScript
	if script == "" && len(r.ConfigureFlags) > 0 {
		script = defaultConfigureScript
	}
	if script != "" {
		argv := make([]string, 0, 2+len(r.ConfigureFlags))
		argv = append(argv, script, "--prefix="+outPath)
		argv = append(argv, r.ConfigureFlags...)
		phases = append(phases, Invocation{Phase: PhaseConfigure, Argv: argv, Dir: srcDir})
	}

	build := r.BuildCommand
	if len(build) == 0 {
		build = []string{"make"}
	}
	phases = append(phases, Invocation{Phase: PhaseBuild, Argv: build, Dir: srcDir})

	install := r.InstallCommand
	if len(install) == 0 {
		install = []string{"make", "install"}
	}
	phases = append(phases, Invocation{Phase: PhaseInstall, Argv: install, Dir: srcDir})

	if r.Check.Enable {
		if len(r.Check.PreCheck) > 0 {
			phases = append(phases, Invocation{Phase: PhasePreCheck, Argv: r.Check.PreCheck, Dir: srcDir})
		}
		phases = append(phases, Invocation{Phase: PhaseCheck, Argv: r.Check.Target, Dir: srcDir})
		if len(r.Check.PostCheck) > 0 {
			phases = append(phases, Invocation{Phase: PhasePostCheck, Argv: r.Check.PostCheck, Dir: srcDir})
		}
	}

	return phases
}
