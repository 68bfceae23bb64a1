// Package shell runs build phase commands via os/exec.
package shell

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.kiln.sh/kiln/internal/core/domain"
	"go.kiln.sh/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

// Executor implements ports.Executor using os/exec.
type Executor struct{}

var _ ports.Executor = (*Executor)(nil)

// NewExecutor creates a new Executor.
func NewExecutor() *Executor {
	return &Executor{}
}

// Execute runs the invocation with env layered over os.Environ().
// PATH entries from env are prepended to the system PATH so declared
// tools shadow system ones. The executable is resolved against the
// merged PATH before the process starts.
func (e *Executor) Execute(ctx context.Context, inv *domain.Invocation, env []string, stdout, stderr io.Writer) error {
	if len(inv.Argv) == 0 {
		return nil
	}

	name := inv.Argv[0]
	args := inv.Argv[1:]

	cmdEnv := mergeEnvironment(os.Environ(), env)

	executable := name
	if !filepath.IsAbs(name) && !strings.Contains(name, string(os.PathSeparator)) {
		if lp, err := lookPath(name, cmdEnv); err == nil {
			executable = lp
		}
	}

	cmd := exec.CommandContext(ctx, executable, args...) //nolint:gosec // argv comes from the recipe
	if len(cmd.Args) > 0 {
		cmd.Args[0] = name
	}
	cmd.Dir = inv.Dir
	cmd.Env = cmdEnv
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		exitCode := -1
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
		return zerr.With(zerr.With(zerr.Wrap(err, "phase command failed"),
			"phase", inv.Phase),
			"exit_code", exitCode)
	}

	return nil
}

// mergeEnvironment layers overlay entries over the base environment.
// PATH is prepended rather than replaced.
func mergeEnvironment(base, overlay []string) []string {
	envMap := make(map[string]string, len(base)+len(overlay))
	order := make([]string, 0, len(base)+len(overlay))

	set := func(k, v string) {
		if _, seen := envMap[k]; !seen {
			order = append(order, k)
		}
		envMap[k] = v
	}

	for _, entry := range base {
		if k, v, ok := strings.Cut(entry, "="); ok {
			set(k, v)
		}
	}

	for _, entry := range overlay {
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if k == "PATH" {
			if basePath, exists := envMap["PATH"]; exists && basePath != "" {
				v = v + string(os.PathListSeparator) + basePath
			}
		}
		set(k, v)
	}

	result := make([]string, 0, len(order))
	for _, k := range order {
		result = append(result, k+"="+envMap[k])
	}
	return result
}

// lookPath searches for an executable in the PATH of the given environment.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
