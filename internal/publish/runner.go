// SPDX-License-Identifier: MPL-2.0

package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// ErrExternalCommand is the sentinel error wrapped by ExternalCommandError.
var ErrExternalCommand = errors.New("external command failed")

type (
	// CommandRunner executes the opaque external collaborators (package
	// build, integrity check, upload, tool install). Implementations
	// surface the tool's own stdout/stderr verbatim; the pipeline never
	// re-interprets tool diagnostics.
	CommandRunner interface {
		// Run executes name with args in dir and waits for it.
		Run(ctx context.Context, dir, name string, args ...string) error
		// LookPath resolves an executable name against PATH.
		LookPath(name string) (string, error)
	}

	// ExternalCommandError is returned when a collaborator exits
	// non-zero. It is always fatal to the pipeline.
	ExternalCommandError struct {
		Name string
		Args []string
		Err  error
	}

	// ExecRunner runs commands on the host, wiring the tool's output
	// straight through to the operator's terminal.
	ExecRunner struct{}

	// DryRunner prints each command instead of executing it. LookPath
	// still resolves against the real PATH so the tool checks stay
	// meaningful.
	DryRunner struct {
		Out io.Writer
	}
)

// Run implements CommandRunner.
func (ExecRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	if err := cmd.Run(); err != nil {
		return &ExternalCommandError{Name: name, Args: args, Err: err}
	}
	return nil
}

// LookPath implements CommandRunner.
func (ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// Run implements CommandRunner by printing the command line.
func (d *DryRunner) Run(_ context.Context, _, name string, args ...string) error {
	fmt.Fprintf(d.Out, "dry-run: %s %s\n", name, strings.Join(args, " "))
	return nil
}

// LookPath implements CommandRunner.
func (d *DryRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// Error implements the error interface for ExternalCommandError.
func (e *ExternalCommandError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Name, strings.Join(e.Args, " "), e.Err)
}

// Unwrap returns ErrExternalCommand for errors.Is() compatibility.
func (e *ExternalCommandError) Unwrap() error { return ErrExternalCommand }
