// SPDX-License-Identifier: MPL-2.0

// Package checklist implements the pre-publish checklist: an ordered set
// of independent, read-only checks over the repository state, aggregated
// into error/warning counts that decide whether publishing may proceed.
package checklist

import (
	"os/exec"
	"path/filepath"

	"chaosrel/internal/config"
	"chaosrel/internal/version"
	"chaosrel/pkg/types"
)

type (
	// Severity classifies a single check outcome.
	Severity int

	// Result is the outcome of one check: a severity plus a
	// human-readable message. Results are never persisted.
	Result struct {
		// Name is a stable check identifier used in output.
		Name string
		// Severity classifies the outcome.
		Severity Severity
		// Message is the human-readable outcome, including the
		// remediation hint for tool-missing warnings.
		Message string
	}

	// Report is the ordered sequence of results from one checklist run
	// plus the aggregate counts. Created fresh per invocation.
	Report struct {
		Results  []Result
		Errors   int
		Warnings int
	}

	// Check is a single checklist rule. Run must be read-only with
	// respect to the repository and must always return a Result; rules
	// never abort the run.
	Check struct {
		Name string
		Run  func(env *Env) Result
	}

	// Env is the shared read-only state the checks evaluate against.
	// Version is filled in by the version-consistency check and consumed
	// by the changelog and tag checks; it stays empty when the version
	// could not be resolved.
	Env struct {
		// Root is the repository root directory.
		Root string
		// Config is the resolved configuration.
		Config *config.Config
		// Store reads the two version locations.
		Store *version.Store
		// LookPath resolves an executable name against PATH. Tests
		// substitute a stub; the default is exec.LookPath.
		LookPath func(name string) (string, error)
		// Version is the resolved release version, when known.
		Version version.VersionString
	}

	// Runner executes the checklist in its fixed order.
	Runner struct {
		// Env is the shared state the checks read. Exposed so tests can
		// substitute the PATH lookup.
		Env *Env

		checks []Check
	}
)

// Check severities.
const (
	SeverityPass Severity = iota
	SeverityWarning
	SeverityError
)

// Result constructors.
func pass(name, msg string) Result { return Result{Name: name, Severity: SeverityPass, Message: msg} }
func warn(name, msg string) Result {
	return Result{Name: name, Severity: SeverityWarning, Message: msg}
}
func fail(name, msg string) Result { return Result{Name: name, Severity: SeverityError, Message: msg} }

// NewRunner creates a Runner over the repository rooted at root.
func NewRunner(root string, cfg *config.Config) *Runner {
	env := &Env{
		Root:   root,
		Config: cfg,
		Store: version.NewStore(
			types.FilesystemPath(filepath.Join(root, cfg.Project.Manifest)),
			types.FilesystemPath(filepath.Join(root, cfg.Project.PackageInit)),
		),
		LookPath: exec.LookPath,
	}
	return &Runner{Env: env, checks: releaseChecks()}
}

// Run executes every check in order and aggregates the results. Checks
// never short-circuit one another: all of them run even when errors are
// already known, so the report stays complete.
func (r *Runner) Run() *Report {
	report := &Report{Results: make([]Result, 0, len(r.checks))}
	for _, check := range r.checks {
		result := check.Run(r.Env)
		report.Results = append(report.Results, result)
		switch result.Severity {
		case SeverityError:
			report.Errors++
		case SeverityWarning:
			report.Warnings++
		}
	}
	return report
}

// Passed reports whether publishing may proceed. Warnings do not block.
func (r *Report) Passed() bool { return r.Errors == 0 }

// ExitCode maps the verdict onto the process exit code.
func (r *Report) ExitCode() types.ExitCode {
	if r.Passed() {
		return 0
	}
	return 1
}
