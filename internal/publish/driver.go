// SPDX-License-Identifier: MPL-2.0

package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"chaosrel/internal/config"
	"chaosrel/internal/issue"
	"chaosrel/internal/version"
	"chaosrel/pkg/types"
)

// ErrCancelled reports that the operator declined the production upload.
// It is not a failure: the caller exits 0.
var ErrCancelled = errors.New("publish cancelled by operator")

// Driver runs the release pipeline. Stages execute strictly in order:
// CheckTools, Clean, Build, Validate, Upload, Report. The first failing
// external command aborts the whole pipeline.
type Driver struct {
	// Root is the repository root the pipeline operates in.
	Root string
	// Config is the resolved configuration.
	Config *config.Config
	// Runner executes external collaborators.
	Runner CommandRunner
	// Confirmer gates the production upload.
	Confirmer Confirmer
	// Out receives operator-facing output (install hints, follow-ups).
	Out io.Writer
	// Log reports stage progress.
	Log *log.Logger
	// DryRun prints external commands and skips filesystem cleanup.
	DryRun bool
}

// NewDriver creates a Driver with production defaults: commands run on
// the host and confirmation reads from stdin.
func NewDriver(root string, cfg *config.Config) *Driver {
	return &Driver{
		Root:      root,
		Config:    cfg,
		Runner:    ExecRunner{},
		Confirmer: &ReaderConfirmer{In: os.Stdin, Out: os.Stdout},
		Out:       os.Stdout,
		Log:       log.Default(),
	}
}

// Run executes the pipeline against the given target. An invalid target
// fails before any stage runs. Returns ErrCancelled when the operator
// declines the production confirmation.
func (d *Driver) Run(ctx context.Context, target Target) error {
	if target != TargetTest && target != TargetProduction {
		return &InvalidTargetError{Value: string(target)}
	}

	if err := d.checkTools(ctx); err != nil {
		return err
	}
	if err := d.clean(); err != nil {
		return err
	}
	if err := d.build(ctx); err != nil {
		return err
	}
	if err := d.validate(ctx); err != nil {
		return err
	}
	if err := d.upload(ctx, target); err != nil {
		return err
	}
	d.report()
	return nil
}

// checkTools verifies the interpreter is present and installs the build
// and upload tools when they are missing. Reinstalling is idempotent.
func (d *Driver) checkTools(ctx context.Context) error {
	python := d.Config.Tools.Python
	if _, err := d.Runner.LookPath(python); err != nil {
		return issue.NewErrorContext().
			WithOperation("locate interpreter").
			WithResource(python).
			WithSuggestion("Install Python 3 and make sure it is on PATH").
			Wrap(err).
			BuildError()
	}

	var missing []string
	if _, err := d.Runner.LookPath(d.Config.Tools.Build); err != nil {
		missing = append(missing, "build")
	}
	if _, err := d.Runner.LookPath(d.Config.Tools.Upload); err != nil {
		missing = append(missing, "twine")
	}
	if len(missing) > 0 {
		d.Log.Info("installing missing tools", "tools", missing)
		args := append([]string{"-m", "pip", "install", "--upgrade"}, missing...)
		if err := d.Runner.Run(ctx, d.Root, python, args...); err != nil {
			return err
		}
	}
	return nil
}

// clean removes artifact directories left over from a previous build.
// Absent directories are not an error.
func (d *Driver) clean() error {
	for _, dir := range d.Config.Project.ArtifactDirs {
		path := filepath.Join(d.Root, dir)
		if d.DryRun {
			fmt.Fprintf(d.Out, "dry-run: rm -rf %s\n", dir)
			continue
		}
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("failed to remove %s: %w", dir, err)
		}
	}
	d.Log.Debug("artifact directories cleaned", "dirs", d.Config.Project.ArtifactDirs)
	return nil
}

func (d *Driver) build(ctx context.Context) error {
	d.Log.Info("building distribution")
	return d.Runner.Run(ctx, d.Root, d.Config.Tools.Python, "-m", "build")
}

func (d *Driver) validate(ctx context.Context) error {
	files, err := d.distFiles()
	if err != nil {
		return err
	}
	d.Log.Info("validating distribution", "files", len(files))
	return d.Runner.Run(ctx, d.Root, d.Config.Tools.Upload, append([]string{"check"}, files...)...)
}

func (d *Driver) upload(ctx context.Context, target Target) error {
	files, err := d.distFiles()
	if err != nil {
		return err
	}

	if target == TargetProduction {
		fmt.Fprintln(d.Out, "Uploading to the PRODUCTION index. This cannot be undone.")
		confirmed, err := d.Confirmer.Confirm(`Type "yes" to continue: `)
		if err != nil {
			return err
		}
		if !confirmed {
			return ErrCancelled
		}
		d.Log.Info("uploading to production index", "package", d.Config.Publish.PackageName)
		return d.Runner.Run(ctx, d.Root, d.Config.Tools.Upload, append([]string{"upload"}, files...)...)
	}

	d.Log.Info("uploading to test index", "repository", d.Config.Publish.TestRepository)
	args := append([]string{"upload", "--repository", d.Config.Publish.TestRepository}, files...)
	if err := d.Runner.Run(ctx, d.Root, d.Config.Tools.Upload, args...); err != nil {
		return err
	}
	fmt.Fprintf(d.Out, "\nInstall from the test index with:\n  pip install --index-url %s %s\n",
		d.Config.Publish.TestIndexURL, d.Config.Publish.PackageName)
	return nil
}

// report prints the released version and the manual follow-up steps.
// Runs whenever Upload did not abort.
func (d *Driver) report() {
	store := version.NewStore(
		types.FilesystemPath(filepath.Join(d.Root, d.Config.Project.Manifest)),
		types.FilesystemPath(filepath.Join(d.Root, d.Config.Project.PackageInit)),
	)
	released := "(unknown)"
	tag := "v?"
	if v, err := store.Consistent(); err == nil {
		released = v.String()
		tag = v.TagName()
	}

	fmt.Fprintf(d.Out, "\nPublished %s %s\n", d.Config.Publish.PackageName, released)
	fmt.Fprintf(d.Out, "Next steps:\n")
	fmt.Fprintf(d.Out, "  1. Tag the release:       git tag -a %s -m \"Release %s\"\n", tag, released)
	fmt.Fprintf(d.Out, "  2. Update the changelog:  add a [%s] section if not present\n", released)
	fmt.Fprintf(d.Out, "  3. Push the tag:          git push origin %s\n", tag)
}

// distFiles lists the built distribution files. In dry-run mode a build
// never ran, so the literal glob stands in for the file list.
func (d *Driver) distFiles() ([]string, error) {
	files, err := filepath.Glob(filepath.Join(d.Root, "dist", "*"))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		if d.DryRun {
			return []string{filepath.Join("dist", "*")}, nil
		}
		return nil, fmt.Errorf("no distribution files found in dist/")
	}
	for i, f := range files {
		if rel, err := filepath.Rel(d.Root, f); err == nil {
			files[i] = rel
		}
	}
	return files, nil
}
