// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"chaosrel/internal/version"
	"chaosrel/pkg/types"

	"github.com/spf13/cobra"
)

var bumpCmd = &cobra.Command{
	Use:   "bump <version>",
	Short: "Update the package version everywhere",
	Long: `Update the version in both of its locations, the project manifest and
the package entry file, in a single synchronized edit.

The new version must match MAJOR.MINOR.PATCH with an optional a/b/rc
pre-release suffix (e.g. 1.2.0, 1.2.0rc1). After the edit both files are
re-read and must agree, otherwise the command fails.`,
	Args: cobra.ExactArgs(1),
	RunE: runBump,
}

func runBump(cmd *cobra.Command, args []string) error {
	newVersion := version.VersionString(args[0])
	if err := newVersion.Validate(); err != nil {
		cmd.SilenceUsage = true
		return &ExitError{Code: 1, Err: err}
	}

	root, err := os.Getwd()
	if err != nil {
		return err
	}
	store := version.NewStore(
		types.FilesystemPath(filepath.Join(root, appConfig.Project.Manifest)),
		types.FilesystemPath(filepath.Join(root, appConfig.Project.PackageInit)),
	)

	current, err := store.Consistent()
	if err != nil {
		cmd.SilenceUsage = true
		return &ExitError{Code: 1, Err: err}
	}

	if newVersion.Compare(current) <= 0 {
		fmt.Fprintln(cmd.OutOrStdout(), WarningStyle.Render(
			fmt.Sprintf("Warning: %s does not sort above the current version %s.", newVersion, current)))
	}

	if err := store.Write(newVersion); err != nil {
		cmd.SilenceUsage = true
		return &ExitError{Code: 1, Err: err}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s -> %s\n", SuccessStyle.Render("Version updated:"), current, newVersion)
	fmt.Fprintln(cmd.OutOrStdout(), "Run "+CmdStyle.Render("chaosrel check")+" before publishing.")
	return nil
}
