// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"

	"chaosrel/internal/publish"

	"github.com/spf13/cobra"
)

var publishDryRun bool

var publishCmd = &cobra.Command{
	Use:   "publish [test|prod]",
	Short: "Build, validate and upload the package",
	Long: `Build the distribution, validate it, and upload it to the selected
package index. The default target is the test index; uploading to the
production index requires typing the literal confirmation "yes".

Cancelling the production confirmation is not an error: the command
exits 0 without uploading anything.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPublish,
}

func init() {
	publishCmd.Flags().BoolVar(&publishDryRun, "dry-run", false, "print external commands instead of executing them")
}

func runPublish(cmd *cobra.Command, args []string) error {
	arg := ""
	if len(args) > 0 {
		arg = args[0]
	}

	// Target validation happens before any stage runs.
	target, err := publish.ParseTarget(arg)
	if err != nil {
		cmd.SilenceUsage = true
		return &ExitError{Code: 1, Err: err}
	}

	root, err := os.Getwd()
	if err != nil {
		return err
	}

	driver := publish.NewDriver(root, appConfig)
	driver.Out = cmd.OutOrStdout()
	if publishDryRun {
		driver.DryRun = true
		driver.Runner = &publish.DryRunner{Out: cmd.OutOrStdout()}
	}

	if err := driver.Run(cmd.Context(), target); err != nil {
		if errors.Is(err, publish.ErrCancelled) {
			fmt.Fprintln(cmd.OutOrStdout(), WarningStyle.Render("Publish cancelled. Nothing was uploaded."))
			return nil
		}
		cmd.SilenceUsage = true
		return &ExitError{Code: 1, Err: err}
	}
	return nil
}
