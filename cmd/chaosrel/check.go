// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"chaosrel/internal/checklist"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run the pre-publish checklist",
	Long: `Run the pre-publish checklist against the current repository.

All checks always run; errors and warnings are aggregated into a final
verdict. Exits 0 when no errors were found (warnings alone do not block
publishing) and 1 otherwise.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, _ []string) error {
	root, err := os.Getwd()
	if err != nil {
		return err
	}

	report := checklist.NewRunner(root, appConfig).Run()
	printReport(cmd, report)

	if !report.Passed() {
		cmd.SilenceErrors = true
		cmd.SilenceUsage = true
		return &ExitError{Code: report.ExitCode()}
	}
	return nil
}

// printReport renders one line per check plus the aggregate verdict.
func printReport(cmd *cobra.Command, report *checklist.Report) {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, TitleStyle.Render("Pre-publish checklist"))
	for _, result := range report.Results {
		switch result.Severity {
		case checklist.SeverityError:
			fmt.Fprintf(out, "  %s %s\n", ErrorStyle.Render("✗"), result.Message)
		case checklist.SeverityWarning:
			fmt.Fprintf(out, "  %s %s\n", WarningStyle.Render("!"), result.Message)
		default:
			fmt.Fprintf(out, "  %s %s\n", SuccessStyle.Render("✓"), result.Message)
		}
	}
	fmt.Fprintln(out)

	switch {
	case report.Errors > 0:
		fmt.Fprintln(out, ErrorStyle.Render(fmt.Sprintf("%d error(s), %d warning(s) - do not publish.", report.Errors, report.Warnings)))
	case report.Warnings > 0:
		fmt.Fprintln(out, WarningStyle.Render(fmt.Sprintf("%d warning(s) - review them before publishing.", report.Warnings)))
	default:
		fmt.Fprintln(out, SuccessStyle.Render("All checks passed."))
		fmt.Fprintln(out, "Ready to publish: run "+CmdStyle.Render("chaosrel publish")+" for the test index first.")
	}
}
