package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chainfeed/feedctl/internal/preflight"
	"github.com/chainfeed/feedctl/internal/style"
)

func init() {
	rootCmd.AddCommand(preflightCmd)
}

var preflightCmd = &cobra.Command{
	Use:     "preflight",
	GroupID: GroupDiag,
	Short:   "Run the launch prerequisites checks",
	Long: `Run the checks the launch path gates on, without launching anything:
coordination store reachability, group registry presence, and the data
directory. Exits non-zero when any hard check fails.`,
	Args: cobra.NoArgs,
	RunE: runPreflight,
}

func runPreflight(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	report := preflight.Standard(a.cfg).Run(cmd.Context())
	renderPreflight(report)
	if !report.OK() {
		return fmt.Errorf("%d check(s) failed", len(report.Failures()))
	}
	style.PrintSuccess("all checks passed")
	return nil
}
