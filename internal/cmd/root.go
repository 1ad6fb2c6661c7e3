// Package cmd implements the feedctl command-line interface.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/chainfeed/feedctl/internal/style"
)

// Command group IDs for help organization.
const (
	// GroupFeeds holds commands that launch and control feed workers.
	GroupFeeds = "feeds"
	// GroupDiag holds diagnostic and inspection commands.
	GroupDiag = "diagnostics"
)

var rootCmd = &cobra.Command{
	Use:   "feedctl",
	Short: "Supervise ChainFeed ingestion workers",
	Long: `feedctl launches, watches, and recovers ChainFeed data-ingestion
workers ("feeds") on this host, in live or historical mode.

Run with no arguments on a terminal to get the interactive menu.
Every menu operation is also available as a direct subcommand for
scripting.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return runMenu(cmd, args)
		}
		return cmd.Help()
	},
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupFeeds, Title: "Feed Commands:"},
		&cobra.Group{ID: GroupDiag, Title: "Diagnostics:"},
	)
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", style.ErrorPrefix, err)
		return 1
	}
	return 0
}
