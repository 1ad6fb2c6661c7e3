package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/chainfeed/feedctl/internal/style"
)

var eventsLimit int

func init() {
	rootCmd.AddCommand(eventsCmd)

	eventsCmd.Flags().IntVarP(&eventsLimit, "limit", "n", 50, "Maximum number of events to show")
}

var eventsCmd = &cobra.Command{
	Use:     "events",
	GroupID: GroupDiag,
	Short:   "Show recent control-plane events from the store",
	Long: `Show the recent feed lifecycle events (start, stop, crash, restart)
recorded in the coordination store by this and other supervisor hosts,
newest first.`,
	Args: cobra.NoArgs,
	RunE: runEvents,
}

func runEvents(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	events, err := a.store.RecentEvents(cmd.Context(), eventsLimit)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		style.PrintWarning("no control-plane events recorded")
		return nil
	}

	for _, e := range events {
		ts := e.Timestamp
		if parsed, err := time.Parse(time.RFC3339Nano, e.Timestamp); err == nil {
			ts = parsed.Local().Format("2006-01-02 15:04:05")
		}
		status := style.Success.Render(e.Status)
		if e.Status != "ok" {
			status = style.Error.Render(e.Status)
		}
		fmt.Printf("%s  %-18s %s/%s %s %s\n",
			style.Dim.Render(ts), e.Event, e.Mode, e.Group, status,
			style.Dim.Render(e.Reason+" @"+e.SourceHost))
	}
	return nil
}
