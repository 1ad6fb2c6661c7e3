package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chainfeed/feedctl/internal/feedlog"
	"github.com/chainfeed/feedctl/internal/job"
	"github.com/chainfeed/feedctl/internal/style"
)

func init() {
	rootCmd.AddCommand(stopCmd)
}

var stopCmd = &cobra.Command{
	Use:     "stop <live|historical>",
	GroupID: GroupFeeds,
	Short:   "Stop all feed workers of a mode",
	Long: `Send a termination signal to every running worker of the mode.

The scan matches live workers only by the mode's worker identifier, so
stopping live feeds never touches historical ones and vice versa. No
matching workers is informational, not an error.`,
	Args: cobra.ExactArgs(1),
	RunE: runStop,
}

func runStop(cmd *cobra.Command, args []string) error {
	mode, err := parseModeArg(args)
	if err != nil {
		return err
	}
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	return stopMode(a, mode)
}

// stopMode signals every worker of the mode and clears its snapshot.
// Shared by the stop command, the restart command, and the menu.
func stopMode(a *app, mode job.Mode) error {
	signaled, err := a.registry.StopAll(mode)
	if err != nil {
		return err
	}
	if len(signaled) == 0 {
		style.PrintWarning("no %s workers running", mode)
		return nil
	}

	group := "all"
	if snap := job.LoadSnapshot(a.cfg.Root, mode); snap != nil {
		group = snap.Job.Group
	}
	for _, p := range signaled {
		fmt.Printf("%s Signaled PID %d (%s)\n", style.ArrowPrefix, p.PID, style.Dim.Render(p.Command))
	}
	_ = job.ClearSnapshot(a.cfg.Root, mode)
	_ = a.events.Log(feedlog.EventStop, mode, group, fmt.Sprintf("%d workers signaled", len(signaled)))
	style.PrintSuccess("stopped %d %s worker(s)", len(signaled), mode)
	return nil
}
