package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/chainfeed/feedctl/internal/job"
	"github.com/chainfeed/feedctl/internal/style"
)

var (
	restartDetach      bool
	restartAuto        bool
	restartMaxRestarts int
)

func init() {
	rootCmd.AddCommand(restartCmd)

	restartCmd.Flags().BoolVar(&restartDetach, "detach", false, "Relaunch without supervising")
	restartCmd.Flags().BoolVar(&restartAuto, "auto-restart", false, "Restart automatically on unexpected exit instead of prompting")
	restartCmd.Flags().IntVar(&restartMaxRestarts, "max-restarts", 3, "Restart budget for --auto-restart")
}

var restartCmd = &cobra.Command{
	Use:     "restart <live|historical>",
	GroupID: GroupFeeds,
	Short:   "Restart a feed from its last launch parameters",
	Long: `Stop the mode's workers and relaunch using the persisted snapshot of
the last launch (group and, for historical mode, the backfill window).

Fails when the mode has never been launched on this host, since there
are no parameters to reuse; use 'feedctl start' instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runRestart,
}

// restartSettleDelay gives signaled workers a moment to exit before the
// relaunch claims their group.
const restartSettleDelay = 1 * time.Second

func runRestart(cmd *cobra.Command, args []string) error {
	mode, err := parseModeArg(args)
	if err != nil {
		return err
	}
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	snap := job.LoadSnapshot(a.cfg.Root, mode)
	if snap == nil {
		return fmt.Errorf("no previous %s launch on record; use 'feedctl start %s'", mode, mode)
	}

	if err := stopMode(a, mode); err != nil {
		return err
	}
	time.Sleep(restartSettleDelay)

	fmt.Printf("Running preflight checks...\n")
	if err := a.runPreflightGate(cmd.Context()); err != nil {
		return err
	}

	j, err := launchAndReport(cmd.Context(), a, snap.Job.Mode, snap.Job.Group, snap.Job.Window)
	if err != nil {
		return err
	}
	style.PrintSuccess("restarted from snapshot saved %s", snap.SavedAt.Format(time.RFC3339))

	if restartDetach {
		return nil
	}
	return superviseJob(a, j, restartAuto, restartMaxRestarts, 5*time.Second)
}
