package cmd

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/chainfeed/feedctl/internal/job"
	"github.com/chainfeed/feedctl/internal/style"
)

func init() {
	rootCmd.AddCommand(jobsCmd)
}

var jobsCmd = &cobra.Command{
	Use:     "jobs [live|historical]",
	GroupID: GroupDiag,
	Short:   "List running feed workers",
	Long: `List feed workers currently alive in the OS process table.

This is a live scan by worker identifier, not internal bookkeeping:
workers launched by other sessions or by hand show up too.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runJobs,
}

func runJobs(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	modes := []job.Mode{job.Live, job.Historical}
	if len(args) == 1 {
		mode, err := job.ParseMode(args[0])
		if err != nil {
			return err
		}
		modes = []job.Mode{mode}
	}
	return renderJobs(a, modes)
}

// renderJobs prints the process table for the given modes. Shared by
// the jobs command and the menu.
func renderJobs(a *app, modes []job.Mode) error {
	table := style.NewTable(
		style.Column{Name: "MODE", Width: 12},
		style.Column{Name: "PID", Width: 8, Align: style.AlignRight},
		style.Column{Name: "AGE", Width: 10, Align: style.AlignRight},
		style.Column{Name: "COMMAND", Width: 60, Style: style.Dim},
	)

	total := 0
	for _, mode := range modes {
		procs, err := a.registry.List(mode)
		if err != nil {
			return err
		}
		for _, p := range procs {
			table.AddRow(mode.String(), strconv.Itoa(p.PID), formatAge(p.Elapsed), p.Command)
			total++
		}
	}

	if total == 0 {
		style.PrintWarning("no feed workers running")
		return nil
	}
	fmt.Print(table.Render())
	renderHeartbeats(a, modes)
	return nil
}

// renderHeartbeats shows the worker-published heartbeat for each mode's
// last-launched group. Best-effort; a cold store just shows nothing.
func renderHeartbeats(a *app, modes []job.Mode) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	for _, mode := range modes {
		snap := job.LoadSnapshot(a.cfg.Root, mode)
		if snap == nil {
			continue
		}
		_, ttl, ok, err := a.store.Heartbeat(ctx, snap.Job.Group)
		if err != nil {
			return
		}
		if !ok {
			fmt.Printf("  %s heartbeat for %s: %s\n",
				style.ArrowPrefix, snap.Job.Group, style.Dim.Render("none published"))
			continue
		}
		fmt.Printf("  %s heartbeat for %s: %s\n",
			style.ArrowPrefix, snap.Job.Group,
			style.Success.Render(fmt.Sprintf("fresh (expires in %s)", ttl.Round(time.Second))))
	}
}
