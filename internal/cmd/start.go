package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/chainfeed/feedctl/internal/job"
	"github.com/chainfeed/feedctl/internal/launcher"
	"github.com/chainfeed/feedctl/internal/monitor"
	"github.com/chainfeed/feedctl/internal/style"
)

var (
	startGroup        string
	startDate         string
	startTime         string
	startStopTime     string
	startFrequency    int
	startDetach       bool
	startAutoRestart  bool
	startMaxRestarts  int
	startRestartDelay time.Duration
)

func init() {
	rootCmd.AddCommand(startCmd)

	startCmd.Flags().StringVarP(&startGroup, "group", "g", "", "Feed group to launch (e.g. spx_complex)")
	startCmd.Flags().StringVar(&startDate, "historical-date", "", "Historical date to replay (YYYY-MM-DD)")
	startCmd.Flags().StringVar(&startTime, "start-time", "", "Replay start time (HH:MM, 24h)")
	startCmd.Flags().IntVar(&startFrequency, "frequency", 0, fmt.Sprintf("Polling frequency in seconds (default %d)", job.DefaultFrequency))
	startCmd.Flags().StringVar(&startStopTime, "stop-time", "", "Replay stop time (HH:MM, empty = run until stopped)")
	startCmd.Flags().BoolVar(&startDetach, "detach", false, "Launch without supervising (no monitoring, no recovery prompt)")
	startCmd.Flags().BoolVar(&startAutoRestart, "auto-restart", false, "Restart automatically on unexpected exit instead of prompting")
	startCmd.Flags().IntVar(&startMaxRestarts, "max-restarts", 3, "Restart budget for --auto-restart")
	startCmd.Flags().DurationVar(&startRestartDelay, "restart-delay", 5*time.Second, "Delay between automatic restarts")
}

var startCmd = &cobra.Command{
	Use:     "start <live|historical>",
	GroupID: GroupFeeds,
	Short:   "Launch a feed worker and supervise it",
	Long: `Launch a feed worker for a group, after verifying prerequisites.

The launch path runs the preflight gate (coordination store, group
registry, data directory), spawns the worker detached with its output in
a timestamped log file, and confirms it survives the grace period.

The command then supervises the worker: it polls liveness and, on an
unexpected exit, classifies the recent log output and asks whether to
restart. Use --auto-restart for headless supervision with a bounded
restart budget, or --detach to launch and exit immediately.

Examples:
  feedctl start live --group spx_complex
  feedctl start historical --group ndx_complex \
      --historical-date 2026-08-21 --start-time 09:30 --frequency 30
  feedctl start live --group spx_complex --auto-restart --max-restarts 5`,
	Args: cobra.ExactArgs(1),
	RunE: runStart,
}

func runStart(cmd *cobra.Command, args []string) error {
	mode, err := parseModeArg(args)
	if err != nil {
		return err
	}
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	group := startGroup
	if group == "" {
		if group, err = a.promptGroup(); err != nil {
			return err
		}
	}

	var win *job.Window
	if mode == job.Historical {
		if win, err = windowFromFlags(); err != nil {
			return err
		}
	}

	fmt.Printf("Running preflight checks...\n")
	if err := a.runPreflightGate(cmd.Context()); err != nil {
		return err
	}

	j, err := launchAndReport(cmd.Context(), a, mode, group, win)
	if err != nil {
		return err
	}
	if startDetach {
		return nil
	}
	return superviseJob(a, j, startAutoRestart, startMaxRestarts, startRestartDelay)
}

// windowFromFlags builds the historical window from start flags,
// prompting for anything missing.
func windowFromFlags() (*job.Window, error) {
	if startDate == "" && startTime == "" {
		return promptWindow()
	}
	win := &job.Window{
		Date:      startDate,
		StartTime: startTime,
		Frequency: startFrequency,
		StopTime:  startStopTime,
	}
	win.Normalize()
	if err := win.Validate(); err != nil {
		return nil, err
	}
	return win, nil
}

// launchAndReport launches a worker and renders the outcome, including
// the log excerpt when the worker dies during the grace period.
func launchAndReport(ctx context.Context, a *app, mode job.Mode, group string, win *job.Window) (*job.FeedJob, error) {
	fmt.Printf("%s Launching %s feed for group %s\n", style.ArrowPrefix, mode, group)
	j, err := a.launcher.Launch(ctx, mode, group, win)
	if err != nil {
		var launchErr *launcher.LaunchError
		if errors.As(err, &launchErr) {
			style.PrintError("%v", launchErr)
			if len(launchErr.Tail) > 0 {
				fmt.Printf("Last log lines (%s):\n", launchErr.LogPath)
				for _, line := range launchErr.Tail {
					fmt.Printf("  %s\n", style.Dim.Render(line))
				}
			}
		}
		return nil, err
	}
	style.PrintSuccess("%s started (log: %s)", j.Describe(), j.LogPath)
	return j, nil
}

// superviseJob blocks on the monitoring loop for a launched job.
// Ctrl-C detaches supervision without killing the worker.
func superviseJob(a *app, j *job.FeedJob, auto bool, maxRestarts int, delay time.Duration) error {
	var decider monitor.Decider
	if auto {
		decider = &monitor.AutoDecider{MaxRestarts: maxRestarts, Delay: delay}
	} else {
		decider = &monitor.ConsoleDecider{In: os.Stdin, Out: os.Stdout}
	}

	watcher := &monitor.Watcher{
		Interval: a.cfg.Supervise.PollInterval.Duration,
		Decider:  decider,
		Relaunch: a.launcher.Relaunch,
		Events:   a.events,
	}
	handle := watcher.Watch(j)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)

	fmt.Printf("%s Supervising (poll every %s). Ctrl-C detaches and leaves the worker running.\n",
		style.ArrowPrefix, a.cfg.Supervise.PollInterval.Duration)

	select {
	case <-handle.Done():
		fmt.Printf("%s Supervision ended for %s\n", style.ArrowPrefix, handle.Job().Describe())
		return nil
	case <-sigCh:
		handle.Cancel()
		handle.Wait()
		fmt.Printf("\n%s Detached; %s left running\n", style.ArrowPrefix, handle.Job().Describe())
		return nil
	}
}
