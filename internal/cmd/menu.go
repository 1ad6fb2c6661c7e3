package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/chainfeed/feedctl/internal/job"
	"github.com/chainfeed/feedctl/internal/monitor"
	"github.com/chainfeed/feedctl/internal/preflight"
	"github.com/chainfeed/feedctl/internal/registry"
	"github.com/chainfeed/feedctl/internal/style"
	"github.com/chainfeed/feedctl/internal/tui/menu"
	"github.com/chainfeed/feedctl/internal/tui/tail"
)

func init() {
	rootCmd.AddCommand(menuCmd)
}

var menuCmd = &cobra.Command{
	Use:     "menu [live|historical]",
	GroupID: GroupFeeds,
	Short:   "Open the interactive operator menu",
	Long: `Open the interactive menu for a feed mode. This is the same menu
running feedctl with no arguments opens; the optional argument skips
the mode selection.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMenu,
}

// menuAutoRestarts bounds the restart budget for feeds supervised from
// the menu, where there is no console to prompt on.
const menuAutoRestarts = 3

// menuRestartDelay spaces automatic restarts triggered from menu
// supervision.
const menuRestartDelay = 5 * time.Second

func runMenu(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	mode, err := menuMode(args)
	if err != nil || mode == "" {
		return err
	}

	// One watcher handle per mode. Operator-initiated stop and restart
	// cancel the handle first so a deliberate kill is never treated as
	// a crash.
	handles := make(map[job.Mode]*monitor.Handle)
	defer func() {
		for _, h := range handles {
			h.Cancel()
			h.Wait()
		}
	}()

	for {
		choice, err := menu.Run(fmt.Sprintf("feedctl · %s feeds", mode), []menu.Item{
			{Title: "Start Feed", Desc: "launch a worker for a group"},
			{Title: "Stop Feed", Desc: "signal running workers"},
			{Title: "Restart Feed", Desc: "relaunch from the last parameters"},
			{Title: "Monitor Logs", Desc: "follow the latest worker log"},
			{Title: "View Active Jobs", Desc: "scan the process table"},
			{Title: "Configure Groups", Desc: "show the group registry"},
			{Title: "Preflight", Desc: "run the launch checks"},
			{Title: "Exit", Desc: ""},
		})
		if err != nil {
			return err
		}

		switch choice {
		case 0:
			err = menuStart(cmd, a, mode, handles)
		case 1:
			err = menuStop(a, mode, handles)
		case 2:
			err = menuRestart(cmd, a, mode, handles)
		case 3:
			err = menuLogs(a, mode)
		case 4:
			err = renderJobs(a, []job.Mode{job.Live, job.Historical})
		case 5:
			err = menuGroups(a)
		case 6:
			renderPreflight(preflight.Standard(a.cfg).Run(cmd.Context()))
		default:
			// Exit or dismissed. Background watchers die with the
			// process; the workers themselves keep running.
			if len(handles) > 0 {
				fmt.Printf("%s Leaving %d feed(s) running; supervision ends with this session\n",
					style.ArrowPrefix, len(handles))
			}
			return nil
		}

		if err != nil {
			style.PrintError("%v", err)
		}
		if _, perr := promptLine("\nPress Enter to continue... "); perr != nil {
			return nil
		}
	}
}

// menuMode resolves the feed mode from the argument or a selection
// menu. An empty mode with nil error means the operator backed out.
func menuMode(args []string) (job.Mode, error) {
	if len(args) == 1 {
		return job.ParseMode(args[0])
	}
	choice, err := menu.Run("Select feed mode", []menu.Item{
		{Title: "Live", Desc: "real-time ingestion"},
		{Title: "Historical", Desc: "replay a past date"},
	})
	if err != nil || choice < 0 {
		return "", err
	}
	if choice == 1 {
		return job.Historical, nil
	}
	return job.Live, nil
}

func menuStart(cmd *cobra.Command, a *app, mode job.Mode, handles map[job.Mode]*monitor.Handle) error {
	group, err := a.promptGroup()
	if err != nil {
		return err
	}
	var win *job.Window
	if mode == job.Historical {
		if win, err = promptWindow(); err != nil {
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
	watchFromMenu(a, j, handles)
	return nil
}

func menuStop(a *app, mode job.Mode, handles map[job.Mode]*monitor.Handle) error {
	detachHandle(mode, handles)
	return stopMode(a, mode)
}

func menuRestart(cmd *cobra.Command, a *app, mode job.Mode, handles map[job.Mode]*monitor.Handle) error {
	snap := job.LoadSnapshot(a.cfg.Root, mode)
	if snap == nil {
		return fmt.Errorf("no previous %s launch on record; start one first", mode)
	}

	detachHandle(mode, handles)
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
	watchFromMenu(a, j, handles)
	return nil
}

func menuLogs(a *app, mode job.Mode) error {
	logPath, err := registry.LatestLog(a.cfg.LogDir(mode.String()))
	if err != nil {
		return err
	}
	return tail.Run(logPath)
}

func menuGroups(a *app) error {
	if err := renderGroups(a); err != nil {
		return err
	}
	fmt.Printf("\nEdit %s and re-open this menu to pick up changes.\n",
		style.Dim.Render(a.cfg.GroupsPath))
	return nil
}

// watchFromMenu supervises a launched job in the background so the menu
// stays responsive. Recovery is automatic with a bounded budget since
// the menu owns the console.
func watchFromMenu(a *app, j *job.FeedJob, handles map[job.Mode]*monitor.Handle) {
	detachHandle(j.Mode, handles)
	watcher := &monitor.Watcher{
		Interval: a.cfg.Supervise.PollInterval.Duration,
		Decider:  &monitor.AutoDecider{MaxRestarts: menuAutoRestarts, Delay: menuRestartDelay},
		Relaunch: a.launcher.Relaunch,
		Events:   a.events,
	}
	handles[j.Mode] = watcher.Watch(j)
	fmt.Printf("%s Watching in the background (auto-restart up to %d times)\n",
		style.ArrowPrefix, menuAutoRestarts)
}

// detachHandle cancels and removes the mode's background watcher, if
// any, before the operator acts on its worker.
func detachHandle(mode job.Mode, handles map[job.Mode]*monitor.Handle) {
	if h, ok := handles[mode]; ok {
		h.Cancel()
		h.Wait()
		delete(handles, mode)
	}
}
