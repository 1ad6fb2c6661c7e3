package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/chainfeed/feedctl/internal/config"
	"github.com/chainfeed/feedctl/internal/coord"
	"github.com/chainfeed/feedctl/internal/feedlog"
	"github.com/chainfeed/feedctl/internal/job"
	"github.com/chainfeed/feedctl/internal/launcher"
	"github.com/chainfeed/feedctl/internal/preflight"
	"github.com/chainfeed/feedctl/internal/registry"
	"github.com/chainfeed/feedctl/internal/style"
)

// app bundles the wired components every command needs. Construction
// loads configuration exactly once; nothing reads the environment after
// this point.
type app struct {
	cfg      *config.Config
	store    *coord.Client
	events   *feedlog.Logger
	launcher *launcher.Launcher
	registry *registry.Registry
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	store := coord.New(cfg.Store)
	events := feedlog.NewLogger(cfg.Root, store)
	return &app{
		cfg:      cfg,
		store:    store,
		events:   events,
		launcher: launcher.New(cfg, events),
		registry: registry.New(cfg),
	}, nil
}

func (a *app) close() {
	_ = a.store.Close()
}

// parseModeArg resolves the required mode positional argument.
func parseModeArg(args []string) (job.Mode, error) {
	if len(args) < 1 {
		return "", fmt.Errorf("mode argument required (live or historical)")
	}
	return job.ParseMode(args[0])
}

// runPreflightGate runs the launch-gate checks and renders the itemized
// report. Returns an error when any hard check failed.
func (a *app) runPreflightGate(ctx context.Context) error {
	report := preflight.Standard(a.cfg).Run(ctx)
	renderPreflight(report)
	if !report.OK() {
		return fmt.Errorf("preflight failed; launch aborted")
	}
	return nil
}

func renderPreflight(report preflight.Report) {
	for _, res := range report.Results {
		switch res.Status {
		case preflight.StatusOK:
			fmt.Printf("  %s %s\n", style.SuccessPrefix, res.Message)
		case preflight.StatusWarning:
			fmt.Printf("  %s %s\n", style.WarningPrefix, res.Message)
		default:
			fmt.Printf("  %s %s\n", style.ErrorPrefix, res.Message)
		}
		for _, d := range res.Details {
			fmt.Printf("      %s\n", style.Dim.Render(d))
		}
	}
}

// promptLine reads one trimmed line from stdin after printing the prompt.
func promptLine(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptGroup asks the operator to pick a group, listing the enabled
// ones from the registry when it is readable.
func (a *app) promptGroup() (string, error) {
	if reg, err := config.LoadGroups(a.cfg.GroupsPath); err == nil {
		enabled := reg.EnabledNames()
		if len(enabled) > 0 {
			fmt.Printf("Available groups: %s\n", strings.Join(enabled, ", "))
		}
	}
	group, err := promptLine("Group: ")
	if err != nil {
		return "", err
	}
	if group == "" {
		return "", fmt.Errorf("group is required")
	}
	return group, nil
}

// promptWindow collects historical backfill parameters interactively.
func promptWindow() (*job.Window, error) {
	date, err := promptLine("Historical date (YYYY-MM-DD): ")
	if err != nil {
		return nil, err
	}
	start, err := promptLine("Start time (HH:MM): ")
	if err != nil {
		return nil, err
	}
	freqStr, err := promptLine(fmt.Sprintf("Frequency seconds [%d]: ", job.DefaultFrequency))
	if err != nil {
		return nil, err
	}
	freq := 0
	if freqStr != "" {
		if _, err := fmt.Sscanf(freqStr, "%d", &freq); err != nil {
			return nil, fmt.Errorf("invalid frequency %q", freqStr)
		}
	}
	stop, err := promptLine("Stop time (HH:MM, empty = run until stopped): ")
	if err != nil {
		return nil, err
	}
	win := &job.Window{Date: date, StartTime: start, Frequency: freq, StopTime: stop}
	win.Normalize()
	if err := win.Validate(); err != nil {
		return nil, err
	}
	return win, nil
}

// formatAge renders a process age compactly.
func formatAge(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	return d.Round(time.Second).String()
}
