// Package launcher starts feed workers as detached background processes
// with their output redirected to timestamped log files, and confirms
// they survive a short grace period before reporting success.
package launcher

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/chainfeed/feedctl/internal/config"
	"github.com/chainfeed/feedctl/internal/feedlog"
	"github.com/chainfeed/feedctl/internal/job"
	"github.com/chainfeed/feedctl/internal/logscan"
	"github.com/chainfeed/feedctl/internal/util"
)

// logTimestampFormat names log files with a sortable UTC stamp.
const logTimestampFormat = "20060102T150405Z"

// LaunchError means the worker process did not survive the grace period.
// It carries the trailing log lines so the operator sees why without
// opening the log.
type LaunchError struct {
	Mode    job.Mode
	Group   string
	LogPath string
	Tail    []string
	Err     error
}

// Error implements error.
func (e *LaunchError) Error() string {
	msg := fmt.Sprintf("%s worker for group %s died during grace period", e.Mode, e.Group)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes the underlying cause, if any.
func (e *LaunchError) Unwrap() error { return e.Err }

// Launcher builds worker invocations and spawns them detached.
type Launcher struct {
	cfg    *config.Config
	events *feedlog.Logger
}

// New creates a Launcher. events may be nil to disable event logging.
func New(cfg *config.Config, events *feedlog.Logger) *Launcher {
	return &Launcher{cfg: cfg, events: events}
}

// Launch starts a worker for the mode and group. win is required for
// historical mode and ignored for live mode. On success the returned
// FeedJob has its PID populated and a snapshot is persisted for restart.
func (l *Launcher) Launch(ctx context.Context, mode job.Mode, group string, win *job.Window) (*job.FeedJob, error) {
	if group == "" {
		return nil, fmt.Errorf("group is required")
	}
	if mode == job.Historical {
		if win == nil {
			return nil, fmt.Errorf("historical launch requires a backfill window")
		}
		win.Normalize()
		if err := win.Validate(); err != nil {
			return nil, err
		}
	} else {
		win = nil
	}

	// One active job per mode: refuse to stack a second worker on a mode
	// whose recorded process is still alive. A dead recorded process is a
	// stale snapshot and gets cleaned up here.
	if snap := job.LoadSnapshot(l.cfg.Root, mode); snap != nil {
		if snap.Live() {
			return nil, fmt.Errorf("a %s feed is already running (group %s, PID %d); stop it first",
				mode, snap.Job.Group, snap.Job.PID)
		}
		_ = job.ClearSnapshot(l.cfg.Root, mode)
	}

	logDir := l.cfg.LogDir(mode.String())
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	launchedAt := time.Now().UTC()
	logPath := filepath.Join(logDir, fmt.Sprintf("%s_%s_%s.log",
		mode, group, launchedAt.Format(logTimestampFormat)))

	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("creating log file: %w", err)
	}

	argv := l.buildArgv(mode, group, win)
	cmd := exec.Command(argv[0], argv[1:]...) //nolint:gosec // G204: argv comes from config
	cmd.Dir = l.cfg.Root
	cmd.Stdin = nil
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	setSysProcAttr(cmd)

	if err := cmd.Start(); err != nil {
		logFile.Close()
		return nil, fmt.Errorf("starting %s worker: %w", mode, err)
	}
	logFile.Close()

	// Reap in the background so a dead worker doesn't linger as a
	// zombie while we only hold its PID.
	go func() { _ = cmd.Wait() }()

	pid := cmd.Process.Pid

	// Grace period: give the worker a moment to hit its first fatal
	// error before we declare the launch good.
	select {
	case <-ctx.Done():
		_ = util.Terminate(pid)
		return nil, ctx.Err()
	case <-time.After(l.cfg.Supervise.GracePeriod.Duration):
	}

	if !util.ProcessAlive(pid) {
		tail, _ := logscan.Tail(logPath, l.cfg.Supervise.TailLines)
		if l.events != nil {
			_ = l.events.Log(feedlog.EventLaunchFail, mode, group, "PID "+strconv.Itoa(pid))
		}
		return nil, &LaunchError{Mode: mode, Group: group, LogPath: logPath, Tail: tail}
	}

	j := &job.FeedJob{
		ID:         uuid.NewString(),
		Mode:       mode,
		Group:      group,
		PID:        pid,
		LogPath:    logPath,
		LaunchedAt: launchedAt,
		Window:     win,
	}

	if err := job.SaveSnapshot(l.cfg.Root, j); err != nil {
		// Snapshot loss only degrades restart convenience; the launch
		// itself succeeded.
		fmt.Fprintf(os.Stderr, "warning: saving launch snapshot: %v\n", err)
	}
	if l.events != nil {
		_ = l.events.Log(feedlog.EventStart, mode, group, "PID "+strconv.Itoa(pid))
	}
	return j, nil
}

// Relaunch starts a new worker with the same parameters as a previous
// job, for restart-after-exit flows.
func (l *Launcher) Relaunch(ctx context.Context, prev *job.FeedJob) (*job.FeedJob, error) {
	var win *job.Window
	if prev.Window != nil {
		w := *prev.Window
		win = &w
	}
	nj, err := l.Launch(ctx, prev.Mode, prev.Group, win)
	if err != nil {
		return nil, err
	}
	if l.events != nil {
		_ = l.events.Log(feedlog.EventRestart, nj.Mode, nj.Group, "PID "+strconv.Itoa(nj.PID))
	}
	return nj, nil
}

// buildArgv assembles the worker command line for the mode.
func (l *Launcher) buildArgv(mode job.Mode, group string, win *job.Window) []string {
	var argv []string
	switch mode {
	case job.Historical:
		argv = append(argv, l.cfg.Workers.HistoricalCommand...)
	default:
		argv = append(argv, l.cfg.Workers.LiveCommand...)
	}
	argv = append(argv, "--group", group)
	if mode == job.Historical && win != nil {
		argv = append(argv,
			"--historical-date", win.Date,
			"--start-time", win.StartTime,
			"--frequency", strconv.Itoa(win.Frequency),
		)
		if win.StopTime != "" {
			argv = append(argv, "--stop-time", win.StopTime)
		}
	}
	return argv
}

// CommandLine renders the worker invocation for display.
func (l *Launcher) CommandLine(mode job.Mode, group string, win *job.Window) string {
	return strings.Join(l.buildArgv(mode, group, win), " ")
}
