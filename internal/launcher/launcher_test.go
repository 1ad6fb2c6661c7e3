//go:build !windows

package launcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/chainfeed/feedctl/internal/config"
	"github.com/chainfeed/feedctl/internal/job"
	"github.com/chainfeed/feedctl/internal/util"
)

// testConfig returns a config rooted in a temp dir with a short grace
// period and shell stand-ins for the workers.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default(t.TempDir())
	cfg.Supervise.GracePeriod = config.Duration{Duration: 200 * time.Millisecond}
	cfg.Workers.LiveCommand = []string{"sh", "-c", "sleep 10"}
	cfg.Workers.HistoricalCommand = []string{"sh", "-c", "sleep 10"}
	return cfg
}

func TestLaunchLive(t *testing.T) {
	cfg := testConfig(t)
	l := New(cfg, nil)

	j, err := l.Launch(context.Background(), job.Live, "spx_complex", nil)
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	defer util.Kill(j.PID) //nolint:errcheck

	if j.Mode != job.Live || j.Group != "spx_complex" || j.ID == "" {
		t.Errorf("job = %+v", j)
	}
	if !util.ProcessAlive(j.PID) {
		t.Error("worker not alive after successful launch")
	}

	// Log file exists in the mode's log dir with the expected name shape.
	if !strings.HasPrefix(filepath.Base(j.LogPath), "live_spx_complex_") {
		t.Errorf("LogPath = %q", j.LogPath)
	}
	if _, err := os.Stat(j.LogPath); err != nil {
		t.Errorf("log file missing: %v", err)
	}

	// A snapshot was persisted for restart.
	snap := job.LoadSnapshot(cfg.Root, job.Live)
	if snap == nil || snap.Job.PID != j.PID {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestLaunchFailsWithinGrace(t *testing.T) {
	cfg := testConfig(t)
	cfg.Workers.LiveCommand = []string{"sh", "-c", "echo 'RuntimeError: no data source'; exit 1"}
	l := New(cfg, nil)

	_, err := l.Launch(context.Background(), job.Live, "spx_complex", nil)
	if err == nil {
		t.Fatal("expected launch failure")
	}
	var launchErr *LaunchError
	if !errors.As(err, &launchErr) {
		t.Fatalf("error type = %T", err)
	}
	if launchErr.Group != "spx_complex" || launchErr.LogPath == "" {
		t.Errorf("LaunchError = %+v", launchErr)
	}
	// The worker's dying words are in the tail.
	found := false
	for _, line := range launchErr.Tail {
		if strings.Contains(line, "RuntimeError") {
			found = true
		}
	}
	if !found {
		t.Errorf("Tail = %v", launchErr.Tail)
	}
	// No snapshot for a failed launch.
	if job.LoadSnapshot(cfg.Root, job.Live) != nil {
		t.Error("failed launch left a snapshot")
	}
}

func TestLaunchRefusesSecondWorkerPerMode(t *testing.T) {
	cfg := testConfig(t)
	l := New(cfg, nil)
	ctx := context.Background()

	j, err := l.Launch(ctx, job.Live, "spx_complex", nil)
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	defer util.Kill(j.PID) //nolint:errcheck

	if _, err := l.Launch(ctx, job.Live, "ndx_complex", nil); err == nil {
		t.Fatal("second live launch accepted while the first is running")
	} else if !strings.Contains(err.Error(), "already running") {
		t.Errorf("error = %v", err)
	}
}

func TestLaunchCleansStaleSnapshot(t *testing.T) {
	cfg := testConfig(t)
	l := New(cfg, nil)

	// A snapshot whose PID is long dead must not block a new launch.
	stale := &job.FeedJob{ID: "stale", Mode: job.Live, Group: "spx_complex", PID: 1 << 30}
	if err := job.SaveSnapshot(cfg.Root, stale); err != nil {
		t.Fatal(err)
	}

	j, err := l.Launch(context.Background(), job.Live, "spx_complex", nil)
	if err != nil {
		t.Fatalf("Launch over stale snapshot: %v", err)
	}
	defer util.Kill(j.PID) //nolint:errcheck

	snap := job.LoadSnapshot(cfg.Root, job.Live)
	if snap == nil || snap.Job.PID != j.PID {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestLaunchValidatesInputs(t *testing.T) {
	l := New(testConfig(t), nil)
	ctx := context.Background()

	if _, err := l.Launch(ctx, job.Live, "", nil); err == nil {
		t.Error("empty group accepted")
	}
	if _, err := l.Launch(ctx, job.Historical, "spx_complex", nil); err == nil {
		t.Error("historical launch without window accepted")
	}
	bad := &job.Window{Date: "yesterday", StartTime: "09:30"}
	if _, err := l.Launch(ctx, job.Historical, "spx_complex", bad); err == nil {
		t.Error("invalid window accepted")
	}
}

func TestLaunchHistoricalNormalizesWindow(t *testing.T) {
	cfg := testConfig(t)
	l := New(cfg, nil)

	win := &job.Window{Date: "2026-08-21", StartTime: "09:30"}
	j, err := l.Launch(context.Background(), job.Historical, "ndx_complex", win)
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	defer util.Kill(j.PID) //nolint:errcheck

	if j.Window == nil || j.Window.Frequency != job.DefaultFrequency {
		t.Errorf("window = %+v", j.Window)
	}
}

func TestBuildArgv(t *testing.T) {
	cfg := config.Default(t.TempDir())
	l := New(cfg, nil)

	argv := l.buildArgv(job.Live, "spx_complex", nil)
	want := "python3 -m core.live_feed_manager --group spx_complex"
	if got := strings.Join(argv, " "); got != want {
		t.Errorf("live argv = %q, want %q", got, want)
	}

	win := &job.Window{Date: "2026-08-21", StartTime: "09:30", Frequency: 30, StopTime: "16:00"}
	argv = l.buildArgv(job.Historical, "ndx_complex", win)
	want = "python3 -m core.historical_feed_manager --group ndx_complex" +
		" --historical-date 2026-08-21 --start-time 09:30 --frequency 30 --stop-time 16:00"
	if got := strings.Join(argv, " "); got != want {
		t.Errorf("historical argv = %q, want %q", got, want)
	}

	// Without a stop time the flag is omitted entirely.
	win.StopTime = ""
	argv = l.buildArgv(job.Historical, "ndx_complex", win)
	if strings.Contains(strings.Join(argv, " "), "--stop-time") {
		t.Errorf("argv carries empty --stop-time: %v", argv)
	}
}

func TestCommandLine(t *testing.T) {
	l := New(config.Default(t.TempDir()), nil)
	got := l.CommandLine(job.Live, "spx_complex", nil)
	if !strings.Contains(got, "--group spx_complex") {
		t.Errorf("CommandLine = %q", got)
	}
}

func TestRelaunchReusesParameters(t *testing.T) {
	cfg := testConfig(t)
	l := New(cfg, nil)

	prev := &job.FeedJob{
		Mode:  job.Historical,
		Group: "ndx_complex",
		Window: &job.Window{
			Date: "2026-08-21", StartTime: "09:30", Frequency: 30,
		},
	}
	nj, err := l.Relaunch(context.Background(), prev)
	if err != nil {
		t.Fatalf("Relaunch: %v", err)
	}
	defer util.Kill(nj.PID) //nolint:errcheck

	if nj.Group != prev.Group || nj.Mode != prev.Mode {
		t.Errorf("relaunched job = %+v", nj)
	}
	if nj.Window == nil || nj.Window.Date != "2026-08-21" {
		t.Errorf("window not carried over: %+v", nj.Window)
	}
	if nj.Window == prev.Window {
		t.Error("relaunch shares the window pointer with the old job")
	}
}
