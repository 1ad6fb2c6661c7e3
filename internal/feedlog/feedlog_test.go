package feedlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/chainfeed/feedctl/internal/job"
)

func TestLogAppendsLine(t *testing.T) {
	root := t.TempDir()
	l := NewLogger(root, nil)

	if err := l.Log(EventStart, job.Live, "spx_complex", "PID 4242"); err != nil {
		t.Fatalf("Log: %v", err)
	}
	if err := l.Log(EventStop, job.Live, "spx_complex", ""); err != nil {
		t.Fatalf("Log: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(root, "logs", "feedctl.log"))
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines: %q", len(lines), lines)
	}
	if !strings.Contains(lines[0], "[feed_start] live/spx_complex launched (PID 4242)") {
		t.Errorf("line 1 = %q", lines[0])
	}
	if !strings.Contains(lines[1], "[feed_stop] live/spx_complex stopped") {
		t.Errorf("line 2 = %q", lines[1])
	}
}

func TestFormatLogLine(t *testing.T) {
	ts := time.Date(2026, 8, 21, 14, 30, 45, 0, time.UTC)
	tests := []struct {
		typ  EventType
		ctx  string
		want string
	}{
		{EventStart, "PID 7", "2026-08-21 14:30:45 [feed_start] historical/ndx_complex launched (PID 7)"},
		{EventCrash, "", "2026-08-21 14:30:45 [feed_crash] historical/ndx_complex exited unexpectedly"},
		{EventLaunchFail, "", "2026-08-21 14:30:45 [feed_launch_fail] historical/ndx_complex died during grace period"},
		{EventRestart, "", "2026-08-21 14:30:45 [feed_restart] historical/ndx_complex restarted"},
	}
	for _, tt := range tests {
		got := formatLogLine(Event{Timestamp: ts, Type: tt.typ, Mode: job.Historical, Group: "ndx_complex", Context: tt.ctx})
		if got != tt.want {
			t.Errorf("formatLogLine(%s) = %q, want %q", tt.typ, got, tt.want)
		}
	}
}

func TestFormatLogLineTruncatesContext(t *testing.T) {
	long := strings.Repeat("x", 300)
	got := formatLogLine(Event{Timestamp: time.Now(), Type: EventCrash, Mode: job.Live, Group: "g", Context: long})
	if strings.Contains(got, long) {
		t.Error("context not truncated")
	}
	if !strings.Contains(got, "...") {
		t.Errorf("no ellipsis in %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 120); got != "short" {
		t.Errorf("truncate short = %q", got)
	}
	if got := truncate("abcdefgh", 6); got != "abc..." {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("abcdefgh", 2); got != "ab" {
		t.Errorf("truncate tiny = %q", got)
	}
}

func TestNilStoreMirrorDoesNotFail(t *testing.T) {
	l := NewLogger(t.TempDir(), nil)
	if err := l.Log(EventCrash, job.Live, "spx_complex", "exit observed"); err != nil {
		t.Fatalf("Log with nil store: %v", err)
	}
}
