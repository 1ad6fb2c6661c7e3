// Package feedlog provides the local control-plane event log for feed
// lifecycle events (start, stop, crash, restart).
//
// Events are appended as human-readable lines to <root>/logs/feedctl.log
// and mirrored best-effort to the coordination store. Mirror failures are
// silently ignored: the store is an audit convenience, and a flaky store
// must never break a launch or a stop.
package feedlog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/chainfeed/feedctl/internal/coord"
	"github.com/chainfeed/feedctl/internal/job"
)

// EventType represents the type of feed lifecycle event.
type EventType string

const (
	// EventStart indicates a worker was launched.
	EventStart EventType = "feed_start"
	// EventStop indicates a worker was stopped by the operator.
	EventStop EventType = "feed_stop"
	// EventRestart indicates a worker was relaunched after an exit.
	EventRestart EventType = "feed_restart"
	// EventCrash indicates a monitored worker exited unexpectedly.
	EventCrash EventType = "feed_crash"
	// EventLaunchFail indicates a worker died within the grace period.
	EventLaunchFail EventType = "feed_launch_fail"
)

// Event is a single feed lifecycle event.
type Event struct {
	Timestamp time.Time
	Type      EventType
	Mode      job.Mode
	Group     string
	Context   string
}

// Logger appends events to the feedctl log file and mirrors them to the
// coordination store when one is attached.
type Logger struct {
	logPath string
	store   *coord.Client
	mu      sync.Mutex
}

const storeMirrorTimeout = 2 * time.Second

// NewLogger creates a Logger writing under the given root. store may be
// nil to disable mirroring.
func NewLogger(root string, store *coord.Client) *Logger {
	return &Logger{
		logPath: filepath.Join(root, "logs", "feedctl.log"),
		store:   store,
	}
}

// Log records a single event. File errors are returned; store mirroring
// is best-effort.
func (l *Logger) Log(t EventType, mode job.Mode, group, context string) error {
	return l.LogEvent(Event{
		Timestamp: time.Now().UTC(),
		Type:      t,
		Mode:      mode,
		Group:     group,
		Context:   context,
	})
}

// LogEvent appends the event line and mirrors it to the store.
func (l *Logger) LogEvent(e Event) error {
	if err := l.appendLine(e); err != nil {
		return err
	}
	l.mirror(e)
	return nil
}

func (l *Logger) appendLine(e Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.logPath), 0755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(l.logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(formatLogLine(e) + "\n"); err != nil {
		return fmt.Errorf("writing log line: %w", err)
	}
	return nil
}

// mirror pushes the event to the coordination store, ignoring failures.
func (l *Logger) mirror(e Event) {
	if l.store == nil {
		return
	}
	status := "ok"
	if e.Type == EventCrash || e.Type == EventLaunchFail {
		status = "error"
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeMirrorTimeout)
	defer cancel()
	_ = l.store.LogEvent(ctx, coord.NewEvent(string(e.Type), e.Group, string(e.Mode), status, e.Context))
}

// formatLogLine formats an event as a human-readable log line.
// Format: 2025-11-03 14:30:45 [feed_start] live/spx_complex launched (PID 4242)
func formatLogLine(e Event) string {
	ts := e.Timestamp.Format("2006-01-02 15:04:05")

	var detail string
	switch e.Type {
	case EventStart:
		detail = "launched"
	case EventStop:
		detail = "stopped"
	case EventRestart:
		detail = "restarted"
	case EventCrash:
		detail = "exited unexpectedly"
	case EventLaunchFail:
		detail = "died during grace period"
	default:
		detail = string(e.Type)
	}
	if e.Context != "" {
		detail += fmt.Sprintf(" (%s)", truncate(e.Context, 120))
	}

	return fmt.Sprintf("%s [%s] %s/%s %s", ts, e.Type, e.Mode, e.Group, detail)
}

// truncate shortens a string to maxLen, appending "..." when cut.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
