// Package job defines the FeedJob model: a single launched feed worker
// instance and the backfill window that parameterizes historical runs.
package job

import (
	"fmt"
	"time"
)

// Mode identifies the operating mode of a feed worker.
type Mode string

const (
	// Live runs a continuous feed against current market data.
	Live Mode = "live"
	// Historical replays a bounded backfill window for a past date.
	Historical Mode = "historical"
)

// DefaultFrequency is the polling frequency (seconds) used when a
// historical launch does not specify one.
const DefaultFrequency = 60

// ParseMode converts a user-supplied mode string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case Live, Historical:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown mode %q (expected live or historical)", s)
}

// String returns the mode identifier as used in log names and worker args.
func (m Mode) String() string {
	return string(m)
}

// Window describes the backfill parameters for a historical run.
type Window struct {
	// Date is the trading date to replay (YYYY-MM-DD).
	Date string `json:"date"`
	// StartTime is the replay start (HH:MM, 24h).
	StartTime string `json:"start_time"`
	// Frequency is the polling frequency in seconds. Zero means
	// "use default"; Normalize fills it in.
	Frequency int `json:"frequency"`
	// StopTime is optional (HH:MM). Empty means run until stopped.
	StopTime string `json:"stop_time,omitempty"`
}

// Normalize fills in defaulted fields. A zero frequency becomes
// DefaultFrequency.
func (w *Window) Normalize() {
	if w.Frequency == 0 {
		w.Frequency = DefaultFrequency
	}
}

// Validate checks the window's field formats. Call Normalize first if
// defaults should apply.
func (w *Window) Validate() error {
	if w.Date == "" {
		return fmt.Errorf("historical date is required")
	}
	if _, err := time.Parse("2006-01-02", w.Date); err != nil {
		return fmt.Errorf("invalid historical date %q (expected YYYY-MM-DD)", w.Date)
	}
	if w.StartTime == "" {
		return fmt.Errorf("start time is required")
	}
	if _, err := time.Parse("15:04", w.StartTime); err != nil {
		return fmt.Errorf("invalid start time %q (expected HH:MM)", w.StartTime)
	}
	if w.Frequency <= 0 {
		return fmt.Errorf("frequency must be > 0, got %d", w.Frequency)
	}
	if w.StopTime != "" {
		if _, err := time.Parse("15:04", w.StopTime); err != nil {
			return fmt.Errorf("invalid stop time %q (expected HH:MM)", w.StopTime)
		}
	}
	return nil
}

// FeedJob is a launched worker instance under supervision.
type FeedJob struct {
	ID         string    `json:"id"`
	Mode       Mode      `json:"mode"`
	Group      string    `json:"group"`
	PID        int       `json:"pid"`
	LogPath    string    `json:"log_path"`
	LaunchedAt time.Time `json:"launched_at"`
	// Window is set for historical jobs only.
	Window *Window `json:"window,omitempty"`
}

// Describe returns a short human-readable summary of the job.
func (j *FeedJob) Describe() string {
	s := fmt.Sprintf("%s feed for group %s (PID %d)", j.Mode, j.Group, j.PID)
	if j.Window != nil {
		s += fmt.Sprintf(" [%s %s freq=%ds", j.Window.Date, j.Window.StartTime, j.Window.Frequency)
		if j.Window.StopTime != "" {
			s += " stop=" + j.Window.StopTime
		}
		s += "]"
	}
	return s
}
