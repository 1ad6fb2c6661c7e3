package cmd

import (
	"testing"
	"time"

	"github.com/chainfeed/feedctl/internal/job"
)

func TestParseModeArg(t *testing.T) {
	mode, err := parseModeArg([]string{"live"})
	if err != nil || mode != job.Live {
		t.Errorf("parseModeArg(live) = %v, %v", mode, err)
	}
	if _, err := parseModeArg(nil); err == nil {
		t.Error("missing argument accepted")
	}
	if _, err := parseModeArg([]string{"turbo"}); err == nil {
		t.Error("unknown mode accepted")
	}
}

func TestFormatAge(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "-"},
		{-time.Second, "-"},
		{83 * time.Second, "1m23s"},
		{2*time.Hour + 3*time.Minute, "2h3m0s"},
	}
	for _, tt := range tests {
		if got := formatAge(tt.in); got != tt.want {
			t.Errorf("formatAge(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
