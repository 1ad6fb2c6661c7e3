package monitor

import (
	"strings"
	"testing"
	"time"

	"github.com/chainfeed/feedctl/internal/job"
	"github.com/chainfeed/feedctl/internal/logscan"
)

func testObservation() ExitObservation {
	return ExitObservation{
		Job:        &job.FeedJob{Mode: job.Live, Group: "spx_complex", PID: 4242},
		ObservedAt: time.Now().UTC(),
		Excerpt: &logscan.Excerpt{
			LogPath: "/tmp/worker.log",
			Tail:    []string{"RuntimeError: boom"},
			Matches: []logscan.Match{{Category: "runtime", Lines: []string{"RuntimeError: boom"}}},
		},
	}
}

func TestConsoleDeciderAnswers(t *testing.T) {
	tests := []struct {
		answer string
		want   Decision
	}{
		{"y\n", DecisionRestart},
		{"Y\n", DecisionRestart},
		{"yes\n", DecisionRestart},
		{"n\n", DecisionStop},
		{"\n", DecisionStop},
		{"whatever\n", DecisionStop},
	}
	for _, tt := range tests {
		var out strings.Builder
		d := &ConsoleDecider{In: strings.NewReader(tt.answer), Out: &out}
		if got := d.Decide(testObservation()); got != tt.want {
			t.Errorf("answer %q: got %v, want %v", strings.TrimSpace(tt.answer), got, tt.want)
		}
	}
}

func TestConsoleDeciderShowsDiagnosis(t *testing.T) {
	var out strings.Builder
	d := &ConsoleDecider{In: strings.NewReader("n\n"), Out: &out}
	d.Decide(testObservation())

	text := out.String()
	for _, want := range []string{"spx_complex", "runtime", "RuntimeError: boom", "Restart the feed?"} {
		if !strings.Contains(text, want) {
			t.Errorf("prompt output missing %q:\n%s", want, text)
		}
	}
}

func TestConsoleDeciderClosedInput(t *testing.T) {
	var out strings.Builder
	d := &ConsoleDecider{In: strings.NewReader(""), Out: &out}
	if got := d.Decide(testObservation()); got != DecisionStop {
		t.Errorf("EOF answer = %v, want stop", got)
	}
}

func TestAutoDeciderBudget(t *testing.T) {
	d := &AutoDecider{MaxRestarts: 2}
	obs := testObservation()

	if d.Decide(obs) != DecisionRestart || d.Decide(obs) != DecisionRestart {
		t.Fatal("restarts within budget denied")
	}
	if d.Decide(obs) != DecisionStop {
		t.Error("restart granted beyond budget")
	}
	if d.Restarts() != 2 {
		t.Errorf("Restarts() = %d", d.Restarts())
	}
}

func TestAutoDeciderZeroBudget(t *testing.T) {
	d := &AutoDecider{}
	if d.Decide(testObservation()) != DecisionStop {
		t.Error("zero budget granted a restart")
	}
}
