package monitor

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"
)

// Decision is the operator's (or policy's) answer to an unexpected exit.
type Decision int

const (
	// DecisionStop ends supervision; the job is terminally stopped.
	DecisionStop Decision = iota
	// DecisionRestart relaunches the worker with the same parameters.
	DecisionRestart
)

// Decider resolves what to do after an unexpected worker exit. The
// decision interface is separate from its console rendering so the same
// supervision loop can run headless under an automatic policy.
type Decider interface {
	Decide(obs ExitObservation) Decision
}

// ConsoleDecider asks the operator a yes/no restart question, showing
// the exit summary and classified log excerpt first.
type ConsoleDecider struct {
	In  io.Reader
	Out io.Writer
}

// Decide implements Decider.
func (d *ConsoleDecider) Decide(obs ExitObservation) Decision {
	fmt.Fprintf(d.Out, "\n%s exited unexpectedly at %s\n",
		obs.Job.Describe(), obs.ObservedAt.Format(time.RFC3339))

	if obs.Excerpt != nil {
		fmt.Fprintf(d.Out, "Diagnosis: %s\n", obs.Excerpt.Summary())
		for _, m := range obs.Excerpt.Matches {
			for _, line := range m.Lines {
				fmt.Fprintf(d.Out, "  [%s] %s\n", m.Category, line)
			}
		}
		if len(obs.Excerpt.Tail) > 0 {
			fmt.Fprintf(d.Out, "Last log lines (%s):\n", obs.Excerpt.LogPath)
			for _, line := range obs.Excerpt.Tail {
				fmt.Fprintf(d.Out, "  %s\n", line)
			}
		}
	}

	fmt.Fprint(d.Out, "Restart the feed? [y/N]: ")
	reader := bufio.NewReader(d.In)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return DecisionStop
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	if answer == "y" || answer == "yes" {
		return DecisionRestart
	}
	return DecisionStop
}

// AutoDecider restarts up to MaxRestarts times with a fixed delay
// between attempts, for headless supervision.
type AutoDecider struct {
	MaxRestarts int
	Delay       time.Duration

	restarts int
}

// Decide implements Decider.
func (d *AutoDecider) Decide(obs ExitObservation) Decision {
	if d.restarts >= d.MaxRestarts {
		return DecisionStop
	}
	d.restarts++
	if d.Delay > 0 {
		time.Sleep(d.Delay)
	}
	return DecisionRestart
}

// Restarts returns how many restarts the policy has granted.
func (d *AutoDecider) Restarts() int {
	return d.restarts
}
