// Package monitor watches launched feed workers and drives the recovery
// decision when one exits.
//
// Each watched job gets its own goroutine that sleep-polls process
// liveness at a fixed interval. The poll loop, not a wait-for-exit
// syscall, bounds detection latency by the interval and keeps the
// monitor independent of how the worker was spawned. A handle lets the
// operator cancel the watch so an intentional stop never triggers a
// restart prompt.
package monitor

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/chainfeed/feedctl/internal/feedlog"
	"github.com/chainfeed/feedctl/internal/job"
	"github.com/chainfeed/feedctl/internal/logscan"
	"github.com/chainfeed/feedctl/internal/util"
)

// DefaultPollInterval is the liveness poll cadence when none is set.
const DefaultPollInterval = 5 * time.Second

// ExitObservation captures one observed worker exit.
type ExitObservation struct {
	Job        *job.FeedJob
	ObservedAt time.Time
	// Excerpt is the classified log tail; nil if the log could not be
	// read.
	Excerpt *logscan.Excerpt
}

// RelaunchFunc restarts a worker with the same parameters as prev.
type RelaunchFunc func(ctx context.Context, prev *job.FeedJob) (*job.FeedJob, error)

// Watcher produces monitoring handles for launched jobs.
type Watcher struct {
	// Interval is the liveness poll interval.
	Interval time.Duration
	// Decider is consulted exactly once per observed exit. Nil means
	// every exit is terminal.
	Decider Decider
	// Relaunch restarts the job when the Decider says so. Nil disables
	// restart.
	Relaunch RelaunchFunc
	// Events receives lifecycle events; may be nil.
	Events *feedlog.Logger
}

// Handle is the cancellable supervision of one launched job (and its
// restarted successors).
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}

	mu      sync.Mutex
	current *job.FeedJob
	stopped bool
}

// Cancel ends supervision without consulting the Decider. Use for
// operator-initiated stops so no restart prompt fires.
func (h *Handle) Cancel() {
	h.cancel()
}

// Wait blocks until supervision ends.
func (h *Handle) Wait() {
	<-h.done
}

// Done exposes completion for select loops.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Job returns the currently supervised job (the latest restart).
func (h *Handle) Job() *job.FeedJob {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

func (h *Handle) setJob(j *job.FeedJob) {
	h.mu.Lock()
	h.current = j
	h.mu.Unlock()
}

// Watch begins supervising the job in a background goroutine and returns
// immediately.
func (w *Watcher) Watch(j *job.FeedJob) *Handle {
	ctx, cancel := context.WithCancel(context.Background())
	h := &Handle{
		cancel:  cancel,
		done:    make(chan struct{}),
		current: j,
	}
	go w.run(ctx, h, j)
	return h
}

func (w *Watcher) run(ctx context.Context, h *Handle, j *job.FeedJob) {
	defer close(h.done)
	defer h.cancel()

	interval := w.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	for {
		if !w.pollUntilExit(ctx, j.PID, interval) {
			return // cancelled; suppress the recovery decision
		}

		obs := ExitObservation{Job: j, ObservedAt: time.Now().UTC()}
		if excerpt, err := logscan.Classify(j.LogPath); err == nil {
			obs.Excerpt = excerpt
		}
		if w.Events != nil {
			detail := "PID " + strconv.Itoa(j.PID)
			if obs.Excerpt != nil && !obs.Excerpt.Empty() {
				detail += ": " + obs.Excerpt.Summary()
			}
			_ = w.Events.Log(feedlog.EventCrash, j.Mode, j.Group, detail)
		}

		if w.Decider == nil || w.Relaunch == nil {
			return
		}
		if w.Decider.Decide(obs) != DecisionRestart {
			return
		}

		nj, err := w.Relaunch(ctx, j)
		if err != nil {
			// Relaunch failures are terminal for this handle; the
			// operator already saw the launch error.
			return
		}
		h.setJob(nj)
		j = nj
	}
}

// pollUntilExit sleep-polls liveness. Returns true when the process
// exited, false when the watch was cancelled first.
func (w *Watcher) pollUntilExit(ctx context.Context, pid int, interval time.Duration) bool {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
			if !util.ProcessAlive(pid) {
				return true
			}
		}
	}
}
