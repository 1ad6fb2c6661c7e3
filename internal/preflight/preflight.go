// Package preflight validates external prerequisites before any feed
// worker is launched: coordination store reachability, the group registry
// file, and the data directory.
//
// Checks follow a small doctor-style framework: each check reports a
// named result with a status and diagnostics, and the runner evaluates
// every check so the operator sees the full picture rather than the
// first failure.
package preflight

import "context"

// Status is the outcome level of a single check.
type Status int

const (
	// StatusOK means the prerequisite is satisfied.
	StatusOK Status = iota
	// StatusWarning means the prerequisite needed intervention (for
	// example, a directory was created) but launch may proceed.
	StatusWarning
	// StatusError means the prerequisite is unmet; launch must not
	// proceed.
	StatusError
)

// String returns a short label for the status.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusWarning:
		return "warning"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Result is the outcome of one check.
type Result struct {
	Name    string
	Status  Status
	Message string
	Details []string
}

// Check is a single preflight prerequisite.
type Check interface {
	// Name is the short check identifier.
	Name() string
	// Description says what the check verifies.
	Description() string
	// Run evaluates the check.
	Run(ctx context.Context) Result
}

// Report is the ordered outcome of a full preflight run.
type Report struct {
	Results []Result
}

// OK reports whether no check failed hard. Warnings do not block launch.
func (r Report) OK() bool {
	for _, res := range r.Results {
		if res.Status == StatusError {
			return false
		}
	}
	return true
}

// Failures returns the hard-failed results.
func (r Report) Failures() []Result {
	var failed []Result
	for _, res := range r.Results {
		if res.Status == StatusError {
			failed = append(failed, res)
		}
	}
	return failed
}

// Runner evaluates a fixed, ordered set of checks.
type Runner struct {
	checks []Check
}

// NewRunner creates a runner over the given checks, in order.
func NewRunner(checks ...Check) *Runner {
	return &Runner{checks: checks}
}

// Run evaluates every check and returns the itemized report. All checks
// run even after a failure so diagnostics are complete.
func (r *Runner) Run(ctx context.Context) Report {
	report := Report{Results: make([]Result, 0, len(r.checks))}
	for _, c := range r.checks {
		report.Results = append(report.Results, c.Run(ctx))
	}
	return report
}
