package preflight

import (
	"context"
	"os"
)

// DataDirCheck verifies the data directory exists. A missing directory is
// auto-created and reported as a warning so the operator knows it was
// empty rather than silently assuming historical data is present.
type DataDirCheck struct {
	path string
}

// NewDataDirCheck creates a data directory check.
func NewDataDirCheck(path string) *DataDirCheck {
	return &DataDirCheck{path: path}
}

// Name implements Check.
func (c *DataDirCheck) Name() string { return "data-dir" }

// Description implements Check.
func (c *DataDirCheck) Description() string {
	return "Check the data directory exists (created if absent)"
}

// Run implements Check.
func (c *DataDirCheck) Run(ctx context.Context) Result {
	info, err := os.Stat(c.path)
	if err == nil {
		if !info.IsDir() {
			return Result{
				Name:    c.Name(),
				Status:  StatusError,
				Message: "Data path exists but is not a directory: " + c.path,
			}
		}
		return Result{
			Name:    c.Name(),
			Status:  StatusOK,
			Message: "Data directory present at " + c.path,
		}
	}
	if !os.IsNotExist(err) {
		return Result{
			Name:    c.Name(),
			Status:  StatusError,
			Message: "Cannot stat data directory " + c.path,
			Details: []string{err.Error()},
		}
	}

	if err := os.MkdirAll(c.path, 0755); err != nil {
		return Result{
			Name:    c.Name(),
			Status:  StatusError,
			Message: "Data directory missing and could not be created: " + c.path,
			Details: []string{err.Error()},
		}
	}
	return Result{
		Name:    c.Name(),
		Status:  StatusWarning,
		Message: "Data directory was missing; created " + c.path,
	}
}
