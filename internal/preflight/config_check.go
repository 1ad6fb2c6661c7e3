package preflight

import (
	"context"
	"os"
)

// ConfigCheck verifies the group registry file exists at its configured
// path. Workers cannot resolve a group without it, so absence is a hard
// failure regardless of any other check passing.
type ConfigCheck struct {
	path string
}

// NewConfigCheck creates a group registry presence check.
func NewConfigCheck(path string) *ConfigCheck {
	return &ConfigCheck{path: path}
}

// Name implements Check.
func (c *ConfigCheck) Name() string { return "group-registry" }

// Description implements Check.
func (c *ConfigCheck) Description() string {
	return "Check the group registry file exists"
}

// Run implements Check.
func (c *ConfigCheck) Run(ctx context.Context) Result {
	info, err := os.Stat(c.path)
	if err != nil {
		return Result{
			Name:    c.Name(),
			Status:  StatusError,
			Message: "Group registry not found at " + c.path,
			Details: []string{err.Error()},
		}
	}
	if info.IsDir() {
		return Result{
			Name:    c.Name(),
			Status:  StatusError,
			Message: "Group registry path is a directory: " + c.path,
		}
	}
	return Result{
		Name:    c.Name(),
		Status:  StatusOK,
		Message: "Group registry present at " + c.path,
	}
}
