package preflight

import (
	"context"
	"time"

	"github.com/chainfeed/feedctl/internal/config"
	"github.com/chainfeed/feedctl/internal/coord"
)

// storePingTimeout bounds the preflight round-trip so an unreachable
// store fails fast instead of hanging the launch path.
const storePingTimeout = 3 * time.Second

// StoreCheck verifies the coordination store answers a trivial
// round-trip. The connection is opened and closed within the check.
type StoreCheck struct {
	store config.StoreConfig
}

// NewStoreCheck creates a store reachability check.
func NewStoreCheck(store config.StoreConfig) *StoreCheck {
	return &StoreCheck{store: store}
}

// Name implements Check.
func (c *StoreCheck) Name() string { return "coordination-store" }

// Description implements Check.
func (c *StoreCheck) Description() string {
	return "Check the coordination store answers a ping"
}

// Run implements Check.
func (c *StoreCheck) Run(ctx context.Context) Result {
	client := coord.New(c.store)
	defer client.Close()

	ctx, cancel := context.WithTimeout(ctx, storePingTimeout)
	defer cancel()

	if err := client.Ping(ctx); err != nil {
		return Result{
			Name:    c.Name(),
			Status:  StatusError,
			Message: "Coordination store is unreachable at " + c.store.Addr(),
			Details: []string{err.Error()},
		}
	}
	return Result{
		Name:    c.Name(),
		Status:  StatusOK,
		Message: "Coordination store reachable at " + c.store.Addr(),
	}
}
