// Package coord talks to the coordination store (Redis) shared by feed
// workers and dashboards. The supervisor only reads liveness signals and
// appends control-plane events; worker health state is owned by the
// workers themselves.
package coord

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/chainfeed/feedctl/internal/config"
)

// Client wraps a Redis connection for supervisor-side operations.
// Connections are short-lived from the caller's perspective: every
// operation takes a context and callers Close when done.
type Client struct {
	rdb *redis.Client
}

// New creates a client for the configured store endpoint.
func New(cfg config.StoreConfig) *Client {
	return &Client{
		rdb: redis.NewClient(&redis.Options{
			Addr: cfg.Addr(),
			DB:   cfg.DB,
		}),
	}
}

// NewWithAddr creates a client for an explicit host:port address.
func NewWithAddr(addr string) *Client {
	return &Client{
		rdb: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

// Ping performs a trivial round-trip to verify the store is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("coordination store unreachable: %w", err)
	}
	return nil
}

// Heartbeat reads the worker-published heartbeat for a group. Returns the
// raw payload and its remaining TTL; a missing key returns ok=false with
// no error.
func (c *Client) Heartbeat(ctx context.Context, group string) (payload string, ttl time.Duration, ok bool, err error) {
	key := "heartbeat:" + group
	payload, err = c.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", 0, false, nil
	}
	if err != nil {
		return "", 0, false, fmt.Errorf("reading heartbeat %s: %w", key, err)
	}
	ttl, err = c.rdb.TTL(ctx, key).Result()
	if err != nil {
		return payload, 0, true, nil
	}
	return payload, ttl, true, nil
}

// Close releases the underlying connection pool.
func (c *Client) Close() error {
	return c.rdb.Close()
}
