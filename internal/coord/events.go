package coord

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// Control-plane event log layout in the store: a sorted set scored by
// epoch milliseconds, capped in size and expiry so dashboards see a
// bounded recent history.
const (
	eventsKey = "control:events"
	eventTTL  = 48 * time.Hour
	maxEvents = 5000
)

// Event is one structured control-plane event (start, stop, crash,
// restart) as consumed by dashboards and audit tooling.
type Event struct {
	Event      string `json:"event"`
	Timestamp  string `json:"timestamp"`
	EpochMS    int64  `json:"epoch_ms"`
	Group      string `json:"group"`
	Mode       string `json:"mode"`
	Status     string `json:"status"`
	Reason     string `json:"reason"`
	User       string `json:"user"`
	SourceHost string `json:"source_host"`
}

// NewEvent builds an event stamped with the current UTC time and the
// local user/host identity.
func NewEvent(eventType, group, mode, status, reason string) Event {
	now := time.Now().UTC()
	if reason == "" {
		reason = "manual"
	}
	user := os.Getenv("USER")
	if user == "" {
		user = "unknown"
	}
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	return Event{
		Event:      eventType,
		Timestamp:  now.Format(time.RFC3339Nano),
		EpochMS:    now.UnixMilli(),
		Group:      group,
		Mode:       mode,
		Status:     status,
		Reason:     reason,
		User:       user,
		SourceHost: host,
	}
}

// LogEvent appends an event to the control-plane log, trims the log to
// its size cap, and refreshes the expiry.
func (c *Client) LogEvent(ctx context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}
	pipe := c.rdb.TxPipeline()
	pipe.ZAdd(ctx, eventsKey, redis.Z{Score: float64(e.EpochMS), Member: string(payload)})
	pipe.ZRemRangeByRank(ctx, eventsKey, 0, int64(-maxEvents-1))
	pipe.Expire(ctx, eventsKey, eventTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("logging event: %w", err)
	}
	return nil
}

// RecentEvents returns up to limit events, newest first.
func (c *Client) RecentEvents(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 50
	}
	payloads, err := c.rdb.ZRevRange(ctx, eventsKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("reading events: %w", err)
	}
	events := make([]Event, 0, len(payloads))
	for _, p := range payloads {
		var e Event
		if err := json.Unmarshal([]byte(p), &e); err != nil {
			continue // tolerate foreign writers with other formats
		}
		events = append(events, e)
	}
	return events, nil
}
