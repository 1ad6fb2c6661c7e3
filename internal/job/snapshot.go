package job

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/chainfeed/feedctl/internal/util"
)

// Snapshot records the last launched job per mode so a restart can reuse
// the same group and window without re-prompting the operator.
type Snapshot struct {
	Job     FeedJob   `json:"job"`
	SavedAt time.Time `json:"saved_at"`
}

const snapshotLockTimeout = 2 * time.Second

func runtimeDir(root string) string {
	return filepath.Join(root, ".runtime")
}

func snapshotPath(root string, mode Mode) string {
	return filepath.Join(runtimeDir(root), fmt.Sprintf("last_launch_%s.json", mode))
}

func lockSnapshot(root string, mode Mode) (*flock.Flock, error) {
	if err := os.MkdirAll(runtimeDir(root), 0755); err != nil {
		return nil, fmt.Errorf("creating runtime directory: %w", err)
	}
	lock := flock.New(snapshotPath(root, mode) + ".lock")
	ctx, cancel := context.WithTimeout(context.Background(), snapshotLockTimeout)
	defer cancel()

	locked, err := lock.TryLockContext(ctx, 100*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("acquiring snapshot lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("timeout waiting for snapshot lock")
	}
	return lock, nil
}

// SaveSnapshot persists the job as the last launch for its mode.
func SaveSnapshot(root string, j *FeedJob) error {
	lock, err := lockSnapshot(root, j.Mode)
	if err != nil {
		return err
	}
	defer lock.Unlock() //nolint:errcheck

	snap := Snapshot{Job: *j, SavedAt: time.Now().UTC()}
	if err := util.AtomicWriteJSON(snapshotPath(root, j.Mode), snap); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot returns the last launch snapshot for the mode.
//
// Uses the nil sentinel pattern: returns nil (not an error) when no
// snapshot exists or the file can't be parsed, so callers can treat
// "never launched" and "corrupt snapshot" uniformly.
func LoadSnapshot(root string, mode Mode) *Snapshot {
	data, err := os.ReadFile(snapshotPath(root, mode))
	if err != nil {
		return nil
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil
	}
	return &snap
}

// ClearSnapshot removes the snapshot for the mode, if present.
func ClearSnapshot(root string, mode Mode) error {
	lock, err := lockSnapshot(root, mode)
	if err != nil {
		return err
	}
	defer lock.Unlock() //nolint:errcheck

	if err := os.Remove(snapshotPath(root, mode)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing snapshot: %w", err)
	}
	return nil
}

// Live reports whether the snapshot's recorded process is still running.
// A nil snapshot is never live.
func (s *Snapshot) Live() bool {
	if s == nil {
		return false
	}
	return util.ProcessAlive(s.Job.PID)
}
