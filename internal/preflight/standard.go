package preflight

import "github.com/chainfeed/feedctl/internal/config"

// Standard returns the runner with the standard launch-gate checks in
// their required order: store reachability, group registry, data dir.
func Standard(cfg *config.Config) *Runner {
	return NewRunner(
		NewStoreCheck(cfg.Store),
		NewConfigCheck(cfg.GroupsPath),
		NewDataDirCheck(cfg.DataDir),
	)
}
