// Package config provides the feedctl configuration object: supervisor
// settings from an optional TOML file with environment overrides, and the
// YAML group registry describing launchable feed groups.
//
// Configuration is loaded once at startup and passed into component
// constructors; nothing reads ambient environment state after that.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Default endpoints and paths used when neither the config file nor the
// environment overrides them.
const (
	DefaultStoreHost = "localhost"
	DefaultStorePort = 6379

	defaultGracePeriod  = 2 * time.Second
	defaultPollInterval = 5 * time.Second
	defaultTailLines    = 10
)

// Environment variables honored as overrides at load time.
const (
	EnvRoot      = "FEEDCTL_ROOT"
	EnvStoreHost = "REDIS_HOST"
	EnvStorePort = "REDIS_PORT"
	EnvGroups    = "FEEDCTL_CONFIG"
	EnvDataDir   = "FEEDCTL_DATA_DIR"
)

// Duration is a wrapper for time.Duration that supports TOML text values
// like "2s" or "500ms".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler for Duration.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = parsed
	return nil
}

// StoreConfig locates the coordination store (Redis).
type StoreConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
	DB   int    `toml:"db"`
}

// Addr returns the host:port dial address.
func (s StoreConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// WorkerConfig describes how to invoke and recognize feed workers.
type WorkerConfig struct {
	// LiveCommand is the argv prefix for the live worker.
	LiveCommand []string `toml:"live_command"`
	// HistoricalCommand is the argv prefix for the historical worker.
	HistoricalCommand []string `toml:"historical_command"`
	// LiveMatch and HistoricalMatch are the command-line substrings
	// used to recognize each worker kind in the process table.
	LiveMatch       string `toml:"live_match"`
	HistoricalMatch string `toml:"historical_match"`
}

// SuperviseConfig holds launch and monitoring timing knobs.
type SuperviseConfig struct {
	// GracePeriod is how long after spawn before confirming survival.
	GracePeriod Duration `toml:"grace_period"`
	// PollInterval is the liveness poll cadence while monitoring.
	PollInterval Duration `toml:"poll_interval"`
	// TailLines is how many trailing log lines failure reports show.
	TailLines int `toml:"tail_lines"`
}

// Config is the explicit configuration object passed to every component.
type Config struct {
	// Root is the application root directory. Log files, runtime state,
	// and default paths all live beneath it.
	Root string `toml:"root"`
	// GroupsPath is the YAML group registry file.
	GroupsPath string `toml:"groups_path"`
	// DataDir is the directory historical workers read snapshots from.
	DataDir string `toml:"data_dir"`

	Store     StoreConfig     `toml:"store"`
	Workers   WorkerConfig    `toml:"workers"`
	Supervise SuperviseConfig `toml:"supervise"`
}

// Default returns the built-in configuration, rooted at dir.
func Default(dir string) *Config {
	return &Config{
		Root:       dir,
		GroupsPath: filepath.Join(dir, "config", "feed_groups.yaml"),
		DataDir:    filepath.Join(dir, "data"),
		Store: StoreConfig{
			Host: DefaultStoreHost,
			Port: DefaultStorePort,
		},
		Workers: WorkerConfig{
			LiveCommand:       []string{"python3", "-m", "core.live_feed_manager"},
			HistoricalCommand: []string{"python3", "-m", "core.historical_feed_manager"},
			LiveMatch:         "live_feed_manager",
			HistoricalMatch:   "historical_feed_manager",
		},
		Supervise: SuperviseConfig{
			GracePeriod:  Duration{defaultGracePeriod},
			PollInterval: Duration{defaultPollInterval},
			TailLines:    defaultTailLines,
		},
	}
}

// Load builds the configuration: defaults, then the TOML file at
// <root>/feedctl.toml if present, then environment overrides. The root
// itself comes from FEEDCTL_ROOT, falling back to the home directory's
// chainfeed folder.
func Load() (*Config, error) {
	root := os.Getenv(EnvRoot)
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}
		root = filepath.Join(home, "chainfeed")
	}
	return LoadFrom(root)
}

// LoadFrom builds the configuration rooted at the given directory.
func LoadFrom(root string) (*Config, error) {
	cfg := Default(root)

	tomlPath := filepath.Join(root, "feedctl.toml")
	if _, err := os.Stat(tomlPath); err == nil {
		if _, err := toml.DecodeFile(tomlPath, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", tomlPath, err)
		}
	}
	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays environment variable overrides.
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvStoreHost); v != "" {
		c.Store.Host = v
	}
	if v := os.Getenv(EnvStorePort); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			c.Store.Port = port
		}
	}
	if v := os.Getenv(EnvGroups); v != "" {
		c.GroupsPath = v
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		c.DataDir = v
	}
}

func (c *Config) validate() error {
	if len(c.Workers.LiveCommand) == 0 {
		return fmt.Errorf("workers.live_command must not be empty")
	}
	if len(c.Workers.HistoricalCommand) == 0 {
		return fmt.Errorf("workers.historical_command must not be empty")
	}
	if c.Supervise.GracePeriod.Duration <= 0 {
		return fmt.Errorf("supervise.grace_period must be positive")
	}
	if c.Supervise.PollInterval.Duration <= 0 {
		return fmt.Errorf("supervise.poll_interval must be positive")
	}
	if c.Supervise.TailLines <= 0 {
		return fmt.Errorf("supervise.tail_lines must be positive")
	}
	return nil
}

// LogDir returns the log directory for a mode (created by the launcher).
func (c *Config) LogDir(mode string) string {
	return filepath.Join(c.Root, "logs", mode)
}

// EventLogPath is the local control-plane event log file.
func (c *Config) EventLogPath() string {
	return filepath.Join(c.Root, "logs", "feedctl.log")
}
