// Package registry answers "what feed workers are running right now" by
// scanning the live OS process table, with no internal bookkeeping.
//
// Workers are recognized by a typed identifier that currently matches a
// command-line substring per mode. The identifier is a capability handed
// in by the caller, so the substring scan can be swapped for a process
// group or supervisor-API implementation without changing callers.
package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/chainfeed/feedctl/internal/config"
	"github.com/chainfeed/feedctl/internal/job"
	"github.com/chainfeed/feedctl/internal/util"
)

// WorkerIdent recognizes one mode's workers in the process table.
type WorkerIdent struct {
	Mode job.Mode
	// Match is the command-line substring identifying this worker kind.
	Match string
}

// Matches reports whether a process command line belongs to this ident.
func (w WorkerIdent) Matches(commandLine string) bool {
	return w.Match != "" && strings.Contains(commandLine, w.Match)
}

// Process is one live worker found in the process table.
type Process struct {
	PID     int
	Command string
	// Elapsed is the process age as reported by the OS.
	Elapsed time.Duration
}

// Registry performs live process-table queries for feed workers.
type Registry struct {
	idents map[job.Mode]WorkerIdent
}

// New builds a registry with the configured worker identifiers.
func New(cfg *config.Config) *Registry {
	return &Registry{
		idents: map[job.Mode]WorkerIdent{
			job.Live:       {Mode: job.Live, Match: cfg.Workers.LiveMatch},
			job.Historical: {Mode: job.Historical, Match: cfg.Workers.HistoricalMatch},
		},
	}
}

// Ident returns the worker identifier for a mode.
func (r *Registry) Ident(mode job.Mode) WorkerIdent {
	return r.idents[mode]
}

// List scans the process table for workers of the given mode.
func (r *Registry) List(mode job.Mode) ([]Process, error) {
	ident, ok := r.idents[mode]
	if !ok || ident.Match == "" {
		return nil, fmt.Errorf("no worker identifier configured for mode %s", mode)
	}
	procs, err := scanProcesses(ident)
	if err != nil {
		return nil, err
	}
	self := os.Getpid()
	var out []Process
	for _, p := range procs {
		if p.PID == self {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// StopAll sends a termination signal to every worker of the mode.
// Best-effort: the signal is sent and not waited on. Zero matches is an
// informational no-op, not an error.
func (r *Registry) StopAll(mode job.Mode) ([]Process, error) {
	procs, err := r.List(mode)
	if err != nil {
		return nil, err
	}
	var signaled []Process
	for _, p := range procs {
		if err := util.Terminate(p.PID); err != nil {
			continue // already gone or not ours; best-effort
		}
		signaled = append(signaled, p)
	}
	return signaled, nil
}

// LogFile is one worker log file with its modification time.
type LogFile struct {
	Path    string
	ModTime time.Time
}

// LogFiles lists a mode's log files newest-first.
func LogFiles(logDir string) ([]LogFile, error) {
	entries, err := os.ReadDir(logDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading log directory: %w", err)
	}
	var files []LogFile
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".log") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, LogFile{
			Path:    filepath.Join(logDir, entry.Name()),
			ModTime: info.ModTime(),
		})
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].ModTime.After(files[j].ModTime)
	})
	return files, nil
}

// LatestLog returns the newest log file in the directory.
func LatestLog(logDir string) (string, error) {
	files, err := LogFiles(logDir)
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", fmt.Errorf("no log files in %s", logDir)
	}
	return files[0].Path, nil
}
