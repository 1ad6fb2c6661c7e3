//go:build windows

package util

import "os"

// ProcessAlive checks if a process with the given PID is still running.
// On Windows, FindProcess always succeeds, so we probe with a nil signal.
func ProcessAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	p, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return p.Signal(os.Signal(nil)) == nil
}

// Terminate terminates a process. Windows has no SIGTERM, so this kills.
func Terminate(pid int) error {
	p, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return p.Kill()
}

// Kill forcibly terminates a process.
func Kill(pid int) error {
	p, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return p.Kill()
}
