//go:build !windows

package launcher

import (
	"os/exec"
	"syscall"
)

// setSysProcAttr sets platform-specific process attributes.
// On Unix, workers get their own process group so they survive the
// supervisor's session and don't receive its terminal signals.
func setSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}
}
