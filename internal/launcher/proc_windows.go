//go:build windows

package launcher

import "os/exec"

// setSysProcAttr sets platform-specific process attributes.
// On Windows, no special attributes are needed for detachment.
func setSysProcAttr(cmd *exec.Cmd) {
	// No-op on Windows - process will run independently
}
