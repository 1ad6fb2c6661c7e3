//go:build !windows

package registry

import (
	"fmt"

	"github.com/chainfeed/feedctl/internal/util"
)

// scanProcesses lists processes matching the ident by parsing ps output.
// ps -eo pid,etime,args is portable across Linux and macOS.
func scanProcesses(ident WorkerIdent) ([]Process, error) {
	out, err := util.ExecWithOutput(".", "ps", "-eo", "pid,etime,args")
	if err != nil {
		return nil, fmt.Errorf("listing processes: %w", err)
	}
	return parsePSOutput(out, ident), nil
}
