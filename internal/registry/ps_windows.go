//go:build windows

package registry

import "fmt"

// scanProcesses is not supported on Windows. Feed workers are deployed
// on Unix hosts; the registry degrades to an explicit error rather than
// guessing at tasklist output.
func scanProcesses(ident WorkerIdent) ([]Process, error) {
	return nil, fmt.Errorf("process-table scan is not supported on Windows")
}
