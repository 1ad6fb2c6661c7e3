package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/chainfeed/feedctl/internal/logscan"
	"github.com/chainfeed/feedctl/internal/registry"
	"github.com/chainfeed/feedctl/internal/style"
	"github.com/chainfeed/feedctl/internal/tui/tail"
)

var (
	logsFollow bool
	logsList   bool
	logsLines  int
)

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "Follow the log as it grows")
	logsCmd.Flags().BoolVar(&logsList, "list", false, "List the mode's log files newest-first and exit")
	logsCmd.Flags().IntVarP(&logsLines, "lines", "n", 40, "How many trailing lines to show")
}

var logsCmd = &cobra.Command{
	Use:     "logs <live|historical>",
	GroupID: GroupDiag,
	Short:   "Show or follow the latest feed worker log",
	Long: `Show the trailing lines of the mode's most recent worker log.

With --follow, keeps reading as the worker appends; on a terminal this
opens a scrollable viewer, otherwise it streams plainly. With --list,
just enumerates the mode's log files newest-first.`,
	Args: cobra.ExactArgs(1),
	RunE: runLogs,
}

func runLogs(cmd *cobra.Command, args []string) error {
	mode, err := parseModeArg(args)
	if err != nil {
		return err
	}
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	logDir := a.cfg.LogDir(mode.String())

	if logsList {
		files, err := registry.LogFiles(logDir)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			style.PrintWarning("no %s log files", mode)
			return nil
		}
		for _, f := range files {
			fmt.Printf("%s  %s\n", f.ModTime.Format("2006-01-02 15:04:05"), f.Path)
		}
		return nil
	}

	logPath, err := registry.LatestLog(logDir)
	if err != nil {
		return err
	}

	if logsFollow {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return tail.Run(logPath)
		}
		return followPlain(logPath, os.Stdout)
	}

	lines, err := logscan.Tail(logPath, logsLines)
	if err != nil {
		return err
	}
	fmt.Printf("%s\n", style.Dim.Render(logPath))
	for _, line := range lines {
		fmt.Println(line)
	}
	return nil
}

// followPlain streams appended log content to w until the process is
// interrupted. Used when stdout is not a terminal.
func followPlain(path string, w io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	// Start from the current end; history is available without -f.
	if _, err := f.Seek(0, io.SeekEnd); err != nil {
		return err
	}
	for {
		if _, err := io.Copy(w, f); err != nil {
			return err
		}
		time.Sleep(500 * time.Millisecond)
	}
}
