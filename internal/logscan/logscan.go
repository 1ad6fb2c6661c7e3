// Package logscan extracts and classifies trailing worker log content so
// the operator gets a one-glance diagnosis of why a worker died without
// opening the full log.
//
// Classification is literal substring matching against a small fixed set
// of fault signatures, not log-level parsing. No match is not an error;
// it just means nothing recognizable was found.
package logscan

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	// TailLines is how many trailing lines an excerpt carries.
	TailLines = 10
	// categoryWindow is the slightly larger trailing window searched
	// for fault categories.
	categoryWindow = 40
	// maxPerCategory caps how many matching lines a category surfaces.
	maxPerCategory = 3

	// tailChunk is how much of the end of a log we read. Worker logs
	// grow for hours; we never need more than the recent tail.
	tailChunk = 64 * 1024
)

// FaultMarker is the stack-trace marker a worker emits on an unhandled
// runtime fault.
const FaultMarker = "Traceback (most recent call last):"

// Category is a named fault category with its literal signatures.
type Category struct {
	Name     string
	Patterns []string
}

// Categories are searched in order; each surfaces at most
// maxPerCategory of its last matching lines.
var Categories = []Category{
	{Name: "missing-resource", Patterns: []string{"FileNotFoundError"}},
	{Name: "missing-key", Patterns: []string{"KeyError"}},
	{Name: "connection-refused", Patterns: []string{"ConnectionRefusedError", "Connection refused"}},
	{Name: "runtime", Patterns: []string{"RuntimeError", "Exception"}},
}

// Match is one classified category with its surfaced lines.
type Match struct {
	Category string
	Lines    []string
}

// Excerpt is the classified trailing view of a worker log.
type Excerpt struct {
	LogPath string
	// Tail is the last TailLines lines of the log.
	Tail []string
	// Fault is set when the stack-trace marker appears in the window.
	Fault bool
	// Matches are the classified fault categories, in Categories order.
	Matches []Match
}

// Classify reads the trailing window of the log at path and classifies it.
func Classify(path string) (*Excerpt, error) {
	window, err := Tail(path, categoryWindow)
	if err != nil {
		return nil, err
	}

	excerpt := &Excerpt{LogPath: path}
	if len(window) > TailLines {
		excerpt.Tail = window[len(window)-TailLines:]
	} else {
		excerpt.Tail = window
	}

	for _, line := range window {
		if strings.Contains(line, FaultMarker) {
			excerpt.Fault = true
			break
		}
	}

	for _, cat := range Categories {
		var lines []string
		for _, line := range window {
			for _, pat := range cat.Patterns {
				if strings.Contains(line, pat) {
					lines = append(lines, line)
					break
				}
			}
		}
		if len(lines) > maxPerCategory {
			lines = lines[len(lines)-maxPerCategory:]
		}
		if len(lines) > 0 {
			excerpt.Matches = append(excerpt.Matches, Match{Category: cat.Name, Lines: lines})
		}
	}

	return excerpt, nil
}

// Empty reports whether the excerpt classified nothing.
func (e *Excerpt) Empty() bool {
	return !e.Fault && len(e.Matches) == 0
}

// Summary returns a short description of the classification.
func (e *Excerpt) Summary() string {
	if e.Empty() {
		return "no known fault signatures in recent log output"
	}
	var parts []string
	if e.Fault {
		parts = append(parts, "unhandled fault")
	}
	for _, m := range e.Matches {
		parts = append(parts, fmt.Sprintf("%s (%d)", m.Category, len(m.Lines)))
	}
	return strings.Join(parts, ", ")
}

// Tail returns the last n lines of the file at path. Only the trailing
// tailChunk bytes are examined.
func Tail(path string, n int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening log: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat log: %w", err)
	}
	if info.Size() > tailChunk {
		if _, err := f.Seek(-tailChunk, io.SeekEnd); err != nil {
			return nil, fmt.Errorf("seeking log tail: %w", err)
		}
	}

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
		if len(lines) > n {
			lines = lines[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading log: %w", err)
	}
	return lines, nil
}
