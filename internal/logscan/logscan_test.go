package logscan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeLog(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "worker.log")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTail(t *testing.T) {
	var lines []string
	for i := 1; i <= 20; i++ {
		lines = append(lines, fmt.Sprintf("line %d", i))
	}
	path := writeLog(t, lines...)

	got, err := Tail(path, 5)
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	if len(got) != 5 || got[0] != "line 16" || got[4] != "line 20" {
		t.Errorf("Tail = %v", got)
	}

	// Asking for more lines than exist returns them all.
	got, err = Tail(path, 100)
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	if len(got) != 20 {
		t.Errorf("got %d lines, want 20", len(got))
	}
}

func TestTailMissingFile(t *testing.T) {
	if _, err := Tail(filepath.Join(t.TempDir(), "absent.log"), 10); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestClassifyCleanLog(t *testing.T) {
	path := writeLog(t,
		"2026-08-21 09:30:00 INFO starting feed for spx_complex",
		"2026-08-21 09:30:01 INFO connected to data source",
		"2026-08-21 09:31:00 INFO wrote 42 snapshots",
	)
	ex, err := Classify(path)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if !ex.Empty() {
		t.Errorf("clean log classified as faulty: %+v", ex)
	}
	if got := ex.Summary(); !strings.Contains(got, "no known fault") {
		t.Errorf("Summary = %q", got)
	}
	if len(ex.Tail) != 3 {
		t.Errorf("Tail = %v", ex.Tail)
	}
}

func TestClassifyFaultAndCategories(t *testing.T) {
	path := writeLog(t,
		"INFO polling",
		"Traceback (most recent call last):",
		`  File "core/live_feed_manager.py", line 88, in connect`,
		"ConnectionRefusedError: [Errno 111] Connection refused",
	)
	ex, err := Classify(path)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if !ex.Fault {
		t.Error("stack-trace marker not detected")
	}
	if len(ex.Matches) != 1 || ex.Matches[0].Category != "connection-refused" {
		t.Fatalf("Matches = %+v", ex.Matches)
	}
	// The same line matching two patterns of one category counts once.
	if len(ex.Matches[0].Lines) != 1 {
		t.Errorf("Lines = %v", ex.Matches[0].Lines)
	}
	sum := ex.Summary()
	if !strings.Contains(sum, "unhandled fault") || !strings.Contains(sum, "connection-refused") {
		t.Errorf("Summary = %q", sum)
	}
}

func TestClassifyMultipleCategories(t *testing.T) {
	path := writeLog(t,
		"KeyError: 'spx_complex'",
		"FileNotFoundError: [Errno 2] No such file or directory: 'data/snap.json'",
	)
	ex, err := Classify(path)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if ex.Fault {
		t.Error("fault flagged without marker")
	}
	if len(ex.Matches) != 2 {
		t.Fatalf("Matches = %+v", ex.Matches)
	}
	// Categories order is stable.
	if ex.Matches[0].Category != "missing-resource" || ex.Matches[1].Category != "missing-key" {
		t.Errorf("category order = %s, %s", ex.Matches[0].Category, ex.Matches[1].Category)
	}
}

func TestClassifyCapsMatchesPerCategory(t *testing.T) {
	var lines []string
	for i := 0; i < 8; i++ {
		lines = append(lines, fmt.Sprintf("RuntimeError: failure %d", i))
	}
	ex, err := Classify(writeLog(t, lines...))
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if len(ex.Matches) != 1 {
		t.Fatalf("Matches = %+v", ex.Matches)
	}
	got := ex.Matches[0].Lines
	if len(got) != 3 {
		t.Fatalf("got %d lines, want 3", len(got))
	}
	// The last matches win, not the first.
	if got[2] != "RuntimeError: failure 7" {
		t.Errorf("last surfaced line = %q", got[2])
	}
}

func TestClassifyIgnoresOldContent(t *testing.T) {
	// Fault signatures beyond the trailing window are not classified.
	var lines []string
	lines = append(lines, "RuntimeError: ancient history")
	for i := 0; i < 60; i++ {
		lines = append(lines, fmt.Sprintf("INFO tick %d", i))
	}
	ex, err := Classify(writeLog(t, lines...))
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if !ex.Empty() {
		t.Errorf("stale signature classified: %+v", ex.Matches)
	}
}
