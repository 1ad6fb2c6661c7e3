package preflight

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/chainfeed/feedctl/internal/config"
)

type stubCheck struct {
	name   string
	status Status
}

func (c stubCheck) Name() string        { return c.name }
func (c stubCheck) Description() string { return c.name }
func (c stubCheck) Run(ctx context.Context) Result {
	return Result{Name: c.name, Status: c.status}
}

func TestRunnerEvaluatesAllChecks(t *testing.T) {
	r := NewRunner(
		stubCheck{"a", StatusOK},
		stubCheck{"b", StatusError},
		stubCheck{"c", StatusWarning},
	)
	report := r.Run(context.Background())

	// Every check ran, even after the failure.
	if len(report.Results) != 3 {
		t.Fatalf("got %d results, want 3", len(report.Results))
	}
	if report.OK() {
		t.Error("report with a hard failure reported OK")
	}
	failures := report.Failures()
	if len(failures) != 1 || failures[0].Name != "b" {
		t.Errorf("Failures = %+v", failures)
	}
}

func TestReportWarningsDoNotBlock(t *testing.T) {
	report := NewRunner(stubCheck{"a", StatusWarning}).Run(context.Background())
	if !report.OK() {
		t.Error("warning-only report blocked launch")
	}
}

func TestStatusString(t *testing.T) {
	if StatusOK.String() != "ok" || StatusWarning.String() != "warning" || StatusError.String() != "error" {
		t.Error("status labels wrong")
	}
}

func TestStoreCheck(t *testing.T) {
	mr := miniredis.RunT(t)
	host, portStr, err := net.SplitHostPort(mr.Addr())
	if err != nil {
		t.Fatal(err)
	}
	port, _ := strconv.Atoi(portStr)

	check := NewStoreCheck(config.StoreConfig{Host: host, Port: port})
	res := check.Run(context.Background())
	if res.Status != StatusOK {
		t.Errorf("reachable store: %+v", res)
	}

	mr.Close()
	res = check.Run(context.Background())
	if res.Status != StatusError {
		t.Errorf("unreachable store: %+v", res)
	}
	if len(res.Details) == 0 {
		t.Error("failure carries no diagnostics")
	}
}

func TestConfigCheck(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "feed_groups.yaml")

	res := NewConfigCheck(path).Run(context.Background())
	if res.Status != StatusError {
		t.Errorf("missing registry: %+v", res)
	}

	if err := os.WriteFile(path, []byte("feeds: {}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	res = NewConfigCheck(path).Run(context.Background())
	if res.Status != StatusOK {
		t.Errorf("present registry: %+v", res)
	}

	// A directory at the path is a hard failure, not a pass.
	res = NewConfigCheck(dir).Run(context.Background())
	if res.Status != StatusError {
		t.Errorf("directory path: %+v", res)
	}
}

func TestDataDirCheck(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")

	res := NewDataDirCheck(dir).Run(context.Background())
	if res.Status != StatusWarning {
		t.Errorf("missing dir should auto-create with warning: %+v", res)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("data dir not created: %v", err)
	}

	// Second run finds it present.
	res = NewDataDirCheck(dir).Run(context.Background())
	if res.Status != StatusOK {
		t.Errorf("present dir: %+v", res)
	}
}

func TestDataDirCheckRejectsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	res := NewDataDirCheck(path).Run(context.Background())
	if res.Status != StatusError {
		t.Errorf("file at data path: %+v", res)
	}
}

func TestStandardOrder(t *testing.T) {
	cfg := config.Default(t.TempDir())
	report := Standard(cfg).Run(context.Background())
	if len(report.Results) != 3 {
		t.Fatalf("got %d results", len(report.Results))
	}
	want := []string{"coordination-store", "group-registry", "data-dir"}
	for i, name := range want {
		if report.Results[i].Name != name {
			t.Errorf("check %d = %s, want %s", i, report.Results[i].Name, name)
		}
	}
}
