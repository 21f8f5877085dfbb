package telemetry

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"DEBUG": slog.LevelDebug,
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"ERROR": slog.LevelError,
		"":      slog.LevelInfo,
		"other": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q): expected %v, got %v", in, want, got)
		}
	}
}

func TestNewLogger_Formats(t *testing.T) {
	var text bytes.Buffer
	NewLogger(&text, "text", slog.LevelInfo).Info("hello", "k", "v")
	if !strings.Contains(text.String(), "msg=hello") || !strings.Contains(text.String(), "k=v") {
		t.Errorf("unexpected text output: %s", text.String())
	}

	var js bytes.Buffer
	NewLogger(&js, "json", slog.LevelInfo).Info("hello", "k", "v")
	if !strings.Contains(js.String(), `"msg":"hello"`) {
		t.Errorf("unexpected json output: %s", js.String())
	}

	var filtered bytes.Buffer
	NewLogger(&filtered, "text", slog.LevelWarn).Info("hidden")
	if filtered.Len() != 0 {
		t.Errorf("info should be filtered at WARN: %s", filtered.String())
	}
}

func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "text", slog.LevelInfo)

	ctx := WithLogger(context.Background(), logger)
	if FromContext(ctx) != logger {
		t.Error("FromContext should return stored logger")
	}
	if FromContext(context.Background()) != slog.Default() {
		t.Error("FromContext should fall back to default logger")
	}

	id := uuid.New()
	WithRunID(logger, id).Info("x")
	if !strings.Contains(buf.String(), "run_id="+id.String()) {
		t.Errorf("run_id missing: %s", buf.String())
	}
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()

	m.RunFinished(OutcomeDone)
	m.RunFinished(OutcomeFailed)
	m.RunFinished(OutcomeFailed)
	m.ResourceReady("database", "none")
	m.ResultPersisted("log")
	m.ObserveStage("config", time.Now())

	if got := testutil.ToFloat64(m.Runs.WithLabelValues("failed")); got != 2 {
		t.Errorf("expected 2 failed runs, got %v", got)
	}
	if got := testutil.ToFloat64(m.Runs.WithLabelValues("done")); got != 1 {
		t.Errorf("expected 1 done run, got %v", got)
	}
	if got := testutil.ToFloat64(m.ResourcesInitialized.WithLabelValues("database", "none")); got != 1 {
		t.Errorf("expected 1 database init, got %v", got)
	}
	if got := testutil.CollectAndCount(m.StageDuration); got != 1 {
		t.Errorf("expected 1 stage series, got %d", got)
	}
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.RunFinished(OutcomeDone)
	m.ResourceReady("cache", "memory")
	m.ResultPersisted("log")
	m.ObserveStage("config", time.Now())
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := NewMetrics()
	m.RunFinished(OutcomeDone)

	path := filepath.Join(t.TempDir(), "stagehand.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	if !strings.Contains(string(data), `stagehand_runs_total{outcome="done"} 1`) {
		t.Errorf("textfile missing runs_total: %s", data)
	}
}
