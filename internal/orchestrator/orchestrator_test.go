package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/goleak"

	"github.com/shaiso/Stagehand/internal/config"
	"github.com/shaiso/Stagehand/internal/domain"
	"github.com/shaiso/Stagehand/internal/pipeline"
	"github.com/shaiso/Stagehand/internal/resources"
	"github.com/shaiso/Stagehand/internal/telemetry"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// lineIndex возвращает номер первой строки, содержащей все подстроки, или -1.
func lineIndex(out string, substrs ...string) int {
	for i, line := range strings.Split(out, "\n") {
		found := true
		for _, sub := range substrs {
			if !strings.Contains(line, sub) {
				found = false
				break
			}
		}
		if found {
			return i
		}
	}
	return -1
}

func textLogger(buf *bytes.Buffer) *slog.Logger {
	return telemetry.NewLogger(buf, "text", slog.LevelInfo)
}

// countingRunner считает вызовы Run и Close.
type countingRunner struct {
	runs   int
	closes int
	err    error
}

func (r *countingRunner) Run(context.Context) error {
	r.runs++
	return r.err
}

func (r *countingRunner) Close() error {
	r.closes++
	return nil
}

func runnerFactory(r *countingRunner) RunnerFactory {
	return func(context.Context, domain.Configuration, *resources.Set) (pipeline.Runner, error) {
		return r, nil
	}
}

// failingDatabases — реестр, в котором драйвер "none" всегда падает.
func failingDatabases(cause error) *resources.Registry[resources.DatabaseFactory] {
	r := resources.NewRegistry[resources.DatabaseFactory]()
	r.Register("none", func(context.Context, domain.DatabaseConfig, *slog.Logger) (resources.Database, error) {
		return nil, cause
	})
	return r
}

// staticInitializer возвращает заранее созданный Set.
type staticInitializer struct {
	set   *resources.Set
	calls int
}

func (i *staticInitializer) Initialize(context.Context, domain.Configuration) (*resources.Set, error) {
	i.calls++
	return i.set, nil
}

func TestOrchestrator_DefaultRun(t *testing.T) {
	var buf bytes.Buffer
	logger := textLogger(&buf)
	metrics := telemetry.NewMetrics()

	o := New(Config{
		Provider:    config.NewStatic(config.Defaults()),
		Initializer: resources.NewBootstrapper(resources.Config{Metrics: metrics}),
		NewRunner: func(ctx context.Context, cfg domain.Configuration, set *resources.Set) (pipeline.Runner, error) {
			return pipeline.NewBuilder(pipeline.BuilderConfig{Metrics: metrics}).Build(ctx, cfg, set)
		},
		Logger:  logger,
		Metrics: metrics,
	})

	if err := o.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if o.State() != domain.StateDone {
		t.Errorf("expected DONE, got %s", o.State())
	}

	out := buf.String()
	runID := "run_id=" + o.Report().ID.String()
	lines := []int{
		lineIndex(out, `msg="starting run"`, runID),
		lineIndex(out, `msg="connecting database"`, "addr=localhost:5432", runID),
		lineIndex(out, `msg="database ready"`, runID),
		lineIndex(out, `msg="cache initialized"`, "ttl=3600s", runID),
		lineIndex(out, `msg="results saved"`, "result=processed_data", runID),
		lineIndex(out, `msg="run completed"`, runID),
	}
	for i, line := range lines {
		if line < 0 {
			t.Fatalf("status line %d missing in output:\n%s", i, out)
		}
		if i > 0 && line <= lines[i-1] {
			t.Errorf("status line %d out of order in output:\n%s", i, out)
		}
	}

	if got := testutil.ToFloat64(metrics.Runs.WithLabelValues("done")); got != 1 {
		t.Errorf("expected runs_total{done} 1, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.ResultsPersisted.WithLabelValues("log")); got != 1 {
		t.Errorf("expected results_persisted{log} 1, got %v", got)
	}
	if got := testutil.CollectAndCount(metrics.StageDuration); got != 3 {
		t.Errorf("expected 3 stage duration series, got %d", got)
	}
}

func TestOrchestrator_DatabaseFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := textLogger(&buf)
	metrics := telemetry.NewMetrics()
	cause := errors.New("connection refused")
	runner := &countingRunner{}

	o := New(Config{
		Provider: config.NewStatic(config.Defaults()),
		Initializer: resources.NewBootstrapper(resources.Config{
			Databases: failingDatabases(cause),
			Logger:    logger,
		}),
		NewRunner: runnerFactory(runner),
		Logger:    logger,
		Metrics:   metrics,
	})

	err := o.Run(context.Background())

	var initErr *resources.InitError
	if !errors.As(err, &initErr) {
		t.Fatalf("expected *resources.InitError, got %T: %v", err, err)
	}
	if initErr.Subsystem != resources.SubsystemDatabase {
		t.Errorf("expected database subsystem, got %s", initErr.Subsystem)
	}
	if !errors.Is(err, cause) {
		t.Error("error should unwrap to cause")
	}

	if runner.runs != 0 {
		t.Errorf("pipeline must not run, got %d calls", runner.runs)
	}
	if o.State() != domain.StateFailed {
		t.Errorf("expected FAILED, got %s", o.State())
	}

	report := o.Report()
	if report.FailedStage != domain.StageResources {
		t.Errorf("expected failed stage resources, got %s", report.FailedStage)
	}
	if report.Error != "init database: connection refused" {
		t.Errorf("unexpected report error: %s", report.Error)
	}

	out := buf.String()
	if lineIndex(out, "level=ERROR", `msg="run failed"`, "stage=resources") < 0 {
		t.Errorf("expected error line, got:\n%s", out)
	}
	if strings.Contains(out, "cache initialized") {
		t.Error("cache must not be initialized after database failure")
	}
	if got := testutil.ToFloat64(metrics.Runs.WithLabelValues("failed")); got != 1 {
		t.Errorf("expected runs_total{failed} 1, got %v", got)
	}
}

func TestOrchestrator_ConfigFailure(t *testing.T) {
	cfg := config.Defaults()
	cfg.Database.Port = 0

	initializer := &staticInitializer{set: &resources.Set{}}
	runner := &countingRunner{}
	o := New(Config{
		Provider:    config.NewStatic(cfg),
		Initializer: initializer,
		NewRunner:   runnerFactory(runner),
		Logger:      telemetry.Discard(),
	})

	err := o.Run(context.Background())

	var cfgErr *config.Error
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *config.Error, got %T: %v", err, err)
	}
	if initializer.calls != 0 || runner.runs != 0 {
		t.Errorf("later stages must not run (init=%d, runs=%d)", initializer.calls, runner.runs)
	}
	if o.Report().FailedStage != domain.StageConfig {
		t.Errorf("expected failed stage config, got %s", o.Report().FailedStage)
	}
}

func TestOrchestrator_PersistFailure(t *testing.T) {
	cache := resources.NewMemoryCache(0, nil)
	persistErr := &pipeline.PersistError{Sink: "log", Cause: errors.New("rejected")}
	runner := &countingRunner{err: persistErr}

	o := New(Config{
		Provider:    config.NewStatic(config.Defaults()),
		Initializer: &staticInitializer{set: &resources.Set{Cache: cache}},
		NewRunner:   runnerFactory(runner),
		Logger:      telemetry.Discard(),
	})

	err := o.Run(context.Background())

	if err != persistErr {
		t.Errorf("expected the same error value, got %v", err)
	}
	if o.State() != domain.StateFailed {
		t.Errorf("expected FAILED, got %s", o.State())
	}
	if o.Report().FailedStage != domain.StagePipeline {
		t.Errorf("expected failed stage pipeline, got %s", o.Report().FailedStage)
	}
	if runner.closes != 1 {
		t.Errorf("expected runner closed once, got %d", runner.closes)
	}

	// Ресурсы освобождены и при ошибке pipeline.
	if _, _, err := cache.Get(context.Background(), "k"); !errors.Is(err, resources.ErrClosed) {
		t.Errorf("expected cache to be closed, got %v", err)
	}
}

func TestOrchestrator_RunnerFactoryFailure(t *testing.T) {
	buildErr := &pipeline.PersistError{Sink: "kafka", Cause: resources.ErrUnknownDriver}
	o := New(Config{
		Provider:    config.NewStatic(config.Defaults()),
		Initializer: &staticInitializer{set: &resources.Set{}},
		NewRunner: func(context.Context, domain.Configuration, *resources.Set) (pipeline.Runner, error) {
			return nil, buildErr
		},
		Logger: telemetry.Discard(),
	})

	if err := o.Run(context.Background()); err != buildErr {
		t.Errorf("expected build error, got %v", err)
	}
	if o.State() != domain.StateFailed {
		t.Errorf("expected FAILED, got %s", o.State())
	}
}

func TestOrchestrator_ReleasesResourcesOnSuccess(t *testing.T) {
	cache := resources.NewMemoryCache(0, nil)
	o := New(Config{
		Provider:    config.NewStatic(config.Defaults()),
		Initializer: &staticInitializer{set: &resources.Set{Cache: cache}},
		NewRunner:   runnerFactory(&countingRunner{}),
		Logger:      telemetry.Discard(),
	})

	if err := o.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, _, err := cache.Get(context.Background(), "k"); !errors.Is(err, resources.ErrClosed) {
		t.Errorf("expected cache to be closed, got %v", err)
	}
}

func TestOrchestrator_SecondRun(t *testing.T) {
	runner := &countingRunner{}
	o := New(Config{
		Provider:    config.NewStatic(config.Defaults()),
		Initializer: &staticInitializer{set: &resources.Set{}},
		NewRunner:   runnerFactory(runner),
		Logger:      telemetry.Discard(),
	})

	if err := o.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := o.Run(context.Background()); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("expected ErrAlreadyStarted, got %v", err)
	}
	if runner.runs != 1 {
		t.Errorf("expected 1 pipeline run, got %d", runner.runs)
	}
}

func TestOrchestrator_Transitions(t *testing.T) {
	o := New(Config{
		Provider:    config.NewStatic(config.Defaults()),
		Initializer: &staticInitializer{set: &resources.Set{}},
		NewRunner:   runnerFactory(&countingRunner{}),
		Logger:      telemetry.Discard(),
	})

	if o.State() != domain.StateIdle {
		t.Errorf("expected IDLE before run, got %s", o.State())
	}

	if err := o.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got []string
	for _, tr := range o.Transitions() {
		got = append(got, tr.String())
	}
	want := []string{"IDLE → INITIALIZING", "INITIALIZING → RUNNING", "RUNNING → DONE"}
	if strings.Join(got, ", ") != strings.Join(want, ", ") {
		t.Errorf("expected %v, got %v", want, got)
	}

	report := o.Report()
	if report.StartedAt == nil || report.FinishedAt == nil {
		t.Error("report should have start and finish times")
	}
}

func TestOrchestrator_FailedTransitions(t *testing.T) {
	o := New(Config{
		Provider: config.NewStatic(config.Defaults()),
		Initializer: resources.NewBootstrapper(resources.Config{
			Databases: failingDatabases(errors.New("down")),
			Logger:    telemetry.Discard(),
		}),
		NewRunner: runnerFactory(&countingRunner{}),
		Logger:    telemetry.Discard(),
	})

	_ = o.Run(context.Background())

	tr := o.Transitions()
	if len(tr) != 2 {
		t.Fatalf("expected 2 transitions, got %d", len(tr))
	}
	if tr[1].From != domain.StateInitializing || tr[1].To != domain.StateFailed {
		t.Errorf("expected INITIALIZING → FAILED, got %s", tr[1])
	}
}

func TestOrchestrator_MissingDependencies(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{"no provider", Config{}, ErrNoProvider},
		{"no initializer", Config{Provider: config.NewStatic(config.Defaults())}, ErrNoInitializer},
		{"no runner", Config{
			Provider:    config.NewStatic(config.Defaults()),
			Initializer: &staticInitializer{},
		}, ErrNoRunner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.Logger = telemetry.Discard()
			o := New(tt.cfg)
			if err := o.Run(context.Background()); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
			if o.State() != domain.StateIdle {
				t.Errorf("expected IDLE, got %s", o.State())
			}
		})
	}
}

func TestTransition_Invalid(t *testing.T) {
	o := New(Config{Logger: telemetry.Discard()})

	err := o.setState(domain.StateDone)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
	if len(o.Transitions()) != 0 {
		t.Error("invalid transition must not be recorded")
	}
}
