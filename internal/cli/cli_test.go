package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shaiso/Stagehand/internal/config"
	"github.com/shaiso/Stagehand/internal/resources"
)

// execute запускает корневую команду и возвращает stdout и stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("LOG_LEVEL", "INFO")

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd("1.2.3", nil)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stagehand.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
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

func TestVersionCmd(t *testing.T) {
	stdout, _, err := execute(t, "version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(stdout) != "stagehand 1.2.3" {
		t.Errorf("unexpected output: %q", stdout)
	}
}

func TestRootCmd_DefaultRun(t *testing.T) {
	for _, args := range [][]string{{}, {"run"}} {
		stdout, stderr, err := execute(t, args...)
		if err != nil {
			t.Fatalf("%v: unexpected error: %v", args, err)
		}
		if stdout != "" {
			t.Errorf("%v: run should not write to stdout, got %q", args, stdout)
		}

		db := lineIndex(stderr, `msg="connecting database"`, "addr=localhost:5432")
		cache := lineIndex(stderr, `msg="cache initialized"`, "ttl=3600s")
		saved := lineIndex(stderr, `msg="results saved"`, "result=processed_data")
		if db < 0 || cache <= db || saved <= cache {
			t.Errorf("%v: unexpected status lines:\n%s", args, stderr)
		}
	}
}

func TestRunCmd_InitFailure(t *testing.T) {
	t.Setenv("STAGEHAND_DATABASE_DRIVER", "mysql")

	_, stderr, err := execute(t, "run")

	var initErr *resources.InitError
	if !errors.As(err, &initErr) {
		t.Fatalf("expected *resources.InitError, got %T: %v", err, err)
	}
	if !errors.Is(err, resources.ErrUnknownDriver) {
		t.Errorf("expected ErrUnknownDriver, got %v", err)
	}
	if lineIndex(stderr, "level=ERROR", `msg="run failed"`, "stage=resources") < 0 {
		t.Errorf("expected failure line:\n%s", stderr)
	}
}

func TestRunCmd_ConfigFailure(t *testing.T) {
	path := writeConfig(t, "database:\n  port: 70000\n")

	_, _, err := execute(t, "--config", path)

	if !errors.Is(err, config.ErrInvalid) {
		t.Errorf("expected config error, got %v", err)
	}
}

func TestRunCmd_MetricsTextfile(t *testing.T) {
	textfile := filepath.Join(t.TempDir(), "stagehand.prom")
	path := writeConfig(t, "metrics:\n  textfile: "+textfile+"\n")

	if _, _, err := execute(t, "run", "--config", path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(textfile)
	if err != nil {
		t.Fatalf("metrics file not written: %v", err)
	}
	for _, want := range []string{
		`stagehand_runs_total{outcome="done"} 1`,
		`stagehand_results_persisted_total{sink="log"} 1`,
		`stagehand_resources_initialized_total{driver="memory",subsystem="cache"} 1`,
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("metrics should contain %q:\n%s", want, data)
		}
	}
}

func TestConfigCmd(t *testing.T) {
	path := writeConfig(t, "database:\n  host: db.internal\n  password: hunter2\ncache:\n  ttl_seconds: 60\n")

	stdout, _, err := execute(t, "config", "--config", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{"host: db.internal", "ttl_seconds: 60", "sink: log"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output should contain %q:\n%s", want, stdout)
		}
	}
	if strings.Contains(stdout, "hunter2") {
		t.Errorf("password should be masked:\n%s", stdout)
	}
}

func TestConfigCmd_MissingFile(t *testing.T) {
	_, _, err := execute(t, "config", "--config", filepath.Join(t.TempDir(), "missing.yaml"))

	var cfgErr *config.Error
	if !errors.As(err, &cfgErr) || cfgErr.Field != "file" {
		t.Errorf("expected file config error, got %v", err)
	}
}

func TestRootCmd_RejectsArgs(t *testing.T) {
	if _, _, err := execute(t, "extra"); err == nil {
		t.Error("expected error for unknown argument")
	}
}
