package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Host != defaultHost || cfg.Port != defaultPort {
		t.Fatalf("address = %s:%d, want %s:%d", cfg.Host, cfg.Port, defaultHost, defaultPort)
	}
	if cfg.RequestTimeout != defaultRequestTimeout || cfg.PollInterval != defaultPollInterval {
		t.Fatalf("durations = %v/%v, want defaults", cfg.RequestTimeout, cfg.PollInterval)
	}
	if cfg.MutationWorkers != defaultMutationWorkers {
		t.Fatalf("MutationWorkers = %d, want %d", cfg.MutationWorkers, defaultMutationWorkers)
	}

	wantLog, err := ExpandPath(defaultLogFile)
	if err != nil {
		t.Fatalf("ExpandPath(defaultLogFile) returned error: %v", err)
	}
	if cfg.LogFile != wantLog {
		t.Fatalf("LogFile = %q, want %q", cfg.LogFile, wantLog)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
host = "  127.0.0.1  "
port = 9999
request_timeout = "3s"
poll_interval = "750ms"
mutation_workers = 4
log_file = "  ~/sift/debug.log  "
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Address() != "127.0.0.1:9999" {
		t.Fatalf("Address = %q, want %q", cfg.Address(), "127.0.0.1:9999")
	}
	if cfg.BaseURL() != "http://127.0.0.1:9999" {
		t.Fatalf("BaseURL = %q", cfg.BaseURL())
	}
	if cfg.RequestTimeout != 3*time.Second || cfg.PollInterval != 750*time.Millisecond {
		t.Fatalf("durations = %v/%v, want 3s/750ms", cfg.RequestTimeout, cfg.PollInterval)
	}
	if cfg.MutationWorkers != 4 {
		t.Fatalf("MutationWorkers = %d, want 4", cfg.MutationWorkers)
	}
	if !strings.HasPrefix(cfg.LogFile, home) {
		t.Fatalf("LogFile = %q, want it under HOME %q", cfg.LogFile, home)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
host = "   "
request_timeout = ""
mutation_workers = 0
log_file = ""
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Address() != "localhost:7172" {
		t.Fatalf("Address = %q, want localhost:7172", cfg.Address())
	}
	if cfg.RequestTimeout != defaultRequestTimeout {
		t.Fatalf("RequestTimeout = %v, want %v", cfg.RequestTimeout, defaultRequestTimeout)
	}
	if cfg.MutationWorkers != defaultMutationWorkers {
		t.Fatalf("MutationWorkers = %d, want %d", cfg.MutationWorkers, defaultMutationWorkers)
	}
}

func TestLoad_InvalidValuesFail(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{"bad toml", `port = [`, "parse config"},
		{"bad duration", `request_timeout = "soon"`, "request_timeout"},
		{"bad port", `port = 70000`, "out of range"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tc.content), 0o600); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatalf("Load returned nil error, want error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("Load error = %q, want it to mention %q", err.Error(), tc.want)
			}
		})
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ExpandPath("~/a/b")
	if err != nil {
		t.Fatalf("ExpandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("ExpandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := ExpandPath("   "); err == nil {
		t.Fatalf("ExpandPath returned nil error, want error")
	}
}

func TestLogPath_DefaultsWhenUnset(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	var cfg Config
	got := cfg.LogPath()
	if !strings.HasPrefix(got, home) {
		t.Fatalf("LogPath = %q, want it under HOME %q", got, home)
	}
	if !strings.HasSuffix(got, filepath.FromSlash("/sift.log")) {
		t.Fatalf("LogPath = %q, want it to end with /sift.log", got)
	}
	if cfg.Address() != "localhost:7172" {
		t.Fatalf("zero Config Address = %q, want localhost:7172", cfg.Address())
	}
}
