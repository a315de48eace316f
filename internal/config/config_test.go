package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Version != "1" {
		t.Errorf("version = %q", cfg.Version)
	}
	if cfg.Paths.FlowsDir != "flows" {
		t.Errorf("flows_dir = %q", cfg.Paths.FlowsDir)
	}
	if cfg.Logging.Level != LogLevelInfo || cfg.Logging.Format != LogFormatText {
		t.Errorf("logging defaults = %+v", cfg.Logging)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults invalid: %v", err)
	}
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Paths.FlowsDir != "flows" {
		t.Errorf("flows_dir = %q, want default", cfg.Paths.FlowsDir)
	}
}

func TestLoad_MergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
version = "1"

[defaults]
retry = 2

[logging]
level = "debug"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Defaults.Retry != 2 {
		t.Errorf("retry = %d", cfg.Defaults.Retry)
	}
	if cfg.Logging.Level != LogLevelDebug {
		t.Errorf("level = %q", cfg.Logging.Level)
	}
	// Untouched keys keep their defaults.
	if cfg.Paths.FlowsDir != "flows" {
		t.Errorf("flows_dir = %q", cfg.Paths.FlowsDir)
	}
}

func TestLoad_MalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("version = [unclosed"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("malformed TOML accepted")
	}
}

func TestHomeDir_EnvOverride(t *testing.T) {
	t.Setenv("OMNI_HOME", "/custom/omni-home")
	dir, err := HomeDir()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir != "/custom/omni-home" {
		t.Errorf("home = %q", dir)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Defaults.Retry = -1
	if err := cfg.Validate(); err == nil {
		t.Error("negative retry accepted")
	}

	cfg = Default()
	cfg.Paths.FlowsDir = ""
	if err := cfg.Validate(); err == nil {
		t.Error("empty flows_dir accepted")
	}
}

func TestPathResolution(t *testing.T) {
	cfg := Default()
	if got := cfg.FlowsDir("/home/u/.omni"); got != "/home/u/.omni/flows" {
		t.Errorf("FlowsDir = %q", got)
	}
	cfg.Paths.FlowsDir = "/abs/flows"
	if got := cfg.FlowsDir("/home/u/.omni"); got != "/abs/flows" {
		t.Errorf("absolute FlowsDir = %q", got)
	}

	if got := cfg.LogFile("/home/u/.omni"); got != "" {
		t.Errorf("LogFile with no file = %q", got)
	}
	cfg.Logging.File = "engine.log"
	if got := cfg.LogFile("/home/u/.omni"); got != "/home/u/.omni/logs/engine.log" {
		t.Errorf("LogFile = %q", got)
	}
}
