// Package config loads omni engine configuration from TOML files.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// LogLevel specifies the logging verbosity.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// LogFormat specifies the log output format.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

// PathsConfig holds path configuration, relative to the omni home directory
// unless absolute.
type PathsConfig struct {
	FlowsDir string `toml:"flows_dir"`
	LogsDir  string `toml:"logs_dir"`
}

// DefaultsConfig holds execution defaults applied when flags are absent.
type DefaultsConfig struct {
	// Retry is the default per-step retry budget for chain runs.
	Retry int `toml:"retry"`

	// Binary overrides the entry point spawned for each step. Empty means
	// the running executable.
	Binary string `toml:"binary"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  LogLevel  `toml:"level"`
	Format LogFormat `toml:"format"`
	File   string    `toml:"file"`
}

// Config is the main configuration struct for the omni engine.
type Config struct {
	Version  string         `toml:"version"`
	Paths    PathsConfig    `toml:"paths"`
	Defaults DefaultsConfig `toml:"defaults"`
	Logging  LoggingConfig  `toml:"logging"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Version: "1",
		Paths: PathsConfig{
			FlowsDir: "flows",
			LogsDir:  "logs",
		},
		Defaults: DefaultsConfig{
			Retry: 0,
		},
		Logging: LoggingConfig{
			Level:  LogLevelInfo,
			Format: LogFormatText,
		},
	}
}

// Load loads configuration from one file, merging with defaults. A missing
// file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// LoadFromHome loads configuration layered over defaults from the omni home
// directory (config.toml inside homeDir).
func LoadFromHome(homeDir string) (*Config, error) {
	return Load(filepath.Join(homeDir, "config.toml"))
}

// HomeDir returns the omni home directory: $OMNI_HOME when set, otherwise
// ~/.omni.
func HomeDir() (string, error) {
	if dir := os.Getenv("OMNI_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".omni"), nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Version == "" {
		return fmt.Errorf("config version is required")
	}
	if c.Paths.FlowsDir == "" {
		return fmt.Errorf("flows_dir is required")
	}
	if c.Defaults.Retry < 0 {
		return fmt.Errorf("retry must not be negative")
	}
	return nil
}

// FlowsDir returns the absolute flows directory path.
func (c *Config) FlowsDir(homeDir string) string {
	if filepath.IsAbs(c.Paths.FlowsDir) {
		return c.Paths.FlowsDir
	}
	return filepath.Join(homeDir, c.Paths.FlowsDir)
}

// LogFile returns the absolute log file path, or empty when file logging is
// off.
func (c *Config) LogFile(homeDir string) string {
	if c.Logging.File == "" {
		return ""
	}
	if filepath.IsAbs(c.Logging.File) {
		return c.Logging.File
	}
	return filepath.Join(homeDir, c.Paths.LogsDir, c.Logging.File)
}
