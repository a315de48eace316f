// omni-sim is a stand-in service binary for exercising the engine without
// real services. Point the engine at it (defaults.binary in config.toml, or
// OMNI_SIM_CONFIG for the ruleset) and every spawned step hits the simulator
// instead of a live backend.
package main

import (
	"flag"
	"log/slog"
	"os"
	"strings"
)

var (
	configPath string
	logLevel   string
)

func init() {
	flag.StringVar(&configPath, "sim-config", "", "Path to simulator rules YAML")
	flag.StringVar(&logLevel, "sim-log-level", "warn", "Log level (debug/info/warn/error)")
}

func main() {
	flag.Parse()

	if envConfig := os.Getenv("OMNI_SIM_CONFIG"); envConfig != "" && configPath == "" {
		configPath = envConfig
	}
	if envLevel := os.Getenv("OMNI_SIM_LOG_LEVEL"); envLevel != "" {
		logLevel = envLevel
	}

	logger := setupLogger(logLevel)

	var rules RuleSet
	if configPath != "" {
		var err error
		rules, err = LoadRules(configPath)
		if err != nil {
			logger.Error("failed to load rules", "path", configPath, "error", err)
			os.Exit(1)
		}
	} else {
		rules = DefaultRules()
	}

	command := strings.Join(flag.Args(), " ")
	logger.Debug("simulator invoked", "command", command)

	sim := &Simulator{Rules: rules, Stdout: os.Stdout, Stderr: os.Stderr, Logger: logger}
	os.Exit(sim.Respond(command))
}

func setupLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
