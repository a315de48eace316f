// Package cmd implements the omni command-line surface for the chain, flow
// and pipe engine.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/omni-stack/omni/internal/config"
	"github.com/omni-stack/omni/internal/executor"
	"github.com/omni-stack/omni/internal/flow"
	"github.com/omni-stack/omni/internal/logging"
)

var (
	// Version is set at build time via ldflags.
	Version = "dev"

	// Global flags
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "omni",
	Short: "omni - one command line for your calendar, messages, issues and decks",
	Long: `omni is a multi-service assistant CLI. Besides its service commands it
speaks a small orchestration language: chain sub-commands with &&, || and |,
expand {a,b} and {1..5} patterns, retry failing steps with backoff, store
named flows, and iterate over any command's JSON output with
select/filter/each pipelines.

Examples:
  omni run "cal today && msg send --to team 'standup in 5'"
  omni run "deck export q{1..4}-review"
  omni pipe "issues list" --filter "status == 'open'" --each "issues close {{id}}"
  omni flow run morning`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("omni {{.Version}}\n")

	cobra.OnInitialize(setupLogging)
}

// setupLogging installs the default logger before any command runs.
func setupLogging() {
	if verbose {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
		return
	}
	slog.SetDefault(logging.NewDefault())
}

// loadConfig resolves the omni home directory and loads the layered config.
func loadConfig() (*config.Config, string, error) {
	home, err := config.HomeDir()
	if err != nil {
		return nil, "", err
	}
	cfg, err := config.LoadFromHome(home)
	if err != nil {
		return nil, "", err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("invalid config: %w", err)
	}
	return cfg, home, nil
}

// newStepExecutor builds the step executor for a run. In JSON mode
// subprocess stdout is diverted to stderr so the report is the only thing
// on stdout.
func newStepExecutor(cfg *config.Config, jsonMode bool) *executor.StepExecutor {
	exec := executor.New()
	if cfg.Defaults.Binary != "" {
		exec.Binary = cfg.Defaults.Binary
	}
	if jsonMode {
		exec.Stdout = os.Stderr
	}
	return exec
}

// openFlowStore opens the YAML flow store under the omni home directory.
func openFlowStore(cfg *config.Config, home string) (flow.Store, error) {
	return flow.NewYAMLStore(cfg.FlowsDir(home))
}
