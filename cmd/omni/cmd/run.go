package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/omni-stack/omni/internal/chain"
	"github.com/omni-stack/omni/internal/config"
	engerrors "github.com/omni-stack/omni/internal/errors"
	"github.com/omni-stack/omni/internal/executor"
	"github.com/omni-stack/omni/internal/expand"
	"github.com/omni-stack/omni/internal/orchestrator"
	"github.com/omni-stack/omni/internal/render"
	"github.com/omni-stack/omni/internal/types"
)

var runCmd = &cobra.Command{
	Use:   "run <command>...",
	Short: "Run one or more command chains",
	Long: `Run omni sub-commands as a chain. Within one argument, && runs the next
command only on success, || only on failure, and | pipes the previous
command's output into the next. {a,b,c} and {1..5} brace patterns expand
before the chain is parsed.

Each argument is an independent chain segment: condition and pipe state
never carry across arguments.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

var (
	runRetry    int
	runParallel bool
	runDryRun   bool
	runJSON     bool
)

func init() {
	runCmd.Flags().IntVar(&runRetry, "retry", -1, "retries per failing step (default from config)")
	runCmd.Flags().BoolVar(&runParallel, "parallel", false, "run all steps concurrently, ignoring conditions and pipes")
	runCmd.Flags().BoolVarP(&runDryRun, "dry-run", "n", false, "preview the execution plan without spawning any process")
	runCmd.Flags().BoolVar(&runJSON, "json", false, "emit the structured result list instead of progress output")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	retry := runRetry
	if retry < 0 {
		retry = cfg.Defaults.Retry
	}

	steps := chain.Parse(expand.All(args))
	if len(steps) == 0 {
		return engerrors.New(engerrors.CodeChainEmpty, "nothing to run")
	}

	renderer := render.New(os.Stdout, runJSON)
	renderer.DryRun = runDryRun

	report := executeSteps(cmd.Context(), cfg, steps, orchestrator.Options{
		DryRun: runDryRun,
		Retry:  retry,
	}, runParallel, runJSON, renderer)

	if err := renderer.ChainReport(report); err != nil {
		return err
	}
	if !report.Success {
		return fmt.Errorf("%d of %d command(s) failed", report.Failed(), len(report.Results))
	}
	return nil
}

// executeSteps drives a step list through the sequential or parallel
// orchestrator and wraps the results in a report. Shared by run and flow
// run.
func executeSteps(ctx context.Context, cfg *config.Config, steps []types.Step, opts orchestrator.Options, parallel, jsonMode bool, renderer *render.Renderer) *types.ChainReport {
	exec := newStepExecutor(cfg, jsonMode)
	retryCtl := executor.NewRetryController(exec)

	started := time.Now()
	var results []types.ExecutionResult
	if parallel {
		o := orchestrator.NewParallel(retryCtl)
		o.Progress = renderer
		results = o.Run(ctx, steps, opts)
	} else {
		o := orchestrator.NewSequential(retryCtl)
		o.Progress = renderer
		results = o.Run(ctx, steps, opts)
	}
	return orchestrator.NewChainReport(results, started)
}
