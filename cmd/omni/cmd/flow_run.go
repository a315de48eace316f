package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/omni-stack/omni/internal/chain"
	engerrors "github.com/omni-stack/omni/internal/errors"
	"github.com/omni-stack/omni/internal/expand"
	"github.com/omni-stack/omni/internal/orchestrator"
	"github.com/omni-stack/omni/internal/render"
)

var flowRunCmd = &cobra.Command{
	Use:   "run <name> [arg]...",
	Short: "Run a stored flow",
	Long: `Substitute the given arguments into the flow's $1..$N placeholders and
run its commands as one chain, in stored order.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFlowRun,
}

var (
	flowRunRetry  int
	flowRunDryRun bool
	flowRunJSON   bool
)

func init() {
	flowRunCmd.Flags().IntVar(&flowRunRetry, "retry", -1, "retries per failing step (default from config)")
	flowRunCmd.Flags().BoolVarP(&flowRunDryRun, "dry-run", "n", false, "preview the execution plan without spawning any process")
	flowRunCmd.Flags().BoolVar(&flowRunJSON, "json", false, "emit the structured result list instead of progress output")
	flowCmd.AddCommand(flowRunCmd)
}

func runFlowRun(cmd *cobra.Command, args []string) error {
	cfg, home, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openFlowStore(cfg, home)
	if err != nil {
		return err
	}

	f, err := store.Get(args[0])
	if err != nil {
		return err
	}

	retry := flowRunRetry
	if retry < 0 {
		retry = cfg.Defaults.Retry
	}

	steps := chain.Parse(expand.All(f.Render(args[1:])))
	if len(steps) == 0 {
		return engerrors.Newf(engerrors.CodeChainEmpty, "flow %q produced no steps", f.Name)
	}

	renderer := render.New(os.Stdout, flowRunJSON)
	renderer.DryRun = flowRunDryRun

	report := executeSteps(cmd.Context(), cfg, steps, orchestrator.Options{
		DryRun: flowRunDryRun,
		Retry:  retry,
	}, false, flowRunJSON, renderer)

	if err := renderer.ChainReport(report); err != nil {
		return err
	}
	if !report.Success {
		return fmt.Errorf("flow %q: %d of %d command(s) failed", f.Name, report.Failed(), len(report.Results))
	}
	return nil
}
