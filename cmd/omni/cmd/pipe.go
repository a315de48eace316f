package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/omni-stack/omni/internal/pipeline"
	"github.com/omni-stack/omni/internal/render"
)

var pipeCmd = &cobra.Command{
	Use:   "pipe <source command>",
	Short: "Iterate over a command's JSON output",
	Long: `Run a source command with --json appended, select a sub-tree of its
output, optionally narrow it with a filter expression, and either print the
surviving items or run a command template once per item.

The select path supports dot keys, [N] indices and the [*] wildcard:
  omni pipe "issues list" --select "items[*].id"

The filter grammar supports ==, !=, <, >, <=, >=, and/or/not, and the
case-insensitive string tests contains, startsWith and endsWith. Record
fields bind as variables; scalars bind as "value":
  --filter "status == 'open' and not title contains 'wip'"

The per-item template substitutes {{field}}, {{nested.field}}, {{.}} or
{{value}} for the item itself, and {{index}} for its position:
  --each "issues close {{id}}"

For selections the path grammar cannot express, --jq accepts a jq
expression instead of --select.`,
	Args: cobra.ExactArgs(1),
	RunE: runPipe,
}

var (
	pipeSelect string
	pipeFilter string
	pipeEach   string
	pipeQuery  string
	pipeDryRun bool
	pipeJSON   bool
)

func init() {
	pipeCmd.Flags().StringVar(&pipeSelect, "select", "", "path into the source's JSON output")
	pipeCmd.Flags().StringVar(&pipeFilter, "filter", "", "boolean expression applied to each item")
	pipeCmd.Flags().StringVar(&pipeEach, "each", "", "command template run once per surviving item")
	pipeCmd.Flags().StringVar(&pipeQuery, "jq", "", "jq expression used instead of --select")
	pipeCmd.Flags().BoolVarP(&pipeDryRun, "dry-run", "n", false, "preview without spawning any process")
	pipeCmd.Flags().BoolVar(&pipeJSON, "json", false, "emit the structured report instead of progress output")
	rootCmd.AddCommand(pipeCmd)
}

func runPipe(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	if pipeQuery != "" && pipeSelect != "" {
		return fmt.Errorf("--select and --jq are mutually exclusive")
	}

	renderer := render.New(os.Stdout, pipeJSON)
	renderer.DryRun = pipeDryRun

	p := pipeline.New(newStepExecutor(cfg, pipeJSON))
	p.Progress = renderer

	report, err := p.Run(cmd.Context(), args[0], pipeline.Options{
		Select: pipeSelect,
		Query:  pipeQuery,
		Filter: pipeFilter,
		Each:   pipeEach,
		DryRun: pipeDryRun,
	})
	if err != nil {
		return err
	}

	if err := renderer.PipeReport(report); err != nil {
		return err
	}
	if !report.Success {
		return fmt.Errorf("pipeline failed")
	}
	return nil
}
