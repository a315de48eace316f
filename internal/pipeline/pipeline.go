package pipeline

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/omni-stack/omni/internal/types"
)

// Progress receives live notifications for per-item executions.
type Progress interface {
	StepStarted(command string)
	StepFinished(result types.ExecutionResult)
}

// Executor abstracts single-command execution. The production
// implementation is executor.StepExecutor; tests inject fakes.
type Executor interface {
	Execute(ctx context.Context, command string, captureOutput bool) types.ExecutionResult
}

// Options configures one pipeline run.
type Options struct {
	// Select is the path applied to the source's JSON output. Empty means
	// identity.
	Select string

	// Query is a jq expression; when set it replaces Select.
	Query string

	// Filter keeps only items for which the expression evaluates true.
	Filter string

	// Each is the per-item command template. Empty means the terminal
	// action is emitting the surviving items.
	Each string

	// DryRun previews per-item commands without spawning any process,
	// including the source command.
	DryRun bool
}

// Pipeline extracts a JSON sub-tree from one command's output, narrows it
// with a filter expression, and optionally drives one execution per
// surviving item. It talks to the step executor directly: per-item commands
// get no retry layer.
type Pipeline struct {
	Executor Executor
	Progress Progress
	Logger   *slog.Logger
}

// New creates a pipeline around a step executor.
func New(exec Executor) *Pipeline {
	return &Pipeline{Executor: exec, Logger: slog.Default()}
}

// Run executes the source command with --json appended and output captured,
// selects and filters its items, and either emits them or runs the per-item
// template. A source failure or unparseable JSON is terminal for the whole
// run and reported as a single failing result; per-item failures are
// recorded and never abort the run.
func (p *Pipeline) Run(ctx context.Context, sourceCmd string, opts Options) (*types.PipeReport, error) {
	report := &types.PipeReport{RunID: uuid.NewString(), Success: true}

	sourceCommand := strings.TrimSpace(sourceCmd) + " --json"

	if opts.DryRun {
		// A dry run spawns nothing, so the source output (and with it
		// the item set) is unknown. Report the plan instead.
		if p.Progress != nil {
			p.Progress.StepStarted(sourceCommand)
			p.Progress.StepFinished(types.ExecutionResult{Command: sourceCommand, Success: true})
			if opts.Each != "" {
				p.Progress.StepStarted(opts.Each + " (per selected item)")
				p.Progress.StepFinished(types.ExecutionResult{Command: opts.Each, Success: true})
			}
		}
		return report, nil
	}

	source := p.Executor.Execute(ctx, sourceCommand, true)
	if !source.Success {
		report.Success = false
		report.Results = append(report.Results, source)
		return report, nil
	}

	var doc any
	if err := json.Unmarshal([]byte(strings.TrimSpace(source.CapturedOutput)), &doc); err != nil {
		source.Success = false
		source.Error = "source output is not valid JSON: " + err.Error()
		report.Success = false
		report.Results = append(report.Results, source)
		return report, nil
	}

	items, err := p.selectItems(ctx, doc, opts)
	if err != nil {
		return nil, err
	}
	report.ItemsProcessed = len(items)

	matched := items
	if opts.Filter != "" {
		matched = p.filterItems(items, opts.Filter)
	}
	report.ItemsMatched = len(matched)

	if opts.Each == "" {
		report.Items = matched
		for _, item := range matched {
			report.Results = append(report.Results, types.ExecutionResult{
				Command: Stringify(item),
				Success: true,
			})
		}
		return report, nil
	}

	for i, item := range matched {
		command := SubstituteTemplate(opts.Each, item, i)
		if p.Progress != nil {
			p.Progress.StepStarted(command)
		}
		result := p.Executor.Execute(ctx, command, false)
		if p.Progress != nil {
			p.Progress.StepFinished(result)
		}
		report.Results = append(report.Results, result)
		report.Success = report.Success && result.Success
	}
	return report, nil
}

// selectItems applies the jq query or the path selector.
func (p *Pipeline) selectItems(ctx context.Context, doc any, opts Options) ([]any, error) {
	if opts.Query != "" {
		return RunQuery(ctx, doc, opts.Query)
	}
	return SelectPath(doc, opts.Select)
}

// filterItems keeps matching items. The expression compiles once; a
// compile error makes every item non-matching, and a per-item evaluation
// error drops just that item.
func (p *Pipeline) filterItems(items []any, expr string) []any {
	f, err := ParseFilter(expr)
	if err != nil {
		p.logger().Debug("filter expression failed to parse", "filter", expr, "error", err)
		return nil
	}

	var matched []any
	for _, item := range items {
		ok, err := f.Eval(item)
		if err != nil {
			p.logger().Debug("filter evaluation error, dropping item", "error", err)
			continue
		}
		if ok {
			matched = append(matched, item)
		}
	}
	return matched
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}
