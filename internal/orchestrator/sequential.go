package orchestrator

import (
	"context"
	"log/slog"
	"strings"

	"github.com/omni-stack/omni/internal/types"
)

// dryRunOutput is the placeholder captured output a dry run synthesizes in
// place of spawning a process.
const dryRunOutput = "<dry-run>"

// Options configures one orchestrator run.
type Options struct {
	// DryRun previews the execution plan without spawning any process.
	// Every step reports synthetic success.
	DryRun bool

	// Retry is the per-step retry budget, applied uniformly to every step
	// in the run.
	Retry int
}

// Progress receives live per-step notifications. Implementations render
// human-readable progress; a nil Progress suppresses it (JSON mode).
type Progress interface {
	StepStarted(command string)
	StepFinished(result types.ExecutionResult)
}

// Runner abstracts retry-wrapped step execution. The production
// implementation is executor.RetryController; tests inject fakes.
type Runner interface {
	Run(ctx context.Context, command string, retryCount int, captureOutput bool) types.ExecutionResult
}

// Sequential executes a step list strictly in order on a single goroutine.
// Later steps' eligibility and pipe input depend on the immediately
// preceding step's outcome, so each step (including retries and structured
// pipe sub-invocations) runs to completion before the next begins.
type Sequential struct {
	Runner   Runner
	Mapper   ItemMapper
	Progress Progress
	Logger   *slog.Logger
}

// NewSequential creates a sequential orchestrator around a runner.
func NewSequential(runner Runner) *Sequential {
	return &Sequential{
		Runner: runner,
		Mapper: DefaultItemMapper{},
		Logger: slog.Default(),
	}
}

// Run executes the steps and returns one result per executed step, in
// execution order. Skipped steps produce no entry. A failing step whose own
// condition is "always" aborts the chain immediately; steps reached via
// && or || never abort beyond the normal skip logic.
func (o *Sequential) Run(ctx context.Context, steps []types.Step, opts Options) []types.ExecutionResult {
	var results []types.ExecutionResult

	lastSuccess := true
	lastOutput := ""
	hasOutput := false

	for i, step := range steps {
		if step.Condition == types.ConditionOnSuccess && !lastSuccess {
			o.logger().Debug("skipping step", "command", step.Command, "reason", "previous step failed")
			continue
		}
		if step.Condition == types.ConditionOnFailure && lastSuccess {
			o.logger().Debug("skipping step", "command", step.Command, "reason", "previous step succeeded")
			continue
		}

		// Capture this step's output only if the next step consumes it.
		captureNext := i+1 < len(steps) && steps[i+1].ConsumesPipeInput

		if step.ConsumesPipeInput && hasOutput {
			items, structured := types.ParsePipeItems(lastOutput)
			if structured {
				batch := o.runStructuredBatch(ctx, step, items, opts)
				results = append(results, batch...)
				lastSuccess = true
				for _, res := range batch {
					lastSuccess = lastSuccess && res.Success
				}
				// A structured batch is a terminal pipe consumer.
				lastOutput = ""
				hasOutput = false
				continue
			}

			// Plain pipe: the entire trimmed output becomes one
			// trailing argument.
			command := appendArgs(step.Command, []string{strings.TrimSpace(lastOutput)})
			result := o.runOne(ctx, command, opts, captureNext)
			results = append(results, result)
			lastSuccess = result.Success
			lastOutput = result.CapturedOutput
			hasOutput = captureNext
			continue
		}

		result := o.runOne(ctx, step.Command, opts, captureNext)
		results = append(results, result)
		lastSuccess = result.Success
		lastOutput = result.CapturedOutput
		hasOutput = captureNext

		// An unconditional step failing poisons the rest of the chain.
		if !result.Success && step.Condition == types.ConditionAlways {
			o.logger().Debug("aborting chain", "command", step.Command)
			break
		}
	}
	return results
}

// runStructuredBatch synthesizes and executes one command per pipe item.
func (o *Sequential) runStructuredBatch(ctx context.Context, step types.Step, items []types.PipeItem, opts Options) []types.ExecutionResult {
	results := make([]types.ExecutionResult, 0, len(items))
	for _, item := range items {
		command := appendArgs(step.Command, o.mapper().Args(item))
		results = append(results, o.runOne(ctx, command, opts, false))
	}
	return results
}

// runOne executes a single command through the retry controller, or
// synthesizes a successful result in dry-run mode.
func (o *Sequential) runOne(ctx context.Context, command string, opts Options, capture bool) types.ExecutionResult {
	if o.Progress != nil {
		o.Progress.StepStarted(command)
	}

	var result types.ExecutionResult
	if opts.DryRun {
		result = types.ExecutionResult{Command: command, Success: true}
		if capture {
			result.CapturedOutput = dryRunOutput
		}
	} else {
		result = o.Runner.Run(ctx, command, opts.Retry, capture)
	}

	if o.Progress != nil {
		o.Progress.StepFinished(result)
	}
	return result
}

func (o *Sequential) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

func (o *Sequential) mapper() ItemMapper {
	if o.Mapper != nil {
		return o.Mapper
	}
	return DefaultItemMapper{}
}
