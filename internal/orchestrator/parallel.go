package orchestrator

import (
	"context"
	"sync"

	"github.com/omni-stack/omni/internal/types"
)

// Parallel fans a step list out to concurrent execution. Conditions and
// pipe flags are ignored: the list is an unordered independent batch. Every
// step runs to completion regardless of sibling outcomes; there is no
// cancellation on first failure.
type Parallel struct {
	Runner   Runner
	Progress Progress

	mu sync.Mutex
}

// NewParallel creates a parallel orchestrator around a runner.
func NewParallel(runner Runner) *Parallel {
	return &Parallel{Runner: runner}
}

// Run dispatches every step concurrently and waits for all of them,
// returning results in original input order. Each goroutine writes a
// disjoint result slot. Retry loops of different steps run concurrently
// with each other; attempts within one step stay serial.
func (o *Parallel) Run(ctx context.Context, steps []types.Step, opts Options) []types.ExecutionResult {
	results := make([]types.ExecutionResult, len(steps))

	if opts.DryRun {
		for i, step := range steps {
			o.notifyStarted(step.Command)
			results[i] = types.ExecutionResult{Command: step.Command, Success: true}
			o.notifyFinished(results[i])
		}
		return results
	}

	var wg sync.WaitGroup
	for i, step := range steps {
		wg.Add(1)
		go func(slot int, command string) {
			defer wg.Done()
			o.notifyStarted(command)
			results[slot] = o.Runner.Run(ctx, command, opts.Retry, false)
			o.notifyFinished(results[slot])
		}(i, step.Command)
	}
	wg.Wait()
	return results
}

func (o *Parallel) notifyStarted(command string) {
	if o.Progress == nil {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Progress.StepStarted(command)
}

func (o *Parallel) notifyFinished(result types.ExecutionResult) {
	if o.Progress == nil {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Progress.StepFinished(result)
}
