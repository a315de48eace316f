package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/omni-stack/omni/internal/types"
)

// RetryController wraps a StepExecutor with bounded retries and exponential
// backoff. Attempts for one command are strictly serial.
type RetryController struct {
	Executor *StepExecutor

	// InitialInterval is the delay before the first retry. Each further
	// retry doubles it: 1s, 2s, 4s, 8s. Tests shorten this.
	InitialInterval time.Duration

	// Out receives retry notices. Defaults to os.Stderr.
	Out io.Writer
}

// NewRetryController creates a controller with the production backoff
// schedule.
func NewRetryController(exec *StepExecutor) *RetryController {
	return &RetryController{
		Executor:        exec,
		InitialInterval: time.Second,
		Out:             os.Stderr,
	}
}

// Run performs retryCount+1 attempts of the command, returning on the first
// success or after the final attempt. The returned result records how many
// attempts were actually made and the total wall-clock duration including
// backoff sleeps.
func (r *RetryController) Run(ctx context.Context, command string, retryCount int, captureOutput bool) types.ExecutionResult {
	if retryCount < 0 {
		retryCount = 0
	}

	start := time.Now()
	attempts := 0
	var last types.ExecutionResult

	operation := func() error {
		attempts++
		last = r.Executor.Execute(ctx, command, captureOutput)
		if !last.Success {
			return errors.New(last.Error)
		}
		return nil
	}

	notify := func(err error, delay time.Duration) {
		fmt.Fprintf(r.out(), "Command failed (%v), retrying in %s (attempt %d of %d)\n",
			err, delay, attempts+1, retryCount+1)
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = r.initialInterval()
	policy.Multiplier = 2
	policy.RandomizationFactor = 0
	policy.MaxInterval = time.Hour
	policy.MaxElapsedTime = 0
	policy.Reset()

	_ = backoff.RetryNotify(operation, backoff.WithMaxRetries(policy, uint64(retryCount)), notify)

	last.Attempts = attempts
	last.DurationMs = time.Since(start).Milliseconds()
	return last
}

func (r *RetryController) initialInterval() time.Duration {
	if r.InitialInterval > 0 {
		return r.InitialInterval
	}
	return time.Second
}

func (r *RetryController) out() io.Writer {
	if r.Out != nil {
		return r.Out
	}
	return os.Stderr
}
