// Package executor runs single chain steps as subprocesses of the tool's
// own entry point.
package executor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
	"mvdan.cc/sh/v3/shell"

	"github.com/omni-stack/omni/internal/types"
)

// StepExecutor spawns one subprocess per step, re-invoking the tool's own
// binary with the step's argument line.
//
// A spawned process always runs to completion: the context is consulted
// before spawning, never used to abort a running process.
type StepExecutor struct {
	// Binary is the entry point to invoke. Defaults to the running
	// executable.
	Binary string

	// Stdout receives live output when capture is off. Defaults to
	// os.Stdout.
	Stdout io.Writer

	// Stderr receives live error output. Stderr is always streamed and
	// buffered for error reporting. Defaults to os.Stderr.
	Stderr io.Writer

	// Env, when non-nil, replaces the subprocess environment.
	Env []string
}

// New creates a StepExecutor targeting the running binary.
func New() *StepExecutor {
	binary, err := os.Executable()
	if err != nil {
		binary = os.Args[0]
	}
	return &StepExecutor{
		Binary: binary,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Execute runs one command line as a subprocess and maps its outcome to an
// ExecutionResult. When captureOutput is true, stdout is buffered silently
// (with ANSI escape codes stripped) for later use as piped input; otherwise
// it streams live to Stdout. A spawn-level failure (binary not found, OS
// error) is an ordinary failing result, not a distinct error path, so the
// retry layer treats it like any other failed attempt.
func (e *StepExecutor) Execute(ctx context.Context, command string, captureOutput bool) types.ExecutionResult {
	start := time.Now()
	result := types.ExecutionResult{Command: command}

	fail := func(msg string) types.ExecutionResult {
		result.Success = false
		result.Error = msg
		result.DurationMs = time.Since(start).Milliseconds()
		return result
	}

	if err := ctx.Err(); err != nil {
		return fail(err.Error())
	}

	args, err := shell.Fields(command, nil)
	if err != nil {
		return fail(fmt.Sprintf("tokenizing command: %v", err))
	}
	if len(args) == 0 {
		return fail("empty command")
	}

	cmd := exec.Command(e.binary(), args...)
	if e.Env != nil {
		cmd.Env = e.Env
	}

	var stdout, stderr bytes.Buffer
	if captureOutput {
		cmd.Stdout = &stdout
	} else {
		cmd.Stdout = e.stdout()
	}
	cmd.Stderr = io.MultiWriter(e.stderr(), &stderr)

	runErr := cmd.Run()
	result.DurationMs = time.Since(start).Milliseconds()
	if captureOutput {
		result.CapturedOutput = ansi.Strip(stdout.String())
	}

	switch err := runErr.(type) {
	case nil:
		result.Success = true
	case *exec.ExitError:
		result.Success = false
		result.Error = strings.TrimSpace(stderr.String())
		if result.Error == "" {
			result.Error = fmt.Sprintf("Exit code %d", err.ExitCode())
		}
	default:
		// Spawn-level failure: binary not found or another OS error.
		result.Success = false
		result.Error = runErr.Error()
	}
	return result
}

func (e *StepExecutor) binary() string {
	if e.Binary != "" {
		return e.Binary
	}
	return os.Args[0]
}

func (e *StepExecutor) stdout() io.Writer {
	if e.Stdout != nil {
		return e.Stdout
	}
	return os.Stdout
}

func (e *StepExecutor) stderr() io.Writer {
	if e.Stderr != nil {
		return e.Stderr
	}
	return os.Stderr
}
