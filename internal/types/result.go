package types

// ExecutionResult is the outcome of running one step (or one synthesized
// per-item command). The ordered list of results is the caller-visible
// artifact of a run.
type ExecutionResult struct {
	// Command is the exact command string that was (or would have been) run.
	Command string `json:"command"`

	// Success is true when the process exited with code 0. Dry runs always
	// report success.
	Success bool `json:"success"`

	// Error holds the trimmed stderr of a failed command, or a synthetic
	// "Exit code N" / OS error message when stderr was empty.
	Error string `json:"error,omitempty"`

	// DurationMs is the wall-clock duration of the execution in
	// milliseconds, including retries.
	DurationMs int64 `json:"duration_ms"`

	// Attempts is how many times the command was actually attempted.
	// Zero when the retry layer was not involved (dry run, pipeline items).
	Attempts int `json:"attempts,omitempty"`

	// CapturedOutput is the command's stdout when capture was requested
	// (pipe producers and pipeline sources). Empty otherwise.
	CapturedOutput string `json:"captured_output,omitempty"`
}

// ChainReport is the aggregate result of one chain run.
type ChainReport struct {
	// RunID uniquely identifies this run.
	RunID string `json:"run_id"`

	// Success is true when every executed step succeeded.
	Success bool `json:"success"`

	// DurationMs is the wall-clock duration of the whole run.
	DurationMs int64 `json:"duration_ms"`

	// Results holds one entry per executed step, in execution order.
	// Skipped steps produce no entry.
	Results []ExecutionResult `json:"results"`
}

// Failed returns the number of failing results in the report.
func (r *ChainReport) Failed() int {
	n := 0
	for _, res := range r.Results {
		if !res.Success {
			n++
		}
	}
	return n
}

// PipeReport is the aggregate result of one select/filter/each pipeline run.
type PipeReport struct {
	// RunID uniquely identifies this run.
	RunID string `json:"run_id"`

	// Success is the logical AND of all per-item results (vacuously true
	// for zero items). False when the source command itself failed.
	Success bool `json:"success"`

	// ItemsProcessed is the number of items produced by the selector.
	ItemsProcessed int `json:"items_processed"`

	// ItemsMatched is the number of items surviving the filter.
	ItemsMatched int `json:"items_matched"`

	// Items holds the surviving items when no per-item template was given.
	Items []any `json:"items,omitempty"`

	// Results holds one entry per executed per-item command.
	Results []ExecutionResult `json:"results"`
}
