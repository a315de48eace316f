// Package render turns engine results into terminal output. The engine
// returns structures; rendering and exit codes are decided here and in the
// command layer.
package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/omni-stack/omni/internal/types"
)

var (
	okGlyph   = color.New(color.FgGreen).Sprint("✓")
	failGlyph = color.New(color.FgRed).Sprint("✗")
	dimText   = color.New(color.Faint).SprintFunc()
)

// Renderer writes human-readable progress and summaries. In JSON mode
// progress is suppressed and only the structured report is printed.
type Renderer struct {
	Out    io.Writer
	JSON   bool
	DryRun bool
}

// New creates a renderer.
func New(out io.Writer, jsonMode bool) *Renderer {
	return &Renderer{Out: out, JSON: jsonMode}
}

// StepStarted implements the orchestrator progress interface: the command
// is echoed before it runs.
func (r *Renderer) StepStarted(command string) {
	if r.JSON {
		return
	}
	if r.DryRun {
		fmt.Fprintf(r.Out, "%s %s\n", dimText("would run:"), command)
		return
	}
	fmt.Fprintf(r.Out, "%s %s\n", dimText("→"), command)
}

// StepFinished implements the orchestrator progress interface with a
// success/failure glyph.
func (r *Renderer) StepFinished(result types.ExecutionResult) {
	if r.JSON || r.DryRun {
		return
	}
	if result.Success {
		fmt.Fprintf(r.Out, "%s %s %s\n", okGlyph, result.Command, dimText(fmt.Sprintf("(%dms)", result.DurationMs)))
		return
	}
	fmt.Fprintf(r.Out, "%s %s: %s\n", failGlyph, result.Command, result.Error)
}

// ChainReport prints the end-of-run summary, or the full report in JSON
// mode.
func (r *Renderer) ChainReport(report *types.ChainReport) error {
	if r.JSON {
		return r.printJSON(report)
	}
	failed := report.Failed()
	if failed == 0 {
		fmt.Fprintf(r.Out, "%s %d command(s) succeeded\n", okGlyph, len(report.Results))
		return nil
	}
	fmt.Fprintf(r.Out, "%s %d of %d command(s) failed\n", failGlyph, failed, len(report.Results))
	return nil
}

// PipeReport prints a pipeline run: either the surviving items (terminal
// emit) or the per-item summary.
func (r *Renderer) PipeReport(report *types.PipeReport) error {
	if r.JSON {
		return r.printJSON(report)
	}

	if report.Items != nil {
		for _, item := range report.Items {
			data, err := json.Marshal(item)
			if err != nil {
				return err
			}
			fmt.Fprintln(r.Out, string(data))
		}
		return nil
	}

	failed := 0
	for _, res := range report.Results {
		if !res.Success {
			failed++
		}
	}
	if failed == 0 {
		fmt.Fprintf(r.Out, "%s %d of %d item(s) processed\n", okGlyph, len(report.Results), report.ItemsMatched)
		return nil
	}
	fmt.Fprintf(r.Out, "%s %d of %d item(s) failed\n", failGlyph, failed, len(report.Results))
	return nil
}

// Flows prints a flow listing.
func (r *Renderer) Flows(flows []*types.Flow) error {
	if r.JSON {
		return r.printJSON(flows)
	}
	if len(flows) == 0 {
		fmt.Fprintln(r.Out, "no flows defined")
		return nil
	}
	for _, f := range flows {
		fmt.Fprintf(r.Out, "%s\n", color.New(color.Bold).Sprint(f.Name))
		for i, cmd := range f.Commands {
			fmt.Fprintf(r.Out, "  %s %s\n", dimText(fmt.Sprintf("%d.", i+1)), string(cmd))
		}
	}
	return nil
}

func (r *Renderer) printJSON(v any) error {
	enc := json.NewEncoder(r.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
