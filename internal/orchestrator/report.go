package orchestrator

import (
	"time"

	"github.com/google/uuid"

	"github.com/omni-stack/omni/internal/types"
)

// NewChainReport stamps a result list with a run ID and wall-clock duration.
func NewChainReport(results []types.ExecutionResult, started time.Time) *types.ChainReport {
	report := &types.ChainReport{
		RunID:      uuid.NewString(),
		Success:    true,
		DurationMs: time.Since(started).Milliseconds(),
		Results:    results,
	}
	for _, res := range results {
		if !res.Success {
			report.Success = false
			break
		}
	}
	return report
}
