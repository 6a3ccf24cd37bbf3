package orchestratornode

import (
	"fmt"

	contractx "github.com/tanpawarit/salon-onboarding-mcp/onboarding/contract"
	statex "github.com/tanpawarit/salon-onboarding-mcp/onboarding/state"
)

// ApplyCheckpoint folds the batch into its checkpoint and moves the workflow
// forward when at least one row of this batch succeeded.
func ApplyCheckpoint(in *GraphState) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}

	cp := in.Session.EnsureCheckpoint(in.Checkpoint, in.Now)
	in.Batch = cp.Fold(in.Results, in.Now)
	if in.Session.Status == statex.StatusNotStarted {
		in.Session.Status = statex.StatusInProgress
	}
	if succeeded(in.Results) == 0 {
		return in, nil
	}

	switch in.Checkpoint {
	case statex.CheckpointCategories:
		// services finish the services_and_categories phase
	case statex.CheckpointTestBookings:
		in.Advanced = in.Session.AdvanceTo(statex.PhaseComplete)
		in.Session.Status = statex.StatusCompleted
	default:
		in.Advanced = in.Session.AdvanceTo(in.Checkpoint.Phase().Next())
	}
	return in, nil
}

func succeeded(results []statex.RowResult) int {
	n := 0
	for _, r := range results {
		if r.Err == nil {
			n++
		}
	}
	return n
}
