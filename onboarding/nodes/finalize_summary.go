package orchestratornode

import (
	"fmt"

	contractx "github.com/tanpawarit/salon-onboarding-mcp/onboarding/contract"
)

func FinalizeSummary(in *GraphState) (GraphOutput, error) {
	if in == nil || in.Session == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}

	summary := contractx.BatchSummary{
		CompanyID:    in.CompanyID,
		Checkpoint:   in.Checkpoint,
		Batch:        in.Batch,
		Attempted:    len(in.Results),
		CurrentPhase: in.Session.CurrentPhase,
		Advanced:     in.Advanced,
		Status:       in.Session.Status,
	}
	for _, r := range in.Results {
		if r.Err != nil {
			summary.Failed++
			summary.Failures = append(summary.Failures, contractx.RowFailure{Row: r.Row, Message: r.Err.Error()})
			continue
		}
		summary.Succeeded++
		summary.CreatedIDs = append(summary.CreatedIDs, r.ID)
	}

	return GraphOutput{Summary: summary, Session: in.Session}, nil
}
