package orchestratornode

import (
	"fmt"

	contractx "github.com/tanpawarit/salon-onboarding-mcp/onboarding/contract"
)

func FinalizeRollback(in *GraphState) (RollbackOutput, error) {
	if in == nil || in.Session == nil {
		return RollbackOutput{}, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}

	return RollbackOutput{
		Summary: contractx.RollbackSummary{
			CompanyID:    in.CompanyID,
			Checkpoint:   in.Checkpoint,
			Attempted:    in.Deleted + len(in.DeleteFailures),
			Deleted:      in.Deleted,
			Failures:     in.DeleteFailures,
			CurrentPhase: in.Session.CurrentPhase,
		},
		Session: in.Session,
	}, nil
}
