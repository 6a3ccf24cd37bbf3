package orchestratornode

import (
	"fmt"

	contractx "github.com/tanpawarit/salon-onboarding-mcp/onboarding/contract"
	statex "github.com/tanpawarit/salon-onboarding-mcp/onboarding/state"
)

// ApplyRollback drops the checkpoint and rewinds the workflow to the phase it
// belongs to. Later checkpoints are left alone.
func ApplyRollback(in *GraphState) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}

	in.Session.RemoveCheckpoint(in.Checkpoint)
	in.Session.RewindTo(in.Checkpoint.Phase())
	if in.Session.CurrentPhase != statex.PhaseComplete && in.Session.Status == statex.StatusCompleted {
		in.Session.Status = statex.StatusInProgress
	}
	return in, nil
}
