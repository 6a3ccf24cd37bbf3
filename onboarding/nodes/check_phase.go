package orchestratornode

import (
	"fmt"

	contractx "github.com/tanpawarit/salon-onboarding-mcp/onboarding/contract"
)

// CheckPhase rejects a batch for a phase the session has not reached yet.
// Re-running an earlier phase is allowed. Test bookings are gated on their
// prerequisites instead, see PrepareRows.
func CheckPhase(in *GraphState) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}
	if in.IsBookings() {
		return in, nil
	}

	want := in.Checkpoint.Phase()
	if !in.Session.Accepts(want) {
		return nil, fmt.Errorf(
			"%w: %s belongs to phase %s but onboarding is at %s",
			contractx.ErrPhaseOutOfOrder, in.Checkpoint, want, in.Session.CurrentPhase,
		)
	}
	return in, nil
}
