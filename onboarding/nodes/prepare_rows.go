package orchestratornode

import (
	"fmt"

	contractx "github.com/tanpawarit/salon-onboarding-mcp/onboarding/contract"
	"github.com/tanpawarit/salon-onboarding-mcp/onboarding/phase"
)

func PrepareRows(in *GraphState) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}

	if in.IsBookings() {
		items, err := phase.PlanBookings(in.Session, in.BookingCount, in.Now)
		if err != nil {
			return nil, err
		}
		in.Items = items
		return in, nil
	}

	spec, ok := phase.ForCheckpoint(in.Checkpoint)
	if !ok {
		return nil, fmt.Errorf("%w: %q has no batch import", contractx.ErrUnknownPhase, in.Checkpoint)
	}
	parsed, err := in.Input.Rows()
	if err != nil {
		return nil, err
	}
	if len(parsed) == 0 {
		return nil, fmt.Errorf("%w: no rows to import", contractx.ErrMalformedInput)
	}

	in.Items = spec.Prepare(parsed, in.Session)
	return in, nil
}
