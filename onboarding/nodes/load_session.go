package orchestratornode

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/salon-onboarding-mcp/onboarding/contract"
	statex "github.com/tanpawarit/salon-onboarding-mcp/onboarding/state"
)

// LoadSession requires an existing session. Batches never create one; that
// is onboarding_start's job.
func LoadSession(
	ctx context.Context,
	in *GraphState,
	store statex.Store,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	sess, err := store.Load(ctx, in.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("load onboarding session for company %d: %w", in.CompanyID, err)
	}
	in.Session = sess
	return in, nil
}
