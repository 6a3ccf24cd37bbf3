package orchestratornode

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/salon-onboarding-mcp/onboarding/contract"
	"github.com/tanpawarit/salon-onboarding-mcp/onboarding/phase"
)

// DeleteEntities issues one remote delete per id recorded in the checkpoint,
// newest first. Failed deletes are collected and do not stop the rest.
func DeleteEntities(
	ctx context.Context,
	in *GraphState,
	remote contractx.Remote,
) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}

	cp, ok := in.Session.Checkpoint(in.Checkpoint)
	if !ok || cp.CreatedCount() == 0 {
		return nil, fmt.Errorf("%w: no %s created in this onboarding", contractx.ErrNothingToRollback, in.Checkpoint)
	}

	kind := in.Checkpoint.EntityKind()
	ids := cp.IDs(kind)
	for i := len(ids) - 1; i >= 0; i-- {
		if err := phase.DeleteEntity(ctx, remote, in.CompanyID, kind, ids[i]); err != nil {
			log.Warn().
				Err(err).
				Int("company_id", in.CompanyID).
				Str("kind", string(kind)).
				Int("id", ids[i]).
				Msg("rollback delete failed")
			in.DeleteFailures = append(in.DeleteFailures, contractx.DeleteFailure{
				ID:      ids[i],
				Message: err.Error(),
			})
			continue
		}
		in.Deleted++
	}
	return in, nil
}
