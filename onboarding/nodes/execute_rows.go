package orchestratornode

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"

	contractx "github.com/tanpawarit/salon-onboarding-mcp/onboarding/contract"
	statex "github.com/tanpawarit/salon-onboarding-mcp/onboarding/state"
)

// ExecuteRows runs one remote create per valid item, at most concurrency at a
// time. Results keep item order so checkpoint ids follow the caller's rows.
// One row failing never stops the others.
func ExecuteRows(
	ctx context.Context,
	in *GraphState,
	remote contractx.Remote,
	concurrency int,
) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]statex.RowResult, len(in.Items))
	p := pool.New().WithMaxGoroutines(concurrency)
	for i, item := range in.Items {
		results[i] = statex.RowResult{Row: item.Row, Err: item.Err}
		if item.Err != nil || item.Job == nil {
			continue
		}

		p.Go(func() {
			id, err := item.Job(ctx, remote, in.CompanyID)
			if err != nil {
				log.Warn().
					Err(err).
					Int("company_id", in.CompanyID).
					Str("checkpoint", string(in.Checkpoint)).
					Int("row", item.Row).
					Msg("onboarding row failed")
			}
			results[i] = statex.RowResult{Row: item.Row, ID: id, Err: err}
		})
	}
	p.Wait()

	in.Results = results
	return in, nil
}
