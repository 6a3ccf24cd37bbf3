package orchestratornode

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/salon-onboarding-mcp/onboarding/contract"
	"github.com/tanpawarit/salon-onboarding-mcp/onboarding/phase"
	"github.com/tanpawarit/salon-onboarding-mcp/onboarding/rows"
	statex "github.com/tanpawarit/salon-onboarding-mcp/onboarding/state"
)

var ErrInvalidCompany = statex.ErrInvalidCompany

// GraphInput drives the batch graph. BookingCount is only read for the
// test_bookings checkpoint.
type GraphInput struct {
	CompanyID    int
	Checkpoint   statex.CheckpointName
	Input        rows.Input
	BookingCount int
}

type GraphOutput struct {
	Summary contractx.BatchSummary
	Session *statex.Session
}

type RollbackInput struct {
	CompanyID int
	PhaseName string
}

type RollbackOutput struct {
	Summary contractx.RollbackSummary
	Session *statex.Session
}

type GraphState struct {
	CompanyID    int
	Checkpoint   statex.CheckpointName
	Input        rows.Input
	BookingCount int
	Now          time.Time

	Session *statex.Session

	Items    []phase.Item
	Results  []statex.RowResult
	Batch    int
	Advanced bool

	Deleted        int
	DeleteFailures []contractx.DeleteFailure
}

func (g *GraphState) IsBookings() bool {
	return g.Checkpoint == statex.CheckpointTestBookings
}

func ValidateRequest(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	if in.CompanyID <= 0 {
		return nil, fmt.Errorf("%w: %w", contractx.ErrValidation, ErrInvalidCompany)
	}
	if in.Checkpoint.Phase() == "" {
		return nil, fmt.Errorf("%w: %q", contractx.ErrUnknownPhase, in.Checkpoint)
	}

	return &GraphState{
		CompanyID:    in.CompanyID,
		Checkpoint:   in.Checkpoint,
		Input:        in.Input,
		BookingCount: in.BookingCount,
		Now:          nowFn().UTC(),
	}, nil
}

const rollbackNames = "staff, categories, services, clients, test_bookings"

func ValidateRollbackRequest(in RollbackInput, nowFn func() time.Time) (*GraphState, error) {
	if in.CompanyID <= 0 {
		return nil, fmt.Errorf("%w: %w", contractx.ErrValidation, ErrInvalidCompany)
	}
	name, ok := statex.ParseCheckpointName(strings.TrimSpace(in.PhaseName))
	if !ok {
		return nil, fmt.Errorf("%w: %q (expected one of %s; %s is rolled back as %s then %s)",
			contractx.ErrUnknownPhase, in.PhaseName, rollbackNames,
			statex.PhaseServicesAndCategories, statex.CheckpointServices, statex.CheckpointCategories)
	}

	return &GraphState{
		CompanyID:  in.CompanyID,
		Checkpoint: name,
		Now:        nowFn().UTC(),
	}, nil
}
