package orchestratornode

import (
	"errors"
	"testing"
	"time"

	contractx "github.com/tanpawarit/salon-onboarding-mcp/onboarding/contract"
	statex "github.com/tanpawarit/salon-onboarding-mcp/onboarding/state"
)

func fixedNow() time.Time {
	return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
}

func TestValidateRequest(t *testing.T) {
	t.Parallel()

	_, err := ValidateRequest(GraphInput{CompanyID: 0, Checkpoint: statex.CheckpointStaff}, fixedNow)
	if !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	_, err = ValidateRequest(GraphInput{CompanyID: 1, Checkpoint: "payroll"}, fixedNow)
	if !errors.Is(err, contractx.ErrUnknownPhase) {
		t.Fatalf("expected ErrUnknownPhase, got %v", err)
	}

	st, err := ValidateRollbackRequest(RollbackInput{CompanyID: 1, PhaseName: " services "}, fixedNow)
	if err != nil {
		t.Fatalf("ValidateRollbackRequest() error = %v", err)
	}
	if st.Checkpoint != statex.CheckpointServices || !st.Now.Equal(fixedNow()) {
		t.Fatalf("unexpected state: %+v", st)
	}
}

func TestInvalidCompanyMatchesStateSentinel(t *testing.T) {
	t.Parallel()

	_, err := ValidateRequest(GraphInput{CompanyID: -3, Checkpoint: statex.CheckpointStaff}, fixedNow)
	if !errors.Is(err, statex.ErrInvalidCompany) {
		t.Fatalf("expected statex.ErrInvalidCompany, got %v", err)
	}
	_, err = ValidateRollbackRequest(RollbackInput{CompanyID: 0, PhaseName: "staff"}, fixedNow)
	if !errors.Is(err, statex.ErrInvalidCompany) {
		t.Fatalf("expected statex.ErrInvalidCompany from rollback, got %v", err)
	}
}

func TestRollbackWorkflowPhaseNameHint(t *testing.T) {
	t.Parallel()

	_, err := ValidateRollbackRequest(RollbackInput{CompanyID: 1, PhaseName: "services_and_categories"}, fixedNow)
	if !errors.Is(err, contractx.ErrUnknownPhase) {
		t.Fatalf("expected ErrUnknownPhase, got %v", err)
	}
	want := `unknown onboarding phase: "services_and_categories" (expected one of staff, categories, services, clients, test_bookings; services_and_categories is rolled back as services then categories)`
	if err.Error() != want {
		t.Fatalf("error = %q, want %q", err.Error(), want)
	}
}

func TestCheckPhase(t *testing.T) {
	t.Parallel()

	sess := statex.NewSession(1, fixedNow())
	sess.CurrentPhase = statex.PhaseServicesAndCategories

	cases := []struct {
		checkpoint statex.CheckpointName
		wantErr    bool
	}{
		{statex.CheckpointStaff, false},
		{statex.CheckpointCategories, false},
		{statex.CheckpointServices, false},
		{statex.CheckpointClients, true},
		{statex.CheckpointTestBookings, false},
	}
	for _, tc := range cases {
		_, err := CheckPhase(&GraphState{Checkpoint: tc.checkpoint, Session: sess})
		if tc.wantErr != errors.Is(err, contractx.ErrPhaseOutOfOrder) {
			t.Fatalf("%s: err = %v, wantErr %v", tc.checkpoint, err, tc.wantErr)
		}
	}
}

func TestApplyCheckpointAdvancesOnlyOnSuccess(t *testing.T) {
	t.Parallel()

	sess := statex.NewSession(1, fixedNow())
	st := &GraphState{
		Checkpoint: statex.CheckpointStaff,
		Session:    sess,
		Now:        fixedNow(),
		Results:    []statex.RowResult{{Row: 0, Err: errors.New("boom")}},
	}
	if _, err := ApplyCheckpoint(st); err != nil {
		t.Fatalf("ApplyCheckpoint() error = %v", err)
	}
	if st.Advanced || sess.CurrentPhase != statex.PhaseStaff {
		t.Fatalf("phase advanced without successes")
	}
	if sess.Status != statex.StatusInProgress {
		t.Fatalf("status = %s, want in_progress", sess.Status)
	}

	st.Results = []statex.RowResult{{Row: 0, ID: 10}}
	if _, err := ApplyCheckpoint(st); err != nil {
		t.Fatalf("ApplyCheckpoint() error = %v", err)
	}
	if !st.Advanced || sess.CurrentPhase != statex.PhaseServicesAndCategories {
		t.Fatalf("phase = %s, want services_and_categories", sess.CurrentPhase)
	}
	if st.Batch != 2 {
		t.Fatalf("batch = %d, want 2", st.Batch)
	}
}

func TestApplyRollbackNeverAdvances(t *testing.T) {
	t.Parallel()

	sess := statex.NewSession(1, fixedNow())
	sess.EnsureCheckpoint(statex.CheckpointClients, fixedNow())
	sess.CurrentPhase = statex.PhaseServicesAndCategories

	st := &GraphState{Checkpoint: statex.CheckpointClients, Session: sess}
	if _, err := ApplyRollback(st); err != nil {
		t.Fatalf("ApplyRollback() error = %v", err)
	}
	if sess.CurrentPhase != statex.PhaseServicesAndCategories {
		t.Fatalf("rollback moved phase forward to %s", sess.CurrentPhase)
	}
	if _, ok := sess.Checkpoint(statex.CheckpointClients); ok {
		t.Fatalf("checkpoint not removed")
	}
}

func TestFinalizeSummaryCountsThisBatch(t *testing.T) {
	t.Parallel()

	out, err := FinalizeSummary(&GraphState{
		CompanyID:  3,
		Checkpoint: statex.CheckpointStaff,
		Session:    statex.NewSession(3, fixedNow()),
		Results: []statex.RowResult{
			{Row: 0, ID: 7},
			{Row: 1, Err: errors.New("name is required")},
			{Row: 2, ID: 8},
		},
	})
	if err != nil {
		t.Fatalf("FinalizeSummary() error = %v", err)
	}
	s := out.Summary
	if s.Attempted != 3 || s.Succeeded != 2 || s.Failed != 1 {
		t.Fatalf("unexpected counts: %+v", s)
	}
	if len(s.CreatedIDs) != 2 || s.CreatedIDs[0] != 7 || s.CreatedIDs[1] != 8 {
		t.Fatalf("created ids = %v", s.CreatedIDs)
	}
	if s.Failures[0].Row != 1 {
		t.Fatalf("failure row = %d", s.Failures[0].Row)
	}
}
