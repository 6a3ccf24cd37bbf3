package state

import (
	"errors"
	"testing"
	"time"
)

func TestCheckpointFoldCounts(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	st := NewSession(123, now)
	cp := st.EnsureCheckpoint(CheckpointStaff, now)

	batch := cp.Fold([]RowResult{
		{Row: 0, ID: 501},
		{Row: 1, Err: errors.New("name is required")},
	}, now)

	if batch != 1 {
		t.Fatalf("batch = %d, want 1", batch)
	}
	if cp.AttemptedCount != 2 || cp.SucceededCount != 1 || cp.FailedCount != 1 {
		t.Fatalf("counts = %d/%d/%d, want 2/1/1", cp.AttemptedCount, cp.SucceededCount, cp.FailedCount)
	}
	if got := cp.IDs(EntityStaff); len(got) != 1 || got[0] != 501 {
		t.Fatalf("IDs(staff) = %v, want [501]", got)
	}
	if len(cp.Failures) != 1 || cp.Failures[0].Row != 1 || cp.Failures[0].Batch != 1 {
		t.Fatalf("unexpected failures: %#v", cp.Failures)
	}
	if cp.CompletedAt == nil {
		t.Fatal("CompletedAt should be set after a success")
	}
}

func TestCheckpointFoldAccumulatesAcrossBatches(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	st := NewSession(1, now)
	cp := st.EnsureCheckpoint(CheckpointServices, now)

	cp.Fold([]RowResult{{Row: 0, Err: errors.New("boom")}}, now)
	if cp.CompletedAt != nil {
		t.Fatal("CompletedAt must stay nil without successes")
	}
	cp.Fold([]RowResult{{Row: 0, ID: 1}, {Row: 1, ID: 2}}, now)

	if cp.Batches != 2 {
		t.Fatalf("Batches = %d, want 2", cp.Batches)
	}
	if cp.AttemptedCount != 3 || cp.SucceededCount+cp.FailedCount != cp.AttemptedCount {
		t.Fatalf("counts do not add up: %#v", cp)
	}
	if got := cp.IDs(EntityService); len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("IDs(service) = %v, want [1 2]", got)
	}
	if cp.Failures[0].Batch != 1 {
		t.Fatalf("failure batch = %d, want 1", cp.Failures[0].Batch)
	}
}

func TestPhaseAdvanceAndRewind(t *testing.T) {
	t.Parallel()

	st := NewSession(1, time.Now())

	if !st.AdvanceTo(PhaseClients) {
		t.Fatal("AdvanceTo(clients) should move forward")
	}
	if st.AdvanceTo(PhaseStaff) {
		t.Fatal("AdvanceTo must never regress")
	}
	if st.CurrentPhase != PhaseClients {
		t.Fatalf("CurrentPhase = %s, want clients", st.CurrentPhase)
	}
	if st.RewindTo(PhaseTestBookings) {
		t.Fatal("RewindTo must never advance")
	}
	if !st.RewindTo(PhaseServicesAndCategories) {
		t.Fatal("RewindTo(services_and_categories) should move back")
	}
	if st.CurrentPhase != PhaseServicesAndCategories {
		t.Fatalf("CurrentPhase = %s", st.CurrentPhase)
	}
}

func TestAcceptsEarlierAndCurrentPhasesOnly(t *testing.T) {
	t.Parallel()

	st := NewSession(1, time.Now())
	st.CurrentPhase = PhaseServicesAndCategories

	if !st.Accepts(PhaseStaff) {
		t.Fatal("earlier phase should be accepted")
	}
	if !st.Accepts(PhaseServicesAndCategories) {
		t.Fatal("current phase should be accepted")
	}
	if st.Accepts(PhaseClients) {
		t.Fatal("later phase should be rejected")
	}
	if st.Accepts(Phase("bogus")) {
		t.Fatal("unknown phase should be rejected")
	}
}

func TestCheckpointNamePhaseMapping(t *testing.T) {
	t.Parallel()

	cases := map[CheckpointName]Phase{
		CheckpointStaff:        PhaseStaff,
		CheckpointCategories:   PhaseServicesAndCategories,
		CheckpointServices:     PhaseServicesAndCategories,
		CheckpointClients:      PhaseClients,
		CheckpointTestBookings: PhaseTestBookings,
	}
	for name, want := range cases {
		if got := name.Phase(); got != want {
			t.Fatalf("%s.Phase() = %s, want %s", name, got, want)
		}
	}
	if _, ok := ParseCheckpointName("services_and_categories"); ok {
		t.Fatal("workflow phase name is not a checkpoint name")
	}
}

func TestValidateRejectsBrokenCheckpoint(t *testing.T) {
	t.Parallel()

	st := NewSession(1, time.Now())
	st.Checkpoints[CheckpointStaff] = &Checkpoint{PhaseName: CheckpointStaff, AttemptedCount: 2, SucceededCount: 1}
	if err := st.Validate(); !errors.Is(err, ErrCheckpointCorrupt) {
		t.Fatalf("Validate() error = %v, want ErrCheckpointCorrupt", err)
	}

	st.Checkpoints[CheckpointStaff] = &Checkpoint{PhaseName: CheckpointClients}
	if err := st.Validate(); !errors.Is(err, ErrCheckpointCorrupt) {
		t.Fatalf("Validate() error = %v, want ErrCheckpointCorrupt", err)
	}
}

func TestNewSessionDefaults(t *testing.T) {
	t.Parallel()

	st := NewSession(42, time.Now())
	if st.OnboardingID == "" {
		t.Fatal("OnboardingID should be assigned")
	}
	if st.CurrentPhase != PhaseStaff || st.Status != StatusNotStarted {
		t.Fatalf("unexpected defaults: %s/%s", st.CurrentPhase, st.Status)
	}
	if err := st.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}
