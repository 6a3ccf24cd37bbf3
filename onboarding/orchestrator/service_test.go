package orchestrator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	contractx "github.com/tanpawarit/salon-onboarding-mcp/onboarding/contract"
	"github.com/tanpawarit/salon-onboarding-mcp/onboarding/remotetest"
	"github.com/tanpawarit/salon-onboarding-mcp/onboarding/rows"
	statex "github.com/tanpawarit/salon-onboarding-mcp/onboarding/state"
	"github.com/tanpawarit/salon-onboarding-mcp/pkg/altegio"
)

type fakePublisher struct {
	mu     sync.Mutex
	err    error
	events []contractx.Event
}

func (f *fakePublisher) Publish(ctx context.Context, ev contractx.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return f.err
}

func (f *fakePublisher) Close() error { return nil }

func (f *fakePublisher) types() []contractx.EventType {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]contractx.EventType, 0, len(f.events))
	for _, ev := range f.events {
		out = append(out, ev.Type)
	}
	return out
}

type testEnv struct {
	o      *Orchestrator
	store  *statex.MemoryStore
	remote *remotetest.Fake
	events *fakePublisher
}

func newTestEnv(t *testing.T, concurrency int) testEnv {
	t.Helper()

	env := testEnv{
		store:  statex.NewMemoryStore(),
		remote: remotetest.New(),
		events: &fakePublisher{},
	}
	o, err := New(env.store, env.remote, env.events, Config{Concurrency: concurrency})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	o.now = func() time.Time { return time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC) }
	env.o = o
	return env
}

func (e testEnv) mustStart(t *testing.T, companyID int) {
	t.Helper()
	if _, err := e.o.Start(context.Background(), companyID); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
}

// seedStaffAndServices walks the session to the clients phase.
func (e testEnv) seedStaffAndServices(t *testing.T, companyID int, staff, services int) {
	t.Helper()
	ctx := context.Background()

	staffRows := make([]map[string]any, 0, staff)
	for i := 0; i < staff; i++ {
		staffRows = append(staffRows, map[string]any{"name": "Stylist", "specialization": "Hair"})
	}
	if _, err := e.o.AddStaffBatch(ctx, companyID, rows.Structured(staffRows)); err != nil {
		t.Fatalf("AddStaffBatch() error = %v", err)
	}

	serviceRows := make([]map[string]any, 0, services)
	for i := 0; i < services; i++ {
		serviceRows = append(serviceRows, map[string]any{"title": "Cut", "category_id": 5, "price_min": 10})
	}
	if _, err := e.o.AddServicesBatch(ctx, companyID, rows.Structured(serviceRows)); err != nil {
		t.Fatalf("AddServicesBatch() error = %v", err)
	}
}

func (e testEnv) session(t *testing.T, companyID int) *statex.Session {
	t.Helper()
	sess, err := e.store.Load(context.Background(), companyID)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return sess
}

func assertCounts(t *testing.T, s contractx.BatchSummary) {
	t.Helper()
	if s.Attempted != s.Succeeded+s.Failed {
		t.Fatalf("attempted=%d succeeded=%d failed=%d do not add up", s.Attempted, s.Succeeded, s.Failed)
	}
	if len(s.Failures) != s.Failed {
		t.Fatalf("failures len=%d, failed=%d", len(s.Failures), s.Failed)
	}
}

func TestNewRequiresDependencies(t *testing.T) {
	t.Parallel()

	if _, err := New(nil, remotetest.New(), nil, Config{}); err == nil {
		t.Fatalf("expected error for nil store")
	}
	if _, err := New(statex.NewMemoryStore(), nil, nil, Config{}); err == nil {
		t.Fatalf("expected error for nil remote")
	}
}

func TestStartIsIdempotent(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 1)
	ctx := context.Background()

	first, err := env.o.Start(ctx, 123)
	if err != nil {
		t.Fatalf("first Start() error = %v", err)
	}
	if !first.Created {
		t.Fatalf("expected first start to create the session")
	}
	if first.Status != statex.StatusInProgress || first.CurrentPhase != statex.PhaseStaff {
		t.Fatalf("unexpected progress: %+v", first)
	}

	second, err := env.o.Start(ctx, 123)
	if err != nil {
		t.Fatalf("second Start() error = %v", err)
	}
	if second.Created {
		t.Fatalf("expected second start to reuse the session")
	}
	if second.OnboardingID != first.OnboardingID {
		t.Fatalf("onboarding id changed: %q -> %q", first.OnboardingID, second.OnboardingID)
	}

	got := env.events.types()
	if len(got) != 1 || got[0] != contractx.EventOnboardingStarted {
		t.Fatalf("events = %v, want one started event", got)
	}
}

func TestStartRejectsInvalidCompany(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 1)
	_, err := env.o.Start(context.Background(), 0)
	if !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestStatusWithoutSession(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 1)
	_, err := env.o.Status(context.Background(), 9)
	if !errors.Is(err, contractx.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	_, err = env.o.Resume(context.Background(), 9)
	if !errors.Is(err, contractx.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound from Resume, got %v", err)
	}
}

func TestAddStaffBatchPartialFailure(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 1)
	env.mustStart(t, 123)

	summary, err := env.o.AddStaffBatch(context.Background(), 123, rows.Structured([]map[string]any{
		{"name": "Anna", "specialization": "Colorist"},
		{"specialization": "Barber"},
	}))
	if err != nil {
		t.Fatalf("AddStaffBatch() error = %v", err)
	}
	assertCounts(t, summary)
	if summary.Succeeded != 1 || summary.Failed != 1 {
		t.Fatalf("succeeded=%d failed=%d, want 1/1", summary.Succeeded, summary.Failed)
	}
	if summary.Failures[0].Row != 1 {
		t.Fatalf("failure row = %d, want 1", summary.Failures[0].Row)
	}
	if !summary.Advanced || summary.CurrentPhase != statex.PhaseServicesAndCategories {
		t.Fatalf("expected phase to advance past staff, got %+v", summary)
	}

	sess := env.session(t, 123)
	cp, ok := sess.Checkpoint(statex.CheckpointStaff)
	if !ok {
		t.Fatalf("staff checkpoint missing")
	}
	if cp.AttemptedCount != 2 || cp.SucceededCount != 1 || cp.FailedCount != 1 {
		t.Fatalf("unexpected checkpoint counts: %+v", cp)
	}
	if got := cp.IDs(statex.EntityStaff); len(got) != 1 || got[0] != summary.CreatedIDs[0] {
		t.Fatalf("checkpoint ids = %v, summary ids = %v", got, summary.CreatedIDs)
	}
}

func TestBatchWithAllFailuresDoesNotAdvance(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 2)
	env.remote.FailCreate = func(statex.EntityKind, any) error {
		return &altegio.APIError{StatusCode: 422, Message: "invalid staff"}
	}
	env.mustStart(t, 7)

	summary, err := env.o.AddStaffBatch(context.Background(), 7, rows.Delimited("name\nAnna\nBea"))
	if err != nil {
		t.Fatalf("AddStaffBatch() error = %v", err)
	}
	assertCounts(t, summary)
	if summary.Succeeded != 0 || summary.Failed != 2 {
		t.Fatalf("succeeded=%d failed=%d, want 0/2", summary.Succeeded, summary.Failed)
	}
	if summary.Advanced || summary.CurrentPhase != statex.PhaseStaff {
		t.Fatalf("phase should stay at staff, got %+v", summary)
	}
}

func TestBatchRequiresSession(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 1)
	_, err := env.o.AddStaffBatch(context.Background(), 5, rows.Delimited("name\nAnna"))
	if !errors.Is(err, contractx.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if calls := env.remote.Calls(); len(calls) != 0 {
		t.Fatalf("expected no remote calls, got %d", len(calls))
	}
}

func TestGraphErrorsKeepNodeText(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 1)

	_, err := env.o.AddStaffBatch(context.Background(), 8, rows.Delimited("name\nAnna"))
	if got, want := err.Error(), "load onboarding session for company 8: onboarding session not found"; got != want {
		t.Fatalf("error = %q, want %q", got, want)
	}

	env.mustStart(t, 8)
	_, err = env.o.ImportClients(context.Background(), 8, rows.Delimited("name,phone\nJane,+1"))
	if got, want := err.Error(), "phase out of order: clients belongs to phase clients but onboarding is at staff"; got != want {
		t.Fatalf("error = %q, want %q", got, want)
	}

	_, err = env.o.RollbackPhase(context.Background(), 8, "staff")
	if got, want := err.Error(), "nothing to rollback: no staff created in this onboarding"; got != want {
		t.Fatalf("error = %q, want %q", got, want)
	}
	if !errors.Is(err, contractx.ErrNothingToRollback) {
		t.Fatalf("expected ErrNothingToRollback, got %v", err)
	}
}

func TestInvalidCompanyMatchesStateSentinel(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 1)
	_, err := env.o.AddStaffBatch(context.Background(), 0, rows.Delimited("name\nAnna"))
	if !errors.Is(err, statex.ErrInvalidCompany) {
		t.Fatalf("expected statex.ErrInvalidCompany from batch, got %v", err)
	}
	_, err = env.o.RollbackPhase(context.Background(), -1, "staff")
	if !errors.Is(err, statex.ErrInvalidCompany) {
		t.Fatalf("expected statex.ErrInvalidCompany from rollback, got %v", err)
	}
}

func TestBatchRejectsEmptyInput(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 1)
	env.mustStart(t, 5)

	_, err := env.o.AddStaffBatch(context.Background(), 5, rows.Delimited("name,specialization\n"))
	if !errors.Is(err, contractx.ErrMalformedInput) {
		t.Fatalf("expected ErrMalformedInput, got %v", err)
	}
}

func TestBatchPhaseOutOfOrder(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 1)
	env.mustStart(t, 5)

	_, err := env.o.ImportClients(context.Background(), 5, rows.Delimited("name,phone\nJane,+1"))
	if !errors.Is(err, contractx.ErrPhaseOutOfOrder) {
		t.Fatalf("expected ErrPhaseOutOfOrder, got %v", err)
	}

	sess := env.session(t, 5)
	if _, ok := sess.Checkpoint(statex.CheckpointClients); ok {
		t.Fatalf("rejected batch must not create a checkpoint")
	}
}

func TestRerunEarlierPhaseAppends(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 1)
	env.mustStart(t, 5)
	env.seedStaffAndServices(t, 5, 1, 1)

	summary, err := env.o.AddStaffBatch(context.Background(), 5, rows.Delimited("name\nLate hire"))
	if err != nil {
		t.Fatalf("AddStaffBatch() error = %v", err)
	}
	if summary.Advanced || summary.CurrentPhase != statex.PhaseClients {
		t.Fatalf("re-running staff must not move the phase, got %+v", summary)
	}
	if summary.Batch != 2 {
		t.Fatalf("batch = %d, want 2", summary.Batch)
	}

	cp, _ := env.session(t, 5).Checkpoint(statex.CheckpointStaff)
	if len(cp.IDs(statex.EntityStaff)) != 2 {
		t.Fatalf("expected staff ids to accumulate, got %v", cp.IDs(statex.EntityStaff))
	}
}

func TestCategoriesDoNotFinishServicesPhase(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 1)
	ctx := context.Background()
	env.mustStart(t, 5)
	if _, err := env.o.AddStaffBatch(ctx, 5, rows.Delimited("name\nAnna")); err != nil {
		t.Fatalf("AddStaffBatch() error = %v", err)
	}

	summary, err := env.o.AddCategories(ctx, 5, rows.Structured([]map[string]any{{"title": "Hair"}}))
	if err != nil {
		t.Fatalf("AddCategories() error = %v", err)
	}
	if summary.CurrentPhase != statex.PhaseServicesAndCategories {
		t.Fatalf("categories moved phase to %s", summary.CurrentPhase)
	}

	summary, err = env.o.AddServicesBatch(ctx, 5, rows.Delimited("title,price_min\nCut,20"))
	if err != nil {
		t.Fatalf("AddServicesBatch() error = %v", err)
	}
	if summary.Succeeded != 1 || summary.CurrentPhase != statex.PhaseClients {
		t.Fatalf("unexpected services summary: %+v", summary)
	}

	catIDs := env.remote.Creates(statex.EntityCategory)
	svc := env.remote.Creates(statex.EntityService)[0].Input.(altegio.ServiceInput)
	if svc.CategoryID != catIDs[0].ID {
		t.Fatalf("service category = %d, want first created category %d", svc.CategoryID, catIDs[0].ID)
	}
}

func TestImportClientsPhoneOrEmail(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 1)
	env.mustStart(t, 123)
	env.seedStaffAndServices(t, 123, 1, 1)

	summary, err := env.o.ImportClients(context.Background(), 123, rows.Delimited("name,phone,email\nJane,+1,\n,,x@y.com"))
	if err != nil {
		t.Fatalf("ImportClients() error = %v", err)
	}
	assertCounts(t, summary)
	if summary.Succeeded != 2 || summary.Failed != 0 {
		t.Fatalf("succeeded=%d failed=%d, want 2/0 (%v)", summary.Succeeded, summary.Failed, summary.Failures)
	}
	if summary.CurrentPhase != statex.PhaseTestBookings {
		t.Fatalf("phase = %s, want test_bookings", summary.CurrentPhase)
	}
}

func TestCreateTestBookingsPrerequisites(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 1)
	env.mustStart(t, 5)

	_, err := env.o.CreateTestBookings(context.Background(), 5, 3)
	if !errors.Is(err, contractx.ErrPrerequisiteNotMet) {
		t.Fatalf("expected ErrPrerequisiteNotMet, got %v", err)
	}
	if calls := env.remote.Creates(statex.EntityBooking); len(calls) != 0 {
		t.Fatalf("expected no bookings, got %d", len(calls))
	}
}

func TestCreateTestBookingsCompletesOnboarding(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 3)
	env.mustStart(t, 5)
	env.seedStaffAndServices(t, 5, 2, 2)

	_, err := env.o.CreateTestBookings(context.Background(), 5, 11)
	if !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation for count 11, got %v", err)
	}

	_, err = env.o.CreateTestBookings(context.Background(), 5, 0)
	if !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation for count 0, got %v", err)
	}
	if calls := env.remote.Creates(statex.EntityBooking); len(calls) != 0 {
		t.Fatalf("expected no bookings for rejected counts, got %d", len(calls))
	}

	summary, err := env.o.CreateTestBookings(context.Background(), 5, 5)
	if err != nil {
		t.Fatalf("CreateTestBookings() error = %v", err)
	}
	assertCounts(t, summary)
	if summary.Succeeded != 5 {
		t.Fatalf("succeeded = %d, want 5", summary.Succeeded)
	}
	if summary.Status != statex.StatusCompleted || summary.CurrentPhase != statex.PhaseComplete {
		t.Fatalf("unexpected status after bookings: %+v", summary)
	}

	progress, err := env.o.Status(context.Background(), 5)
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if progress.Status != statex.StatusCompleted {
		t.Fatalf("persisted status = %s", progress.Status)
	}

	got := env.events.types()
	if got[len(got)-1] != contractx.EventBookingsCreated {
		t.Fatalf("last event = %s, want %s", got[len(got)-1], contractx.EventBookingsCreated)
	}
}

func TestRollbackDeletesRecordedEntitiesOnly(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 1)
	env.mustStart(t, 5)
	env.seedStaffAndServices(t, 5, 3, 2)

	before := env.session(t, 5)
	staffCP, _ := before.Checkpoint(statex.CheckpointStaff)
	staffIDs := append([]int(nil), staffCP.IDs(statex.EntityStaff)...)

	summary, err := env.o.RollbackPhase(context.Background(), 5, "staff")
	if err != nil {
		t.Fatalf("RollbackPhase() error = %v", err)
	}
	if summary.Deleted != 3 || summary.Attempted != 3 || len(summary.Failures) != 0 {
		t.Fatalf("unexpected rollback summary: %+v", summary)
	}

	deleted := env.remote.Deletes(statex.EntityStaff)
	if len(deleted) != len(staffIDs) {
		t.Fatalf("deleted %v, want %v", deleted, staffIDs)
	}
	for i := range staffIDs {
		if deleted[i] != staffIDs[len(staffIDs)-1-i] {
			t.Fatalf("deletes not in reverse order: %v (created %v)", deleted, staffIDs)
		}
	}
	if svc := env.remote.Deletes(statex.EntityService); len(svc) != 0 {
		t.Fatalf("rollback cascaded to services: %v", svc)
	}

	after := env.session(t, 5)
	if _, ok := after.Checkpoint(statex.CheckpointStaff); ok {
		t.Fatalf("staff checkpoint should be removed")
	}
	if cp, ok := after.Checkpoint(statex.CheckpointServices); !ok || len(cp.IDs(statex.EntityService)) != 2 {
		t.Fatalf("services checkpoint should be intact, got %+v", cp)
	}
	if after.CurrentPhase != statex.PhaseStaff || summary.CurrentPhase != statex.PhaseStaff {
		t.Fatalf("phase = %s, want staff", after.CurrentPhase)
	}
}

func TestRollbackContinuesPastDeleteFailures(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 1)
	env.mustStart(t, 5)
	env.seedStaffAndServices(t, 5, 1, 3)

	cp, _ := env.session(t, 5).Checkpoint(statex.CheckpointServices)
	ids := cp.IDs(statex.EntityService)
	env.remote.FailDelete = remotetest.FailNotFound(ids[1])

	summary, err := env.o.RollbackPhase(context.Background(), 5, "services")
	if err != nil {
		t.Fatalf("RollbackPhase() error = %v", err)
	}
	if summary.Deleted != 2 || len(summary.Failures) != 1 || summary.Failures[0].ID != ids[1] {
		t.Fatalf("unexpected rollback summary: %+v", summary)
	}
	if got := env.remote.Deletes(statex.EntityService); len(got) != 3 {
		t.Fatalf("expected 3 delete calls, got %v", got)
	}

	after := env.session(t, 5)
	if _, ok := after.Checkpoint(statex.CheckpointServices); ok {
		t.Fatalf("services checkpoint should be removed")
	}
	if after.CurrentPhase != statex.PhaseServicesAndCategories {
		t.Fatalf("phase = %s, want services_and_categories", after.CurrentPhase)
	}
}

func TestRollbackTestBookingsReopensOnboarding(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 1)
	env.mustStart(t, 5)
	env.seedStaffAndServices(t, 5, 1, 1)
	if _, err := env.o.CreateTestBookings(context.Background(), 5, 2); err != nil {
		t.Fatalf("CreateTestBookings() error = %v", err)
	}

	summary, err := env.o.RollbackPhase(context.Background(), 5, "test_bookings")
	if err != nil {
		t.Fatalf("RollbackPhase() error = %v", err)
	}
	if summary.Deleted != 2 || summary.CurrentPhase != statex.PhaseTestBookings {
		t.Fatalf("unexpected rollback summary: %+v", summary)
	}
	if st := env.session(t, 5).Status; st != statex.StatusInProgress {
		t.Fatalf("status = %s, want in_progress", st)
	}
}

func TestRollbackNothingOrUnknown(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 1)
	env.mustStart(t, 5)

	_, err := env.o.RollbackPhase(context.Background(), 5, "clients")
	if !errors.Is(err, contractx.ErrNothingToRollback) {
		t.Fatalf("expected ErrNothingToRollback, got %v", err)
	}
	_, err = env.o.RollbackPhase(context.Background(), 5, "payroll")
	if !errors.Is(err, contractx.ErrUnknownPhase) {
		t.Fatalf("expected ErrUnknownPhase, got %v", err)
	}
}

func TestConcurrentBatchesForOneCompanyAreSerialized(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 4)
	env.mustStart(t, 5)

	const runs = 8
	var wg sync.WaitGroup
	for i := 0; i < runs; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := env.o.AddStaffBatch(context.Background(), 5, rows.Delimited("name\nA\nB")); err != nil {
				t.Errorf("AddStaffBatch() error = %v", err)
			}
		}()
	}
	wg.Wait()

	cp, _ := env.session(t, 5).Checkpoint(statex.CheckpointStaff)
	if cp.Batches != runs || cp.AttemptedCount != 2*runs || len(cp.IDs(statex.EntityStaff)) != 2*runs {
		t.Fatalf("lost updates: batches=%d attempted=%d ids=%d", cp.Batches, cp.AttemptedCount, len(cp.IDs(statex.EntityStaff)))
	}
}

func TestPublishFailureDoesNotFailBatch(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 1)
	env.events.err = errors.New("broker down")
	env.mustStart(t, 5)

	summary, err := env.o.AddStaffBatch(context.Background(), 5, rows.Delimited("name\nAnna"))
	if err != nil {
		t.Fatalf("AddStaffBatch() error = %v", err)
	}
	if summary.Succeeded != 1 {
		t.Fatalf("succeeded = %d, want 1", summary.Succeeded)
	}
}

func TestCanceledContextStillSavesBatch(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 1)
	env.mustStart(t, 5)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	summary, err := env.o.AddStaffBatch(ctx, 5, rows.Delimited("name\nAnna"))
	if err != nil {
		t.Fatalf("AddStaffBatch() error = %v", err)
	}
	if summary.Succeeded != 1 {
		t.Fatalf("succeeded = %d, want 1", summary.Succeeded)
	}
	if _, ok := env.session(t, 5).Checkpoint(statex.CheckpointStaff); !ok {
		t.Fatalf("expected checkpoint to be saved")
	}
}
