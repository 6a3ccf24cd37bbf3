package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/salon-onboarding-mcp/onboarding/contract"
	nodex "github.com/tanpawarit/salon-onboarding-mcp/onboarding/nodes"
	"github.com/tanpawarit/salon-onboarding-mcp/onboarding/rows"
	statex "github.com/tanpawarit/salon-onboarding-mcp/onboarding/state"
)

var ErrInvalidCompany = nodex.ErrInvalidCompany

type Config struct {
	// Concurrency bounds remote creates per batch.
	Concurrency int `envconfig:"CONCURRENCY" default:"4"`
}

type Orchestrator struct {
	store     statex.Store
	remote    contractx.Remote
	publisher contractx.Publisher

	batchRunner    compose.Runnable[nodex.GraphInput, nodex.GraphOutput]
	rollbackRunner compose.Runnable[nodex.RollbackInput, nodex.RollbackOutput]

	locks       *companyLocks
	concurrency int

	now func() time.Time
}

func New(
	store statex.Store,
	remote contractx.Remote,
	publisher contractx.Publisher,
	cfg Config,
) (*Orchestrator, error) {
	if store == nil {
		return nil, errors.New("session store is required")
	}
	if remote == nil {
		return nil, errors.New("remote api is required")
	}
	if publisher == nil {
		publisher = noopPublisher{}
	}

	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = 4
	}

	o := &Orchestrator{
		store:       store,
		remote:      remote,
		publisher:   publisher,
		locks:       newCompanyLocks(),
		concurrency: concurrency,
		now:         time.Now,
	}

	ctx := context.Background()
	batchRunner, err := o.compileBatchGraph(ctx)
	if err != nil {
		return nil, err
	}
	o.batchRunner = batchRunner

	rollbackRunner, err := o.compileRollbackGraph(ctx)
	if err != nil {
		return nil, err
	}
	o.rollbackRunner = rollbackRunner

	return o, nil
}

// Start creates the company's session or returns the existing one.
func (o *Orchestrator) Start(ctx context.Context, companyID int) (contractx.Progress, error) {
	if companyID <= 0 {
		return contractx.Progress{}, fmt.Errorf("%w: %w", contractx.ErrValidation, ErrInvalidCompany)
	}

	unlock := o.locks.Lock(companyID)
	defer unlock()

	now := o.now().UTC()
	sess, created, err := o.store.CreateIfAbsent(ctx, companyID, now)
	if err != nil {
		return contractx.Progress{}, fmt.Errorf("start onboarding for company %d: %w", companyID, err)
	}
	if sess.Status == statex.StatusNotStarted {
		sess.Status = statex.StatusInProgress
		sess.Touch(now)
		if err := o.store.Save(ctx, sess); err != nil {
			return contractx.Progress{}, fmt.Errorf("start onboarding for company %d: %w", companyID, err)
		}
	}

	if created {
		log.Info().
			Int("company_id", companyID).
			Str("onboarding_id", sess.OnboardingID).
			Msg("onboarding started")
		o.publish(ctx, sess, contractx.EventOnboardingStarted, "", 0, 0)
	}

	progress := BuildProgress(sess)
	progress.Created = created
	return progress, nil
}

func (o *Orchestrator) Resume(ctx context.Context, companyID int) (contractx.Progress, error) {
	return o.Status(ctx, companyID)
}

func (o *Orchestrator) Status(ctx context.Context, companyID int) (contractx.Progress, error) {
	if companyID <= 0 {
		return contractx.Progress{}, fmt.Errorf("%w: %w", contractx.ErrValidation, ErrInvalidCompany)
	}

	sess, err := o.store.Load(ctx, companyID)
	if err != nil {
		return contractx.Progress{}, fmt.Errorf("load onboarding session for company %d: %w", companyID, err)
	}
	return BuildProgress(sess), nil
}

func (o *Orchestrator) AddStaffBatch(ctx context.Context, companyID int, in rows.Input) (contractx.BatchSummary, error) {
	return o.runBatch(ctx, nodex.GraphInput{CompanyID: companyID, Checkpoint: statex.CheckpointStaff, Input: in})
}

func (o *Orchestrator) AddServicesBatch(ctx context.Context, companyID int, in rows.Input) (contractx.BatchSummary, error) {
	return o.runBatch(ctx, nodex.GraphInput{CompanyID: companyID, Checkpoint: statex.CheckpointServices, Input: in})
}

func (o *Orchestrator) AddCategories(ctx context.Context, companyID int, in rows.Input) (contractx.BatchSummary, error) {
	return o.runBatch(ctx, nodex.GraphInput{CompanyID: companyID, Checkpoint: statex.CheckpointCategories, Input: in})
}

func (o *Orchestrator) ImportClients(ctx context.Context, companyID int, in rows.Input) (contractx.BatchSummary, error) {
	return o.runBatch(ctx, nodex.GraphInput{CompanyID: companyID, Checkpoint: statex.CheckpointClients, Input: in})
}

// CreateTestBookings books count synthetic appointments. count must be
// within phase.MinBookingCount and phase.MaxBookingCount; callers resolve
// an absent count to phase.DefaultBookingCount.
func (o *Orchestrator) CreateTestBookings(ctx context.Context, companyID int, count int) (contractx.BatchSummary, error) {
	return o.runBatch(ctx, nodex.GraphInput{CompanyID: companyID, Checkpoint: statex.CheckpointTestBookings, BookingCount: count})
}

func (o *Orchestrator) RollbackPhase(ctx context.Context, companyID int, phaseName string) (contractx.RollbackSummary, error) {
	if companyID <= 0 {
		return contractx.RollbackSummary{}, fmt.Errorf("%w: %w", contractx.ErrValidation, ErrInvalidCompany)
	}

	unlock := o.locks.Lock(companyID)
	defer unlock()

	// deletes and the save run to completion once started
	out, err := o.rollbackRunner.Invoke(context.WithoutCancel(ctx), nodex.RollbackInput{
		CompanyID: companyID,
		PhaseName: phaseName,
	})
	if err != nil {
		return contractx.RollbackSummary{}, nodeError(err)
	}

	log.Info().
		Int("company_id", companyID).
		Str("phase", string(out.Summary.Checkpoint)).
		Int("deleted", out.Summary.Deleted).
		Int("failed", len(out.Summary.Failures)).
		Msg("onboarding phase rolled back")
	o.publish(ctx, out.Session, contractx.EventPhaseRolledBack, out.Summary.Checkpoint, out.Summary.Deleted, len(out.Summary.Failures))
	return out.Summary, nil
}

func (o *Orchestrator) runBatch(ctx context.Context, in nodex.GraphInput) (contractx.BatchSummary, error) {
	if in.CompanyID <= 0 {
		return contractx.BatchSummary{}, fmt.Errorf("%w: %w", contractx.ErrValidation, ErrInvalidCompany)
	}

	unlock := o.locks.Lock(in.CompanyID)
	defer unlock()

	// a started batch runs to completion
	out, err := o.batchRunner.Invoke(context.WithoutCancel(ctx), in)
	if err != nil {
		return contractx.BatchSummary{}, nodeError(err)
	}

	s := out.Summary
	log.Info().
		Int("company_id", s.CompanyID).
		Str("phase", string(s.Checkpoint)).
		Int("batch", s.Batch).
		Int("succeeded", s.Succeeded).
		Int("failed", s.Failed).
		Str("current_phase", string(s.CurrentPhase)).
		Msg("onboarding batch applied")

	evType := contractx.EventBatchApplied
	if s.Checkpoint == statex.CheckpointTestBookings {
		evType = contractx.EventBookingsCreated
	}
	o.publish(ctx, out.Session, evType, s.Checkpoint, s.Succeeded, s.Failed)
	return s, nil
}

// publish is best effort; the session is already saved.
func (o *Orchestrator) publish(
	ctx context.Context,
	sess *statex.Session,
	typ contractx.EventType,
	checkpoint statex.CheckpointName,
	succeeded, failed int,
) {
	if sess == nil {
		return
	}
	ev := contractx.Event{
		ID:           uuid.NewString(),
		Type:         typ,
		CompanyID:    sess.CompanyID,
		OnboardingID: sess.OnboardingID,
		Checkpoint:   checkpoint,
		CurrentPhase: sess.CurrentPhase,
		Status:       sess.Status,
		Succeeded:    succeeded,
		Failed:       failed,
		At:           o.now().UTC(),
	}
	if err := o.publisher.Publish(context.WithoutCancel(ctx), ev); err != nil {
		log.Warn().
			Err(err).
			Int("company_id", sess.CompanyID).
			Str("event", string(typ)).
			Msg("publish onboarding event failed")
	}
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, contractx.Event) error { return nil }

func (noopPublisher) Close() error { return nil }
