package state

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Session is the persistent source-of-truth for one company's onboarding.
// - Ordering: CurrentPhase only moves forward, except through rollback.
// - Undo: every remote entity created by a phase is listed in its Checkpoint.
type Session struct {
	// Identity
	CompanyID    int    `json:"company_id"`
	OnboardingID string `json:"onboarding_id"`

	CurrentPhase Phase                          `json:"current_phase"`
	Status       Status                         `json:"status"`
	Checkpoints  map[CheckpointName]*Checkpoint `json:"checkpoints,omitempty"`

	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Phase string

const (
	PhaseStaff                 Phase = "staff"
	PhaseServicesAndCategories Phase = "services_and_categories"
	PhaseClients               Phase = "clients"
	PhaseTestBookings          Phase = "test_bookings"
	PhaseComplete              Phase = "complete"
)

var phaseOrder = []Phase{
	PhaseStaff,
	PhaseServicesAndCategories,
	PhaseClients,
	PhaseTestBookings,
	PhaseComplete,
}

// Index returns the position of p in the workflow, or -1 for unknown phases.
func (p Phase) Index() int {
	for i, candidate := range phaseOrder {
		if candidate == p {
			return i
		}
	}
	return -1
}

// Next returns the phase after p. Complete is its own successor.
func (p Phase) Next() Phase {
	idx := p.Index()
	if idx < 0 || idx+1 >= len(phaseOrder) {
		return PhaseComplete
	}
	return phaseOrder[idx+1]
}

type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

type CheckpointName string

const (
	CheckpointStaff        CheckpointName = "staff"
	CheckpointCategories   CheckpointName = "categories"
	CheckpointServices     CheckpointName = "services"
	CheckpointClients      CheckpointName = "clients"
	CheckpointTestBookings CheckpointName = "test_bookings"
)

// CheckpointNames lists every checkpoint in workflow order.
var CheckpointNames = []CheckpointName{
	CheckpointStaff,
	CheckpointCategories,
	CheckpointServices,
	CheckpointClients,
	CheckpointTestBookings,
}

func ParseCheckpointName(raw string) (CheckpointName, bool) {
	for _, name := range CheckpointNames {
		if string(name) == raw {
			return name, true
		}
	}
	return "", false
}

// Phase maps a checkpoint to the workflow phase it belongs to. Categories and
// services are two sub-phases of services_and_categories.
func (n CheckpointName) Phase() Phase {
	switch n {
	case CheckpointStaff:
		return PhaseStaff
	case CheckpointCategories, CheckpointServices:
		return PhaseServicesAndCategories
	case CheckpointClients:
		return PhaseClients
	case CheckpointTestBookings:
		return PhaseTestBookings
	default:
		return ""
	}
}

func (n CheckpointName) EntityKind() EntityKind {
	switch n {
	case CheckpointStaff:
		return EntityStaff
	case CheckpointCategories:
		return EntityCategory
	case CheckpointServices:
		return EntityService
	case CheckpointClients:
		return EntityClient
	case CheckpointTestBookings:
		return EntityBooking
	default:
		return ""
	}
}

type EntityKind string

const (
	EntityStaff    EntityKind = "staff"
	EntityCategory EntityKind = "category"
	EntityService  EntityKind = "service"
	EntityClient   EntityKind = "client"
	EntityBooking  EntityKind = "booking"
)

type Failure struct {
	Batch   int    `json:"batch"`
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// Checkpoint accumulates the results of every batch run for one phase.
// Invariant: SucceededCount + FailedCount == AttemptedCount.
type Checkpoint struct {
	PhaseName        CheckpointName       `json:"phase_name"`
	CreatedEntityIDs map[EntityKind][]int `json:"created_entity_ids,omitempty"`
	AttemptedCount   int                  `json:"attempted_count"`
	SucceededCount   int                  `json:"succeeded_count"`
	FailedCount      int                  `json:"failed_count"`
	Failures         []Failure            `json:"failures,omitempty"`
	Batches          int                  `json:"batches"`
	CompletedAt      *time.Time           `json:"completed_at,omitempty"`
	UpdatedAt        time.Time            `json:"updated_at"`
}

// RowResult is the outcome of one remote create. ID is meaningful only when
// Err is nil.
type RowResult struct {
	Row int
	ID  int
	Err error
}

/* --------------------------- Checkpoint helpers --------------------------- */

// Fold records one batch of row results. It returns the batch number.
func (c *Checkpoint) Fold(results []RowResult, now time.Time) int {
	c.Batches++
	batch := c.Batches
	kind := c.PhaseName.EntityKind()
	if c.CreatedEntityIDs == nil {
		c.CreatedEntityIDs = make(map[EntityKind][]int, 1)
	}

	for _, r := range results {
		c.AttemptedCount++
		if r.Err != nil {
			c.FailedCount++
			c.Failures = append(c.Failures, Failure{Batch: batch, Row: r.Row, Message: r.Err.Error()})
			continue
		}
		c.SucceededCount++
		c.CreatedEntityIDs[kind] = append(c.CreatedEntityIDs[kind], r.ID)
	}

	if c.SucceededCount > 0 && c.CompletedAt == nil {
		at := now.UTC()
		c.CompletedAt = &at
	}
	c.UpdatedAt = now.UTC()
	return batch
}

// IDs returns the created ids of kind in creation order.
func (c *Checkpoint) IDs(kind EntityKind) []int {
	if c == nil || c.CreatedEntityIDs == nil {
		return nil
	}
	return c.CreatedEntityIDs[kind]
}

func (c *Checkpoint) CreatedCount() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, ids := range c.CreatedEntityIDs {
		n += len(ids)
	}
	return n
}

func (c *Checkpoint) HasSuccesses() bool {
	return c != nil && c.SucceededCount > 0
}

/* ---------------------------- Session helpers ---------------------------- */

var (
	ErrInvalidCompany    = errors.New("company id must be positive")
	ErrUnknownPhase      = errors.New("unknown onboarding phase")
	ErrCheckpointCorrupt = errors.New("checkpoint corrupt")
)

func NewSession(companyID int, now time.Time) *Session {
	return &Session{
		CompanyID:    companyID,
		OnboardingID: uuid.NewString(),
		CurrentPhase: PhaseStaff,
		Status:       StatusNotStarted,
		Checkpoints:  make(map[CheckpointName]*Checkpoint, len(CheckpointNames)),
		Version:      1,
		CreatedAt:    now.UTC(),
		UpdatedAt:    now.UTC(),
	}
}

func (s *Session) Touch(now time.Time) {
	s.UpdatedAt = now.UTC()
}

// EnsureCheckpointsMap makes sure s.Checkpoints is initialized.
func (s *Session) EnsureCheckpointsMap() {
	if s.Checkpoints == nil {
		s.Checkpoints = make(map[CheckpointName]*Checkpoint, len(CheckpointNames))
	}
}

func (s *Session) Checkpoint(name CheckpointName) (*Checkpoint, bool) {
	if s == nil || s.Checkpoints == nil {
		return nil, false
	}
	cp, ok := s.Checkpoints[name]
	return cp, ok
}

// EnsureCheckpoint returns the checkpoint for name, creating an empty one.
func (s *Session) EnsureCheckpoint(name CheckpointName, now time.Time) *Checkpoint {
	s.EnsureCheckpointsMap()
	if cp, ok := s.Checkpoints[name]; ok && cp != nil {
		return cp
	}
	cp := &Checkpoint{
		PhaseName:        name,
		CreatedEntityIDs: make(map[EntityKind][]int, 1),
		UpdatedAt:        now.UTC(),
	}
	s.Checkpoints[name] = cp
	return cp
}

func (s *Session) RemoveCheckpoint(name CheckpointName) {
	if s == nil || s.Checkpoints == nil {
		return
	}
	delete(s.Checkpoints, name)
}

// AdvanceTo moves CurrentPhase forward to p. It never moves backwards.
func (s *Session) AdvanceTo(p Phase) bool {
	if p.Index() <= s.CurrentPhase.Index() {
		return false
	}
	s.CurrentPhase = p
	return true
}

// RewindTo moves CurrentPhase back to p. It never moves forwards.
func (s *Session) RewindTo(p Phase) bool {
	if p.Index() < 0 || p.Index() >= s.CurrentPhase.Index() {
		return false
	}
	s.CurrentPhase = p
	return true
}

// Accepts reports whether a batch for workflow phase p may run now.
func (s *Session) Accepts(p Phase) bool {
	idx := p.Index()
	return idx >= 0 && idx <= s.CurrentPhase.Index()
}

func (s *Session) Validate() error {
	if s.CompanyID <= 0 {
		return ErrInvalidCompany
	}
	if s.CurrentPhase.Index() < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownPhase, s.CurrentPhase)
	}
	switch s.Status {
	case StatusNotStarted, StatusInProgress, StatusCompleted:
	default:
		return fmt.Errorf("unknown onboarding status %q", s.Status)
	}
	for name, cp := range s.Checkpoints {
		if cp == nil {
			return fmt.Errorf("%w: %s is nil", ErrCheckpointCorrupt, name)
		}
		if cp.PhaseName != name {
			return fmt.Errorf("%w: key=%s phase_name=%s", ErrCheckpointCorrupt, name, cp.PhaseName)
		}
		if cp.SucceededCount+cp.FailedCount != cp.AttemptedCount {
			return fmt.Errorf("%w: %s counts do not add up", ErrCheckpointCorrupt, name)
		}
	}
	return nil
}
