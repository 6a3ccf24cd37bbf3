package contract

import (
	"time"

	statex "github.com/tanpawarit/salon-onboarding-mcp/onboarding/state"
)

// RowFailure is a single failed row reported back to the caller.
type RowFailure struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// BatchSummary is returned by every batch phase action.
type BatchSummary struct {
	CompanyID    int                   `json:"company_id"`
	Checkpoint   statex.CheckpointName `json:"checkpoint"`
	Batch        int                   `json:"batch"`
	Attempted    int                   `json:"attempted"`
	Succeeded    int                   `json:"succeeded"`
	Failed       int                   `json:"failed"`
	CreatedIDs   []int                 `json:"created_ids,omitempty"`
	Failures     []RowFailure          `json:"failures,omitempty"`
	CurrentPhase statex.Phase          `json:"current_phase"`
	Advanced     bool                  `json:"advanced"`
	Status       statex.Status         `json:"status"`
}

type CheckpointProgress struct {
	Name        statex.CheckpointName `json:"name"`
	Created     int                   `json:"created"`
	Attempted   int                   `json:"attempted"`
	Failed      int                   `json:"failed"`
	Batches     int                   `json:"batches"`
	CompletedAt *time.Time            `json:"completed_at,omitempty"`
}

// Progress is the read model for start/resume/status.
type Progress struct {
	CompanyID    int                  `json:"company_id"`
	OnboardingID string               `json:"onboarding_id"`
	CurrentPhase statex.Phase         `json:"current_phase"`
	Status       statex.Status        `json:"status"`
	Checkpoints  []CheckpointProgress `json:"checkpoints,omitempty"`
	Created      bool                 `json:"created"`
	NextStep     string               `json:"next_step"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// DeleteFailure is a recorded entity that could not be deleted remotely.
type DeleteFailure struct {
	ID      int    `json:"id"`
	Message string `json:"message"`
}

type RollbackSummary struct {
	CompanyID    int                   `json:"company_id"`
	Checkpoint   statex.CheckpointName `json:"checkpoint"`
	Attempted    int                   `json:"attempted"`
	Deleted      int                   `json:"deleted"`
	Failures     []DeleteFailure       `json:"failures,omitempty"`
	CurrentPhase statex.Phase          `json:"current_phase"`
}

type EventType string

const (
	EventOnboardingStarted EventType = "onboarding.started"
	EventBatchApplied      EventType = "onboarding.batch_applied"
	EventBookingsCreated   EventType = "onboarding.test_bookings_created"
	EventPhaseRolledBack   EventType = "onboarding.phase_rolled_back"
)

type Event struct {
	ID           string                `json:"id"`
	Type         EventType             `json:"type"`
	CompanyID    int                   `json:"company_id"`
	OnboardingID string                `json:"onboarding_id"`
	Checkpoint   statex.CheckpointName `json:"checkpoint,omitempty"`
	CurrentPhase statex.Phase          `json:"current_phase"`
	Status       statex.Status         `json:"status"`
	Succeeded    int                   `json:"succeeded"`
	Failed       int                   `json:"failed"`
	At           time.Time             `json:"at"`
}
