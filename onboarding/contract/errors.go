package contract

import (
	"errors"

	statex "github.com/tanpawarit/salon-onboarding-mcp/onboarding/state"
)

var (
	ErrSessionNotFound    = statex.ErrSessionNotFound
	ErrUnknownPhase       = statex.ErrUnknownPhase
	ErrPrerequisiteNotMet = errors.New("prerequisite not met")
	ErrNothingToRollback  = errors.New("nothing to rollback")
	ErrMalformedInput     = errors.New("malformed input")
	ErrPhaseOutOfOrder    = errors.New("phase out of order")
	ErrValidation         = errors.New("validation failed")
	ErrAuthRequired       = errors.New("authentication required")
)
