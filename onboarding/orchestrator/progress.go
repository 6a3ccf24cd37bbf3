package orchestrator

import (
	contractx "github.com/tanpawarit/salon-onboarding-mcp/onboarding/contract"
	statex "github.com/tanpawarit/salon-onboarding-mcp/onboarding/state"
)

// BuildProgress renders the read model for a session. Checkpoints are listed
// in workflow order.
func BuildProgress(sess *statex.Session) contractx.Progress {
	if sess == nil {
		return contractx.Progress{}
	}

	out := contractx.Progress{
		CompanyID:    sess.CompanyID,
		OnboardingID: sess.OnboardingID,
		CurrentPhase: sess.CurrentPhase,
		Status:       sess.Status,
		NextStep:     NextStep(sess),
		CreatedAt:    sess.CreatedAt,
		UpdatedAt:    sess.UpdatedAt,
	}
	for _, name := range statex.CheckpointNames {
		cp, ok := sess.Checkpoint(name)
		if !ok || cp == nil {
			continue
		}
		out.Checkpoints = append(out.Checkpoints, contractx.CheckpointProgress{
			Name:        name,
			Created:     cp.CreatedCount(),
			Attempted:   cp.AttemptedCount,
			Failed:      cp.FailedCount,
			Batches:     cp.Batches,
			CompletedAt: cp.CompletedAt,
		})
	}
	return out
}

func NextStep(sess *statex.Session) string {
	switch sess.CurrentPhase {
	case statex.PhaseStaff:
		return "Add staff members with onboarding_add_staff_batch."
	case statex.PhaseServicesAndCategories:
		if cp, ok := sess.Checkpoint(statex.CheckpointCategories); ok && cp.HasSuccesses() {
			return "Add services with onboarding_add_services_batch. New services go into the first created category unless category_id is set."
		}
		return "Create service categories with onboarding_add_categories, then add services with onboarding_add_services_batch."
	case statex.PhaseClients:
		return "Import clients with onboarding_import_clients, or skip ahead to onboarding_create_test_bookings."
	case statex.PhaseTestBookings:
		return "Create test bookings with onboarding_create_test_bookings to verify the setup."
	case statex.PhaseComplete:
		return "Onboarding is complete. Use onboarding_rollback_phase to undo a phase if needed."
	default:
		return "Check onboarding status with onboarding_status."
	}
}
