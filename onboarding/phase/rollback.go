package phase

import (
	"context"
	"fmt"

	"github.com/tanpawarit/salon-onboarding-mcp/onboarding/contract"
	statex "github.com/tanpawarit/salon-onboarding-mcp/onboarding/state"
)

// DeleteEntity issues the remote delete matching kind.
func DeleteEntity(ctx context.Context, remote contract.Remote, companyID int, kind statex.EntityKind, id int) error {
	switch kind {
	case statex.EntityStaff:
		return remote.DeleteStaff(ctx, companyID, id)
	case statex.EntityCategory:
		return remote.DeleteServiceCategory(ctx, companyID, id)
	case statex.EntityService:
		return remote.DeleteService(ctx, companyID, id)
	case statex.EntityClient:
		return remote.DeleteCustomer(ctx, companyID, id)
	case statex.EntityBooking:
		return remote.DeleteBooking(ctx, companyID, id)
	default:
		return fmt.Errorf("no delete operation for entity kind %q", kind)
	}
}
