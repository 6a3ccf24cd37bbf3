package contract

import (
	"context"

	"github.com/tanpawarit/salon-onboarding-mcp/pkg/altegio"
)

// Remote is the slice of the Altegio API the onboarding workflow needs.
// *altegio.Client satisfies it.
type Remote interface {
	CreateStaff(ctx context.Context, companyID int, in altegio.StaffInput) (*altegio.Staff, error)
	DeleteStaff(ctx context.Context, companyID, staffID int) error

	CreateServiceCategory(ctx context.Context, companyID int, in altegio.CategoryInput) (*altegio.ServiceCategory, error)
	DeleteServiceCategory(ctx context.Context, companyID, categoryID int) error

	CreateService(ctx context.Context, companyID int, in altegio.ServiceInput) (*altegio.Service, error)
	DeleteService(ctx context.Context, companyID, serviceID int) error

	CreateCustomer(ctx context.Context, companyID int, in altegio.CustomerInput) (*altegio.Customer, error)
	DeleteCustomer(ctx context.Context, companyID, clientID int) error

	CreateBooking(ctx context.Context, companyID int, in altegio.BookingInput) (*altegio.Booking, error)
	DeleteBooking(ctx context.Context, companyID, recordID int) error
}

// Publisher receives progress events after a session change is persisted.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}
