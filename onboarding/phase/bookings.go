package phase

import (
	"context"
	"fmt"
	"time"

	"github.com/tanpawarit/salon-onboarding-mcp/onboarding/contract"
	statex "github.com/tanpawarit/salon-onboarding-mcp/onboarding/state"
	"github.com/tanpawarit/salon-onboarding-mcp/pkg/altegio"
)

const (
	DefaultBookingCount = 5
	MinBookingCount     = 1
	MaxBookingCount     = 10

	bookingDateLayout   = "2006-01-02 15:04:05"
	bookingComment      = "Onboarding test booking"
	bookingSeanceLength = 3600
	firstBookingHour    = 10
)

// PlanBookings builds count synthetic bookings over the next 1-7 days,
// round-robin across the staff and services this onboarding created.
func PlanBookings(sess *statex.Session, count int, now time.Time) ([]Item, error) {
	if count < MinBookingCount || count > MaxBookingCount {
		return nil, fmt.Errorf("%w: count must be between %d and %d", contract.ErrValidation, MinBookingCount, MaxBookingCount)
	}

	staffIDs := createdIDs(sess, statex.CheckpointStaff, statex.EntityStaff)
	serviceIDs := createdIDs(sess, statex.CheckpointServices, statex.EntityService)
	if len(staffIDs) == 0 || len(serviceIDs) == 0 {
		return nil, fmt.Errorf("%w: staff and services must each have at least one created entity", contract.ErrPrerequisiteNotMet)
	}

	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	items := make([]Item, 0, count)
	for i := 0; i < count; i++ {
		at := day.AddDate(0, 0, i%7+1).Add(time.Duration(firstBookingHour+i%8) * time.Hour)
		seance := bookingSeanceLength
		in := altegio.BookingInput{
			StaffID:      staffIDs[i%len(staffIDs)],
			Services:     []altegio.BookingService{{ID: serviceIDs[i%len(serviceIDs)]}},
			Datetime:     at.Format(bookingDateLayout),
			SeanceLength: &seance,
			Client: altegio.BookingClient{
				Name:  fmt.Sprintf("Test Client %d", i+1),
				Phone: fmt.Sprintf("+1555000%04d", i+1),
			},
			Comment: bookingComment,
		}
		items = append(items, Item{
			Row: i,
			Job: func(ctx context.Context, remote contract.Remote, companyID int) (int, error) {
				created, err := remote.CreateBooking(ctx, companyID, in)
				if err != nil {
					return 0, err
				}
				return created.ID, nil
			},
		})
	}
	return items, nil
}

func createdIDs(sess *statex.Session, name statex.CheckpointName, kind statex.EntityKind) []int {
	cp, ok := sess.Checkpoint(name)
	if !ok || !cp.HasSuccesses() {
		return nil
	}
	return cp.IDs(kind)
}
