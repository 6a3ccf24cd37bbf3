package phase

import (
	"context"
	"fmt"

	"github.com/tanpawarit/salon-onboarding-mcp/onboarding/contract"
	"github.com/tanpawarit/salon-onboarding-mcp/onboarding/rows"
	statex "github.com/tanpawarit/salon-onboarding-mcp/onboarding/state"
	"github.com/tanpawarit/salon-onboarding-mcp/pkg/altegio"
)

type StaffRow struct {
	Name           string `mapstructure:"name" validate:"required"`
	Specialization string `mapstructure:"specialization"`
	Phone          string `mapstructure:"phone"`
	Email          string `mapstructure:"email" validate:"omitempty,email"`
	PositionID     int    `mapstructure:"position_id" validate:"gte=0"`
	APIID          string `mapstructure:"api_id"`
}

var Staff = Spec{
	Checkpoint: statex.CheckpointStaff,
	prepare: func(row rows.Row, _ *statex.Session) (Job, error) {
		var r StaffRow
		if err := decodeRow(row, &r); err != nil {
			return nil, err
		}
		in := altegio.StaffInput{
			Name:           r.Name,
			Specialization: r.Specialization,
			PositionID:     optionalInt(r.PositionID),
			PhoneNumber:    optionalString(r.Phone),
			UserEmail:      r.Email,
			UserPhone:      r.Phone,
			APIID:          r.APIID,
		}
		return func(ctx context.Context, remote contract.Remote, companyID int) (int, error) {
			created, err := remote.CreateStaff(ctx, companyID, in)
			if err != nil {
				return 0, err
			}
			return created.ID, nil
		}, nil
	},
}

type CategoryRow struct {
	Title  string `mapstructure:"title" validate:"required"`
	APIID  string `mapstructure:"api_id"`
	Weight int    `mapstructure:"weight" validate:"gte=0"`
}

var Categories = Spec{
	Checkpoint: statex.CheckpointCategories,
	prepare: func(row rows.Row, _ *statex.Session) (Job, error) {
		var r CategoryRow
		if err := decodeRow(row, &r); err != nil {
			return nil, err
		}
		in := altegio.CategoryInput{Title: r.Title, APIID: r.APIID, Weight: optionalInt(r.Weight)}
		return func(ctx context.Context, remote contract.Remote, companyID int) (int, error) {
			created, err := remote.CreateServiceCategory(ctx, companyID, in)
			if err != nil {
				return 0, err
			}
			return created.ID, nil
		}, nil
	},
}

type ServiceRow struct {
	Title      string  `mapstructure:"title" validate:"required"`
	PriceMin   float64 `mapstructure:"price_min" validate:"gte=0"`
	PriceMax   float64 `mapstructure:"price_max" validate:"gte=0"`
	Duration   int     `mapstructure:"duration" validate:"gte=0"`
	CategoryID int     `mapstructure:"category_id" validate:"gte=0"`
	Comment    string  `mapstructure:"comment"`
	APIID      string  `mapstructure:"api_id"`
}

// Services rows without category_id fall back to the first category this
// onboarding created.
var Services = Spec{
	Checkpoint: statex.CheckpointServices,
	prepare: func(row rows.Row, sess *statex.Session) (Job, error) {
		var r ServiceRow
		if err := decodeRow(row, &r); err != nil {
			return nil, err
		}
		if r.PriceMax > 0 && r.PriceMax < r.PriceMin {
			return nil, fmt.Errorf("%w: price_max must be >= price_min", contract.ErrValidation)
		}

		categoryID := r.CategoryID
		if categoryID == 0 {
			categoryID = firstCreated(sess, statex.CheckpointCategories, statex.EntityCategory)
		}
		if categoryID == 0 {
			return nil, fmt.Errorf("%w: category_id is required (no categories created yet)", contract.ErrValidation)
		}

		in := altegio.ServiceInput{
			Title:      r.Title,
			CategoryID: categoryID,
			PriceMin:   optionalFloat(r.PriceMin),
			PriceMax:   optionalFloat(r.PriceMax),
			Duration:   optionalInt(r.Duration),
			Comment:    r.Comment,
			APIID:      r.APIID,
		}
		return func(ctx context.Context, remote contract.Remote, companyID int) (int, error) {
			created, err := remote.CreateService(ctx, companyID, in)
			if err != nil {
				return 0, err
			}
			return created.ID, nil
		}, nil
	},
}

type ClientRow struct {
	Name    string `mapstructure:"name"`
	Surname string `mapstructure:"surname"`
	Phone   string `mapstructure:"phone" validate:"required_without=Email"`
	Email   string `mapstructure:"email" validate:"omitempty,email"`
	Comment string `mapstructure:"comment"`
}

var Clients = Spec{
	Checkpoint: statex.CheckpointClients,
	prepare: func(row rows.Row, _ *statex.Session) (Job, error) {
		var r ClientRow
		if err := decodeRow(row, &r); err != nil {
			return nil, err
		}
		in := altegio.CustomerInput{
			Name:    r.Name,
			Surname: r.Surname,
			Phone:   r.Phone,
			Email:   r.Email,
			Comment: r.Comment,
		}
		return func(ctx context.Context, remote contract.Remote, companyID int) (int, error) {
			created, err := remote.CreateCustomer(ctx, companyID, in)
			if err != nil {
				return 0, err
			}
			return created.ID, nil
		}, nil
	},
}

func firstCreated(sess *statex.Session, name statex.CheckpointName, kind statex.EntityKind) int {
	ids := createdIDs(sess, name, kind)
	if len(ids) == 0 {
		return 0
	}
	return ids[0]
}
