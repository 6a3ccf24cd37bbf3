package tool

import (
	"github.com/tanpawarit/salon-onboarding-mcp/onboarding/phase"
	"github.com/tanpawarit/salon-onboarding-mcp/pkg/altegio"
)

// decode maps tool arguments onto out and runs its validate tags. Numbers
// arrive as float64 from JSON and are narrowed to the field types.
func decode[T any](args map[string]any) (T, error) {
	var out T
	if args == nil {
		args = map[string]any{}
	}
	err := phase.Decode(args, &out)
	return out, err
}

type loginArgs struct {
	Email    string `mapstructure:"email" validate:"required,email"`
	Password string `mapstructure:"password" validate:"required"`
}

type companyArgs struct {
	CompanyID int `mapstructure:"company_id" validate:"gt=0"`
}

type pageArgs struct {
	CompanyID int `mapstructure:"company_id" validate:"gt=0"`
	Page      int `mapstructure:"page" validate:"gte=0"`
	Count     int `mapstructure:"count" validate:"gte=0"`
}

type listCompaniesArgs struct {
	My    int `mapstructure:"my" validate:"gte=0,lte=1"`
	Page  int `mapstructure:"page" validate:"gte=0"`
	Count int `mapstructure:"count" validate:"gte=0"`
}

type createStaffArgs struct {
	CompanyID      int     `mapstructure:"company_id" validate:"gt=0"`
	Name           string  `mapstructure:"name" validate:"required"`
	Specialization string  `mapstructure:"specialization" validate:"required"`
	PositionID     *int    `mapstructure:"position_id" validate:"omitempty,gt=0"`
	PhoneNumber    *string `mapstructure:"phone_number"`
	UserEmail      string  `mapstructure:"user_email" validate:"required,email"`
	UserPhone      string  `mapstructure:"user_phone" validate:"required"`
	IsUserInvite   bool    `mapstructure:"is_user_invite"`
}

type updateStaffArgs struct {
	CompanyID      int     `mapstructure:"company_id" validate:"gt=0"`
	StaffID        int     `mapstructure:"staff_id" validate:"gt=0"`
	Name           *string `mapstructure:"name" validate:"omitempty,min=1"`
	Specialization *string `mapstructure:"specialization"`
	PositionID     *int    `mapstructure:"position_id" validate:"omitempty,gt=0"`
	PhoneNumber    *string `mapstructure:"phone_number"`
	Hidden         *int    `mapstructure:"hidden" validate:"omitempty,min=0,max=1"`
	Fired          *int    `mapstructure:"fired" validate:"omitempty,min=0,max=1"`
}

type staffRefArgs struct {
	CompanyID int `mapstructure:"company_id" validate:"gt=0"`
	StaffID   int `mapstructure:"staff_id" validate:"gt=0"`
}

type createServiceArgs struct {
	CompanyID  int      `mapstructure:"company_id" validate:"gt=0"`
	Title      string   `mapstructure:"title" validate:"required"`
	CategoryID int      `mapstructure:"category_id" validate:"gt=0"`
	PriceMin   *float64 `mapstructure:"price_min" validate:"omitempty,gte=0"`
	PriceMax   *float64 `mapstructure:"price_max" validate:"omitempty,gte=0"`
	Discount   *float64 `mapstructure:"discount" validate:"omitempty,gte=0"`
	Comment    string   `mapstructure:"comment"`
	Duration   *int     `mapstructure:"duration" validate:"omitempty,gt=0"`
	Prepaid    string   `mapstructure:"prepaid"`
}

type updateServiceArgs struct {
	CompanyID  int      `mapstructure:"company_id" validate:"gt=0"`
	ServiceID  int      `mapstructure:"service_id" validate:"gt=0"`
	Title      *string  `mapstructure:"title" validate:"omitempty,min=1"`
	CategoryID *int     `mapstructure:"category_id" validate:"omitempty,gt=0"`
	PriceMin   *float64 `mapstructure:"price_min" validate:"omitempty,gte=0"`
	PriceMax   *float64 `mapstructure:"price_max" validate:"omitempty,gte=0"`
	Discount   *float64 `mapstructure:"discount" validate:"omitempty,gte=0"`
	Comment    *string  `mapstructure:"comment"`
	Duration   *int     `mapstructure:"duration" validate:"omitempty,gt=0"`
	Active     *int     `mapstructure:"active" validate:"omitempty,min=0,max=1"`
}

type getBookingsArgs struct {
	CompanyID int    `mapstructure:"company_id" validate:"gt=0"`
	Page      int    `mapstructure:"page" validate:"gte=0"`
	Count     int    `mapstructure:"count" validate:"gte=0"`
	StartDate string `mapstructure:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `mapstructure:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

type bookingServiceArg struct {
	ID     int      `mapstructure:"id" validate:"gt=0"`
	Amount *float64 `mapstructure:"amount" validate:"omitempty,gt=0"`
}

type bookingClientArg struct {
	Name  string `mapstructure:"name" validate:"required"`
	Phone string `mapstructure:"phone" validate:"required"`
	Email string `mapstructure:"email" validate:"omitempty,email"`
}

type bookingClientPatch struct {
	Name  string `mapstructure:"name"`
	Phone string `mapstructure:"phone"`
	Email string `mapstructure:"email" validate:"omitempty,email"`
}

type createBookingArgs struct {
	CompanyID    int                 `mapstructure:"company_id" validate:"gt=0"`
	StaffID      int                 `mapstructure:"staff_id" validate:"gt=0"`
	Services     []bookingServiceArg `mapstructure:"services" validate:"min=1,dive"`
	Datetime     string              `mapstructure:"datetime" validate:"required"`
	SeanceLength *int                `mapstructure:"seance_length" validate:"omitempty,gt=0"`
	Client       bookingClientArg    `mapstructure:"client"`
	Comment      string              `mapstructure:"comment"`
	SendSMS      *int                `mapstructure:"send_sms" validate:"omitempty,min=0,max=1"`
	Attendance   *int                `mapstructure:"attendance" validate:"omitempty,min=-1,max=2"`
}

type updateBookingArgs struct {
	CompanyID    int                 `mapstructure:"company_id" validate:"gt=0"`
	RecordID     int                 `mapstructure:"record_id" validate:"gt=0"`
	StaffID      *int                `mapstructure:"staff_id" validate:"omitempty,gt=0"`
	Services     []bookingServiceArg `mapstructure:"services" validate:"omitempty,dive"`
	Datetime     *string             `mapstructure:"datetime" validate:"omitempty,min=1"`
	SeanceLength *int                `mapstructure:"seance_length" validate:"omitempty,gt=0"`
	Client       *bookingClientPatch `mapstructure:"client"`
	Comment      *string             `mapstructure:"comment"`
	Attendance   *int                `mapstructure:"attendance" validate:"omitempty,min=-1,max=2"`
}

type bookingRefArgs struct {
	CompanyID int `mapstructure:"company_id" validate:"gt=0"`
	RecordID  int `mapstructure:"record_id" validate:"gt=0"`
}

type getScheduleArgs struct {
	CompanyID int    `mapstructure:"company_id" validate:"gt=0"`
	StaffID   int    `mapstructure:"staff_id" validate:"gt=0"`
	StartDate string `mapstructure:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `mapstructure:"end_date" validate:"required,datetime=2006-01-02"`
}

type scheduleArgs struct {
	CompanyID    int    `mapstructure:"company_id" validate:"gt=0"`
	StaffID      int    `mapstructure:"staff_id" validate:"gt=0"`
	Date         string `mapstructure:"date" validate:"required,datetime=2006-01-02"`
	TimeFrom     string `mapstructure:"time_from" validate:"omitempty,datetime=15:04"`
	TimeTo       string `mapstructure:"time_to" validate:"omitempty,datetime=15:04"`
	SeanceLength *int   `mapstructure:"seance_length" validate:"omitempty,gt=0"`
}

func (a scheduleArgs) input() altegio.ScheduleInput {
	return altegio.ScheduleInput{
		StaffID:      a.StaffID,
		Date:         a.Date,
		TimeFrom:     a.TimeFrom,
		TimeTo:       a.TimeTo,
		SeanceLength: a.SeanceLength,
	}
}

type scheduleRefArgs struct {
	CompanyID int    `mapstructure:"company_id" validate:"gt=0"`
	StaffID   int    `mapstructure:"staff_id" validate:"gt=0"`
	Date      string `mapstructure:"date" validate:"required,datetime=2006-01-02"`
}

type createPositionArgs struct {
	CompanyID int    `mapstructure:"company_id" validate:"gt=0"`
	Title     string `mapstructure:"title" validate:"required"`
	APIID     string `mapstructure:"api_id"`
}

type updatePositionArgs struct {
	CompanyID  int    `mapstructure:"company_id" validate:"gt=0"`
	PositionID int    `mapstructure:"position_id" validate:"gt=0"`
	Title      string `mapstructure:"title"`
	APIID      string `mapstructure:"api_id"`
}

type positionRefArgs struct {
	CompanyID  int `mapstructure:"company_id" validate:"gt=0"`
	PositionID int `mapstructure:"position_id" validate:"gt=0"`
}

type staffBatchArgs struct {
	CompanyID int `mapstructure:"company_id" validate:"gt=0"`
	StaffData any `mapstructure:"staff_data" validate:"required"`
}

type servicesBatchArgs struct {
	CompanyID    int `mapstructure:"company_id" validate:"gt=0"`
	ServicesData any `mapstructure:"services_data" validate:"required"`
}

type categoriesArgs struct {
	CompanyID  int `mapstructure:"company_id" validate:"gt=0"`
	Categories any `mapstructure:"categories" validate:"required"`
}

type clientsArgs struct {
	CompanyID  int    `mapstructure:"company_id" validate:"gt=0"`
	ClientsCSV string `mapstructure:"clients_csv" validate:"required"`
}

type testBookingsArgs struct {
	CompanyID int  `mapstructure:"company_id" validate:"gt=0"`
	Count     *int `mapstructure:"count" validate:"omitempty,min=1,max=10"`
}

// count resolves an absent count to the default. An explicit zero is kept
// so validation rejects it.
func (a testBookingsArgs) count() int {
	if a.Count == nil {
		return phase.DefaultBookingCount
	}
	return *a.Count
}

type previewArgs struct {
	DataType string `mapstructure:"data_type" validate:"required,oneof=staff services clients categories"`
	RawInput string `mapstructure:"raw_input"`
}

type rollbackArgs struct {
	CompanyID int    `mapstructure:"company_id" validate:"gt=0"`
	PhaseName string `mapstructure:"phase_name" validate:"required"`
}
