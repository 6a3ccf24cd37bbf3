package altegio

type Company struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	PublicTitle string `json:"public_title,omitempty"`
	Address     string `json:"address,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

type CompanyQuery struct {
	My    int `json:"my,omitempty"`
	Page  int `json:"page,omitempty"`
	Count int `json:"count,omitempty"`
}

type PageQuery struct {
	Page  int `json:"page,omitempty"`
	Count int `json:"count,omitempty"`
}

type Position struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	APIID string `json:"api_id,omitempty"`
}

type PositionInput struct {
	Title string `json:"title,omitempty"`
	APIID string `json:"api_id,omitempty"`
}

type Staff struct {
	ID             int       `json:"id"`
	Name           string    `json:"name"`
	Specialization string    `json:"specialization,omitempty"`
	Rating         *float64  `json:"rating,omitempty"`
	Position       *Position `json:"position,omitempty"`
	Hidden         int       `json:"hidden,omitempty"`
	Fired          int       `json:"fired,omitempty"`
}

type StaffInput struct {
	Name           string  `json:"name"`
	Specialization string  `json:"specialization"`
	PositionID     *int    `json:"position_id"`
	PhoneNumber    *string `json:"phone_number"`
	UserEmail      string  `json:"user_email,omitempty"`
	UserPhone      string  `json:"user_phone,omitempty"`
	IsUserInvite   bool    `json:"is_user_invite"`
	APIID          string  `json:"api_id,omitempty"`
}

type StaffUpdate struct {
	Name           *string `json:"name,omitempty"`
	Specialization *string `json:"specialization,omitempty"`
	PositionID     *int    `json:"position_id,omitempty"`
	PhoneNumber    *string `json:"phone_number,omitempty"`
	Hidden         *int    `json:"hidden,omitempty"`
	Fired          *int    `json:"fired,omitempty"`
}

type Service struct {
	ID         int     `json:"id"`
	Title      string  `json:"title"`
	CategoryID int     `json:"category_id,omitempty"`
	PriceMin   float64 `json:"price_min,omitempty"`
	PriceMax   float64 `json:"price_max,omitempty"`
	Cost       float64 `json:"cost,omitempty"`
	Duration   int     `json:"duration,omitempty"`
	Active     int     `json:"active,omitempty"`
}

type ServiceInput struct {
	Title      string   `json:"title"`
	CategoryID int      `json:"category_id"`
	PriceMin   *float64 `json:"price_min,omitempty"`
	PriceMax   *float64 `json:"price_max,omitempty"`
	Discount   *float64 `json:"discount,omitempty"`
	Comment    string   `json:"comment,omitempty"`
	Duration   *int     `json:"duration,omitempty"`
	Prepaid    string   `json:"prepaid,omitempty"`
	APIID      string   `json:"api_id,omitempty"`
}

type ServiceUpdate struct {
	Title      *string  `json:"title,omitempty"`
	CategoryID *int     `json:"category_id,omitempty"`
	PriceMin   *float64 `json:"price_min,omitempty"`
	PriceMax   *float64 `json:"price_max,omitempty"`
	Discount   *float64 `json:"discount,omitempty"`
	Comment    *string  `json:"comment,omitempty"`
	Duration   *int     `json:"duration,omitempty"`
	Active     *int     `json:"active,omitempty"`
}

type ServiceCategory struct {
	ID       int       `json:"id"`
	Title    string    `json:"title"`
	APIID    string    `json:"api_id,omitempty"`
	Weight   int       `json:"weight,omitempty"`
	Services []Service `json:"services,omitempty"`
}

type CategoryInput struct {
	Title  string `json:"title"`
	APIID  string `json:"api_id,omitempty"`
	Weight *int   `json:"weight,omitempty"`
}

// Customer is an Altegio client record (the salon's customer).
type Customer struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Surname string `json:"surname,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Comment string `json:"comment,omitempty"`
}

type CustomerInput struct {
	Name    string `json:"name"`
	Surname string `json:"surname,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Comment string `json:"comment,omitempty"`
}

type BookingService struct {
	ID     int      `json:"id"`
	Title  string   `json:"title,omitempty"`
	Amount *float64 `json:"amount,omitempty"`
}

type BookingClient struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

type Booking struct {
	ID           int              `json:"id"`
	StaffID      int              `json:"staff_id"`
	Datetime     string           `json:"datetime,omitempty"`
	Date         string           `json:"date,omitempty"`
	SeanceLength int              `json:"seance_length,omitempty"`
	Status       string           `json:"status,omitempty"`
	Comment      string           `json:"comment,omitempty"`
	Client       *BookingClient   `json:"client,omitempty"`
	Staff        *Staff           `json:"staff,omitempty"`
	Services     []BookingService `json:"services,omitempty"`
}

type BookingInput struct {
	StaffID      int              `json:"staff_id"`
	Services     []BookingService `json:"services"`
	Datetime     string           `json:"datetime"`
	SeanceLength *int             `json:"seance_length,omitempty"`
	Client       BookingClient    `json:"client"`
	Comment      string           `json:"comment,omitempty"`
	SendSMS      *int             `json:"send_sms,omitempty"`
	Attendance   *int             `json:"attendance,omitempty"`
}

type BookingUpdate struct {
	StaffID      *int             `json:"staff_id,omitempty"`
	Services     []BookingService `json:"services,omitempty"`
	Datetime     *string          `json:"datetime,omitempty"`
	SeanceLength *int             `json:"seance_length,omitempty"`
	Client       *BookingClient   `json:"client,omitempty"`
	Comment      *string          `json:"comment,omitempty"`
	Attendance   *int             `json:"attendance,omitempty"`
}

type BookingQuery struct {
	Page      int    `json:"page,omitempty"`
	Count     int    `json:"count,omitempty"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

type ScheduleEntry struct {
	Date         string `json:"date"`
	Time         string `json:"time"`
	SeanceLength int    `json:"seance_length"`
}

type ScheduleInput struct {
	StaffID      int    `json:"staff_id"`
	Date         string `json:"date"`
	TimeFrom     string `json:"time_from,omitempty"`
	TimeTo       string `json:"time_to,omitempty"`
	SeanceLength *int   `json:"seance_length,omitempty"`
}
