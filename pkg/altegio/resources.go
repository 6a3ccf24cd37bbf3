package altegio

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

func (c *Client) GetCompanies(ctx context.Context, q CompanyQuery) ([]Company, error) {
	query := pageValues(q.Page, q.Count)
	if q.My > 0 {
		query.Set("my", strconv.Itoa(q.My))
	}
	var out []Company
	if err := c.do(ctx, http.MethodGet, "/companies", query, nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

/* --------------------------------- staff --------------------------------- */

func (c *Client) GetStaff(ctx context.Context, companyID int, q PageQuery) ([]Staff, error) {
	var out []Staff
	path := fmt.Sprintf("/company/%d/staff", companyID)
	if err := c.do(ctx, http.MethodGet, path, pageValues(q.Page, q.Count), nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateStaff(ctx context.Context, companyID int, in StaffInput) (*Staff, error) {
	var out Staff
	path := fmt.Sprintf("/company/%d/staff/quick", companyID)
	if err := c.do(ctx, http.MethodPost, path, nil, in, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateStaff(ctx context.Context, companyID, staffID int, in StaffUpdate) (*Staff, error) {
	var out Staff
	path := fmt.Sprintf("/company/%d/staff/%d", companyID, staffID)
	if err := c.do(ctx, http.MethodPut, path, nil, in, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteStaff(ctx context.Context, companyID, staffID int) error {
	path := fmt.Sprintf("/company/%d/staff/%d", companyID, staffID)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil, true)
}

/* -------------------------------- services ------------------------------- */

func (c *Client) GetServices(ctx context.Context, companyID int, q PageQuery) ([]Service, error) {
	var out []Service
	path := fmt.Sprintf("/company/%d/services", companyID)
	if err := c.do(ctx, http.MethodGet, path, pageValues(q.Page, q.Count), nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateService(ctx context.Context, companyID int, in ServiceInput) (*Service, error) {
	var out Service
	path := fmt.Sprintf("/company/%d/services", companyID)
	if err := c.do(ctx, http.MethodPost, path, nil, in, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateService(ctx context.Context, companyID, serviceID int, in ServiceUpdate) (*Service, error) {
	var out Service
	path := fmt.Sprintf("/company/%d/services/%d", companyID, serviceID)
	if err := c.do(ctx, http.MethodPatch, path, nil, in, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteService(ctx context.Context, companyID, serviceID int) error {
	path := fmt.Sprintf("/company/%d/services/%d", companyID, serviceID)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil, true)
}

/* ------------------------------- categories ------------------------------ */

// GetServiceCategories is a public endpoint; only the partner token is sent.
func (c *Client) GetServiceCategories(ctx context.Context, companyID int, q PageQuery) ([]ServiceCategory, error) {
	var out []ServiceCategory
	path := fmt.Sprintf("/company/%d/service_categories", companyID)
	if err := c.do(ctx, http.MethodGet, path, pageValues(q.Page, q.Count), nil, &out, false); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateServiceCategory(ctx context.Context, companyID int, in CategoryInput) (*ServiceCategory, error) {
	var out ServiceCategory
	path := fmt.Sprintf("/service_categories/%d", companyID)
	if err := c.do(ctx, http.MethodPost, path, nil, in, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteServiceCategory(ctx context.Context, companyID, categoryID int) error {
	path := fmt.Sprintf("/service_category/%d/%d", companyID, categoryID)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil, true)
}

/* -------------------------------- clients -------------------------------- */

func (c *Client) CreateCustomer(ctx context.Context, companyID int, in CustomerInput) (*Customer, error) {
	var out Customer
	path := fmt.Sprintf("/clients/%d", companyID)
	if err := c.do(ctx, http.MethodPost, path, nil, in, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteCustomer(ctx context.Context, companyID, clientID int) error {
	path := fmt.Sprintf("/client/%d/%d", companyID, clientID)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil, true)
}

/* -------------------------------- bookings ------------------------------- */

func (c *Client) GetBookings(ctx context.Context, companyID int, q BookingQuery) ([]Booking, error) {
	query := pageValues(q.Page, q.Count)
	if q.StartDate != "" {
		query.Set("start_date", q.StartDate)
	}
	if q.EndDate != "" {
		query.Set("end_date", q.EndDate)
	}
	var out []Booking
	path := fmt.Sprintf("/records/%d", companyID)
	if err := c.do(ctx, http.MethodGet, path, query, nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateBooking(ctx context.Context, companyID int, in BookingInput) (*Booking, error) {
	var out Booking
	path := fmt.Sprintf("/records/%d", companyID)
	if err := c.do(ctx, http.MethodPost, path, nil, in, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateBooking(ctx context.Context, companyID, recordID int, in BookingUpdate) (*Booking, error) {
	var out Booking
	path := fmt.Sprintf("/record/%d/%d", companyID, recordID)
	if err := c.do(ctx, http.MethodPut, path, nil, in, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteBooking(ctx context.Context, companyID, recordID int) error {
	path := fmt.Sprintf("/record/%d/%d", companyID, recordID)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil, true)
}

/* -------------------------------- schedule ------------------------------- */

func (c *Client) GetSchedule(ctx context.Context, companyID, staffID int, startDate, endDate string) ([]ScheduleEntry, error) {
	var out []ScheduleEntry
	path := fmt.Sprintf("/schedule/%d/%d/%s/%s", companyID, staffID, url.PathEscape(startDate), url.PathEscape(endDate))
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateSchedule(ctx context.Context, companyID int, in ScheduleInput) ([]ScheduleEntry, error) {
	var out []ScheduleEntry
	path := fmt.Sprintf("/schedule/%d", companyID)
	if err := c.do(ctx, http.MethodPost, path, nil, in, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdateSchedule(ctx context.Context, companyID int, in ScheduleInput) ([]ScheduleEntry, error) {
	var out []ScheduleEntry
	path := fmt.Sprintf("/schedule/%d", companyID)
	if err := c.do(ctx, http.MethodPut, path, nil, in, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DeleteSchedule(ctx context.Context, companyID, staffID int, date string) error {
	path := fmt.Sprintf("/schedule/%d/%d/%s", companyID, staffID, url.PathEscape(date))
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil, true)
}

/* -------------------------------- positions ------------------------------ */

func (c *Client) GetPositions(ctx context.Context, companyID int) ([]Position, error) {
	var out []Position
	path := fmt.Sprintf("/company/%d/staff/positions", companyID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreatePosition(ctx context.Context, companyID int, in PositionInput) (*Position, error) {
	var out Position
	path := fmt.Sprintf("/company/%d/staff/positions", companyID)
	if err := c.do(ctx, http.MethodPost, path, nil, in, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdatePosition(ctx context.Context, companyID, positionID int, in PositionInput) (*Position, error) {
	var out Position
	path := fmt.Sprintf("/company/%d/staff/positions/%d", companyID, positionID)
	if err := c.do(ctx, http.MethodPut, path, nil, in, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeletePosition(ctx context.Context, companyID, positionID int) error {
	path := fmt.Sprintf("/company/%d/staff/positions/%d", companyID, positionID)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil, true)
}
