package tool

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	contractx "github.com/tanpawarit/salon-onboarding-mcp/onboarding/contract"
	"github.com/tanpawarit/salon-onboarding-mcp/pkg/altegio"
)

const authNote = " AUTHENTICATION REQUIRED."

func (c *Catalog) authTools() []definition {
	return []definition{
		{
			tool: newTool("altegio_login",
				opts(
					mcp.WithDescription("[Auth] Log in to Altegio with user credentials. Required before any tool marked AUTHENTICATION REQUIRED."),
					mcp.WithString("email", mcp.Required(), mcp.Description("User email")),
					mcp.WithString("password", mcp.Required(), mcp.Description("User password")),
				), writes()),
			handle: func(ctx context.Context, args map[string]any) (string, error) {
				a, err := decode[loginArgs](args)
				if err != nil {
					return "", err
				}
				if err := c.api.Login(ctx, a.Email, a.Password); err != nil {
					return "", fmt.Errorf("login failed: %w", err)
				}
				return "Successfully logged in to Altegio", nil
			},
		},
		{
			tool: newTool("altegio_logout",
				opts(mcp.WithDescription("[Auth] Log out and clear the stored user token.")), writes()),
			handle: func(ctx context.Context, _ map[string]any) (string, error) {
				if err := c.api.Logout(ctx); err != nil {
					return "", err
				}
				return "Successfully logged out from Altegio", nil
			},
		},
	}
}

func (c *Catalog) companyTools() []definition {
	return []definition{{
		tool: newTool("list_companies",
			opts(
				mcp.WithDescription("[Companies] List companies. Set my=1 to list only companies the logged-in user can manage."),
				mcp.WithNumber("my", mcp.Min(0), mcp.Max(1), mcp.Description("1 = only user companies")),
			), withPaging(), readOnly()),
		handle: func(ctx context.Context, args map[string]any) (string, error) {
			a, err := decode[listCompaniesArgs](args)
			if err != nil {
				return "", err
			}
			companies, err := c.api.GetCompanies(ctx, altegio.CompanyQuery{My: a.My, Page: a.Page, Count: a.Count})
			if err != nil {
				return "", err
			}
			return formatCompanies(companies, a.My == 1), nil
		},
	}}
}

func (c *Catalog) staffTools() []definition {
	return []definition{
		{
			requiresAuth: true,
			tool: newTool("get_staff",
				opts(mcp.WithDescription("[Staff] List staff members of a company."+authNote), withCompanyID()),
				withPaging(), readOnly()),
			handle: func(ctx context.Context, args map[string]any) (string, error) {
				a, err := decode[pageArgs](args)
				if err != nil {
					return "", err
				}
				staff, err := c.api.GetStaff(ctx, a.CompanyID, altegio.PageQuery{Page: a.Page, Count: a.Count})
				if err != nil {
					return "", err
				}
				return formatStaff(staff, a.CompanyID), nil
			},
		},
		{
			requiresAuth: true,
			tool: newTool("create_staff",
				opts(
					mcp.WithDescription("[Staff] Create a staff member. For many staff at once use onboarding_add_staff_batch."+authNote),
					withCompanyID(),
					mcp.WithString("name", mcp.Required(), mcp.Description("Full name")),
					mcp.WithString("specialization", mcp.Required(), mcp.Description("Specialization, e.g. Hair Stylist")),
					mcp.WithNumber("position_id", mcp.Description("Position ID from get_positions")),
					mcp.WithString("phone_number", mcp.Description("Phone number")),
					mcp.WithString("user_email", mcp.Required(), mcp.Description("Email for the staff user account")),
					mcp.WithString("user_phone", mcp.Required(), mcp.Description("Phone for the staff user account")),
					mcp.WithBoolean("is_user_invite", mcp.Required(), mcp.Description("Send an invitation to the staff user")),
				), writes()),
			handle: func(ctx context.Context, args map[string]any) (string, error) {
				a, err := decode[createStaffArgs](args)
				if err != nil {
					return "", err
				}
				s, err := c.api.CreateStaff(ctx, a.CompanyID, altegio.StaffInput{
					Name:           a.Name,
					Specialization: a.Specialization,
					PositionID:     a.PositionID,
					PhoneNumber:    a.PhoneNumber,
					UserEmail:      a.UserEmail,
					UserPhone:      a.UserPhone,
					IsUserInvite:   a.IsUserInvite,
				})
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("Successfully created staff member:\nID: %d\nName: %s\nSpecialization: %s", s.ID, s.Name, s.Specialization), nil
			},
		},
		{
			requiresAuth: true,
			tool: newTool("update_staff",
				opts(
					mcp.WithDescription("[Staff] Update a staff member. Only provided fields change."+authNote),
					withCompanyID(),
					mcp.WithNumber("staff_id", mcp.Required(), mcp.Min(1), mcp.Description("Staff ID")),
					mcp.WithString("name", mcp.Description("Full name")),
					mcp.WithString("specialization", mcp.Description("Specialization")),
					mcp.WithNumber("position_id", mcp.Description("Position ID")),
					mcp.WithString("phone_number", mcp.Description("Phone number")),
					mcp.WithNumber("hidden", mcp.Min(0), mcp.Max(1), mcp.Description("1 = hide from online booking")),
					mcp.WithNumber("fired", mcp.Min(0), mcp.Max(1), mcp.Description("1 = mark as fired")),
				), writes()),
			handle: func(ctx context.Context, args map[string]any) (string, error) {
				a, err := decode[updateStaffArgs](args)
				if err != nil {
					return "", err
				}
				s, err := c.api.UpdateStaff(ctx, a.CompanyID, a.StaffID, altegio.StaffUpdate{
					Name:           a.Name,
					Specialization: a.Specialization,
					PositionID:     a.PositionID,
					PhoneNumber:    a.PhoneNumber,
					Hidden:         a.Hidden,
					Fired:          a.Fired,
				})
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("Successfully updated staff member %d:\nName: %s\nSpecialization: %s", a.StaffID, s.Name, s.Specialization), nil
			},
		},
		{
			requiresAuth: true,
			tool: newTool("delete_staff",
				opts(
					mcp.WithDescription("[Staff] Delete a staff member."+authNote),
					withCompanyID(),
					mcp.WithNumber("staff_id", mcp.Required(), mcp.Min(1), mcp.Description("Staff ID")),
				), destructive()),
			handle: func(ctx context.Context, args map[string]any) (string, error) {
				a, err := decode[staffRefArgs](args)
				if err != nil {
					return "", err
				}
				if err := c.api.DeleteStaff(ctx, a.CompanyID, a.StaffID); err != nil {
					return "", err
				}
				return fmt.Sprintf("Successfully deleted staff member %d from company %d", a.StaffID, a.CompanyID), nil
			},
		},
	}
}

func (c *Catalog) serviceTools() []definition {
	return []definition{
		{
			requiresAuth: true,
			tool: newTool("get_services",
				opts(mcp.WithDescription("[Services] List services of a company."+authNote), withCompanyID()),
				withPaging(), readOnly()),
			handle: func(ctx context.Context, args map[string]any) (string, error) {
				a, err := decode[pageArgs](args)
				if err != nil {
					return "", err
				}
				services, err := c.api.GetServices(ctx, a.CompanyID, altegio.PageQuery{Page: a.Page, Count: a.Count})
				if err != nil {
					return "", err
				}
				return formatServices(services, a.CompanyID), nil
			},
		},
		{
			requiresAuth: true,
			tool: newTool("create_service",
				opts(
					mcp.WithDescription("[Services] Create a service in a category. For many services use onboarding_add_services_batch."+authNote),
					withCompanyID(),
					mcp.WithString("title", mcp.Required(), mcp.Description("Service title")),
					mcp.WithNumber("category_id", mcp.Required(), mcp.Min(1), mcp.Description("Category ID from get_service_categories")),
					mcp.WithNumber("price_min", mcp.Min(0), mcp.Description("Minimum price")),
					mcp.WithNumber("price_max", mcp.Min(0), mcp.Description("Maximum price")),
					mcp.WithNumber("discount", mcp.Min(0), mcp.Description("Discount")),
					mcp.WithString("comment", mcp.Description("Comment")),
					mcp.WithNumber("duration", mcp.Min(1), mcp.Description("Duration")),
					mcp.WithString("prepaid", mcp.Description("Prepayment setting")),
				), writes()),
			handle: func(ctx context.Context, args map[string]any) (string, error) {
				a, err := decode[createServiceArgs](args)
				if err != nil {
					return "", err
				}
				s, err := c.api.CreateService(ctx, a.CompanyID, altegio.ServiceInput{
					Title:      a.Title,
					CategoryID: a.CategoryID,
					PriceMin:   a.PriceMin,
					PriceMax:   a.PriceMax,
					Discount:   a.Discount,
					Comment:    a.Comment,
					Duration:   a.Duration,
					Prepaid:    a.Prepaid,
				})
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("Successfully created service:\nID: %d\nTitle: %s\nCategory: %d", s.ID, s.Title, s.CategoryID), nil
			},
		},
		{
			requiresAuth: true,
			tool: newTool("update_service",
				opts(
					mcp.WithDescription("[Services] Update a service. Only provided fields change."+authNote),
					withCompanyID(),
					mcp.WithNumber("service_id", mcp.Required(), mcp.Min(1), mcp.Description("Service ID")),
					mcp.WithString("title", mcp.Description("Service title")),
					mcp.WithNumber("category_id", mcp.Description("Category ID")),
					mcp.WithNumber("price_min", mcp.Min(0), mcp.Description("Minimum price")),
					mcp.WithNumber("price_max", mcp.Min(0), mcp.Description("Maximum price")),
					mcp.WithNumber("discount", mcp.Min(0), mcp.Description("Discount")),
					mcp.WithString("comment", mcp.Description("Comment")),
					mcp.WithNumber("duration", mcp.Min(1), mcp.Description("Duration")),
					mcp.WithNumber("active", mcp.Min(0), mcp.Max(1), mcp.Description("1 = active, 0 = inactive")),
				), writes()),
			handle: func(ctx context.Context, args map[string]any) (string, error) {
				a, err := decode[updateServiceArgs](args)
				if err != nil {
					return "", err
				}
				s, err := c.api.UpdateService(ctx, a.CompanyID, a.ServiceID, altegio.ServiceUpdate{
					Title:      a.Title,
					CategoryID: a.CategoryID,
					PriceMin:   a.PriceMin,
					PriceMax:   a.PriceMax,
					Discount:   a.Discount,
					Comment:    a.Comment,
					Duration:   a.Duration,
					Active:     a.Active,
				})
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("Successfully updated service %d:\nTitle: %s", a.ServiceID, s.Title), nil
			},
		},
	}
}

func (c *Catalog) categoryTools() []definition {
	return []definition{{
		tool: newTool("get_service_categories",
			opts(mcp.WithDescription("[Categories] List service categories of a company. Public, no login needed."), withCompanyID()),
			withPaging(), readOnly()),
		handle: func(ctx context.Context, args map[string]any) (string, error) {
			a, err := decode[pageArgs](args)
			if err != nil {
				return "", err
			}
			categories, err := c.api.GetServiceCategories(ctx, a.CompanyID, altegio.PageQuery{Page: a.Page, Count: a.Count})
			if err != nil {
				return "", err
			}
			return formatCategories(categories, a.CompanyID), nil
		},
	}}
}

var bookingServiceItem = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"id":     map[string]any{"type": "number", "description": "Service ID"},
		"amount": map[string]any{"type": "number", "description": "Quantity"},
	},
	"required": []string{"id"},
}

func (c *Catalog) bookingTools() []definition {
	return []definition{
		{
			requiresAuth: true,
			tool: newTool("get_bookings",
				opts(
					mcp.WithDescription("[Bookings] List bookings of a company, optionally within a date range."+authNote),
					withCompanyID(),
					mcp.WithString("start_date", mcp.Pattern(`^\d{4}-\d{2}-\d{2}$`), mcp.Description("YYYY-MM-DD")),
					mcp.WithString("end_date", mcp.Pattern(`^\d{4}-\d{2}-\d{2}$`), mcp.Description("YYYY-MM-DD")),
				), withPaging(), readOnly()),
			handle: func(ctx context.Context, args map[string]any) (string, error) {
				a, err := decode[getBookingsArgs](args)
				if err != nil {
					return "", err
				}
				bookings, err := c.api.GetBookings(ctx, a.CompanyID, altegio.BookingQuery{
					Page: a.Page, Count: a.Count, StartDate: a.StartDate, EndDate: a.EndDate,
				})
				if err != nil {
					return "", err
				}
				return formatBookings(bookings, a.CompanyID), nil
			},
		},
		{
			requiresAuth: true,
			tool: newTool("create_booking",
				opts(
					mcp.WithDescription("[Bookings] Create a booking for a client with a staff member."+authNote),
					withCompanyID(),
					mcp.WithNumber("staff_id", mcp.Required(), mcp.Min(1), mcp.Description("Staff ID")),
					mcp.WithArray("services", mcp.Required(), mcp.MinItems(1), mcp.Items(bookingServiceItem), mcp.Description("Services to book")),
					mcp.WithString("datetime", mcp.Required(), mcp.Description("Start, ISO 8601 (e.g. 2025-06-01T14:00:00)")),
					mcp.WithNumber("seance_length", mcp.Min(1), mcp.Description("Duration in seconds")),
					mcp.WithObject("client", mcp.Required(), mcp.Description("Client"), mcp.Properties(map[string]any{
						"name":  map[string]any{"type": "string"},
						"phone": map[string]any{"type": "string"},
						"email": map[string]any{"type": "string"},
					})),
					mcp.WithString("comment", mcp.Description("Comment")),
					mcp.WithNumber("send_sms", mcp.Min(0), mcp.Max(1), mcp.Description("1 = send SMS confirmation")),
					mcp.WithNumber("attendance", mcp.Description("Attendance status")),
				), writes()),
			handle: func(ctx context.Context, args map[string]any) (string, error) {
				a, err := decode[createBookingArgs](args)
				if err != nil {
					return "", err
				}
				b, err := c.api.CreateBooking(ctx, a.CompanyID, altegio.BookingInput{
					StaffID:      a.StaffID,
					Services:     bookingServices(a.Services),
					Datetime:     a.Datetime,
					SeanceLength: a.SeanceLength,
					Client:       altegio.BookingClient{Name: a.Client.Name, Phone: a.Client.Phone, Email: a.Client.Email},
					Comment:      a.Comment,
					SendSMS:      a.SendSMS,
					Attendance:   a.Attendance,
				})
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("Successfully created booking:\nID: %d\nStaff ID: %d\nDate: %s", b.ID, b.StaffID, bookingDate(b, a.Datetime)), nil
			},
		},
		{
			requiresAuth: true,
			tool: newTool("update_booking",
				opts(
					mcp.WithDescription("[Bookings] Update a booking. Only provided fields change."+authNote),
					withCompanyID(),
					mcp.WithNumber("record_id", mcp.Required(), mcp.Min(1), mcp.Description("Booking ID")),
					mcp.WithNumber("staff_id", mcp.Description("Staff ID")),
					mcp.WithArray("services", mcp.Items(bookingServiceItem), mcp.Description("Services")),
					mcp.WithString("datetime", mcp.Description("Start, ISO 8601")),
					mcp.WithNumber("seance_length", mcp.Min(1), mcp.Description("Duration in seconds")),
					mcp.WithObject("client", mcp.Description("Client"), mcp.Properties(map[string]any{
						"name":  map[string]any{"type": "string"},
						"phone": map[string]any{"type": "string"},
						"email": map[string]any{"type": "string"},
					})),
					mcp.WithString("comment", mcp.Description("Comment")),
					mcp.WithNumber("attendance", mcp.Description("Attendance status")),
				), writes()),
			handle: func(ctx context.Context, args map[string]any) (string, error) {
				a, err := decode[updateBookingArgs](args)
				if err != nil {
					return "", err
				}
				upd := altegio.BookingUpdate{
					StaffID:      a.StaffID,
					Services:     bookingServices(a.Services),
					Datetime:     a.Datetime,
					SeanceLength: a.SeanceLength,
					Comment:      a.Comment,
					Attendance:   a.Attendance,
				}
				if a.Client != nil {
					upd.Client = &altegio.BookingClient{Name: a.Client.Name, Phone: a.Client.Phone, Email: a.Client.Email}
				}
				b, err := c.api.UpdateBooking(ctx, a.CompanyID, a.RecordID, upd)
				if err != nil {
					return "", err
				}
				fallback := ""
				if a.Datetime != nil {
					fallback = *a.Datetime
				}
				return fmt.Sprintf("Successfully updated booking %d:\nDate: %s", a.RecordID, bookingDate(b, fallback)), nil
			},
		},
		{
			requiresAuth: true,
			tool: newTool("delete_booking",
				opts(
					mcp.WithDescription("[Bookings] Delete a booking."+authNote),
					withCompanyID(),
					mcp.WithNumber("record_id", mcp.Required(), mcp.Min(1), mcp.Description("Booking ID")),
				), destructive()),
			handle: func(ctx context.Context, args map[string]any) (string, error) {
				a, err := decode[bookingRefArgs](args)
				if err != nil {
					return "", err
				}
				if err := c.api.DeleteBooking(ctx, a.CompanyID, a.RecordID); err != nil {
					return "", err
				}
				return fmt.Sprintf("Successfully deleted booking %d from company %d", a.RecordID, a.CompanyID), nil
			},
		},
	}
}

func bookingServices(in []bookingServiceArg) []altegio.BookingService {
	if len(in) == 0 {
		return nil
	}
	out := make([]altegio.BookingService, len(in))
	for i, s := range in {
		out[i] = altegio.BookingService{ID: s.ID, Amount: s.Amount}
	}
	return out
}

func bookingDate(b *altegio.Booking, fallback string) string {
	switch {
	case b.Datetime != "":
		return b.Datetime
	case b.Date != "":
		return b.Date
	default:
		return fallback
	}
}

func (c *Catalog) scheduleTools() []definition {
	date := func() mcp.ToolOption {
		return mcp.WithString("date", mcp.Required(), mcp.Pattern(`^\d{4}-\d{2}-\d{2}$`), mcp.Description("YYYY-MM-DD"))
	}
	staffID := func() mcp.ToolOption {
		return mcp.WithNumber("staff_id", mcp.Required(), mcp.Min(1), mcp.Description("Staff ID"))
	}

	return []definition{
		{
			requiresAuth: true,
			tool: newTool("get_schedule",
				opts(
					mcp.WithDescription("[Schedule] Get working schedule entries of a staff member for a date range."+authNote),
					withCompanyID(), staffID(),
					mcp.WithString("start_date", mcp.Required(), mcp.Pattern(`^\d{4}-\d{2}-\d{2}$`), mcp.Description("YYYY-MM-DD")),
					mcp.WithString("end_date", mcp.Required(), mcp.Pattern(`^\d{4}-\d{2}-\d{2}$`), mcp.Description("YYYY-MM-DD")),
				), readOnly()),
			handle: func(ctx context.Context, args map[string]any) (string, error) {
				a, err := decode[getScheduleArgs](args)
				if err != nil {
					return "", err
				}
				entries, err := c.api.GetSchedule(ctx, a.CompanyID, a.StaffID, a.StartDate, a.EndDate)
				if err != nil {
					return "", err
				}
				return formatSchedule(entries, a.StaffID), nil
			},
		},
		{
			requiresAuth: true,
			tool: newTool("create_schedule",
				opts(
					mcp.WithDescription("[Schedule] Create a working schedule for a staff member on a date."+authNote),
					withCompanyID(), staffID(), date(),
					mcp.WithString("time_from", mcp.Required(), mcp.Pattern(`^\d{2}:\d{2}$`), mcp.Description("HH:MM")),
					mcp.WithString("time_to", mcp.Required(), mcp.Pattern(`^\d{2}:\d{2}$`), mcp.Description("HH:MM")),
					mcp.WithNumber("seance_length", mcp.Min(1), mcp.Description("Slot length in seconds")),
				), writes()),
			handle: func(ctx context.Context, args map[string]any) (string, error) {
				a, err := decode[scheduleArgs](args)
				if err != nil {
					return "", err
				}
				if a.TimeFrom == "" || a.TimeTo == "" {
					return "", fmt.Errorf("%w: time_from and time_to are required", contractx.ErrValidation)
				}
				entries, err := c.api.CreateSchedule(ctx, a.CompanyID, a.input())
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("Successfully created schedule for staff %d on %s:\nTime: %s - %s\nEntries created: %d",
					a.StaffID, a.Date, a.TimeFrom, a.TimeTo, len(entries)), nil
			},
		},
		{
			requiresAuth: true,
			tool: newTool("update_schedule",
				opts(
					mcp.WithDescription("[Schedule] Update a staff member's working schedule on a date."+authNote),
					withCompanyID(), staffID(), date(),
					mcp.WithString("time_from", mcp.Pattern(`^\d{2}:\d{2}$`), mcp.Description("HH:MM")),
					mcp.WithString("time_to", mcp.Pattern(`^\d{2}:\d{2}$`), mcp.Description("HH:MM")),
					mcp.WithNumber("seance_length", mcp.Min(1), mcp.Description("Slot length in seconds")),
				), writes()),
			handle: func(ctx context.Context, args map[string]any) (string, error) {
				a, err := decode[scheduleArgs](args)
				if err != nil {
					return "", err
				}
				entries, err := c.api.UpdateSchedule(ctx, a.CompanyID, a.input())
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("Successfully updated schedule for staff %d on %s\nEntries updated: %d", a.StaffID, a.Date, len(entries)), nil
			},
		},
		{
			requiresAuth: true,
			tool: newTool("delete_schedule",
				opts(
					mcp.WithDescription("[Schedule] Delete a staff member's working schedule on a date."+authNote),
					withCompanyID(), staffID(), date(),
				), destructive()),
			handle: func(ctx context.Context, args map[string]any) (string, error) {
				a, err := decode[scheduleRefArgs](args)
				if err != nil {
					return "", err
				}
				if err := c.api.DeleteSchedule(ctx, a.CompanyID, a.StaffID, a.Date); err != nil {
					return "", err
				}
				return fmt.Sprintf("Successfully deleted schedule for staff %d on %s", a.StaffID, a.Date), nil
			},
		},
	}
}

func (c *Catalog) positionTools() []definition {
	positionID := func() mcp.ToolOption {
		return mcp.WithNumber("position_id", mcp.Required(), mcp.Min(1), mcp.Description("Position ID"))
	}

	return []definition{
		{
			requiresAuth: true,
			tool: newTool("get_positions",
				opts(mcp.WithDescription("[Positions] List staff positions of a company."+authNote), withCompanyID()),
				readOnly()),
			handle: func(ctx context.Context, args map[string]any) (string, error) {
				a, err := decode[companyArgs](args)
				if err != nil {
					return "", err
				}
				positions, err := c.api.GetPositions(ctx, a.CompanyID)
				if err != nil {
					return "", err
				}
				return formatPositions(positions), nil
			},
		},
		{
			requiresAuth: true,
			tool: newTool("create_position",
				opts(
					mcp.WithDescription("[Positions] Create a staff position."+authNote),
					withCompanyID(),
					mcp.WithString("title", mcp.Required(), mcp.Description("Position title")),
					mcp.WithString("api_id", mcp.Description("External ID")),
				), writes()),
			handle: func(ctx context.Context, args map[string]any) (string, error) {
				a, err := decode[createPositionArgs](args)
				if err != nil {
					return "", err
				}
				p, err := c.api.CreatePosition(ctx, a.CompanyID, altegio.PositionInput{Title: a.Title, APIID: a.APIID})
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("Successfully created position:\nID: %d\nTitle: %s", p.ID, p.Title), nil
			},
		},
		{
			requiresAuth: true,
			tool: newTool("update_position",
				opts(
					mcp.WithDescription("[Positions] Update a staff position."+authNote),
					withCompanyID(), positionID(),
					mcp.WithString("title", mcp.Description("Position title")),
					mcp.WithString("api_id", mcp.Description("External ID")),
				), writes()),
			handle: func(ctx context.Context, args map[string]any) (string, error) {
				a, err := decode[updatePositionArgs](args)
				if err != nil {
					return "", err
				}
				p, err := c.api.UpdatePosition(ctx, a.CompanyID, a.PositionID, altegio.PositionInput{Title: a.Title, APIID: a.APIID})
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("Successfully updated position %d:\nTitle: %s", a.PositionID, p.Title), nil
			},
		},
		{
			requiresAuth: true,
			tool: newTool("delete_position",
				opts(
					mcp.WithDescription("[Positions] Delete a staff position."+authNote),
					withCompanyID(), positionID(),
				), destructive()),
			handle: func(ctx context.Context, args map[string]any) (string, error) {
				a, err := decode[positionRefArgs](args)
				if err != nil {
					return "", err
				}
				if err := c.api.DeletePosition(ctx, a.CompanyID, a.PositionID); err != nil {
					return "", err
				}
				return fmt.Sprintf("Successfully deleted position %d", a.PositionID), nil
			},
		},
	}
}
