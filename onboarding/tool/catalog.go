package tool

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/salon-onboarding-mcp/onboarding/contract"
	"github.com/tanpawarit/salon-onboarding-mcp/onboarding/rows"
	"github.com/tanpawarit/salon-onboarding-mcp/pkg/altegio"
)

// AuthRequiredMessage is returned for protected tools before altegio_login.
const AuthRequiredMessage = "Authentication required. Please login first."

// API is the Altegio surface the tools call. *altegio.Client satisfies it.
type API interface {
	IsAuthenticated() bool
	Login(ctx context.Context, email, password string) error
	Logout(ctx context.Context) error

	GetCompanies(ctx context.Context, q altegio.CompanyQuery) ([]altegio.Company, error)

	GetStaff(ctx context.Context, companyID int, q altegio.PageQuery) ([]altegio.Staff, error)
	CreateStaff(ctx context.Context, companyID int, in altegio.StaffInput) (*altegio.Staff, error)
	UpdateStaff(ctx context.Context, companyID, staffID int, in altegio.StaffUpdate) (*altegio.Staff, error)
	DeleteStaff(ctx context.Context, companyID, staffID int) error

	GetServices(ctx context.Context, companyID int, q altegio.PageQuery) ([]altegio.Service, error)
	CreateService(ctx context.Context, companyID int, in altegio.ServiceInput) (*altegio.Service, error)
	UpdateService(ctx context.Context, companyID, serviceID int, in altegio.ServiceUpdate) (*altegio.Service, error)

	GetServiceCategories(ctx context.Context, companyID int, q altegio.PageQuery) ([]altegio.ServiceCategory, error)

	GetBookings(ctx context.Context, companyID int, q altegio.BookingQuery) ([]altegio.Booking, error)
	CreateBooking(ctx context.Context, companyID int, in altegio.BookingInput) (*altegio.Booking, error)
	UpdateBooking(ctx context.Context, companyID, recordID int, in altegio.BookingUpdate) (*altegio.Booking, error)
	DeleteBooking(ctx context.Context, companyID, recordID int) error

	GetSchedule(ctx context.Context, companyID, staffID int, startDate, endDate string) ([]altegio.ScheduleEntry, error)
	CreateSchedule(ctx context.Context, companyID int, in altegio.ScheduleInput) ([]altegio.ScheduleEntry, error)
	UpdateSchedule(ctx context.Context, companyID int, in altegio.ScheduleInput) ([]altegio.ScheduleEntry, error)
	DeleteSchedule(ctx context.Context, companyID, staffID int, date string) error

	GetPositions(ctx context.Context, companyID int) ([]altegio.Position, error)
	CreatePosition(ctx context.Context, companyID int, in altegio.PositionInput) (*altegio.Position, error)
	UpdatePosition(ctx context.Context, companyID, positionID int, in altegio.PositionInput) (*altegio.Position, error)
	DeletePosition(ctx context.Context, companyID, positionID int) error
}

// Onboarding is the workflow behind the onboarding_* tools.
type Onboarding interface {
	Start(ctx context.Context, companyID int) (contractx.Progress, error)
	Resume(ctx context.Context, companyID int) (contractx.Progress, error)
	Status(ctx context.Context, companyID int) (contractx.Progress, error)
	AddStaffBatch(ctx context.Context, companyID int, in rows.Input) (contractx.BatchSummary, error)
	AddServicesBatch(ctx context.Context, companyID int, in rows.Input) (contractx.BatchSummary, error)
	AddCategories(ctx context.Context, companyID int, in rows.Input) (contractx.BatchSummary, error)
	ImportClients(ctx context.Context, companyID int, in rows.Input) (contractx.BatchSummary, error)
	CreateTestBookings(ctx context.Context, companyID int, count int) (contractx.BatchSummary, error)
	RollbackPhase(ctx context.Context, companyID int, phaseName string) (contractx.RollbackSummary, error)
}

type handlerFunc func(ctx context.Context, args map[string]any) (string, error)

type definition struct {
	tool         mcp.Tool
	requiresAuth bool
	handle       handlerFunc
}

type Catalog struct {
	api        API
	onboarding Onboarding
	defs       []definition
}

func New(api API, onboarding Onboarding) (*Catalog, error) {
	if api == nil {
		return nil, errors.New("altegio api is required")
	}
	if onboarding == nil {
		return nil, errors.New("onboarding service is required")
	}

	c := &Catalog{api: api, onboarding: onboarding}
	c.defs = append(c.defs, c.authTools()...)
	c.defs = append(c.defs, c.companyTools()...)
	c.defs = append(c.defs, c.staffTools()...)
	c.defs = append(c.defs, c.serviceTools()...)
	c.defs = append(c.defs, c.categoryTools()...)
	c.defs = append(c.defs, c.bookingTools()...)
	c.defs = append(c.defs, c.scheduleTools()...)
	c.defs = append(c.defs, c.positionTools()...)
	c.defs = append(c.defs, c.onboardingTools()...)
	return c, nil
}

// Tools returns every tool with its wrapped handler, in registration order.
func (c *Catalog) Tools() []server.ServerTool {
	out := make([]server.ServerTool, 0, len(c.defs))
	for _, d := range c.defs {
		out = append(out, server.ServerTool{Tool: d.tool, Handler: c.wrap(d)})
	}
	return out
}

func (c *Catalog) Register(s *server.MCPServer) {
	s.AddTools(c.Tools()...)
}

// wrap applies the auth gate and turns handler errors into "Failed: <reason>"
// error results.
func (c *Catalog) wrap(d definition) server.ToolHandlerFunc {
	name := d.tool.Name
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		logger := log.With().
			Str("tool", name).
			Str("call_id", uuid.NewString()).
			Logger()

		if d.requiresAuth && !c.api.IsAuthenticated() {
			logger.Warn().Msg("tool call rejected: not authenticated")
			return mcp.NewToolResultError(AuthRequiredMessage), nil
		}

		started := time.Now()
		text, err := d.handle(ctx, req.GetArguments())
		if err != nil {
			if errors.Is(err, altegio.ErrNotAuthenticated) || errors.Is(err, contractx.ErrAuthRequired) {
				logger.Warn().Err(err).Msg("tool call rejected: not authenticated")
				return mcp.NewToolResultError(AuthRequiredMessage), nil
			}
			logger.Warn().Err(err).Dur("took", time.Since(started)).Msg("tool call failed")
			return mcp.NewToolResultError(fmt.Sprintf("Failed: %s", err.Error())), nil
		}

		logger.Info().Dur("took", time.Since(started)).Msg("tool call")
		return mcp.NewToolResultText(text), nil
	}
}

/* ------------------------------ schema helpers ------------------------------ */

func withCompanyID() mcp.ToolOption {
	return mcp.WithNumber("company_id", mcp.Required(), mcp.Min(1), mcp.Description("Company ID"))
}

func withPaging() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithNumber("page", mcp.Min(1), mcp.Description("Page number")),
		mcp.WithNumber("count", mcp.Min(1), mcp.Description("Results per page")),
	}
}

func readOnly() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	}
}

func writes() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
	}
}

func destructive() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(true),
	}
}

// withRows declares a required parameter that takes a JSON array of objects
// or a CSV/JSON string.
func withRows(name, desc string, item map[string]any) mcp.ToolOption {
	return func(t *mcp.Tool) {
		t.InputSchema.Properties[name] = map[string]any{
			"description": desc,
			"anyOf": []any{
				map[string]any{"type": "array", "items": item},
				map[string]any{"type": "string"},
			},
		}
		t.InputSchema.Required = append(t.InputSchema.Required, name)
	}
}

func newTool(name string, opts ...[]mcp.ToolOption) mcp.Tool {
	var all []mcp.ToolOption
	for _, o := range opts {
		all = append(all, o...)
	}
	return mcp.NewTool(name, all...)
}

func opts(o ...mcp.ToolOption) []mcp.ToolOption { return o }
