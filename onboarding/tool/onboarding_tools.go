package tool

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	contractx "github.com/tanpawarit/salon-onboarding-mcp/onboarding/contract"
	"github.com/tanpawarit/salon-onboarding-mcp/onboarding/phase"
	"github.com/tanpawarit/salon-onboarding-mcp/onboarding/rows"
	statex "github.com/tanpawarit/salon-onboarding-mcp/onboarding/state"
)

var staffItem = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"name":           map[string]any{"type": "string"},
		"specialization": map[string]any{"type": "string"},
		"phone":          map[string]any{"type": "string"},
		"email":          map[string]any{"type": "string"},
		"position_id":    map[string]any{"type": "number"},
		"api_id":         map[string]any{"type": "string"},
	},
	"required": []string{"name"},
}

var serviceItem = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"title":       map[string]any{"type": "string"},
		"price_min":   map[string]any{"type": "number"},
		"price_max":   map[string]any{"type": "number"},
		"duration":    map[string]any{"type": "number"},
		"category_id": map[string]any{"type": "number"},
		"api_id":      map[string]any{"type": "string"},
	},
	"required": []string{"title"},
}

var categoryItem = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"title":  map[string]any{"type": "string"},
		"api_id": map[string]any{"type": "string"},
		"weight": map[string]any{"type": "number"},
	},
	"required": []string{"title"},
}

func (c *Catalog) onboardingTools() []definition {
	return []definition{
		{
			requiresAuth: true,
			tool: newTool("onboarding_start",
				opts(
					mcp.WithDescription("[Onboarding] Initialize an onboarding session for a company. Creates persistent state and guides through the setup workflow."+authNote),
					withCompanyID(),
				), writes()),
			handle: func(ctx context.Context, args map[string]any) (string, error) {
				a, err := decode[companyArgs](args)
				if err != nil {
					return "", err
				}
				p, err := c.onboarding.Start(ctx, a.CompanyID)
				if err != nil {
					return "", err
				}
				headline := fmt.Sprintf("Onboarding already in progress for company %d.", a.CompanyID)
				if p.Created {
					headline = fmt.Sprintf("Onboarding started for company %d.", a.CompanyID)
				}
				return formatProgress(p, headline), nil
			},
		},
		{
			requiresAuth: true,
			tool: newTool("onboarding_resume",
				opts(
					mcp.WithDescription("[Onboarding] Resume an existing onboarding session and show completed phases and next steps."+authNote),
					withCompanyID(),
				), readOnly()),
			handle: func(ctx context.Context, args map[string]any) (string, error) {
				a, err := decode[companyArgs](args)
				if err != nil {
					return "", err
				}
				p, err := c.onboarding.Resume(ctx, a.CompanyID)
				if err != nil {
					return "", err
				}
				return formatProgress(p, fmt.Sprintf("Resuming onboarding for company %d.", a.CompanyID)), nil
			},
		},
		{
			requiresAuth: true,
			tool: newTool("onboarding_status",
				opts(
					mcp.WithDescription("[Onboarding] Show current onboarding phase, entity counts and completion status."+authNote),
					withCompanyID(),
				), readOnly()),
			handle: func(ctx context.Context, args map[string]any) (string, error) {
				a, err := decode[companyArgs](args)
				if err != nil {
					return "", err
				}
				p, err := c.onboarding.Status(ctx, a.CompanyID)
				if err != nil {
					return "", err
				}
				return formatProgress(p, fmt.Sprintf("Onboarding status for company %d.", a.CompanyID)), nil
			},
		},
		{
			requiresAuth: true,
			tool: newTool("onboarding_add_staff_batch",
				opts(
					mcp.WithDescription("[Onboarding] Bulk add staff from a JSON array or CSV string. Fields: name, specialization, phone, email, position_id, api_id. Records a checkpoint for rollback."+authNote),
					withCompanyID(),
					withRows("staff_data", "Array of staff objects, or CSV/JSON text", staffItem),
				), writes()),
			handle: func(ctx context.Context, args map[string]any) (string, error) {
				a, err := decode[staffBatchArgs](args)
				if err != nil {
					return "", err
				}
				in, err := rows.FromArg(a.StaffData)
				if err != nil {
					return "", err
				}
				return batchResult(c.onboarding.AddStaffBatch(ctx, a.CompanyID, in))
			},
		},
		{
			requiresAuth: true,
			tool: newTool("onboarding_add_services_batch",
				opts(
					mcp.WithDescription("[Onboarding] Bulk add services from a JSON array or CSV string. Fields: title, price_min, price_max, duration, category_id, api_id. Rows without category_id use the first category created during onboarding. Records a checkpoint for rollback."+authNote),
					withCompanyID(),
					withRows("services_data", "Array of service objects, or CSV/JSON text", serviceItem),
				), writes()),
			handle: func(ctx context.Context, args map[string]any) (string, error) {
				a, err := decode[servicesBatchArgs](args)
				if err != nil {
					return "", err
				}
				in, err := rows.FromArg(a.ServicesData)
				if err != nil {
					return "", err
				}
				return batchResult(c.onboarding.AddServicesBatch(ctx, a.CompanyID, in))
			},
		},
		{
			requiresAuth: true,
			tool: newTool("onboarding_add_categories",
				opts(
					mcp.WithDescription("[Onboarding] Create service categories from objects with title, api_id, weight. Records a checkpoint for rollback."+authNote),
					withCompanyID(),
					mcp.WithArray("categories", mcp.Required(), mcp.Items(categoryItem), mcp.Description("Array of category objects")),
				), writes()),
			handle: func(ctx context.Context, args map[string]any) (string, error) {
				a, err := decode[categoriesArgs](args)
				if err != nil {
					return "", err
				}
				in, err := rows.FromArg(a.Categories)
				if err != nil {
					return "", err
				}
				return batchResult(c.onboarding.AddCategories(ctx, a.CompanyID, in))
			},
		},
		{
			requiresAuth: true,
			tool: newTool("onboarding_import_clients",
				opts(
					mcp.WithDescription("[Onboarding] Import clients from a CSV string with headers name,phone,email,surname,comment. Each row needs a phone or an email. Records a checkpoint for rollback."+authNote),
					withCompanyID(),
					mcp.WithString("clients_csv", mcp.Required(), mcp.Description("CSV text with a header row")),
				), writes()),
			handle: func(ctx context.Context, args map[string]any) (string, error) {
				a, err := decode[clientsArgs](args)
				if err != nil {
					return "", err
				}
				return batchResult(c.onboarding.ImportClients(ctx, a.CompanyID, rows.Delimited(a.ClientsCSV)))
			},
		},
		{
			requiresAuth: true,
			tool: newTool("onboarding_create_test_bookings",
				opts(
					mcp.WithDescription("[Onboarding] Generate test bookings from the staff and services created during onboarding, spread over the next 1-7 days. Marks onboarding as complete."+authNote),
					withCompanyID(),
					mcp.WithNumber("count", mcp.Min(1), mcp.Max(phase.MaxBookingCount), mcp.DefaultNumber(phase.DefaultBookingCount), mcp.Description("Number of bookings")),
				), writes()),
			handle: func(ctx context.Context, args map[string]any) (string, error) {
				a, err := decode[testBookingsArgs](args)
				if err != nil {
					return "", err
				}
				return batchResult(c.onboarding.CreateTestBookings(ctx, a.CompanyID, a.count()))
			},
		},
		{
			tool: newTool("onboarding_preview_data",
				opts(
					mcp.WithDescription("[Onboarding] Parse and preview CSV or JSON data without creating anything. Shows the first 5 rows, total count and field names."),
					mcp.WithString("data_type", mcp.Required(), mcp.Enum(dataTypeNames()...), mcp.Description("Kind of data")),
					mcp.WithString("raw_input", mcp.Required(), mcp.Description("CSV or JSON text")),
				), readOnly()),
			handle: func(_ context.Context, args map[string]any) (string, error) {
				a, err := decode[previewArgs](args)
				if err != nil {
					return "", err
				}
				dt, err := rows.ParseDataType(a.DataType)
				if err != nil {
					return "", err
				}
				report, err := rows.Preview(dt, a.RawInput)
				if err != nil {
					return "", err
				}
				return report.String(), nil
			},
		},
		{
			requiresAuth: true,
			tool: newTool("onboarding_rollback_phase",
				opts(
					mcp.WithDescription("[Onboarding] Delete every entity created in one phase and reset its checkpoint. WARNING: destructive."+authNote),
					withCompanyID(),
					mcp.WithString("phase_name", mcp.Required(), mcp.Enum(checkpointNames()...), mcp.Description("Phase to roll back")),
				), destructive()),
			handle: func(ctx context.Context, args map[string]any) (string, error) {
				a, err := decode[rollbackArgs](args)
				if err != nil {
					return "", err
				}
				s, err := c.onboarding.RollbackPhase(ctx, a.CompanyID, a.PhaseName)
				if err != nil {
					return "", err
				}
				return formatRollback(s), nil
			},
		},
	}
}

func batchResult(s contractx.BatchSummary, err error) (string, error) {
	if err != nil {
		return "", err
	}
	return formatBatch(s), nil
}

func dataTypeNames() []string {
	out := make([]string, len(rows.DataTypes))
	for i, dt := range rows.DataTypes {
		out[i] = string(dt)
	}
	return out
}

func checkpointNames() []string {
	out := make([]string, len(statex.CheckpointNames))
	for i, name := range statex.CheckpointNames {
		out[i] = string(name)
	}
	return out
}
