package tool

import (
	"fmt"
	"strconv"
	"strings"

	contractx "github.com/tanpawarit/salon-onboarding-mcp/onboarding/contract"
	statex "github.com/tanpawarit/salon-onboarding-mcp/onboarding/state"
	"github.com/tanpawarit/salon-onboarding-mcp/pkg/altegio"
)

// maxListedFailures caps how many row failures a summary spells out.
const maxListedFailures = 5

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func joinInts(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ", ")
}

func formatCompanies(companies []altegio.Company, mine bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d %s", len(companies), plural(len(companies), "company", "companies"))
	if mine {
		b.WriteString(" (user companies)")
	}
	b.WriteString(":\n\n")

	items := make([]string, len(companies))
	for i, c := range companies {
		title := c.Title
		if title == "" {
			title = c.PublicTitle
		}
		items[i] = fmt.Sprintf("%d. ID: %d - %q\n   Address: %s\n   Phone: %s", i+1, c.ID, title, orNA(c.Address), orNA(c.Phone))
	}
	b.WriteString(strings.Join(items, "\n\n"))
	return b.String()
}

func formatStaff(staff []altegio.Staff, companyID int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d staff %s for company %d:\n\n", len(staff), plural(len(staff), "member", "members"), companyID)

	items := make([]string, len(staff))
	for i, s := range staff {
		rating := "N/A"
		if s.Rating != nil {
			rating = num(*s.Rating)
		}
		item := fmt.Sprintf("%d. ID: %d - %s\n   Specialization: %s\n   Rating: %s", i+1, s.ID, s.Name, orNA(s.Specialization), rating)
		if s.Position != nil && s.Position.Title != "" {
			item += fmt.Sprintf("\n   Position: %s (ID: %d)", s.Position.Title, s.Position.ID)
		}
		items[i] = item
	}
	b.WriteString(strings.Join(items, "\n\n"))
	return b.String()
}

func formatServices(services []altegio.Service, companyID int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d %s for company %d:\n\n", len(services), plural(len(services), "service", "services"), companyID)

	items := make([]string, len(services))
	for i, s := range services {
		item := fmt.Sprintf("%d. ID: %d - %q\n   Price: %s", i+1, s.ID, s.Title, num(s.Cost))
		if s.Duration > 0 {
			item += fmt.Sprintf("\n   Duration: %d min", s.Duration)
		}
		if s.CategoryID > 0 {
			item += fmt.Sprintf("\n   Category ID: %d", s.CategoryID)
		}
		items[i] = item
	}
	b.WriteString(strings.Join(items, "\n\n"))
	return b.String()
}

func formatCategories(categories []altegio.ServiceCategory, companyID int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d service %s for company %d:\n\n", len(categories), plural(len(categories), "category", "categories"), companyID)

	items := make([]string, len(categories))
	for i, c := range categories {
		item := fmt.Sprintf("%d. ID: %d - %q", i+1, c.ID, c.Title)
		if c.Services != nil {
			item += fmt.Sprintf("\n   Services count: %d", len(c.Services))
		}
		items[i] = item
	}
	b.WriteString(strings.Join(items, "\n\n"))
	return b.String()
}

func formatBookings(bookings []altegio.Booking, companyID int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d %s for company %d:\n\n", len(bookings), plural(len(bookings), "booking", "bookings"), companyID)

	items := make([]string, len(bookings))
	for i, bk := range bookings {
		date := bk.Datetime
		if date == "" {
			date = bk.Date
		}
		clientName, clientPhone := "N/A", "no phone"
		if bk.Client != nil {
			clientName = orNA(bk.Client.Name)
			if bk.Client.Phone != "" {
				clientPhone = bk.Client.Phone
			}
		}
		staffName := "N/A"
		if bk.Staff != nil {
			staffName = orNA(bk.Staff.Name)
		}
		titles := make([]string, 0, len(bk.Services))
		for _, s := range bk.Services {
			titles = append(titles, s.Title)
		}

		items[i] = fmt.Sprintf("%d. Booking ID: %d\n   Date: %s\n   Client: %s (%s)\n   Staff: %s\n   Services: %s\n   Status: %s",
			i+1, bk.ID, date, clientName, clientPhone, staffName, orNA(strings.Join(titles, ", ")), bk.Status)
	}
	b.WriteString(strings.Join(items, "\n\n"))
	return b.String()
}

func formatPositions(positions []altegio.Position) string {
	if len(positions) == 0 {
		return "No positions found for this company."
	}
	items := make([]string, len(positions))
	for i, p := range positions {
		items[i] = fmt.Sprintf("%d. %s (ID: %d)", i+1, p.Title, p.ID)
	}
	return fmt.Sprintf("Found %d position(s):\n\n%s", len(positions), strings.Join(items, "\n"))
}

func formatSchedule(entries []altegio.ScheduleEntry, staffID int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d schedule %s for staff %d:\n\n", len(entries), plural(len(entries), "entry", "entries"), staffID)

	items := make([]string, len(entries))
	for i, e := range entries {
		items[i] = fmt.Sprintf("%d. %s at %s (%d min)", i+1, e.Date, e.Time, e.SeanceLength)
	}
	b.WriteString(strings.Join(items, "\n"))
	return b.String()
}

/* -------------------------------- onboarding -------------------------------- */

var checkpointLabels = map[statex.CheckpointName]string{
	statex.CheckpointStaff:        "Staff",
	statex.CheckpointCategories:   "Categories",
	statex.CheckpointServices:     "Services",
	statex.CheckpointClients:      "Clients",
	statex.CheckpointTestBookings: "Test bookings",
}

func label(name statex.CheckpointName) string {
	if l, ok := checkpointLabels[name]; ok {
		return l
	}
	return string(name)
}

func formatProgress(p contractx.Progress, headline string) string {
	var b strings.Builder
	b.WriteString(headline)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Onboarding ID: %s\n", p.OnboardingID)
	fmt.Fprintf(&b, "Current phase: %s\n", p.CurrentPhase)
	fmt.Fprintf(&b, "Status: %s\n", p.Status)

	if len(p.Checkpoints) > 0 {
		b.WriteString("\nProgress:\n")
		for _, cp := range p.Checkpoints {
			fmt.Fprintf(&b, "- %s: %d created (%d attempted, %d failed, %d %s)\n",
				cp.Name, cp.Created, cp.Attempted, cp.Failed, cp.Batches, plural(cp.Batches, "batch", "batches"))
		}
	}
	if p.NextStep != "" {
		fmt.Fprintf(&b, "\nNext step: %s", p.NextStep)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatBatch(s contractx.BatchSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s batch %d for company %d:\n", label(s.Checkpoint), s.Batch, s.CompanyID)
	fmt.Fprintf(&b, "Attempted: %d\nSucceeded: %d\nFailed: %d\n", s.Attempted, s.Succeeded, s.Failed)
	if len(s.CreatedIDs) > 0 {
		fmt.Fprintf(&b, "Created IDs: %s\n", joinInts(s.CreatedIDs))
	}

	if len(s.Failures) > 0 {
		b.WriteString("\nFailures:\n")
		for i, f := range s.Failures {
			if i == maxListedFailures {
				fmt.Fprintf(&b, "... and %d more\n", len(s.Failures)-maxListedFailures)
				break
			}
			fmt.Fprintf(&b, "- row %d: %s\n", f.Row+1, f.Message)
		}
	}

	b.WriteString("\n")
	if s.Advanced {
		fmt.Fprintf(&b, "Phase advanced to: %s", s.CurrentPhase)
	} else {
		fmt.Fprintf(&b, "Current phase: %s", s.CurrentPhase)
	}
	return b.String()
}

func formatRollback(s contractx.RollbackSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Rolled back %s for company %d:\n", s.Checkpoint, s.CompanyID)
	fmt.Fprintf(&b, "Deleted: %d of %d\n", s.Deleted, s.Attempted)

	if len(s.Failures) > 0 {
		b.WriteString("\nFailed deletes:\n")
		for i, f := range s.Failures {
			if i == maxListedFailures {
				fmt.Fprintf(&b, "... and %d more\n", len(s.Failures)-maxListedFailures)
				break
			}
			fmt.Fprintf(&b, "- id %d: %s\n", f.ID, f.Message)
		}
	}

	fmt.Fprintf(&b, "\nCurrent phase: %s", s.CurrentPhase)
	return b.String()
}
