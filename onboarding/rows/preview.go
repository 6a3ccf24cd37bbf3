package rows

import (
	"fmt"
	"strings"

	"github.com/tanpawarit/salon-onboarding-mcp/onboarding/contract"
)

const PreviewLimit = 5

const NoDataMessage = "No data parsed. Check CSV format or JSON structure."

type DataType string

const (
	DataStaff      DataType = "staff"
	DataServices   DataType = "services"
	DataClients    DataType = "clients"
	DataCategories DataType = "categories"
)

var DataTypes = []DataType{DataStaff, DataServices, DataClients, DataCategories}

func ParseDataType(raw string) (DataType, error) {
	for _, dt := range DataTypes {
		if string(dt) == strings.TrimSpace(raw) {
			return dt, nil
		}
	}
	return "", fmt.Errorf("%w: unknown data type %q", contract.ErrValidation, raw)
}

// ImportTool names the tool that imports this kind of data.
func (d DataType) ImportTool() string {
	switch d {
	case DataStaff:
		return "onboarding_add_staff_batch"
	case DataServices:
		return "onboarding_add_services_batch"
	case DataClients:
		return "onboarding_import_clients"
	case DataCategories:
		return "onboarding_add_categories"
	default:
		return ""
	}
}

type PreviewReport struct {
	DataType DataType
	Total    int
	Fields   []string
	Sample   []Row
}

func (p *PreviewReport) Empty() bool {
	return p == nil || p.Total == 0
}

// Preview parses raw without side effects. JSON is tried first, then CSV.
func Preview(dataType DataType, raw string) (*PreviewReport, error) {
	parsed, err := Delimited(raw).Rows()
	if err != nil {
		return nil, err
	}

	report := &PreviewReport{DataType: dataType, Total: len(parsed)}
	if len(parsed) == 0 {
		return report, nil
	}

	report.Fields = append([]string(nil), parsed[0].Keys...)
	n := min(PreviewLimit, len(parsed))
	report.Sample = parsed[:n]
	return report, nil
}

func (p *PreviewReport) String() string {
	if p.Empty() {
		return NoDataMessage
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Preview of %s data:\n\n", p.DataType)
	fmt.Fprintf(&b, "Total rows: %d\n", p.Total)
	fmt.Fprintf(&b, "Fields: %d (%s)\n\n", len(p.Fields), strings.Join(p.Fields, ", "))
	fmt.Fprintf(&b, "First %d rows:\n", len(p.Sample))
	for i, row := range p.Sample {
		fmt.Fprintf(&b, "%d. %s", i+1, row.String())
		if row.Err != nil {
			fmt.Fprintf(&b, " [invalid: %v]", row.Err)
		}
		b.WriteString("\n")
	}
	if tool := p.DataType.ImportTool(); tool != "" {
		fmt.Fprintf(&b, "\nProceed with %s to create entities.", tool)
	}
	return b.String()
}
