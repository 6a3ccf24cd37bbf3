package rows

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

var ErrFieldCount = errors.New("field count does not match header")

// Row is one input record. Keys keeps the original field order; Err is set
// when the record could not be read cleanly and the caller should record it
// as a failure.
type Row struct {
	Index  int
	Keys   []string
	Values map[string]any
	Err    error
}

func (r Row) Get(key string) (any, bool) {
	v, ok := r.Values[key]
	return v, ok
}

// String renders the row as "k: v, k: v" in key order.
func (r Row) String() string {
	parts := make([]string, 0, len(r.Keys))
	for _, k := range r.Keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, renderValue(r.Values[k])))
	}
	return strings.Join(parts, ", ")
}

func renderValue(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// ParseCSV reads header-driven comma separated text. Empty or header-only
// input yields no rows. A record whose field count differs from the header is
// still returned, with Err set.
func ParseCSV(text string) []Row {
	text = strings.TrimPrefix(text, "\ufeff")
	if strings.TrimSpace(text) == "" {
		return nil
	}

	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var out []Row
	for idx := 0; ; idx++ {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		row := Row{Index: idx, Keys: header, Values: make(map[string]any, len(header))}
		if err != nil {
			row.Err = fmt.Errorf("row %d: %w", idx+1, err)
			out = append(out, row)
			continue
		}

		for i, key := range header {
			if i < len(record) {
				row.Values[key] = strings.TrimSpace(record[i])
			}
		}
		if len(record) != len(header) {
			row.Err = fmt.Errorf("row %d: %w (got %d, want %d)", idx+1, ErrFieldCount, len(record), len(header))
		}
		out = append(out, row)
	}
	return out
}
