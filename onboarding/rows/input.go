package rows

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/tanpawarit/salon-onboarding-mcp/onboarding/contract"
)

// Input is either structured records or delimited text. Exactly one form is
// set; Rows resolves both into the same canonical []Row.
type Input struct {
	structured []map[string]any
	text       string
	isText     bool
}

func Structured(records []map[string]any) Input {
	return Input{structured: records}
}

func Delimited(text string) Input {
	return Input{text: text, isText: true}
}

// FromArg accepts the shapes a tool argument can take: a list of objects, a
// single object, or a string holding JSON or CSV.
func FromArg(v any) (Input, error) {
	switch t := v.(type) {
	case nil:
		return Input{}, fmt.Errorf("%w: data is required", contract.ErrMalformedInput)
	case string:
		return Delimited(t), nil
	case map[string]any:
		return Structured([]map[string]any{t}), nil
	case []map[string]any:
		return Structured(t), nil
	case []any:
		records := make([]map[string]any, 0, len(t))
		for i, item := range t {
			m, ok := item.(map[string]any)
			if !ok {
				return Input{}, fmt.Errorf("%w: element %d is %T, want object", contract.ErrMalformedInput, i, item)
			}
			records = append(records, m)
		}
		return Structured(records), nil
	default:
		return Input{}, fmt.Errorf("%w: unsupported data type %T", contract.ErrMalformedInput, v)
	}
}

func (in Input) IsText() bool {
	return in.isText
}

// Rows normalizes the input. Text starting with '[' or '{' is decoded as
// JSON; if that fails it is read as CSV.
func (in Input) Rows() ([]Row, error) {
	if !in.isText {
		return fromMaps(in.structured), nil
	}

	trimmed := strings.TrimSpace(in.text)
	if looksLikeJSON(trimmed) {
		out, err := DecodeJSON(trimmed)
		if err == nil {
			return out, nil
		}
		if errors.Is(err, contract.ErrMalformedInput) {
			return nil, err
		}
	}
	return ParseCSV(in.text), nil
}

func looksLikeJSON(s string) bool {
	return strings.HasPrefix(s, "[") || strings.HasPrefix(s, "{")
}

func fromMaps(records []map[string]any) []Row {
	out := make([]Row, 0, len(records))
	for i, m := range records {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out = append(out, Row{Index: i, Keys: keys, Values: m})
	}
	return out
}

var errNotJSON = errors.New("not json")

// DecodeJSON reads a JSON array of objects (or a single object) keeping each
// object's key order. Syntax errors return errNotJSON; well-formed JSON of the
// wrong shape returns ErrMalformedInput.
func DecodeJSON(text string) ([]Row, error) {
	if !json.Valid([]byte(text)) {
		return nil, errNotJSON
	}

	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, errNotJSON
	}

	switch tok {
	case json.Delim('{'):
		row, err := decodeObject(dec, 0)
		if err != nil {
			return nil, err
		}
		return []Row{row}, nil
	case json.Delim('['):
		var out []Row
		for idx := 0; dec.More(); idx++ {
			inner, err := dec.Token()
			if err != nil {
				return nil, errNotJSON
			}
			if inner != json.Delim('{') {
				return nil, fmt.Errorf("%w: element %d is not an object", contract.ErrMalformedInput, idx)
			}
			row, err := decodeObject(dec, idx)
			if err != nil {
				return nil, err
			}
			out = append(out, row)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: expected an array of objects", contract.ErrMalformedInput)
	}
}

// decodeObject consumes the rest of an object whose '{' was already read.
func decodeObject(dec *json.Decoder, idx int) (Row, error) {
	row := Row{Index: idx, Values: map[string]any{}}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return Row{}, errNotJSON
		}
		key, ok := keyTok.(string)
		if !ok {
			return Row{}, errNotJSON
		}
		var val any
		if err := dec.Decode(&val); err != nil {
			return Row{}, errNotJSON
		}
		if _, seen := row.Values[key]; !seen {
			row.Keys = append(row.Keys, key)
		}
		row.Values[key] = val
	}
	// closing '}'
	if _, err := dec.Token(); err != nil && !errors.Is(err, io.EOF) {
		return Row{}, errNotJSON
	}
	return row, nil
}
