package phase

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"

	"github.com/tanpawarit/salon-onboarding-mcp/onboarding/contract"
	"github.com/tanpawarit/salon-onboarding-mcp/onboarding/rows"
	statex "github.com/tanpawarit/salon-onboarding-mcp/onboarding/state"
)

// Job performs the single remote create for one prepared row and returns the
// new entity id.
type Job func(ctx context.Context, remote contract.Remote, companyID int) (int, error)

// Item is a prepared row: either a Job to run or the reason it was rejected.
type Item struct {
	Row int
	Job Job
	Err error
}

// Spec describes one batch phase.
type Spec struct {
	Checkpoint statex.CheckpointName
	prepare    func(row rows.Row, sess *statex.Session) (Job, error)
}

func (s Spec) Phase() statex.Phase {
	return s.Checkpoint.Phase()
}

// Prepare decodes and validates every row. Rejected rows keep their index so
// failures can be reported against the caller's input.
func (s Spec) Prepare(in []rows.Row, sess *statex.Session) []Item {
	out := make([]Item, 0, len(in))
	for _, row := range in {
		item := Item{Row: row.Index}
		if row.Err != nil {
			item.Err = fmt.Errorf("%w: %v", contract.ErrMalformedInput, row.Err)
			out = append(out, item)
			continue
		}
		item.Job, item.Err = s.prepare(row, sess)
		out = append(out, item)
	}
	return out
}

func ForCheckpoint(name statex.CheckpointName) (Spec, bool) {
	switch name {
	case statex.CheckpointStaff:
		return Staff, true
	case statex.CheckpointCategories:
		return Categories, true
	case statex.CheckpointServices:
		return Services, true
	case statex.CheckpointClients:
		return Clients, true
	default:
		return Spec{}, false
	}
}

/* ------------------------------ decoding ------------------------------ */

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("mapstructure"), ",", 2)[0]
			if name == "" || name == "-" {
				return strings.ToLower(f.Name)
			}
			return name
		})
	})
	return validate
}

func trimStrings(_ reflect.Type, _ reflect.Type, data any) (any, error) {
	if s, ok := data.(string); ok {
		return strings.TrimSpace(s), nil
	}
	return data, nil
}

func decodeRow(row rows.Row, out any) error {
	return Decode(row.Values, out)
}

// Decode maps loosely typed values onto out (CSV strings become numbers) and
// runs the struct's validate tags. Field names come from mapstructure tags.
func Decode(values map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       trimStrings,
		WeaklyTypedInput: true,
		Result:           out,
		TagName:          "mapstructure",
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(values); err != nil {
		return fmt.Errorf("%w: %v", contract.ErrMalformedInput, err)
	}

	if err := validatorInstance().Struct(out); err != nil {
		return describeValidation(err)
	}
	return nil
}

func describeValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", contract.ErrValidation, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "required_without":
			msgs = append(msgs, fmt.Sprintf("%s or %s is required", field, strings.ToLower(fe.Param())))
		case "email":
			msgs = append(msgs, field+" must be a valid email")
		case "gte", "min":
			msgs = append(msgs, fmt.Sprintf("%s must be >= %s", field, fe.Param()))
		case "gt":
			msgs = append(msgs, fmt.Sprintf("%s must be > %s", field, fe.Param()))
		case "lte", "max":
			msgs = append(msgs, fmt.Sprintf("%s must be <= %s", field, fe.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s]", field, fe.Param()))
		case "datetime":
			msgs = append(msgs, fmt.Sprintf("%s must match %s", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", contract.ErrValidation, strings.Join(msgs, "; "))
}

func optionalInt(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}

func optionalFloat(v float64) *float64 {
	if v == 0 {
		return nil
	}
	return &v
}

func optionalString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
