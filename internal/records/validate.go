package records

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/mrlokans/criminaldb/internal/schema"
)

// DateLayout is the only accepted date format, for input and output alike.
const DateLayout = "2006-01-02"

var (
	ErrUnknownEntity  = errors.New("unknown entity")
	ErrUnknownField   = errors.New("unknown field")
	ErrValueCount     = errors.New("wrong number of values")
	ErrEmptyField     = errors.New("value is required")
	ErrInvalidDate    = errors.New("invalid date, use YYYY-MM-DD")
	ErrInvalidInteger = errors.New("invalid number")
	ErrInvalidID      = errors.New("invalid id, must be a positive whole number")
	ErrNotFound       = errors.New("record not found")
)

// ParseID accepts decimal digits only. Signs, decimal points, zero and values
// that overflow int64 are all rejected with ErrInvalidID.
func ParseID(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, ErrInvalidID
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return 0, ErrInvalidID
		}
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

// ParseDate accepts exactly YYYY-MM-DD naming a real calendar day.
func ParseDate(raw string) (time.Time, error) {
	if len(raw) != len(DateLayout) {
		return time.Time{}, ErrInvalidDate
	}
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// bindValues trims and coerces one value per registry field, in registry
// order. With strict set every value must be non-empty; otherwise only required
// fields must be, and empty optional values bind as NULL. Date fields always go
// through ParseDate, so an empty date is ErrInvalidDate rather than NULL.
func bindValues(desc schema.Descriptor, values []string, strict bool) ([]any, error) {
	if len(values) != len(desc.Fields) {
		return nil, errors.Wrapf(ErrValueCount, "%s expects %d values, got %d", desc.Entity, len(desc.Fields), len(values))
	}

	args := make([]any, len(desc.Fields))
	for i, f := range desc.Fields {
		v := strings.TrimSpace(values[i])
		if v == "" {
			if strict || f.Required {
				return nil, errors.Wrap(ErrEmptyField, f.Name)
			}
			if f.Kind == schema.KindDate {
				if _, err := ParseDate(v); err != nil {
					return nil, errors.Wrap(err, f.Name)
				}
			}
			args[i] = nil
			continue
		}

		switch f.Kind {
		case schema.KindDate:
			t, err := ParseDate(v)
			if err != nil {
				return nil, errors.Wrap(err, f.Name)
			}
			args[i] = t
		case schema.KindInteger:
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return nil, errors.Wrap(ErrInvalidInteger, f.Name)
			}
			args[i] = n
		default:
			args[i] = v
		}
	}
	return args, nil
}

// selectFields resolves logical names against the registry. No names means all
// fields.
func selectFields(desc schema.Descriptor, names []string) ([]schema.Field, error) {
	if len(names) == 0 {
		return desc.Fields, nil
	}
	fields := make([]schema.Field, 0, len(names))
	for _, name := range names {
		f, ok := desc.Field(strings.TrimSpace(name))
		if !ok {
			return nil, errors.Wrapf(ErrUnknownField, "%s has no field %q", desc.Entity, name)
		}
		fields = append(fields, f)
	}
	return fields, nil
}
