package records

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Record is one row as returned by Read and Load. Values line up with Fields;
// a nil value is SQL NULL.
type Record struct {
	ID     int64
	Fields []string
	Values []*string
}

// Get returns the value of a logical field and whether the record carries it.
func (r Record) Get(field string) (*string, bool) {
	for i, f := range r.Fields {
		if f == field {
			return r.Values[i], true
		}
	}
	return nil, false
}

// Strings returns the values with NULL rendered as the empty string.
func (r Record) Strings() []string {
	out := make([]string, len(r.Values))
	for i, v := range r.Values {
		if v != nil {
			out[i] = *v
		}
	}
	return out
}

func (r Record) MarshalJSON() ([]byte, error) {
	values := make(map[string]*string, len(r.Fields))
	for i, f := range r.Fields {
		values[f] = r.Values[i]
	}
	return json.Marshal(struct {
		ID     int64              `json:"id"`
		Fields []string           `json:"fields"`
		Values map[string]*string `json:"values"`
	}{r.ID, r.Fields, values})
}

// render turns a scanned driver value into its display string. Dates keep the
// YYYY-MM-DD form they were entered in.
func render(v any) *string {
	var s string
	switch t := v.(type) {
	case nil:
		return nil
	case time.Time:
		s = t.Format(DateLayout)
	case []byte:
		s = string(t)
	case string:
		s = t
	case int64:
		s = strconv.FormatInt(t, 10)
	case int32:
		s = strconv.FormatInt(int64(t), 10)
	case int:
		s = strconv.Itoa(t)
	case uint64:
		s = strconv.FormatUint(t, 10)
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		s = strconv.FormatBool(t)
	default:
		s = fmt.Sprint(t)
	}
	return &s
}
