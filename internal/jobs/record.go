// Package jobs defines the job posting record read from the external job source.
package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrNotFound signals that the job source holds no record for the identifier.
var ErrNotFound = errors.New("job not found")

// Source looks up job postings by identifier.
type Source interface {
	// FindJob returns the record for id or ErrNotFound when none exists.
	FindJob(ctx context.Context, id string) (Record, error)
}

// Record is a job posting as stored upstream. Every optional field may be nil;
// callers must treat the values as untrusted input.
type Record struct {
	ID       string
	JobTitle *string
	Company  *string
	VisaType *string
	City     *string
	State    *string
	// Salary is an hourly rate.
	Salary   *float64
	Openings *float64
}

// UnmarshalJSON decodes the loosely-typed upstream row. Numeric fields accept
// JSON numbers or numeric strings; values of any other shape are dropped.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("decode job record: %w", err)
	}
	*r = FromMap(raw)
	return nil
}

// FromMap builds a Record from a column-name keyed row.
func FromMap(raw map[string]any) Record {
	id, _ := stringField(raw["id"])
	rec := Record{ID: derefOr(id, "")}
	rec.JobTitle, _ = stringField(raw["job_title"])
	rec.Company, _ = stringField(raw["company"])
	rec.VisaType, _ = stringField(raw["visa_type"])
	rec.City, _ = stringField(raw["city"])
	rec.State, _ = stringField(raw["state"])
	rec.Salary = numberField(raw["salary"])
	rec.Openings = numberField(raw["openings"])
	return rec
}

func stringField(v any) (*string, bool) {
	switch val := v.(type) {
	case string:
		return &val, true
	case json.Number:
		s := val.String()
		return &s, true
	case float64:
		s := strconv.FormatFloat(val, 'f', -1, 64)
		return &s, true
	default:
		return nil, false
	}
}

func numberField(v any) *float64 {
	var (
		f   float64
		err error
	)
	switch val := v.(type) {
	case json.Number:
		f, err = val.Float64()
	case float64:
		f = val
	case float32:
		f = float64(val)
	case int:
		f = float64(val)
	case int32:
		f = float64(val)
	case int64:
		f = float64(val)
	case string:
		f, err = strconv.ParseFloat(strings.TrimSpace(val), 64)
	default:
		return nil
	}
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func derefOr(s *string, def string) string {
	if s == nil {
		return def
	}
	return *s
}
