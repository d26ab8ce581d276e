package catalog

import (
	"errors"
	"fmt"
)

// ErrInvalidRecord is returned when a record fails ingest validation.
var ErrInvalidRecord = errors.New("invalid record")

// RecordError describes why a single record was rejected.
type RecordError struct {
	Kind   string // "alert", "route", "request", "team" or "case"
	ID     string
	Reason string
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s %q: %s: %s", e.Kind, e.ID, ErrInvalidRecord, e.Reason)
}

func (e *RecordError) Unwrap() error {
	return ErrInvalidRecord
}

// BatchResult reports the outcome of a bulk replace.
type BatchResult struct {
	Accepted int     `json:"accepted"`
	Rejected int     `json:"rejected"`
	Errors   []error `json:"-"`
}

// Reasons returns the rejection messages, for logging and API responses.
func (r BatchResult) Reasons() []string {
	out := make([]string, len(r.Errors))
	for i, err := range r.Errors {
		out[i] = err.Error()
	}
	return out
}
