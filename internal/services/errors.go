// Package services defines the business logic for lead submission: input
// validation, persistence orchestration, and notification fan-out. This file
// centralizes service-level error values and the structured validation error
// so that they can be consistently returned by service methods and checked by
// callers.
//
// These errors are intended for internal use by the service layer; translation
// into user-facing messages or HTTP status codes is performed at the handler
// layer.
package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrDuplicateSubmission is returned when a lead with the same email address
// has already been stored. Handlers map it to a 409 conflict with a friendly
// message rather than a generic failure.
var ErrDuplicateSubmission = errors.New("lead already submitted")

// ValidationError carries every field-level violation found in one pass over
// the untrusted payload. A field may accumulate more than one message.
type ValidationError struct {
	// Fields maps the JSON field name to its human-readable messages,
	// e.g. {"email": ["Invalid email address"]}.
	Fields map[string][]string
}

// Error implements the error interface with a deterministic summary.
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	return fmt.Sprintf("validation failed: %s", strings.Join(names, ", "))
}

// add appends a message for a field, allocating the map lazily.
func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], msg)
}
