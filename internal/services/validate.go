// Package services – input validation.
//
// This file defines the Submission value and the validation pass that turns
// an untrusted payload into something the persistence and notification stages
// may rely on. Validation collects every violation in a single pass so the
// caller sees all broken fields at once, not just the first.
package services

import (
	"github.com/go-playground/validator/v10"
)

// DefaultSource is the source label applied when the form did not carry one.
const DefaultSource = "website"

// Submission is a lead-capture form payload. Before Validate it is untrusted;
// after Validate succeeds it satisfies every field constraint and Source is
// never empty. The value is passed by copy, so downstream stages cannot
// observe later mutation.
type Submission struct {
	Name    string `validate:"required"`
	Email   string `validate:"required,email"`
	Phone   string `validate:"-"`
	Message string `validate:"required"`
	Source  string `validate:"-"`
}

// validate is the shared validator instance. validator.Validate is safe for
// concurrent use and caches struct metadata, so one instance serves all
// requests.
var validate = validator.New(validator.WithRequiredStructEnabled())

// fieldMessage maps a struct field and failed rule to the message shown to
// the submitter. Any email failure reads the same way: an empty address is as
// unusable as a malformed one.
func fieldMessage(field, tag string) (string, string) {
	switch field {
	case "Name":
		return "name", "Name is required"
	case "Email":
		return "email", "Invalid email address"
	case "Message":
		return "message", "Message is required"
	default:
		return field, "Invalid value"
	}
}

// Validate checks s against the submission schema and returns a
// *ValidationError listing every violated field, or nil when the payload is
// acceptable. Phone and Source are free text and never rejected.
func Validate(s Submission) *ValidationError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		// validator.Struct only returns InvalidValidationError for non-struct
		// input, which cannot happen with a Submission value.
		ve := &ValidationError{}
		ve.add("_", "Invalid payload")
		return ve
	}

	ve := &ValidationError{}
	for _, fe := range verrs {
		field, msg := fieldMessage(fe.Field(), fe.Tag())
		ve.add(field, msg)
	}
	return ve
}

// Normalize applies defaults to optional fields. Meant to run after Validate;
// it only touches Source, which defaults to DefaultSource when the form sent
// nothing.
func Normalize(s Submission) Submission {
	if s.Source == "" {
		s.Source = DefaultSource
	}
	return s
}
