package services

import (
	"testing"
)

func TestValidate_FieldErrors(t *testing.T) {
	tests := []struct {
		name       string
		sub        Submission
		wantFields map[string]string // field -> expected message
	}{
		{
			name: "all required missing",
			sub:  Submission{},
			wantFields: map[string]string{
				"name":    "Name is required",
				"email":   "Invalid email address",
				"message": "Message is required",
			},
		},
		{
			name: "missing name only",
			sub: Submission{
				Email:   "jane@example.com",
				Message: "hello",
			},
			wantFields: map[string]string{"name": "Name is required"},
		},
		{
			name: "malformed email",
			sub: Submission{
				Name:    "Jane",
				Email:   "not-an-email",
				Message: "hello",
			},
			wantFields: map[string]string{"email": "Invalid email address"},
		},
		{
			name: "email without domain",
			sub: Submission{
				Name:    "Jane",
				Email:   "jane@",
				Message: "hello",
			},
			wantFields: map[string]string{"email": "Invalid email address"},
		},
		{
			name: "missing message only",
			sub: Submission{
				Name:  "Jane",
				Email: "jane@example.com",
			},
			wantFields: map[string]string{"message": "Message is required"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ve := Validate(tc.sub)
			if ve == nil {
				t.Fatal("expected validation error")
			}
			if len(ve.Fields) != len(tc.wantFields) {
				t.Fatalf("got %d field errors %v, want %d", len(ve.Fields), ve.Fields, len(tc.wantFields))
			}
			for field, msg := range tc.wantFields {
				got, ok := ve.Fields[field]
				if !ok {
					t.Errorf("missing error for field %q", field)
					continue
				}
				if len(got) != 1 || got[0] != msg {
					t.Errorf("field %q = %v, want [%q]", field, got, msg)
				}
			}
		})
	}
}

func TestValidate_OK(t *testing.T) {
	sub := Submission{
		Name:    "Jane Doe",
		Email:   "jane@example.com",
		Message: "I'd like a quote.",
	}
	if ve := Validate(sub); ve != nil {
		t.Fatalf("unexpected validation error: %v", ve)
	}
}

func TestValidate_OptionalFieldsNeverRejected(t *testing.T) {
	sub := Submission{
		Name:    "Jane",
		Email:   "jane@example.com",
		Phone:   "not really a phone number!!!",
		Message: "hi",
		Source:  "",
	}
	if ve := Validate(sub); ve != nil {
		t.Fatalf("phone/source must be free text, got: %v", ve)
	}
}

func TestNormalize_DefaultsSource(t *testing.T) {
	got := Normalize(Submission{Name: "Jane"})
	if got.Source != DefaultSource {
		t.Errorf("Source = %q, want %q", got.Source, DefaultSource)
	}

	got = Normalize(Submission{Source: "landing-page"})
	if got.Source != "landing-page" {
		t.Errorf("Source = %q, want explicit value preserved", got.Source)
	}
}

func TestValidationError_Error(t *testing.T) {
	ve := &ValidationError{}
	ve.add("email", "Invalid email address")
	ve.add("name", "Name is required")
	if got := ve.Error(); got != "validation failed: email, name" {
		t.Errorf("Error() = %q", got)
	}
}
