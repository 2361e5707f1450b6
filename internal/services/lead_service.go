// Package services – LeadService
//
// This file implements the LeadService, which governs how a form submission
// becomes a stored lead. It runs the validation pass, applies defaults, and
// persists the record, translating driver-specific duplicate-key errors into
// the stable ErrDuplicateSubmission so handlers can map them to HTTP results
// consistently.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/tbourn/go-leads-backend/internal/domain"
	"github.com/tbourn/go-leads-backend/internal/repo"
)

// LeadService implements the use-cases around lead submission. It is
// context-aware and safe for concurrent use; each call performs a single
// insert with no shared mutable state.
type LeadService struct {
	// DB is the database handle used for all lead operations.
	DB *gorm.DB
}

// Submit validates sub, applies defaults, and persists it as a new lead.
//
// Semantics:
//   - Validation failures return a *ValidationError listing every broken
//     field; nothing is persisted and no notification is sent.
//   - Source defaults to "website" when absent.
//   - A lead whose email already exists yields ErrDuplicateSubmission. The
//     stored row is left untouched.
//   - Any other store error is returned as-is for the handler to log and
//     surface generically.
//
// On success the returned Lead carries the store-assigned ID and creation
// timestamp and is never mutated afterwards.
func (s *LeadService) Submit(ctx context.Context, sub Submission) (*domain.Lead, error) {
	if ve := Validate(sub); ve != nil {
		return nil, ve
	}
	sub = Normalize(sub)

	lead, err := repo.CreateLead(ctx, s.DB, sub.Name, sub.Email, sub.Phone, sub.Message, sub.Source)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || isDuplicate(err) {
			return nil, ErrDuplicateSubmission
		}
		return nil, err
	}
	return lead, nil
}

// isDuplicate attempts to detect unique-constraint violations across drivers
// that may not map to gorm.ErrDuplicatedKey.
func isDuplicate(err error) bool {
	// SQLite typically: "UNIQUE constraint failed"
	// Postgres typically: "duplicate key value violates unique constraint" (23505)
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "23505")
}
