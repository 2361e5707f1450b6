// Package repo implements the data persistence layer for captured leads,
// backed by GORM. This file provides repository functions for the Lead model.
//
// The repository follows a "thin" approach: it performs persistence and simple
// query composition, leaving business rules to the services package.
//
// Error semantics:
//   - A duplicate email relies on the database unique index and is returned
//     as a raw DB error. The service layer translates that into a domain
//     error (ErrDuplicateSubmission).
//   - On other DB errors (connectivity, constraints, etc.), the raw gorm
//     error is propagated.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-leads-backend/internal/domain"
)

// ErrNotFound is returned when a requested lead does not exist.
var ErrNotFound = errors.New("lead not found")

// CreateLead inserts a new lead row and returns it with the store-assigned
// identifier and timestamps populated.
//
// The email column carries a unique index; inserting a second lead with the
// same address returns the driver's duplicate-key error, which callers should
// translate into a conflict at the service layer. The row is never mutated
// after insert.
func CreateLead(ctx context.Context, db *gorm.DB, name, email, phone, message, source string) (*domain.Lead, error) {
	lead := &domain.Lead{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Phone:     phone,
		Message:   message,
		Source:    source,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(lead).Error; err != nil {
		return nil, err
	}
	return lead, nil
}

// GetLead fetches a lead by ID. Returns ErrNotFound when no row matches.
func GetLead(ctx context.Context, db *gorm.DB, id string) (*domain.Lead, error) {
	var lead domain.Lead
	err := db.WithContext(ctx).First(&lead, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

// CountLeads returns the number of stored leads (soft-deleted rows excluded).
func CountLeads(ctx context.Context, db *gorm.DB) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.Lead{}).Count(&n).Error
	return n, err
}
