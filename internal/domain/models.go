// Package domain defines the persistence model for captured leads. The type
// is mapped with GORM and forms the data layer of the lead-capture service.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// Lead represents one validated form submission stored in the leads table.
// A visitor may submit at most once per email address (unique index); a
// second submission surfaces as a duplicate-key conflict, not a new row.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Name: submitter's name as entered in the form.
//   - Email: submitter's address; unique across the table.
//   - Phone: optional free-text phone number.
//   - Message: the submitted message body.
//   - Source: where the form was embedded; defaults to "website" upstream.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
//   - DeletedAt: soft deletion marker (retains row for audit/history).
type Lead struct {
	ID        string         `json:"id"         gorm:"type:char(36);primaryKey"`
	Name      string         `json:"name"       gorm:"type:varchar(255);not null"`
	Email     string         `json:"email"      gorm:"type:varchar(255);not null;uniqueIndex:ux_leads_email"`
	Phone     string         `json:"phone,omitempty" gorm:"type:varchar(64)"`
	Message   string         `json:"message"    gorm:"type:text;not null"`
	Source    string         `json:"source"     gorm:"type:varchar(255);not null;default:'website'"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"          gorm:"index"`
}

// TableName returns the database table name for Lead.
func (Lead) TableName() string { return "leads" }
