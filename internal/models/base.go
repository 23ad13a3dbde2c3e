// Package models defines the GORM entities of the ledger.
package models

import (
	"time"

	"finances/internal/uuid"

	"gorm.io/gorm"
)

// Base carries the primary key and timestamps shared by every owned entity.
// Rows are soft-deleted through DeletedAt.
type Base struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// BeforeCreate assigns a UUIDv7 unless the caller chose an ID.
func (b *Base) BeforeCreate(_ *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New()
	}
	return nil
}

// IsDeleted reports whether the row was loaded with Unscoped and is soft-deleted.
func (b *Base) IsDeleted() bool {
	return b.DeletedAt.Valid
}
