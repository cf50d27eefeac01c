package models

import (
	"time"

	"gorm.io/gorm"

	"cryptowatch/internal/uuid"
)

// Base holds the id and timestamps shared by stored records. Rows are
// hard-deleted, so there is no deleted_at column.
type Base struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns a time-ordered id to new records.
func (b *Base) BeforeCreate(_ *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New()
	}
	return nil
}
