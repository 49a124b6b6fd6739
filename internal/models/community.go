package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Community is a backend-issued community record. Records are created by the
// idempotent seeding step and never updated or deleted by the application, so
// manual edits to description or color survive re-seeding.
type Community struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:120;not null;uniqueIndex" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	IconGlyph   string    `gorm:"size:16" json:"icon"`
	ColorToken  string    `gorm:"size:40" json:"color"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Community) TableName() string {
	return "communities"
}

// BeforeCreate assigns a UUID primary key when none is set.
func (c *Community) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
