package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post represents a short message published into a community.
//
// CommunityID stores the backend-issued community id. The feed assembly layer
// rewrites it to the catalog id before returning posts to clients, matching
// what the rest of the UI keys on.
type Post struct {
	ID          string `gorm:"type:uuid;primaryKey" json:"id"`
	Content     string `gorm:"type:text;not null" json:"content"`
	UserID      string `gorm:"type:uuid;not null;index" json:"user_id"`
	CommunityID string `gorm:"type:uuid;not null;index" json:"community_id"`
	// Author is not persisted; resolved at read time from the user record,
	// falling back to a placeholder identity when the profile is missing.
	Author *Author `gorm:"-" json:"author,omitempty"`
	// LikesCount is not persisted; computed at read time.
	LikesCount int `gorm:"-" json:"likes_count"`
	// Liked indicates whether the requesting viewer liked this post (computed).
	Liked     bool      `gorm:"-" json:"is_liked"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID primary key when none is set.
func (p *Post) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
