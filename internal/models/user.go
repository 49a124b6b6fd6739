// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents an account with its public profile fields.
type User struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	Username    string    `gorm:"size:30;not null;uniqueIndex" json:"username"`
	Email       string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password    string    `gorm:"not null" json:"-"`
	DisplayName string    `gorm:"size:60" json:"display_name"`
	AvatarURL   string    `json:"avatar_url"`
	Bio         string    `gorm:"type:text" json:"bio"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID primary key when none is set.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// Author is the display identity attached to a post at read time.
type Author struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
}

// AuthorOf builds the display identity for a user record.
func AuthorOf(u *User) Author {
	display := u.DisplayName
	if display == "" {
		display = u.Username
	}
	return Author{
		Username:    u.Username,
		DisplayName: display,
		AvatarURL:   u.AvatarURL,
	}
}

// PlaceholderAuthor is the fallback identity used when a post's author
// profile is missing or cannot be loaded. Derived from a truncated user id
// so distinct unknown authors stay distinguishable.
func PlaceholderAuthor(userID string) Author {
	short := userID
	if len(short) > 8 {
		short = short[:8]
	}
	if short == "" {
		short = "unknown"
	}
	return Author{
		Username:    "user_" + short,
		DisplayName: "Unknown user " + short,
		AvatarURL:   "",
	}
}
