package models

import "time"

// Like marks that a user liked a post. The composite primary key enforces
// at most one like per (user, post) pair; the database constraint, not
// client-side locking, is the source of truth under concurrent toggles.
type Like struct {
	UserID    string    `gorm:"type:uuid;primaryKey" json:"user_id"`
	PostID    string    `gorm:"type:uuid;primaryKey" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}
