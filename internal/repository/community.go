// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"

	"nichehub/internal/models"

	"gorm.io/gorm"
)

// CommunityRepository defines the interface for community record operations.
type CommunityRepository interface {
	List(ctx context.Context) ([]*models.Community, error)
	Create(ctx context.Context, community *models.Community) error
}

// communityRepository implements CommunityRepository
type communityRepository struct {
	db *gorm.DB
}

// NewCommunityRepository creates a new community repository
func NewCommunityRepository(db *gorm.DB) CommunityRepository {
	return &communityRepository{db: db}
}

func (r *communityRepository) List(ctx context.Context) ([]*models.Community, error) {
	var communities []*models.Community
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&communities).Error
	if err != nil {
		return nil, err
	}
	return communities, nil
}

func (r *communityRepository) Create(ctx context.Context, community *models.Community) error {
	return r.db.WithContext(ctx).Create(community).Error
}
