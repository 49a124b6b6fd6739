// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"nichehub/internal/catalog"
	"nichehub/internal/middleware"
	"nichehub/internal/models"

	"gorm.io/gorm"
)

// Communities inserts one backend community record per catalog entry that has
// no existing record matching its canonical name (case-insensitive).
// Idempotent: existing records are never updated or deleted, so manually
// edited remote metadata survives re-seeding. Returns the full record list
// after seeding.
func Communities(ctx context.Context, db *gorm.DB) ([]*models.Community, error) {
	var existing []*models.Community
	if err := db.WithContext(ctx).Find(&existing).Error; err != nil {
		return nil, fmt.Errorf("fetch existing communities: %w", err)
	}

	byName := make(map[string]*models.Community, len(existing))
	for _, c := range existing {
		byName[strings.ToLower(c.Name)] = c
	}

	for _, entry := range catalog.Entries {
		name := catalog.CanonicalName(entry)
		if _, ok := byName[strings.ToLower(name)]; ok {
			continue
		}
		community := &models.Community{
			Name:        name,
			Description: entry.Description,
			IconGlyph:   entry.IconGlyph,
			ColorToken:  entry.ColorToken,
		}
		if err := db.WithContext(ctx).Create(community).Error; err != nil {
			return nil, fmt.Errorf("seed community %s: %w", entry.LocalID, err)
		}
		byName[strings.ToLower(name)] = community
		middleware.Logger.InfoContext(ctx, "seeded community",
			slog.String("local_id", entry.LocalID),
			slog.String("name", name),
			slog.String("remote_id", community.ID))
	}

	var all []*models.Community
	if err := db.WithContext(ctx).Order("created_at ASC").Find(&all).Error; err != nil {
		return nil, fmt.Errorf("fetch communities after seeding: %w", err)
	}
	return all, nil
}
