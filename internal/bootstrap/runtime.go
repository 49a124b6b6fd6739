// Package bootstrap wires runtime dependencies in their required order.
package bootstrap

import (
	"context"
	"fmt"

	"nichehub/internal/cache"
	"nichehub/internal/config"
	"nichehub/internal/database"
	"nichehub/internal/repository"
	"nichehub/internal/seed"
	"nichehub/internal/service"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedCommunities runs the idempotent community seeding step before
	// reconciliation. Disable only when another process owns seeding.
	SeedCommunities bool
}

// Runtime holds ready-to-use runtime dependencies. Construction order is
// load-bearing: communities must be seeded before the reconciler runs, and
// the reconciler must run before any feed or post operation consults the
// mapping.
type Runtime struct {
	DB         *gorm.DB
	Redis      *redis.Client
	Reconciler *service.Reconciler
}

// InitRuntime connects to the database and Redis, seeds community records,
// and reconciles the identifier mapping. The returned Runtime is safe for
// feed and mutation traffic.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*Runtime, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Init Redis (may result in nil client if unreachable)
	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if opts.SeedCommunities {
		if _, err := seed.Communities(ctx, db); err != nil {
			return nil, fmt.Errorf("failed to seed communities: %w", err)
		}
	}

	reconciler := service.NewReconciler(repository.NewCommunityRepository(db))
	// Reconcile never fails hard; an empty mapping is the accepted degraded
	// mode (community filters become no-ops, writes report unresolved).
	reconciler.Reconcile(ctx)

	return &Runtime{
		DB:         db,
		Redis:      r,
		Reconciler: reconciler,
	}, nil
}
