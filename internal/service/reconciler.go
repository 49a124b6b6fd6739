package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"nichehub/internal/catalog"
	"nichehub/internal/middleware"
	"nichehub/internal/observability"
	"nichehub/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// Reconciler maintains the bidirectional mapping between catalog community
// ids and backend-issued community record ids. The mapping is rebuilt from
// scratch on every Reconcile call and swapped in whole, so concurrent
// readers observe either the old or the new mapping, never a partial one.
type Reconciler struct {
	communityRepo repository.CommunityRepository

	mu            sync.RWMutex
	localToRemote map[string]string
	remoteToLocal map[string]string
}

// NewReconciler creates a reconciler with an empty mapping. Callers must run
// Reconcile (after seeding) before mapping lookups return anything.
func NewReconciler(communityRepo repository.CommunityRepository) *Reconciler {
	return &Reconciler{
		communityRepo: communityRepo,
		localToRemote: map[string]string{},
		remoteToLocal: map[string]string{},
	}
}

// Reconcile rebuilds the mapping from the current backend community records.
// Idempotent and safe to call repeatedly. A fetch failure is logged and
// leaves the previous mapping in place; it never propagates to callers.
func (r *Reconciler) Reconcile(ctx context.Context) {
	span, ctx := observability.NewSpan(ctx, "reconciler.Reconcile")
	defer span.End()

	records, err := r.communityRepo.List(ctx)
	if err != nil {
		span.SetError(err)
		middleware.Logger.WarnContext(ctx, "community reconciliation failed, keeping previous mapping",
			slog.String("error", err.Error()))
		middleware.ReconcileRuns.WithLabelValues("error").Inc()
		return
	}

	localToRemote := make(map[string]string, len(catalog.Entries))
	remoteToLocal := make(map[string]string, len(catalog.Entries))

	for _, entry := range catalog.Entries {
		canonical := catalog.CanonicalName(entry)
		for _, rec := range records {
			if !strings.EqualFold(rec.Name, canonical) && !strings.EqualFold(rec.Name, entry.DisplayName) {
				continue
			}
			// A record already claimed by an earlier entry stays claimed;
			// the mapping must remain one-to-one in both directions.
			if _, taken := remoteToLocal[rec.ID]; taken {
				continue
			}
			localToRemote[entry.LocalID] = rec.ID
			remoteToLocal[rec.ID] = entry.LocalID
			break
		}
		// Unmatched entries simply produce no mapping; not an error.
	}

	r.mu.Lock()
	r.localToRemote = localToRemote
	r.remoteToLocal = remoteToLocal
	r.mu.Unlock()

	span.AddAttributes(
		attribute.Int("reconcile.mapped", len(localToRemote)),
		attribute.Int("reconcile.remote_records", len(records)),
	)
	middleware.ReconcileRuns.WithLabelValues("ok").Inc()
	middleware.ReconcileMappings.Set(float64(len(localToRemote)))
	middleware.Logger.InfoContext(ctx, "community reconciliation completed",
		slog.Int("mapped", len(localToRemote)),
		slog.Int("remote_records", len(records)))
}

// LocalToRemote returns the backend record id for a catalog id.
func (r *Reconciler) LocalToRemote(localID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	remoteID, ok := r.localToRemote[localID]
	return remoteID, ok
}

// RemoteToLocal returns the catalog id for a backend record id. For unmapped
// ids it returns the input unchanged so downstream display code always has
// something to key on.
func (r *Reconciler) RemoteToLocal(remoteID string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if localID, ok := r.remoteToLocal[remoteID]; ok {
		return localID
	}
	return remoteID
}

// MappedCount returns the number of catalog entries with a backend mapping.
func (r *Reconciler) MappedCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.localToRemote)
}
