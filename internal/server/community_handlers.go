package server

import (
	"log/slog"

	"nichehub/internal/catalog"
	"nichehub/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// communityView is a catalog entry decorated with its reconciled backend id
// and post count.
type communityView struct {
	catalog.Entry
	RemoteID  string `json:"remote_id,omitempty"`
	Mapped    bool   `json:"mapped"`
	PostCount int64  `json:"post_count"`
}

// GetCommunities handles GET /api/communities. The list always comes from
// the built-in catalog so the UI renders even when the backend is missing
// records; each entry carries its backend id and post count when the
// reconciler has a mapping.
func (s *Server) GetCommunities(c *fiber.Ctx) error {
	ctx := c.Context()

	views := make([]communityView, 0, len(catalog.Entries))
	for _, entry := range catalog.Entries {
		view := communityView{Entry: entry}
		if remoteID, ok := s.reconciler.LocalToRemote(entry.LocalID); ok {
			view.RemoteID = remoteID
			view.Mapped = true
			count, err := s.postRepo.CountByCommunity(ctx, remoteID)
			if err != nil {
				// A count failure is cosmetic; the entry still renders.
				middleware.Logger.WarnContext(ctx, "community post count failed",
					slog.String("community", entry.LocalID),
					slog.String("error", err.Error()))
			} else {
				view.PostCount = count
			}
		}
		views = append(views, view)
	}
	return c.JSON(views)
}
