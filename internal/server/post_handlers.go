package server

import (
	"nichehub/internal/middleware"
	"nichehub/internal/models"
	"nichehub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetFeed handles GET /api/posts?community=...
func (s *Server) GetFeed(c *fiber.Ctx) error {
	ctx := c.Context()
	page := parsePagination(c, 50)
	viewerID := middleware.ViewerID(c)

	posts, err := s.feedService.FetchFeed(ctx, service.FetchFeedInput{
		FilterLocalID: c.Query("community"),
		ViewerID:      viewerID,
		Limit:         page.Limit,
		Offset:        page.Offset,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(posts)
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	ctx := c.Context()
	viewerID := middleware.ViewerID(c)

	var req struct {
		Content     string `json:"content"`
		CommunityID string `json:"community_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.CommunityID == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Community is required"))
	}

	post, err := s.postService.CreatePost(ctx, service.CreatePostInput{
		ViewerID:         viewerID,
		Content:          req.Content,
		LocalCommunityID: req.CommunityID,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// ToggleLike handles POST /api/posts/:id/like. The client reports the like
// state it is toggling away from; the service applies the opposite action.
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	ctx := c.Context()
	viewerID := middleware.ViewerID(c)

	postID := c.Params("id")
	if postID == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Post ID is required"))
	}

	var req struct {
		CurrentlyLiked bool `json:"currently_liked"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	result, err := s.postService.ToggleLike(ctx, viewerID, postID, req.CurrentlyLiked)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(result)
}
