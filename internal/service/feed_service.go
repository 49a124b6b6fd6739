package service

import (
	"context"
	"log/slog"
	"sync"

	"nichehub/internal/cache"
	"nichehub/internal/middleware"
	"nichehub/internal/models"
	"nichehub/internal/observability"
	"nichehub/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

const (
	defaultFeedLimit = 50
	// enrichConcurrency bounds the per-post enrichment fan-out.
	enrichConcurrency = 8
)

// FeedService assembles the display feed: raw post rows enriched with author
// identity, like counts, the viewer's like status, and catalog community ids.
type FeedService struct {
	postRepo   repository.PostRepository
	userRepo   repository.UserRepository
	reconciler *Reconciler
}

// NewFeedService creates a new feed service
func NewFeedService(postRepo repository.PostRepository, userRepo repository.UserRepository, reconciler *Reconciler) *FeedService {
	return &FeedService{
		postRepo:   postRepo,
		userRepo:   userRepo,
		reconciler: reconciler,
	}
}

// FetchFeedInput carries feed query parameters. ViewerID may be empty for
// anonymous reads.
type FetchFeedInput struct {
	FilterLocalID string
	ViewerID      string
	Limit         int
	Offset        int
}

// FetchFeed returns enriched posts newest first.
//
// A filter naming a community with no backend mapping returns an empty list:
// returning the unfiltered feed instead would leak posts from the wrong
// community, and an error would block the page for a cosmetic gap.
func (s *FeedService) FetchFeed(ctx context.Context, in FetchFeedInput) ([]*models.Post, error) {
	span, ctx := observability.NewSpan(ctx, "feed.FetchFeed")
	defer span.End()
	span.AddAttributes(
		attribute.String("feed.filter", in.FilterLocalID),
		attribute.Bool("feed.authenticated", in.ViewerID != ""),
	)

	limit := in.Limit
	if limit <= 0 {
		limit = defaultFeedLimit
	}

	communityID := ""
	if in.FilterLocalID != "" && in.FilterLocalID != "all" {
		remoteID, ok := s.reconciler.LocalToRemote(in.FilterLocalID)
		if !ok {
			middleware.Logger.WarnContext(ctx, "feed filter has no community mapping",
				slog.String("community", in.FilterLocalID))
			return []*models.Post{}, nil
		}
		communityID = remoteID
	}

	// Only the unfiltered first page is cached; it is what every client
	// renders on load. Viewer-specific like flags are recomputed after a hit.
	if communityID == "" && in.Offset == 0 && limit == defaultFeedLimit {
		var posts []*models.Post
		err := cache.Aside(ctx, cache.FeedKey(), &posts, cache.FeedTTL, func() error {
			var fetchErr error
			posts, fetchErr = s.assemble(ctx, "", limit, 0, "")
			return fetchErr
		})
		if err != nil {
			return nil, models.WrapBackendError(err)
		}
		s.applyViewerLikes(ctx, posts, in.ViewerID)
		if posts == nil {
			posts = []*models.Post{}
		}
		return posts, nil
	}

	posts, err := s.assemble(ctx, communityID, limit, in.Offset, in.ViewerID)
	if err != nil {
		return nil, models.WrapBackendError(err)
	}
	return posts, nil
}

// assemble fetches raw rows and enriches each post concurrently. Per-post
// enrichment failures degrade that post only; the batch never aborts.
func (s *FeedService) assemble(ctx context.Context, communityID string, limit, offset int, viewerID string) ([]*models.Post, error) {
	rows, err := s.postRepo.List(ctx, communityID, limit, offset)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []*models.Post{}, nil
	}

	sem := make(chan struct{}, enrichConcurrency)
	var wg sync.WaitGroup
	for _, post := range rows {
		wg.Add(1)
		sem <- struct{}{}
		go func(p *models.Post) {
			defer wg.Done()
			defer func() { <-sem }()
			s.enrichPost(ctx, p, viewerID)
		}(post)
	}
	wg.Wait()

	return rows, nil
}

// enrichPost resolves the author identity, like count, and viewer like
// status for a single post, and rewrites the community id to its catalog id
// for display. Lookup failures leave placeholder data in place.
func (s *FeedService) enrichPost(ctx context.Context, post *models.Post, viewerID string) {
	post.CommunityID = s.reconciler.RemoteToLocal(post.CommunityID)

	author := models.PlaceholderAuthor(post.UserID)
	user, err := s.userRepo.GetByID(ctx, post.UserID)
	switch {
	case err != nil:
		middleware.FeedEnrichmentDegraded.Inc()
		observability.RecordErrorInContext(ctx, err)
		middleware.Logger.WarnContext(ctx, "author lookup failed, using placeholder",
			slog.String("post_id", post.ID),
			slog.String("user_id", post.UserID),
			slog.String("error", err.Error()))
	case user != nil:
		author = models.AuthorOf(user)
	}
	post.Author = &author

	count, err := s.postRepo.CountLikes(ctx, post.ID)
	if err != nil {
		middleware.FeedEnrichmentDegraded.Inc()
		count = 0
	}
	post.LikesCount = int(count)

	if viewerID != "" {
		liked, err := s.postRepo.IsLiked(ctx, viewerID, post.ID)
		if err == nil {
			post.Liked = liked
		}
	}
}

// applyViewerLikes recomputes the viewer's like flags on cached posts.
func (s *FeedService) applyViewerLikes(ctx context.Context, posts []*models.Post, viewerID string) {
	if viewerID == "" || len(posts) == 0 {
		return
	}
	postIDs := make([]string, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}
	likedIDs, err := s.postRepo.GetLikedPostIDs(ctx, viewerID, postIDs)
	if err != nil {
		return
	}
	likedMap := make(map[string]bool, len(likedIDs))
	for _, id := range likedIDs {
		likedMap[id] = true
	}
	for _, p := range posts {
		p.Liked = likedMap[p.ID]
	}
}
