package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"nichehub/internal/models"
	"nichehub/internal/observability"
	"nichehub/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// MaxPostContentLength is the post length limit, counted in runes so
// multi-byte scripts get the full allowance.
const MaxPostContentLength = 140

// PostService issues the write operations: create-post and like toggling.
type PostService struct {
	postRepo   repository.PostRepository
	userRepo   repository.UserRepository
	reconciler *Reconciler
}

// NewPostService creates a new post service
func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository, reconciler *Reconciler) *PostService {
	return &PostService{
		postRepo:   postRepo,
		userRepo:   userRepo,
		reconciler: reconciler,
	}
}

// CreatePostInput carries the fields for a new post.
type CreatePostInput struct {
	ViewerID         string
	Content          string
	LocalCommunityID string
}

// LikeResult reports the action a like toggle performed.
type LikeResult struct {
	PostID string `json:"post_id"`
	Action string `json:"action"`
}

// CreatePost validates and inserts a post attributed to the viewer. The
// catalog community id is translated to its backend record id before the
// write; a missing mapping is a data-setup failure, not user error.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if in.ViewerID == "" {
		return nil, models.NewAuthRequiredError("Sign in to post")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if utf8.RuneCountInString(in.Content) > MaxPostContentLength {
		return nil, models.NewValidationError("Content too long (max 140 characters)")
	}

	remoteID, ok := s.reconciler.LocalToRemote(in.LocalCommunityID)
	if !ok {
		return nil, models.NewUnresolvedCommunityError(in.LocalCommunityID)
	}

	post := &models.Post{
		Content:     in.Content,
		UserID:      in.ViewerID,
		CommunityID: remoteID,
	}
	// Repo create invalidates the feed cache so subsequent reads see the post.
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, models.WrapBackendError(err)
	}
	observability.AddTraceAttributesToContext(ctx,
		attribute.String("post.id", post.ID),
		attribute.String("post.community", in.LocalCommunityID))

	// Return the post display-ready: catalog community id and author set.
	post.CommunityID = in.LocalCommunityID
	author := models.PlaceholderAuthor(post.UserID)
	if user, err := s.userRepo.GetByID(ctx, in.ViewerID); err == nil && user != nil {
		author = models.AuthorOf(user)
	}
	post.Author = &author
	return post, nil
}

// ToggleLike removes the viewer's like when currentlyLiked is set and adds
// one otherwise. Both directions are idempotent; the database uniqueness
// constraint resolves races between concurrent toggles, and callers re-fetch
// the feed to reconcile displayed state.
func (s *PostService) ToggleLike(ctx context.Context, viewerID, postID string, currentlyLiked bool) (*LikeResult, error) {
	if viewerID == "" {
		return nil, models.NewAuthRequiredError("Sign in to like posts")
	}

	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, models.WrapBackendError(err)
	}

	if currentlyLiked {
		if err := s.postRepo.Unlike(ctx, viewerID, postID); err != nil {
			return nil, models.WrapBackendError(err)
		}
		return &LikeResult{PostID: postID, Action: "unliked"}, nil
	}

	if err := s.postRepo.Like(ctx, viewerID, postID); err != nil {
		return nil, models.WrapBackendError(err)
	}
	return &LikeResult{PostID: postID, Action: "liked"}, nil
}
