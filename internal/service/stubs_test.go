package service

import (
	"context"

	"nichehub/internal/models"
)

// communityRepoStub is a stub for repository.CommunityRepository.
type communityRepoStub struct {
	listFn   func(context.Context) ([]*models.Community, error)
	createFn func(context.Context, *models.Community) error
}

func (s *communityRepoStub) List(ctx context.Context) ([]*models.Community, error) {
	return s.listFn(ctx)
}
func (s *communityRepoStub) Create(ctx context.Context, community *models.Community) error {
	return s.createFn(ctx, community)
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn           func(context.Context, *models.Post) error
	getByIDFn          func(context.Context, string) (*models.Post, error)
	listFn             func(context.Context, string, int, int) ([]*models.Post, error)
	countByCommunityFn func(context.Context, string) (int64, error)
	countLikesFn       func(context.Context, string) (int64, error)
	isLikedFn          func(context.Context, string, string) (bool, error)
	getLikedPostIDsFn  func(context.Context, string, []string) ([]string, error)
	likeFn             func(context.Context, string, string) error
	unlikeFn           func(context.Context, string, string) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id string) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context, communityID string, limit, offset int) ([]*models.Post, error) {
	return s.listFn(ctx, communityID, limit, offset)
}
func (s *postRepoStub) CountByCommunity(ctx context.Context, communityID string) (int64, error) {
	return s.countByCommunityFn(ctx, communityID)
}
func (s *postRepoStub) CountLikes(ctx context.Context, postID string) (int64, error) {
	return s.countLikesFn(ctx, postID)
}
func (s *postRepoStub) IsLiked(ctx context.Context, userID, postID string) (bool, error) {
	return s.isLikedFn(ctx, userID, postID)
}
func (s *postRepoStub) GetLikedPostIDs(ctx context.Context, userID string, postIDs []string) ([]string, error) {
	return s.getLikedPostIDsFn(ctx, userID, postIDs)
}
func (s *postRepoStub) Like(ctx context.Context, userID, postID string) error {
	return s.likeFn(ctx, userID, postID)
}
func (s *postRepoStub) Unlike(ctx context.Context, userID, postID string) error {
	return s.unlikeFn(ctx, userID, postID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:           func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn:          func(_ context.Context, id string) (*models.Post, error) { return &models.Post{ID: id}, nil },
		listFn:             func(_ context.Context, _ string, _, _ int) ([]*models.Post, error) { return nil, nil },
		countByCommunityFn: func(_ context.Context, _ string) (int64, error) { return 0, nil },
		countLikesFn:       func(_ context.Context, _ string) (int64, error) { return 0, nil },
		isLikedFn:          func(_ context.Context, _, _ string) (bool, error) { return false, nil },
		getLikedPostIDsFn:  func(_ context.Context, _ string, _ []string) ([]string, error) { return nil, nil },
		likeFn:             func(_ context.Context, _, _ string) error { return nil },
		unlikeFn:           func(_ context.Context, _, _ string) error { return nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn        func(context.Context, *models.User) error
	getByIDFn       func(context.Context, string) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	updateFn        func(context.Context, *models.User) error
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn:        func(_ context.Context, _ *models.User) error { return nil },
		getByIDFn:       func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByEmailFn:    func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		updateFn:        func(_ context.Context, _ *models.User) error { return nil },
	}
}

// reconcilerWith builds a reconciler whose mapping comes from the given
// community records.
func reconcilerWith(records []*models.Community) *Reconciler {
	r := NewReconciler(&communityRepoStub{
		listFn: func(_ context.Context) ([]*models.Community, error) { return records, nil },
	})
	r.Reconcile(context.Background())
	return r
}
