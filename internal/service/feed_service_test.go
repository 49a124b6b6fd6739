package service

import (
	"context"
	"errors"
	"testing"

	"nichehub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func artReconciler() *Reconciler {
	return reconcilerWith([]*models.Community{
		{ID: "r-art", Name: "Art"},
		{ID: "r-tech", Name: "Technology"},
	})
}

func TestFetchFeedUnmappedFilterReturnsEmptyList(t *testing.T) {
	posts := noopPostRepo()
	posts.listFn = func(_ context.Context, _ string, _, _ int) ([]*models.Post, error) {
		t.Fatal("list should not be called for an unmapped filter")
		return nil, nil
	}
	svc := NewFeedService(posts, noopUserRepo(), reconcilerWith(nil))

	got, err := svc.FetchFeed(context.Background(), FetchFeedInput{FilterLocalID: "art"})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFetchFeedFilterTranslatesToRemoteID(t *testing.T) {
	var gotCommunityID string
	posts := noopPostRepo()
	posts.listFn = func(_ context.Context, communityID string, _, _ int) ([]*models.Post, error) {
		gotCommunityID = communityID
		return []*models.Post{{ID: "p1", UserID: "u1", CommunityID: "r-art"}}, nil
	}
	svc := NewFeedService(posts, noopUserRepo(), artReconciler())

	got, err := svc.FetchFeed(context.Background(), FetchFeedInput{FilterLocalID: "art", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, "r-art", gotCommunityID)
	require.Len(t, got, 1)
	assert.Equal(t, "art", got[0].CommunityID)
}

func TestFetchFeedAllIsUnfiltered(t *testing.T) {
	var gotCommunityID string
	posts := noopPostRepo()
	posts.listFn = func(_ context.Context, communityID string, _, _ int) ([]*models.Post, error) {
		gotCommunityID = "called:" + communityID
		return nil, nil
	}
	svc := NewFeedService(posts, noopUserRepo(), artReconciler())

	_, err := svc.FetchFeed(context.Background(), FetchFeedInput{FilterLocalID: "all", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, "called:", gotCommunityID)
}

func TestFetchFeedEnrichesPosts(t *testing.T) {
	posts := noopPostRepo()
	posts.listFn = func(_ context.Context, _ string, _, _ int) ([]*models.Post, error) {
		return []*models.Post{
			{ID: "p1", UserID: "u1", CommunityID: "r-art"},
			{ID: "p2", UserID: "u1", CommunityID: "r-unmapped"},
		}, nil
	}
	posts.countLikesFn = func(_ context.Context, postID string) (int64, error) {
		if postID == "p1" {
			return 3, nil
		}
		return 0, nil
	}
	posts.isLikedFn = func(_ context.Context, userID, postID string) (bool, error) {
		return userID == "viewer" && postID == "p1", nil
	}
	users := noopUserRepo()
	users.getByIDFn = func(_ context.Context, id string) (*models.User, error) {
		return &models.User{ID: id, Username: "alice", DisplayName: "Alice"}, nil
	}
	svc := NewFeedService(posts, users, artReconciler())

	got, err := svc.FetchFeed(context.Background(), FetchFeedInput{
		FilterLocalID: "art", ViewerID: "viewer", Limit: 10,
	})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "art", got[0].CommunityID)
	// Unmapped community ids pass through unchanged.
	assert.Equal(t, "r-unmapped", got[1].CommunityID)

	require.NotNil(t, got[0].Author)
	assert.Equal(t, "alice", got[0].Author.Username)
	assert.Equal(t, 3, got[0].LikesCount)
	assert.True(t, got[0].Liked)
	assert.Equal(t, 0, got[1].LikesCount)
	assert.False(t, got[1].Liked)
}

func TestFetchFeedMissingAuthorGetsPlaceholder(t *testing.T) {
	posts := noopPostRepo()
	posts.listFn = func(_ context.Context, _ string, _, _ int) ([]*models.Post, error) {
		return []*models.Post{{ID: "p1", UserID: "deadbeef-0000", CommunityID: "r-art"}}, nil
	}
	svc := NewFeedService(posts, noopUserRepo(), artReconciler())

	got, err := svc.FetchFeed(context.Background(), FetchFeedInput{FilterLocalID: "art", Limit: 10})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.NotNil(t, got[0].Author)
	assert.Equal(t, "user_deadbeef", got[0].Author.Username)
	assert.Equal(t, "Unknown user deadbeef", got[0].Author.DisplayName)
}

func TestFetchFeedAuthorLookupErrorDegradesToPlaceholder(t *testing.T) {
	posts := noopPostRepo()
	posts.listFn = func(_ context.Context, _ string, _, _ int) ([]*models.Post, error) {
		return []*models.Post{
			{ID: "p1", UserID: "u-broken", CommunityID: "r-art"},
			{ID: "p2", UserID: "u-ok", CommunityID: "r-art"},
		}, nil
	}
	posts.countLikesFn = func(_ context.Context, postID string) (int64, error) {
		if postID == "p1" {
			return 0, errors.New("timeout")
		}
		return 5, nil
	}
	users := noopUserRepo()
	users.getByIDFn = func(_ context.Context, id string) (*models.User, error) {
		if id == "u-broken" {
			return nil, errors.New("connection refused")
		}
		return &models.User{ID: id, Username: "bob"}, nil
	}
	svc := NewFeedService(posts, users, artReconciler())

	// One post's enrichment failing must not fail the batch or touch the
	// other post.
	got, err := svc.FetchFeed(context.Background(), FetchFeedInput{FilterLocalID: "art", Limit: 10})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "user_u-broken", got[0].Author.Username)
	assert.Equal(t, 0, got[0].LikesCount)
	assert.Equal(t, "bob", got[1].Author.Username)
	assert.Equal(t, 5, got[1].LikesCount)
}

func TestFetchFeedListErrorIsWrapped(t *testing.T) {
	posts := noopPostRepo()
	posts.listFn = func(_ context.Context, _ string, _, _ int) ([]*models.Post, error) {
		return nil, errors.New("pq: too many connections")
	}
	svc := NewFeedService(posts, noopUserRepo(), artReconciler())

	_, err := svc.FetchFeed(context.Background(), FetchFeedInput{FilterLocalID: "art", Limit: 10})
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeBackend, appErr.Code)
}

func TestFetchFeedAnonymousViewerSkipsLikeStatus(t *testing.T) {
	posts := noopPostRepo()
	posts.listFn = func(_ context.Context, _ string, _, _ int) ([]*models.Post, error) {
		return []*models.Post{{ID: "p1", UserID: "u1", CommunityID: "r-art"}}, nil
	}
	posts.isLikedFn = func(_ context.Context, _, _ string) (bool, error) {
		t.Fatal("like status should not be checked for anonymous viewers")
		return false, nil
	}
	svc := NewFeedService(posts, noopUserRepo(), artReconciler())

	got, err := svc.FetchFeed(context.Background(), FetchFeedInput{FilterLocalID: "art", Limit: 10})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.False(t, got[0].Liked)
}

func TestFetchFeedEmptyResultIsEmptySlice(t *testing.T) {
	svc := NewFeedService(noopPostRepo(), noopUserRepo(), artReconciler())

	got, err := svc.FetchFeed(context.Background(), FetchFeedInput{Limit: 10})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, got)
}
