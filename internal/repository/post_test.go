package repository

import (
	"context"
	"testing"

	"nichehub/internal/cache"
	"nichehub/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupRepoTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Community{}, &models.Post{}, &models.Like{}); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}

func setupRepoCache(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })
	return mr
}

func createRepoPost(t *testing.T, db *gorm.DB) *models.Post {
	t.Helper()
	post := &models.Post{Content: "hello", UserID: "u-1", CommunityID: "c-1"}
	require.NoError(t, db.Create(post).Error)
	return post
}

func TestLikeTwiceKeepsOneRow(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	post := createRepoPost(t, db)

	require.NoError(t, repo.Like(ctx, "u-1", post.ID))
	// Liking an already-liked post must not error or add a second row.
	require.NoError(t, repo.Like(ctx, "u-1", post.ID))

	count, err := repo.CountLikes(ctx, post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestUnlikeIsIdempotent(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	post := createRepoPost(t, db)

	// Removing a like that was never created is a no-op.
	require.NoError(t, repo.Unlike(ctx, "u-1", post.ID))

	require.NoError(t, repo.Like(ctx, "u-1", post.ID))
	require.NoError(t, repo.Unlike(ctx, "u-1", post.ID))
	require.NoError(t, repo.Unlike(ctx, "u-1", post.ID))

	count, err := repo.CountLikes(ctx, post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestGetByIDCachesRowAndLikeInvalidates(t *testing.T) {
	db := setupRepoTestDB(t)
	mr := setupRepoCache(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	post := createRepoPost(t, db)

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.Content, got.Content)
	assert.True(t, mr.Exists(cache.PostKey(post.ID)))

	require.NoError(t, repo.Like(ctx, "u-2", post.ID))
	assert.False(t, mr.Exists(cache.PostKey(post.ID)))
}
