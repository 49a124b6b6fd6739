package seed

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"nichehub/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds demo entities and persists them to the database.
// Development and testing only.
type Factory struct {
	db  *gorm.DB
	rnd *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	seed := time.Now().UnixNano()
	gofakeit.Seed(seed)
	return &Factory{db: db, rnd: rand.New(rand.NewSource(seed))}
}

// CreateUser persists a demo user with a hashed password.
func (f *Factory) CreateUser(ctx context.Context, password string) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username:    gofakeit.Username(),
		Email:       gofakeit.Email(),
		Password:    string(hashed),
		DisplayName: gofakeit.Name(),
		AvatarURL:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}
	if err := f.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreatePost persists a demo post by the given user into the given community
// record, with a created_at spread over the past maxDays days.
func (f *Factory) CreatePost(ctx context.Context, user *models.User, community *models.Community, maxDays int) (*models.Post, error) {
	if maxDays <= 0 {
		maxDays = 30
	}
	back := time.Duration(f.rnd.Intn(maxDays*24*60)) * time.Minute
	content := gofakeit.Sentence(8 + f.rnd.Intn(8))
	if runes := []rune(content); len(runes) > 140 {
		content = string(runes[:140])
	}
	post := &models.Post{
		Content:     content,
		UserID:      user.ID,
		CommunityID: community.ID,
		CreatedAt:   time.Now().Add(-back),
	}
	if err := f.db.WithContext(ctx).Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateLike persists a like; duplicate pairs are silently skipped.
func (f *Factory) CreateLike(ctx context.Context, user *models.User, post *models.Post) error {
	like := &models.Like{UserID: user.ID, PostID: post.ID}
	err := f.db.WithContext(ctx).Create(like).Error
	if err != nil && isDuplicate(err) {
		return nil
	}
	return err
}

func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}
