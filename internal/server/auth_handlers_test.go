package server

import (
	"net/http"
	"strings"
	"testing"

	"nichehub/internal/middleware"
	"nichehub/internal/models"
	"nichehub/internal/repository"
	"nichehub/internal/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type authResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func TestSignupLoginMeFlow(t *testing.T) {
	_, app, _ := setupTestServer(t)

	resp := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", fiber.Map{
		"username": "newuser",
		"email":    "newuser@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	signup := decodeBody[authResponse](t, resp)
	require.NotEmpty(t, signup.Token)
	assert.Equal(t, "newuser", signup.User.Username)
	assert.NotEmpty(t, signup.User.ID)
	// Display name defaults to the username.
	assert.Equal(t, "newuser", signup.User.DisplayName)

	resp = doJSON(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    "newuser@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	login := decodeBody[authResponse](t, resp)
	require.NotEmpty(t, login.Token)

	resp = doJSON(t, app, http.MethodGet, "/api/auth/me", "Bearer "+login.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	me := decodeBody[models.User](t, resp)
	assert.Equal(t, signup.User.ID, me.ID)
	assert.Equal(t, "newuser", me.Username)
}

func TestSignupValidation(t *testing.T) {
	_, app, _ := setupTestServer(t)

	tests := []struct {
		name string
		body fiber.Map
	}{
		{"missing fields", fiber.Map{"username": "x"}},
		{"short username", fiber.Map{"username": "ab", "email": "a@b.com", "password": "password123"}},
		{"bad email", fiber.Map{"username": "someone", "email": "nope", "password": "password123"}},
		{"short password", fiber.Map{"username": "someone", "email": "a@b.com", "password": "short"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", tt.body)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
			body := decodeBody[models.ErrorResponse](t, resp)
			assert.Equal(t, models.CodeValidation, body.Code)
		})
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	_, app, db := setupTestServer(t)
	createTestUser(t, db, "taken")

	resp := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", fiber.Map{
		"username": "someoneelse",
		"email":    "taken@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/auth/signup", "", fiber.Map{
		"username": "taken",
		"email":    "fresh@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	_, app, db := setupTestServer(t)
	createTestUser(t, db, "grace")

	resp := doJSON(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    "grace@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    "nobody@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogoutRevokesToken(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Community{}, &models.Post{}, &models.Like{}))

	cfg := testConfig()
	middleware.InitMiddleware(cfg)
	reconciler := service.NewReconciler(repository.NewCommunityRepository(db))
	srv, err := NewServerWithDeps(cfg, db, rdb, reconciler)
	require.NoError(t, err)
	defer middleware.SetRevocationCheck(nil)

	app := fiber.New(fiber.Config{ErrorHandler: srv.errorHandler})
	srv.SetupRoutes(app)

	user := createTestUser(t, db, "heidi")
	auth := authHeader(t, srv, user)

	resp := doJSON(t, app, http.MethodGet, "/api/auth/me", auth, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/auth/logout", auth, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// The denylisted token no longer authenticates.
	resp = doJSON(t, app, http.MethodGet, "/api/auth/me", auth, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// A fresh login works as before.
	resp = doJSON(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    "heidi@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUpdateProfile(t *testing.T) {
	srv, app, db := setupTestServer(t)
	user := createTestUser(t, db, "ivan")
	auth := authHeader(t, srv, user)

	resp := doJSON(t, app, http.MethodPatch, "/api/auth/me", auth, fiber.Map{
		"display_name": "Ivan Petrov",
		"bio":          "likes niche communities",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decodeBody[models.User](t, resp)
	assert.Equal(t, "Ivan Petrov", updated.DisplayName)
	assert.Equal(t, "likes niche communities", updated.Bio)
	assert.Equal(t, user.Username, updated.Username)

	// A partial update leaves untouched fields alone.
	resp = doJSON(t, app, http.MethodPatch, "/api/auth/me", auth, fiber.Map{
		"avatar_url": "https://example.com/ivan.png",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated = decodeBody[models.User](t, resp)
	assert.Equal(t, "Ivan Petrov", updated.DisplayName)
	assert.Equal(t, "likes niche communities", updated.Bio)
	assert.Equal(t, "https://example.com/ivan.png", updated.AvatarURL)

	// The changes are visible on subsequent reads.
	resp = doJSON(t, app, http.MethodGet, "/api/auth/me", auth, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	me := decodeBody[models.User](t, resp)
	assert.Equal(t, "Ivan Petrov", me.DisplayName)
	assert.Equal(t, "likes niche communities", me.Bio)
	assert.Equal(t, "https://example.com/ivan.png", me.AvatarURL)
}

func TestUpdateProfileValidation(t *testing.T) {
	srv, app, db := setupTestServer(t)
	user := createTestUser(t, db, "judy")
	auth := authHeader(t, srv, user)

	tests := []struct {
		name string
		body fiber.Map
	}{
		{"no fields", fiber.Map{}},
		{"blank display name", fiber.Map{"display_name": "   "}},
		{"display name too long", fiber.Map{"display_name": strings.Repeat("あ", 61)}},
		{"bio too long", fiber.Map{"bio": strings.Repeat("x", 501)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, app, http.MethodPatch, "/api/auth/me", auth, tt.body)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
			body := decodeBody[models.ErrorResponse](t, resp)
			assert.Equal(t, models.CodeValidation, body.Code)
		})
	}

	resp := doJSON(t, app, http.MethodPatch, "/api/auth/me", "", fiber.Map{"bio": "anon"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMeRequiresToken(t *testing.T) {
	_, app, _ := setupTestServer(t)

	resp := doJSON(t, app, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/auth/me", "Bearer not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
