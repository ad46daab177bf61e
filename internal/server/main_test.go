package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"yatube/internal/cache"
	"yatube/internal/config"
	"yatube/internal/models"
	"yatube/internal/notifications"
	"yatube/internal/repository"
	"yatube/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testPassword satisfies the signup policy and is shared by test fixtures.
const testPassword = "Sup3r-Secret-Pw!"

// newTestServer builds a Server over an in-memory sqlite database with the
// cache and broker disabled, plus a Fiber app with the full route tree.
// Tests that need Redis pass a client via newTestServerWithRedis.
func newTestServer(t *testing.T) (*Server, *fiber.App) {
	return newTestServerWithRedis(t, nil)
}

func newTestServerWithRedis(t *testing.T, redisClient *redis.Client) (*Server, *fiber.App) {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Post{},
		&models.Comment{},
		&models.Follow{},
		&models.ChatMessage{},
	))

	cfg := &config.Config{
		JWTSecret:    "test-secret-which-is-long-enough",
		Env:          "test",
		PostsPerPage: 10,
		FeedCacheTTL: 20,
		ChatHistory:  20,
	}

	s := &Server{
		config:      cfg,
		db:          db,
		redis:       redisClient,
		userRepo:    repository.NewUserRepository(db),
		postRepo:    repository.NewPostRepository(db),
		groupRepo:   repository.NewGroupRepository(db),
		commentRepo: repository.NewCommentRepository(db),
		followRepo:  repository.NewFollowRepository(db),
		chatRepo:    repository.NewChatRepository(db),
		feedCache:   cache.New(redisClient),
		notifier:    notifications.NewNotifier(redisClient),
		chatHub:     notifications.NewChatHub(),
	}
	s.postService = service.NewPostService(s.postRepo, s.groupRepo, s.feedCache, s.isAdminByUserID)
	s.feedService = service.NewFeedService(s.postRepo, s.feedCache, cfg.FeedTTL())
	s.commentService = service.NewCommentService(s.commentRepo, s.postRepo, s.isAdminByUserID)
	s.groupService = service.NewGroupService(s.groupRepo)
	s.followService = service.NewFollowService(s.followRepo, s.userRepo)
	s.userService = service.NewUserService(s.userRepo, s.postRepo)
	s.chatService = service.NewChatService(s.chatRepo, s.groupRepo, s.chatHub, s.notifier, cfg.ChatHistory)

	app := fiber.New()
	s.SetupRoutes(app)
	return s, app
}

// createTestUser inserts a user with the shared test password.
func createTestUser(t *testing.T, s *Server, username string, admin bool) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: string(hash),
		IsAdmin:  admin,
	}
	require.NoError(t, s.db.Create(user).Error)
	return user
}

// bearer returns an Authorization header value for the user.
func bearer(t *testing.T, s *Server, user *models.User) string {
	t.Helper()
	token, err := s.generateToken(user.ID, user.Username)
	require.NoError(t, err)
	return "Bearer " + token
}

// doJSON performs a request with an optional JSON body and auth header.
func doJSON(t *testing.T, app *fiber.App, method, target, auth string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// decodeBody decodes the response body into a generic map.
func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}
