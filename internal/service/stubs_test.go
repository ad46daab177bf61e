package service

import (
	"context"
	"errors"
	"testing"

	"yatube/internal/models"

	"github.com/stretchr/testify/require"
)

// Function-field stubs for the repository interfaces. noop* constructors
// return permissive defaults; tests override the fields they care about.

type postRepoStub struct {
	createFn        func(context.Context, *models.Post) error
	getByIDFn       func(context.Context, uint) (*models.Post, error)
	listFn          func(context.Context, int, int) ([]*models.Post, error)
	listByAuthorFn  func(context.Context, uint, int, int) ([]*models.Post, error)
	listByGroupFn   func(context.Context, uint, int, int) ([]*models.Post, error)
	listFollowedFn  func(context.Context, uint, int, int) ([]*models.Post, error)
	searchFn        func(context.Context, string, int, int) ([]*models.Post, error)
	countByAuthorFn func(context.Context, uint) (int64, error)
	updateFn        func(context.Context, *models.Post) error
	deleteFn        func(context.Context, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *postRepoStub) ListByAuthor(ctx context.Context, authorID uint, limit, offset int) ([]*models.Post, error) {
	return s.listByAuthorFn(ctx, authorID, limit, offset)
}
func (s *postRepoStub) ListByGroup(ctx context.Context, groupID uint, limit, offset int) ([]*models.Post, error) {
	return s.listByGroupFn(ctx, groupID, limit, offset)
}
func (s *postRepoStub) ListFollowed(ctx context.Context, followerID uint, limit, offset int) ([]*models.Post, error) {
	return s.listFollowedFn(ctx, followerID, limit, offset)
}
func (s *postRepoStub) Search(ctx context.Context, query string, limit, offset int) ([]*models.Post, error) {
	return s.searchFn(ctx, query, limit, offset)
}
func (s *postRepoStub) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	return s.countByAuthorFn(ctx, authorID)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:  func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) { return &models.Post{ID: id}, nil },
		listFn:    func(_ context.Context, _, _ int) ([]*models.Post, error) { return nil, nil },
		listByAuthorFn: func(_ context.Context, _ uint, _, _ int) ([]*models.Post, error) {
			return nil, nil
		},
		listByGroupFn: func(_ context.Context, _ uint, _, _ int) ([]*models.Post, error) {
			return nil, nil
		},
		listFollowedFn: func(_ context.Context, _ uint, _, _ int) ([]*models.Post, error) {
			return nil, nil
		},
		searchFn: func(_ context.Context, _ string, _, _ int) ([]*models.Post, error) {
			return nil, nil
		},
		countByAuthorFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		updateFn:        func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn:        func(_ context.Context, _ uint) error { return nil },
	}
}

type groupRepoStub struct {
	createFn    func(context.Context, *models.Group) error
	getBySlugFn func(context.Context, string) (*models.Group, error)
	listFn      func(context.Context) ([]*models.Group, error)
	updateFn    func(context.Context, *models.Group) error
	deleteFn    func(context.Context, string) error
}

func (s *groupRepoStub) Create(ctx context.Context, group *models.Group) error {
	return s.createFn(ctx, group)
}
func (s *groupRepoStub) GetBySlug(ctx context.Context, slug string) (*models.Group, error) {
	return s.getBySlugFn(ctx, slug)
}
func (s *groupRepoStub) List(ctx context.Context) ([]*models.Group, error) {
	return s.listFn(ctx)
}
func (s *groupRepoStub) Update(ctx context.Context, group *models.Group) error {
	return s.updateFn(ctx, group)
}
func (s *groupRepoStub) Delete(ctx context.Context, slug string) error {
	return s.deleteFn(ctx, slug)
}

func noopGroupRepo() *groupRepoStub {
	return &groupRepoStub{
		createFn: func(_ context.Context, _ *models.Group) error { return nil },
		getBySlugFn: func(_ context.Context, slug string) (*models.Group, error) {
			return &models.Group{ID: 1, Slug: slug, Title: "Group"}, nil
		},
		listFn:   func(_ context.Context) ([]*models.Group, error) { return nil, nil },
		updateFn: func(_ context.Context, _ *models.Group) error { return nil },
		deleteFn: func(_ context.Context, _ string) error { return nil },
	}
}

type commentRepoStub struct {
	createFn     func(context.Context, *models.Comment) error
	getByIDFn    func(context.Context, uint) (*models.Comment, error)
	listByPostFn func(context.Context, uint) ([]*models.Comment, error)
	deleteFn     func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	return s.listByPostFn(ctx, postID)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:     func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn:    func(_ context.Context, id uint) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		listByPostFn: func(_ context.Context, _ uint) ([]*models.Comment, error) { return nil, nil },
		deleteFn:     func(_ context.Context, _ uint) error { return nil },
	}
}

type followRepoStub struct {
	createFn         func(context.Context, *models.Follow) error
	deleteFn         func(context.Context, uint, uint) error
	existsFn         func(context.Context, uint, uint) (bool, error)
	listByFollowerFn func(context.Context, uint) ([]*models.Follow, error)
}

func (s *followRepoStub) Create(ctx context.Context, follow *models.Follow) error {
	return s.createFn(ctx, follow)
}
func (s *followRepoStub) Delete(ctx context.Context, followerID, authorID uint) error {
	return s.deleteFn(ctx, followerID, authorID)
}
func (s *followRepoStub) Exists(ctx context.Context, followerID, authorID uint) (bool, error) {
	return s.existsFn(ctx, followerID, authorID)
}
func (s *followRepoStub) ListByFollower(ctx context.Context, followerID uint) ([]*models.Follow, error) {
	return s.listByFollowerFn(ctx, followerID)
}

func noopFollowRepo() *followRepoStub {
	return &followRepoStub{
		createFn:         func(_ context.Context, _ *models.Follow) error { return nil },
		deleteFn:         func(_ context.Context, _, _ uint) error { return nil },
		existsFn:         func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		listByFollowerFn: func(_ context.Context, _ uint) ([]*models.Follow, error) { return nil, nil },
	}
}

type userRepoStub struct {
	createFn        func(context.Context, *models.User) error
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn:  func(_ context.Context, _ *models.User) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByEmailFn: func(_ context.Context, _ string) (*models.User, error) {
			return nil, nil
		},
		getByUsernameFn: func(_ context.Context, username string) (*models.User, error) {
			return &models.User{ID: 2, Username: username}, nil
		},
	}
}

type chatRepoStub struct {
	createMessageFn func(context.Context, *models.ChatMessage) error
	historyFn       func(context.Context, uint, int) ([]*models.ChatMessage, error)
}

func (s *chatRepoStub) CreateMessage(ctx context.Context, message *models.ChatMessage) error {
	return s.createMessageFn(ctx, message)
}
func (s *chatRepoStub) History(ctx context.Context, groupID uint, limit int) ([]*models.ChatMessage, error) {
	return s.historyFn(ctx, groupID, limit)
}

func noopChatRepo() *chatRepoStub {
	return &chatRepoStub{
		createMessageFn: func(_ context.Context, _ *models.ChatMessage) error { return nil },
		historyFn:       func(_ context.Context, _ uint, _ int) ([]*models.ChatMessage, error) { return nil, nil },
	}
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	require.Equal(t, code, appErr.Code)
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, "VALIDATION_ERROR")
}

func assertForbiddenError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, "FORBIDDEN")
}

func assertConflictError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, "CONFLICT")
}

func assertNotFoundError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, "NOT_FOUND")
}
