package service

import (
	"context"
	"net/url"
	"strings"

	"yatube/internal/cache"
	"yatube/internal/models"
	"yatube/internal/repository"
)

type PostService struct {
	postRepo  repository.PostRepository
	groupRepo repository.GroupRepository
	feedCache *cache.Cache
	isAdmin   func(ctx context.Context, userID uint) (bool, error)
}

type CreatePostInput struct {
	UserID    uint
	Text      string
	ImageURL  string
	GroupSlug string
}

type UpdatePostInput struct {
	UserID    uint
	PostID    uint
	Text      string
	ImageURL  string
	GroupSlug string
}

type DeletePostInput struct {
	UserID uint
	PostID uint
}

func NewPostService(
	postRepo repository.PostRepository,
	groupRepo repository.GroupRepository,
	feedCache *cache.Cache,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *PostService {
	return &PostService{
		postRepo:  postRepo,
		groupRepo: groupRepo,
		feedCache: feedCache,
		isAdmin:   isAdmin,
	}
}

func (s *PostService) validateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return models.NewValidationError("Text is required")
	}
	if len(text) > models.MaxPostTextLen {
		return models.NewValidationError("Text too long (max 5000 characters)")
	}
	return nil
}

func (s *PostService) validateImageURL(imageURL string) error {
	if imageURL == "" {
		return nil
	}
	if _, err := url.ParseRequestURI(imageURL); err != nil {
		return models.NewValidationError("image_url must be a valid URL")
	}
	return nil
}

// resolveGroupID maps a slug to its group ID. Empty slug means no group.
func (s *PostService) resolveGroupID(ctx context.Context, slug string) (*uint, error) {
	if slug == "" {
		return nil, nil
	}
	group, err := s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return &group.ID, nil
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := s.validateText(in.Text); err != nil {
		return nil, err
	}
	if err := s.validateImageURL(in.ImageURL); err != nil {
		return nil, err
	}

	groupID, err := s.resolveGroupID(ctx, in.GroupSlug)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Text:     in.Text,
		ImageURL: in.ImageURL,
		AuthorID: in.UserID,
		GroupID:  groupID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	// A new post must show up on the next feed read.
	s.feedCache.Invalidate(ctx, cache.FeedKey)

	return s.postRepo.GetByID(ctx, post.ID)
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

func (s *PostService) ListGroupPosts(ctx context.Context, slug string, limit, offset int) ([]*models.Post, error) {
	group, err := s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.postRepo.ListByGroup(ctx, group.ID, limit, offset)
}

// SearchPosts returns posts whose text or author username matches the query,
// newest first.
func (s *PostService) SearchPosts(ctx context.Context, query string, limit, offset int) ([]*models.Post, error) {
	if strings.TrimSpace(query) == "" {
		return nil, models.NewValidationError("Search text is required")
	}
	return s.postRepo.Search(ctx, query, limit, offset)
}

func (s *PostService) ListAuthorPosts(ctx context.Context, authorID uint, limit, offset int) ([]*models.Post, error) {
	return s.postRepo.ListByAuthor(ctx, authorID, limit, offset)
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}

	if post.AuthorID != in.UserID {
		return nil, models.NewForbiddenError("You can only update your own posts")
	}

	if err := s.validateText(in.Text); err != nil {
		return nil, err
	}
	if err := s.validateImageURL(in.ImageURL); err != nil {
		return nil, err
	}

	groupID, err := s.resolveGroupID(ctx, in.GroupSlug)
	if err != nil {
		return nil, err
	}

	post.Text = in.Text
	post.ImageURL = in.ImageURL
	post.GroupID = groupID

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return err
	}

	if post.AuthorID != in.UserID {
		if s.isAdmin == nil {
			return models.NewForbiddenError("You can only delete your own posts")
		}
		admin, err := s.isAdmin(ctx, in.UserID)
		if err != nil {
			return err
		}
		if !admin {
			return models.NewForbiddenError("You can only delete your own posts")
		}
	}

	// The feed cache is left alone: a deleted post may linger in the feed
	// until the TTL lapses.
	return s.postRepo.Delete(ctx, in.PostID)
}
