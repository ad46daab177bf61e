package service

import (
	"context"

	"yatube/internal/models"
	"yatube/internal/repository"
)

type UserService struct {
	userRepo repository.UserRepository
	postRepo repository.PostRepository
}

// Profile is a user's public page: the user plus their post count.
type Profile struct {
	User      *models.User `json:"user"`
	PostCount int64        `json:"post_count"`
}

func NewUserService(userRepo repository.UserRepository, postRepo repository.PostRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
		postRepo: postRepo,
	}
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.userRepo.GetByUsername(ctx, username)
}

func (s *UserService) GetProfile(ctx context.Context, username string) (*Profile, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	count, err := s.postRepo.CountByAuthor(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &Profile{User: user, PostCount: count}, nil
}
