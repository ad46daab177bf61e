package service

import (
	"context"

	"yatube/internal/models"
	"yatube/internal/repository"
)

// FollowService manages the follower graph. Self-follows and duplicate edges
// come back as CONFLICT; the data layer's constraints back this up even when
// a racing request slips past the checks here.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
	}
}

// Follow creates an edge from follower to the named author.
func (s *FollowService) Follow(ctx context.Context, followerID uint, authorUsername string) (*models.Follow, error) {
	author, err := s.userRepo.GetByUsername(ctx, authorUsername)
	if err != nil {
		return nil, err
	}
	if author.ID == followerID {
		return nil, models.NewConflictError("Cannot follow yourself", nil)
	}

	follow := &models.Follow{
		FollowerID: followerID,
		AuthorID:   author.ID,
	}
	if err := s.followRepo.Create(ctx, follow); err != nil {
		return nil, err
	}
	follow.Author = *author
	return follow, nil
}

// Unfollow removes the edge to the named author. Absent edges are NOT_FOUND.
func (s *FollowService) Unfollow(ctx context.Context, followerID uint, authorUsername string) error {
	author, err := s.userRepo.GetByUsername(ctx, authorUsername)
	if err != nil {
		return err
	}
	return s.followRepo.Delete(ctx, followerID, author.ID)
}

// IsFollowing reports whether follower already has an edge to the author.
func (s *FollowService) IsFollowing(ctx context.Context, followerID, authorID uint) (bool, error) {
	return s.followRepo.Exists(ctx, followerID, authorID)
}

// ListFollowing returns the caller's outgoing follow edges.
func (s *FollowService) ListFollowing(ctx context.Context, followerID uint) ([]*models.Follow, error) {
	return s.followRepo.ListByFollower(ctx, followerID)
}
