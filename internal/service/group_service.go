package service

import (
	"context"
	"strings"

	"yatube/internal/models"
	"yatube/internal/repository"
	"yatube/internal/validation"
)

const maxGroupTitleLen = 100

type GroupService struct {
	groupRepo repository.GroupRepository
}

type CreateGroupInput struct {
	Title       string
	Slug        string
	Description string
}

type UpdateGroupInput struct {
	Slug        string
	Title       string
	Description string
}

func NewGroupService(groupRepo repository.GroupRepository) *GroupService {
	return &GroupService{groupRepo: groupRepo}
}

func (s *GroupService) CreateGroup(ctx context.Context, in CreateGroupInput) (*models.Group, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(in.Title) > maxGroupTitleLen {
		return nil, models.NewValidationError("Title too long (max 100 characters)")
	}
	if err := validation.ValidateGroupSlug(in.Slug); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	group := &models.Group{
		Title:       in.Title,
		Slug:        in.Slug,
		Description: in.Description,
	}
	if err := s.groupRepo.Create(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *GroupService) GetGroup(ctx context.Context, slug string) (*models.Group, error) {
	return s.groupRepo.GetBySlug(ctx, slug)
}

func (s *GroupService) ListGroups(ctx context.Context) ([]*models.Group, error) {
	return s.groupRepo.List(ctx)
}

// UpdateGroup edits title and description. The slug is the group's identity
// and never changes.
func (s *GroupService) UpdateGroup(ctx context.Context, in UpdateGroupInput) (*models.Group, error) {
	group, err := s.groupRepo.GetBySlug(ctx, in.Slug)
	if err != nil {
		return nil, err
	}

	if in.Title != "" {
		if len(in.Title) > maxGroupTitleLen {
			return nil, models.NewValidationError("Title too long (max 100 characters)")
		}
		group.Title = in.Title
	}
	if in.Description != "" {
		group.Description = in.Description
	}

	if err := s.groupRepo.Update(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *GroupService) DeleteGroup(ctx context.Context, slug string) error {
	return s.groupRepo.Delete(ctx, slug)
}
