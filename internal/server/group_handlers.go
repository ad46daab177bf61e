package server

import (
	"yatube/internal/models"
	"yatube/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetGroups handles GET /api/groups. Listings serve the summary shape;
// the detail route serves the full record.
func (s *Server) GetGroups(c *fiber.Ctx) error {
	groups, err := s.groupService.ListGroups(c.Context())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	summaries := make([]any, 0, len(groups))
	for _, g := range groups {
		summaries = append(summaries, g.Render(models.GroupShapeSummary))
	}

	return c.JSON(fiber.Map{"groups": summaries})
}

// GetGroupBySlug handles GET /api/groups/:slug
func (s *Server) GetGroupBySlug(c *fiber.Ctx) error {
	group, err := s.groupService.GetGroup(c.Context(), c.Params("slug"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(group.Render(models.GroupShapeDetail))
}

// GetGroupPosts handles GET /api/groups/:slug/posts
func (s *Server) GetGroupPosts(c *fiber.Ctx) error {
	p := s.parsePage(c)

	posts, err := s.postService.ListGroupPosts(c.Context(), c.Params("slug"), p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"posts": posts,
		"page":  p.Page,
		"limit": p.Limit,
	})
}

// CreateGroup handles POST /api/groups (admin only)
func (s *Server) CreateGroup(c *fiber.Ctx) error {
	var req struct {
		Title       string `json:"title"`
		Slug        string `json:"slug"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	group, err := s.groupService.CreateGroup(c.Context(), service.CreateGroupInput{
		Title:       req.Title,
		Slug:        req.Slug,
		Description: req.Description,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(group)
}

// UpdateGroup handles PUT /api/groups/:slug (admin only)
func (s *Server) UpdateGroup(c *fiber.Ctx) error {
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	group, err := s.groupService.UpdateGroup(c.Context(), service.UpdateGroupInput{
		Slug:        c.Params("slug"),
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(group)
}

// DeleteGroup handles DELETE /api/groups/:slug (admin only).
// Posts in the group survive with a cleared group ref; chat messages go
// with the group.
func (s *Server) DeleteGroup(c *fiber.Ctx) error {
	if err := s.groupService.DeleteGroup(c.Context(), c.Params("slug")); err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
