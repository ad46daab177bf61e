package server

import (
	"errors"

	"yatube/internal/models"

	"github.com/gofiber/fiber/v2"
)

func isConflict(err error) bool {
	var appErr *models.AppError
	return errors.As(err, &appErr) && appErr.Code == "CONFLICT"
}

// GetMyFollows handles GET /api/follows, listing the caller's outgoing edges.
func (s *Server) GetMyFollows(c *fiber.Ctx) error {
	follows, err := s.followService.ListFollowing(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{"follows": follows})
}

// CreateFollow handles POST /api/follows. Self-follow and duplicate edges
// come back as 409.
func (s *Server) CreateFollow(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Username == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Username is required"))
	}

	follow, err := s.followService.Follow(c.Context(), currentUserID(c), req.Username)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(follow)
}

// DeleteFollow handles DELETE /api/follows/:username. Returns 404 when no edge exists.
func (s *Server) DeleteFollow(c *fiber.Ctx) error {
	if err := s.followService.Unfollow(c.Context(), currentUserID(c), c.Params("username")); err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// FollowUser handles POST /api/users/:username/follow. These are the profile
// page semantics: following yourself or someone you already follow is a
// harmless no-op, only an unknown author is an error.
func (s *Server) FollowUser(c *fiber.Ctx) error {
	username := c.Params("username")

	_, err := s.followService.Follow(c.Context(), currentUserID(c), username)
	if err != nil && !isConflict(err) {
		return models.RespondWithAppError(c, err)
	}

	author, err := s.userService.GetUserByUsername(c.Context(), username)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	following, err := s.followService.IsFollowing(c.Context(), currentUserID(c), author.ID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"username":  username,
		"following": following,
	})
}

// UnfollowUser handles DELETE /api/users/:username/follow. Returns 404 when there
// was nothing to remove.
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	if err := s.followService.Unfollow(c.Context(), currentUserID(c), c.Params("username")); err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
