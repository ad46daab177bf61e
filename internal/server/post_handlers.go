package server

import (
	"yatube/internal/models"
	"yatube/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPosts handles GET /api/posts, the global feed, newest first.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	p := s.parsePage(c)

	posts, err := s.feedService.ListFeed(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"posts": posts,
		"page":  p.Page,
		"limit": p.Limit,
	})
}

// GetFollowingFeed handles GET /api/feed/following, posts by authors the
// caller follows. Always a live query so a fresh follow shows up immediately.
func (s *Server) GetFollowingFeed(c *fiber.Ctx) error {
	userID := currentUserID(c)
	p := s.parsePage(c)

	posts, err := s.feedService.ListTimeline(c.Context(), userID, p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"posts": posts,
		"page":  p.Page,
		"limit": p.Limit,
	})
}

// SearchPosts handles GET /api/posts/search?text= and matches post text and
// author username, case-insensitively, newest first.
func (s *Server) SearchPosts(c *fiber.Ctx) error {
	p := s.parsePage(c)

	posts, err := s.postService.SearchPosts(c.Context(), c.Query("text"), p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"posts": posts,
		"page":  p.Page,
		"limit": p.Limit,
	})
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.Context(), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	comments, err := s.commentService.ListComments(c.Context(), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"post":     post,
		"comments": comments,
	})
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req struct {
		Text     string `json:"text"`
		ImageURL string `json:"image_url"`
		Group    string `json:"group"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.Context(), service.CreatePostInput{
		UserID:    currentUserID(c),
		Text:      req.Text,
		ImageURL:  req.ImageURL,
		GroupSlug: req.Group,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PUT /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Text     string `json:"text"`
		ImageURL string `json:"image_url"`
		Group    string `json:"group"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(c.Context(), service.UpdatePostInput{
		UserID:    currentUserID(c),
		PostID:    id,
		Text:      req.Text,
		ImageURL:  req.ImageURL,
		GroupSlug: req.Group,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.Context(), service.DeletePostInput{
		UserID: currentUserID(c),
		PostID: id,
	}); err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
