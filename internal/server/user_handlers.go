package server

import (
	"strconv"
	"strings"

	"yatube/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// optionalUserID best-effort resolves the caller from a Bearer token on
// routes that are public but personalize their response when authenticated.
// Any parse failure yields 0 (anonymous), never an error response.
func (s *Server) optionalUserID(c *fiber.Ctx) uint {
	authHeader := c.Get("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return 0
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return 0
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return 0
	}
	return uint(userID)
}

// GetUserProfile handles GET /api/users/:username. When the caller is
// authenticated the response includes whether they follow this author.
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	profile, err := s.userService.GetProfile(c.Context(), c.Params("username"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	following := false
	if viewerID := s.optionalUserID(c); viewerID != 0 && viewerID != profile.User.ID {
		following, err = s.followService.IsFollowing(c.Context(), viewerID, profile.User.ID)
		if err != nil {
			return models.RespondWithAppError(c, err)
		}
	}

	return c.JSON(fiber.Map{
		"user":       profile.User,
		"post_count": profile.PostCount,
		"following":  following,
	})
}

// GetUserPosts handles GET /api/users/:username/posts
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	user, err := s.userService.GetUserByUsername(c.Context(), c.Params("username"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	p := s.parsePage(c)
	posts, err := s.postService.ListAuthorPosts(c.Context(), user.ID, p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"posts": posts,
		"page":  p.Page,
		"limit": p.Limit,
	})
}
