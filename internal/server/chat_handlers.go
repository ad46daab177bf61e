package server

import (
	"yatube/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetChatHistory handles GET /api/groups/:slug/messages, the last messages
// of the group chat in chronological order.
func (s *Server) GetChatHistory(c *fiber.Ctx) error {
	messages, err := s.chatService.History(c.Context(), c.Params("slug"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{"messages": messages})
}
