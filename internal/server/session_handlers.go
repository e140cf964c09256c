package server

import (
	"github.com/gofiber/fiber/v2"

	"roastarena/internal/models"
)

// CreateSession handles POST /session. It mints a fresh anonymous session; the
// client stores the id locally and replays it on every later request.
func (s *Server) CreateSession(c *fiber.Ctx) error {
	ctx := c.UserContext()

	session, err := s.sessionService.CreateSession(ctx)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"session": session,
	})
}
