package server

import (
	"github.com/gofiber/fiber/v2"

	"roastarena/internal/models"
)

// GetDailyChallenge handles GET /daily. The active challenge is derived from
// the UTC date, so this endpoint needs no write path; the client polls it to
// catch the midnight rollover.
func (s *Server) GetDailyChallenge(c *fiber.Ctx) error {
	ctx := c.UserContext()

	challenge, err := s.challengeService.GetCurrentChallenge(ctx)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	top, err := s.challengeService.TopOfDay(ctx, 10)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	if top == nil {
		top = []*models.Submission{}
	}

	return c.JSON(fiber.Map{
		"success":        true,
		"challenge":      challenge,
		"topSubmissions": top,
	})
}
