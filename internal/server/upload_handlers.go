package server

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"roastarena/internal/models"
	"roastarena/internal/service"
)

// Upload handles POST /upload. The request is a multipart form with the image
// file plus roastLevel, caption, consent and sessionId fields. On success a
// fresh roast session (arena) opens and its id comes back for sharing.
func (s *Server) Upload(c *fiber.Ctx) error {
	ctx := c.UserContext()

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return models.RespondWithAppError(c,
			models.NewValidationError("Please select an image"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return models.RespondWithAppError(c, models.NewInternalError(err))
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return models.RespondWithAppError(c, models.NewInternalError(err))
	}

	sid := sessionID(c, c.FormValue("sessionId"))

	arena, err := s.arenaService.CreateArena(ctx, service.CreateArenaInput{
		ImageBytes:  content,
		ContentType: fileHeader.Header.Get("Content-Type"),
		RoastLevel:  c.FormValue("roastLevel"),
		Caption:     c.FormValue("caption"),
		Consent:     c.FormValue("consent") == "true",
		SessionID:   sid,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":      true,
		"roastId":      arena.ID,
		"roastSession": arena,
	})
}
