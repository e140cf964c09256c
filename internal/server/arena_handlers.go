package server

import (
	"github.com/gofiber/fiber/v2"

	"roastarena/internal/models"
	"roastarena/internal/service"
)

// GetRoastSession handles GET /roast/:id. Expired sessions are still served so
// shared links keep working; clients read expiresAt to decide what to render.
func (s *Server) GetRoastSession(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id := c.Params("id")

	arena, err := s.arenaService.GetArena(ctx, id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"roastSession": arena,
	})
}

// GetFeed handles GET /roast/:id/feed?sort=top|recent. The top view is what
// the share page polls; recent supports offset/limit paging.
func (s *Server) GetFeed(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id := c.Params("id")
	page := parsePagination(c, 50)

	var (
		subs []*models.Submission
		err  error
	)
	switch c.Query("sort", "top") {
	case "recent":
		subs, err = s.submissionService.ListRecent(ctx, id, page.Offset, page.Limit)
	case "top":
		subs, err = s.submissionService.ListTop(ctx, id, page.Limit)
	default:
		return models.RespondWithAppError(c,
			models.NewValidationError("Unknown sort order"))
	}
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	// Empty feeds serialize as [] rather than null.
	if subs == nil {
		subs = []*models.Submission{}
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"submissions": subs,
	})
}

// SubmitRoast handles POST /roast/:id/submit.
func (s *Server) SubmitRoast(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id := c.Params("id")

	var req struct {
		Text      string `json:"text"`
		SessionID string `json:"sessionId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithAppError(c,
			models.NewValidationError("Invalid request body"))
	}

	sid := sessionID(c, req.SessionID)

	sub, err := s.submissionService.Submit(ctx, service.SubmitInput{
		ArenaID:   id,
		Text:      req.Text,
		SessionID: sid,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	// Push to live watchers; pollers pick it up on their next cycle anyway.
	s.feedHub.BroadcastSubmission(sub)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":    true,
		"submission": sub,
	})
}
