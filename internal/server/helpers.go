// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"github.com/gofiber/fiber/v2"
)

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

const maxPaginationLimit = 100

// parsePagination extracts limit and offset query parameters with the given default limit.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	return Pagination{
		Limit:  limit,
		Offset: offset,
	}
}

// sessionID resolves the caller's session id. Body and form fields win over
// the X-Session-ID header so clients that send both stay consistent.
func sessionID(c *fiber.Ctx, explicit string) string {
	if explicit != "" {
		c.Locals("sessionID", explicit)
		return explicit
	}
	if sid := c.Get("X-Session-ID"); sid != "" {
		c.Locals("sessionID", sid)
		return sid
	}
	return ""
}
