package server

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// WebSocketUpgrade gates /ws routes on an actual upgrade request.
func (s *Server) WebSocketUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// WebSocketFeedHandler handles GET /ws/roast/:id. Watchers receive accepted
// submissions as they land; the connection is read-only from the client side.
func (s *Server) WebSocketFeedHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		ctx := context.Background()
		arenaID := conn.Params("id")

		if _, err := s.arenaService.GetArena(ctx, arenaID); err != nil {
			_ = conn.WriteMessage(websocket.TextMessage,
				[]byte(`{"type":"error","error":"Roast session not found"}`))
			_ = conn.Close()
			return
		}

		s.feedHub.Register(arenaID, conn)
		defer func() {
			s.feedHub.Unregister(arenaID, conn)
			_ = conn.Close()
		}()

		slog.Debug("feed watcher connected", "arena_id", arenaID)

		// Drain client frames until the peer goes away. Inbound payloads are
		// ignored; the socket exists for server push only.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
}
