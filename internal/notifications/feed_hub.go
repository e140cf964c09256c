// Package notifications provides real-time fan-out of accepted submissions to
// connected feed watchers. Push is a strict extension over the client's
// polling: missing an event only delays visibility until the next poll.
package notifications

import (
	"encoding/json"
	"log/slog"
	"sync"

	"roastarena/internal/models"
	"roastarena/internal/observability"

	"github.com/gofiber/websocket/v2"
)

// Conn is the write side of a feed connection. Satisfied by *websocket.Conn.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// FeedHub tracks live feed WebSocket connections per arena and broadcasts
// accepted submissions to them. The websocket allows at most one concurrent
// writer, so every connection carries its own write mutex: broadcasts fired
// from concurrent submit handlers serialize per connection.
type FeedHub struct {
	mu     sync.RWMutex
	arenas map[string]map[Conn]*sync.Mutex
}

// NewFeedHub creates an empty FeedHub.
func NewFeedHub() *FeedHub {
	return &FeedHub{
		arenas: make(map[string]map[Conn]*sync.Mutex),
	}
}

// Register adds a connection to an arena's watcher set.
func (h *FeedHub) Register(arenaID string, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	watchers, ok := h.arenas[arenaID]
	if !ok {
		watchers = make(map[Conn]*sync.Mutex)
		h.arenas[arenaID] = watchers
	}
	if _, ok := watchers[conn]; !ok {
		watchers[conn] = &sync.Mutex{}
	}
	observability.FeedConnections.WithLabelValues(arenaID).Set(float64(len(watchers)))
}

// Unregister removes a connection from an arena's watcher set.
func (h *FeedHub) Unregister(arenaID string, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	watchers, ok := h.arenas[arenaID]
	if !ok {
		return
	}
	delete(watchers, conn)
	if len(watchers) == 0 {
		delete(h.arenas, arenaID)
		observability.FeedConnections.DeleteLabelValues(arenaID)
		return
	}
	observability.FeedConnections.WithLabelValues(arenaID).Set(float64(len(watchers)))
}

// WatcherCount returns the number of live connections for an arena.
func (h *FeedHub) WatcherCount(arenaID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.arenas[arenaID])
}

type feedTarget struct {
	conn    Conn
	writeMu *sync.Mutex
}

// BroadcastSubmission pushes an accepted submission to everyone watching its
// arena. Write failures drop the connection from the set; the client falls
// back to polling.
func (h *FeedHub) BroadcastSubmission(sub *models.Submission) {
	payload, err := json.Marshal(map[string]any{
		"type":       "submission",
		"submission": sub,
	})
	if err != nil {
		slog.Warn("failed to marshal feed event", "err", err)
		return
	}

	h.mu.RLock()
	watchers := h.arenas[sub.ArenaID]
	targets := make([]feedTarget, 0, len(watchers))
	for conn, writeMu := range watchers {
		targets = append(targets, feedTarget{conn: conn, writeMu: writeMu})
	}
	h.mu.RUnlock()

	var dead []Conn
	for _, t := range targets {
		t.writeMu.Lock()
		err := t.conn.WriteMessage(websocket.TextMessage, payload)
		t.writeMu.Unlock()
		if err != nil {
			dead = append(dead, t.conn)
		}
	}

	for _, conn := range dead {
		h.Unregister(sub.ArenaID, conn)
		_ = conn.Close()
	}

	slog.Debug("feed event broadcast",
		"arena_id", sub.ArenaID,
		"watchers", len(targets)-len(dead))
}
