package notifications

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"roastarena/internal/models"

	"github.com/stretchr/testify/assert"
)

// recordingConn counts writes and detects interleaved WriteMessage calls,
// which the websocket connection forbids.
type recordingConn struct {
	writing  atomic.Int32
	overlaps atomic.Int32
	writes   atomic.Int32
	fail     bool
}

func (c *recordingConn) WriteMessage(messageType int, data []byte) error {
	if c.fail {
		return errors.New("peer gone")
	}
	if c.writing.Add(1) > 1 {
		c.overlaps.Add(1)
	}
	time.Sleep(time.Millisecond)
	c.writes.Add(1)
	c.writing.Add(-1)
	return nil
}

func (c *recordingConn) Close() error { return nil }

func TestFeedHub_WatcherBookkeeping(t *testing.T) {
	t.Parallel()
	hub := NewFeedHub()

	assert.Zero(t, hub.WatcherCount("arena-1"))

	hub.Register("arena-1", nil)
	hub.Register("arena-1", nil) // same conn, still one watcher
	assert.Equal(t, 1, hub.WatcherCount("arena-1"))
	assert.Zero(t, hub.WatcherCount("arena-2"))

	hub.Unregister("arena-1", nil)
	assert.Zero(t, hub.WatcherCount("arena-1"))

	// Unregistering an unknown arena or conn is harmless.
	hub.Unregister("arena-1", nil)
	hub.Unregister("never-seen", nil)
}

func TestFeedHub_BroadcastWithoutWatchers(t *testing.T) {
	t.Parallel()
	hub := NewFeedHub()

	// No watchers, nothing to write to; must not panic.
	hub.BroadcastSubmission(&models.Submission{
		ID:      "s1",
		ArenaID: "arena-1",
		Text:    "the feed is empty but the roast lives on",
	})
}

// Two submits landing in the same arena broadcast from two request goroutines.
// Their writes to a shared connection must never interleave.
func TestFeedHub_ConcurrentBroadcastsSerializeWrites(t *testing.T) {
	t.Parallel()
	hub := NewFeedHub()
	conn := &recordingConn{}
	hub.Register("arena-1", conn)

	const broadcasts = 16
	var wg sync.WaitGroup
	for i := 0; i < broadcasts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.BroadcastSubmission(&models.Submission{
				ID:      "s1",
				ArenaID: "arena-1",
				Text:    "your plant died of embarrassment",
			})
		}()
	}
	wg.Wait()

	assert.Zero(t, conn.overlaps.Load(), "writes to one connection interleaved")
	assert.EqualValues(t, broadcasts, conn.writes.Load())
	assert.Equal(t, 1, hub.WatcherCount("arena-1"))
}

func TestFeedHub_BroadcastDropsDeadConnections(t *testing.T) {
	t.Parallel()
	hub := NewFeedHub()
	dead := &recordingConn{fail: true}
	live := &recordingConn{}
	hub.Register("arena-1", dead)
	hub.Register("arena-1", live)

	hub.BroadcastSubmission(&models.Submission{
		ID:      "s1",
		ArenaID: "arena-1",
		Text:    "this caption wrote a resignation letter",
	})

	assert.Equal(t, 1, hub.WatcherCount("arena-1"))
	assert.EqualValues(t, 1, live.writes.Load())
	assert.Zero(t, dead.writes.Load())
}
