package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

func TestKeyFormats(t *testing.T) {
	assert.Equal(t, "arena:abc", ArenaKey("abc"))
	assert.Equal(t, "arena:abc:top", FeedTopKey("abc"))
	assert.Equal(t, "daily:2026-08-31", DailyKey("2026-08-31"))
	assert.Equal(t, "daily:2026-08-31:participants", DailyCountKey("2026-08-31"))
	assert.Equal(t, "session:abc", SessionKey("abc"))
}

func TestGetSetJSON(t *testing.T) {
	withTestRedis(t)
	ctx := context.Background()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	var missing payload
	found, err := GetJSON(ctx, "nope", &missing)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetJSON(ctx, "key", payload{Name: "x", Count: 3}, time.Minute))

	var got payload
	found, err = GetJSON(ctx, "key", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, payload{Name: "x", Count: 3}, got)
}

func TestAside(t *testing.T) {
	withTestRedis(t)
	ctx := context.Background()

	calls := 0
	fetch := func(dest *int) func() error {
		return func() error {
			calls++
			*dest = 42
			return nil
		}
	}

	var v int
	require.NoError(t, Aside(ctx, "counter", &v, time.Minute, fetch(&v)))
	assert.Equal(t, 42, v)
	assert.Equal(t, 1, calls)

	// Second read is served from cache.
	var again int
	require.NoError(t, Aside(ctx, "counter", &again, time.Minute, fetch(&again)))
	assert.Equal(t, 42, again)
	assert.Equal(t, 1, calls)
}

func TestAside_FetchErrorPropagates(t *testing.T) {
	withTestRedis(t)

	var v int
	boom := errors.New("db down")
	err := Aside(context.Background(), "broken", &v, time.Minute, func() error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestInvalidateArena(t *testing.T) {
	mr := withTestRedis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, ArenaKey("a1"), "cached", time.Minute))
	require.NoError(t, SetJSON(ctx, FeedTopKey("a1"), "cached", time.Minute))
	require.NoError(t, SetJSON(ctx, ArenaKey("a2"), "cached", time.Minute))

	InvalidateArena(ctx, "a1")

	assert.False(t, mr.Exists(ArenaKey("a1")))
	assert.False(t, mr.Exists(FeedTopKey("a1")))
	assert.True(t, mr.Exists(ArenaKey("a2")))
}

func TestNilClientIsANoop(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()

	var v int
	found, err := GetJSON(ctx, "key", &v)
	assert.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, SetJSON(ctx, "key", 1, time.Minute))

	// Aside degrades to a straight fetch.
	require.NoError(t, Aside(ctx, "key", &v, time.Minute, func() error {
		v = 7
		return nil
	}))
	assert.Equal(t, 7, v)

	Invalidate(ctx, "key")
	InvalidateDaily(ctx, "2026-08-31")
}
