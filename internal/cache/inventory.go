package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	ArenaKeyPrefix      = "arena:%s"
	FeedTopKeyPrefix    = "arena:%s:top"
	DailyKeyPrefix      = "daily:%s"
	DailyCountKeyPrefix = "daily:%s:participants"
	SessionKeyPrefix    = "session:%s"
)

const (
	ArenaTTL   = 10 * time.Minute
	FeedTopTTL = 5 * time.Second
	DailyTTL   = 30 * time.Second
	SessionTTL = 5 * time.Minute
)

func ArenaKey(id string) string {
	return fmt.Sprintf(ArenaKeyPrefix, id)
}

func FeedTopKey(id string) string {
	return fmt.Sprintf(FeedTopKeyPrefix, id)
}

func DailyKey(date string) string {
	return fmt.Sprintf(DailyKeyPrefix, date)
}

func DailyCountKey(date string) string {
	return fmt.Sprintf(DailyCountKeyPrefix, date)
}

func SessionKey(id string) string {
	return fmt.Sprintf(SessionKeyPrefix, id)
}

// GetJSON attempts to get the key from Redis and unmarshal into dest.
// Returns (true, nil) if found and unmarshaled, (false, nil) if not found.
func GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if client == nil {
		return false, nil
	}
	s, err := client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(s), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON marshals v and sets the key with TTL.
func SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if client == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, b, ttl).Err()
}

// Aside tries Redis first, on miss it calls fetch (which should populate dest),
// then stores the result in Redis with ttl. fetch must write into dest.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() error) error {
	found, err := GetJSON(ctx, key, dest)
	if err == nil && found {
		return nil
	}
	// Treat cache read errors as misses; the source of truth is the DB.

	if err := fetch(); err != nil {
		return err
	}

	// Store into cache (best-effort)
	_ = SetJSON(ctx, key, dest, ttl)
	return nil
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateArena(ctx context.Context, id string) {
	Invalidate(ctx, ArenaKey(id))
	Invalidate(ctx, FeedTopKey(id))
}

func InvalidateDaily(ctx context.Context, date string) {
	Invalidate(ctx, DailyKey(date))
	Invalidate(ctx, DailyCountKey(date))
}
