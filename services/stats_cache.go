package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"main/model"

	"github.com/redis/go-redis/v9"
)

// StatsCache keeps rendered stats summaries in Redis for a short TTL so
// repeated /stats requests don't re-fold the habit list. Every mutating
// domain operation invalidates the owner's entry.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatsCache creates and initializes a new stats cache
func NewStatsCache(redisURL string, ttl time.Duration) (*StatsCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return &StatsCache{client: client, ttl: ttl}, nil
}

func statsKey(userID string) string {
	return fmt.Sprintf("stats_summary:%s", userID)
}

// GetSummary retrieves a cached summary; the second return value is
// false on cache miss.
func (c *StatsCache) GetSummary(ctx context.Context, userID string) (model.StatsSummary, bool) {
	data, err := c.client.Get(ctx, statsKey(userID)).Bytes()
	if err == redis.Nil {
		return model.StatsSummary{}, false
	}
	if err != nil {
		log.Printf("Failed to get stats summary from cache: %v", err)
		return model.StatsSummary{}, false
	}

	var summary model.StatsSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		log.Printf("Failed to unmarshal stats summary: %v", err)
		return model.StatsSummary{}, false
	}

	return summary, true
}

// SetSummary caches a rendered summary with the configured TTL. Cache
// write failures are logged, never surfaced: the store stays the source
// of truth.
func (c *StatsCache) SetSummary(ctx context.Context, userID string, summary model.StatsSummary) {
	data, err := json.Marshal(summary)
	if err != nil {
		log.Printf("Failed to marshal stats summary: %v", err)
		return
	}

	if err := c.client.Set(ctx, statsKey(userID), data, c.ttl).Err(); err != nil {
		log.Printf("Failed to cache stats summary: %v", err)
	}
}

// Invalidate drops the user's cached summary after a mutating operation.
func (c *StatsCache) Invalidate(ctx context.Context, userID string) {
	if err := c.client.Del(ctx, statsKey(userID)).Err(); err != nil {
		log.Printf("Failed to invalidate stats summary: %v", err)
	}
}

func (c *StatsCache) IsConnected() bool {
	if c == nil || c.client == nil {
		return false
	}
	ctx := context.Background()
	return c.client.Ping(ctx).Err() == nil
}

// Close closes the Redis connection
func (c *StatsCache) Close() error {
	return c.client.Close()
}
