package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
	"trendscope/internal/model"

	"github.com/redis/go-redis/v9"
)

// RedisTrendCache stores trend result sets in Redis with a native TTL, as an
// alternative to the Postgres trend_search_cache table. The stored payload
// still carries expires_at so readers see the same entry shape either way.
type RedisTrendCache struct {
	client *redis.Client
}

func NewRedisTrendCache(client *redis.Client) *RedisTrendCache {
	return &RedisTrendCache{client: client}
}

type redisEntry struct {
	Results   []model.TrendItem `json:"results"`
	ExpiresAt time.Time         `json:"expires_at"`
}

func cacheKey(source, query, timeWindow string) string {
	return fmt.Sprintf("trendscope:trends:%s:%s:%s", source, query, timeWindow)
}

func (c *RedisTrendCache) Get(source, query, timeWindow string) (*model.CacheEntry, error) {
	payload, err := c.client.Get(context.Background(), cacheKey(source, query, timeWindow)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	var e redisEntry
	if err := json.Unmarshal(payload, &e); err != nil {
		return nil, err
	}

	return &model.CacheEntry{
		Source:     source,
		Query:      query,
		TimeWindow: timeWindow,
		Results:    e.Results,
		ExpiresAt:  e.ExpiresAt,
	}, nil
}

func (c *RedisTrendCache) Put(entry model.CacheEntry) error {
	payload, err := json.Marshal(redisEntry{Results: entry.Results, ExpiresAt: entry.ExpiresAt})
	if err != nil {
		return err
	}

	ttl := time.Until(entry.ExpiresAt)
	if ttl <= 0 {
		return nil
	}

	return c.client.Set(context.Background(), cacheKey(entry.Source, entry.Query, entry.TimeWindow), payload, ttl).Err()
}
