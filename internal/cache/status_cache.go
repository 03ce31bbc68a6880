package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"docmanager/internal/model"
)

// IngestionStatusCache keeps the latest ingestion record per document in
// redis so hot status polls skip the database. Transitions invalidate the
// key; a short TTL bounds staleness either way.
type IngestionStatusCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewIngestionStatusCache(client *redisv9.Client, ttl time.Duration) *IngestionStatusCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &IngestionStatusCache{client: client, ttl: ttl}
}

func (c *IngestionStatusCache) GetLatest(ctx context.Context, documentID uint) (*model.Ingestion, bool, error) {
	raw, err := c.client.Get(ctx, c.key(documentID)).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get ingestion status failed: %w", err)
	}

	var ing model.Ingestion
	if err := json.Unmarshal([]byte(raw), &ing); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached ingestion failed: %w", err)
	}
	return &ing, true, nil
}

func (c *IngestionStatusCache) SetLatest(ctx context.Context, documentID uint, ing model.Ingestion) error {
	payload, err := json.Marshal(ing)
	if err != nil {
		return fmt.Errorf("marshal ingestion status failed: %w", err)
	}
	if err := c.client.Set(ctx, c.key(documentID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set ingestion status failed: %w", err)
	}
	return nil
}

func (c *IngestionStatusCache) Invalidate(ctx context.Context, documentID uint) error {
	if err := c.client.Del(ctx, c.key(documentID)).Err(); err != nil {
		return fmt.Errorf("redis delete ingestion status failed: %w", err)
	}
	return nil
}

func (c *IngestionStatusCache) key(documentID uint) string {
	return fmt.Sprintf("ingestion:latest:%d", documentID)
}
