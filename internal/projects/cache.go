package projects

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	projectKeyPrefix = "orc:project:" // Cached project snapshot: orc:project:{project_id}
	projectTTL       = 15 * time.Minute
)

// Cache holds project snapshots in Redis so turn processing does not hit
// Postgres on every get_project_context tool call. A nil *Cache is valid and
// behaves as a permanent miss.
type Cache struct {
	client *redis.Client
}

func NewCache(client *redis.Client) *Cache {
	if client == nil {
		return nil
	}
	return &Cache{client: client}
}

func (c *Cache) key(projectID string) string {
	return projectKeyPrefix + projectID
}

// Get returns the cached project, or (nil, nil) on a miss.
func (c *Cache) Get(ctx context.Context, projectID string) (*Project, error) {
	if c == nil {
		return nil, nil
	}

	data, err := c.client.Get(ctx, c.key(projectID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}

	var p Project
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("cache unmarshal: %w", err)
	}
	return &p, nil
}

func (c *Cache) Set(ctx context.Context, p *Project) error {
	if c == nil || p == nil {
		return nil
	}

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("cache marshal: %w", err)
	}

	if err := c.client.Set(ctx, c.key(p.ID), data, projectTTL).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Invalidate drops the snapshot after any mutation.
func (c *Cache) Invalidate(ctx context.Context, projectID string) error {
	if c == nil {
		return nil
	}

	if err := c.client.Del(ctx, c.key(projectID)).Err(); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}
