package projects

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewCache(client), mr
}

func testProject(id string) *Project {
	return &Project{
		ID:        id,
		Name:      "Notes App",
		Status:    StatusBrainstorming,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		UpdatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	cache, _ := setupTestCache(t)

	p := testProject("p1")
	p.VisionDocument = map[string]any{"summary": "a notes app"}

	require.NoError(t, cache.Set(ctx, p))

	got, err := cache.Get(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, p.Status, got.Status)
	assert.Equal(t, "a notes app", got.VisionDocument["summary"])
}

func TestCache_MissReturnsNil(t *testing.T) {
	cache, _ := setupTestCache(t)

	got, err := cache.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCache_Invalidate(t *testing.T) {
	ctx := context.Background()
	cache, _ := setupTestCache(t)

	require.NoError(t, cache.Set(ctx, testProject("p1")))
	require.NoError(t, cache.Invalidate(ctx, "p1"))

	got, err := cache.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCache_EntriesExpire(t *testing.T) {
	ctx := context.Background()
	cache, mr := setupTestCache(t)

	require.NoError(t, cache.Set(ctx, testProject("p1")))
	mr.FastForward(projectTTL + time.Second)

	got, err := cache.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCache_NilCacheIsPermanentMiss(t *testing.T) {
	ctx := context.Background()

	var cache *Cache
	got, err := cache.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.NoError(t, cache.Set(ctx, testProject("p1")))
	assert.NoError(t, cache.Invalidate(ctx, "p1"))
}
