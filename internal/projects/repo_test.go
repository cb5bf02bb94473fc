package projects

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set, skipping PostgreSQL integration test")
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, pool.Ping(context.Background()))
	return pool
}

func createProject(t *testing.T, repo *Repo, pool *pgxpool.Pool) *Project {
	t.Helper()

	p, err := repo.Create(context.Background(), "repo test", nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `delete from messages where project_id = $1::uuid`, p.ID)
		_, _ = pool.Exec(context.Background(), `delete from projects where id = $1::uuid`, p.ID)
	})
	return p
}

func TestRepoLifecycle(t *testing.T) {
	ctx := context.Background()
	pool := setupTestPool(t)
	repo := NewRepo(pool)

	t.Run("create starts in brainstorming", func(t *testing.T) {
		p := createProject(t, repo, pool)
		assert.Equal(t, StatusBrainstorming, p.Status)
		assert.Nil(t, p.VisionDocument)
	})

	t.Run("get returns the record", func(t *testing.T) {
		p := createProject(t, repo, pool)

		got, err := repo.Get(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, p.ID, got.ID)
		assert.Equal(t, p.Name, got.Name)
	})

	t.Run("get unknown id fails with not found", func(t *testing.T) {
		_, err := repo.Get(ctx, uuid.New().String())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("update status refreshes updated_at", func(t *testing.T) {
		p := createProject(t, repo, pool)

		updated, err := repo.UpdateStatus(ctx, p.ID, StatusVisionReview)
		require.NoError(t, err)
		assert.Equal(t, StatusVisionReview, updated.Status)
		assert.False(t, updated.UpdatedAt.Before(p.UpdatedAt))
	})

	t.Run("update vision replaces wholesale", func(t *testing.T) {
		p := createProject(t, repo, pool)

		_, err := repo.UpdateVision(ctx, p.ID, map[string]any{"old": "value", "keep": "no"})
		require.NoError(t, err)

		updated, err := repo.UpdateVision(ctx, p.ID, map[string]any{"summary": "fresh"})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"summary": "fresh"}, updated.VisionDocument)
	})

	t.Run("bind chat enables lookup by chat id", func(t *testing.T) {
		p := createProject(t, repo, pool)

		_, err := repo.BindChat(ctx, p.ID, 424242)
		require.NoError(t, err)

		got, err := repo.GetByChatID(ctx, 424242)
		require.NoError(t, err)
		assert.Equal(t, p.ID, got.ID)
	})
}
