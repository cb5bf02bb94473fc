package agent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectpilot/orchestrator-backend/internal/conversations"
	"github.com/projectpilot/orchestrator-backend/internal/projects"
)

func newTestOrchestrator(store *memStore, reasoner Reasoner, cfg Config) *Orchestrator {
	return NewOrchestrator(store, store, reasoner, cfg)
}

func seedProject(store *memStore) {
	store.addProject(&projects.Project{
		ID:        "p1",
		Name:      "Notes App",
		Status:    projects.StatusBrainstorming,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	})
}

func TestRunTurn_ToolCallThenReply(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	seedProject(store)

	reasoner := &scriptedReasoner{steps: []scriptedStep{
		{
			tools: []scriptedCall{{name: "update_status", args: map[string]any{"new_status": "vision_review"}}},
			reply: "Moving to vision review",
		},
	}}

	orch := newTestOrchestrator(store, reasoner, Config{RetryBudget: 2})

	reply, err := orch.RunTurn(ctx, "p1", "let's start")
	require.NoError(t, err)
	assert.Equal(t, "Moving to vision review", reply)

	msgs, err := store.Recent(ctx, "p1", 10)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, conversations.RoleUser, msgs[0].Role)
	assert.Equal(t, "let's start", msgs[0].Content)
	assert.Equal(t, conversations.RoleAssistant, msgs[1].Role)
	assert.Equal(t, "Moving to vision review", msgs[1].Content)

	p, err := store.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, projects.StatusVisionReview, p.Status)
}

func TestRunTurn_UnknownProjectFailsBeforeAppend(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()

	reasoner := &scriptedReasoner{steps: []scriptedStep{{reply: "never reached"}}}
	orch := newTestOrchestrator(store, reasoner, Config{})

	_, err := orch.RunTurn(ctx, "ghost", "hello")
	require.ErrorIs(t, err, conversations.ErrNotFound)
	assert.Zero(t, reasoner.calls)
	assert.Empty(t, store.messages)
}

func TestRunTurn_RetriesTransientFailures(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	seedProject(store)

	reasoner := &scriptedReasoner{steps: []scriptedStep{
		// First attempt applies a tool effect, then fails transiently.
		{
			tools: []scriptedCall{{name: "update_status", args: map[string]any{"new_status": "VISION_REVIEW"}}},
			err:   ErrUpstream,
		},
		{reply: "recovered"},
	}}

	orch := newTestOrchestrator(store, reasoner, Config{RetryBudget: 2})

	reply, err := orch.RunTurn(ctx, "p1", "go on")
	require.NoError(t, err)
	assert.Equal(t, "recovered", reply)
	assert.Equal(t, 2, reasoner.calls)

	// The failed attempt's tool effect is not rolled back.
	p, err := store.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, projects.StatusVisionReview, p.Status)
}

func TestRunTurn_RetryBudgetExhausted(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	seedProject(store)

	reasoner := &scriptedReasoner{steps: []scriptedStep{
		{err: ErrUpstream},
		{err: ErrUpstream},
		{err: ErrUpstream},
	}}

	orch := newTestOrchestrator(store, reasoner, Config{RetryBudget: 2})

	_, err := orch.RunTurn(ctx, "p1", "hello")
	require.ErrorIs(t, err, ErrUpstream)
	assert.Equal(t, 3, reasoner.calls)

	// User message persisted, no assistant reply.
	msgs, recentErr := store.Recent(ctx, "p1", 10)
	require.NoError(t, recentErr)
	require.Len(t, msgs, 1)
	assert.Equal(t, conversations.RoleUser, msgs[0].Role)
}

func TestRunTurn_NonTransientErrorNotRetried(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	seedProject(store)

	fatal := errors.New("schema corruption")
	reasoner := &scriptedReasoner{steps: []scriptedStep{
		{err: fatal},
		{reply: "should not happen"},
	}}

	orch := newTestOrchestrator(store, reasoner, Config{RetryBudget: 2})

	_, err := orch.RunTurn(ctx, "p1", "hello")
	require.ErrorIs(t, err, fatal)
	assert.Equal(t, 1, reasoner.calls)
}

func TestRunTurn_SequentialTurnsStayOrdered(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	seedProject(store)

	reasoner := &scriptedReasoner{steps: []scriptedStep{
		{reply: "first reply"},
		{reply: "second reply"},
	}}

	orch := newTestOrchestrator(store, reasoner, Config{})

	_, err := orch.RunTurn(ctx, "p1", "first question")
	require.NoError(t, err)
	_, err = orch.RunTurn(ctx, "p1", "second question")
	require.NoError(t, err)

	msgs, err := store.Recent(ctx, "p1", 10)
	require.NoError(t, err)
	require.Len(t, msgs, 4)

	assert.Equal(t, "first question", msgs[0].Content)
	assert.Equal(t, "first reply", msgs[1].Content)
	assert.Equal(t, "second question", msgs[2].Content)
	assert.Equal(t, "second reply", msgs[3].Content)

	for i := 1; i < len(msgs); i++ {
		assert.False(t, msgs[i].Timestamp.Before(msgs[i-1].Timestamp))
		assert.Greater(t, msgs[i].ID, msgs[i-1].ID)
	}
}
