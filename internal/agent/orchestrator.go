package agent

import (
	"context"
	"errors"
	"fmt"
	"log"

	"golang.org/x/time/rate"

	"github.com/projectpilot/orchestrator-backend/internal/conversations"
)

// Config tunes the turn loop.
type Config struct {
	RetryBudget       int // extra reasoner attempts after the first failure
	RequestsPerMinute int // reasoner invocation throttle; 0 disables it
}

// Orchestrator processes one conversational turn at a time. The caller must
// serialize turns per project; interleaved turns for the same project would
// break the ledger's ordering guarantee.
type Orchestrator struct {
	projects    ProjectStore
	messages    MessageStore
	reasoner    Reasoner
	limiter     *rate.Limiter
	retryBudget int
}

func NewOrchestrator(projects ProjectStore, messages MessageStore, reasoner Reasoner, cfg Config) *Orchestrator {
	limit := rate.Inf
	if cfg.RequestsPerMinute > 0 {
		limit = rate.Limit(float64(cfg.RequestsPerMinute) / 60.0)
	}
	if cfg.RetryBudget < 0 {
		cfg.RetryBudget = 0
	}

	return &Orchestrator{
		projects:    projects,
		messages:    messages,
		reasoner:    reasoner,
		limiter:     rate.NewLimiter(limit, 1),
		retryBudget: cfg.RetryBudget,
	}
}

// RunTurn persists the user message, lets the reasoner respond (dispatching
// any tool calls it requests), persists the reply and returns it.
//
// Persistence failures abort the turn. Transient reasoner failures are
// retried up to the budget; tool effects applied during a failed attempt are
// not rolled back, so a retry operates over the updated state.
func (o *Orchestrator) RunTurn(ctx context.Context, projectID, userText string) (string, error) {
	if _, err := o.messages.Append(ctx, projectID, conversations.RoleUser, userText); err != nil {
		return "", fmt.Errorf("append user message: %w", err)
	}

	deps := Deps{
		ProjectID: projectID,
		Projects:  o.projects,
		Messages:  o.messages,
	}

	if err := o.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("reasoner throttle: %w", err)
	}

	var reply string
	for attempt := 0; ; attempt++ {
		var err error
		reply, err = o.reasoner.Reply(ctx, deps, userText)
		if err == nil {
			break
		}
		if !errors.Is(err, ErrUpstream) || attempt >= o.retryBudget {
			return "", fmt.Errorf("reasoner: %w", err)
		}
		log.Printf("reasoner attempt %d/%d failed for project %s, retrying: %v",
			attempt+1, o.retryBudget+1, projectID, err)
	}

	if _, err := o.messages.Append(ctx, projectID, conversations.RoleAssistant, reply); err != nil {
		return "", fmt.Errorf("append assistant message: %w", err)
	}

	return reply, nil
}
