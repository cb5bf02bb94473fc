// Package agent contains the orchestration core: the tool registry the
// reasoning model may call, the reasoner that drives the model, and the turn
// loop that glues both to durable state.
package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/projectpilot/orchestrator-backend/internal/conversations"
	"github.com/projectpilot/orchestrator-backend/internal/projects"
)

// ProjectStore is the slice of the projects service the agent core needs.
type ProjectStore interface {
	Get(ctx context.Context, id string) (*projects.Project, error)
	SetStatus(ctx context.Context, id, candidate string) (*projects.Project, error)
	SetVision(ctx context.Context, id string, doc map[string]any) (*projects.Project, error)
}

// MessageStore is the ledger surface exposed to the agent core.
type MessageStore interface {
	Append(ctx context.Context, projectID string, role conversations.Role, content string) (*conversations.Message, error)
	Recent(ctx context.Context, projectID string, limit int) ([]conversations.Message, error)
}

// Deps is the execution context bound once per turn and shared by every tool
// call in that turn. It is passed explicitly to Dispatch and never mutated.
type Deps struct {
	ProjectID string
	Projects  ProjectStore
	Messages  MessageStore
}

// Param describes one tool argument for the model-facing declaration.
type Param struct {
	Name        string
	Type        string // "string", "integer" or "object"
	Description string
	Required    bool
}

// ToolSpec is one registered tool: its name, what it does, and its arguments.
type ToolSpec struct {
	Name        string
	Description string
	Params      []Param
}

const defaultConversationLimit = 20

// Registry returns the fixed set of tools the reasoning model may request.
// This is the only path by which the model can read or mutate state.
func Registry() []ToolSpec {
	return []ToolSpec{
		{
			Name:        "save_message",
			Description: "Save a conversation message to the project ledger.",
			Params: []Param{
				{Name: "role", Type: "string", Description: "Message role: user, assistant or system.", Required: true},
				{Name: "content", Type: "string", Description: "Message content.", Required: true},
			},
		},
		{
			Name:        "get_project_context",
			Description: "Retrieve the current project's context: name, status, linked repository and whether a vision document exists.",
		},
		{
			Name:        "get_conversation",
			Description: "Retrieve recent conversation history for the current project, oldest first.",
			Params: []Param{
				{Name: "limit", Type: "integer", Description: "Maximum number of messages to return (default 20).", Required: false},
			},
		},
		{
			Name:        "update_status",
			Description: "Update the project's lifecycle phase (e.g. BRAINSTORMING, VISION_REVIEW).",
			Params: []Param{
				{Name: "new_status", Type: "string", Description: "Name of the target phase.", Required: true},
			},
		},
		{
			Name:        "save_vision_document",
			Description: "Save the project's vision document, replacing any previous version.",
			Params: []Param{
				{Name: "vision_doc", Type: "object", Description: "Vision document as structured key/value data.", Required: true},
			},
		},
	}
}

// Dispatch executes one tool call against the turn's execution context.
//
// Domain-level problems (unknown tool, invalid role, invalid status, missing
// project binding) come back as payloads the model can read and recover from.
// Only storage failures return a Go error, which aborts the turn.
func Dispatch(ctx context.Context, deps Deps, name string, args map[string]any) (map[string]any, error) {
	switch name {
	case "save_message":
		return saveMessage(ctx, deps, args)
	case "get_project_context":
		return getProjectContext(ctx, deps)
	case "get_conversation":
		return getConversation(ctx, deps, args)
	case "update_status":
		return updateStatus(ctx, deps, args)
	case "save_vision_document":
		return saveVisionDocument(ctx, deps, args)
	}
	return textResult(fmt.Sprintf("Error: unknown tool %q", name)), nil
}

// textResult wraps confirmations and rejections alike; the model only ever
// sees a result payload, never a raised error.
func textResult(msg string) map[string]any {
	return map[string]any{"result": msg}
}

func saveMessage(ctx context.Context, deps Deps, args map[string]any) (map[string]any, error) {
	if deps.ProjectID == "" {
		return textResult("Error: No active project"), nil
	}

	roleArg, _ := args["role"].(string)
	content, _ := args["content"].(string)

	role, err := conversations.ParseRole(roleArg)
	if err != nil {
		return textResult(fmt.Sprintf("Error: invalid role %q", roleArg)), nil
	}

	if _, err := deps.Messages.Append(ctx, deps.ProjectID, role, content); err != nil {
		return nil, fmt.Errorf("save_message: %w", err)
	}
	return textResult(fmt.Sprintf("Message saved as %s", roleArg)), nil
}

func getProjectContext(ctx context.Context, deps Deps) (map[string]any, error) {
	if deps.ProjectID == "" {
		return map[string]any{"error": "No active project"}, nil
	}

	p, err := deps.Projects.Get(ctx, deps.ProjectID)
	if errors.Is(err, projects.ErrNotFound) {
		return map[string]any{"error": "Project not found"}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get_project_context: %w", err)
	}

	// Presence booleans keep the payload bounded; the model never needs the
	// raw vision document to decide what to do next.
	snapshot := map[string]any{
		"id":                  p.ID,
		"name":                p.Name,
		"status":              string(p.Status),
		"has_vision_document": p.VisionDocument != nil,
		"created_at":          p.CreatedAt.Format(time.RFC3339),
		"updated_at":          p.UpdatedAt.Format(time.RFC3339),
	}
	if p.Description != nil {
		snapshot["description"] = *p.Description
	}
	if p.GitHubRepoURL != nil {
		snapshot["github_repo_url"] = *p.GitHubRepoURL
	}
	if p.TelegramChatID != nil {
		snapshot["telegram_chat_id"] = *p.TelegramChatID
	}
	return snapshot, nil
}

func getConversation(ctx context.Context, deps Deps, args map[string]any) (map[string]any, error) {
	if deps.ProjectID == "" {
		return textResult("Error: No active project"), nil
	}

	limit := defaultConversationLimit
	if v, ok := args["limit"].(float64); ok { // JSON numbers decode as float64
		limit = int(v)
	}

	msgs, err := deps.Messages.Recent(ctx, deps.ProjectID, limit)
	if errors.Is(err, conversations.ErrInvalidLimit) {
		return textResult(fmt.Sprintf("Error: invalid limit %d", limit)), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get_conversation: %w", err)
	}

	items := make([]map[string]any, 0, len(msgs))
	for _, m := range msgs {
		items = append(items, map[string]any{
			"role":      string(m.Role),
			"content":   m.Content,
			"timestamp": m.Timestamp.Format(time.RFC3339),
		})
	}
	return map[string]any{"messages": items}, nil
}

func updateStatus(ctx context.Context, deps Deps, args map[string]any) (map[string]any, error) {
	if deps.ProjectID == "" {
		return textResult("Error: No active project"), nil
	}

	candidate, _ := args["new_status"].(string)

	var invalid *projects.InvalidStatusError
	_, err := deps.Projects.SetStatus(ctx, deps.ProjectID, candidate)
	if errors.As(err, &invalid) {
		return textResult(fmt.Sprintf("Error: Invalid status %q", candidate)), nil
	}
	if err != nil {
		return nil, fmt.Errorf("update_status: %w", err)
	}
	return textResult(fmt.Sprintf("Project status updated to %s", candidate)), nil
}

func saveVisionDocument(ctx context.Context, deps Deps, args map[string]any) (map[string]any, error) {
	if deps.ProjectID == "" {
		return textResult("Error: No active project"), nil
	}

	doc, ok := args["vision_doc"].(map[string]any)
	if !ok || len(doc) == 0 {
		return textResult("Error: vision_doc must be a non-empty object"), nil
	}

	if _, err := deps.Projects.SetVision(ctx, deps.ProjectID, doc); err != nil {
		return nil, fmt.Errorf("save_vision_document: %w", err)
	}
	return textResult("Vision document saved successfully"), nil
}
