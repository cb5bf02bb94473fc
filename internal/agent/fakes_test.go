package agent

import (
	"context"
	"sync"
	"time"

	"github.com/projectpilot/orchestrator-backend/internal/conversations"
	"github.com/projectpilot/orchestrator-backend/internal/projects"
)

// In-memory stores backing tool and orchestrator tests.

type memStore struct {
	mu       sync.Mutex
	projects map[string]*projects.Project
	messages []conversations.Message
	nextID   int64
}

func newMemStore() *memStore {
	return &memStore{projects: make(map[string]*projects.Project)}
}

func (m *memStore) addProject(p *projects.Project) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.Status == "" {
		p.Status = projects.StatusBrainstorming
	}
	m.projects[p.ID] = p
}

func (m *memStore) Get(_ context.Context, id string) (*projects.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.projects[id]
	if !ok {
		return nil, projects.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (m *memStore) SetStatus(_ context.Context, id, candidate string) (*projects.Project, error) {
	status, err := projects.ParseStatus(candidate)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.projects[id]
	if !ok {
		return nil, projects.ErrNotFound
	}
	p.Status = status
	p.UpdatedAt = time.Now()
	clone := *p
	return &clone, nil
}

func (m *memStore) SetVision(_ context.Context, id string, doc map[string]any) (*projects.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.projects[id]
	if !ok {
		return nil, projects.ErrNotFound
	}
	p.VisionDocument = doc
	p.UpdatedAt = time.Now()
	clone := *p
	return &clone, nil
}

func (m *memStore) Append(_ context.Context, projectID string, role conversations.Role, content string) (*conversations.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.projects[projectID]; !ok {
		return nil, conversations.ErrNotFound
	}

	m.nextID++
	msg := conversations.Message{
		ID:        m.nextID,
		ProjectID: projectID,
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
	m.messages = append(m.messages, msg)
	return &msg, nil
}

func (m *memStore) Recent(_ context.Context, projectID string, limit int) ([]conversations.Message, error) {
	if limit <= 0 {
		return nil, conversations.ErrInvalidLimit
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.projects[projectID]; !ok {
		return nil, conversations.ErrNotFound
	}

	var all []conversations.Message
	for _, msg := range m.messages {
		if msg.ProjectID == projectID {
			all = append(all, msg)
		}
	}
	if len(all) > limit {
		all = all[len(all)-limit:]
	}
	out := make([]conversations.Message, len(all))
	copy(out, all)
	return out, nil
}

// scriptedReasoner replays a fixed sequence of steps, dispatching any tool
// calls a step names before returning its reply or error.
type scriptedReasoner struct {
	steps []scriptedStep
	calls int
}

type scriptedStep struct {
	tools []scriptedCall
	reply string
	err   error
}

type scriptedCall struct {
	name string
	args map[string]any
}

func (s *scriptedReasoner) Reply(ctx context.Context, deps Deps, userText string) (string, error) {
	if s.calls >= len(s.steps) {
		return "", ErrUpstream
	}
	step := s.steps[s.calls]
	s.calls++

	for _, call := range step.tools {
		if _, err := Dispatch(ctx, deps, call.name, call.args); err != nil {
			return "", err
		}
	}
	if step.err != nil {
		return "", step.err
	}
	return step.reply, nil
}
