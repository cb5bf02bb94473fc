package projects

import (
	"context"
	"fmt"
	"log"
)

// Service layers the snapshot cache over the repository. All mutations go
// through here so the cache can never serve a stale project to a turn that
// just changed it.
type Service struct {
	repo  *Repo
	cache *Cache
}

func NewService(repo *Repo, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

func (s *Service) Create(ctx context.Context, name string, description *string) (*Project, error) {
	return s.repo.Create(ctx, name, description)
}

func (s *Service) Get(ctx context.Context, id string) (*Project, error) {
	cached, err := s.cache.Get(ctx, id)
	if err != nil {
		log.Printf("project cache read failed for %s: %v", id, err)
	}
	if cached != nil {
		return cached, nil
	}

	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, p); err != nil {
		log.Printf("project cache write failed for %s: %v", id, err)
	}
	return p, nil
}

func (s *Service) GetByChatID(ctx context.Context, chatID int64) (*Project, error) {
	return s.repo.GetByChatID(ctx, chatID)
}

func (s *Service) List(ctx context.Context) ([]Project, error) {
	return s.repo.List(ctx)
}

// SetStatus parses candidate against the closed phase set and applies it.
// An unknown name returns *InvalidStatusError without touching the record.
func (s *Service) SetStatus(ctx context.Context, id, candidate string) (*Project, error) {
	status, err := ParseStatus(candidate)
	if err != nil {
		return nil, err
	}

	p, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	return p, s.invalidate(ctx, id)
}

// SetVision replaces the vision document wholesale, not merged.
func (s *Service) SetVision(ctx context.Context, id string, doc map[string]any) (*Project, error) {
	p, err := s.repo.UpdateVision(ctx, id, doc)
	if err != nil {
		return nil, err
	}
	return p, s.invalidate(ctx, id)
}

func (s *Service) SetRepoURL(ctx context.Context, id, url string) (*Project, error) {
	p, err := s.repo.SetRepoURL(ctx, id, url)
	if err != nil {
		return nil, err
	}
	return p, s.invalidate(ctx, id)
}

func (s *Service) BindChat(ctx context.Context, id string, chatID int64) (*Project, error) {
	p, err := s.repo.BindChat(ctx, id, chatID)
	if err != nil {
		return nil, err
	}
	return p, s.invalidate(ctx, id)
}

func (s *Service) invalidate(ctx context.Context, id string) error {
	if err := s.cache.Invalidate(ctx, id); err != nil {
		return fmt.Errorf("invalidate project %s: %w", id, err)
	}
	return nil
}
