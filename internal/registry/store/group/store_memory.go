package group

import (
	"context"
	"sync"

	"ronda/internal/registry/models"
	id "ronda/pkg/domain"
	"ronda/pkg/platform/sentinel"
)

// InMemory is the development and test implementation of the group store.
// Reads return copies so callers never observe a half-applied write.
type InMemory struct {
	mu     sync.RWMutex
	groups map[id.GroupID]*models.Group
}

func NewInMemory() *InMemory {
	return &InMemory{groups: make(map[id.GroupID]*models.Group)}
}

func (s *InMemory) Create(_ context.Context, group *models.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.groups[group.ID]; exists {
		return sentinel.ErrConflict
	}
	group.Version = 1
	stored := *group
	s.groups[group.ID] = &stored
	return nil
}

func (s *InMemory) FindByID(_ context.Context, groupID id.GroupID) (*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, exists := s.groups[groupID]
	if !exists {
		return nil, sentinel.ErrNotFound
	}
	found := *stored
	return &found, nil
}

func (s *InMemory) Update(_ context.Context, group *models.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, exists := s.groups[group.ID]
	if !exists {
		return sentinel.ErrNotFound
	}
	if stored.Version != group.Version {
		return sentinel.ErrVersionConflict
	}
	group.Version++
	updated := *group
	s.groups[group.ID] = &updated
	return nil
}

func (s *InMemory) ListOpen(_ context.Context) ([]*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	open := make([]*models.Group, 0)
	for _, stored := range s.groups {
		if stored.Status != models.GroupRecruiting {
			continue
		}
		found := *stored
		open = append(open, &found)
	}
	return open, nil
}
