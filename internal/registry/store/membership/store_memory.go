package membership

import (
	"context"
	"sort"
	"sync"

	"ronda/internal/registry/models"
	id "ronda/pkg/domain"
	"ronda/pkg/platform/sentinel"
)

// InMemory is the development and test implementation of the membership store.
type InMemory struct {
	mu          sync.RWMutex
	memberships map[id.MembershipID]*models.Membership
}

func NewInMemory() *InMemory {
	return &InMemory{memberships: make(map[id.MembershipID]*models.Membership)}
}

func (s *InMemory) Create(_ context.Context, membership *models.Membership) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.memberships[membership.ID]; exists {
		return sentinel.ErrConflict
	}
	membership.Version = 1
	stored := copyMembership(membership)
	s.memberships[membership.ID] = stored
	return nil
}

func (s *InMemory) FindByID(_ context.Context, membershipID id.MembershipID) (*models.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, exists := s.memberships[membershipID]
	if !exists {
		return nil, sentinel.ErrNotFound
	}
	return copyMembership(stored), nil
}

func (s *InMemory) FindActive(_ context.Context, groupID id.GroupID, memberID id.MemberID) (*models.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, stored := range s.memberships {
		if stored.GroupID == groupID && stored.MemberID == memberID && stored.Active {
			return copyMembership(stored), nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) ListActiveByGroup(_ context.Context, groupID id.GroupID) ([]*models.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	active := make([]*models.Membership, 0)
	for _, stored := range s.memberships {
		if stored.GroupID == groupID && stored.Active {
			active = append(active, copyMembership(stored))
		}
	}
	// Stable order keeps callers deterministic; map iteration is not.
	sort.Slice(active, func(i, j int) bool {
		if !active[i].JoinedAt.Equal(active[j].JoinedAt) {
			return active[i].JoinedAt.Before(active[j].JoinedAt)
		}
		return active[i].ID.String() < active[j].ID.String()
	})
	return active, nil
}

func (s *InMemory) Update(_ context.Context, membership *models.Membership) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, exists := s.memberships[membership.ID]
	if !exists {
		return sentinel.ErrNotFound
	}
	if stored.Version != membership.Version {
		return sentinel.ErrVersionConflict
	}
	membership.Version++
	s.memberships[membership.ID] = copyMembership(membership)
	return nil
}

func copyMembership(m *models.Membership) *models.Membership {
	copied := *m
	copied.Acknowledgments = append([]string(nil), m.Acknowledgments...)
	if m.LeftAt != nil {
		left := *m.LeftAt
		copied.LeftAt = &left
	}
	return &copied
}
