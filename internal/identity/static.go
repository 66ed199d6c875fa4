package identity

import (
	"context"
	"sync"

	id "ronda/pkg/domain"
	"ronda/pkg/platform/sentinel"
)

// Static is an in-memory Provider and Sanctioner for development and tests.
type Static struct {
	mu      sync.RWMutex
	members map[id.MemberID]*MemberSnapshot
}

func NewStatic() *Static {
	return &Static{members: make(map[id.MemberID]*MemberSnapshot)}
}

// Seed inserts or replaces a member snapshot.
func (s *Static) Seed(snapshot *MemberSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *snapshot
	s.members[snapshot.ID] = &stored
}

func (s *Static) GetMemberStatus(_ context.Context, memberID id.MemberID) (*MemberSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, exists := s.members[memberID]
	if !exists {
		return nil, sentinel.ErrNotFound
	}
	found := *stored
	return &found, nil
}

func (s *Static) Sanction(_ context.Context, memberID id.MemberID, status AccountStatus, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, exists := s.members[memberID]
	if !exists {
		return sentinel.ErrNotFound
	}
	stored.AccountStatus = status
	return nil
}
