package memory

import (
	"context"
	"sync"

	"ronda/internal/audit"
	id "ronda/pkg/domain"
)

// InMemoryStore keeps audit events in process memory, indexed by member and
// group for the two query paths.
type InMemoryStore struct {
	mu       sync.RWMutex
	byMember map[id.MemberID][]audit.Event
	byGroup  map[id.GroupID][]audit.Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		byMember: make(map[id.MemberID][]audit.Event),
		byGroup:  make(map[id.GroupID][]audit.Event),
	}
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byMember = make(map[id.MemberID][]audit.Event)
	s.byGroup = make(map[id.GroupID][]audit.Event)
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !event.MemberID.IsNil() {
		s.byMember[event.MemberID] = append(s.byMember[event.MemberID], event)
	}
	if !event.GroupID.IsNil() {
		s.byGroup[event.GroupID] = append(s.byGroup[event.GroupID], event)
	}
	return nil
}

func (s *InMemoryStore) ListByMember(_ context.Context, memberID id.MemberID) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.Event{}, s.byMember[memberID]...), nil
}

func (s *InMemoryStore) ListByGroup(_ context.Context, groupID id.GroupID) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.Event{}, s.byGroup[groupID]...), nil
}
