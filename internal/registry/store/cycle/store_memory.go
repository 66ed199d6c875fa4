package cycle

import (
	"context"
	"sort"
	"sync"

	"ronda/internal/registry/models"
	id "ronda/pkg/domain"
	"ronda/pkg/platform/sentinel"
)

type scheduleKey struct {
	cycleID id.CycleID
	round   int
}

// InMemory is the development and test implementation of the cycle store.
// It owns both cycles and their payment schedules.
type InMemory struct {
	mu        sync.RWMutex
	cycles    map[id.CycleID]*models.TandaCycle
	schedules map[scheduleKey]*models.PaymentSchedule
}

func NewInMemory() *InMemory {
	return &InMemory{
		cycles:    make(map[id.CycleID]*models.TandaCycle),
		schedules: make(map[scheduleKey]*models.PaymentSchedule),
	}
}

func (s *InMemory) Create(_ context.Context, cycle *models.TandaCycle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.cycles[cycle.ID]; exists {
		return sentinel.ErrConflict
	}
	cycle.Version = 1
	s.cycles[cycle.ID] = copyCycle(cycle)
	return nil
}

func (s *InMemory) FindByID(_ context.Context, cycleID id.CycleID) (*models.TandaCycle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, exists := s.cycles[cycleID]
	if !exists {
		return nil, sentinel.ErrNotFound
	}
	return copyCycle(stored), nil
}

func (s *InMemory) FindActiveByGroup(_ context.Context, groupID id.GroupID) (*models.TandaCycle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, stored := range s.cycles {
		if stored.GroupID == groupID && stored.Status == models.CycleActive {
			return copyCycle(stored), nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) Update(_ context.Context, cycle *models.TandaCycle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, exists := s.cycles[cycle.ID]
	if !exists {
		return sentinel.ErrNotFound
	}
	if stored.Version != cycle.Version {
		return sentinel.ErrVersionConflict
	}
	cycle.Version++
	s.cycles[cycle.ID] = copyCycle(cycle)
	return nil
}

func (s *InMemory) CreateSchedules(_ context.Context, schedules []*models.PaymentSchedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, schedule := range schedules {
		key := scheduleKey{cycleID: schedule.CycleID, round: schedule.Round}
		if _, exists := s.schedules[key]; exists {
			return sentinel.ErrConflict
		}
	}
	for _, schedule := range schedules {
		schedule.Version = 1
		key := scheduleKey{cycleID: schedule.CycleID, round: schedule.Round}
		s.schedules[key] = copySchedule(schedule)
	}
	return nil
}

func (s *InMemory) FindSchedule(_ context.Context, cycleID id.CycleID, round int) (*models.PaymentSchedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, exists := s.schedules[scheduleKey{cycleID: cycleID, round: round}]
	if !exists {
		return nil, sentinel.ErrNotFound
	}
	return copySchedule(stored), nil
}

func (s *InMemory) ListSchedules(_ context.Context, cycleID id.CycleID) ([]*models.PaymentSchedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	listed := make([]*models.PaymentSchedule, 0)
	for key, stored := range s.schedules {
		if key.cycleID == cycleID {
			listed = append(listed, copySchedule(stored))
		}
	}
	sort.Slice(listed, func(i, j int) bool { return listed[i].Round < listed[j].Round })
	return listed, nil
}

func (s *InMemory) UpdateSchedule(_ context.Context, schedule *models.PaymentSchedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := scheduleKey{cycleID: schedule.CycleID, round: schedule.Round}
	stored, exists := s.schedules[key]
	if !exists {
		return sentinel.ErrNotFound
	}
	if stored.Version != schedule.Version {
		return sentinel.ErrVersionConflict
	}
	schedule.Version++
	s.schedules[key] = copySchedule(schedule)
	return nil
}

func copyCycle(c *models.TandaCycle) *models.TandaCycle {
	copied := *c
	if c.CompletedAt != nil {
		completed := *c.CompletedAt
		copied.CompletedAt = &completed
	}
	return &copied
}

func copySchedule(p *models.PaymentSchedule) *models.PaymentSchedule {
	copied := *p
	copied.Obligations = make([]models.Obligation, len(p.Obligations))
	for i, o := range p.Obligations {
		copied.Obligations[i] = o
		if o.PaidAt != nil {
			paid := *o.PaidAt
			copied.Obligations[i].PaidAt = &paid
		}
	}
	return &copied
}
