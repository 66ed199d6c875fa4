package lifecycle

import (
	"sync"

	id "ronda/pkg/domain"
)

// groupLocks serializes lifecycle operations per group. The registry's
// optimistic version checks catch races that slip past it, but holding the
// group lock for the whole risk-check-then-mutate sequence is what makes
// capacity and idempotency checks race-free.
type groupLocks struct {
	mu    sync.Mutex
	locks map[id.GroupID]*groupLock
}

type groupLock struct {
	mu   sync.Mutex
	refs int
}

func newGroupLocks() *groupLocks {
	return &groupLocks{locks: make(map[id.GroupID]*groupLock)}
}

// lock acquires the per-group mutex and returns its release func. Lock
// entries are reference-counted and removed when the last holder releases,
// so the map does not grow with every group ever touched.
func (g *groupLocks) lock(groupID id.GroupID) func() {
	g.mu.Lock()
	l, ok := g.locks[groupID]
	if !ok {
		l = &groupLock{}
		g.locks[groupID] = l
	}
	l.refs++
	g.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		g.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(g.locks, groupID)
		}
		g.mu.Unlock()
	}
}
