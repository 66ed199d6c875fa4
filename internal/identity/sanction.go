package identity

import (
	"context"

	id "ronda/pkg/domain"
)

// snapshotInvalidator is the cache slice the sanction path needs.
type snapshotInvalidator interface {
	Invalidate(ctx context.Context, memberID id.MemberID)
}

// invalidatingSanctioner drops a member's cached snapshot once the sanction
// sticks, so the next risk evaluation sees the new status immediately
// instead of waiting out the snapshot TTL.
type invalidatingSanctioner struct {
	inner Sanctioner
	cache snapshotInvalidator
}

// SanctionerWithInvalidation wraps a Sanctioner with cache invalidation.
// The invalidation only runs after the underlying sanction succeeds; a
// failed sanction leaves the cache alone.
func SanctionerWithInvalidation(inner Sanctioner, cache snapshotInvalidator) Sanctioner {
	return &invalidatingSanctioner{inner: inner, cache: cache}
}

func (s *invalidatingSanctioner) Sanction(ctx context.Context, memberID id.MemberID, status AccountStatus, reason string) error {
	if err := s.inner.Sanction(ctx, memberID, status, reason); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, memberID)
	return nil
}
