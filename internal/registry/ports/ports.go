// Package ports defines the store interfaces for registry-owned state.
// Interfaces live here because the memory and postgres implementations, the
// registry service, and the lifecycle coordinator all consume them.
package ports

import (
	"context"

	"ronda/internal/registry/models"
	id "ronda/pkg/domain"
)

// GroupStore persists groups. Update enforces an optimistic version check:
// a stale Version fails with sentinel.ErrVersionConflict.
type GroupStore interface {
	Create(ctx context.Context, group *models.Group) error
	FindByID(ctx context.Context, groupID id.GroupID) (*models.Group, error)
	Update(ctx context.Context, group *models.Group) error

	// ListOpen returns groups in recruiting status, the matcher's candidate set.
	ListOpen(ctx context.Context) ([]*models.Group, error)
}

// MembershipStore persists memberships.
type MembershipStore interface {
	Create(ctx context.Context, membership *models.Membership) error
	FindByID(ctx context.Context, membershipID id.MembershipID) (*models.Membership, error)

	// FindActive returns the active membership of a member in a group, or
	// sentinel.ErrNotFound.
	FindActive(ctx context.Context, groupID id.GroupID, memberID id.MemberID) (*models.Membership, error)
	ListActiveByGroup(ctx context.Context, groupID id.GroupID) ([]*models.Membership, error)
	Update(ctx context.Context, membership *models.Membership) error
}

// CycleStore persists cycles and their payment schedules.
type CycleStore interface {
	Create(ctx context.Context, cycle *models.TandaCycle) error
	FindByID(ctx context.Context, cycleID id.CycleID) (*models.TandaCycle, error)

	// FindActiveByGroup returns the group's active cycle, or sentinel.ErrNotFound.
	FindActiveByGroup(ctx context.Context, groupID id.GroupID) (*models.TandaCycle, error)
	Update(ctx context.Context, cycle *models.TandaCycle) error

	CreateSchedules(ctx context.Context, schedules []*models.PaymentSchedule) error
	FindSchedule(ctx context.Context, cycleID id.CycleID, round int) (*models.PaymentSchedule, error)
	ListSchedules(ctx context.Context, cycleID id.CycleID) ([]*models.PaymentSchedule, error)
	UpdateSchedule(ctx context.Context, schedule *models.PaymentSchedule) error
}
