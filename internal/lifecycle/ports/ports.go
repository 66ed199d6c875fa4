// Package ports defines the interfaces the lifecycle coordinator depends
// on. Interfaces live here so mocks can be generated once and shared.
package ports

import (
	"context"
	"time"

	"ronda/internal/audit"
	"ronda/internal/identity"
	"ronda/internal/notify"
	"ronda/internal/payments"
	"ronda/internal/registry/models"
	registry "ronda/internal/registry/service"
	"ronda/internal/risk"
	id "ronda/pkg/domain"
)

// RiskEvaluator is the read-only advisory gate consulted before any
// admission mutates the registry.
type RiskEvaluator interface {
	AssessJoin(ctx context.Context, memberID id.MemberID, groupID id.GroupID) (*risk.Assessment, error)
	AssessAcceptance(ctx context.Context, candidateID id.MemberID, groupID id.GroupID) (*risk.Assessment, error)
}

// Registry is the slice of the registry service the coordinator drives.
type Registry interface {
	CreateGroup(ctx context.Context, params registry.CreateGroupParams) (*models.Group, *models.Membership, error)
	AddMember(ctx context.Context, params registry.AddMemberParams) (*models.Membership, error)
	StartCycle(ctx context.Context, groupID id.GroupID, now time.Time) (*models.TandaCycle, []*models.PaymentSchedule, error)
	RecordPayment(ctx context.Context, cycleID id.CycleID, round int, payerID id.MembershipID) (*models.PaymentSchedule, error)
	ConfirmPayment(ctx context.Context, cycleID id.CycleID, round int, payerID id.MembershipID, transactionID string, now time.Time) (*models.PaymentSchedule, bool, error)
	AdvanceRound(ctx context.Context, cycleID id.CycleID, now time.Time) (*registry.AdvanceOutcome, error)
	MarkDeparture(ctx context.Context, cycleID id.CycleID, membershipID id.MembershipID, now time.Time) error
	TransitionGroup(ctx context.Context, groupID id.GroupID, next models.GroupStatus) (*models.Group, error)
	RecordFailedPayment(ctx context.Context, groupID id.GroupID) error
	GetGroup(ctx context.Context, groupID id.GroupID) (*models.Group, error)
	ListOpenGroups(ctx context.Context) ([]*models.Group, error)
}

// AuditPublisher records the decision trail. Compliance events fail the
// operation when they cannot be persisted.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Notifier delivers best-effort member notifications.
type Notifier interface {
	Enqueue(ctx context.Context, n notify.Notification)
}

// Sanctioner applies an account status change in the identity system.
type Sanctioner interface {
	Sanction(ctx context.Context, memberID id.MemberID, status identity.AccountStatus, reason string) error
}

// Charger issues payment gateway charges.
type Charger interface {
	Charge(ctx context.Context, req payments.ChargeRequest) (payments.ChargeResult, error)
}

// Reconciler takes over charges that failed their first attempt.
type Reconciler interface {
	Enqueue(ctx context.Context, req payments.ChargeRequest)
}
