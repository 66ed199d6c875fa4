// Package audit captures the append-only trail of registry and risk
// decisions. Events are transport-agnostic so stores and sinks can fan out.
package audit

import (
	"time"

	id "ronda/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose.
// This enables different retention policies, storage backends, and routing.
type EventCategory string

const (
	// CategoryCompliance covers events with legal/regulatory significance:
	// blocking risk decisions, sanctions, acknowledgment trails. These
	// require tamper-proof storage and long retention, and emission is
	// fail-closed: if the event cannot be persisted the operation fails.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers events relevant to fraud monitoring and
	// forensics: defaults, failed payments, departures mid-cycle.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers routine activity useful for debugging.
	// These can be sampled or aggregated with shorter retention.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions.
type Event struct {
	Category  EventCategory
	Timestamp time.Time
	MemberID  id.MemberID
	GroupID   id.GroupID
	Subject   string
	Action    string
	Decision  string
	Reason    string
	RequestID string
	// ActorID tracks who performed the action when different from MemberID,
	// e.g. a coordinator accepting a candidate or an admin sanctioning.
	ActorID string
	// Acknowledgments carries the risk-warning acceptance trail for join and
	// acceptance events, the record a dispute resolution would reach for.
	Acknowledgments []string
}

// Action names emitted by the coordinator and registry.
type Action string

const (
	ActionGroupCreated     Action = "group_created"
	ActionMemberJoined     Action = "member_joined"
	ActionMemberAccepted   Action = "member_accepted"
	ActionJoinBlocked      Action = "join_blocked"
	ActionAcceptBlocked    Action = "accept_blocked"
	ActionCycleStarted     Action = "cycle_started"
	ActionPaymentRecorded  Action = "payment_recorded"
	ActionPaymentConfirmed Action = "payment_confirmed"
	ActionPaymentFailed    Action = "payment_failed"
	ActionMemberDeparted   Action = "member_departed"
	ActionRoundAdvanced    Action = "round_advanced"
	ActionCycleCompleted   Action = "cycle_completed"
	ActionGroupPaused      Action = "group_paused"
	ActionGroupResumed     Action = "group_resumed"
	ActionGroupClosed      Action = "group_closed"
	ActionMemberSanctioned Action = "member_sanctioned"
)

// actionCategories maps each action to its category. Blocking risk
// decisions, sanctions, and acknowledgment-bearing admissions are
// compliance: they must survive disputes.
var actionCategories = map[Action]EventCategory{
	ActionJoinBlocked:      CategoryCompliance,
	ActionAcceptBlocked:    CategoryCompliance,
	ActionMemberSanctioned: CategoryCompliance,
	ActionMemberJoined:     CategoryCompliance,
	ActionMemberAccepted:   CategoryCompliance,

	ActionPaymentFailed:  CategorySecurity,
	ActionMemberDeparted: CategorySecurity,

	ActionGroupCreated:     CategoryOperations,
	ActionCycleStarted:     CategoryOperations,
	ActionPaymentRecorded:  CategoryOperations,
	ActionPaymentConfirmed: CategoryOperations,
	ActionRoundAdvanced:    CategoryOperations,
	ActionCycleCompleted:   CategoryOperations,
	ActionGroupPaused:      CategoryOperations,
	ActionGroupResumed:     CategoryOperations,
	ActionGroupClosed:      CategoryOperations,
}

// Category returns the EventCategory for this action.
// Unknown actions default to CategoryOperations.
func (a Action) Category() EventCategory {
	if cat, ok := actionCategories[a]; ok {
		return cat
	}
	return CategoryOperations
}
