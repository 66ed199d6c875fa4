// Package models defines the canonical state owned by the registry: groups,
// memberships, cycles, and payment schedules.
package models

import (
	"time"

	id "ronda/pkg/domain"
)

// GroupStatus is the lifecycle state of a group.
type GroupStatus string

const (
	GroupRecruiting GroupStatus = "recruiting"
	GroupActive     GroupStatus = "active"
	GroupPaused     GroupStatus = "paused"
	GroupClosed     GroupStatus = "closed"
)

// groupTransitions is the full transition table. Transitions are monotonic
// except paused<->active; closed is terminal.
var groupTransitions = map[GroupStatus][]GroupStatus{
	GroupRecruiting: {GroupActive, GroupClosed},
	GroupActive:     {GroupPaused, GroupClosed},
	GroupPaused:     {GroupActive},
	GroupClosed:     {},
}

// CanTransition reports whether moving from s to next is a legal transition.
func (s GroupStatus) CanTransition(next GroupStatus) bool {
	for _, allowed := range groupTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsValid reports whether s is a known status.
func (s GroupStatus) IsValid() bool {
	switch s {
	case GroupRecruiting, GroupActive, GroupPaused, GroupClosed:
		return true
	}
	return false
}

// Frequency is the contribution cadence of a group.
type Frequency string

const (
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyMonthly  Frequency = "monthly"
)

// IsValid reports whether f is a known frequency.
func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly:
		return true
	}
	return false
}

// Interval returns the wall-clock length of one round at this frequency.
func (f Frequency) Interval() time.Duration {
	switch f {
	case FrequencyWeekly:
		return 7 * 24 * time.Hour
	case FrequencyBiweekly:
		return 14 * 24 * time.Hour
	default:
		return 30 * 24 * time.Hour
	}
}

// Privacy is the visibility level of a group.
type Privacy string

const (
	PrivacyPublic     Privacy = "public"
	PrivacyInviteOnly Privacy = "invite_only"
)

// IsValid reports whether the privacy value is known.
func (p Privacy) IsValid() bool {
	return p == PrivacyPublic || p == PrivacyInviteOnly
}

// Group is the canonical state of a tanda.
//
// Contribution is in the smallest currency unit. PublicWarnings and
// FailedPayments are coordinator-attributable counters maintained by
// sanction/reconciliation flows and read by the risk evaluator.
type Group struct {
	ID              id.GroupID
	Name            string
	Type            string
	Contribution    int64
	Frequency       Frequency
	MinMembers      int
	MaxMembers      int
	Privacy         Privacy
	CoordinatorID   id.MemberID
	Status          GroupStatus
	Location        string
	TrustScore      float64
	CreatedAt       time.Time
	PublicWarnings  int
	FailedPayments  int
	VerifiedMembers int
	MemberCount     int
	TotalCollected  int64
	CompletedCycles int

	// Version supports the store's optimistic concurrency check.
	Version int64
}

// RecalculateTrust rederives the 0-100 trust score from the group's track
// record. A new group starts at 50; completed cycles build trust, failed
// payments and public warnings erode it, and a verified roster adds a
// smaller boost. Called by the registry after any counter change.
func (g *Group) RecalculateTrust() {
	score := 50.0
	score += 10 * float64(g.CompletedCycles)
	score -= 15 * float64(g.FailedPayments)
	score -= 10 * float64(g.PublicWarnings)
	if g.MemberCount > 0 {
		score += 10 * float64(g.VerifiedMembers) / float64(g.MemberCount)
	}
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	g.TrustScore = score
}

// Role of a membership within its group.
type Role string

const (
	RoleCoordinator Role = "coordinator"
	RoleMember      Role = "member"
)

// Membership ties a member to a group. PayOrder is assigned at cycle start
// and immutable once OrderAssigned is set.
type Membership struct {
	ID            id.MembershipID
	GroupID       id.GroupID
	MemberID      id.MemberID
	Role          Role
	JoinedAt      time.Time
	PayOrder      int
	OrderAssigned bool
	// Acknowledgments records the risk-warning acceptance trail captured at
	// join time.
	Acknowledgments []string
	Active          bool
	LeftAt          *time.Time

	Version int64
}

// CycleStatus is the lifecycle state of a tanda cycle.
type CycleStatus string

const (
	CycleRecruiting CycleStatus = "recruiting"
	CycleActive     CycleStatus = "active"
	CycleCompleted  CycleStatus = "completed"
)

// CanTransition reports whether the cycle status may move to next. The
// machine is linear with no reversal.
func (s CycleStatus) CanTransition(next CycleStatus) bool {
	switch s {
	case CycleRecruiting:
		return next == CycleActive
	case CycleActive:
		return next == CycleCompleted
	default:
		return false
	}
}

// TandaCycle is one full rotation through a group's memberships. Immutable
// once active except for CurrentRound and completion.
type TandaCycle struct {
	ID           id.CycleID
	GroupID      id.GroupID
	Status       CycleStatus
	RoundCount   int
	CurrentRound int // 1-indexed, <= RoundCount
	StartedAt    time.Time
	CompletedAt  *time.Time

	Version int64
}

// ObligationStatus tracks one non-recipient's payment within a round.
type ObligationStatus string

const (
	ObligationPending ObligationStatus = "pending"
	// ObligationPendingConfirmation means the gateway charge was issued but
	// not yet confirmed; a reconciliation job finalizes or retries it.
	ObligationPendingConfirmation ObligationStatus = "pending_confirmation"
	ObligationPaid                ObligationStatus = "paid"
	// ObligationDefaulted marks obligations of a member who left mid-cycle.
	// They are never removed: the permutation invariant backs the audit trail.
	ObligationDefaulted ObligationStatus = "defaulted"
)

// Obligation is one payer's duty within a round.
type Obligation struct {
	MembershipID  id.MembershipID
	Amount        int64
	Status        ObligationStatus
	PaidAt        *time.Time
	TransactionID string
}

// PaymentSchedule is the ledger of one round: exactly one recipient, one
// obligation per non-recipient membership.
type PaymentSchedule struct {
	CycleID     id.CycleID
	Round       int
	RecipientID id.MembershipID
	DueDate     time.Time
	Obligations []Obligation

	Version int64
}

// Settled reports whether every obligation is paid or defaulted, the trigger
// for advancing the cycle's current round.
func (p *PaymentSchedule) Settled() bool {
	for _, o := range p.Obligations {
		if o.Status != ObligationPaid && o.Status != ObligationDefaulted {
			return false
		}
	}
	return true
}

// ObligationFor returns a pointer to the obligation owed by the given
// membership, or nil if the membership has none in this round.
func (p *PaymentSchedule) ObligationFor(membershipID id.MembershipID) *Obligation {
	for i := range p.Obligations {
		if p.Obligations[i].MembershipID == membershipID {
			return &p.Obligations[i]
		}
	}
	return nil
}
