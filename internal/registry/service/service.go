// Package service implements the group/tanda registry: the only writer of
// groups, memberships, cycles, and payment schedules. Structural invariants
// are enforced here unconditionally; callers get an invariant violation,
// never a silently clamped value.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"ronda/internal/registry/models"
	"ronda/internal/registry/ports"
	"ronda/internal/rotation"
	id "ronda/pkg/domain"
	dErrors "ronda/pkg/domain-errors"
	"ronda/pkg/platform/sentinel"
)

// Rotation is the slice of the rotation scheduler the registry needs at
// cycle start.
type Rotation interface {
	AssignOrder(memberships []*models.Membership, groupID id.GroupID, startedAt time.Time) []*models.Membership
	BuildSchedules(cycle *models.TandaCycle, ordered []*models.Membership, contribution int64, frequency models.Frequency) []*models.PaymentSchedule
}

// Service owns registry state transitions. All write methods expect to run
// under the caller's per-group serialization; the optimistic version check
// in the stores is the backstop, not the primary guard.
type Service struct {
	groups      ports.GroupStore
	memberships ports.MembershipStore
	cycles      ports.CycleStore
	rotation    Rotation
	logger      *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// New constructs the registry service.
func New(groups ports.GroupStore, memberships ports.MembershipStore, cycles ports.CycleStore, rotation Rotation, opts ...Option) *Service {
	s := &Service{
		groups:      groups,
		memberships: memberships,
		cycles:      cycles,
		rotation:    rotation,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateGroupParams carries everything needed to open a new group.
type CreateGroupParams struct {
	Name                string
	Type                string
	Contribution        int64
	Frequency           models.Frequency
	MinMembers          int
	MaxMembers          int
	Privacy             models.Privacy
	Location            string
	CoordinatorID       id.MemberID
	CoordinatorVerified bool
	Now                 time.Time
}

func (p CreateGroupParams) validate() error {
	switch {
	case p.Name == "":
		return dErrors.New(dErrors.CodeValidation, "group name is required")
	case p.Contribution <= 0:
		return dErrors.New(dErrors.CodeValidation, "contribution must be a positive amount")
	case !p.Frequency.IsValid():
		return dErrors.Newf(dErrors.CodeValidation, "unknown frequency %q", p.Frequency)
	case p.MinMembers < 2:
		return dErrors.New(dErrors.CodeValidation, "a tanda needs at least 2 members")
	case p.MaxMembers < p.MinMembers:
		return dErrors.New(dErrors.CodeValidation, "max members must be >= min members")
	case p.CoordinatorID.IsNil():
		return dErrors.New(dErrors.CodeValidation, "coordinator is required")
	}
	return nil
}

// CreateGroup opens a new recruiting group with the coordinator as its first
// membership.
func (s *Service) CreateGroup(ctx context.Context, params CreateGroupParams) (*models.Group, *models.Membership, error) {
	if err := params.validate(); err != nil {
		return nil, nil, err
	}

	verified := 0
	if params.CoordinatorVerified {
		verified = 1
	}
	group := &models.Group{
		ID:              id.NewGroupID(),
		Name:            params.Name,
		Type:            params.Type,
		Contribution:    params.Contribution,
		Frequency:       params.Frequency,
		MinMembers:      params.MinMembers,
		MaxMembers:      params.MaxMembers,
		Privacy:         params.Privacy,
		Location:        params.Location,
		CoordinatorID:   params.CoordinatorID,
		Status:          models.GroupRecruiting,
		CreatedAt:       params.Now,
		MemberCount:     1,
		VerifiedMembers: verified,
	}
	group.RecalculateTrust()
	if err := s.groups.Create(ctx, group); err != nil {
		return nil, nil, translate(err, "create group")
	}

	membership := &models.Membership{
		ID:       id.NewMembershipID(),
		GroupID:  group.ID,
		MemberID: params.CoordinatorID,
		Role:     models.RoleCoordinator,
		JoinedAt: params.Now,
		Active:   true,
	}
	if err := s.memberships.Create(ctx, membership); err != nil {
		return nil, nil, translate(err, "create coordinator membership")
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "group created",
			"group_id", group.ID,
			"coordinator_id", params.CoordinatorID,
			"contribution", params.Contribution,
		)
	}
	return group, membership, nil
}

// AddMemberParams covers both Join (member-initiated) and Accept
// (coordinator-initiated); the registry treats them identically.
type AddMemberParams struct {
	GroupID         id.GroupID
	MemberID        id.MemberID
	Acknowledgments []string
	Verified        bool
	Now             time.Time
}

// AddMember creates an active membership, enforcing capacity and uniqueness.
// Idempotent: re-adding an already-active member returns the existing
// membership unchanged.
func (s *Service) AddMember(ctx context.Context, params AddMemberParams) (*models.Membership, error) {
	if params.MemberID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "member is required")
	}

	existing, err := s.memberships.FindActive(ctx, params.GroupID, params.MemberID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, translate(err, "check existing membership")
	}

	group, err := s.groups.FindByID(ctx, params.GroupID)
	if err != nil {
		return nil, translate(err, "load group")
	}
	if group.Status != models.GroupRecruiting && group.Status != models.GroupActive {
		return nil, dErrors.Newf(dErrors.CodeInvariantViolation, "group is %s and not accepting members", group.Status)
	}
	if group.MemberCount >= group.MaxMembers {
		return nil, dErrors.Newf(dErrors.CodeInvariantViolation,
			"group is at capacity (%d/%d)", group.MemberCount, group.MaxMembers)
	}

	membership := &models.Membership{
		ID:              id.NewMembershipID(),
		GroupID:         params.GroupID,
		MemberID:        params.MemberID,
		Role:            models.RoleMember,
		JoinedAt:        params.Now,
		Acknowledgments: append([]string(nil), params.Acknowledgments...),
		Active:          true,
	}
	if err := s.memberships.Create(ctx, membership); err != nil {
		return nil, translate(err, "create membership")
	}

	group.MemberCount++
	if params.Verified {
		group.VerifiedMembers++
	}
	group.RecalculateTrust()
	if err := s.groups.Update(ctx, group); err != nil {
		return nil, translate(err, "update group counters")
	}
	return membership, nil
}

// StartCycle freezes the current roster into a new active cycle: payout
// order assigned, one payment schedule per round, group moved to active.
// Members joining afterwards belong to the next cycle, not this one.
func (s *Service) StartCycle(ctx context.Context, groupID id.GroupID, now time.Time) (*models.TandaCycle, []*models.PaymentSchedule, error) {
	group, err := s.groups.FindByID(ctx, groupID)
	if err != nil {
		return nil, nil, translate(err, "load group")
	}
	if group.Status != models.GroupRecruiting {
		return nil, nil, dErrors.Newf(dErrors.CodeInvariantViolation,
			"cycle can only start from recruiting, group is %s", group.Status)
	}

	roster, err := s.memberships.ListActiveByGroup(ctx, groupID)
	if err != nil {
		return nil, nil, translate(err, "list roster")
	}
	if len(roster) < group.MinMembers {
		return nil, nil, dErrors.Newf(dErrors.CodeInvariantViolation,
			"group has %d members, needs at least %d to start", len(roster), group.MinMembers)
	}

	cycle := &models.TandaCycle{
		ID:           id.NewCycleID(),
		GroupID:      groupID,
		Status:       models.CycleActive,
		RoundCount:   len(roster),
		CurrentRound: 1,
		StartedAt:    now,
	}

	ordered := s.rotation.AssignOrder(roster, groupID, now)
	schedules := s.rotation.BuildSchedules(cycle, ordered, group.Contribution, group.Frequency)

	if err := s.cycles.Create(ctx, cycle); err != nil {
		return nil, nil, translate(err, "create cycle")
	}
	if err := s.cycles.CreateSchedules(ctx, schedules); err != nil {
		return nil, nil, translate(err, "create schedules")
	}
	for _, membership := range ordered {
		if err := s.memberships.Update(ctx, membership); err != nil {
			return nil, nil, translate(err, "assign payment order")
		}
	}

	if !group.Status.CanTransition(models.GroupActive) {
		return nil, nil, dErrors.Newf(dErrors.CodeInvariantViolation,
			"group cannot move from %s to active", group.Status)
	}
	group.Status = models.GroupActive
	if err := s.groups.Update(ctx, group); err != nil {
		return nil, nil, translate(err, "activate group")
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "cycle started",
			"group_id", groupID,
			"cycle_id", cycle.ID,
			"rounds", cycle.RoundCount,
		)
	}
	return cycle, schedules, nil
}

// RecordPayment marks the payer's obligation in the given round as awaiting
// gateway confirmation. Idempotent: an obligation already pending or paid is
// returned unchanged.
func (s *Service) RecordPayment(ctx context.Context, cycleID id.CycleID, round int, payerID id.MembershipID) (*models.PaymentSchedule, error) {
	cycle, schedule, err := s.loadRound(ctx, cycleID, round)
	if err != nil {
		return nil, err
	}

	payer, err := s.memberships.FindByID(ctx, payerID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvariantViolation, "payer has no membership in this group")
	}
	if payer.GroupID != cycle.GroupID {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "payer membership belongs to a different group")
	}

	obligation := schedule.ObligationFor(payerID)
	if obligation == nil {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "payer has no obligation in this round")
	}
	switch obligation.Status {
	case models.ObligationPaid, models.ObligationPendingConfirmation:
		return schedule, nil
	case models.ObligationDefaulted:
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "obligation was defaulted and cannot be paid")
	}

	obligation.Status = models.ObligationPendingConfirmation
	if err := s.cycles.UpdateSchedule(ctx, schedule); err != nil {
		return nil, translate(err, "record payment")
	}
	return schedule, nil
}

// ConfirmPayment finalizes a pending obligation once the gateway confirms.
// The returned flag reports whether the round is now fully settled.
func (s *Service) ConfirmPayment(ctx context.Context, cycleID id.CycleID, round int, payerID id.MembershipID, transactionID string, now time.Time) (*models.PaymentSchedule, bool, error) {
	_, schedule, err := s.loadRound(ctx, cycleID, round)
	if err != nil {
		return nil, false, err
	}

	obligation := schedule.ObligationFor(payerID)
	if obligation == nil {
		return nil, false, dErrors.New(dErrors.CodeInvariantViolation, "payer has no obligation in this round")
	}
	if obligation.Status == models.ObligationPaid {
		return schedule, schedule.Settled(), nil
	}
	if obligation.Status != models.ObligationPendingConfirmation {
		return nil, false, dErrors.Newf(dErrors.CodeInvariantViolation,
			"obligation is %s, expected pending_confirmation", obligation.Status)
	}

	obligation.Status = models.ObligationPaid
	obligation.PaidAt = &now
	obligation.TransactionID = transactionID
	if err := s.cycles.UpdateSchedule(ctx, schedule); err != nil {
		return nil, false, translate(err, "confirm payment")
	}
	return schedule, schedule.Settled(), nil
}

// AdvanceOutcome reports what AdvanceRound did.
type AdvanceOutcome struct {
	Cycle     *models.TandaCycle
	Completed bool
}

// AdvanceRound moves the cycle past its current round once every obligation
// is settled. On the final round the cycle completes and the group's
// cumulative counters are updated. Monotonic: the round number never
// decreases and a completed cycle never regresses.
func (s *Service) AdvanceRound(ctx context.Context, cycleID id.CycleID, now time.Time) (*AdvanceOutcome, error) {
	cycle, err := s.cycles.FindByID(ctx, cycleID)
	if err != nil {
		return nil, translate(err, "load cycle")
	}
	schedule, err := s.cycles.FindSchedule(ctx, cycleID, cycle.CurrentRound)
	if err != nil {
		return nil, translate(err, "load current schedule")
	}

	advance, err := rotation.AdvanceRound(cycle, schedule)
	if err != nil {
		return nil, err
	}

	if advance.Completed {
		if !cycle.Status.CanTransition(models.CycleCompleted) {
			return nil, dErrors.Newf(dErrors.CodeInvariantViolation,
				"cycle cannot complete from %s", cycle.Status)
		}
		cycle.Status = models.CycleCompleted
		cycle.CompletedAt = &now
	} else {
		cycle.CurrentRound = advance.NextRound
	}
	if err := s.cycles.Update(ctx, cycle); err != nil {
		return nil, translate(err, "advance cycle")
	}

	if advance.Completed {
		if err := s.settleGroupCounters(ctx, cycle); err != nil {
			return nil, err
		}
	}
	return &AdvanceOutcome{Cycle: cycle, Completed: advance.Completed}, nil
}

// settleGroupCounters folds a completed cycle into the group's lifetime
// totals.
func (s *Service) settleGroupCounters(ctx context.Context, cycle *models.TandaCycle) error {
	group, err := s.groups.FindByID(ctx, cycle.GroupID)
	if err != nil {
		return translate(err, "load group for settlement")
	}
	schedules, err := s.cycles.ListSchedules(ctx, cycle.ID)
	if err != nil {
		return translate(err, "list schedules for settlement")
	}

	var collected int64
	for _, schedule := range schedules {
		for _, obligation := range schedule.Obligations {
			if obligation.Status == models.ObligationPaid {
				collected += obligation.Amount
			}
		}
	}
	group.TotalCollected += collected
	group.CompletedCycles++
	group.RecalculateTrust()
	if err := s.groups.Update(ctx, group); err != nil {
		return translate(err, "settle group counters")
	}
	return nil
}

// MarkDeparture deactivates a membership mid-cycle. Remaining unpaid
// obligations are moved to defaulted, never removed: the recipient
// permutation stays intact for audit.
func (s *Service) MarkDeparture(ctx context.Context, cycleID id.CycleID, membershipID id.MembershipID, now time.Time) error {
	cycle, err := s.cycles.FindByID(ctx, cycleID)
	if err != nil {
		return translate(err, "load cycle")
	}
	membership, err := s.memberships.FindByID(ctx, membershipID)
	if err != nil {
		return translate(err, "load membership")
	}
	if membership.GroupID != cycle.GroupID {
		return dErrors.New(dErrors.CodeInvariantViolation, "membership belongs to a different group")
	}

	if membership.Active {
		membership.Active = false
		membership.LeftAt = &now
		if err := s.memberships.Update(ctx, membership); err != nil {
			return translate(err, "deactivate membership")
		}

		group, err := s.groups.FindByID(ctx, cycle.GroupID)
		if err != nil {
			return translate(err, "load group")
		}
		group.MemberCount--
		group.RecalculateTrust()
		if err := s.groups.Update(ctx, group); err != nil {
			return translate(err, "update group counters")
		}
	}

	schedules, err := s.cycles.ListSchedules(ctx, cycleID)
	if err != nil {
		return translate(err, "list schedules")
	}
	for _, schedule := range schedules {
		if schedule.Round < cycle.CurrentRound {
			continue
		}
		obligation := schedule.ObligationFor(membershipID)
		if obligation == nil || obligation.Status == models.ObligationPaid || obligation.Status == models.ObligationDefaulted {
			continue
		}
		obligation.Status = models.ObligationDefaulted
		if err := s.cycles.UpdateSchedule(ctx, schedule); err != nil {
			return translate(err, "default remaining obligations")
		}
	}
	return nil
}

// TransitionGroup applies a status change through the transition table.
// active -> closed additionally requires that no cycle is still running.
func (s *Service) TransitionGroup(ctx context.Context, groupID id.GroupID, next models.GroupStatus) (*models.Group, error) {
	if !next.IsValid() {
		return nil, dErrors.Newf(dErrors.CodeValidation, "unknown status %q", next)
	}
	group, err := s.groups.FindByID(ctx, groupID)
	if err != nil {
		return nil, translate(err, "load group")
	}
	if !group.Status.CanTransition(next) {
		return nil, dErrors.Newf(dErrors.CodeInvariantViolation,
			"illegal transition %s -> %s", group.Status, next)
	}
	if group.Status == models.GroupActive && next == models.GroupClosed {
		if _, err := s.cycles.FindActiveByGroup(ctx, groupID); err == nil {
			return nil, dErrors.New(dErrors.CodeInvariantViolation, "group has a running cycle")
		} else if !errors.Is(err, sentinel.ErrNotFound) {
			return nil, translate(err, "check running cycle")
		}
	}
	group.Status = next
	if err := s.groups.Update(ctx, group); err != nil {
		return nil, translate(err, "transition group")
	}
	return group, nil
}

// GetGroup loads one group.
func (s *Service) GetGroup(ctx context.Context, groupID id.GroupID) (*models.Group, error) {
	group, err := s.groups.FindByID(ctx, groupID)
	if err != nil {
		return nil, translate(err, "load group")
	}
	return group, nil
}

// ListOpenGroups returns groups currently accepting members, the candidate
// pool for matching.
func (s *Service) ListOpenGroups(ctx context.Context) ([]*models.Group, error) {
	groups, err := s.groups.ListOpen(ctx)
	if err != nil {
		return nil, translate(err, "list open groups")
	}
	return groups, nil
}

// RecordPublicWarning increments the group's coordinator-attributable
// warning counter.
func (s *Service) RecordPublicWarning(ctx context.Context, groupID id.GroupID) error {
	group, err := s.groups.FindByID(ctx, groupID)
	if err != nil {
		return translate(err, "load group")
	}
	group.PublicWarnings++
	group.RecalculateTrust()
	return translate0(s.groups.Update(ctx, group), "record public warning")
}

// RecordFailedPayment increments the group's coordinator-attributable
// failed-payment counter, fed by the payment reconciliation job.
func (s *Service) RecordFailedPayment(ctx context.Context, groupID id.GroupID) error {
	group, err := s.groups.FindByID(ctx, groupID)
	if err != nil {
		return translate(err, "load group")
	}
	group.FailedPayments++
	group.RecalculateTrust()
	return translate0(s.groups.Update(ctx, group), "record failed payment")
}

func (s *Service) loadRound(ctx context.Context, cycleID id.CycleID, round int) (*models.TandaCycle, *models.PaymentSchedule, error) {
	cycle, err := s.cycles.FindByID(ctx, cycleID)
	if err != nil {
		return nil, nil, translate(err, "load cycle")
	}
	if cycle.Status != models.CycleActive {
		return nil, nil, dErrors.Newf(dErrors.CodeInvariantViolation, "cycle is %s, not active", cycle.Status)
	}
	if round != cycle.CurrentRound {
		return nil, nil, dErrors.Newf(dErrors.CodeInvariantViolation,
			"payment targets round %d but current round is %d", round, cycle.CurrentRound)
	}
	schedule, err := s.cycles.FindSchedule(ctx, cycleID, round)
	if err != nil {
		return nil, nil, translate(err, "load schedule")
	}
	return cycle, schedule, nil
}

func translate(err error, msg string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Wrap(err, dErrors.CodeNotFound, msg)
	case errors.Is(err, sentinel.ErrVersionConflict), errors.Is(err, sentinel.ErrConflict):
		return dErrors.Wrap(err, dErrors.CodeConflict, msg)
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, msg)
	}
}

func translate0(err error, msg string) error {
	if err == nil {
		return nil
	}
	return translate(err, msg)
}
