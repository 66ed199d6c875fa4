// Package lifecycle is the coordination layer: every state-changing path
// runs risk evaluation, registry mutation, audit, and notification in a
// fixed order under a per-group lock. Handlers never touch the registry or
// the evaluator directly.
package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"ronda/internal/audit"
	"ronda/internal/identity"
	"ronda/internal/lifecycle/ports"
	"ronda/internal/match"
	"ronda/internal/notify"
	"ronda/internal/payments"
	platformmetrics "ronda/internal/platform/metrics"
	"ronda/internal/registry/models"
	registry "ronda/internal/registry/service"
	"ronda/internal/risk"
	id "ronda/pkg/domain"
	dErrors "ronda/pkg/domain-errors"
	"ronda/pkg/requestcontext"
)

// Coordinator sequences lifecycle operations. It owns no state of its own
// beyond the per-group locks.
type Coordinator struct {
	risk       ports.RiskEvaluator
	registry   ports.Registry
	matcher    *match.Matcher
	auditor    ports.AuditPublisher
	notifier   ports.Notifier
	sanctioner ports.Sanctioner
	gateway    ports.Charger
	reconciler ports.Reconciler

	locks   *groupLocks
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics *platformmetrics.Metrics
}

// Option configures the Coordinator.
type Option func(*Coordinator)

// WithLogger sets the coordinator logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) { c.logger = logger }
}

// WithMetrics attaches process-level metrics.
func WithMetrics(m *platformmetrics.Metrics) Option {
	return func(c *Coordinator) { c.metrics = m }
}

// WithSanctioner enables the sanction flow.
func WithSanctioner(s ports.Sanctioner) Option {
	return func(c *Coordinator) { c.sanctioner = s }
}

// WithPayments wires the gateway and its reconciler.
func WithPayments(gateway ports.Charger, reconciler ports.Reconciler) Option {
	return func(c *Coordinator) {
		c.gateway = gateway
		c.reconciler = reconciler
	}
}

func New(evaluator ports.RiskEvaluator, reg ports.Registry, matcher *match.Matcher, auditor ports.AuditPublisher, notifier ports.Notifier, opts ...Option) (*Coordinator, error) {
	if evaluator == nil {
		return nil, fmt.Errorf("risk evaluator is required")
	}
	if reg == nil {
		return nil, fmt.Errorf("registry is required")
	}
	if auditor == nil {
		return nil, fmt.Errorf("audit publisher is required")
	}
	c := &Coordinator{
		risk:     evaluator,
		registry: reg,
		matcher:  matcher,
		auditor:  auditor,
		notifier: notifier,
		locks:    newGroupLocks(),
		tracer:   otel.Tracer("ronda/lifecycle"),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// CreateGroupRequest opens a new group.
type CreateGroupRequest struct {
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
}

func (c *Coordinator) CreateGroup(ctx context.Context, req CreateGroupRequest) (*models.Group, error) {
	ctx, span := c.tracer.Start(ctx, "lifecycle.CreateGroup")
	defer span.End()

	group, _, err := c.registry.CreateGroup(ctx, registry.CreateGroupParams{
		Name:                req.Name,
		Type:                req.Type,
		Contribution:        req.Contribution,
		Frequency:           req.Frequency,
		MinMembers:          req.MinMembers,
		MaxMembers:          req.MaxMembers,
		Privacy:             req.Privacy,
		Location:            req.Location,
		CoordinatorID:       req.CoordinatorID,
		CoordinatorVerified: req.CoordinatorVerified,
		Now:                 requestcontext.Now(ctx),
	})
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("group_id", group.ID.String()))

	if c.metrics != nil {
		c.metrics.GroupsCreated.Inc()
	}
	c.emit(ctx, audit.Event{
		MemberID: req.CoordinatorID,
		GroupID:  group.ID,
		Action:   string(audit.ActionGroupCreated),
		Decision: "created",
	})
	return group, nil
}

// PreviewJoinRisk runs the join evaluation without touching the registry,
// so a member can see warnings before committing.
func (c *Coordinator) PreviewJoinRisk(ctx context.Context, memberID id.MemberID, groupID id.GroupID) (*risk.Assessment, error) {
	ctx, span := c.tracer.Start(ctx, "lifecycle.PreviewJoinRisk")
	defer span.End()
	return c.risk.AssessJoin(ctx, memberID, groupID)
}

// JoinRequest is a member-initiated admission.
type JoinRequest struct {
	GroupID         id.GroupID
	MemberID        id.MemberID
	Acknowledgments []string
	Verified        bool
}

// RequestJoin admits a member: risk gate, acknowledgment check, registry
// write, audit, notification. A blocking assessment aborts before any
// registry mutation.
func (c *Coordinator) RequestJoin(ctx context.Context, req JoinRequest) (*models.Membership, *risk.Assessment, error) {
	ctx, span := c.tracer.Start(ctx, "lifecycle.RequestJoin",
		trace.WithAttributes(attribute.String("group_id", req.GroupID.String())))
	defer span.End()

	unlock := c.locks.lock(req.GroupID)
	defer unlock()

	assessment, err := c.risk.AssessJoin(ctx, req.MemberID, req.GroupID)
	if err != nil {
		return nil, nil, err
	}
	if assessment.Blocking {
		if err := c.auditor.Emit(ctx, blockedEvent(ctx, audit.ActionJoinBlocked, req.MemberID, req.GroupID, assessment)); err != nil {
			return nil, nil, err
		}
		return nil, assessment, dErrors.New(dErrors.CodeRiskBlocked, blockReason(assessment))
	}
	if err := checkAcknowledgments(assessment, req.Acknowledgments); err != nil {
		return nil, assessment, err
	}

	membership, err := c.registry.AddMember(ctx, registry.AddMemberParams{
		GroupID:         req.GroupID,
		MemberID:        req.MemberID,
		Acknowledgments: req.Acknowledgments,
		Verified:        req.Verified,
		Now:             requestcontext.Now(ctx),
	})
	if err != nil {
		return nil, assessment, err
	}

	if err := c.auditor.Emit(ctx, audit.Event{
		MemberID:        req.MemberID,
		GroupID:         req.GroupID,
		Action:          string(audit.ActionMemberJoined),
		Decision:        "admitted",
		RequestID:       requestcontext.RequestID(ctx),
		Acknowledgments: req.Acknowledgments,
	}); err != nil {
		return nil, assessment, err
	}

	c.notify(ctx, notify.Notification{
		MemberID: req.MemberID,
		GroupID:  req.GroupID,
		Kind:     notify.KindJoinApproved,
		Message:  "your request to join was approved",
	})
	return membership, assessment, nil
}

// AcceptRequest is a coordinator-initiated admission of a candidate.
type AcceptRequest struct {
	GroupID         id.GroupID
	CandidateID     id.MemberID
	CoordinatorID   id.MemberID
	Acknowledgments []string
	Verified        bool
}

// AcceptMember mirrors RequestJoin from the coordinator's side: the
// evaluation looks at the candidate, and the coordinator carries the
// acknowledgment burden.
func (c *Coordinator) AcceptMember(ctx context.Context, req AcceptRequest) (*models.Membership, *risk.Assessment, error) {
	ctx, span := c.tracer.Start(ctx, "lifecycle.AcceptMember",
		trace.WithAttributes(attribute.String("group_id", req.GroupID.String())))
	defer span.End()

	unlock := c.locks.lock(req.GroupID)
	defer unlock()

	if err := c.requireCoordinator(ctx, req.GroupID, req.CoordinatorID); err != nil {
		return nil, nil, err
	}

	assessment, err := c.risk.AssessAcceptance(ctx, req.CandidateID, req.GroupID)
	if err != nil {
		return nil, nil, err
	}
	if assessment.Blocking {
		event := blockedEvent(ctx, audit.ActionAcceptBlocked, req.CandidateID, req.GroupID, assessment)
		event.ActorID = req.CoordinatorID.String()
		if err := c.auditor.Emit(ctx, event); err != nil {
			return nil, nil, err
		}
		return nil, assessment, dErrors.New(dErrors.CodeRiskBlocked, blockReason(assessment))
	}
	if err := checkAcknowledgments(assessment, req.Acknowledgments); err != nil {
		return nil, assessment, err
	}

	membership, err := c.registry.AddMember(ctx, registry.AddMemberParams{
		GroupID:         req.GroupID,
		MemberID:        req.CandidateID,
		Acknowledgments: req.Acknowledgments,
		Verified:        req.Verified,
		Now:             requestcontext.Now(ctx),
	})
	if err != nil {
		return nil, assessment, err
	}

	if err := c.auditor.Emit(ctx, audit.Event{
		MemberID:        req.CandidateID,
		GroupID:         req.GroupID,
		Action:          string(audit.ActionMemberAccepted),
		Decision:        "admitted",
		ActorID:         req.CoordinatorID.String(),
		RequestID:       requestcontext.RequestID(ctx),
		Acknowledgments: req.Acknowledgments,
	}); err != nil {
		return nil, assessment, err
	}

	c.notify(ctx, notify.Notification{
		MemberID: req.CandidateID,
		GroupID:  req.GroupID,
		Kind:     notify.KindJoinApproved,
		Message:  "the coordinator accepted you into the group",
	})
	return membership, assessment, nil
}

// StartCycle freezes the roster and begins the rotation. Coordinator-only.
func (c *Coordinator) StartCycle(ctx context.Context, groupID id.GroupID, actorID id.MemberID) (*models.TandaCycle, []*models.PaymentSchedule, error) {
	ctx, span := c.tracer.Start(ctx, "lifecycle.StartCycle",
		trace.WithAttributes(attribute.String("group_id", groupID.String())))
	defer span.End()

	unlock := c.locks.lock(groupID)
	defer unlock()

	if err := c.requireCoordinator(ctx, groupID, actorID); err != nil {
		return nil, nil, err
	}

	cycle, schedules, err := c.registry.StartCycle(ctx, groupID, requestcontext.Now(ctx))
	if err != nil {
		return nil, nil, err
	}

	c.emit(ctx, audit.Event{
		GroupID:  groupID,
		Action:   string(audit.ActionCycleStarted),
		Decision: fmt.Sprintf("rounds=%d", cycle.RoundCount),
		ActorID:  actorID.String(),
	})
	c.notify(ctx, notify.Notification{
		GroupID: groupID,
		Kind:    notify.KindCycleStarted,
		Message: fmt.Sprintf("the cycle has started with %d rounds", cycle.RoundCount),
	})
	return cycle, schedules, nil
}

// PaymentRequest identifies one obligation payment.
type PaymentRequest struct {
	GroupID      id.GroupID
	CycleID      id.CycleID
	Round        int
	MembershipID id.MembershipID
}

// PaymentResult reports how far a payment got.
type PaymentResult struct {
	Schedule *models.PaymentSchedule
	// Confirmed is false when the gateway charge did not complete yet; the
	// obligation stays pending_confirmation and the reconciler retries.
	Confirmed    bool
	RoundSettled bool
}

// RecordPayment runs the two-phase payment: mark pending under the group
// lock, then charge the gateway with the lock released and confirm under a
// fresh acquisition. The pending_confirmation commit is the durable truth,
// so a slow or failed gateway never stalls other operations on the group; a
// failed charge is handed to the reconciler and the obligation stays
// pending_confirmation.
func (c *Coordinator) RecordPayment(ctx context.Context, req PaymentRequest) (*PaymentResult, error) {
	ctx, span := c.tracer.Start(ctx, "lifecycle.RecordPayment",
		trace.WithAttributes(
			attribute.String("group_id", req.GroupID.String()),
			attribute.Int("round", req.Round),
		))
	defer span.End()

	schedule, err := c.recordPending(ctx, req)
	if err != nil {
		return nil, err
	}
	obligation := schedule.ObligationFor(req.MembershipID)
	if obligation.Status == models.ObligationPaid {
		return &PaymentResult{Schedule: schedule, Confirmed: true, RoundSettled: schedule.Settled()}, nil
	}
	if c.gateway == nil {
		return &PaymentResult{Schedule: schedule}, nil
	}

	charge := payments.ChargeRequest{
		CycleID:      req.CycleID,
		Round:        req.Round,
		MembershipID: req.MembershipID,
		Amount:       obligation.Amount,
	}
	result, err := c.gateway.Charge(ctx, charge)
	if err != nil {
		c.logger.WarnContext(ctx, "gateway charge failed, handing to reconciler",
			"cycle_id", req.CycleID,
			"round", req.Round,
			"error", err,
		)
		if c.reconciler != nil {
			c.reconciler.Enqueue(ctx, charge)
		}
		return &PaymentResult{Schedule: schedule}, nil
	}

	return c.ConfirmPayment(ctx, ConfirmRequest{
		GroupID:       req.GroupID,
		CycleID:       req.CycleID,
		Round:         req.Round,
		MembershipID:  req.MembershipID,
		TransactionID: result.TransactionID,
	})
}

// recordPending commits the pending_confirmation state; the group lock is
// held only for this registry write, never across gateway I/O.
func (c *Coordinator) recordPending(ctx context.Context, req PaymentRequest) (*models.PaymentSchedule, error) {
	unlock := c.locks.lock(req.GroupID)
	defer unlock()

	schedule, err := c.registry.RecordPayment(ctx, req.CycleID, req.Round, req.MembershipID)
	if err != nil {
		return nil, err
	}
	if schedule.ObligationFor(req.MembershipID).Status != models.ObligationPaid {
		c.emit(ctx, audit.Event{
			GroupID:  req.GroupID,
			Action:   string(audit.ActionPaymentRecorded),
			Subject:  req.MembershipID.String(),
			Decision: fmt.Sprintf("round=%d", req.Round),
		})
	}
	return schedule, nil
}

// ConfirmRequest finalizes a pending obligation with the gateway's
// transaction reference.
type ConfirmRequest struct {
	GroupID       id.GroupID
	CycleID       id.CycleID
	Round         int
	MembershipID  id.MembershipID
	TransactionID string
}

// ConfirmPayment is the gateway confirmation callback: it settles an
// obligation left pending_confirmation by RecordPayment. Re-confirming a
// paid obligation is a no-op that keeps the original transaction id.
func (c *Coordinator) ConfirmPayment(ctx context.Context, req ConfirmRequest) (*PaymentResult, error) {
	ctx, span := c.tracer.Start(ctx, "lifecycle.ConfirmPayment",
		trace.WithAttributes(
			attribute.String("group_id", req.GroupID.String()),
			attribute.Int("round", req.Round),
		))
	defer span.End()

	unlock := c.locks.lock(req.GroupID)
	defer unlock()

	schedule, settled, err := c.registry.ConfirmPayment(ctx, req.CycleID, req.Round, req.MembershipID, req.TransactionID, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	c.emit(ctx, audit.Event{
		GroupID:  req.GroupID,
		Action:   string(audit.ActionPaymentConfirmed),
		Subject:  req.MembershipID.String(),
		Decision: req.TransactionID,
	})
	return &PaymentResult{Schedule: schedule, Confirmed: true, RoundSettled: settled}, nil
}

// AdvanceRound moves the cycle forward once the current round is settled.
// Coordinator-only.
func (c *Coordinator) AdvanceRound(ctx context.Context, groupID id.GroupID, cycleID id.CycleID, actorID id.MemberID) (*registry.AdvanceOutcome, error) {
	ctx, span := c.tracer.Start(ctx, "lifecycle.AdvanceRound",
		trace.WithAttributes(attribute.String("group_id", groupID.String())))
	defer span.End()

	unlock := c.locks.lock(groupID)
	defer unlock()

	if err := c.requireCoordinator(ctx, groupID, actorID); err != nil {
		return nil, err
	}

	outcome, err := c.registry.AdvanceRound(ctx, cycleID, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}

	if outcome.Completed {
		c.emit(ctx, audit.Event{
			GroupID: groupID,
			Action:  string(audit.ActionCycleCompleted),
			ActorID: actorID.String(),
		})
	} else {
		c.emit(ctx, audit.Event{
			GroupID:  groupID,
			Action:   string(audit.ActionRoundAdvanced),
			Decision: fmt.Sprintf("round=%d", outcome.Cycle.CurrentRound),
			ActorID:  actorID.String(),
		})
	}
	return outcome, nil
}

// LeaveGroup handles a mid-cycle departure: membership deactivated,
// remaining obligations defaulted, trail recorded.
func (c *Coordinator) LeaveGroup(ctx context.Context, groupID id.GroupID, cycleID id.CycleID, membershipID id.MembershipID) error {
	ctx, span := c.tracer.Start(ctx, "lifecycle.LeaveGroup",
		trace.WithAttributes(attribute.String("group_id", groupID.String())))
	defer span.End()

	unlock := c.locks.lock(groupID)
	defer unlock()

	if err := c.registry.MarkDeparture(ctx, cycleID, membershipID, requestcontext.Now(ctx)); err != nil {
		return err
	}
	c.emit(ctx, audit.Event{
		GroupID: groupID,
		Action:  string(audit.ActionMemberDeparted),
		Subject: membershipID.String(),
	})
	return nil
}

// TransitionGroup pauses, resumes, or closes a group. Coordinator-only.
func (c *Coordinator) TransitionGroup(ctx context.Context, groupID id.GroupID, next models.GroupStatus, actorID id.MemberID) (*models.Group, error) {
	ctx, span := c.tracer.Start(ctx, "lifecycle.TransitionGroup",
		trace.WithAttributes(
			attribute.String("group_id", groupID.String()),
			attribute.String("status", string(next)),
		))
	defer span.End()

	unlock := c.locks.lock(groupID)
	defer unlock()

	if err := c.requireCoordinator(ctx, groupID, actorID); err != nil {
		return nil, err
	}

	group, err := c.registry.TransitionGroup(ctx, groupID, next)
	if err != nil {
		return nil, err
	}

	action := map[models.GroupStatus]audit.Action{
		models.GroupPaused: audit.ActionGroupPaused,
		models.GroupActive: audit.ActionGroupResumed,
		models.GroupClosed: audit.ActionGroupClosed,
	}[next]
	c.emit(ctx, audit.Event{
		GroupID: groupID,
		Action:  string(action),
		ActorID: actorID.String(),
	})
	return group, nil
}

// Sanction moves a member's account status and records the compliance
// event. The audit write is fail-closed: a sanction that cannot be recorded
// does not happen.
func (c *Coordinator) Sanction(ctx context.Context, memberID id.MemberID, status identity.AccountStatus, reason string, actorID id.MemberID) error {
	ctx, span := c.tracer.Start(ctx, "lifecycle.Sanction")
	defer span.End()

	if c.sanctioner == nil {
		return dErrors.New(dErrors.CodeInternal, "sanctions are not configured")
	}
	if !status.Sanctioned() && status != identity.StatusActive {
		return dErrors.Newf(dErrors.CodeValidation, "%s is not a sanction status", status)
	}

	if err := c.auditor.Emit(ctx, audit.Event{
		MemberID:  memberID,
		Action:    string(audit.ActionMemberSanctioned),
		Decision:  string(status),
		Reason:    reason,
		ActorID:   actorID.String(),
		RequestID: requestcontext.RequestID(ctx),
	}); err != nil {
		return err
	}
	return c.sanctioner.Sanction(ctx, memberID, status, reason)
}

// FindMatches ranks open groups against the member's preferences.
func (c *Coordinator) FindMatches(ctx context.Context, prefs match.Preferences) ([]match.ScoredGroup, error) {
	ctx, span := c.tracer.Start(ctx, "lifecycle.FindMatches")
	defer span.End()

	if c.matcher == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "matching is not configured")
	}
	candidates, err := c.registry.ListOpenGroups(ctx)
	if err != nil {
		return nil, err
	}
	return c.matcher.FindMatches(prefs, candidates), nil
}

// HandleChargeFailure is installed as the reconciler's failure handler: an
// abandoned charge counts against the group and leaves a security event.
func (c *Coordinator) HandleChargeFailure(groupFor func(ctx context.Context, cycleID id.CycleID) (id.GroupID, error)) payments.FailureHandler {
	return func(ctx context.Context, req payments.ChargeRequest, cause error) {
		groupID, err := groupFor(ctx, req.CycleID)
		if err != nil {
			c.logger.ErrorContext(ctx, "resolve group for failed charge", "cycle_id", req.CycleID, "error", err)
			return
		}
		if err := c.registry.RecordFailedPayment(ctx, groupID); err != nil {
			c.logger.ErrorContext(ctx, "record failed payment", "group_id", groupID, "error", err)
		}
		c.emit(ctx, audit.Event{
			GroupID: groupID,
			Action:  string(audit.ActionPaymentFailed),
			Subject: req.MembershipID.String(),
			Reason:  cause.Error(),
		})
	}
}

func (c *Coordinator) requireCoordinator(ctx context.Context, groupID id.GroupID, actorID id.MemberID) error {
	group, err := c.registry.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if group.CoordinatorID != actorID {
		return dErrors.New(dErrors.CodeBadRequest, "only the group coordinator can perform this action")
	}
	return nil
}

// emit records a non-compliance event; failures are logged, not escalated.
// The publisher derives category from action, so a compliance action routed
// through here would still fail closed via the returned error.
func (c *Coordinator) emit(ctx context.Context, event audit.Event) {
	event.RequestID = requestcontext.RequestID(ctx)
	if err := c.auditor.Emit(ctx, event); err != nil {
		c.logger.ErrorContext(ctx, "emit audit event", "action", event.Action, "error", err)
	}
}

func (c *Coordinator) notify(ctx context.Context, n notify.Notification) {
	if c.notifier != nil {
		c.notifier.Enqueue(ctx, n)
	}
}

func blockedEvent(ctx context.Context, action audit.Action, memberID id.MemberID, groupID id.GroupID, assessment *risk.Assessment) audit.Event {
	return audit.Event{
		MemberID:  memberID,
		GroupID:   groupID,
		Action:    string(action),
		Decision:  "blocked",
		Reason:    blockReason(assessment),
		RequestID: requestcontext.RequestID(ctx),
	}
}

func blockReason(assessment *risk.Assessment) string {
	for _, f := range assessment.Findings {
		if f.Blocking {
			return f.Message
		}
	}
	return "blocked by risk evaluation"
}

// checkAcknowledgments enforces strict correspondence between the warnings
// the assessment raised and the acknowledgments the request carries: no
// missing ones, no stray ones.
func checkAcknowledgments(assessment *risk.Assessment, provided []string) error {
	required := make(map[string]bool, len(assessment.Acknowledgments))
	for _, ack := range assessment.Acknowledgments {
		required[ack] = false
	}
	var stray []string
	for _, ack := range provided {
		if _, ok := required[ack]; !ok {
			stray = append(stray, ack)
			continue
		}
		required[ack] = true
	}
	var missing []string
	for ack, seen := range required {
		if !seen {
			missing = append(missing, ack)
		}
	}
	sort.Strings(missing)
	sort.Strings(stray)
	if len(missing) > 0 {
		return dErrors.Newf(dErrors.CodeValidation, "missing acknowledgments: %v", missing)
	}
	if len(stray) > 0 {
		return dErrors.Newf(dErrors.CodeValidation, "unknown acknowledgments: %v", stray)
	}
	return nil
}
