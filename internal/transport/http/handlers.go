// Package http is the thin HTTP layer over the lifecycle coordinator. It
// decodes, validates, delegates, and renders; business rules live below.
package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ronda/internal/identity"
	"ronda/internal/lifecycle"
	"ronda/internal/match"
	"ronda/internal/registry/models"
	registry "ronda/internal/registry/service"
	"ronda/internal/risk"
	id "ronda/pkg/domain"
	dErrors "ronda/pkg/domain-errors"
	"ronda/pkg/platform/httputil"
	"ronda/pkg/requestcontext"
)

// Service is the lifecycle surface the handlers call.
type Service interface {
	CreateGroup(ctx context.Context, req lifecycle.CreateGroupRequest) (*models.Group, error)
	PreviewJoinRisk(ctx context.Context, memberID id.MemberID, groupID id.GroupID) (*risk.Assessment, error)
	RequestJoin(ctx context.Context, req lifecycle.JoinRequest) (*models.Membership, *risk.Assessment, error)
	AcceptMember(ctx context.Context, req lifecycle.AcceptRequest) (*models.Membership, *risk.Assessment, error)
	StartCycle(ctx context.Context, groupID id.GroupID, actorID id.MemberID) (*models.TandaCycle, []*models.PaymentSchedule, error)
	RecordPayment(ctx context.Context, req lifecycle.PaymentRequest) (*lifecycle.PaymentResult, error)
	ConfirmPayment(ctx context.Context, req lifecycle.ConfirmRequest) (*lifecycle.PaymentResult, error)
	AdvanceRound(ctx context.Context, groupID id.GroupID, cycleID id.CycleID, actorID id.MemberID) (*registry.AdvanceOutcome, error)
	LeaveGroup(ctx context.Context, groupID id.GroupID, cycleID id.CycleID, membershipID id.MembershipID) error
	TransitionGroup(ctx context.Context, groupID id.GroupID, next models.GroupStatus, actorID id.MemberID) (*models.Group, error)
	Sanction(ctx context.Context, memberID id.MemberID, status identity.AccountStatus, reason string, actorID id.MemberID) error
	FindMatches(ctx context.Context, prefs match.Preferences) ([]match.ScoredGroup, error)
}

// Handler wires lifecycle endpoints to the coordinator.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs the handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts all endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/groups", h.handleCreateGroup)
	r.Get("/groups/{groupID}/risk-preview", h.handleRiskPreview)
	r.Post("/groups/{groupID}/join", h.handleJoin)
	r.Post("/groups/{groupID}/accept", h.handleAccept)
	r.Post("/groups/{groupID}/start-cycle", h.handleStartCycle)
	r.Post("/groups/{groupID}/status", h.handleTransition)
	r.Post("/groups/{groupID}/cycles/{cycleID}/payments", h.handleRecordPayment)
	r.Post("/groups/{groupID}/cycles/{cycleID}/payments/confirm", h.handleConfirmPayment)
	r.Post("/groups/{groupID}/cycles/{cycleID}/advance", h.handleAdvance)
	r.Post("/groups/{groupID}/cycles/{cycleID}/leave", h.handleLeave)
	r.Post("/members/{memberID}/sanction", h.handleSanction)
	r.Get("/matches", h.handleMatches)
}

func (h *Handler) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID, ok := h.requireActor(w, ctx)
	if !ok {
		return
	}
	req, ok := httputil.Decode[CreateGroupRequest](w, r, h.logger, ctx)
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	group, err := h.service.CreateGroup(ctx, lifecycle.CreateGroupRequest{
		Name:                req.Name,
		Type:                req.Type,
		Contribution:        req.Contribution,
		Frequency:           models.Frequency(req.Frequency),
		MinMembers:          req.MinMembers,
		MaxMembers:          req.MaxMembers,
		Privacy:             models.Privacy(req.Privacy),
		Location:            req.Location,
		CoordinatorID:       actorID,
		CoordinatorVerified: req.CoordinatorVerified,
	})
	if err != nil {
		h.logError(ctx, "create group", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, fromGroup(group))
}

func (h *Handler) handleRiskPreview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID, ok := h.requireActor(w, ctx)
	if !ok {
		return
	}
	groupID, ok := h.groupID(w, r)
	if !ok {
		return
	}

	assessment, err := h.service.PreviewJoinRisk(ctx, actorID, groupID)
	if err != nil {
		h.logError(ctx, "risk preview", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromAssessment(assessment))
}

func (h *Handler) handleJoin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID, ok := h.requireActor(w, ctx)
	if !ok {
		return
	}
	groupID, ok := h.groupID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[JoinGroupRequest](w, r, h.logger, ctx)
	if !ok {
		return
	}

	membership, assessment, err := h.service.RequestJoin(ctx, lifecycle.JoinRequest{
		GroupID:         groupID,
		MemberID:        actorID,
		Acknowledgments: req.Acknowledgments,
		Verified:        req.Verified,
	})
	if err != nil {
		h.logError(ctx, "join group", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, JoinResponse{
		Membership: fromMembership(membership),
		Assessment: fromAssessment(assessment),
	})
}

func (h *Handler) handleAccept(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID, ok := h.requireActor(w, ctx)
	if !ok {
		return
	}
	groupID, ok := h.groupID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[AcceptMemberRequest](w, r, h.logger, ctx)
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	membership, assessment, err := h.service.AcceptMember(ctx, lifecycle.AcceptRequest{
		GroupID:         groupID,
		CandidateID:     req.parsedCandidate,
		CoordinatorID:   actorID,
		Acknowledgments: req.Acknowledgments,
		Verified:        req.Verified,
	})
	if err != nil {
		h.logError(ctx, "accept member", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, JoinResponse{
		Membership: fromMembership(membership),
		Assessment: fromAssessment(assessment),
	})
}

func (h *Handler) handleStartCycle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID, ok := h.requireActor(w, ctx)
	if !ok {
		return
	}
	groupID, ok := h.groupID(w, r)
	if !ok {
		return
	}

	cycle, schedules, err := h.service.StartCycle(ctx, groupID, actorID)
	if err != nil {
		h.logError(ctx, "start cycle", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, fromCycle(cycle, schedules))
}

func (h *Handler) handleTransition(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID, ok := h.requireActor(w, ctx)
	if !ok {
		return
	}
	groupID, ok := h.groupID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[TransitionRequest](w, r, h.logger, ctx)
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	group, err := h.service.TransitionGroup(ctx, groupID, models.GroupStatus(req.Status), actorID)
	if err != nil {
		h.logError(ctx, "transition group", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromGroup(group))
}

func (h *Handler) handleRecordPayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	groupID, ok := h.groupID(w, r)
	if !ok {
		return
	}
	cycleID, ok := h.cycleID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[RecordPaymentRequest](w, r, h.logger, ctx)
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.RecordPayment(ctx, lifecycle.PaymentRequest{
		GroupID:      groupID,
		CycleID:      cycleID,
		Round:        req.Round,
		MembershipID: req.parsedMembership,
	})
	if err != nil {
		h.logError(ctx, "record payment", err)
		httputil.WriteError(w, err)
		return
	}
	status := http.StatusOK
	if !result.Confirmed {
		// The charge is still in flight; the reconciler finishes it.
		status = http.StatusAccepted
	}
	httputil.WriteJSON(w, status, PaymentResponse{
		Schedule:     fromSchedule(result.Schedule),
		Confirmed:    result.Confirmed,
		RoundSettled: result.RoundSettled,
	})
}

func (h *Handler) handleConfirmPayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	groupID, ok := h.groupID(w, r)
	if !ok {
		return
	}
	cycleID, ok := h.cycleID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[ConfirmPaymentRequest](w, r, h.logger, ctx)
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.ConfirmPayment(ctx, lifecycle.ConfirmRequest{
		GroupID:       groupID,
		CycleID:       cycleID,
		Round:         req.Round,
		MembershipID:  req.parsedMembership,
		TransactionID: req.TransactionID,
	})
	if err != nil {
		h.logError(ctx, "confirm payment", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, PaymentResponse{
		Schedule:     fromSchedule(result.Schedule),
		Confirmed:    result.Confirmed,
		RoundSettled: result.RoundSettled,
	})
}

func (h *Handler) handleAdvance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID, ok := h.requireActor(w, ctx)
	if !ok {
		return
	}
	groupID, ok := h.groupID(w, r)
	if !ok {
		return
	}
	cycleID, ok := h.cycleID(w, r)
	if !ok {
		return
	}

	outcome, err := h.service.AdvanceRound(ctx, groupID, cycleID, actorID)
	if err != nil {
		h.logError(ctx, "advance round", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromCycle(outcome.Cycle, nil))
}

func (h *Handler) handleLeave(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	groupID, ok := h.groupID(w, r)
	if !ok {
		return
	}
	cycleID, ok := h.cycleID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[LeaveRequest](w, r, h.logger, ctx)
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.LeaveGroup(ctx, groupID, cycleID, req.parsedMembership); err != nil {
		h.logError(ctx, "leave group", err)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSanction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID, ok := h.requireActor(w, ctx)
	if !ok {
		return
	}
	memberID, err := id.ParseMemberID(chi.URLParam(r, "memberID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.Decode[SanctionRequest](w, r, h.logger, ctx)
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.Sanction(ctx, memberID, identity.AccountStatus(req.Status), req.Reason, actorID); err != nil {
		h.logError(ctx, "sanction member", err)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleMatches(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	prefs, err := matchPreferences(r.URL.Query())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	matches, err := h.service.FindMatches(ctx, prefs)
	if err != nil {
		h.logError(ctx, "find matches", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromMatches(matches))
}

func (h *Handler) requireActor(w http.ResponseWriter, ctx context.Context) (id.MemberID, bool) {
	actorID := requestcontext.ActorID(ctx)
	if actorID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "X-Member-ID header is required"))
		return id.MemberID{}, false
	}
	return actorID, true
}

func (h *Handler) groupID(w http.ResponseWriter, r *http.Request) (id.GroupID, bool) {
	groupID, err := id.ParseGroupID(chi.URLParam(r, "groupID"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.GroupID{}, false
	}
	return groupID, true
}

func (h *Handler) cycleID(w http.ResponseWriter, r *http.Request) (id.CycleID, bool) {
	cycleID, err := id.ParseCycleID(chi.URLParam(r, "cycleID"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.CycleID{}, false
	}
	return cycleID, true
}

func (h *Handler) logError(ctx context.Context, operation string, err error) {
	h.logger.ErrorContext(ctx, operation+" failed",
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
}
