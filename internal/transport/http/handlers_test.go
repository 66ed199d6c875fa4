package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"ronda/internal/lifecycle"
	"ronda/internal/match"
	"ronda/internal/registry/models"
	"ronda/internal/risk"
	"ronda/internal/transport/http/mocks"
	id "ronda/pkg/domain"
	dErrors "ronda/pkg/domain-errors"
)

//go:generate mockgen -source=handlers.go -destination=mocks/service-mocks.go -package=mocks Service

type HandlerSuite struct {
	suite.Suite

	ctrl    *gomock.Controller
	service *mocks.MockService
	router  chi.Router

	actorID id.MemberID
	groupID id.GroupID
	cycleID id.CycleID
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = mocks.NewMockService(s.ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.router = NewRouter(s.service, logger)

	s.actorID = id.NewMemberID()
	s.groupID = id.NewGroupID()
	s.cycleID = id.NewCycleID()
}

func (s *HandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

// do issues a request through the full router so the request id and actor
// middleware run.
func (s *HandlerSuite) do(method, path string, body any, actor string) *httptest.ResponseRecorder {
	s.T().Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.T(), err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if actor != "" {
		req.Header.Set("X-Member-ID", actor)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlerSuite) decode(w *httptest.ResponseRecorder) map[string]any {
	s.T().Helper()
	var resp map[string]any
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func (s *HandlerSuite) sampleGroup() *models.Group {
	return &models.Group{
		ID:            s.groupID,
		Name:          "Cundina Familiar",
		Contribution:  1000,
		Frequency:     models.FrequencyWeekly,
		MinMembers:    3,
		MaxMembers:    5,
		Privacy:       models.PrivacyPublic,
		CoordinatorID: s.actorID,
		Status:        models.GroupRecruiting,
		MemberCount:   1,
		CreatedAt:     time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}
}

func (s *HandlerSuite) TestCreateGroup() {
	s.service.EXPECT().
		CreateGroup(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, req lifecycle.CreateGroupRequest) (*models.Group, error) {
			assert.Equal(s.T(), "Cundina Familiar", req.Name)
			assert.Equal(s.T(), s.actorID, req.CoordinatorID)
			assert.Equal(s.T(), models.FrequencyWeekly, req.Frequency)
			return s.sampleGroup(), nil
		})

	w := s.do(http.MethodPost, "/groups", map[string]any{
		"name":         "Cundina Familiar",
		"contribution": 1000,
		"frequency":    "weekly",
		"min_members":  3,
		"max_members":  5,
		"privacy":      "public",
	}, s.actorID.String())

	require.Equal(s.T(), http.StatusCreated, w.Code)
	resp := s.decode(w)
	assert.Equal(s.T(), s.groupID.String(), resp["id"])
	assert.Equal(s.T(), "recruiting", resp["status"])
	assert.NotEmpty(s.T(), w.Header().Get("X-Request-ID"))
}

func (s *HandlerSuite) TestCreateGroupRequiresActor() {
	w := s.do(http.MethodPost, "/groups", map[string]any{
		"name":         "Cundina Familiar",
		"contribution": 1000,
		"frequency":    "weekly",
		"min_members":  3,
		"max_members":  5,
	}, "")

	require.Equal(s.T(), http.StatusBadRequest, w.Code)
	assert.Equal(s.T(), "bad_request", s.decode(w)["error"])
}

func (s *HandlerSuite) TestCreateGroupRejectsUnknownFrequency() {
	w := s.do(http.MethodPost, "/groups", map[string]any{
		"name":         "Cundina Familiar",
		"contribution": 1000,
		"frequency":    "hourly",
		"min_members":  3,
		"max_members":  5,
	}, s.actorID.String())

	require.Equal(s.T(), http.StatusBadRequest, w.Code)
	assert.Equal(s.T(), "invalid_request", s.decode(w)["error"])
}

func (s *HandlerSuite) TestJoinReturnsMembershipAndAssessment() {
	membership := &models.Membership{
		ID:       id.NewMembershipID(),
		GroupID:  s.groupID,
		MemberID: s.actorID,
		Role:     models.RoleMember,
		Active:   true,
	}
	assessment := &risk.Assessment{
		Level:       risk.LevelMedium,
		ShowWarning: true,
		Findings: []risk.Finding{{
			Type:    risk.FindingNewCoordinator,
			Level:   risk.LevelMedium,
			Message: "the coordinator has not completed a cycle yet",
		}},
		Acknowledgments: []string{risk.AckID(risk.FindingNewCoordinator), risk.AckGeneral},
	}
	s.service.EXPECT().
		RequestJoin(gomock.Any(), lifecycle.JoinRequest{
			GroupID:         s.groupID,
			MemberID:        s.actorID,
			Acknowledgments: []string{risk.AckID(risk.FindingNewCoordinator), risk.AckGeneral},
			Verified:        true,
		}).
		Return(membership, assessment, nil)

	w := s.do(http.MethodPost, "/groups/"+s.groupID.String()+"/join", map[string]any{
		"acknowledgments": []string{risk.AckID(risk.FindingNewCoordinator), risk.AckGeneral},
		"verified":        true,
	}, s.actorID.String())

	require.Equal(s.T(), http.StatusCreated, w.Code)
	resp := s.decode(w)
	got := resp["membership"].(map[string]any)
	assert.Equal(s.T(), membership.ID.String(), got["id"])
	gotAssessment := resp["assessment"].(map[string]any)
	assert.Equal(s.T(), "medium", gotAssessment["level"])
	assert.Equal(s.T(), true, gotAssessment["show_warning"])
}

func (s *HandlerSuite) TestJoinBlockedRendersForbidden() {
	s.service.EXPECT().
		RequestJoin(gomock.Any(), gomock.Any()).
		Return(nil, nil, dErrors.New(dErrors.CodeRiskBlocked, "the coordinator's account is frozen"))

	w := s.do(http.MethodPost, "/groups/"+s.groupID.String()+"/join", map[string]any{}, s.actorID.String())

	require.Equal(s.T(), http.StatusForbidden, w.Code)
	resp := s.decode(w)
	assert.Equal(s.T(), "risk_blocked", resp["error"])
	assert.Equal(s.T(), "the coordinator's account is frozen", resp["error_description"])
}

func (s *HandlerSuite) TestJoinRejectsMalformedGroupID() {
	w := s.do(http.MethodPost, "/groups/not-a-uuid/join", map[string]any{}, s.actorID.String())
	require.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *HandlerSuite) TestRiskPreview() {
	s.service.EXPECT().
		PreviewJoinRisk(gomock.Any(), s.actorID, s.groupID).
		Return(&risk.Assessment{Level: risk.LevelLow}, nil)

	w := s.do(http.MethodGet, "/groups/"+s.groupID.String()+"/risk-preview", nil, s.actorID.String())

	require.Equal(s.T(), http.StatusOK, w.Code)
	assert.Equal(s.T(), "low", s.decode(w)["level"])
}

func (s *HandlerSuite) TestAcceptMember() {
	candidate := id.NewMemberID()
	membership := &models.Membership{
		ID:       id.NewMembershipID(),
		GroupID:  s.groupID,
		MemberID: candidate,
		Role:     models.RoleMember,
		Active:   true,
	}
	s.service.EXPECT().
		AcceptMember(gomock.Any(), lifecycle.AcceptRequest{
			GroupID:       s.groupID,
			CandidateID:   candidate,
			CoordinatorID: s.actorID,
		}).
		Return(membership, &risk.Assessment{Level: risk.LevelLow}, nil)

	w := s.do(http.MethodPost, "/groups/"+s.groupID.String()+"/accept", map[string]any{
		"candidate_id": candidate.String(),
	}, s.actorID.String())

	require.Equal(s.T(), http.StatusCreated, w.Code)
	got := s.decode(w)["membership"].(map[string]any)
	assert.Equal(s.T(), candidate.String(), got["member_id"])
}

func (s *HandlerSuite) TestStartCycle() {
	recipient := id.NewMembershipID()
	cycle := &models.TandaCycle{
		ID:           s.cycleID,
		GroupID:      s.groupID,
		Status:       models.CycleActive,
		RoundCount:   3,
		CurrentRound: 1,
		StartedAt:    time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}
	schedules := []*models.PaymentSchedule{{
		CycleID:     s.cycleID,
		Round:       1,
		RecipientID: recipient,
		DueDate:     cycle.StartedAt.AddDate(0, 0, 7),
		Obligations: []models.Obligation{{
			MembershipID: id.NewMembershipID(),
			Amount:       1000,
			Status:       models.ObligationPending,
		}},
	}}
	s.service.EXPECT().
		StartCycle(gomock.Any(), s.groupID, s.actorID).
		Return(cycle, schedules, nil)

	w := s.do(http.MethodPost, "/groups/"+s.groupID.String()+"/start-cycle", nil, s.actorID.String())

	require.Equal(s.T(), http.StatusCreated, w.Code)
	resp := s.decode(w)
	assert.Equal(s.T(), float64(3), resp["round_count"])
	rounds := resp["schedules"].([]any)
	require.Len(s.T(), rounds, 1)
	assert.Equal(s.T(), recipient.String(), rounds[0].(map[string]any)["recipient_id"])
}

func (s *HandlerSuite) TestRecordPaymentConfirmed() {
	membershipID := id.NewMembershipID()
	paidAt := time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)
	s.service.EXPECT().
		RecordPayment(gomock.Any(), lifecycle.PaymentRequest{
			GroupID:      s.groupID,
			CycleID:      s.cycleID,
			Round:        1,
			MembershipID: membershipID,
		}).
		Return(&lifecycle.PaymentResult{
			Schedule: &models.PaymentSchedule{
				CycleID:     s.cycleID,
				Round:       1,
				RecipientID: id.NewMembershipID(),
				Obligations: []models.Obligation{{
					MembershipID:  membershipID,
					Amount:        1000,
					Status:        models.ObligationPaid,
					PaidAt:        &paidAt,
					TransactionID: "txn-1",
				}},
			},
			Confirmed:    true,
			RoundSettled: true,
		}, nil)

	w := s.do(http.MethodPost, fmt.Sprintf("/groups/%s/cycles/%s/payments", s.groupID, s.cycleID), map[string]any{
		"round":         1,
		"membership_id": membershipID.String(),
	}, s.actorID.String())

	require.Equal(s.T(), http.StatusOK, w.Code)
	resp := s.decode(w)
	assert.Equal(s.T(), true, resp["confirmed"])
	assert.Equal(s.T(), true, resp["round_settled"])
}

func (s *HandlerSuite) TestRecordPaymentPendingReturnsAccepted() {
	membershipID := id.NewMembershipID()
	s.service.EXPECT().
		RecordPayment(gomock.Any(), gomock.Any()).
		Return(&lifecycle.PaymentResult{
			Schedule: &models.PaymentSchedule{
				CycleID:     s.cycleID,
				Round:       1,
				RecipientID: id.NewMembershipID(),
				Obligations: []models.Obligation{{
					MembershipID: membershipID,
					Amount:       1000,
					Status:       models.ObligationPendingConfirmation,
				}},
			},
		}, nil)

	w := s.do(http.MethodPost, fmt.Sprintf("/groups/%s/cycles/%s/payments", s.groupID, s.cycleID), map[string]any{
		"round":         1,
		"membership_id": membershipID.String(),
	}, s.actorID.String())

	require.Equal(s.T(), http.StatusAccepted, w.Code)
	assert.Equal(s.T(), false, s.decode(w)["confirmed"])
}

func (s *HandlerSuite) TestRecordPaymentRejectsZeroRound() {
	w := s.do(http.MethodPost, fmt.Sprintf("/groups/%s/cycles/%s/payments", s.groupID, s.cycleID), map[string]any{
		"round":         0,
		"membership_id": id.NewMembershipID().String(),
	}, s.actorID.String())

	require.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *HandlerSuite) TestConfirmPayment() {
	membershipID := id.NewMembershipID()
	paidAt := time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)
	s.service.EXPECT().
		ConfirmPayment(gomock.Any(), lifecycle.ConfirmRequest{
			GroupID:       s.groupID,
			CycleID:       s.cycleID,
			Round:         2,
			MembershipID:  membershipID,
			TransactionID: "txn-42",
		}).
		Return(&lifecycle.PaymentResult{
			Schedule: &models.PaymentSchedule{
				CycleID:     s.cycleID,
				Round:       2,
				RecipientID: id.NewMembershipID(),
				Obligations: []models.Obligation{{
					MembershipID:  membershipID,
					Amount:        1000,
					Status:        models.ObligationPaid,
					PaidAt:        &paidAt,
					TransactionID: "txn-42",
				}},
			},
			Confirmed: true,
		}, nil)

	w := s.do(http.MethodPost, fmt.Sprintf("/groups/%s/cycles/%s/payments/confirm", s.groupID, s.cycleID), map[string]any{
		"round":          2,
		"membership_id":  membershipID.String(),
		"transaction_id": "txn-42",
	}, s.actorID.String())

	require.Equal(s.T(), http.StatusOK, w.Code)
	resp := s.decode(w)
	assert.Equal(s.T(), true, resp["confirmed"])
}

func (s *HandlerSuite) TestConfirmPaymentRequiresTransactionID() {
	w := s.do(http.MethodPost, fmt.Sprintf("/groups/%s/cycles/%s/payments/confirm", s.groupID, s.cycleID), map[string]any{
		"round":         2,
		"membership_id": id.NewMembershipID().String(),
	}, s.actorID.String())

	require.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *HandlerSuite) TestLeave() {
	membershipID := id.NewMembershipID()
	s.service.EXPECT().
		LeaveGroup(gomock.Any(), s.groupID, s.cycleID, membershipID).
		Return(nil)

	w := s.do(http.MethodPost, fmt.Sprintf("/groups/%s/cycles/%s/leave", s.groupID, s.cycleID), map[string]any{
		"membership_id": membershipID.String(),
	}, s.actorID.String())

	require.Equal(s.T(), http.StatusNoContent, w.Code)
}

func (s *HandlerSuite) TestTransition() {
	paused := s.sampleGroup()
	paused.Status = models.GroupPaused
	s.service.EXPECT().
		TransitionGroup(gomock.Any(), s.groupID, models.GroupPaused, s.actorID).
		Return(paused, nil)

	w := s.do(http.MethodPost, "/groups/"+s.groupID.String()+"/status", map[string]any{
		"status": "paused",
	}, s.actorID.String())

	require.Equal(s.T(), http.StatusOK, w.Code)
	assert.Equal(s.T(), "paused", s.decode(w)["status"])
}

func (s *HandlerSuite) TestSanction() {
	target := id.NewMemberID()
	s.service.EXPECT().
		Sanction(gomock.Any(), target, gomock.Any(), "missed three consecutive payments", s.actorID).
		Return(nil)

	w := s.do(http.MethodPost, "/members/"+target.String()+"/sanction", map[string]any{
		"status": "suspended",
		"reason": "missed three consecutive payments",
	}, s.actorID.String())

	require.Equal(s.T(), http.StatusNoContent, w.Code)
}

func (s *HandlerSuite) TestSanctionRequiresReason() {
	w := s.do(http.MethodPost, "/members/"+id.NewMemberID().String()+"/sanction", map[string]any{
		"status": "suspended",
	}, s.actorID.String())

	require.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *HandlerSuite) TestMatches() {
	s.service.EXPECT().
		FindMatches(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, prefs match.Preferences) ([]match.ScoredGroup, error) {
			assert.Equal(s.T(), "oaxaca", prefs.Location)
			assert.Equal(s.T(), int64(500), prefs.MinContribution)
			return []match.ScoredGroup{{
				Group:   s.sampleGroup(),
				Score:   0.82,
				Reasons: []string{"location match"},
			}}, nil
		})

	w := s.do(http.MethodGet, "/matches?location=oaxaca&min_contribution=500", nil, s.actorID.String())

	require.Equal(s.T(), http.StatusOK, w.Code)
	var resp []map[string]any
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(s.T(), resp, 1)
	assert.Equal(s.T(), 0.82, resp[0]["score"])
}

func (s *HandlerSuite) TestHealthz() {
	w := s.do(http.MethodGet, "/healthz", nil, "")
	require.Equal(s.T(), http.StatusOK, w.Code)
	assert.Equal(s.T(), "ok", w.Body.String())
}
