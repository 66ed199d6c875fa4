package http

import (
	"time"

	"ronda/internal/match"
	"ronda/internal/registry/models"
	"ronda/internal/risk"
)

// GroupResponse is the wire shape of a group.
type GroupResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Type            string    `json:"type,omitempty"`
	Contribution    int64     `json:"contribution"`
	Frequency       string    `json:"frequency"`
	MinMembers      int       `json:"min_members"`
	MaxMembers      int       `json:"max_members"`
	Privacy         string    `json:"privacy,omitempty"`
	Location        string    `json:"location,omitempty"`
	CoordinatorID   string    `json:"coordinator_id"`
	Status          string    `json:"status"`
	MemberCount     int       `json:"member_count"`
	TrustScore      float64   `json:"trust_score"`
	CompletedCycles int       `json:"completed_cycles"`
	CreatedAt       time.Time `json:"created_at"`
}

func fromGroup(g *models.Group) *GroupResponse {
	return &GroupResponse{
		ID:              g.ID.String(),
		Name:            g.Name,
		Type:            g.Type,
		Contribution:    g.Contribution,
		Frequency:       string(g.Frequency),
		MinMembers:      g.MinMembers,
		MaxMembers:      g.MaxMembers,
		Privacy:         string(g.Privacy),
		Location:        g.Location,
		CoordinatorID:   g.CoordinatorID.String(),
		Status:          string(g.Status),
		MemberCount:     g.MemberCount,
		TrustScore:      g.TrustScore,
		CompletedCycles: g.CompletedCycles,
		CreatedAt:       g.CreatedAt,
	}
}

// MembershipResponse is the wire shape of a membership.
type MembershipResponse struct {
	ID            string `json:"id"`
	GroupID       string `json:"group_id"`
	MemberID      string `json:"member_id"`
	Role          string `json:"role"`
	PayOrder      int    `json:"pay_order,omitempty"`
	OrderAssigned bool   `json:"order_assigned"`
	Active        bool   `json:"active"`
}

func fromMembership(m *models.Membership) *MembershipResponse {
	return &MembershipResponse{
		ID:            m.ID.String(),
		GroupID:       m.GroupID.String(),
		MemberID:      m.MemberID.String(),
		Role:          string(m.Role),
		PayOrder:      m.PayOrder,
		OrderAssigned: m.OrderAssigned,
		Active:        m.Active,
	}
}

// AssessmentResponse is the wire shape of a risk assessment.
type AssessmentResponse struct {
	Level           string            `json:"level"`
	Blocking        bool              `json:"blocking"`
	ShowWarning     bool              `json:"show_warning"`
	Findings        []FindingResponse `json:"findings"`
	Acknowledgments []string          `json:"acknowledgments,omitempty"`
}

// FindingResponse is one risk finding.
type FindingResponse struct {
	Type     string `json:"type"`
	Level    string `json:"level"`
	Blocking bool   `json:"blocking,omitempty"`
	Message  string `json:"message"`
}

func fromAssessment(a *risk.Assessment) *AssessmentResponse {
	resp := &AssessmentResponse{
		Level:           a.Level.String(),
		Blocking:        a.Blocking,
		ShowWarning:     a.ShowWarning,
		Findings:        make([]FindingResponse, 0, len(a.Findings)),
		Acknowledgments: a.Acknowledgments,
	}
	for _, f := range a.Findings {
		resp.Findings = append(resp.Findings, FindingResponse{
			Type:     string(f.Type),
			Level:    f.Level.String(),
			Blocking: f.Blocking,
			Message:  f.Message,
		})
	}
	return resp
}

// JoinResponse pairs the created membership with the assessment shown to
// the member.
type JoinResponse struct {
	Membership *MembershipResponse `json:"membership"`
	Assessment *AssessmentResponse `json:"assessment"`
}

// CycleResponse is the wire shape of a cycle with its schedules.
type CycleResponse struct {
	ID           string             `json:"id"`
	GroupID      string             `json:"group_id"`
	Status       string             `json:"status"`
	RoundCount   int                `json:"round_count"`
	CurrentRound int                `json:"current_round"`
	StartedAt    time.Time          `json:"started_at"`
	CompletedAt  *time.Time         `json:"completed_at,omitempty"`
	Schedules    []ScheduleResponse `json:"schedules,omitempty"`
}

// ScheduleResponse is one round's ledger.
type ScheduleResponse struct {
	Round       int                  `json:"round"`
	RecipientID string               `json:"recipient_id"`
	DueDate     time.Time            `json:"due_date"`
	Obligations []ObligationResponse `json:"obligations"`
}

// ObligationResponse is one payer's duty.
type ObligationResponse struct {
	MembershipID  string     `json:"membership_id"`
	Amount        int64      `json:"amount"`
	Status        string     `json:"status"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	TransactionID string     `json:"transaction_id,omitempty"`
}

func fromCycle(c *models.TandaCycle, schedules []*models.PaymentSchedule) *CycleResponse {
	resp := &CycleResponse{
		ID:           c.ID.String(),
		GroupID:      c.GroupID.String(),
		Status:       string(c.Status),
		RoundCount:   c.RoundCount,
		CurrentRound: c.CurrentRound,
		StartedAt:    c.StartedAt,
		CompletedAt:  c.CompletedAt,
	}
	for _, s := range schedules {
		resp.Schedules = append(resp.Schedules, fromSchedule(s))
	}
	return resp
}

func fromSchedule(s *models.PaymentSchedule) ScheduleResponse {
	resp := ScheduleResponse{
		Round:       s.Round,
		RecipientID: s.RecipientID.String(),
		DueDate:     s.DueDate,
		Obligations: make([]ObligationResponse, 0, len(s.Obligations)),
	}
	for _, o := range s.Obligations {
		resp.Obligations = append(resp.Obligations, ObligationResponse{
			MembershipID:  o.MembershipID.String(),
			Amount:        o.Amount,
			Status:        string(o.Status),
			PaidAt:        o.PaidAt,
			TransactionID: o.TransactionID,
		})
	}
	return resp
}

// PaymentResponse reports how far a payment got.
type PaymentResponse struct {
	Schedule     ScheduleResponse `json:"schedule"`
	Confirmed    bool             `json:"confirmed"`
	RoundSettled bool             `json:"round_settled"`
}

// MatchResponse is one ranked group.
type MatchResponse struct {
	Group   *GroupResponse `json:"group"`
	Score   float64        `json:"score"`
	Reasons []string       `json:"reasons,omitempty"`
}

func fromMatches(matches []match.ScoredGroup) []MatchResponse {
	out := make([]MatchResponse, 0, len(matches))
	for _, m := range matches {
		out = append(out, MatchResponse{
			Group:   fromGroup(m.Group),
			Score:   m.Score,
			Reasons: m.Reasons,
		})
	}
	return out
}
