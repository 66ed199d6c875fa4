package http

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"ronda/internal/identity"
	"ronda/internal/match"
	"ronda/internal/registry/models"
	id "ronda/pkg/domain"
	dErrors "ronda/pkg/domain-errors"
)

// CreateGroupRequest is the body for POST /groups. The acting member
// becomes the coordinator.
type CreateGroupRequest struct {
	Name                string `json:"name"`
	Type                string `json:"type"`
	Contribution        int64  `json:"contribution"`
	Frequency           string `json:"frequency"`
	MinMembers          int    `json:"min_members"`
	MaxMembers          int    `json:"max_members"`
	Privacy             string `json:"privacy"`
	Location            string `json:"location"`
	CoordinatorVerified bool   `json:"coordinator_verified"`
}

func (r *CreateGroupRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if !models.Frequency(r.Frequency).IsValid() {
		return dErrors.Newf(dErrors.CodeValidation, "unknown frequency %q", r.Frequency)
	}
	if r.Privacy != "" && !models.Privacy(r.Privacy).IsValid() {
		return dErrors.Newf(dErrors.CodeValidation, "unknown privacy %q", r.Privacy)
	}
	return nil
}

// JoinGroupRequest is the body for POST /groups/{groupID}/join. The acting
// member is the joiner.
type JoinGroupRequest struct {
	Acknowledgments []string `json:"acknowledgments"`
	Verified        bool     `json:"verified"`
}

// AcceptMemberRequest is the body for POST /groups/{groupID}/accept. The
// acting member must be the coordinator.
type AcceptMemberRequest struct {
	CandidateID     string   `json:"candidate_id"`
	Acknowledgments []string `json:"acknowledgments"`
	Verified        bool     `json:"verified"`

	parsedCandidate id.MemberID
}

func (r *AcceptMemberRequest) Validate() error {
	candidate, err := id.ParseMemberID(r.CandidateID)
	if err != nil {
		return err
	}
	r.parsedCandidate = candidate
	return nil
}

// TransitionRequest is the body for POST /groups/{groupID}/status.
type TransitionRequest struct {
	Status string `json:"status"`
}

func (r *TransitionRequest) Validate() error {
	if !models.GroupStatus(r.Status).IsValid() {
		return dErrors.Newf(dErrors.CodeValidation, "unknown status %q", r.Status)
	}
	return nil
}

// RecordPaymentRequest is the body for POST .../payments.
type RecordPaymentRequest struct {
	Round        int    `json:"round"`
	MembershipID string `json:"membership_id"`

	parsedMembership id.MembershipID
}

func (r *RecordPaymentRequest) Validate() error {
	if r.Round < 1 {
		return dErrors.New(dErrors.CodeValidation, "round must be >= 1")
	}
	membership, err := id.ParseMembershipID(r.MembershipID)
	if err != nil {
		return err
	}
	r.parsedMembership = membership
	return nil
}

// ConfirmPaymentRequest is the body for POST .../payments/confirm.
type ConfirmPaymentRequest struct {
	Round         int    `json:"round"`
	MembershipID  string `json:"membership_id"`
	TransactionID string `json:"transaction_id"`

	parsedMembership id.MembershipID
}

func (r *ConfirmPaymentRequest) Validate() error {
	if r.Round < 1 {
		return dErrors.New(dErrors.CodeValidation, "round must be >= 1")
	}
	if r.TransactionID == "" {
		return dErrors.New(dErrors.CodeValidation, "transaction_id is required")
	}
	membership, err := id.ParseMembershipID(r.MembershipID)
	if err != nil {
		return err
	}
	r.parsedMembership = membership
	return nil
}

// LeaveRequest is the body for POST .../leave.
type LeaveRequest struct {
	MembershipID string `json:"membership_id"`

	parsedMembership id.MembershipID
}

func (r *LeaveRequest) Validate() error {
	membership, err := id.ParseMembershipID(r.MembershipID)
	if err != nil {
		return err
	}
	r.parsedMembership = membership
	return nil
}

// SanctionRequest is the body for POST /members/{memberID}/sanction.
type SanctionRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

func (r *SanctionRequest) Validate() error {
	switch identity.AccountStatus(r.Status) {
	case identity.StatusActive, identity.StatusFrozen, identity.StatusSuspended,
		identity.StatusBlacklisted, identity.StatusUnderReview:
	default:
		return dErrors.Newf(dErrors.CodeValidation, "unknown status %q", r.Status)
	}
	if strings.TrimSpace(r.Reason) == "" {
		return dErrors.New(dErrors.CodeValidation, "reason is required")
	}
	return nil
}

// matchPreferences parses GET /matches query parameters.
func matchPreferences(query url.Values) (match.Preferences, error) {
	prefs := match.Preferences{
		Location:  strings.TrimSpace(query.Get("location")),
		GroupType: strings.TrimSpace(query.Get("group_type")),
	}
	var err error
	if prefs.MinContribution, err = parseInt64(query.Get("min_contribution")); err != nil {
		return prefs, dErrors.Wrap(err, dErrors.CodeValidation, "malformed min_contribution")
	}
	if prefs.MaxContribution, err = parseInt64(query.Get("max_contribution")); err != nil {
		return prefs, dErrors.Wrap(err, dErrors.CodeValidation, "malformed max_contribution")
	}
	tenureDays, err := parseInt64(query.Get("tenure_days"))
	if err != nil {
		return prefs, dErrors.Wrap(err, dErrors.CodeValidation, "malformed tenure_days")
	}
	prefs.MemberTenure = time.Duration(tenureDays) * 24 * time.Hour
	return prefs, nil
}

func parseInt64(raw string) (int64, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}
