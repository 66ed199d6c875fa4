// Package identity exposes the external Identity/KYC provider to the rest of
// the engine. Member records are owned by the provider; this engine only
// reads snapshots and, through the sanction flow, asks the provider to
// freeze or blacklist an account.
package identity

import (
	"context"
	"time"

	id "ronda/pkg/domain"
)

// AccountStatus is the provider-owned standing of a member account.
type AccountStatus string

const (
	StatusActive      AccountStatus = "active"
	StatusFrozen      AccountStatus = "frozen"
	StatusSuspended   AccountStatus = "suspended"
	StatusBlacklisted AccountStatus = "blacklisted"
	StatusUnderReview AccountStatus = "under_review"
)

// Sanctioned reports whether the status hard-blocks participation.
func (s AccountStatus) Sanctioned() bool {
	return s == StatusFrozen || s == StatusBlacklisted
}

// MemberSnapshot is a point-in-time read of a member's KYC state.
type MemberSnapshot struct {
	ID                id.MemberID
	AccountStatus     AccountStatus
	VerificationLevel string
	TrustScore        float64 // [0,100]
	RegisteredAt      time.Time
	PhoneVerified     bool
	EmailVerified     bool
	HasProfilePhoto   bool
	GroupsLeft        int
}

// RegistrationAge returns how long the member has been registered as of now.
func (m *MemberSnapshot) RegistrationAge(now time.Time) time.Duration {
	return now.Sub(m.RegisteredAt)
}

// Verified reports whether the member has completed identity verification.
func (m *MemberSnapshot) Verified() bool {
	return m.VerificationLevel != "" && m.VerificationLevel != "none"
}

// Provider is the read-side port to the Identity/KYC system.
type Provider interface {
	// GetMemberStatus loads a fresh member snapshot. A missing member is an
	// error: callers must not treat absence as a safe default.
	GetMemberStatus(ctx context.Context, memberID id.MemberID) (*MemberSnapshot, error)
}

// Sanctioner is the write-side port used only by the sanction flow.
type Sanctioner interface {
	// Sanction moves the member to the given status. The caller is
	// responsible for writing the audit record atomically with this call.
	Sanction(ctx context.Context, memberID id.MemberID, status AccountStatus, reason string) error
}
