// Package domain defines typed identifiers shared across modules.
//
// Each identifier is a distinct UUID-backed type so the compiler rejects
// cross-entity mixups (passing a MemberID where a GroupID is expected).
package domain

import (
	"github.com/google/uuid"

	dErrors "ronda/pkg/domain-errors"
)

type (
	// MemberID identifies a platform member.
	MemberID uuid.UUID
	// GroupID identifies a tanda group.
	GroupID uuid.UUID
	// MembershipID identifies a (group, member) membership record.
	MembershipID uuid.UUID
	// CycleID identifies one rotation cycle of a group.
	CycleID uuid.UUID
)

// NewMemberID returns a fresh random MemberID.
func NewMemberID() MemberID { return MemberID(uuid.New()) }

// NewGroupID returns a fresh random GroupID.
func NewGroupID() GroupID { return GroupID(uuid.New()) }

// NewMembershipID returns a fresh random MembershipID.
func NewMembershipID() MembershipID { return MembershipID(uuid.New()) }

// NewCycleID returns a fresh random CycleID.
func NewCycleID() CycleID { return CycleID(uuid.New()) }

func (id MemberID) String() string     { return uuid.UUID(id).String() }
func (id GroupID) String() string      { return uuid.UUID(id).String() }
func (id MembershipID) String() string { return uuid.UUID(id).String() }
func (id CycleID) String() string      { return uuid.UUID(id).String() }

func (id MemberID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id GroupID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id MembershipID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id CycleID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }

// parseUUID enforces the shared invariant: ids must be valid, non-empty,
// non-nil UUIDs. Violations are invalid input, not internal errors.
func parseUUID(raw, kind string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" id is required")
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "malformed "+kind+" id")
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" id must not be the nil uuid")
	}
	return parsed, nil
}

// ParseMemberID parses and validates a member id from its string form.
func ParseMemberID(raw string) (MemberID, error) {
	parsed, err := parseUUID(raw, "member")
	return MemberID(parsed), err
}

// ParseGroupID parses and validates a group id from its string form.
func ParseGroupID(raw string) (GroupID, error) {
	parsed, err := parseUUID(raw, "group")
	return GroupID(parsed), err
}

// ParseMembershipID parses and validates a membership id from its string form.
func ParseMembershipID(raw string) (MembershipID, error) {
	parsed, err := parseUUID(raw, "membership")
	return MembershipID(parsed), err
}

// ParseCycleID parses and validates a cycle id from its string form.
func ParseCycleID(raw string) (CycleID, error) {
	parsed, err := parseUUID(raw, "cycle")
	return CycleID(parsed), err
}
