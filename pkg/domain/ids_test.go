package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "ronda/pkg/domain-errors"
)

// TestParseIDs_Invariants validates the parsing invariant:
// "IDs must be valid, non-empty, non-nil UUIDs".
func TestParseIDs_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseGroupID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseMemberID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseCycleID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		valid := uuid.New()
		id, err := ParseMembershipID(valid.String())
		require.NoError(t, err)
		assert.Equal(t, MembershipID(valid), id)
	})
}

// TestTypeDistinction verifies the compiler enforces type safety between ids.
// If this compiles, the invariant holds; the runtime check is a formality.
func TestTypeDistinction(t *testing.T) {
	memberID := MemberID(uuid.New())
	groupID := GroupID(uuid.New())

	// These would fail to compile if types were interchangeable:
	// var _ MemberID = groupID   // compile error
	// var _ GroupID = memberID   // compile error

	assert.NotEqual(t, uuid.UUID(memberID), uuid.UUID(groupID))
}
