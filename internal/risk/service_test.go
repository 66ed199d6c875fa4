package risk

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ronda/internal/identity"
	groupstore "ronda/internal/registry/store/group"
	id "ronda/pkg/domain"
	dErrors "ronda/pkg/domain-errors"
	"ronda/pkg/requestcontext"
)

func TestService_AssessJoin(t *testing.T) {
	ctx := requestcontext.WithTime(context.Background(), evalTime)

	coordinator := healthyCoordinator()
	member := healthyMember()

	provider := identity.NewStatic()
	provider.Seed(coordinator)
	provider.Seed(member)

	groups := groupstore.NewInMemory()
	group := smallGroup(coordinator.ID)
	require.NoError(t, groups.Create(ctx, group))

	service := NewService(Config{}, provider, groups)

	t.Run("evaluates against live snapshots", func(t *testing.T) {
		assessment, err := service.AssessJoin(ctx, member.ID, group.ID)
		require.NoError(t, err)
		assert.Empty(t, assessment.Findings)
	})

	t.Run("sees a sanction without restart", func(t *testing.T) {
		require.NoError(t, provider.Sanction(ctx, coordinator.ID, identity.StatusFrozen, "test"))
		defer func() {
			require.NoError(t, provider.Sanction(ctx, coordinator.ID, identity.StatusActive, "test"))
		}()

		assessment, err := service.AssessJoin(ctx, member.ID, group.ID)
		require.NoError(t, err)
		assert.True(t, assessment.Blocking)
	})

	t.Run("missing group snapshot aborts", func(t *testing.T) {
		_, err := service.AssessJoin(ctx, member.ID, id.NewGroupID())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeDataUnavailable))
	})

	t.Run("missing member snapshot aborts", func(t *testing.T) {
		_, err := service.AssessJoin(ctx, id.NewMemberID(), group.ID)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeDataUnavailable))
	})
}

func TestService_AssessAcceptance(t *testing.T) {
	ctx := requestcontext.WithTime(context.Background(), evalTime)

	coordinator := healthyCoordinator()
	candidate := &identity.MemberSnapshot{
		ID:            id.NewMemberID(),
		AccountStatus: identity.StatusActive,
		RegisteredAt:  evalTime.Add(-1 * 24 * time.Hour),
		PhoneVerified: true,
		EmailVerified: true,
	}

	provider := identity.NewStatic()
	provider.Seed(coordinator)
	provider.Seed(candidate)

	groups := groupstore.NewInMemory()
	group := smallGroup(coordinator.ID)
	require.NoError(t, groups.Create(ctx, group))

	service := NewService(Config{}, provider, groups, WithSnapshotTimeout(time.Second))

	assessment, err := service.AssessAcceptance(ctx, candidate.ID, group.ID)
	require.NoError(t, err)

	types := make(map[FindingType]bool)
	for _, finding := range assessment.Findings {
		types[finding.Type] = true
	}
	assert.Contains(t, types, FindingNewMember)
	assert.Contains(t, types, FindingNoProfilePhoto)
	assert.False(t, assessment.Blocking)
}
