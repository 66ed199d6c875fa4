package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ronda/internal/identity"
	"ronda/internal/registry/models"
	id "ronda/pkg/domain"
)

var evalTime = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func healthyCoordinator() *identity.MemberSnapshot {
	return &identity.MemberSnapshot{
		ID:            id.NewMemberID(),
		AccountStatus: identity.StatusActive,
		RegisteredAt:  evalTime.Add(-90 * 24 * time.Hour),
		PhoneVerified: true,
		EmailVerified: true,
	}
}

func healthyMember() *identity.MemberSnapshot {
	return &identity.MemberSnapshot{
		ID:              id.NewMemberID(),
		AccountStatus:   identity.StatusActive,
		RegisteredAt:    evalTime.Add(-60 * 24 * time.Hour),
		PhoneVerified:   true,
		EmailVerified:   true,
		HasProfilePhoto: true,
	}
}

func smallGroup(coordinatorID id.MemberID) *models.Group {
	return &models.Group{
		ID:              id.NewGroupID(),
		Name:            "Ahorro Familiar",
		Contribution:    1500,
		Frequency:       models.FrequencyWeekly,
		MinMembers:      3,
		MaxMembers:      10,
		CoordinatorID:   coordinatorID,
		Status:          models.GroupRecruiting,
		MemberCount:     3,
		VerifiedMembers: 2,
	}
}

// TestEvaluateJoin_NewCoordinatorOnly covers the scenario of a capacity-10
// group with 3 members, contribution 1500, coordinator registered 10 days
// ago: exactly one medium finding, warn but do not block.
func TestEvaluateJoin_NewCoordinatorOnly(t *testing.T) {
	coordinator := healthyCoordinator()
	coordinator.RegisteredAt = evalTime.Add(-10 * 24 * time.Hour)
	group := smallGroup(coordinator.ID)

	assessment := EvaluateJoin(Config{}, JoinInput{
		Member:      healthyMember(),
		Coordinator: coordinator,
		Group:       group,
		Now:         evalTime,
	})

	require.Len(t, assessment.Findings, 1)
	assert.Equal(t, FindingNewCoordinator, assessment.Findings[0].Type)
	assert.Equal(t, LevelMedium, assessment.Findings[0].Level)
	assert.Equal(t, LevelMedium, assessment.Level)
	assert.True(t, assessment.ShowWarning)
	assert.False(t, assessment.Blocking)
	assert.Equal(t, []string{AckID(FindingNewCoordinator), AckGeneral}, assessment.Acknowledgments)
}

// TestEvaluateJoin_BlacklistedCoordinatorBlocks covers the hard gate: a
// blacklisted coordinator blocks regardless of any other factor.
func TestEvaluateJoin_BlacklistedCoordinatorBlocks(t *testing.T) {
	statuses := []identity.AccountStatus{identity.StatusFrozen, identity.StatusBlacklisted}
	for _, status := range statuses {
		t.Run(string(status), func(t *testing.T) {
			coordinator := healthyCoordinator()
			coordinator.AccountStatus = status
			group := smallGroup(coordinator.ID)

			assessment := EvaluateJoin(Config{}, JoinInput{
				Member:      healthyMember(),
				Coordinator: coordinator,
				Group:       group,
				Now:         evalTime,
			})

			assert.True(t, assessment.Blocking)
			require.NotEmpty(t, assessment.Findings)
			assert.Equal(t, FindingCoordinatorSanctioned, assessment.Findings[0].Type)
			assert.True(t, assessment.Findings[0].Blocking)
		})
	}
}

// TestEvaluateJoin_BlockingCollectsAllFindings verifies that a blocking
// finding does not short-circuit collection: the member still sees the full
// list.
func TestEvaluateJoin_BlockingCollectsAllFindings(t *testing.T) {
	coordinator := healthyCoordinator()
	coordinator.AccountStatus = identity.StatusBlacklisted
	coordinator.RegisteredAt = evalTime.Add(-5 * 24 * time.Hour)
	group := smallGroup(coordinator.ID)
	group.VerifiedMembers = 0

	assessment := EvaluateJoin(Config{}, JoinInput{
		Member:      healthyMember(),
		Coordinator: coordinator,
		Group:       group,
		Now:         evalTime,
	})

	assert.True(t, assessment.Blocking)
	assert.Equal(t, LevelBlacklisted, assessment.Level)

	types := make(map[FindingType]bool)
	for _, finding := range assessment.Findings {
		types[finding.Type] = true
	}
	assert.True(t, types[FindingCoordinatorSanctioned])
	assert.True(t, types[FindingNewCoordinator])
	assert.True(t, types[FindingNoVerifiedMembers])
}

func TestEvaluateJoin_GroupFactors(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*models.Group)
		want    FindingType
		level   Level
	}{
		{"failed payments", func(g *models.Group) { g.FailedPayments = 3 }, FindingCoordinatorFailedPayments, LevelHigh},
		{"public warnings", func(g *models.Group) { g.PublicWarnings = 6 }, FindingCoordinatorWarnings, LevelHigh},
		{"high contribution", func(g *models.Group) { g.Contribution = 600000 }, FindingHighContribution, LevelHigh},
		{"large group", func(g *models.Group) { g.MemberCount = 21 }, FindingLargeGroup, LevelMedium},
		{"no verified members", func(g *models.Group) { g.VerifiedMembers = 0 }, FindingNoVerifiedMembers, LevelHigh},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			coordinator := healthyCoordinator()
			group := smallGroup(coordinator.ID)
			tc.mutate(group)

			assessment := EvaluateJoin(Config{}, JoinInput{
				Member:      healthyMember(),
				Coordinator: coordinator,
				Group:       group,
				Now:         evalTime,
			})

			require.Len(t, assessment.Findings, 1)
			assert.Equal(t, tc.want, assessment.Findings[0].Type)
			assert.Equal(t, tc.level, assessment.Findings[0].Level)
			assert.False(t, assessment.Blocking)
		})
	}
}

func TestEvaluateJoin_ThresholdsAreExclusive(t *testing.T) {
	coordinator := healthyCoordinator()
	group := smallGroup(coordinator.ID)
	// Exactly at each threshold: no findings.
	group.FailedPayments = 2
	group.PublicWarnings = 5
	group.MemberCount = 20
	group.Contribution = 500000

	assessment := EvaluateJoin(Config{}, JoinInput{
		Member:      healthyMember(),
		Coordinator: coordinator,
		Group:       group,
		Now:         evalTime,
	})
	assert.Empty(t, assessment.Findings)
	assert.False(t, assessment.ShowWarning)
	assert.Empty(t, assessment.Acknowledgments)
}

func TestEvaluateAcceptance_CandidateFactors(t *testing.T) {
	coordinator := healthyCoordinator()
	group := smallGroup(coordinator.ID)

	t.Run("fresh unverified candidate", func(t *testing.T) {
		candidate := &identity.MemberSnapshot{
			ID:            id.NewMemberID(),
			AccountStatus: identity.StatusActive,
			RegisteredAt:  evalTime.Add(-2 * 24 * time.Hour),
			GroupsLeft:    4,
		}

		assessment := EvaluateAcceptance(Config{}, AcceptInput{
			Candidate:   candidate,
			Coordinator: coordinator,
			Group:       group,
			Now:         evalTime,
		})

		require.Len(t, assessment.Findings, 4)
		assert.Equal(t, FindingNewMember, assessment.Findings[0].Type)
		assert.Equal(t, LevelHigh, assessment.Findings[0].Level)
		assert.Equal(t, FindingUnverifiedContact, assessment.Findings[1].Type)
		assert.Equal(t, FindingSerialLeaver, assessment.Findings[2].Type)
		assert.Equal(t, FindingNoProfilePhoto, assessment.Findings[3].Type)
		assert.Equal(t, LevelLow, assessment.Findings[3].Level)
		assert.Equal(t, LevelHigh, assessment.Level)
		assert.False(t, assessment.Blocking)
	})

	t.Run("clean candidate yields no findings", func(t *testing.T) {
		assessment := EvaluateAcceptance(Config{}, AcceptInput{
			Candidate:   healthyMember(),
			Coordinator: coordinator,
			Group:       group,
			Now:         evalTime,
		})
		assert.Empty(t, assessment.Findings)
	})

	t.Run("sanctioned coordinator cannot accept", func(t *testing.T) {
		sanctioned := healthyCoordinator()
		sanctioned.AccountStatus = identity.StatusFrozen

		assessment := EvaluateAcceptance(Config{}, AcceptInput{
			Candidate:   healthyMember(),
			Coordinator: sanctioned,
			Group:       group,
			Now:         evalTime,
		})
		assert.True(t, assessment.Blocking)
		assert.Equal(t, LevelFrozen, assessment.Level)
	})
}

func TestLevelOrdering(t *testing.T) {
	ordered := []Level{LevelLow, LevelMedium, LevelHigh, LevelCritical, LevelFrozen, LevelBlacklisted}
	for i := 1; i < len(ordered); i++ {
		assert.Less(t, ordered[i-1], ordered[i])
	}
}
