package risk

import (
	"fmt"
	"time"

	"ronda/internal/identity"
	"ronda/internal/registry/models"
)

// Config carries the tunable thresholds of the evaluator. Zero values are
// replaced by defaults so a partially configured evaluator stays strict.
type Config struct {
	// HighContribution is the smallest contribution amount flagged as high.
	HighContribution int64
	// LargeGroupSize is the member count above which a group is flagged.
	LargeGroupSize int
	// NewCoordinatorAge flags coordinators registered for less than this.
	NewCoordinatorAge time.Duration
	// NewMemberAge flags candidates registered for less than this.
	NewMemberAge time.Duration
	// MaxFailedPayments flags coordinators with more failed payments.
	MaxFailedPayments int
	// MaxPublicWarnings flags coordinators with more public warnings.
	MaxPublicWarnings int
	// MaxGroupsLeft flags candidates who abandoned more prior groups.
	MaxGroupsLeft int
}

// DefaultConfig mirrors the platform's production thresholds.
func DefaultConfig() Config {
	return Config{
		HighContribution:  500000,
		LargeGroupSize:    20,
		NewCoordinatorAge: 30 * 24 * time.Hour,
		NewMemberAge:      7 * 24 * time.Hour,
		MaxFailedPayments: 2,
		MaxPublicWarnings: 5,
		MaxGroupsLeft:     3,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.HighContribution <= 0 {
		c.HighContribution = defaults.HighContribution
	}
	if c.LargeGroupSize <= 0 {
		c.LargeGroupSize = defaults.LargeGroupSize
	}
	if c.NewCoordinatorAge <= 0 {
		c.NewCoordinatorAge = defaults.NewCoordinatorAge
	}
	if c.NewMemberAge <= 0 {
		c.NewMemberAge = defaults.NewMemberAge
	}
	if c.MaxFailedPayments <= 0 {
		c.MaxFailedPayments = defaults.MaxFailedPayments
	}
	if c.MaxPublicWarnings <= 0 {
		c.MaxPublicWarnings = defaults.MaxPublicWarnings
	}
	if c.MaxGroupsLeft <= 0 {
		c.MaxGroupsLeft = defaults.MaxGroupsLeft
	}
	return c
}

// JoinInput is the materialized snapshot set for a join evaluation.
type JoinInput struct {
	Member      *identity.MemberSnapshot
	Coordinator *identity.MemberSnapshot
	Group       *models.Group
	Now         time.Time
}

// AcceptInput is the materialized snapshot set for a coordinator evaluating
// a candidate.
type AcceptInput struct {
	Candidate   *identity.MemberSnapshot
	Coordinator *identity.MemberSnapshot
	Group       *models.Group
	Now         time.Time
}

// EvaluateJoin scores a prospective join. Pure and deterministic given its
// snapshots. Findings keep rule order; a blocking finding comes first but
// every rule still runs so the member sees the full picture.
func EvaluateJoin(cfg Config, input JoinInput) *Assessment {
	cfg = cfg.withDefaults()
	findings := coordinatorFindings(cfg, input.Coordinator, input.Group, input.Now)
	return buildAssessment(findings)
}

// EvaluateAcceptance scores a coordinator accepting a candidate. The
// coordinator's own standing is evaluated first: a sanctioned coordinator
// must not be able to accept anyone, whatever the candidate looks like.
func EvaluateAcceptance(cfg Config, input AcceptInput) *Assessment {
	cfg = cfg.withDefaults()
	findings := coordinatorStanding(input.Coordinator)
	findings = append(findings, candidateFindings(cfg, input.Candidate, input.Now)...)
	return buildAssessment(findings)
}

// coordinatorStanding checks the hard gate: frozen or blacklisted
// coordinators block outright.
func coordinatorStanding(coordinator *identity.MemberSnapshot) []Finding {
	switch coordinator.AccountStatus {
	case identity.StatusFrozen:
		return []Finding{{
			Type:     FindingCoordinatorSanctioned,
			Level:    LevelFrozen,
			Blocking: true,
			Message:  "the group coordinator's account is frozen",
		}}
	case identity.StatusBlacklisted:
		return []Finding{{
			Type:     FindingCoordinatorSanctioned,
			Level:    LevelBlacklisted,
			Blocking: true,
			Message:  "the group coordinator's account is blacklisted",
		}}
	}
	return nil
}

func coordinatorFindings(cfg Config, coordinator *identity.MemberSnapshot, group *models.Group, now time.Time) []Finding {
	findings := coordinatorStanding(coordinator)

	if group.FailedPayments > cfg.MaxFailedPayments {
		findings = append(findings, Finding{
			Type:    FindingCoordinatorFailedPayments,
			Level:   LevelHigh,
			Message: fmt.Sprintf("the coordinator has %d failed payments on record", group.FailedPayments),
		})
	}
	if group.PublicWarnings > cfg.MaxPublicWarnings {
		findings = append(findings, Finding{
			Type:    FindingCoordinatorWarnings,
			Level:   LevelHigh,
			Message: fmt.Sprintf("this group has received %d public warnings", group.PublicWarnings),
		})
	}
	if coordinator.RegistrationAge(now) < cfg.NewCoordinatorAge {
		findings = append(findings, Finding{
			Type:    FindingNewCoordinator,
			Level:   LevelMedium,
			Message: "the coordinator registered less than 30 days ago",
		})
	}
	if group.Contribution > cfg.HighContribution {
		findings = append(findings, Finding{
			Type:    FindingHighContribution,
			Level:   LevelHigh,
			Message: "the contribution amount is unusually high",
		})
	}
	if group.MemberCount > cfg.LargeGroupSize {
		findings = append(findings, Finding{
			Type:    FindingLargeGroup,
			Level:   LevelMedium,
			Message: fmt.Sprintf("the group already has %d members", group.MemberCount),
		})
	}
	if group.VerifiedMembers == 0 {
		findings = append(findings, Finding{
			Type:    FindingNoVerifiedMembers,
			Level:   LevelHigh,
			Message: "no member of this group has completed identity verification",
		})
	}
	return findings
}

func candidateFindings(cfg Config, candidate *identity.MemberSnapshot, now time.Time) []Finding {
	var findings []Finding
	if candidate.RegistrationAge(now) < cfg.NewMemberAge {
		findings = append(findings, Finding{
			Type:    FindingNewMember,
			Level:   LevelHigh,
			Message: "the candidate registered less than 7 days ago",
		})
	}
	if !candidate.PhoneVerified || !candidate.EmailVerified {
		findings = append(findings, Finding{
			Type:    FindingUnverifiedContact,
			Level:   LevelMedium,
			Message: "the candidate has not verified phone or email",
		})
	}
	if candidate.GroupsLeft > cfg.MaxGroupsLeft {
		findings = append(findings, Finding{
			Type:    FindingSerialLeaver,
			Level:   LevelMedium,
			Message: fmt.Sprintf("the candidate has left %d prior groups", candidate.GroupsLeft),
		})
	}
	if !candidate.HasProfilePhoto {
		findings = append(findings, Finding{
			Type:    FindingNoProfilePhoto,
			Level:   LevelLow,
			Message: "the candidate has no profile photo",
		})
	}
	return findings
}
