// Package risk scores join and acceptance actions against a group and
// decides whether to warn or hard-block. The rules are pure functions over
// materialized snapshots; the service layer gathers those snapshots.
package risk

// Level is the severity of a finding, totally ordered so aggregate severity
// is an exhaustive max, not a string comparison.
type Level int

const (
	LevelLow Level = iota
	LevelMedium
	LevelHigh
	LevelCritical
	LevelFrozen
	LevelBlacklisted
)

var levelNames = map[Level]string{
	LevelLow:         "low",
	LevelMedium:      "medium",
	LevelHigh:        "high",
	LevelCritical:    "critical",
	LevelFrozen:      "frozen",
	LevelBlacklisted: "blacklisted",
}

func (l Level) String() string { return levelNames[l] }

// FindingType names the condition a finding reports. It doubles as the stem
// of the acknowledgment id a member must confirm before proceeding.
type FindingType string

const (
	FindingCoordinatorSanctioned     FindingType = "coordinator_sanctioned"
	FindingCoordinatorFailedPayments FindingType = "coordinator_failed_payments"
	FindingCoordinatorWarnings       FindingType = "coordinator_public_warnings"
	FindingNewCoordinator            FindingType = "new_coordinator"
	FindingHighContribution          FindingType = "high_contribution"
	FindingLargeGroup                FindingType = "large_group"
	FindingNoVerifiedMembers         FindingType = "no_verified_members"

	// Acceptance-side findings about the candidate.
	FindingNewMember         FindingType = "new_member"
	FindingUnverifiedContact FindingType = "unverified_contact"
	FindingSerialLeaver      FindingType = "serial_leaver"
	FindingNoProfilePhoto    FindingType = "no_profile_photo"
)

// Finding is one risk condition detected during evaluation.
type Finding struct {
	Type     FindingType
	Level    Level
	Blocking bool
	Message  string
}

// AckGeneral is the acknowledgment every risk-flagged action requires in
// addition to the per-finding ones.
const AckGeneral = "ack:general"

// Assessment is the evaluator's verdict. Findings keep evaluation order so
// a blocking finding is shown first, but all findings are collected for
// display even when one blocks.
type Assessment struct {
	Findings    []Finding
	Level       Level
	Blocking    bool
	ShowWarning bool
	// Acknowledgments lists the ids that must all be confirmed before a
	// warned action commits: one per distinct finding type plus AckGeneral.
	Acknowledgments []string
}

// AckID returns the acknowledgment id for a finding type.
func AckID(t FindingType) string { return "ack:" + string(t) }

// buildAssessment derives aggregate level, blocking flag, and the required
// acknowledgment list from collected findings.
func buildAssessment(findings []Finding) *Assessment {
	assessment := &Assessment{Findings: findings}
	if len(findings) == 0 {
		return assessment
	}

	assessment.ShowWarning = true
	seen := make(map[FindingType]bool)
	for _, finding := range findings {
		if finding.Level > assessment.Level {
			assessment.Level = finding.Level
		}
		if finding.Blocking {
			assessment.Blocking = true
		}
		if !seen[finding.Type] {
			seen[finding.Type] = true
			assessment.Acknowledgments = append(assessment.Acknowledgments, AckID(finding.Type))
		}
	}
	assessment.Acknowledgments = append(assessment.Acknowledgments, AckGeneral)
	return assessment
}
