// Package match ranks candidate groups against a member's preferences using
// a weighted multi-factor score. It is read-only: it runs against a snapshot
// of the registry and never touches the write path.
package match

import (
	"fmt"
	"sort"
	"time"

	"ronda/internal/registry/models"
	dErrors "ronda/pkg/domain-errors"
)

// Weights assigns the relative importance of each factor. They must sum to
// 1.0; Validate runs at configuration time, not per request.
type Weights struct {
	Location     float64
	Type         float64
	Experience   float64
	Trust        float64
	Contribution float64
}

// DefaultWeights mirrors the production ranking model.
func DefaultWeights() Weights {
	return Weights{
		Location:     0.30,
		Type:         0.20,
		Experience:   0.25,
		Trust:        0.15,
		Contribution: 0.10,
	}
}

const weightEpsilon = 1e-9

// Validate rejects weight sets that do not sum to 1.0 or carry negative
// entries.
func (w Weights) Validate() error {
	for name, value := range map[string]float64{
		"location": w.Location, "type": w.Type, "experience": w.Experience,
		"trust": w.Trust, "contribution": w.Contribution,
	} {
		if value < 0 {
			return dErrors.Newf(dErrors.CodeValidation, "weight %s is negative", name)
		}
	}
	sum := w.Location + w.Type + w.Experience + w.Trust + w.Contribution
	if diff := sum - 1.0; diff > weightEpsilon || diff < -weightEpsilon {
		return dErrors.Newf(dErrors.CodeValidation, "weights sum to %.4f, want 1.0", sum)
	}
	return nil
}

// Preferences states what the prospective member is looking for. Empty
// Location or GroupType means "no preference" and excludes the factor; a
// zero contribution range likewise.
type Preferences struct {
	Location        string
	GroupType       string
	MinContribution int64
	MaxContribution int64
	// MemberTenure is how long the member has been on the platform, used
	// for the experience/commitment fit factor.
	MemberTenure time.Duration
}

// ScoredGroup is one ranked candidate with its explanation.
type ScoredGroup struct {
	Group *models.Group
	// Score is in [0,100].
	Score float64
	// Reasons lists, per contributing factor, a human-readable explanation.
	// Display only; never used for ranking.
	Reasons []string
}

// Matcher scores and ranks candidate groups.
type Matcher struct {
	weights Weights
}

// New constructs a Matcher, validating the weights up front.
func New(weights Weights) (*Matcher, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return &Matcher{weights: weights}, nil
}

// reasonShare is the fraction of a factor's weight a sub-score must reach
// for the factor to appear in the reasons list.
const reasonShare = 0.5

type factorScore struct {
	name     string
	weight   float64
	score    float64 // [0,1]
	included bool
	reason   string
}

// FindMatches scores every candidate and returns them sorted descending by
// score, ties broken by higher group trust score, then earlier creation
// time. Deterministic for a given input.
func (m *Matcher) FindMatches(prefs Preferences, candidates []*models.Group) []ScoredGroup {
	scored := make([]ScoredGroup, 0, len(candidates))
	for _, group := range candidates {
		scored = append(scored, m.score(prefs, group))
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		if scored[i].Group.TrustScore != scored[j].Group.TrustScore {
			return scored[i].Group.TrustScore > scored[j].Group.TrustScore
		}
		if !scored[i].Group.CreatedAt.Equal(scored[j].Group.CreatedAt) {
			return scored[i].Group.CreatedAt.Before(scored[j].Group.CreatedAt)
		}
		return scored[i].Group.ID.String() < scored[j].Group.ID.String()
	})
	return scored
}

func (m *Matcher) score(prefs Preferences, group *models.Group) ScoredGroup {
	factors := []factorScore{
		m.locationFactor(prefs, group),
		m.typeFactor(prefs, group),
		m.experienceFactor(prefs, group),
		m.trustFactor(group),
		m.contributionFactor(prefs, group),
	}

	// Excluded factors hand their weight to the rest: remaining weights are
	// re-normalized to sum to 1.
	var totalWeight float64
	for _, factor := range factors {
		if factor.included {
			totalWeight += factor.weight
		}
	}

	result := ScoredGroup{Group: group}
	if totalWeight <= 0 {
		return result
	}

	for _, factor := range factors {
		if !factor.included {
			continue
		}
		normalized := factor.weight / totalWeight
		result.Score += normalized * factor.score
		if factor.score >= reasonShare && factor.reason != "" {
			result.Reasons = append(result.Reasons, factor.reason)
		}
	}
	result.Score *= 100
	return result
}

func (m *Matcher) locationFactor(prefs Preferences, group *models.Group) factorScore {
	factor := factorScore{name: "location", weight: m.weights.Location}
	if prefs.Location == "" {
		return factor
	}
	factor.included = true
	if group.Location == prefs.Location {
		factor.score = 1
		factor.reason = fmt.Sprintf("located in %s", group.Location)
	}
	return factor
}

func (m *Matcher) typeFactor(prefs Preferences, group *models.Group) factorScore {
	factor := factorScore{name: "type", weight: m.weights.Type}
	if prefs.GroupType == "" {
		return factor
	}
	factor.included = true
	if group.Type == prefs.GroupType {
		factor.score = 1
		factor.reason = fmt.Sprintf("matches your preferred type %q", group.Type)
	}
	return factor
}

// requiredTenure maps a group's cadence to the platform tenure it implies:
// longer commitments want members who have been around longer.
func requiredTenure(frequency models.Frequency) time.Duration {
	switch frequency {
	case models.FrequencyWeekly:
		return 0
	case models.FrequencyBiweekly:
		return 30 * 24 * time.Hour
	default:
		return 90 * 24 * time.Hour
	}
}

func (m *Matcher) experienceFactor(prefs Preferences, group *models.Group) factorScore {
	factor := factorScore{name: "experience", weight: m.weights.Experience, included: true}
	required := requiredTenure(group.Frequency)
	if required <= 0 {
		factor.score = 1
	} else if prefs.MemberTenure >= required {
		factor.score = 1
	} else if prefs.MemberTenure > 0 {
		factor.score = float64(prefs.MemberTenure) / float64(required)
	}
	if factor.score >= reasonShare {
		factor.reason = fmt.Sprintf("your tenure fits this group's %s cadence", group.Frequency)
	}
	return factor
}

func (m *Matcher) trustFactor(group *models.Group) factorScore {
	factor := factorScore{name: "trust", weight: m.weights.Trust, included: true}
	factor.score = group.TrustScore / 100
	if factor.score > 1 {
		factor.score = 1
	} else if factor.score < 0 {
		factor.score = 0
	}
	if factor.score >= reasonShare {
		factor.reason = fmt.Sprintf("group trust score of %.0f", group.TrustScore)
	}
	return factor
}

// contributionFactor is 1 inside [min,max], degrading linearly to 0 at
// twice the violated bound's distance.
func (m *Matcher) contributionFactor(prefs Preferences, group *models.Group) factorScore {
	factor := factorScore{name: "contribution", weight: m.weights.Contribution}
	if prefs.MinContribution <= 0 && prefs.MaxContribution <= 0 {
		return factor
	}
	factor.included = true

	c := group.Contribution
	switch {
	case prefs.MaxContribution > 0 && c > prefs.MaxContribution:
		factor.score = clamp01(float64(2*prefs.MaxContribution-c) / float64(prefs.MaxContribution))
	case prefs.MinContribution > 0 && c < prefs.MinContribution:
		factor.score = clamp01(float64(2*c-prefs.MinContribution) / float64(prefs.MinContribution))
	default:
		factor.score = 1
	}
	if factor.score >= reasonShare {
		factor.reason = "contribution amount is in your range"
	}
	return factor
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
