// Package rotation derives and advances the payout order of a tanda cycle.
//
// Order assignment defaults to a seeded pseudo-random permutation: the seed
// is a stable hash of (group id, cycle start time), so the order is
// reproducible for audit but cannot be gamed by choosing when to join.
package rotation

import (
	"crypto/sha256"
	"encoding/binary"
	"math/rand"
	"time"

	"ronda/internal/registry/models"
	id "ronda/pkg/domain"
	dErrors "ronda/pkg/domain-errors"
)

// Policy selects how payout order is assigned at cycle start.
type Policy string

const (
	// PolicySeededRandom is the default and the only manipulation-resistant
	// policy: whoever joins last gains nothing.
	PolicySeededRandom Policy = "seeded_random"
	// PolicyJoinOrder pays out in declared join order.
	PolicyJoinOrder Policy = "join_order"
)

// Scheduler assigns payout order and builds per-round payment schedules.
type Scheduler struct {
	policy Policy
}

// New constructs a Scheduler. An unknown policy falls back to seeded-random
// rather than erroring: a misconfigured policy must never produce a
// manipulable order.
func New(policy Policy) *Scheduler {
	if policy != PolicyJoinOrder {
		policy = PolicySeededRandom
	}
	return &Scheduler{policy: policy}
}

// Seed derives the deterministic permutation seed for a cycle.
func Seed(groupID id.GroupID, startedAt time.Time) int64 {
	h := sha256.New()
	h.Write([]byte(groupID.String()))
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(startedAt.UnixNano()))
	h.Write(ts[:])
	sum := h.Sum(nil)
	return int64(binary.BigEndian.Uint64(sum[:8]))
}

// AssignOrder returns the memberships in payout order and stamps each with
// its order index. The input slice must already be in a deterministic order
// (stores list by join time); the permutation is layered on top.
func (s *Scheduler) AssignOrder(memberships []*models.Membership, groupID id.GroupID, startedAt time.Time) []*models.Membership {
	ordered := make([]*models.Membership, len(memberships))
	copy(ordered, memberships)

	if s.policy == PolicySeededRandom {
		rng := rand.New(rand.NewSource(Seed(groupID, startedAt)))
		rng.Shuffle(len(ordered), func(i, j int) {
			ordered[i], ordered[j] = ordered[j], ordered[i]
		})
	}

	for index, membership := range ordered {
		membership.PayOrder = index
		membership.OrderAssigned = true
	}
	return ordered
}

// BuildSchedules produces one PaymentSchedule per round. Round r's recipient
// is the membership at order index r-1; every other membership owes one
// obligation of the group contribution.
func (s *Scheduler) BuildSchedules(cycle *models.TandaCycle, ordered []*models.Membership, contribution int64, frequency models.Frequency) []*models.PaymentSchedule {
	interval := frequency.Interval()
	schedules := make([]*models.PaymentSchedule, 0, len(ordered))

	for round := 1; round <= len(ordered); round++ {
		recipient := ordered[round-1]
		obligations := make([]models.Obligation, 0, len(ordered)-1)
		for _, membership := range ordered {
			if membership.ID == recipient.ID {
				continue
			}
			obligations = append(obligations, models.Obligation{
				MembershipID: membership.ID,
				Amount:       contribution,
				Status:       models.ObligationPending,
			})
		}
		schedules = append(schedules, &models.PaymentSchedule{
			CycleID:     cycle.ID,
			Round:       round,
			RecipientID: recipient.ID,
			DueDate:     cycle.StartedAt.Add(time.Duration(round) * interval),
			Obligations: obligations,
		})
	}
	return schedules
}

// Advance is the outcome of an AdvanceRound decision.
type Advance struct {
	// NextRound is the round the cycle moves to; equal to the current round's
	// successor, or the current round when Completed is set.
	NextRound int
	Completed bool
}

// AdvanceRound decides whether the cycle may move past the given round. The
// round must be the cycle's current round and every obligation in it must be
// settled (paid or defaulted). Advancement is monotonic; a completed cycle
// never advances again.
func AdvanceRound(cycle *models.TandaCycle, current *models.PaymentSchedule) (Advance, error) {
	if cycle.Status == models.CycleCompleted {
		return Advance{}, dErrors.New(dErrors.CodeInvariantViolation, "cycle already completed")
	}
	if cycle.Status != models.CycleActive {
		return Advance{}, dErrors.Newf(dErrors.CodeInvariantViolation, "cycle is %s, not active", cycle.Status)
	}
	if current.Round != cycle.CurrentRound {
		return Advance{}, dErrors.Newf(dErrors.CodeInvariantViolation,
			"advance requested for round %d but current round is %d", current.Round, cycle.CurrentRound)
	}
	if !current.Settled() {
		return Advance{}, dErrors.Newf(dErrors.CodeInvalidInput,
			"round %d has unpaid obligations", current.Round)
	}
	if cycle.CurrentRound >= cycle.RoundCount {
		return Advance{NextRound: cycle.CurrentRound, Completed: true}, nil
	}
	return Advance{NextRound: cycle.CurrentRound + 1}, nil
}
