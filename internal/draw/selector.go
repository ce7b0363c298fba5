package draw

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/fortunedraw/backend/internal/rng"
)

var (
	// ErrNoEligibleParticipants means nobody holds a qualifying ticket for
	// the event. Not a bug: the operator simply cannot draw yet.
	ErrNoEligibleParticipants = errors.New("draw: no eligible participants")
	// ErrNoValidWeight means eligible users exist but every recomputed weight
	// came back zero. Eligibility already requires a ticket, so this only
	// happens when tickets are invalidated between the two reads.
	ErrNoValidWeight = errors.New("draw: no participants with valid entries")
)

// Result is the decision payload of one draw. The core computes it; committing
// it exactly once is the persistence layer's job.
type Result struct {
	WinnerID           uuid.UUID `json:"winner_id"`
	BaseEntries        int       `json:"base_entries"`
	BonusEntries       int       `json:"bonus_entries"`
	TotalWeight        int       `json:"total_weight"`
	TotalParticipants  int       `json:"total_participants"`
	TotalWeightPool    int       `json:"total_weight_pool"`
	WinningProbability string    `json:"winning_probability"`

	// BoundaryFallback is set when the cumulative walk passed every
	// participant without covering the drawn value. With integer weights the
	// walk always terminates unless the random source and the weight sum
	// diverged, so a set flag is an anomaly worth surfacing to operators.
	BoundaryFallback bool `json:"boundary_fallback,omitempty"`
}

// Selector performs one fair weighted random draw. It performs no writes, so
// invoking it repeatedly for the same event is always safe.
type Selector struct {
	weights  *WeightCalculator
	eligible *EligibilitySet
	src      rng.Source
}

func NewSelector(tickets TicketReader, referrals ReferralReader, src rng.Source) *Selector {
	return &Selector{
		weights:  NewWeightCalculator(tickets, referrals),
		eligible: NewEligibilitySet(tickets),
		src:      src,
	}
}

// SelectWinner builds the weight distribution for the event and samples one
// winner with probability totalWeight/totalWeightPool per participant.
func (s *Selector) SelectWinner(eventID uuid.UUID) (Result, error) {
	userIDs, err := s.eligible.EligibleUsers(eventID)
	if err != nil {
		return Result{}, err
	}
	if len(userIDs) == 0 {
		return Result{}, ErrNoEligibleParticipants
	}

	participants := make([]ParticipantWeight, 0, len(userIDs))
	for _, uid := range userIDs {
		pw, err := s.weights.ComputeWeight(uid, eventID)
		if err != nil {
			return Result{}, err
		}
		if pw.TotalWeight > 0 {
			participants = append(participants, pw)
		}
	}
	if len(participants) == 0 {
		return Result{}, ErrNoValidWeight
	}

	// Stable order: ascending user ID. Fairness is invariant under
	// reordering; determinism matters for reproducing a draw in tests.
	sort.Slice(participants, func(i, j int) bool {
		return bytes.Compare(participants[i].UserID[:], participants[j].UserID[:]) < 0
	})

	pool := 0
	for _, p := range participants {
		pool += p.TotalWeight
	}

	r, err := s.src.IntN(pool)
	if err != nil {
		return Result{}, fmt.Errorf("draw: random sample: %w", err)
	}

	winner := participants[len(participants)-1]
	fallback := true
	cumulative := 0
	for _, p := range participants {
		cumulative += p.TotalWeight
		if r < cumulative {
			winner = p
			fallback = false
			break
		}
	}

	return Result{
		WinnerID:           winner.UserID,
		BaseEntries:        winner.BaseEntries,
		BonusEntries:       winner.BonusEntries,
		TotalWeight:        winner.TotalWeight,
		TotalParticipants:  len(participants),
		TotalWeightPool:    pool,
		WinningProbability: formatPercent(winner.TotalWeight, pool, 2),
		BoundaryFallback:   fallback,
	}, nil
}

// formatPercent renders weight/pool as a fixed-precision percentage string.
// A zero pool renders as 0 rather than erroring.
func formatPercent(weight, pool, precision int) string {
	pct := 0.0
	if pool > 0 {
		pct = float64(weight) / float64(pool) * 100
	}
	return fmt.Sprintf("%.*f%%", precision, pct)
}
