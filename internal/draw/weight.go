package draw

import (
	"fmt"

	"github.com/google/uuid"
)

// ParticipantWeight is a user's entry breakdown for one event, recomputed on
// demand and never cached: ticket and referral state can change between reads.
type ParticipantWeight struct {
	UserID       uuid.UUID `json:"user_id"`
	BaseEntries  int       `json:"base_entries"`
	BonusEntries int       `json:"bonus_entries"`
	TotalWeight  int       `json:"total_weight"`
}

// WeightCalculator computes entry weights:
//
//	base entries  = approved, active tickets for the event
//	bonus entries = the referrer's paid referrals (global, not event-scoped)
//	total weight  = base + bonus
type WeightCalculator struct {
	tickets   TicketReader
	referrals ReferralReader
}

func NewWeightCalculator(tickets TicketReader, referrals ReferralReader) *WeightCalculator {
	return &WeightCalculator{tickets: tickets, referrals: referrals}
}

// ComputeWeight is a pure read; it has no error conditions of its own beyond
// data-access failures, which are propagated.
func (w *WeightCalculator) ComputeWeight(userID, eventID uuid.UUID) (ParticipantWeight, error) {
	base, err := w.tickets.ApprovedActiveTicketCount(userID, eventID)
	if err != nil {
		return ParticipantWeight{}, fmt.Errorf("count tickets for user %s: %w", userID, err)
	}

	bonus, err := w.referrals.PaidReferralCount(userID)
	if err != nil {
		return ParticipantWeight{}, fmt.Errorf("count paid referrals for user %s: %w", userID, err)
	}

	return ParticipantWeight{
		UserID:       userID,
		BaseEntries:  base,
		BonusEntries: bonus,
		TotalWeight:  base + bonus,
	}, nil
}

// EligibilitySet enumerates the users allowed into a draw. A user must hold at
// least one approved, active ticket for the event; bonus entries alone never
// grant eligibility.
type EligibilitySet struct {
	tickets TicketReader
}

func NewEligibilitySet(tickets TicketReader) *EligibilitySet {
	return &EligibilitySet{tickets: tickets}
}

// EligibleUsers returns the distinct qualifying users. An empty result is a
// valid domain condition, not an error; the caller decides how to surface it.
func (e *EligibilitySet) EligibleUsers(eventID uuid.UUID) ([]uuid.UUID, error) {
	users, err := e.tickets.DistinctTicketHolders(eventID)
	if err != nil {
		return nil, fmt.Errorf("list ticket holders for event %s: %w", eventID, err)
	}
	return users, nil
}
