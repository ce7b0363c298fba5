package draw

import "github.com/google/uuid"

// ChancePreview answers "what is my current chance of winning event Y" before
// a draw happens. It shares WeightCalculator with the real draw so the preview
// and the draw can never disagree on the formula.
type ChancePreview struct {
	BaseEntries       int    `json:"base_entries"`
	BonusEntries      int    `json:"bonus_entries"`
	TotalEntries      int    `json:"total_entries"`
	TotalParticipants int    `json:"total_participants"`
	TotalWeightPool   int    `json:"total_weight_pool"`
	WinningChance     string `json:"winning_chance"`
}

// WinningChance is the read-only companion of SelectWinner. It degrades to a
// "0.0000%" display instead of erroring: this is a preview endpoint, not the
// authoritative draw.
func (s *Selector) WinningChance(userID, eventID uuid.UUID) (ChancePreview, error) {
	userWeight, err := s.weights.ComputeWeight(userID, eventID)
	if err != nil {
		return ChancePreview{}, err
	}

	userIDs, err := s.eligible.EligibleUsers(eventID)
	if err != nil {
		return ChancePreview{}, err
	}

	pool := 0
	for _, uid := range userIDs {
		pw, err := s.weights.ComputeWeight(uid, eventID)
		if err != nil {
			return ChancePreview{}, err
		}
		pool += pw.TotalWeight
	}

	return ChancePreview{
		BaseEntries:       userWeight.BaseEntries,
		BonusEntries:      userWeight.BonusEntries,
		TotalEntries:      userWeight.TotalWeight,
		TotalParticipants: len(userIDs),
		TotalWeightPool:   pool,
		WinningChance:     formatPercent(userWeight.TotalWeight, pool, 4),
	}, nil
}
