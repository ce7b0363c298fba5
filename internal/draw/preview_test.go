package draw

import (
	"testing"

	"github.com/google/uuid"

	"github.com/fortunedraw/backend/internal/rng"
)

func TestWinningChanceForParticipant(t *testing.T) {
	st := threeUserStore()
	sel := NewSelector(st, st, rng.NewSeeded(1))

	preview, err := sel.WinningChance(uid(2), uuid.New())
	if err != nil {
		t.Fatalf("WinningChance() error: %v", err)
	}
	if preview.BaseEntries != 1 || preview.BonusEntries != 3 || preview.TotalEntries != 4 {
		t.Fatalf("entries = (%d,%d,%d), want (1,3,4)",
			preview.BaseEntries, preview.BonusEntries, preview.TotalEntries)
	}
	if preview.TotalParticipants != 3 || preview.TotalWeightPool != 7 {
		t.Fatalf("pool = (%d,%d), want (3,7)", preview.TotalParticipants, preview.TotalWeightPool)
	}
	if preview.WinningChance != "57.1429%" {
		t.Fatalf("WinningChance = %q, want %q", preview.WinningChance, "57.1429%")
	}
}

func TestWinningChanceZeroWeightDegradesGracefully(t *testing.T) {
	// An outsider with no tickets previews against a pool of 50.
	st := &fakeStore{
		holders: []uuid.UUID{uid(1)},
		tickets: map[uuid.UUID]int{uid(1): 50},
	}
	sel := NewSelector(st, st, rng.NewSeeded(1))

	preview, err := sel.WinningChance(uid(9), uuid.New())
	if err != nil {
		t.Fatalf("WinningChance() error: %v", err)
	}
	if preview.TotalWeightPool != 50 {
		t.Fatalf("TotalWeightPool = %d, want 50", preview.TotalWeightPool)
	}
	if preview.WinningChance != "0.0000%" {
		t.Fatalf("WinningChance = %q, want %q", preview.WinningChance, "0.0000%")
	}
}

func TestWinningChanceEmptyPool(t *testing.T) {
	sel := NewSelector(&fakeStore{}, &fakeStore{}, rng.NewSeeded(1))

	preview, err := sel.WinningChance(uid(1), uuid.New())
	if err != nil {
		t.Fatalf("WinningChance() error: %v", err)
	}
	if preview.WinningChance != "0.0000%" {
		t.Fatalf("WinningChance = %q, want %q", preview.WinningChance, "0.0000%")
	}
}

// The preview must agree with the draw because both go through the same
// calculator: a participant's previewed share equals the share the selector
// reports when that participant wins.
func TestPreviewMatchesDrawProbability(t *testing.T) {
	st := threeUserStore()
	eventID := uuid.New()

	preview, err := NewSelector(st, st, rng.NewSeeded(1)).WinningChance(uid(2), eventID)
	if err != nil {
		t.Fatalf("WinningChance() error: %v", err)
	}

	res, err := NewSelector(st, st, &stubSource{vals: []int{3}}).SelectWinner(eventID)
	if err != nil {
		t.Fatalf("SelectWinner() error: %v", err)
	}

	if preview.TotalEntries != res.TotalWeight || preview.TotalWeightPool != res.TotalWeightPool {
		t.Fatalf("preview (%d/%d) disagrees with draw (%d/%d)",
			preview.TotalEntries, preview.TotalWeightPool, res.TotalWeight, res.TotalWeightPool)
	}
}
