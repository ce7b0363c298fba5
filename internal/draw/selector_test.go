package draw

import (
	"errors"
	"math"
	"testing"

	"github.com/google/uuid"

	"github.com/fortunedraw/backend/internal/rng"
)

// stubSource replays a fixed sequence of values, ignoring the bound. Returning
// a value >= n deliberately violates the Source contract to exercise the
// boundary fallback.
type stubSource struct {
	vals []int
	i    int
}

func (s *stubSource) IntN(n int) (int, error) {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v, nil
}

// threeUserStore is the fixed scenario: U1 has 2 tickets and no referrals,
// U2 has 1 ticket and 3 paid referrals, U3 has 1 ticket. Pool = 7.
func threeUserStore() *fakeStore {
	return &fakeStore{
		holders: []uuid.UUID{uid(3), uid(1), uid(2)}, // unordered on purpose
		tickets: map[uuid.UUID]int{
			uid(1): 2,
			uid(2): 1,
			uid(3): 1,
		},
		referrals: map[uuid.UUID]int{
			uid(2): 3,
		},
	}
}

func TestSelectWinnerNoEligibleParticipants(t *testing.T) {
	sel := NewSelector(&fakeStore{}, &fakeStore{}, rng.NewSeeded(1))
	_, err := sel.SelectWinner(uuid.New())
	if !errors.Is(err, ErrNoEligibleParticipants) {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSelectWinnerNoValidWeight(t *testing.T) {
	// Holders are reported but their tickets vanish between the two reads.
	st := &fakeStore{holders: []uuid.UUID{uid(1), uid(2)}}
	sel := NewSelector(st, st, rng.NewSeeded(1))

	_, err := sel.SelectWinner(uuid.New())
	if !errors.Is(err, ErrNoValidWeight) {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSelectWinnerZeroDrawPicksFirstInOrder(t *testing.T) {
	st := threeUserStore()
	sel := NewSelector(st, st, &stubSource{vals: []int{0}})

	res, err := sel.SelectWinner(uuid.New())
	if err != nil {
		t.Fatalf("SelectWinner() error: %v", err)
	}
	// r = 0 must land on the lowest user ID: the walk is strict (r < cumulative).
	if res.WinnerID != uid(1) {
		t.Fatalf("WinnerID = %v, want %v", res.WinnerID, uid(1))
	}
	if res.BoundaryFallback {
		t.Fatal("BoundaryFallback set on a normal draw")
	}
}

func TestSelectWinnerCumulativeBoundaries(t *testing.T) {
	tests := []struct {
		name   string
		r      int
		winner uuid.UUID
	}{
		{name: "start of U1", r: 0, winner: uid(1)},
		{name: "end of U1", r: 1, winner: uid(1)},
		{name: "start of U2", r: 2, winner: uid(2)},
		{name: "end of U2", r: 5, winner: uid(2)},
		{name: "U3", r: 6, winner: uid(3)},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			st := threeUserStore()
			sel := NewSelector(st, st, &stubSource{vals: []int{tc.r}})

			res, err := sel.SelectWinner(uuid.New())
			if err != nil {
				t.Fatalf("SelectWinner() error: %v", err)
			}
			if res.WinnerID != tc.winner {
				t.Fatalf("r=%d: WinnerID = %v, want %v", tc.r, res.WinnerID, tc.winner)
			}
		})
	}
}

func TestSelectWinnerStatistics(t *testing.T) {
	st := threeUserStore()
	// r = 3 lands on U2 (weight 4 of pool 7).
	sel := NewSelector(st, st, &stubSource{vals: []int{3}})

	res, err := sel.SelectWinner(uuid.New())
	if err != nil {
		t.Fatalf("SelectWinner() error: %v", err)
	}
	if res.WinnerID != uid(2) {
		t.Fatalf("WinnerID = %v, want %v", res.WinnerID, uid(2))
	}
	if res.BaseEntries != 1 || res.BonusEntries != 3 || res.TotalWeight != 4 {
		t.Fatalf("winner breakdown = (%d,%d,%d), want (1,3,4)",
			res.BaseEntries, res.BonusEntries, res.TotalWeight)
	}
	if res.TotalParticipants != 3 || res.TotalWeightPool != 7 {
		t.Fatalf("pool stats = (%d,%d), want (3,7)", res.TotalParticipants, res.TotalWeightPool)
	}
	if res.WinningProbability != "57.14%" {
		t.Fatalf("WinningProbability = %q, want %q", res.WinningProbability, "57.14%")
	}
}

func TestSelectWinnerProbabilitiesSumToOne(t *testing.T) {
	st := threeUserStore()
	eventID := uuid.New()
	calc := NewWeightCalculator(st, st)

	pool := 0
	weights := make([]int, 0, 3)
	for _, u := range []uuid.UUID{uid(1), uid(2), uid(3)} {
		pw, err := calc.ComputeWeight(u, eventID)
		if err != nil {
			t.Fatalf("ComputeWeight() error: %v", err)
		}
		weights = append(weights, pw.TotalWeight)
		pool += pw.TotalWeight
	}

	sum := 0.0
	for _, w := range weights {
		sum += float64(w) / float64(pool)
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Fatalf("probabilities sum to %v, want 1", sum)
	}
}

func TestSelectWinnerRespectsDistribution(t *testing.T) {
	if testing.Short() {
		t.Skip("statistical test skipped in short mode")
	}

	st := &fakeStore{
		holders: []uuid.UUID{uid(1), uid(2), uid(3)},
		tickets: map[uuid.UUID]int{
			uid(1): 1,
			uid(2): 3,
			uid(3): 6,
		},
	}
	sel := NewSelector(st, st, rng.NewSeeded(42))
	eventID := uuid.New()

	const draws = 100000
	wins := make(map[uuid.UUID]int)
	for i := 0; i < draws; i++ {
		res, err := sel.SelectWinner(eventID)
		if err != nil {
			t.Fatalf("SelectWinner() error: %v", err)
		}
		wins[res.WinnerID]++
	}

	expected := map[uuid.UUID]float64{
		uid(1): 0.10,
		uid(2): 0.30,
		uid(3): 0.60,
	}
	const tolerance = 0.02
	for u, want := range expected {
		got := float64(wins[u]) / draws
		if math.Abs(got-want) > tolerance {
			t.Errorf("user %v won %.4f of draws, want %.2f±%.2f", u, got, want, tolerance)
		}
	}
}

func TestSelectWinnerBoundaryFallback(t *testing.T) {
	st := threeUserStore()
	// A draw equal to the pool can never be covered by the walk; the last
	// participant must be selected and the anomaly flagged.
	sel := NewSelector(st, st, &stubSource{vals: []int{7}})

	res, err := sel.SelectWinner(uuid.New())
	if err != nil {
		t.Fatalf("SelectWinner() error: %v", err)
	}
	if !res.BoundaryFallback {
		t.Fatal("BoundaryFallback not set")
	}
	if res.WinnerID != uid(3) {
		t.Fatalf("WinnerID = %v, want last participant %v", res.WinnerID, uid(3))
	}
}

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		weight    int
		pool      int
		precision int
		want      string
	}{
		{weight: 4, pool: 7, precision: 2, want: "57.14%"},
		{weight: 1, pool: 7, precision: 2, want: "14.29%"},
		{weight: 0, pool: 50, precision: 4, want: "0.0000%"},
		{weight: 0, pool: 0, precision: 4, want: "0.0000%"},
		{weight: 7, pool: 7, precision: 2, want: "100.00%"},
	}
	for _, tc := range tests {
		if got := formatPercent(tc.weight, tc.pool, tc.precision); got != tc.want {
			t.Errorf("formatPercent(%d, %d, %d) = %q, want %q",
				tc.weight, tc.pool, tc.precision, got, tc.want)
		}
	}
}
