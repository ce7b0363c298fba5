package draw

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

// fakeStore implements TicketReader and ReferralReader from plain maps.
type fakeStore struct {
	tickets   map[uuid.UUID]int // qualifying tickets per user
	referrals map[uuid.UUID]int // paid referrals per user
	holders   []uuid.UUID
	ticketErr error
	holderErr error
	refErr    error
}

func (f *fakeStore) ApprovedActiveTicketCount(userID, eventID uuid.UUID) (int, error) {
	if f.ticketErr != nil {
		return 0, f.ticketErr
	}
	return f.tickets[userID], nil
}

func (f *fakeStore) DistinctTicketHolders(eventID uuid.UUID) ([]uuid.UUID, error) {
	if f.holderErr != nil {
		return nil, f.holderErr
	}
	return f.holders, nil
}

func (f *fakeStore) PaidReferralCount(userID uuid.UUID) (int, error) {
	if f.refErr != nil {
		return 0, f.refErr
	}
	return f.referrals[userID], nil
}

// uid builds UUIDs whose byte order matches the numeric argument, so
// "ascending user ID" is easy to reason about in tests.
func uid(n byte) uuid.UUID {
	var u uuid.UUID
	u[15] = n
	return u
}

func TestComputeWeightAdditivity(t *testing.T) {
	eventID := uuid.New()

	tests := []struct {
		name      string
		tickets   int
		referrals int
	}{
		{name: "tickets only", tickets: 2, referrals: 0},
		{name: "referrals only", tickets: 0, referrals: 3},
		{name: "both", tickets: 1, referrals: 3},
		{name: "nothing", tickets: 0, referrals: 0},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			user := uid(1)
			calc := NewWeightCalculator(
				&fakeStore{tickets: map[uuid.UUID]int{user: tc.tickets}},
				&fakeStore{referrals: map[uuid.UUID]int{user: tc.referrals}},
			)

			pw, err := calc.ComputeWeight(user, eventID)
			if err != nil {
				t.Fatalf("ComputeWeight() error: %v", err)
			}
			if pw.BaseEntries < 0 || pw.BonusEntries < 0 {
				t.Fatalf("negative entries: %+v", pw)
			}
			if pw.BaseEntries != tc.tickets || pw.BonusEntries != tc.referrals {
				t.Fatalf("entries = (%d,%d), want (%d,%d)",
					pw.BaseEntries, pw.BonusEntries, tc.tickets, tc.referrals)
			}
			if pw.TotalWeight != pw.BaseEntries+pw.BonusEntries {
				t.Fatalf("TotalWeight = %d, want %d", pw.TotalWeight, pw.BaseEntries+pw.BonusEntries)
			}
		})
	}
}

func TestComputeWeightReferralsNotEventScoped(t *testing.T) {
	user := uid(1)
	st := &fakeStore{
		tickets:   map[uuid.UUID]int{user: 1},
		referrals: map[uuid.UUID]int{user: 5},
	}
	calc := NewWeightCalculator(st, st)

	// Two different events see the same bonus entries.
	for _, eventID := range []uuid.UUID{uuid.New(), uuid.New()} {
		pw, err := calc.ComputeWeight(user, eventID)
		if err != nil {
			t.Fatalf("ComputeWeight() error: %v", err)
		}
		if pw.BonusEntries != 5 {
			t.Fatalf("BonusEntries = %d, want 5", pw.BonusEntries)
		}
	}
}

func TestComputeWeightPropagatesReadErrors(t *testing.T) {
	boom := errors.New("connection reset")
	calc := NewWeightCalculator(&fakeStore{ticketErr: boom}, &fakeStore{})

	_, err := calc.ComputeWeight(uid(1), uuid.New())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped read error, got %v", err)
	}
}

func TestEligibleUsersGate(t *testing.T) {
	eventID := uuid.New()
	buyer := uid(1)
	referrerOnly := uid(2)

	// referrerOnly has bonus entries but no ticket: the store only reports
	// buyer as a holder, and the eligibility set must not add anyone back.
	st := &fakeStore{
		holders:   []uuid.UUID{buyer},
		tickets:   map[uuid.UUID]int{buyer: 1},
		referrals: map[uuid.UUID]int{referrerOnly: 4},
	}

	users, err := NewEligibilitySet(st).EligibleUsers(eventID)
	if err != nil {
		t.Fatalf("EligibleUsers() error: %v", err)
	}
	if len(users) != 1 || users[0] != buyer {
		t.Fatalf("EligibleUsers() = %v, want [%v]", users, buyer)
	}
}

func TestEligibleUsersEmptyIsNotAnError(t *testing.T) {
	users, err := NewEligibilitySet(&fakeStore{}).EligibleUsers(uuid.New())
	if err != nil {
		t.Fatalf("EligibleUsers() error: %v", err)
	}
	if len(users) != 0 {
		t.Fatalf("EligibleUsers() = %v, want empty", users)
	}
}
