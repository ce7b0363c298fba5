package draw

import "github.com/google/uuid"

// TicketReader is the data-access boundary for ticket-derived entries.
// Implementations must only count tickets whose payment is approved and whose
// status is active.
type TicketReader interface {
	// ApprovedActiveTicketCount returns the number of qualifying tickets a
	// user holds for one event.
	ApprovedActiveTicketCount(userID, eventID uuid.UUID) (int, error)
	// DistinctTicketHolders returns every distinct user holding at least one
	// qualifying ticket for the event.
	DistinctTicketHolders(eventID uuid.UUID) ([]uuid.UUID, error)
}

// ReferralReader is the data-access boundary for referral bonus entries.
type ReferralReader interface {
	// PaidReferralCount returns the number of paid referrals where the user
	// is the referrer. Referrals are global to the referrer, never scoped to
	// a single event.
	PaidReferralCount(userID uuid.UUID) (int, error)
}
