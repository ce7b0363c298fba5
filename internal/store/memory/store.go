// Package memory is an in-memory implementation of the draw core's data
// boundary. It mirrors the gorm store's commit semantics so the single-commit
// invariant can be exercised without a database.
package memory

import (
	"bytes"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fortunedraw/backend/internal/draw"
	"github.com/fortunedraw/backend/internal/models"
	"github.com/fortunedraw/backend/internal/store"
)

type ticketRow struct {
	ticket  models.Ticket
	payment models.PaymentStatus
}

// Store keeps events, tickets, referrals and winners in maps guarded by one
// mutex. Reads implement draw.TicketReader and draw.ReferralReader.
type Store struct {
	mu        sync.RWMutex
	events    map[uuid.UUID]models.FortuneDrawEvent
	tickets   []ticketRow
	referrals []models.Referral
	winners   map[uuid.UUID]models.Winner // keyed by event ID
	seq       int
}

func New() *Store {
	return &Store{
		events:  make(map[uuid.UUID]models.FortuneDrawEvent),
		winners: make(map[uuid.UUID]models.Winner),
	}
}

// SeedEvent registers an event.
func (s *Store) SeedEvent(event models.FortuneDrawEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.ID] = event
}

// SeedTicket adds one ticket for the user with the given payment and ticket
// status. Creation order is preserved so "earliest ticket" is well defined.
func (s *Store) SeedTicket(userID, eventID uuid.UUID, pay models.PaymentStatus, status models.TicketStatus) models.Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := models.Ticket{
		ID:                 uuid.New(),
		UserID:             userID,
		FortuneDrawEventID: eventID,
		PaymentID:          uuid.New(),
		Status:             status,
		CreatedAt:          time.Unix(int64(s.seq), 0),
	}
	s.tickets = append(s.tickets, ticketRow{ticket: t, payment: pay})
	return t
}

// SeedPaidReferrals adds n paid referrals with the user as referrer.
func (s *Store) SeedPaidReferrals(referrerID uuid.UUID, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i < n; i++ {
		s.referrals = append(s.referrals, models.Referral{
			ID:             uuid.New(),
			ReferrerID:     referrerID,
			ReferredUserID: uuid.New(),
			PaymentStatus:  models.ReferralPaid,
		})
	}
}

// SeedReferral adds one referral with an explicit status.
func (s *Store) SeedReferral(referrerID, referredID uuid.UUID, status models.ReferralStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.referrals = append(s.referrals, models.Referral{
		ID:             uuid.New(),
		ReferrerID:     referrerID,
		ReferredUserID: referredID,
		PaymentStatus:  status,
	})
}

func (r ticketRow) qualifies(eventID uuid.UUID) bool {
	return r.ticket.FortuneDrawEventID == eventID &&
		r.payment == models.PaymentApproved &&
		r.ticket.Status == models.TicketActive
}

// ApprovedActiveTicketCount implements draw.TicketReader.
func (s *Store) ApprovedActiveTicketCount(userID, eventID uuid.UUID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, r := range s.tickets {
		if r.ticket.UserID == userID && r.qualifies(eventID) {
			n++
		}
	}
	return n, nil
}

// DistinctTicketHolders implements draw.TicketReader.
func (s *Store) DistinctTicketHolders(eventID uuid.UUID) ([]uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	for _, r := range s.tickets {
		if r.qualifies(eventID) && !seen[r.ticket.UserID] {
			seen[r.ticket.UserID] = true
			ids = append(ids, r.ticket.UserID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return bytes.Compare(ids[i][:], ids[j][:]) < 0 })
	return ids, nil
}

// PaidReferralCount implements draw.ReferralReader.
func (s *Store) PaidReferralCount(userID uuid.UUID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, r := range s.referrals {
		if r.ReferrerID == userID && r.PaymentStatus == models.ReferralPaid {
			n++
		}
	}
	return n, nil
}

// CommitResult applies the same guards as the gorm store: the event must be
// active and unwon, the winner must still hold a qualifying ticket.
func (s *Store) CommitResult(eventID uuid.UUID, res draw.Result) (models.Winner, models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	event, ok := s.events[eventID]
	if !ok || event.Status != models.EventActive {
		return models.Winner{}, models.Ticket{}, store.ErrEventNotActive
	}
	if _, exists := s.winners[eventID]; exists {
		return models.Winner{}, models.Ticket{}, store.ErrWinnerAlreadyDrawn
	}

	var winning *ticketRow
	for i := range s.tickets {
		r := &s.tickets[i]
		if r.ticket.UserID != res.WinnerID || !r.qualifies(eventID) {
			continue
		}
		if winning == nil || r.ticket.CreatedAt.Before(winning.ticket.CreatedAt) {
			winning = r
		}
	}
	if winning == nil {
		return models.Winner{}, models.Ticket{}, store.ErrWinnerTicketMissing
	}

	winner := models.Winner{
		ID:                 uuid.New(),
		FortuneDrawEventID: eventID,
		UserID:             res.WinnerID,
		TicketID:           winning.ticket.ID,
		PrizeAmount:        event.PrizeAmount,
		BaseEntries:        res.BaseEntries,
		BonusEntries:       res.BonusEntries,
		TotalWeight:        res.TotalWeight,
		TotalParticipants:  res.TotalParticipants,
		TotalWeightPool:    res.TotalWeightPool,
		WinningProbability: res.WinningProbability,
		AnnouncedAt:        time.Now(),
	}
	s.winners[eventID] = winner

	event.Status = models.EventDrawn
	s.events[eventID] = event
	winning.ticket.Status = models.TicketWinner

	return winner, winning.ticket, nil
}
