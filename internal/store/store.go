// Package store is the gorm-backed persistence boundary of the draw core: the
// reader interfaces the weight computation consumes, plus the exactly-once
// commit of a draw result.
package store

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fortunedraw/backend/internal/draw"
	"github.com/fortunedraw/backend/internal/models"
)

var (
	// ErrEventNotActive means the event is not in a drawable state.
	ErrEventNotActive = errors.New("store: event is not active")
	// ErrWinnerAlreadyDrawn rejects a second commit for the same event.
	ErrWinnerAlreadyDrawn = errors.New("store: winner already drawn for this event")
	// ErrWinnerTicketMissing means the selected winner no longer holds a
	// qualifying ticket at commit time.
	ErrWinnerTicketMissing = errors.New("store: winner has no qualifying ticket")
)

// Store adapts a gorm handle to the draw core's reader interfaces.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// ApprovedActiveTicketCount implements draw.TicketReader.
func (s *Store) ApprovedActiveTicketCount(userID, eventID uuid.UUID) (int, error) {
	var n int64
	err := s.db.Model(&models.Ticket{}).
		Joins("JOIN payments ON payments.id = tickets.payment_id").
		Where("tickets.user_id = ? AND tickets.fortune_draw_event_id = ? AND payments.status = ? AND tickets.status = ?",
			userID, eventID, models.PaymentApproved, models.TicketActive).
		Count(&n).Error
	return int(n), err
}

// DistinctTicketHolders implements draw.TicketReader.
func (s *Store) DistinctTicketHolders(eventID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := s.db.Model(&models.Ticket{}).
		Joins("JOIN payments ON payments.id = tickets.payment_id").
		Where("tickets.fortune_draw_event_id = ? AND payments.status = ? AND tickets.status = ?",
			eventID, models.PaymentApproved, models.TicketActive).
		Distinct().
		Pluck("tickets.user_id", &ids).Error
	return ids, err
}

// PaidReferralCount implements draw.ReferralReader.
func (s *Store) PaidReferralCount(userID uuid.UUID) (int, error) {
	var n int64
	err := s.db.Model(&models.Referral{}).
		Where("referrer_id = ? AND payment_status = ?", userID, models.ReferralPaid).
		Count(&n).Error
	return int(n), err
}

// CommitResult persists a draw decision exactly once. The whole unit runs in a
// single transaction with the event row locked: reject unless the event is
// still active and has no winner, resolve the winner's earliest qualifying
// ticket, insert the winner row, flip the event to drawn and mark the ticket.
func (s *Store) CommitResult(eventID uuid.UUID, res draw.Result) (models.Winner, models.Ticket, error) {
	var (
		winner models.Winner
		ticket models.Ticket
	)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var event models.FortuneDrawEvent
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&event, "id = ?", eventID).Error; err != nil {
			return err
		}
		if event.Status != models.EventActive {
			return ErrEventNotActive
		}

		var existing int64
		if err := tx.Model(&models.Winner{}).
			Where("fortune_draw_event_id = ?", eventID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrWinnerAlreadyDrawn
		}

		if err := tx.Model(&models.Ticket{}).
			Joins("JOIN payments ON payments.id = tickets.payment_id").
			Where("tickets.user_id = ? AND tickets.fortune_draw_event_id = ? AND payments.status = ? AND tickets.status = ?",
				res.WinnerID, eventID, models.PaymentApproved, models.TicketActive).
			Order("tickets.created_at ASC").
			First(&ticket).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrWinnerTicketMissing
			}
			return err
		}

		winner = models.Winner{
			ID:                 uuid.New(),
			FortuneDrawEventID: eventID,
			UserID:             res.WinnerID,
			TicketID:           ticket.ID,
			PrizeAmount:        event.PrizeAmount,
			BaseEntries:        res.BaseEntries,
			BonusEntries:       res.BonusEntries,
			TotalWeight:        res.TotalWeight,
			TotalParticipants:  res.TotalParticipants,
			TotalWeightPool:    res.TotalWeightPool,
			WinningProbability: res.WinningProbability,
			AnnouncedAt:        time.Now(),
		}
		if err := tx.Create(&winner).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.FortuneDrawEvent{}).
			Where("id = ?", eventID).
			Update("status", models.EventDrawn).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Ticket{}).
			Where("id = ?", ticket.ID).
			Update("status", models.TicketWinner).Error; err != nil {
			return err
		}
		ticket.Status = models.TicketWinner
		return nil
	})
	if err != nil {
		return models.Winner{}, models.Ticket{}, err
	}
	return winner, ticket, nil
}
