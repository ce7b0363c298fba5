package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdminRole enumerates allowed back-office roles.
type AdminRole string

const (
	RoleSuperAdmin AdminRole = "SUPERADMIN"
	RoleAdmin      AdminRole = "ADMIN"
	RoleReports    AdminRole = "REPORTS"
)

// EventStatus is the lifecycle of a fortune draw event.
// draft -> active (registrations accepted) -> closed (no new tickets) -> drawn (terminal).
type EventStatus string

const (
	EventDraft  EventStatus = "draft"
	EventActive EventStatus = "active"
	EventClosed EventStatus = "closed"
	EventDrawn  EventStatus = "drawn"
)

// PaymentStatus enumerates payment verification states.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentApproved PaymentStatus = "approved"
	PaymentRejected PaymentStatus = "rejected"
)

// TicketStatus enumerates ticket states. A ticket only leaves "active"
// when it is the single ticket selected in a draw.
type TicketStatus string

const (
	TicketActive TicketStatus = "active"
	TicketWinner TicketStatus = "winner"
)

// ReferralStatus tracks whether the referred user has made an approved payment.
type ReferralStatus string

const (
	ReferralPending ReferralStatus = "pending"
	ReferralPaid    ReferralStatus = "paid"
)

// User is a lottery participant.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	Mobile       string    `gorm:"not null" json:"mobile"`
	PasswordHash string    `gorm:"not null" json:"-"`
	ReferralCode string    `gorm:"uniqueIndex;not null" json:"referral_code"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AdminUser is a back-office user who can manage events and run draws.
type AdminUser struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         AdminRole `gorm:"not null" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FortuneDrawEvent is one lottery round with its own ticket price, prize and lifecycle.
type FortuneDrawEvent struct {
	ID                uuid.UUID   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name              string      `gorm:"not null" json:"name"`
	TicketPrice       int         `gorm:"not null" json:"ticket_price"` // smallest currency unit
	PrizeAmount       int         `gorm:"not null" json:"prize_amount"`
	PrizeDescription  string      `json:"prize_description"`
	Status            EventStatus `gorm:"not null;default:'draft';index" json:"status"`
	RegistrationsOpen bool        `gorm:"not null;default:false" json:"registrations_open"`
	DrawDate          *time.Time  `json:"draw_date,omitempty"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

// Payment records a ticket purchase awaiting (or past) verification.
type Payment struct {
	ID                 uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PaymentRef         string        `gorm:"uniqueIndex;not null" json:"payment_ref"`
	UserID             uuid.UUID     `gorm:"type:uuid;not null;index" json:"user_id"`
	FortuneDrawEventID uuid.UUID     `gorm:"type:uuid;not null;index" json:"fortune_draw_event_id"`
	Amount             int           `gorm:"not null" json:"amount"`
	Status             PaymentStatus `gorm:"not null;default:'pending';index" json:"status"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

// Ticket belongs to exactly one user and one event, via the payment that bought it.
// Only tickets whose payment is approved and whose status is active count toward
// eligibility and weight.
type Ticket struct {
	ID                 uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TicketNumber       string       `gorm:"uniqueIndex;not null" json:"ticket_number"`
	UserID             uuid.UUID    `gorm:"type:uuid;not null;index" json:"user_id"`
	FortuneDrawEventID uuid.UUID    `gorm:"type:uuid;not null;index" json:"fortune_draw_event_id"`
	PaymentID          uuid.UUID    `gorm:"type:uuid;not null;index" json:"payment_id"`
	Payment            Payment      `gorm:"foreignKey:PaymentID" json:"-"`
	Status             TicketStatus `gorm:"not null;default:'active'" json:"status"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
}

// Referral is the directed edge referrer -> referred user. It is created at
// registration time and flips to paid when the referred user's first payment
// is approved. Paid referrals add bonus entries to the referrer's weight in
// every draw, not just the one the referred purchase was for.
type Referral struct {
	ID                  uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ReferrerID          uuid.UUID      `gorm:"type:uuid;not null;index" json:"referrer_id"`
	ReferredUserID      uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"referred_user_id"`
	PaymentID           *uuid.UUID     `gorm:"type:uuid" json:"payment_id,omitempty"`
	PaymentStatus       ReferralStatus `gorm:"not null;default:'pending';index" json:"payment_status"`
	BonusEntriesAwarded int            `gorm:"not null;default:0" json:"bonus_entries_awarded"`
	PaidAt              *time.Time     `json:"paid_at,omitempty"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

// Winner is the single draw result committed for an event. The unique index on
// FortuneDrawEventID is what enforces "at most one winner per event" at the
// storage layer.
type Winner struct {
	ID                 uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	FortuneDrawEventID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"fortune_draw_event_id"`
	UserID             uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	TicketID           uuid.UUID `gorm:"type:uuid;not null" json:"ticket_id"`
	PrizeAmount        int       `gorm:"not null" json:"prize_amount"`
	BaseEntries        int       `gorm:"not null" json:"base_entries"`
	BonusEntries       int       `gorm:"not null" json:"bonus_entries"`
	TotalWeight        int       `gorm:"not null" json:"total_weight"`
	TotalParticipants  int       `gorm:"not null" json:"total_participants"`
	TotalWeightPool    int       `gorm:"not null" json:"total_weight_pool"`
	WinningProbability string    `gorm:"not null" json:"winning_probability"`
	AnnouncedAt        time.Time `gorm:"not null" json:"announced_at"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Migrate will create/update the tables.
func Migrate(db *gorm.DB) {
	db.AutoMigrate(
		&User{},
		&AdminUser{},
		&FortuneDrawEvent{},
		&Payment{},
		&Ticket{},
		&Referral{},
		&Winner{},
	)
}
