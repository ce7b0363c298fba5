package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fortunedraw/backend/internal/config"
	"github.com/fortunedraw/backend/internal/models"
)

// submitPaymentRequest is the payload for a manual ticket purchase. Gateway
// capture is out of scope here; an admin verifies the payment afterwards.
type submitPaymentRequest struct {
	FortuneDrawEventID string `json:"fortune_draw_event_id" binding:"required"`
	Amount             int    `json:"amount,omitempty"`
}

// SubmitPayment handles POST /api/v1/payments. The payment lands in pending;
// the ticket is only issued on approval.
func SubmitPayment(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	var req submitPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload: " + err.Error()})
		return
	}
	eventID, err := uuid.Parse(req.FortuneDrawEventID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	var event models.FortuneDrawEvent
	if err := config.DB.
		Where("id = ? AND status = ? AND registrations_open = ?", eventID, models.EventActive, true).
		First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Lottery event is not active or registrations are closed"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return
	}

	amount := req.Amount
	if amount == 0 {
		amount = event.TicketPrice
	}

	payment := models.Payment{
		ID:                 uuid.New(),
		PaymentRef:         generatePaymentRef(),
		UserID:             userID,
		FortuneDrawEventID: eventID,
		Amount:             amount,
		Status:             models.PaymentPending,
	}
	if err := config.DB.Create(&payment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Payment submission failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Payment submitted successfully. Awaiting verification.",
		"payment_ref": payment.PaymentRef,
		"amount":      payment.Amount,
		"status":      payment.Status,
	})
}

// ListPayments handles GET /api/v1/admin/payments with an optional status filter.
func ListPayments(c *gin.Context) {
	q := config.DB.Order("created_at desc")
	if status := c.Query("status"); status != "" {
		switch models.PaymentStatus(status) {
		case models.PaymentPending, models.PaymentApproved, models.PaymentRejected:
			q = q.Where("status = ?", status)
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
			return
		}
	}
	var payments []models.Payment
	if err := q.Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list payments: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, payments)
}

// ApprovePayment handles POST /api/v1/admin/payments/:id/approve. One
// transaction approves the payment, issues the ticket and flips the payer's
// pending referral to paid (one bonus entry for the referrer).
func ApprovePayment(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment ID"})
		return
	}

	var ticket models.Ticket
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		var payment models.Payment
		if err := tx.First(&payment, "id = ?", paymentID).Error; err != nil {
			return err
		}
		if payment.Status != models.PaymentPending {
			return errPaymentNotPending
		}

		if err := tx.Model(&models.Payment{}).
			Where("id = ?", payment.ID).
			Update("status", models.PaymentApproved).Error; err != nil {
			return err
		}

		ticket = models.Ticket{
			ID:                 uuid.New(),
			TicketNumber:       generateTicketNumber(shortID(payment.FortuneDrawEventID)),
			UserID:             payment.UserID,
			FortuneDrawEventID: payment.FortuneDrawEventID,
			PaymentID:          payment.ID,
			Status:             models.TicketActive,
		}
		if err := tx.Create(&ticket).Error; err != nil {
			return err
		}

		// First approved payment settles the referral that brought this user in.
		now := time.Now()
		return tx.Model(&models.Referral{}).
			Where("referred_user_id = ? AND payment_status = ?", payment.UserID, models.ReferralPending).
			Updates(map[string]interface{}{
				"payment_status":        models.ReferralPaid,
				"payment_id":            payment.ID,
				"paid_at":               now,
				"bonus_entries_awarded": 1,
			}).Error
	})
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
		case errors.Is(err, errPaymentNotPending):
			c.JSON(http.StatusConflict, gin.H{"error": "Payment is not pending"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve payment: " + err.Error()})
		}
		return
	}

	logger.Infof("payment %s approved, ticket %s issued", paymentID, ticket.TicketNumber)
	c.JSON(http.StatusOK, gin.H{
		"message": "Payment approved",
		"ticket":  ticket,
	})
}

// RejectPayment handles POST /api/v1/admin/payments/:id/reject.
func RejectPayment(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment ID"})
		return
	}

	res := config.DB.Model(&models.Payment{}).
		Where("id = ? AND status = ?", paymentID, models.PaymentPending).
		Update("status", models.PaymentRejected)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reject payment: " + res.Error.Error()})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Payment not found or not pending"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payment rejected"})
}

var errPaymentNotPending = errors.New("payment is not pending")

// shortID keeps ticket numbers readable: the first UUID group is enough to
// eyeball which event a ticket belongs to.
func shortID(id uuid.UUID) string {
	s := id.String()
	return s[:8]
}
