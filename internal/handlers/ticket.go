package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fortunedraw/backend/internal/config"
	"github.com/fortunedraw/backend/internal/models"
)

// GetUserTickets handles GET /api/v1/tickets for the authenticated user,
// optionally filtered by fortune_draw_event_id.
func GetUserTickets(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	type ticketRow struct {
		models.Ticket
		PaymentStatus models.PaymentStatus `json:"payment_status"`
		Amount        int                  `json:"amount"`
		LotteryName   string               `json:"lottery_name"`
		DrawDate      *time.Time           `json:"draw_date,omitempty"`
	}

	q := config.DB.Table("tickets").
		Select("tickets.*, payments.status as payment_status, payments.amount, fortune_draw_events.name as lottery_name, fortune_draw_events.draw_date").
		Joins("JOIN payments ON payments.id = tickets.payment_id").
		Joins("JOIN fortune_draw_events ON fortune_draw_events.id = tickets.fortune_draw_event_id").
		Where("tickets.user_id = ?", userID).
		Order("tickets.created_at desc")

	if eventIDStr := c.Query("fortune_draw_event_id"); eventIDStr != "" {
		eventID, err := uuid.Parse(eventIDStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID filter"})
			return
		}
		q = q.Where("tickets.fortune_draw_event_id = ?", eventID)
	}

	var rows []ticketRow
	if err := q.Scan(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tickets: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// GetTicketStats handles GET /api/v1/tickets/stats for the authenticated user.
func GetTicketStats(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	type ticketStats struct {
		TotalTickets    int `json:"total_tickets"`
		ApprovedTickets int `json:"approved_tickets"`
		PendingTickets  int `json:"pending_tickets"`
		RejectedTickets int `json:"rejected_tickets"`
		TotalSpent      int `json:"total_spent"`
	}

	query := `
		SELECT
			COUNT(DISTINCT tickets.id) AS total_tickets,
			COUNT(DISTINCT CASE WHEN payments.status = 'approved' THEN tickets.id END) AS approved_tickets,
			COUNT(DISTINCT CASE WHEN payments.status = 'pending' THEN tickets.id END) AS pending_tickets,
			COUNT(DISTINCT CASE WHEN payments.status = 'rejected' THEN tickets.id END) AS rejected_tickets,
			COALESCE(SUM(CASE WHEN payments.status = 'approved' THEN payments.amount ELSE 0 END), 0) AS total_spent
		FROM tickets
		JOIN payments ON payments.id = tickets.payment_id
		WHERE tickets.user_id = ?`
	args := []interface{}{userID}

	if eventIDStr := c.Query("fortune_draw_event_id"); eventIDStr != "" {
		eventID, err := uuid.Parse(eventIDStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID filter"})
			return
		}
		query += " AND tickets.fortune_draw_event_id = ?"
		args = append(args, eventID)
	}

	var stats ticketStats
	if err := config.DB.Raw(query, args...).Scan(&stats).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch ticket statistics: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}
