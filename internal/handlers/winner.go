package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fortunedraw/backend/internal/config"
	"github.com/fortunedraw/backend/internal/models"
)

// GetWinners handles GET /api/v1/lottery/winners, optionally filtered by
// fortune_draw_event_id.
func GetWinners(c *gin.Context) {
	type winnerRow struct {
		models.Winner
		Name         string     `json:"name"`
		Email        string     `json:"email"`
		Mobile       string     `json:"mobile"`
		TicketNumber string     `json:"ticket_number"`
		LotteryName  string     `json:"lottery_name"`
		DrawDate     *time.Time `json:"draw_date,omitempty"`
	}

	q := config.DB.Table("winners").
		Select("winners.*, users.name, users.email, users.mobile, tickets.ticket_number, fortune_draw_events.name as lottery_name, fortune_draw_events.draw_date").
		Joins("JOIN users ON users.id = winners.user_id").
		Joins("JOIN tickets ON tickets.id = winners.ticket_id").
		Joins("JOIN fortune_draw_events ON fortune_draw_events.id = winners.fortune_draw_event_id").
		Order("winners.announced_at desc")

	if eventIDStr := c.Query("fortune_draw_event_id"); eventIDStr != "" {
		eventID, err := uuid.Parse(eventIDStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID filter"})
			return
		}
		q = q.Where("winners.fortune_draw_event_id = ?", eventID)
	}

	var rows []winnerRow
	if err := q.Scan(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch winners: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, rows)
}
