package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fortunedraw/backend/internal/config"
	"github.com/fortunedraw/backend/internal/draw"
	"github.com/fortunedraw/backend/internal/models"
	"github.com/fortunedraw/backend/internal/rng"
	"github.com/fortunedraw/backend/internal/store"
)

// GetActiveLotteries handles GET /api/v1/lottery/active
func GetActiveLotteries(c *gin.Context) {
	var events []models.FortuneDrawEvent
	if err := config.DB.
		Where("status = ?", models.EventActive).
		Order("ticket_price asc").
		Find(&events).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch active lottery: " + err.Error()})
		return
	}
	if len(events) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No active lottery event found"})
		return
	}
	c.JSON(http.StatusOK, events)
}

// GetLotteryStats handles GET /api/v1/lottery/:eventId/stats
func GetLotteryStats(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	var event models.FortuneDrawEvent
	if err := config.DB.First(&event, "id = ?", eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Lottery event not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return
	}

	st := store.New(config.DB)
	eligible := draw.NewEligibilitySet(st)
	calc := draw.NewWeightCalculator(st, st)

	userIDs, err := eligible.EligibleUsers(eventID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute statistics: " + err.Error()})
		return
	}

	ticketsSold := 0
	weightPool := 0
	for _, uid := range userIDs {
		pw, err := calc.ComputeWeight(uid, eventID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute statistics: " + err.Error()})
			return
		}
		ticketsSold += pw.BaseEntries
		weightPool += pw.TotalWeight
	}

	c.JSON(http.StatusOK, gin.H{
		"event":              event,
		"total_participants": len(userIDs),
		"tickets_sold":       ticketsSold,
		"total_weight_pool":  weightPool,
	})
}

// GetUserWinningChance handles GET /api/v1/lottery/:eventId/winning-chance.
// It must use the exact same weight formula as the real draw, so it goes
// through the same selector.
func GetUserWinningChance(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}
	userID := c.MustGet("user_id").(uuid.UUID)

	st := store.New(config.DB)
	selector := draw.NewSelector(st, st, rng.Default())

	preview, err := selector.WinningChance(userID, eventID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to calculate winning chance: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, preview)
}

// DrawWinner handles POST /api/v1/admin/lottery/:eventId/draw. The selector
// only computes the decision; persistence happens through one commit-if-absent
// transaction, so a concurrent duplicate draw loses at the commit.
func DrawWinner(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	var event models.FortuneDrawEvent
	if err := config.DB.
		Where("id = ? AND status = ?", eventID, models.EventActive).
		First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Lottery event not found or not active"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return
	}

	// Cheap precondition; the commit re-checks under a row lock.
	var existing int64
	if err := config.DB.Model(&models.Winner{}).
		Where("fortune_draw_event_id = ?", eventID).
		Count(&existing).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if existing > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Winner has already been drawn for this lottery"})
		return
	}

	st := store.New(config.DB)
	selector := draw.NewSelector(st, st, rng.Default())

	result, err := selector.SelectWinner(eventID)
	if err != nil {
		switch {
		case errors.Is(err, draw.ErrNoEligibleParticipants):
			c.JSON(http.StatusBadRequest, gin.H{"error": "No eligible participants for the lottery"})
		case errors.Is(err, draw.ErrNoValidWeight):
			c.JSON(http.StatusBadRequest, gin.H{"error": "No users with valid entries"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to draw winner: " + err.Error()})
		}
		return
	}
	if result.BoundaryFallback {
		logger.Warningf("draw %s: cumulative walk fell through to last participant (pool=%d)",
			eventID, result.TotalWeightPool)
	}

	winner, ticket, err := st.CommitResult(eventID, result)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrWinnerAlreadyDrawn):
			c.JSON(http.StatusConflict, gin.H{"error": "Winner has already been drawn for this lottery"})
		case errors.Is(err, store.ErrEventNotActive):
			c.JSON(http.StatusConflict, gin.H{"error": "Lottery event is no longer active"})
		case errors.Is(err, store.ErrWinnerTicketMissing):
			c.JSON(http.StatusConflict, gin.H{"error": "Winner ticket not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record winner: " + err.Error()})
		}
		return
	}

	var winnerUser models.User
	if err := config.DB.First(&winnerUser, "id = ?", winner.UserID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load winner details"})
		return
	}

	logger.Infof("draw %s: winner %s committed with probability %s",
		eventID, winner.UserID, result.WinningProbability)

	c.JSON(http.StatusOK, gin.H{
		"message":      "Winner drawn successfully",
		"winner":       winnerUser,
		"ticket":       ticket,
		"prize_amount": event.PrizeAmount,
		"statistics":   result,
	})
}
