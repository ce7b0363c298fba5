package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fortunedraw/backend/internal/config"
	"github.com/fortunedraw/backend/internal/models"
)

// ----- Payloads -----
type eventCreatePayload struct {
	Name             string `json:"name" binding:"required"`
	TicketPrice      int    `json:"ticket_price" binding:"required,min=1"`
	PrizeAmount      int    `json:"prize_amount" binding:"required,min=1"`
	PrizeDescription string `json:"prize_description,omitempty"`
	DrawDate         string `json:"draw_date,omitempty" binding:"omitempty,datetime=2006-01-02"`
}

type eventUpdatePayload struct {
	Name             *string `json:"name,omitempty"`
	TicketPrice      *int    `json:"ticket_price,omitempty" binding:"omitempty,min=1"`
	PrizeAmount      *int    `json:"prize_amount,omitempty" binding:"omitempty,min=1"`
	PrizeDescription *string `json:"prize_description,omitempty"`
	DrawDate         *string `json:"draw_date,omitempty" binding:"omitempty,datetime=2006-01-02"`
}

type eventStatusPayload struct {
	Status            *models.EventStatus `json:"status,omitempty"`
	RegistrationsOpen *bool               `json:"registrations_open,omitempty"`
}

// ----- Handlers -----
// ListEvents: GET /api/v1/admin/lottery-events
func ListEvents(c *gin.Context) {
	var events []models.FortuneDrawEvent
	if err := config.DB.Order("created_at desc").Find(&events).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list events: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, events)
}

// GetEvent: GET /api/v1/admin/lottery-events/:id
func GetEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event ID"})
		return
	}

	var event models.FortuneDrawEvent
	if err := config.DB.First(&event, "id = ?", eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error: " + err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, event)
}

// CreateEvent: POST /api/v1/admin/lottery-events — always born in draft.
func CreateEvent(c *gin.Context) {
	var payload eventCreatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload: " + err.Error()})
		return
	}

	event := models.FortuneDrawEvent{
		ID:               uuid.New(),
		Name:             payload.Name,
		TicketPrice:      payload.TicketPrice,
		PrizeAmount:      payload.PrizeAmount,
		PrizeDescription: payload.PrizeDescription,
		Status:           models.EventDraft,
	}
	if payload.DrawDate != "" {
		d, err := time.Parse("2006-01-02", payload.DrawDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid draw_date format"})
			return
		}
		event.DrawDate = &d
	}

	if err := config.DB.Create(&event).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create event: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, event)
}

// UpdateEvent: PUT /api/v1/admin/lottery-events/:id — drawn events are frozen.
func UpdateEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event ID"})
		return
	}

	var payload eventUpdatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload: " + err.Error()})
		return
	}

	var event models.FortuneDrawEvent
	if err := config.DB.First(&event, "id = ?", eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error: " + err.Error()})
		}
		return
	}
	if event.Status == models.EventDrawn {
		c.JSON(http.StatusConflict, gin.H{"error": "event has been drawn and can no longer be edited"})
		return
	}

	if payload.Name != nil {
		event.Name = *payload.Name
	}
	if payload.TicketPrice != nil {
		event.TicketPrice = *payload.TicketPrice
	}
	if payload.PrizeAmount != nil {
		event.PrizeAmount = *payload.PrizeAmount
	}
	if payload.PrizeDescription != nil {
		event.PrizeDescription = *payload.PrizeDescription
	}
	if payload.DrawDate != nil {
		d, err := time.Parse("2006-01-02", *payload.DrawDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid draw_date format"})
			return
		}
		event.DrawDate = &d
	}

	if err := config.DB.Save(&event).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update event: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, event)
}

// validStatusTransition encodes the lifecycle: draft -> active -> closed.
// The drawn state is terminal and only ever set by the draw commit itself.
func validStatusTransition(from, to models.EventStatus) bool {
	switch from {
	case models.EventDraft:
		return to == models.EventActive
	case models.EventActive:
		return to == models.EventClosed
	case models.EventClosed:
		return to == models.EventActive
	default:
		return false
	}
}

// UpdateEventStatus: PATCH /api/v1/admin/lottery-events/:id/status
func UpdateEventStatus(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event ID"})
		return
	}

	var payload eventStatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload: " + err.Error()})
		return
	}
	if payload.Status == nil && payload.RegistrationsOpen == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
		return
	}

	var event models.FortuneDrawEvent
	if err := config.DB.First(&event, "id = ?", eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error: " + err.Error()})
		}
		return
	}

	if payload.Status != nil {
		if !validStatusTransition(event.Status, *payload.Status) {
			c.JSON(http.StatusConflict, gin.H{
				"error": "invalid status transition " + string(event.Status) + " -> " + string(*payload.Status),
			})
			return
		}
		event.Status = *payload.Status
		// Closing an event stops registrations with it.
		if event.Status == models.EventClosed {
			event.RegistrationsOpen = false
		}
	}
	if payload.RegistrationsOpen != nil {
		if *payload.RegistrationsOpen && event.Status != models.EventActive {
			c.JSON(http.StatusConflict, gin.H{"error": "registrations can only be opened on an active event"})
			return
		}
		event.RegistrationsOpen = *payload.RegistrationsOpen
	}

	if err := config.DB.Save(&event).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update event: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, event)
}
