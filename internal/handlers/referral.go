package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fortunedraw/backend/internal/config"
	"github.com/fortunedraw/backend/internal/models"
)

// GetUserReferrals handles GET /api/v1/referrals for the authenticated user.
func GetUserReferrals(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	type referralRow struct {
		models.Referral
		Name                string  `json:"name"`
		Email               string  `json:"email"`
		Mobile              string  `json:"mobile"`
		Amount              *int    `json:"amount,omitempty"`
		PaymentVerification *string `gorm:"column:payment_verification_status" json:"payment_verification_status,omitempty"`
	}

	var rows []referralRow
	if err := config.DB.Table("referrals").
		Select("referrals.*, users.name, users.email, users.mobile, payments.amount, payments.status as payment_verification_status").
		Joins("JOIN users ON users.id = referrals.referred_user_id").
		Joins("LEFT JOIN payments ON payments.id = referrals.payment_id").
		Where("referrals.referrer_id = ?", userID).
		Order("referrals.created_at desc").
		Scan(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch referrals: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// GetReferralStats handles GET /api/v1/referrals/stats for the authenticated user.
func GetReferralStats(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	type referralStats struct {
		TotalReferrals    int `json:"total_referrals"`
		PaidReferrals     int `json:"paid_referrals"`
		PendingReferrals  int `json:"pending_referrals"`
		TotalBonusEntries int `json:"total_bonus_entries"`
	}

	var stats referralStats
	if err := config.DB.Raw(`
		SELECT
			COUNT(*) AS total_referrals,
			COUNT(CASE WHEN payment_status = 'paid' THEN 1 END) AS paid_referrals,
			COUNT(CASE WHEN payment_status = 'pending' THEN 1 END) AS pending_referrals,
			COALESCE(SUM(bonus_entries_awarded), 0) AS total_bonus_entries
		FROM referrals
		WHERE referrer_id = ?`, userID).Scan(&stats).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch referral statistics: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetReferralTree handles GET /api/v1/admin/referrals/:userId/tree — direct
// referrals of a user with each referred user's approved ticket count.
func GetReferralTree(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	type treeRow struct {
		models.Referral
		Name             string `json:"name"`
		Email            string `json:"email"`
		Mobile           string `json:"mobile"`
		TicketsPurchased int    `json:"tickets_purchased"`
	}

	var rows []treeRow
	if err := config.DB.Table("referrals").
		Select(`referrals.*, users.name, users.email, users.mobile,
			COUNT(DISTINCT CASE WHEN payments.status = 'approved' THEN tickets.id END) as tickets_purchased`).
		Joins("JOIN users ON users.id = referrals.referred_user_id").
		Joins("LEFT JOIN tickets ON tickets.user_id = users.id").
		Joins("LEFT JOIN payments ON payments.id = tickets.payment_id").
		Where("referrals.referrer_id = ?", userID).
		Group("referrals.id, users.id").
		Scan(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch referral tree: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, rows)
}
