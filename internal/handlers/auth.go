// internal/handlers/auth.go

package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/fortunedraw/backend/internal/auth"
	"github.com/fortunedraw/backend/internal/config"
	"github.com/fortunedraw/backend/internal/models"
)

// registerRequest defines the JSON payload for participant sign-up.
type registerRequest struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Mobile       string `json:"mobile" binding:"required"`
	Password     string `json:"password" binding:"required,min=6"`
	ReferralCode string `json:"referral_code,omitempty"`
}

// loginRequest defines the JSON payload for login.
type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register creates a participant account. If a valid referral code was
// supplied, a pending referral edge is recorded for the referrer; it flips to
// paid once this user's first payment is approved.
func Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload: " + err.Error()})
		return
	}

	var referrer *models.User
	if req.ReferralCode != "" {
		var u models.User
		if err := config.DB.Where("referral_code = ?", strings.ToUpper(req.ReferralCode)).First(&u).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown referral code"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			}
			return
		}
		referrer = &u
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	newUser := models.User{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        req.Email,
		Mobile:       req.Mobile,
		PasswordHash: string(hashed),
		ReferralCode: generateReferralCode(),
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&newUser).Error; err != nil {
			return err
		}
		if referrer != nil {
			ref := models.Referral{
				ID:             uuid.New(),
				ReferrerID:     referrer.ID,
				ReferredUserID: newUser.ID,
				PaymentStatus:  models.ReferralPending,
			}
			return tx.Create(&ref).Error
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user: " + err.Error()})
		return
	}

	token, err := auth.GenerateJWT(newUser.ID.String(), newUser.Name, auth.AudienceUser, "")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token":         token,
		"user_id":       newUser.ID.String(),
		"referral_code": newUser.ReferralCode,
	})
}

// Login authenticates a participant and returns a JWT.
func Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid login payload: " + err.Error()})
		return
	}

	var user models.User
	if err := config.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := auth.GenerateJWT(user.ID.String(), user.Name, auth.AudienceUser, "")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":         token,
		"user_id":       user.ID.String(),
		"name":          user.Name,
		"referral_code": user.ReferralCode,
	})
}

// AdminLogin authenticates a back-office user and returns a JWT.
func AdminLogin(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid login payload: " + err.Error()})
		return
	}

	var admin models.AdminUser
	if err := config.DB.Where("username = ?", req.Username).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	token, err := auth.GenerateJWT(admin.ID.String(), admin.Username, auth.AudienceAdmin, string(admin.Role))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":    token,
		"admin_id": admin.ID.String(),
		"username": admin.Username,
		"role":     admin.Role,
	})
}

func bearerClaims(c *gin.Context) (*auth.Claims, bool) {
	h := c.GetHeader("Authorization")
	if h == "" || !strings.HasPrefix(h, "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
		return nil, false
	}
	claims, err := auth.ParseAndVerify(strings.TrimPrefix(h, "Bearer "))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token: " + err.Error()})
		return nil, false
	}
	return claims, true
}

// RequireUser guards participant endpoints.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := bearerClaims(c)
		if !ok {
			return
		}
		if claims.Audience != auth.AudienceUser {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "User token required"})
			return
		}
		uid, err := uuid.Parse(claims.SubjectID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Malformed subject in token"})
			return
		}
		c.Set("user_id", uid)
		c.Next()
	}
}

// RequireAdmin guards back-office endpoints. Pass allowed roles for
// role-based guarding (e.g. only SUPERADMIN may run a draw).
func RequireAdmin(allowedRoles ...models.AdminRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := bearerClaims(c)
		if !ok {
			return
		}
		if claims.Audience != auth.AudienceAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin token required"})
			return
		}
		if len(allowedRoles) > 0 {
			valid := false
			for _, r := range allowedRoles {
				if string(r) == claims.Role {
					valid = true
					break
				}
			}
			if !valid {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden for role: " + claims.Role})
				return
			}
		}
		aid, err := uuid.Parse(claims.SubjectID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Malformed subject in token"})
			return
		}
		c.Set("admin_id", aid)
		c.Set("admin_role", claims.Role)
		c.Next()
	}
}
