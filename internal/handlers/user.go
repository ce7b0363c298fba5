package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/fortunedraw/backend/internal/config"
	"github.com/fortunedraw/backend/internal/models"
)

// CreateAdminUser creates a new back-office user.
func CreateAdminUser(c *gin.Context) {
	var input struct {
		Username string           `json:"username" binding:"required"`
		Email    string           `json:"email" binding:"required,email"`
		Password string           `json:"password" binding:"required,min=6"`
		Role     models.AdminRole `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload: " + err.Error()})
		return
	}

	switch input.Role {
	case models.RoleSuperAdmin, models.RoleAdmin, models.RoleReports:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	newAdmin := models.AdminUser{
		ID:           uuid.New(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hashed),
		Role:         input.Role,
	}
	if err := config.DB.Create(&newAdmin).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create admin user: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, newAdmin)
}

// ListAdminUsers returns all back-office users.
func ListAdminUsers(c *gin.Context) {
	var admins []models.AdminUser
	if err := config.DB.Find(&admins).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list admin users: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, admins)
}

// GetAdminUser returns one back-office user by ID.
func GetAdminUser(c *gin.Context) {
	uid, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid UUID format"})
		return
	}
	var admin models.AdminUser
	if err := config.DB.First(&admin, "id = ?", uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Admin user not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error: " + err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, admin)
}

// UpdateAdminUser updates email, password or role.
func UpdateAdminUser(c *gin.Context) {
	uid, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid UUID format"})
		return
	}

	var input struct {
		Email    *string           `json:"email,omitempty" binding:"omitempty,email"`
		Password *string           `json:"password,omitempty" binding:"omitempty,min=6"`
		Role     *models.AdminRole `json:"role,omitempty"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload: " + err.Error()})
		return
	}

	var admin models.AdminUser
	if err := config.DB.First(&admin, "id = ?", uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Admin user not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error: " + err.Error()})
		}
		return
	}

	if input.Email != nil {
		admin.Email = *input.Email
	}
	if input.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		admin.PasswordHash = string(hashed)
	}
	if input.Role != nil {
		switch *input.Role {
		case models.RoleSuperAdmin, models.RoleAdmin, models.RoleReports:
			admin.Role = *input.Role
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
			return
		}
	}

	if err := config.DB.Save(&admin).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update admin user: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, admin)
}

// DeleteAdminUser removes a back-office user.
func DeleteAdminUser(c *gin.Context) {
	uid, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid UUID format"})
		return
	}
	if err := config.DB.Delete(&models.AdminUser{}, "id = ?", uid).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete admin user: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Admin user deleted"})
}
