package handlers

import (
	"net/http"

	"barbearia-backend/models"
	"barbearia-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PushHandler manages a barber's device token for new-appointment alerts.
type PushHandler struct {
	DB *gorm.DB
}

// Subscribe stores (or replaces) the barber's FCM device token.
func (h *PushHandler) Subscribe(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	barberID := userID.(uuid.UUID)

	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	var sub models.PushSubscription
	err := h.DB.Where("barber_id = ?", barberID).First(&sub).Error
	if err != nil {
		sub = models.PushSubscription{BarberID: barberID, Token: req.Token}
		if err := h.DB.Create(&sub).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save subscription"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Push notifications enabled"})
		return
	}

	if err := h.DB.Model(&sub).Update("token", req.Token).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Push notifications enabled"})
}

// Unsubscribe removes the barber's device token.
func (h *PushHandler) Unsubscribe(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result := h.DB.Where("barber_id = ?", userID).Delete(&models.PushSubscription{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Push notifications disabled"})
}
