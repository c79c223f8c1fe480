package handlers

import (
	"net/http"

	"barbearia-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BarberHandler struct {
	DB *gorm.DB
}

// GetBarbers lists the barbers a client can book with.
func (h *BarberHandler) GetBarbers(c *gin.Context) {
	var barbers []models.User
	if err := h.DB.Where("role IN ? AND is_blocked = ?", []string{"barber", "admin"}, false).
		Order("name").
		Find(&barbers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch barbers"})
		return
	}

	result := make([]gin.H, 0, len(barbers))
	for _, b := range barbers {
		result = append(result, gin.H{
			"id":   b.ID,
			"name": b.Name,
		})
	}

	c.JSON(http.StatusOK, result)
}

// GetAllBarbers is the admin view, including blocked accounts and emails.
func (h *BarberHandler) GetAllBarbers(c *gin.Context) {
	var barbers []models.User
	if err := h.DB.Where("role = ?", "barber").Order("name").Find(&barbers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch barbers"})
		return
	}

	c.JSON(http.StatusOK, barbers)
}

// SetBlocked blocks or unblocks a barber account.
func (h *BarberHandler) SetBlocked(c *gin.Context) {
	barberID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid barber id"})
		return
	}

	var req struct {
		IsBlocked *bool `json:"is_blocked" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "is_blocked is required"})
		return
	}

	var barber models.User
	if err := h.DB.Where("id = ? AND role = ?", barberID, "barber").First(&barber).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Barber not found"})
		return
	}

	if err := h.DB.Model(&barber).Update("is_blocked", *req.IsBlocked).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update barber"})
		return
	}

	barber.IsBlocked = *req.IsBlocked
	c.JSON(http.StatusOK, barber)
}
