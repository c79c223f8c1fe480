package handlers

import (
	"fmt"
	"net/http"

	"barbearia-backend/models"
	"barbearia-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SettingsHandler manages the shop calendar: the weekly default hours and
// the per-date overrides that replace them.
type SettingsHandler struct {
	DB *gorm.DB
}

func (h *SettingsHandler) GetSchedule(c *gin.Context) {
	var rules []models.ScheduleRule
	if err := h.DB.Order("day_of_week").Find(&rules).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch schedule"})
		return
	}

	c.JSON(http.StatusOK, rules)
}

func (h *SettingsHandler) UpdateSchedule(c *gin.Context) {
	var req []struct {
		DayOfWeek *int   `json:"day_of_week" binding:"required"`
		Active    bool   `json:"active"`
		StartTime string `json:"start_time"`
		EndTime   string `json:"end_time"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	for _, r := range req {
		day := *r.DayOfWeek
		if day < 0 || day > 6 {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("day_of_week %d out of range 0-6", day)})
			return
		}
		// Times only matter for open days. end <= start is allowed and means
		// the shift runs past midnight.
		if r.Active {
			if err := utils.ValidateClockTime(r.StartTime); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if err := utils.ValidateClockTime(r.EndTime); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
		}

		updates := map[string]interface{}{"active": r.Active}
		if r.Active {
			updates["start_time"] = r.StartTime
			updates["end_time"] = r.EndTime
		}

		result := h.DB.Model(&models.ScheduleRule{}).Where("day_of_week = ?", day).Updates(updates)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update schedule"})
			return
		}
		if result.RowsAffected == 0 {
			rule := models.ScheduleRule{DayOfWeek: day, Active: r.Active, StartTime: r.StartTime, EndTime: r.EndTime}
			if !r.Active {
				rule.StartTime = "09:00"
				rule.EndTime = "19:00"
			}
			// Insert active explicitly; Create skips zero-valued fields
			// that carry a column default, which would store false as true.
			if err := h.DB.Select("ID", "DayOfWeek", "Active", "StartTime", "EndTime", "CreatedAt", "UpdatedAt").Create(&rule).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update schedule"})
				return
			}
		}
	}

	var rules []models.ScheduleRule
	h.DB.Order("day_of_week").Find(&rules)
	c.JSON(http.StatusOK, rules)
}

func (h *SettingsHandler) GetOverrides(c *gin.Context) {
	var overrides []models.DateOverride
	if err := h.DB.Order("date").Find(&overrides).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch overrides"})
		return
	}

	c.JSON(http.StatusOK, overrides)
}

// PutOverride creates or replaces the override for one calendar date,
// e.g. a holiday closure or special hours.
func (h *SettingsHandler) PutOverride(c *gin.Context) {
	dateKey := c.Param("date")
	if err := utils.ValidateDateKey(dateKey); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req struct {
		Active    bool   `json:"active"`
		StartTime string `json:"start_time"`
		EndTime   string `json:"end_time"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	if req.Active {
		if err := utils.ValidateClockTime(req.StartTime); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := utils.ValidateClockTime(req.EndTime); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	var override models.DateOverride
	err := h.DB.Where("date = ?", dateKey).First(&override).Error
	if err != nil {
		override = models.DateOverride{
			Date:      dateKey,
			Active:    req.Active,
			StartTime: req.StartTime,
			EndTime:   req.EndTime,
		}
		if !req.Active && req.StartTime == "" {
			override.StartTime = "09:00"
			override.EndTime = "19:00"
		}
		// Same as the schedule upsert: force the insert to carry active
		// even when it is false, or the column default wins.
		if err := h.DB.Select("ID", "Date", "Active", "StartTime", "EndTime", "CreatedAt", "UpdatedAt").Create(&override).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save override"})
			return
		}
		c.JSON(http.StatusCreated, override)
		return
	}

	updates := map[string]interface{}{"active": req.Active}
	if req.Active {
		updates["start_time"] = req.StartTime
		updates["end_time"] = req.EndTime
	}
	if err := h.DB.Model(&override).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save override"})
		return
	}

	h.DB.Where("date = ?", dateKey).First(&override)
	c.JSON(http.StatusOK, override)
}

// DeleteOverride removes the exception for a date, restoring the weekly default.
func (h *SettingsHandler) DeleteOverride(c *gin.Context) {
	dateKey := c.Param("date")
	if err := utils.ValidateDateKey(dateKey); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := h.DB.Where("date = ?", dateKey).Delete(&models.DateOverride{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete override"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No override for that date"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Override removed"})
}
