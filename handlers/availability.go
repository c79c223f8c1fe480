package handlers

import (
	"net/http"
	"time"

	"barbearia-backend/models"
	"barbearia-backend/slots"
	"barbearia-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AvailabilityHandler answers "which slots can I book for this barber on
// this date". The clock is a field so tests can pin it.
type AvailabilityHandler struct {
	DB       *gorm.DB
	Location *time.Location
	Now      func() time.Time
}

func (h *AvailabilityHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now().In(h.location())
}

func (h *AvailabilityHandler) location() *time.Location {
	if h.Location != nil {
		return h.Location
	}
	return time.Local
}

// loadShopSchedule reads the weekly rules and date overrides into the
// planner's lookup maps.
func loadShopSchedule(db *gorm.DB) (slots.Weekly, slots.Overrides, error) {
	var rules []models.ScheduleRule
	if err := db.Find(&rules).Error; err != nil {
		return nil, nil, err
	}

	weekly := make(slots.Weekly, len(rules))
	for _, r := range rules {
		weekly[r.DayOfWeek] = slots.DayRule{Active: r.Active, Start: r.StartTime, End: r.EndTime}
	}

	var overrides []models.DateOverride
	if err := db.Find(&overrides).Error; err != nil {
		return nil, nil, err
	}

	dated := make(slots.Overrides, len(overrides))
	for _, o := range overrides {
		dated[o.Date] = slots.DayRule{Active: o.Active, Start: o.StartTime, End: o.EndTime}
	}

	return weekly, dated, nil
}

// occupiedInstants returns the date_time of every non-cancelled appointment
// for the barber inside date's two-day window.
func occupiedInstants(db *gorm.DB, barberID uuid.UUID, date time.Time) ([]time.Time, error) {
	from, to := slots.DayWindow(date)

	var appointments []models.Appointment
	err := db.Where("barber_id = ? AND date_time >= ? AND date_time < ? AND status <> ?",
		barberID, from, to, models.AppointmentStatusCancelled).
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}

	instants := make([]time.Time, len(appointments))
	for i, a := range appointments {
		instants[i] = a.DateTime
	}
	return instants, nil
}

func (h *AvailabilityHandler) GetAvailability(c *gin.Context) {
	barberIDStr := c.Query("barber_id")
	dateStr := c.Query("date")

	barberID, err := uuid.Parse(barberIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid barber_id"})
		return
	}
	if err := utils.ValidateDateKey(dateStr); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var barber models.User
	if err := h.DB.Where("id = ? AND role IN ? AND is_blocked = ?", barberID, []string{"barber", "admin"}, false).First(&barber).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Barber not found"})
		return
	}

	date, err := time.ParseInLocation("2006-01-02", dateStr, h.location())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date"})
		return
	}

	weekly, overrides, err := loadShopSchedule(h.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load schedule"})
		return
	}

	// An occupancy read failure must disable booking, never show "all free".
	instants, err := occupiedInstants(h.DB, barberID, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load appointments; please retry"})
		return
	}

	rule := slots.ResolveDayRule(date, weekly, overrides)
	daySlots, err := slots.Generate(date, rule, slots.OccupiedKeys(instants, date), h.now(), slots.DefaultInterval)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Schedule for this date is misconfigured"})
		return
	}

	result := make([]gin.H, 0, len(daySlots))
	for _, s := range daySlots {
		result = append(result, gin.H{
			"time":      s.Label,
			"available": !s.Taken,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"barber_id": barberID,
		"date":      dateStr,
		"open":      rule.Active,
		"slots":     result,
	})
}
