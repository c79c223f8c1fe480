package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"barbearia-backend/firebase"
	"barbearia-backend/models"
	"barbearia-backend/realtime"
	"barbearia-backend/slots"
	"barbearia-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentHandler struct {
	DB        *gorm.DB
	Hub       *realtime.Hub
	Messenger firebase.Messenger
	Location  *time.Location
	Now       func() time.Time
}

func (h *AppointmentHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now().In(h.location())
}

func (h *AppointmentHandler) location() *time.Location {
	if h.Location != nil {
		return h.Location
	}
	return time.Local
}

// Create books a slot. The day rule and occupancy are re-resolved at booking
// time; the partial unique index on (barber_id, date_time) is the final
// arbiter when two clients race for the same slot.
func (h *AppointmentHandler) Create(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	clientID := userID.(uuid.UUID)

	var req struct {
		BarberID   string   `json:"barber_id" binding:"required"`
		Date       string   `json:"date" binding:"required"` // yyyy-MM-dd
		Time       string   `json:"time" binding:"required"` // HH:MM
		ServiceIDs []string `json:"service_ids"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	barberID, err := uuid.Parse(req.BarberID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid barber_id"})
		return
	}
	if err := utils.ValidateDateKey(req.Date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateClockTime(req.Time); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var barber models.User
	if err := h.DB.Where("id = ? AND role IN ? AND is_blocked = ?", barberID, []string{"barber", "admin"}, false).First(&barber).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Barber not found"})
		return
	}

	date, err := time.ParseInLocation("2006-01-02", req.Date, h.location())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date"})
		return
	}

	weekly, overrides, err := loadShopSchedule(h.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load schedule"})
		return
	}

	instants, err := occupiedInstants(h.DB, barberID, date)
	if err != nil {
		// Booking with unknown occupancy risks a double booking; refuse.
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify availability; please retry"})
		return
	}

	rule := slots.ResolveDayRule(date, weekly, overrides)
	daySlots, err := slots.Generate(date, rule, slots.OccupiedKeys(instants, date), h.now(), slots.DefaultInterval)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Schedule for this date is misconfigured"})
		return
	}

	var chosen *slots.Slot
	for i := range daySlots {
		if daySlots[i].Label == req.Time {
			chosen = &daySlots[i]
			break
		}
	}
	if chosen == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Requested time is not a bookable slot on this date"})
		return
	}
	// The planner only drops elapsed slots on the current day, so a fully
	// past date still generates a slot list. Reject it here.
	if !chosen.Instant.After(h.now()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot book a slot in the past"})
		return
	}
	if chosen.Taken {
		c.JSON(http.StatusConflict, gin.H{"error": "This slot is already taken"})
		return
	}

	// Resolve services and price the appointment server-side
	var items []models.AppointmentItem
	var totalPrice float64
	for _, idStr := range req.ServiceIDs {
		serviceID, err := uuid.Parse(idStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid service_id"})
			return
		}
		var service models.Service
		if err := h.DB.Where("id = ? AND is_active = ?", serviceID, true).First(&service).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
			return
		}
		items = append(items, models.AppointmentItem{
			ServiceID:   service.ID,
			ServiceName: service.Name,
			Price:       service.Price,
		})
		totalPrice += service.Price
	}

	appointment := models.Appointment{
		ClientID:   clientID,
		BarberID:   barberID,
		DateTime:   chosen.Instant,
		Status:     models.AppointmentStatusPending,
		TotalPrice: totalPrice,
		Items:      items,
	}

	if err := h.DB.Create(&appointment).Error; err != nil {
		if isDuplicateSlot(err) {
			// Lost the race: someone booked between our check and the insert.
			c.JSON(http.StatusConflict, gin.H{"error": "This slot was just taken; please pick another time"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create appointment"})
		return
	}

	if h.Hub != nil {
		h.Hub.PublishAppointment(realtime.EventAppointmentCreated, appointment.ID, barberID, req.Date, string(appointment.Status))
	}
	h.notifyBarber(&appointment, &barber)

	var client models.User
	if err := h.DB.Where("id = ?", clientID).First(&client).Error; err == nil {
		when := chosen.Instant.Format("02/01/2006 15:04")
		utils.SendBookingConfirmation(client.Email, client.Name, barber.Name, when, totalPrice)
	}

	c.JSON(http.StatusCreated, appointment)
}

func isDuplicateSlot(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// Raw constraint violations surface as driver errors; match the message
	// the same way the backend reports it.
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed")
}

// notifyBarber pushes the new-appointment alert to the barber's registered
// device, dropping tokens FCM no longer accepts.
func (h *AppointmentHandler) notifyBarber(appointment *models.Appointment, barber *models.User) {
	if h.Messenger == nil {
		return
	}

	var sub models.PushSubscription
	if err := h.DB.Where("barber_id = ?", barber.ID).First(&sub).Error; err != nil {
		return
	}

	var client models.User
	clientName := "New client"
	if err := h.DB.Where("id = ?", appointment.ClientID).First(&client).Error; err == nil && client.Name != "" {
		clientName = client.Name
	}

	when := appointment.DateTime.Format("02/01 15:04")
	subID := sub.ID
	token := sub.Token
	db := h.DB
	messenger := h.Messenger

	go func() {
		err := messenger.SendPush(token, "New appointment!",
			clientName+" booked "+when,
			map[string]string{"appointment_id": appointment.ID.String()})
		if err != nil {
			log.Printf("Failed to push new-appointment alert to barber %s: %v", barber.ID, err)
			if errors.Is(err, firebase.ErrTokenNotRegistered) {
				db.Delete(&models.PushSubscription{}, "id = ?", subID)
			}
		}
	}()
}

// GetMyAppointments lists the authenticated client's appointments.
func (h *AppointmentHandler) GetMyAppointments(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var appointments []models.Appointment
	if err := h.DB.Preload("Items").Preload("Barber").
		Where("client_id = ?", userID).
		Order("date_time").
		Find(&appointments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch appointments"})
		return
	}

	c.JSON(http.StatusOK, appointments)
}

// Cancel lets a client cancel their own upcoming appointment, releasing the
// slot for rebooking.
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	appointmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid appointment id"})
		return
	}

	var appointment models.Appointment
	if err := h.DB.Where("id = ? AND client_id = ?", appointmentID, userID).First(&appointment).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Appointment not found"})
		return
	}

	if !models.IsValidTransition(appointment.Status, models.AppointmentStatusCancelled) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Appointment can no longer be cancelled"})
		return
	}

	if err := h.DB.Model(&appointment).Update("status", models.AppointmentStatusCancelled).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel appointment"})
		return
	}
	appointment.Status = models.AppointmentStatusCancelled

	if h.Hub != nil {
		h.Hub.PublishAppointment(realtime.EventAppointmentUpdated, appointment.ID, appointment.BarberID,
			slots.DateKey(appointment.DateTime.In(h.location())), string(appointment.Status))
	}

	c.JSON(http.StatusOK, appointment)
}

// GetBarberAppointments lists the authenticated barber's appointments,
// optionally restricted to one date's window.
func (h *AppointmentHandler) GetBarberAppointments(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	query := h.DB.Preload("Items").Preload("Client").Where("barber_id = ?", userID)

	if dateStr := c.Query("date"); dateStr != "" {
		if err := utils.ValidateDateKey(dateStr); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		date, err := time.ParseInLocation("2006-01-02", dateStr, h.location())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date"})
			return
		}
		from, to := slots.DayWindow(date)
		query = query.Where("date_time >= ? AND date_time < ?", from, to)
	}

	var appointments []models.Appointment
	if err := query.Order("date_time").Find(&appointments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch appointments"})
		return
	}

	c.JSON(http.StatusOK, appointments)
}

// GetBarberStats returns the dashboard counters: appointments today, pending
// confirmations, active bookings, and completed revenue.
func (h *AppointmentHandler) GetBarberStats(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var appointments []models.Appointment
	if err := h.DB.Where("barber_id = ?", userID).Find(&appointments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch appointments"})
		return
	}

	now := h.now()
	var today, pending, active int
	var revenue float64
	for _, a := range appointments {
		dt := a.DateTime.In(h.location())
		if dt.Year() == now.Year() && dt.YearDay() == now.YearDay() {
			today++
		}
		switch a.Status {
		case models.AppointmentStatusPending:
			pending++
			active++
		case models.AppointmentStatusConfirmed:
			active++
		case models.AppointmentStatusCompleted:
			revenue += a.TotalPrice
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"today":   today,
		"pending": pending,
		"active":  active,
		"revenue": revenue,
	})
}

// UpdateStatus moves an appointment through the status state machine.
// Barbers manage their own book; admins can manage any barber's.
func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	role, _ := c.Get("user_role")

	appointmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid appointment id"})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	newStatus := models.AppointmentStatus(req.Status)
	switch newStatus {
	case models.AppointmentStatusConfirmed, models.AppointmentStatusCompleted, models.AppointmentStatusCancelled:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	query := h.DB.Where("id = ?", appointmentID)
	if role != "admin" {
		query = query.Where("barber_id = ?", userID)
	}

	var appointment models.Appointment
	if err := query.First(&appointment).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Appointment not found"})
		return
	}

	if !models.IsValidTransition(appointment.Status, newStatus) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status transition"})
		return
	}

	if err := h.DB.Model(&appointment).Update("status", newStatus).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update status"})
		return
	}
	appointment.Status = newStatus

	if h.Hub != nil {
		h.Hub.PublishAppointment(realtime.EventAppointmentUpdated, appointment.ID, appointment.BarberID,
			slots.DateKey(appointment.DateTime.In(h.location())), string(newStatus))
	}

	var client models.User
	if err := h.DB.Where("id = ?", appointment.ClientID).First(&client).Error; err == nil {
		when := appointment.DateTime.In(h.location()).Format("02/01/2006 15:04")
		utils.SendAppointmentStatusUpdate(client.Email, client.Name, when, string(newStatus))
	}

	c.JSON(http.StatusOK, appointment)
}
