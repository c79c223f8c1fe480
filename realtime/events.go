package realtime

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
)

const (
	EventAppointmentCreated = "appointment.created"
	EventAppointmentUpdated = "appointment.updated"
)

// AppointmentEvent tells subscribers which barber's day changed so they can
// re-fetch that day's availability.
type AppointmentEvent struct {
	Type          string    `json:"type"`
	AppointmentID uuid.UUID `json:"appointment_id"`
	BarberID      uuid.UUID `json:"barber_id"`
	Date          string    `json:"date"` // yyyy-MM-dd of the affected day
	Status        string    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`
}

// PublishAppointment broadcasts an appointment change to all subscribers.
func (h *Hub) PublishAppointment(eventType string, appointmentID, barberID uuid.UUID, date, status string) {
	event := AppointmentEvent{
		Type:          eventType,
		AppointmentID: appointmentID,
		BarberID:      barberID,
		Date:          date,
		Status:        status,
		Timestamp:     time.Now(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal appointment event: %v", err)
		return
	}
	h.Broadcast(payload)
}
