package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

type Appointment struct {
	ID         uuid.UUID         `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ClientID   uuid.UUID         `gorm:"type:uuid;not null;index" json:"client_id"`
	Client     User              `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	BarberID   uuid.UUID         `gorm:"type:uuid;not null;index" json:"barber_id"`
	Barber     User              `gorm:"foreignKey:BarberID" json:"barber,omitempty"`
	DateTime   time.Time         `gorm:"not null;index" json:"date_time"`
	Status     AppointmentStatus `gorm:"default:pending" json:"status"`
	TotalPrice float64           `gorm:"not null" json:"total_price"`
	Items      []AppointmentItem `gorm:"foreignKey:AppointmentID" json:"items"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
	DeletedAt  gorm.DeletedAt    `gorm:"index" json:"-"`
}

type AppointmentItem struct {
	ID            uuid.UUID   `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	AppointmentID uuid.UUID   `gorm:"type:uuid;not null;index" json:"appointment_id"`
	Appointment   Appointment `gorm:"foreignKey:AppointmentID" json:"-"`
	ServiceID     uuid.UUID   `gorm:"type:uuid;not null;index" json:"service_id"`
	Service       Service     `gorm:"foreignKey:ServiceID" json:"service"`
	ServiceName   string      `json:"service_name"` // Snapshot of service name at booking time
	Price         float64     `gorm:"not null" json:"price"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

func (i *AppointmentItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// AllowedTransitions defines the valid appointment status state machine.
var AllowedTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusPending:   {AppointmentStatusConfirmed, AppointmentStatusCompleted, AppointmentStatusCancelled},
	AppointmentStatusConfirmed: {AppointmentStatusCompleted, AppointmentStatusCancelled},
	AppointmentStatusCompleted: {},
	AppointmentStatusCancelled: {},
}

// IsValidTransition checks if a status transition is allowed.
func IsValidTransition(from, to AppointmentStatus) bool {
	allowed, exists := AllowedTransitions[from]
	if !exists {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// IsOccupying reports whether the appointment still claims its time slot.
// Cancelled appointments release the slot for rebooking.
func (a *Appointment) IsOccupying() bool {
	return a.Status != AppointmentStatusCancelled
}
