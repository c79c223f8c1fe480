package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PushSubscription stores the FCM device token a barber registered for
// new-appointment alerts. One subscription per barber; re-subscribing
// replaces the token.
type PushSubscription struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	BarberID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"barber_id"`
	Barber    User      `gorm:"foreignKey:BarberID" json:"-"`
	Token     string    `gorm:"not null" json:"token"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *PushSubscription) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
