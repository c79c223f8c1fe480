package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ScheduleRule is the shop's default recurring hours for one weekday.
// A weekday without a rule is treated as closed.
type ScheduleRule struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	DayOfWeek int       `gorm:"not null;uniqueIndex" json:"day_of_week"` // 0=Sunday, 6=Saturday
	Active    bool      `gorm:"default:true" json:"active"`
	StartTime string    `gorm:"not null;default:'09:00'" json:"start_time"`
	EndTime   string    `gorm:"not null;default:'19:00'" json:"end_time"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *ScheduleRule) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// DateOverride replaces the weekly rule for one exact calendar date.
// Used for holidays, special hours, or one-off closures.
type DateOverride struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Date      string    `gorm:"not null;uniqueIndex" json:"date"` // yyyy-MM-dd
	Active    bool      `gorm:"default:true" json:"active"`
	StartTime string    `gorm:"default:'09:00'" json:"start_time"`
	EndTime   string    `gorm:"default:'19:00'" json:"end_time"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (o *DateOverride) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
