package database

import (
	"fmt"
	"log"
	"os"

	"barbearia-backend/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect() (*gorm.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "host=localhost user=postgres password=postgres dbname=barbearia port=5432 sslmode=disable"
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	// Ensure PostgreSQL has gen_random_uuid() available (pgcrypto extension).
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		return fmt.Errorf("failed to enable pgcrypto extension: %w", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.PasswordResetToken{},
		&models.Service{},
		&models.Appointment{},
		&models.AppointmentItem{},
		&models.ScheduleRule{},
		&models.DateOverride{},
		&models.PushSubscription{},
	); err != nil {
		return err
	}

	// AutoMigrate cannot express a partial unique index. Without this
	// constraint two clients submitting between the availability fetch and
	// the insert would both get the same slot; the second insert must fail.
	// Cancelled appointments are excluded so a freed slot can be rebooked.
	if err := ensureBookingUniqueness(db); err != nil {
		return err
	}

	return nil
}

func ensureBookingUniqueness(db *gorm.DB) error {
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_appointments_barber_slot
		ON appointments (barber_id, date_time)
		WHERE status <> 'cancelled' AND deleted_at IS NULL;
	`).Error; err != nil {
		return fmt.Errorf("failed to ensure appointment slot uniqueness: %w", err)
	}
	return nil
}

func CreateDefaultAdmin(db *gorm.DB) error {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminEmail == "" {
		adminEmail = "admin@barbearia.com"
	}
	if adminPassword == "" {
		adminPassword = "admin123"
	}

	var existingUser models.User
	result := db.Where("email = ?", adminEmail).First(&existingUser)
	if result.Error == nil {
		// Admin already exists
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Email:    adminEmail,
		Password: string(hashedPassword),
		Role:     "admin",
		Name:     "Admin User",
	}

	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("Default admin created: %s", adminEmail)
	return nil
}

// CreateDefaultSchedule seeds the shop's weekly hours on first run:
// Tuesday through Saturday 09:00-19:00, closed Sunday and Monday.
func CreateDefaultSchedule(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.ScheduleRule{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for day := 0; day < 7; day++ {
		rule := models.ScheduleRule{
			DayOfWeek: day,
			Active:    day >= 2 && day <= 6,
			StartTime: "09:00",
			EndTime:   "19:00",
		}
		if err := db.Create(&rule).Error; err != nil {
			return err
		}
	}

	log.Println("Default weekly schedule created")
	return nil
}
