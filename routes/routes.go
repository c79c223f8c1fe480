package routes

import (
	"time"

	"barbearia-backend/firebase"
	"barbearia-backend/handlers"
	"barbearia-backend/middleware"
	"barbearia-backend/realtime"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB, hub *realtime.Hub, messenger firebase.Messenger, shopLocation *time.Location) {
	// Initialize handlers
	authHandler := &handlers.AuthHandler{DB: db}
	barberHandler := &handlers.BarberHandler{DB: db}
	serviceHandler := &handlers.ServiceHandler{DB: db}
	availabilityHandler := &handlers.AvailabilityHandler{DB: db, Location: shopLocation}
	appointmentHandler := &handlers.AppointmentHandler{DB: db, Hub: hub, Messenger: messenger, Location: shopLocation}
	settingsHandler := &handlers.SettingsHandler{DB: db}
	pushHandler := &handlers.PushHandler{DB: db}
	realtimeHandler := &handlers.RealtimeHandler{Hub: hub}

	// Brute-force protection on login; booking gets a looser bucket so a
	// busy Saturday does not throttle legitimate clients.
	loginLimiter := middleware.NewRateLimiter(10, time.Minute)
	bookingLimiter := middleware.NewRateLimiter(30, time.Minute)

	// Public routes
	api := r.Group("/api")
	{
		// Auth routes
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/barber-signup", authHandler.BarberSignup)
		api.POST("/auth/login", loginLimiter.Middleware(), authHandler.Login)
		api.POST("/auth/refresh", authHandler.RefreshToken)
		api.POST("/auth/forgot-password", loginLimiter.Middleware(), authHandler.ForgotPassword)
		api.POST("/auth/reset-password", authHandler.ResetPassword)

		// Public catalog routes
		api.GET("/barbers", barberHandler.GetBarbers)
		api.GET("/services", serviceHandler.GetServices)

		// Availability for a barber on a date
		api.GET("/availability", availabilityHandler.GetAvailability)
	}

	// Protected routes (require authentication)
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	{
		// User profile
		protected.GET("/auth/profile", authHandler.GetProfile)
		protected.PUT("/auth/profile", authHandler.UpdateProfile)
		protected.PUT("/auth/password", authHandler.ChangePassword)

		// Appointment routes
		protected.POST("/appointments", bookingLimiter.Middleware(), appointmentHandler.Create)
		protected.GET("/appointments", appointmentHandler.GetMyAppointments)
		protected.PUT("/appointments/:id/cancel", appointmentHandler.Cancel)

		// Appointment change feed (websocket)
		protected.GET("/realtime/appointments", realtimeHandler.Subscribe)
	}

	// Barber routes (barber or admin role)
	barber := api.Group("/barber")
	barber.Use(middleware.AuthMiddleware())
	barber.Use(middleware.BarberMiddleware())
	{
		barber.GET("/appointments", appointmentHandler.GetBarberAppointments)
		barber.GET("/stats", appointmentHandler.GetBarberStats)
		barber.PUT("/appointments/:id/status", appointmentHandler.UpdateStatus)

		barber.POST("/push-subscription", pushHandler.Subscribe)
		barber.DELETE("/push-subscription", pushHandler.Unsubscribe)
	}

	// Admin routes (require admin role)
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.AdminMiddleware())
	{
		// Weekly schedule and date overrides
		admin.GET("/schedule", settingsHandler.GetSchedule)
		admin.PUT("/schedule", settingsHandler.UpdateSchedule)
		admin.GET("/overrides", settingsHandler.GetOverrides)
		admin.PUT("/overrides/:date", settingsHandler.PutOverride)
		admin.DELETE("/overrides/:date", settingsHandler.DeleteOverride)

		// Service catalog management
		admin.POST("/services", serviceHandler.CreateService)
		admin.PUT("/services/:id", serviceHandler.UpdateService)
		admin.DELETE("/services/:id", serviceHandler.DeleteService)

		// Barber account management
		admin.GET("/barbers", barberHandler.GetAllBarbers)
		admin.PUT("/barbers/:id/blocked", barberHandler.SetBlocked)

		// Admin can move any appointment through its lifecycle
		admin.PUT("/appointments/:id/status", appointmentHandler.UpdateStatus)
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}
