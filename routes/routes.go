package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"session-booking/constants"
	auditController "session-booking/controllers/audit"
	bookingController "session-booking/controllers/booking"
	sessionController "session-booking/controllers/session"
	settingsController "session-booking/controllers/settings"
	"session-booking/logger"
	"session-booking/middleware"
	"session-booking/services/clock"
	"session-booking/services/lifecycle"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, engine *lifecycle.Engine, clk clock.Clock) {
	asyncLogger := logger.NewAsyncLogger(db)
	bookings := bookingController.NewBookingController(db, engine, asyncLogger)
	sessions := sessionController.NewSessionController(db, clk)
	settings := settingsController.NewSettingsController(db)
	audits := auditController.NewAuditController(db)

	// Start the async logger processing goroutine
	go asyncLogger.ProcessLog()

	// Index route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service": "session-booking",
			"status":  "ok",
		})
	})

	/*=============================================================================
	| Public Routes
	===============================================================================*/
	api := app.Group("/api")
	api.Get("/sessions", sessions.List)
	api.Post("/booking/create", bookings.Store)

	/*=============================================================================
	| Client Self-Service Routes (booking reference is the credential)
	===============================================================================*/
	client := api.Group("/booking/client/:reference")
	client.Get("/", bookings.ClientInfo)
	client.Get("/reschedule-options", bookings.RescheduleOptions)
	client.Post("/cancel", bookings.ClientCancel)
	client.Post("/reschedule", bookings.ClientReschedule)

	/*=============================================================================
	| Booking Management Routes
	===============================================================================*/
	manage := api.Group("/booking/manage")

	manage.Get("/", middleware.RequirePermissions(
		constants.BookingManagementPermissions...,
	), bookings.Manage)

	manage.Patch("/:id", middleware.RequirePermissions(
		constants.BookingManagementPermissions...,
	), bookings.ManageAction)

	/*=============================================================================
	| Session Management Routes
	===============================================================================*/
	api.Post("/sessions", middleware.RequirePermissions(
		constants.BookingManagementPermissions...,
	), sessions.Store)

	/*=============================================================================
	| Settings Routes
	===============================================================================*/
	settingsGroup := api.Group("/booking/settings")

	settingsGroup.Get("/", middleware.RequirePermissions(
		constants.SettingsManagementPermissions...,
	), settings.Show)

	settingsGroup.Patch("/", middleware.RequirePermissions(
		constants.SettingsManagementPermissions...,
	), settings.Update)

	/*=============================================================================
	| Audit Trail Routes
	===============================================================================*/
	api.Get("/booking/audit-logs", middleware.RequirePermissions(
		constants.BookingManagementPermissions...,
	), audits.List)
}
