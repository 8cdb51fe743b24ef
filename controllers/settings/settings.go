package settings

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"session-booking/logger"
	settingsModel "session-booking/models/settings"
	"session-booking/types"
	bookingTypes "session-booking/types/booking"
)

// SettingsController handles booking-settings HTTP requests
type SettingsController struct {
	DB *gorm.DB
}

// NewSettingsController creates a new settings controller
func NewSettingsController(db *gorm.DB) *SettingsController {
	return &SettingsController{DB: db}
}

// Show returns the current booking settings
func (sc *SettingsController) Show(c *fiber.Ctx) error {
	cfg, err := settingsModel.Load(sc.DB)
	if err != nil {
		logger.Error("Failed to load booking settings", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
		})
	}
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Settings retrieved successfully",
		Data:    cfg,
	})
}

// Update applies a partial update to the booking settings
func (sc *SettingsController) Update(c *fiber.Ctx) error {
	var req bookingTypes.SettingsUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	if req.CancellationDeadlineHours != nil && *req.CancellationDeadlineHours < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "cancellation_deadline_hours must not be negative",
		})
	}
	if req.RescheduleDeadlineHours != nil && *req.RescheduleDeadlineHours < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "reschedule_deadline_hours must not be negative",
		})
	}
	if req.MaxReschedulesPerBooking != nil && *req.MaxReschedulesPerBooking < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "max_reschedules_per_booking must not be negative",
		})
	}

	cfg, err := settingsModel.Load(sc.DB)
	if err != nil {
		logger.Error("Failed to load booking settings", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
		})
	}

	if req.AllowClientCancellation != nil {
		cfg.AllowClientCancellation = *req.AllowClientCancellation
	}
	if req.CancellationDeadlineHours != nil {
		cfg.CancellationDeadlineHours = *req.CancellationDeadlineHours
	}
	if req.SendCancellationEmails != nil {
		cfg.SendCancellationEmails = *req.SendCancellationEmails
	}
	if req.CancellationFeePolicy != nil {
		cfg.CancellationFeePolicy = *req.CancellationFeePolicy
	}
	if req.AllowClientReschedule != nil {
		cfg.AllowClientReschedule = *req.AllowClientReschedule
	}
	if req.RescheduleDeadlineHours != nil {
		cfg.RescheduleDeadlineHours = *req.RescheduleDeadlineHours
	}
	if req.MaxReschedulesPerBooking != nil {
		cfg.MaxReschedulesPerBooking = *req.MaxReschedulesPerBooking
	}
	if req.SendRescheduleEmails != nil {
		cfg.SendRescheduleEmails = *req.SendRescheduleEmails
	}
	if req.RescheduleFeePolicy != nil {
		cfg.RescheduleFeePolicy = *req.RescheduleFeePolicy
	}
	if req.SendConfirmationEmails != nil {
		cfg.SendConfirmationEmails = *req.SendConfirmationEmails
	}
	if req.SendExpiryNotifications != nil {
		cfg.SendExpiryNotifications = *req.SendExpiryNotifications
	}

	if err := sc.DB.Save(cfg).Error; err != nil {
		logger.Error("Failed to update booking settings", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
		})
	}

	logger.Success("Booking settings updated")
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Settings updated successfully",
		Data:    cfg,
	})
}
