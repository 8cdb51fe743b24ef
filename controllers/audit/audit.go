package audit

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"session-booking/logger"
	auditService "session-booking/services/audit"
	"session-booking/types"
)

// AuditController serves the booking audit trail to staff
type AuditController struct {
	DB *gorm.DB
}

// NewAuditController creates a new audit controller
func NewAuditController(db *gorm.DB) *AuditController {
	return &AuditController{DB: db}
}

const defaultAuditLimit = 100

// List returns audit entries filtered by the query string, newest first.
// Supported filters: booking_reference, actor, from, to (RFC3339), limit.
func (ac *AuditController) List(c *fiber.Ctx) error {
	filter := auditService.QueryFilter{
		BookingReference: c.Query("booking_reference"),
		Actor:            c.Query("actor"),
		Limit:            defaultAuditLimit,
	}

	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
				Status:  fiber.StatusBadRequest,
				Message: "limit must be a positive integer",
			})
		}
		filter.Limit = n
	}
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
				Status:  fiber.StatusBadRequest,
				Message: "from must be an RFC3339 timestamp",
			})
		}
		filter.From = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
				Status:  fiber.StatusBadRequest,
				Message: "to must be an RFC3339 timestamp",
			})
		}
		filter.To = &t
	}

	entries, err := auditService.Query(ac.DB, filter)
	if err != nil {
		logger.Error("Failed to query audit logs", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Audit logs retrieved successfully",
		Data: fiber.Map{
			"count":   len(entries),
			"entries": entries,
		},
	})
}
