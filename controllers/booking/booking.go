package booking

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"session-booking/logger"
	bookingModel "session-booking/models/booking"
	"session-booking/middleware"
	"session-booking/services/lifecycle"
	"session-booking/services/policy"
	"session-booking/types"
	bookingTypes "session-booking/types/booking"
	"session-booking/utils"
)

// BookingController handles booking-related HTTP requests
type BookingController struct {
	DB     *gorm.DB
	Engine *lifecycle.Engine
	Logger *logger.AsyncLogger
}

// NewBookingController creates a new booking controller
func NewBookingController(db *gorm.DB, engine *lifecycle.Engine, asyncLogger *logger.AsyncLogger) *BookingController {
	return &BookingController{
		DB:     db,
		Engine: engine,
		Logger: asyncLogger,
	}
}

// logAPIRequest pushes a sanitized copy of the request/response pair to the
// async logger. Called after the response is rendered so the status code and
// body are final.
func (bc *BookingController) logAPIRequest(c *fiber.Ctx) {
	bc.Logger.Log(utils.CreateSanitizedLogEntry(c))
}

// sendResponseWithLog renders a response and logs the exchange in one call
func (bc *BookingController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	bc.logAPIRequest(c)
	return result
}

func requestContext(c *fiber.Ctx) lifecycle.RequestContext {
	return lifecycle.RequestContext{
		IPAddress: utils.ClientIPOrNil(c.IP()),
		UserAgent: c.Get("User-Agent"),
	}
}

// engineErrorResponse renders a structured engine error. The EngineError
// payload goes out verbatim so callers see valid_actions / current_status.
func engineErrorResponse(c *fiber.Ctx, err error) error {
	engErr, ok := err.(*bookingTypes.EngineError)
	if !ok {
		logger.Error("Unexpected booking engine failure", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
		})
	}
	if engErr.Kind == bookingTypes.ErrConsistencyFault {
		// Internal invariant violation: never expose the raw message.
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
		})
	}
	status := engErr.HTTPStatus()
	return c.Status(status).JSON(types.ApiResponse{
		Status:  status,
		Message: engErr.Message,
		Data:    engErr,
	})
}

// Store creates a new pending booking from the public booking page
func (bc *BookingController) Store(c *fiber.Ctx) error {
	var req bookingTypes.BookingCreateRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return bc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if req.ClientName == "" || req.ClientEmail == "" || req.SessionID == 0 {
		return bc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "session_id, client_name and client_email are required",
		})
	}

	booking, err := bc.Engine.Create(lifecycle.CreateRequest{
		SessionID:   req.SessionID,
		ClientName:  req.ClientName,
		ClientEmail: req.ClientEmail,
		ClientPhone: req.ClientPhone,
		Quantity:    req.Quantity,
		Notes:       req.Notes,
		Actor:       policy.Client(req.ClientEmail),
		Ctx:         requestContext(c),
	})
	if err != nil {
		result := engineErrorResponse(c, err)
		bc.logAPIRequest(c)
		return result
	}

	logger.Success(fmt.Sprintf("Booking %s created for session %d", booking.BookingReference, booking.SessionID))
	return bc.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Booking created successfully",
		Data:    booking,
	})
}

// Manage lists bookings for staff, with status / deleted / search filters
func (bc *BookingController) Manage(c *fiber.Ctx) error {
	status := c.Query("status")
	includeDeleted := c.QueryBool("include_deleted", false)
	search := c.Query("search")

	q := bc.DB.Model(&bookingModel.Booking{}).Preload("Session")
	if status != "" {
		if !bookingModel.BookingStatus(status).IsValid() {
			return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
				Status:  fiber.StatusBadRequest,
				Message: fmt.Sprintf("unknown status %q", status),
			})
		}
		q = q.Where("status = ?", status)
	}
	if !includeDeleted {
		q = q.Where("is_deleted = ?", false)
	}
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("booking_reference LIKE ? OR client_name LIKE ? OR client_email LIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		logger.Error("Failed to count bookings", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
		})
	}

	var bookings []bookingModel.Booking
	if err := q.Order("created_at DESC").Find(&bookings).Error; err != nil {
		logger.Error("Failed to list bookings", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Bookings retrieved successfully",
		Data: bookingTypes.BookingListResponse{
			Bookings:   bookings,
			TotalCount: total,
			Filters: bookingTypes.BookingListFilters{
				Status:         status,
				IncludeDeleted: includeDeleted,
				Search:         search,
			},
		},
	})
}

// ManageAction executes a lifecycle action against a booking on behalf of staff
func (bc *BookingController) ManageAction(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid booking id",
		})
	}

	var req bookingTypes.ManageActionRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	booking, err := bc.Engine.ApplyByID(uint(id), lifecycle.ActionRequest{
		Action:       req.Action,
		Reason:       req.Reason,
		NewSessionID: req.NewSessionID,
		Actor:        policy.Admin(middleware.StaffIdentity(c)),
		Ctx:          requestContext(c),
	})
	if err != nil {
		result := engineErrorResponse(c, err)
		bc.logAPIRequest(c)
		return result
	}

	logger.Success(fmt.Sprintf("Booking %s: action %q applied", booking.BookingReference, req.Action))
	return bc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: fmt.Sprintf("Action %q applied successfully", req.Action),
		Data:    booking,
	})
}
