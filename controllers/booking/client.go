package booking

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"session-booking/logger"
	bookingModel "session-booking/models/booking"
	"session-booking/services/lifecycle"
	"session-booking/services/policy"
	"session-booking/types"
	bookingTypes "session-booking/types/booking"
)

// Client self-service endpoints. These are unauthenticated: the booking
// reference works as a capability, and mutations additionally require the
// claimed email to match the booking (the policy ownership rule).

// ClientInfo returns a booking with its self-service capability flags
func (bc *BookingController) ClientInfo(c *fiber.Ctx) error {
	view, err := bc.Engine.ClientView(c.Params("reference"))
	if err != nil {
		return engineErrorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Booking retrieved successfully",
		Data:    view,
	})
}

// RescheduleOptions returns the sessions the client could move the booking to
func (bc *BookingController) RescheduleOptions(c *fiber.Ctx) error {
	options, err := bc.Engine.RescheduleOptions(c.Params("reference"))
	if err != nil {
		return engineErrorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Reschedule options retrieved successfully",
		Data:    options,
	})
}

// ClientCancel cancels a booking on behalf of its own client
func (bc *BookingController) ClientCancel(c *fiber.Ctx) error {
	var req bookingTypes.ClientCancelRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if req.ClientEmail == "" {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "client_email is required",
		})
	}

	reference := c.Params("reference")
	booking, err := bc.Engine.ApplyByReference(reference, lifecycle.ActionRequest{
		Action: string(bookingModel.ActionCancel),
		Reason: req.Reason,
		Actor:  policy.Client(req.ClientEmail),
		Ctx:    requestContext(c),
	})
	if err != nil {
		result := engineErrorResponse(c, err)
		bc.logAPIRequest(c)
		return result
	}

	logger.Success(fmt.Sprintf("Booking %s cancelled by client", reference))
	return bc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Booking cancelled successfully",
		Data:    booking,
	})
}

// ClientReschedule moves a booking to another session on behalf of its client
func (bc *BookingController) ClientReschedule(c *fiber.Ctx) error {
	var req bookingTypes.ClientRescheduleRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if req.ClientEmail == "" || req.NewSessionID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "client_email and new_session_id are required",
		})
	}

	reference := c.Params("reference")
	booking, err := bc.Engine.ApplyByReference(reference, lifecycle.ActionRequest{
		Action:       string(bookingModel.ActionReschedule),
		Reason:       req.Reason,
		NewSessionID: req.NewSessionID,
		Actor:        policy.Client(req.ClientEmail),
		Ctx:          requestContext(c),
	})
	if err != nil {
		result := engineErrorResponse(c, err)
		bc.logAPIRequest(c)
		return result
	}

	logger.Success(fmt.Sprintf("Booking %s rescheduled to session %d by client", reference, req.NewSessionID))
	return bc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Booking rescheduled successfully",
		Data:    booking,
	})
}
