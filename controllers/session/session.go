package session

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"session-booking/logger"
	sessionModel "session-booking/models/session"
	"session-booking/middleware"
	"session-booking/services/capacity"
	"session-booking/services/clock"
	"session-booking/services/registry"
	"session-booking/types"
)

// SessionController handles session-related HTTP requests
type SessionController struct {
	DB    *gorm.DB
	Clock clock.Clock
}

// NewSessionController creates a new session controller
func NewSessionController(db *gorm.DB, clk clock.Clock) *SessionController {
	return &SessionController{DB: db, Clock: clk}
}

// sessionWithAvailability decorates a session with its live seat counts
type sessionWithAvailability struct {
	sessionModel.Session
	SpotsReserved  int `json:"spots_reserved"`
	SpotsAvailable int `json:"spots_available"`
}

// List returns upcoming sessions with their reserved and free seat counts
func (sc *SessionController) List(c *fiber.Ctx) error {
	sessions, err := registry.ListUpcoming(sc.DB, sc.Clock.Now())
	if err != nil {
		logger.Error("Failed to list sessions", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
		})
	}

	out := make([]sessionWithAvailability, 0, len(sessions))
	for i := range sessions {
		reserved, err := capacity.ReservedSeats(sc.DB, sessions[i].ID)
		if err != nil {
			logger.Error("Failed to count reserved seats", err)
			return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
				Status:  fiber.StatusInternalServerError,
				Message: "Database error",
			})
		}
		out = append(out, sessionWithAvailability{
			Session:        sessions[i],
			SpotsReserved:  reserved,
			SpotsAvailable: sessions[i].Capacity - reserved,
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Sessions retrieved successfully",
		Data:    out,
	})
}

// sessionCreateRequest is the staff payload for creating a session
type sessionCreateRequest struct {
	Title     string `json:"title"`
	Date      string `json:"date"` // "2006-01-02"
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Capacity  int    `json:"capacity"`
	Category  string `json:"category"`
}

// Store creates a new session
func (sc *SessionController) Store(c *fiber.Ctx) error {
	var req sessionCreateRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	sess := sessionModel.Session{
		Title:     req.Title,
		Date:      date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Capacity:  req.Capacity,
		Category:  req.Category,
		CreatedBy: middleware.StaffIdentity(c),
	}
	if err := sess.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
		})
	}

	if err := sc.DB.Create(&sess).Error; err != nil {
		logger.Error("Failed to create session", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
		})
	}

	logger.Success(fmt.Sprintf("Session %q created for %s", sess.Title, req.Date))
	return c.Status(fiber.StatusCreated).JSON(types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Session created successfully",
		Data:    sess,
	})
}
