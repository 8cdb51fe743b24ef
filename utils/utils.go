package utils

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"session-booking/types"
)

// GenerateBookingReference creates a short, client-facing booking reference
// of the form BK-XXXXXXXX. References come from a v4 UUID so they are not
// guessable from earlier ones; uniqueness is enforced by the database index.
func GenerateBookingReference() string {
	id := uuid.New()
	raw := strings.ToUpper(strings.ReplaceAll(id.String(), "-", ""))
	return "BK-" + raw[:8]
}

// maxLoggedBody keeps oversized payloads out of the log table.
const maxLoggedBody = 8192

// CreateSanitizedLogEntry builds a deep-copied log entry for the async
// logger. Bodies and headers are copied so the entry stays valid after fiber
// recycles the request buffers.
func CreateSanitizedLogEntry(c *fiber.Ctx) types.LogEntry {
	requestBody := string(append([]byte(nil), c.Body()...))
	if len(requestBody) > maxLoggedBody {
		requestBody = requestBody[:maxLoggedBody] + "...[truncated]"
	}
	responseBody := string(append([]byte(nil), c.Response().Body()...))
	if len(responseBody) > maxLoggedBody {
		responseBody = responseBody[:maxLoggedBody] + "...[truncated]"
	}

	requestHeaders := make([]byte, len(c.Request().Header.Header()))
	copy(requestHeaders, c.Request().Header.Header())
	responseHeaders := make([]byte, len(c.Response().Header.Header()))
	copy(responseHeaders, c.Response().Header.Header())

	return types.LogEntry{
		Method:          string([]byte(c.Method())),
		URL:             string([]byte(c.OriginalURL())),
		RequestBody:     requestBody,
		ResponseBody:    responseBody,
		RequestHeaders:  string(requestHeaders),
		ResponseHeaders: string(responseHeaders),
		StatusCode:      c.Response().StatusCode(),
		ClientIP:        string([]byte(c.IP())),
		CreatedAt:       time.Now(),
	}
}

// ClientIPOrNil normalizes a transport-supplied client address for the audit
// trail: empty means the transport genuinely had none, which is the only
// case where the audit column may be null.
func ClientIPOrNil(ip string) *string {
	if ip == "" {
		return nil
	}
	return &ip
}
