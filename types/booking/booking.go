package booking

import (
	bookingModel "session-booking/models/booking"
)

// BookingCreateRequest is the payload for the public booking creation endpoint
type BookingCreateRequest struct {
	SessionID   uint    `json:"session_id"`
	ClientName  string  `json:"client_name"`
	ClientEmail string  `json:"client_email"`
	ClientPhone *string `json:"client_phone,omitempty"`
	Quantity    int     `json:"quantity"`
	Notes       *string `json:"notes,omitempty"`
}

// ManageActionRequest is the payload for the admin booking management
// endpoint: an action name (approve, reject, cancel, soft_delete, restore,
// reschedule) plus optional reason and, for reschedule, the target session.
type ManageActionRequest struct {
	Action       string `json:"action"`
	Reason       string `json:"reason,omitempty"`
	NewSessionID uint   `json:"new_session_id,omitempty"`
}

// ClientCancelRequest is the payload for client self-service cancellation.
// The claimed email must match the booking's client email.
type ClientCancelRequest struct {
	ClientEmail string `json:"client_email"`
	Reason      string `json:"reason,omitempty"`
}

// ClientRescheduleRequest is the payload for client self-service reschedule
type ClientRescheduleRequest struct {
	ClientEmail  string `json:"client_email"`
	NewSessionID uint   `json:"new_session_id"`
	Reason       string `json:"reason,omitempty"`
}

// SettingsUpdateRequest carries partial updates for the booking settings.
// Nil fields are left unchanged.
type SettingsUpdateRequest struct {
	AllowClientCancellation   *bool   `json:"allow_client_cancellation,omitempty"`
	CancellationDeadlineHours *int    `json:"cancellation_deadline_hours,omitempty"`
	SendCancellationEmails    *bool   `json:"send_cancellation_emails,omitempty"`
	CancellationFeePolicy     *string `json:"cancellation_fee_policy,omitempty"`
	AllowClientReschedule     *bool   `json:"allow_client_reschedule,omitempty"`
	RescheduleDeadlineHours   *int    `json:"reschedule_deadline_hours,omitempty"`
	MaxReschedulesPerBooking  *int    `json:"max_reschedules_per_booking,omitempty"`
	SendRescheduleEmails      *bool   `json:"send_reschedule_emails,omitempty"`
	RescheduleFeePolicy       *string `json:"reschedule_fee_policy,omitempty"`
	SendConfirmationEmails    *bool   `json:"send_confirmation_emails,omitempty"`
	SendExpiryNotifications   *bool   `json:"send_expiry_notifications,omitempty"`
}

// SessionOption is one reschedule target offered to a client
type SessionOption struct {
	ID             uint   `json:"id"`
	Title          string `json:"title"`
	Date           string `json:"date"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	Category       string `json:"category"`
	SpotsAvailable int    `json:"spots_available"`
}

// ReschedulePolicy summarizes what the policy evaluator currently allows for
// a specific booking
type ReschedulePolicy struct {
	CanReschedule           bool   `json:"can_reschedule"`
	ReschedulesRemaining    int    `json:"reschedules_remaining"`
	MaxReschedulesAllowed   int    `json:"max_reschedules_allowed"`
	RescheduleDeadlineHours int    `json:"reschedule_deadline_hours"`
	FeePolicy               string `json:"fee_policy,omitempty"`
}

// RescheduleOptionsResponse is the payload of the client reschedule-options
// endpoint
type RescheduleOptionsResponse struct {
	CurrentBooking    *bookingModel.Booking `json:"current_booking"`
	AvailableSessions []SessionOption       `json:"available_sessions"`
	ReschedulePolicy  ReschedulePolicy      `json:"reschedule_policy"`
}

// ClientBookingResponse wraps a booking with the client-facing policy flags
type ClientBookingResponse struct {
	*bookingModel.Booking
	CanBeCancelledByClient   bool `json:"can_be_cancelled_by_client"`
	CanBeRescheduledByClient bool `json:"can_be_rescheduled_by_client"`
}

// BookingListFilters echoes the filters applied to an admin list query
type BookingListFilters struct {
	Status         string `json:"status,omitempty"`
	IncludeDeleted bool   `json:"include_deleted"`
	Search         string `json:"search"`
}

// BookingListResponse is the payload of the admin management list endpoint
type BookingListResponse struct {
	Bookings   []bookingModel.Booking `json:"bookings"`
	TotalCount int64                  `json:"total_count"`
	Filters    BookingListFilters     `json:"filters"`
}
