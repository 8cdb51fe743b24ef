package booking

import (
	"time"

	sessionModel "session-booking/models/session"
)

// Booking represents a client's claim on one or more seats in a session.
// The booking reference is client-facing and stable for the lifetime of the
// booking; the session reference changes on reschedule.
type Booking struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	BookingReference string `gorm:"type:varchar(20);not null;unique" json:"booking_reference"`

	// Foreign key for session relationship
	SessionID uint                 `gorm:"not null;index" json:"session_id"`
	Session   sessionModel.Session `gorm:"foreignKey:SessionID" json:"session"`

	ClientName  string  `gorm:"type:varchar(255);not null" json:"client_name"`
	ClientEmail string  `gorm:"type:varchar(255);not null;index" json:"client_email"`
	ClientPhone *string `gorm:"type:varchar(20)" json:"client_phone,omitempty"`
	Notes       *string `gorm:"type:text" json:"notes,omitempty"`

	// Seats consumed against the session capacity while the booking is counted.
	Quantity int `gorm:"not null;default:1" json:"quantity"`

	Status BookingStatus `gorm:"type:varchar(20);not null;index" json:"status"`

	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	RejectionReason *string    `gorm:"type:text" json:"rejection_reason,omitempty"`

	// Cancellation metadata
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancelledBy        *string    `gorm:"type:varchar(255)" json:"cancelled_by,omitempty"`
	CancellationReason *string    `gorm:"type:text" json:"cancellation_reason,omitempty"`
	CancelledByClient  bool       `gorm:"not null;default:false" json:"cancelled_by_client"`

	// Soft delete overlay. Orthogonal to Status: a deleted booking keeps its
	// status and gets it back verbatim on restore.
	IsDeleted      bool       `gorm:"not null;default:false;index" json:"is_deleted"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`
	DeletedBy      *string    `gorm:"type:varchar(255)" json:"deleted_by,omitempty"`
	DeletionReason *string    `gorm:"type:text" json:"deletion_reason,omitempty"`

	// Reschedule tracking
	RescheduleCount   int        `gorm:"not null;default:0" json:"reschedule_count"`
	LastRescheduledAt *time.Time `json:"last_rescheduled_at,omitempty"`
	RescheduleReason  *string    `gorm:"type:text" json:"reschedule_reason,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName sets the table name for the Booking model
func (Booking) TableName() string {
	return "bookings"
}

// HoldsSeats reports whether this booking currently counts against the
// session capacity: status in {pending, approved} and not soft-deleted.
func (b *Booking) HoldsSeats() bool {
	return !b.IsDeleted && b.Status.CountsAgainstCapacity()
}
