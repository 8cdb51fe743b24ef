package audit

import (
	"time"
)

// ActionSource marks whether an audit entry was produced by staff tooling or
// a client self-service flow
type ActionSource string

const (
	SourceAdmin  ActionSource = "ADMIN_ACTION"
	SourceClient ActionSource = "CLIENT_ACTION"
)

// AuditLog is one immutable record of an attempted or executed booking
// mutation. Rows are append-only: nothing in the codebase updates or deletes
// them. Denied attempts are recorded with the denial reason in
// ResultingStatus so abuse attempts are auditable alongside successes.
type AuditLog struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	BookingReference string `gorm:"type:varchar(32);not null;index" json:"booking_reference"`

	// Operation is the lifecycle verb that was attempted (approve, cancel, ...)
	Operation string `gorm:"type:varchar(32);not null;index" json:"operation"`

	Action ActionSource `gorm:"type:varchar(20);not null;index" json:"action"`

	// Actor is the staff identity, or "client:<email>" for self-service flows
	Actor string `gorm:"type:varchar(255);not null;index" json:"actor"`

	// Network origin, persisted verbatim from the request context. IPAddress
	// is null only when the transport genuinely had none.
	IPAddress *string `gorm:"type:varchar(45)" json:"ip_address"`
	UserAgent string  `gorm:"type:text" json:"user_agent"`

	// ResultingStatus is the booking status after a successful mutation, or
	// the denial reason code for a denied one.
	ResultingStatus string `gorm:"type:varchar(64);not null" json:"resulting_status"`

	Reason string `gorm:"type:text" json:"reason"`

	PerformedAt time.Time `gorm:"not null;index" json:"performed_at"`
}

// TableName sets the table name for the AuditLog model
func (AuditLog) TableName() string {
	return "booking_audit_logs"
}
