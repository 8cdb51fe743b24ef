package settings

import (
	"time"

	"gorm.io/gorm"
)

// BookingSettings is the process-wide booking policy configuration. A single
// row is kept in the database; staff edit it through the settings endpoint
// and the policy evaluator reads the latest committed value on every decision.
type BookingSettings struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"-"`

	// Cancellation policy
	AllowClientCancellation   bool   `gorm:"not null;default:true" json:"allow_client_cancellation"`
	CancellationDeadlineHours int    `gorm:"not null;default:24" json:"cancellation_deadline_hours"`
	SendCancellationEmails    bool   `gorm:"not null;default:true" json:"send_cancellation_emails"`
	CancellationFeePolicy     string `gorm:"type:text" json:"cancellation_fee_policy"`

	// Reschedule policy
	AllowClientReschedule    bool   `gorm:"not null;default:true" json:"allow_client_reschedule"`
	RescheduleDeadlineHours  int    `gorm:"not null;default:24" json:"reschedule_deadline_hours"`
	MaxReschedulesPerBooking int    `gorm:"not null;default:2" json:"max_reschedules_per_booking"`
	SendRescheduleEmails     bool   `gorm:"not null;default:true" json:"send_reschedule_emails"`
	RescheduleFeePolicy      string `gorm:"type:text" json:"reschedule_fee_policy"`

	// Lifecycle notification toggles
	SendConfirmationEmails bool `gorm:"not null;default:true" json:"send_confirmation_emails"`
	SendExpiryNotifications bool `gorm:"not null;default:true" json:"send_expiry_notifications"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName sets the table name for the BookingSettings model
func (BookingSettings) TableName() string {
	return "booking_settings"
}

// Defaults returns the settings applied before staff have saved anything.
func Defaults() BookingSettings {
	return BookingSettings{
		AllowClientCancellation:   true,
		CancellationDeadlineHours: 24,
		SendCancellationEmails:    true,
		AllowClientReschedule:     true,
		RescheduleDeadlineHours:   24,
		MaxReschedulesPerBooking:  2,
		SendRescheduleEmails:      true,
		SendConfirmationEmails:    true,
		SendExpiryNotifications:   true,
	}
}

// Load returns the singleton settings row, creating it with defaults on
// first use.
func Load(db *gorm.DB) (*BookingSettings, error) {
	var s BookingSettings
	err := db.Order("id").First(&s).Error
	if err == nil {
		return &s, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	s = Defaults()
	if err := db.Create(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}
