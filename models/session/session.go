package session

import (
	"fmt"
	"time"
)

// Session represents a bookable time slot with a fixed seat capacity
type Session struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	Date      time.Time `gorm:"type:date;not null;index" json:"date"`
	StartTime string    `gorm:"type:varchar(5);not null" json:"start_time"` // "15:04" 24h clock
	EndTime   string    `gorm:"type:varchar(5);not null" json:"end_time"`
	Capacity  int       `gorm:"not null" json:"capacity"`
	Category  string    `gorm:"type:varchar(100)" json:"category"`
	CreatedBy string    `gorm:"type:varchar(255)" json:"created_by,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName sets the table name for the Session model
func (Session) TableName() string {
	return "sessions"
}

// StartsAt combines the session date with its start time of day.
func (s *Session) StartsAt() time.Time {
	return combine(s.Date, s.StartTime)
}

// EndsAt combines the session date with its end time of day.
func (s *Session) EndsAt() time.Time {
	return combine(s.Date, s.EndTime)
}

// IsPast reports whether the session has fully ended at the given instant.
func (s *Session) IsPast(at time.Time) bool {
	return !s.EndsAt().After(at)
}

func combine(date time.Time, clock string) time.Time {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		// Malformed time of day collapses to midnight rather than panicking.
		t = time.Time{}
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
}

// Validate checks the fields required before a session can be stored.
func (s *Session) Validate() error {
	if s.Title == "" {
		return fmt.Errorf("title is required")
	}
	if s.Capacity <= 0 {
		return fmt.Errorf("capacity must be a positive integer")
	}
	if _, err := time.Parse("15:04", s.StartTime); err != nil {
		return fmt.Errorf("start_time must be in HH:MM format")
	}
	if _, err := time.Parse("15:04", s.EndTime); err != nil {
		return fmt.Errorf("end_time must be in HH:MM format")
	}
	if !s.EndsAt().After(s.StartsAt()) {
		return fmt.Errorf("end_time must be after start_time")
	}
	return nil
}
