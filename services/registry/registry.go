package registry

import (
	"fmt"
	"time"

	"github.com/jinzhu/now"
	"gorm.io/gorm"

	sessionModel "session-booking/models/session"
	bookingTypes "session-booking/types/booking"
)

// GetSession loads a session by id. The db handle may be a transaction so
// lookups participate in the caller's atomicity.
func GetSession(db *gorm.DB, id uint) (*sessionModel.Session, error) {
	var s sessionModel.Session
	if err := db.First(&s, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, bookingTypes.NotFoundError("session", fmt.Sprintf("session %d not found", id))
		}
		return nil, err
	}
	return &s, nil
}

// ListUpcoming returns sessions whose date falls on or after the current day
// and whose end time has not yet passed, ordered by date and start time.
func ListUpcoming(db *gorm.DB, at time.Time) ([]sessionModel.Session, error) {
	dayStart := now.With(at).BeginningOfDay()

	var sessions []sessionModel.Session
	err := db.
		Where("date >= ?", dayStart).
		Order("date, start_time").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}

	// Sessions earlier today that already ended are filtered here; the date
	// column alone cannot express the end-of-session boundary.
	out := sessions[:0]
	for i := range sessions {
		if !sessions[i].IsPast(at) {
			out = append(out, sessions[i])
		}
	}
	return out, nil
}
