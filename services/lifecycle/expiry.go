package lifecycle

import (
	"context"
	"fmt"
	"time"

	"session-booking/logger"
	bookingModel "session-booking/models/booking"
	"session-booking/services/policy"
)

// ExpireDue marks every pending booking whose session has ended as expired,
// releasing its seats. Each booking goes through the normal action pipeline
// so expiry is audited and notified like any other transition. Returns how
// many bookings were expired.
func (e *Engine) ExpireDue() (int, error) {
	nowT := e.Clock.Now()

	var pending []bookingModel.Booking
	err := e.DB.Preload("Session").
		Where("status = ? AND is_deleted = ?", bookingModel.BookingStatusPending, false).
		Find(&pending).Error
	if err != nil {
		return 0, err
	}

	agent := "expiry-sweep"
	expired := 0
	for i := range pending {
		b := &pending[i]
		if !b.Session.IsPast(nowT) {
			continue
		}
		_, err := e.execute(b, bookingModel.ActionExpire, ActionRequest{
			Action: string(bookingModel.ActionExpire),
			Reason: "session ended while booking was still pending",
			Actor:  policy.System("expiry-sweep"),
			Ctx:    RequestContext{UserAgent: agent},
		})
		if err != nil {
			// A booking mutated between the scan and the action is fine to
			// skip; it will be re-examined on the next sweep.
			logger.Warning(fmt.Sprintf("expiry sweep skipped booking %s: %v", b.BookingReference, err))
			continue
		}
		expired++
	}
	return expired, nil
}

// StartExpirySweep runs ExpireDue on the given interval until the context is
// cancelled. Meant to be started as a goroutine from main.
func (e *Engine) StartExpirySweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info(fmt.Sprintf("expiry sweep running every %s", interval))
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := e.ExpireDue()
			if err != nil {
				logger.Error("expiry sweep failed", err)
				continue
			}
			if n > 0 {
				logger.Info(fmt.Sprintf("expiry sweep expired %d pending booking(s)", n))
			}
		}
	}
}
