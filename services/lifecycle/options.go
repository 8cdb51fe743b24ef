package lifecycle

import (
	settingsModel "session-booking/models/settings"
	"session-booking/services/capacity"
	"session-booking/services/policy"
	"session-booking/services/registry"
	bookingTypes "session-booking/types/booking"
)

// RescheduleOptions returns the sessions a client could move the booking to,
// together with what the reschedule policy currently allows. Sessions in the
// past, the booking's own session, and sessions without enough free seats
// are excluded.
func (e *Engine) RescheduleOptions(ref string) (*bookingTypes.RescheduleOptionsResponse, error) {
	b, err := e.GetByReference(ref)
	if err != nil {
		return nil, err
	}

	cfg, err := settingsModel.Load(e.DB)
	if err != nil {
		return nil, err
	}

	nowT := e.Clock.Now()

	upcoming, err := registry.ListUpcoming(e.DB, nowT)
	if err != nil {
		return nil, err
	}

	options := make([]bookingTypes.SessionOption, 0, len(upcoming))
	for i := range upcoming {
		s := &upcoming[i]
		if s.ID == b.SessionID {
			continue
		}
		reserved, err := capacity.ReservedSeats(e.DB, s.ID)
		if err != nil {
			return nil, err
		}
		free := s.Capacity - reserved
		if free < b.Quantity {
			continue
		}
		options = append(options, bookingTypes.SessionOption{
			ID:             s.ID,
			Title:          s.Title,
			Date:           s.Date.Format("2006-01-02"),
			StartTime:      s.StartTime,
			EndTime:        s.EndTime,
			Category:       s.Category,
			SpotsAvailable: free,
		})
	}

	return &bookingTypes.RescheduleOptionsResponse{
		CurrentBooking:    b,
		AvailableSessions: options,
		ReschedulePolicy: bookingTypes.ReschedulePolicy{
			CanReschedule:           policy.CanClientReschedule(b, cfg, nowT),
			ReschedulesRemaining:    policy.ReschedulesRemaining(b, cfg),
			MaxReschedulesAllowed:   cfg.MaxReschedulesPerBooking,
			RescheduleDeadlineHours: cfg.RescheduleDeadlineHours,
			FeePolicy:               cfg.RescheduleFeePolicy,
		},
	}, nil
}

// ClientView wraps a booking with the self-service capability flags the
// public booking page shows.
func (e *Engine) ClientView(ref string) (*bookingTypes.ClientBookingResponse, error) {
	b, err := e.GetByReference(ref)
	if err != nil {
		return nil, err
	}
	cfg, err := settingsModel.Load(e.DB)
	if err != nil {
		return nil, err
	}
	nowT := e.Clock.Now()
	return &bookingTypes.ClientBookingResponse{
		Booking:                  b,
		CanBeCancelledByClient:   policy.CanClientCancel(b, cfg, nowT),
		CanBeRescheduledByClient: policy.CanClientReschedule(b, cfg, nowT),
	}, nil
}
