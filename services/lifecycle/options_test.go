package lifecycle

import (
	"testing"
	"time"

	bookingModel "session-booking/models/booking"
	settingsModel "session-booking/models/settings"
	"session-booking/services/policy"
	bookingTypes "session-booking/types/booking"
)

func TestClientCancel_DeadlineWindowCloses(t *testing.T) {
	e, db, clk, _ := newTestEngine(t)
	sess := seedSession(t, db, "Morning Yoga", upcomingDate(), 5)
	b := createBooking(t, e, sess.ID, "alice@example.com", 1)

	// Move to 2 hours before the session starts: inside the 24h window.
	clk.Current = sess.StartsAt().Add(-2 * time.Hour)

	_, err := e.ApplyByReference(b.BookingReference, ActionRequest{
		Action: "cancel",
		Actor:  policy.Client("alice@example.com"),
	})
	if engineErr(t, err).Kind != bookingTypes.ErrDeadlinePassed {
		t.Fatalf("expected deadline_passed, got %v", err)
	}

	// Staff can still cancel at the same instant.
	if _, err := e.ApplyByID(b.ID, adminReq("cancel", "late cancellation")); err != nil {
		t.Fatalf("admin cancel inside the window: %v", err)
	}
}

func TestRescheduleOptions(t *testing.T) {
	e, db, _, _ := newTestEngine(t)
	sessA := seedSession(t, db, "Session A", upcomingDate(), 3)
	sessB := seedSession(t, db, "Session B", laterDate(), 3)
	full := seedSession(t, db, "Full Session", laterDate(), 1)
	seedSession(t, db, "Old Session", pastDate(), 10)
	createBooking(t, e, full.ID, "bob@example.com", 1)

	b := createBooking(t, e, sessA.ID, "alice@example.com", 1)

	resp, err := e.RescheduleOptions(b.BookingReference)
	if err != nil {
		t.Fatalf("reschedule options: %v", err)
	}

	if len(resp.AvailableSessions) != 1 {
		t.Fatalf("expected only session B offered, got %+v", resp.AvailableSessions)
	}
	opt := resp.AvailableSessions[0]
	if opt.ID != sessB.ID {
		t.Fatalf("expected session B, got %d", opt.ID)
	}
	if opt.SpotsAvailable != 3 {
		t.Fatalf("expected 3 free seats on session B, got %d", opt.SpotsAvailable)
	}

	if !resp.ReschedulePolicy.CanReschedule {
		t.Fatalf("expected a fresh booking to be reschedulable")
	}
	if resp.ReschedulePolicy.ReschedulesRemaining != 2 {
		t.Fatalf("expected 2 reschedules remaining, got %d", resp.ReschedulePolicy.ReschedulesRemaining)
	}
	if resp.ReschedulePolicy.MaxReschedulesAllowed != 2 {
		t.Fatalf("expected quota 2, got %d", resp.ReschedulePolicy.MaxReschedulesAllowed)
	}
}

func TestRescheduleOptions_ExcludesSessionsWithoutRoomForQuantity(t *testing.T) {
	e, db, _, _ := newTestEngine(t)
	sessA := seedSession(t, db, "Session A", upcomingDate(), 4)
	tight := seedSession(t, db, "Tight Session", laterDate(), 3)
	createBooking(t, e, tight.ID, "bob@example.com", 2)

	// Three seats needed, one free: the session must not be offered.
	b := createBooking(t, e, sessA.ID, "alice@example.com", 3)

	resp, err := e.RescheduleOptions(b.BookingReference)
	if err != nil {
		t.Fatalf("reschedule options: %v", err)
	}
	if len(resp.AvailableSessions) != 0 {
		t.Fatalf("expected no options, got %+v", resp.AvailableSessions)
	}
}

func TestClientView_CapabilityFlags(t *testing.T) {
	e, db, _, _ := newTestEngine(t)
	sess := seedSession(t, db, "Morning Yoga", upcomingDate(), 5)
	b := createBooking(t, e, sess.ID, "alice@example.com", 1)

	view, err := e.ClientView(b.BookingReference)
	if err != nil {
		t.Fatalf("client view: %v", err)
	}
	if !view.CanBeCancelledByClient || !view.CanBeRescheduledByClient {
		t.Fatalf("expected both capabilities for a fresh booking, got %+v", view)
	}

	cfg, err := settingsModel.Load(db)
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	cfg.AllowClientReschedule = false
	if err := db.Save(cfg).Error; err != nil {
		t.Fatalf("save settings: %v", err)
	}

	view, err = e.ClientView(b.BookingReference)
	if err != nil {
		t.Fatalf("client view: %v", err)
	}
	if view.CanBeRescheduledByClient {
		t.Fatalf("expected no reschedule capability with the flag off")
	}
	if !view.CanBeCancelledByClient {
		t.Fatalf("cancel capability must be unaffected by the reschedule flag")
	}

	if _, err := e.ApplyByID(b.ID, adminReq("cancel", "")); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	view, err = e.ClientView(b.BookingReference)
	if err != nil {
		t.Fatalf("client view: %v", err)
	}
	if view.Booking.Status != bookingModel.BookingStatusCancelled {
		t.Fatalf("expected cancelled, got %s", view.Booking.Status)
	}
	if view.CanBeCancelledByClient || view.CanBeRescheduledByClient {
		t.Fatalf("expected no capabilities on a cancelled booking")
	}
}
