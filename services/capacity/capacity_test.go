package capacity

import (
	"sync"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	bookingModel "session-booking/models/booking"
	sessionModel "session-booking/models/session"
	bookingTypes "session-booking/types/booking"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// A pooled :memory: connection is its own database; pin the pool to one.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&sessionModel.Session{}, &bookingModel.Booking{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedSession(t *testing.T, db *gorm.DB, capacity int) *sessionModel.Session {
	t.Helper()
	sess := &sessionModel.Session{
		Title:     "Test Session",
		Date:      time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		StartTime: "10:00",
		EndTime:   "11:00",
		Capacity:  capacity,
	}
	if err := db.Create(sess).Error; err != nil {
		t.Fatalf("seed session: %v", err)
	}
	return sess
}

func seedBooking(t *testing.T, db *gorm.DB, sess *sessionModel.Session, ref string, status bookingModel.BookingStatus, quantity int, deleted bool) {
	t.Helper()
	b := &bookingModel.Booking{
		BookingReference: ref,
		SessionID:        sess.ID,
		ClientName:       "Test Client",
		ClientEmail:      "client@example.com",
		Quantity:         quantity,
		Status:           status,
		IsDeleted:        deleted,
	}
	if err := db.Create(b).Error; err != nil {
		t.Fatalf("seed booking %s: %v", ref, err)
	}
}

func TestReservedSeats_CountsOnlyHoldingBookings(t *testing.T) {
	db := openTestDB(t)
	sess := seedSession(t, db, 20)

	seedBooking(t, db, sess, "BK-PEND0001", bookingModel.BookingStatusPending, 2, false)
	seedBooking(t, db, sess, "BK-APPR0001", bookingModel.BookingStatusApproved, 3, false)
	seedBooking(t, db, sess, "BK-REJC0001", bookingModel.BookingStatusRejected, 4, false)
	seedBooking(t, db, sess, "BK-CANC0001", bookingModel.BookingStatusCancelled, 5, false)
	seedBooking(t, db, sess, "BK-EXPD0001", bookingModel.BookingStatusExpired, 6, false)
	seedBooking(t, db, sess, "BK-DELT0001", bookingModel.BookingStatusApproved, 7, true)

	reserved, err := ReservedSeats(db, sess.ID)
	if err != nil {
		t.Fatalf("reserved seats: %v", err)
	}
	if reserved != 5 {
		t.Fatalf("expected 5 reserved seats, got %d", reserved)
	}
}

func TestReservedSeats_EmptySessionIsZero(t *testing.T) {
	db := openTestDB(t)
	sess := seedSession(t, db, 10)

	reserved, err := ReservedSeats(db, sess.ID)
	if err != nil {
		t.Fatalf("reserved seats: %v", err)
	}
	if reserved != 0 {
		t.Fatalf("expected 0 reserved seats, got %d", reserved)
	}
}

func TestReserve_DeniesOverCapacity(t *testing.T) {
	db := openTestDB(t)
	ledger := NewLedger()
	sess := seedSession(t, db, 5)
	seedBooking(t, db, sess, "BK-HELD0001", bookingModel.BookingStatusApproved, 4, false)

	if err := ledger.Reserve(db, sess, 1); err != nil {
		t.Fatalf("expected reserve of the last seat to succeed, got %v", err)
	}

	err := ledger.Reserve(db, sess, 2)
	engErr, ok := err.(*bookingTypes.EngineError)
	if !ok {
		t.Fatalf("expected EngineError, got %v", err)
	}
	if engErr.Kind != bookingTypes.ErrCapacityExceeded {
		t.Fatalf("expected capacity_exceeded, got %s", engErr.Kind)
	}
}

func TestReserve_RejectsNonPositiveQuantity(t *testing.T) {
	db := openTestDB(t)
	ledger := NewLedger()
	sess := seedSession(t, db, 5)

	err := ledger.Reserve(db, sess, 0)
	engErr, ok := err.(*bookingTypes.EngineError)
	if !ok || engErr.Kind != bookingTypes.ErrConsistencyFault {
		t.Fatalf("expected consistency_fault, got %v", err)
	}
}

func TestRelease_FaultsWhenOverReleasing(t *testing.T) {
	db := openTestDB(t)
	ledger := NewLedger()
	sess := seedSession(t, db, 10)
	seedBooking(t, db, sess, "BK-HELD0001", bookingModel.BookingStatusPending, 2, false)

	if err := ledger.Release(db, sess.ID, 2); err != nil {
		t.Fatalf("expected release within the reserved total, got %v", err)
	}

	err := ledger.Release(db, sess.ID, 3)
	engErr, ok := err.(*bookingTypes.EngineError)
	if !ok || engErr.Kind != bookingTypes.ErrConsistencyFault {
		t.Fatalf("expected consistency_fault, got %v", err)
	}
}

func TestLockSessions_DeduplicatesAndUnlocks(t *testing.T) {
	ledger := NewLedger()

	unlock := ledger.LockSessions(3, 1, 3, 2)
	unlock()

	// Relocking the same ids proves the first unlock released everything.
	done := make(chan struct{})
	go func() {
		u := ledger.LockSessions(1, 2, 3)
		u()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("locks were not released")
	}
}

func TestReserve_ConcurrentLastSeat(t *testing.T) {
	db := openTestDB(t)
	ledger := NewLedger()
	sess := seedSession(t, db, 1)

	const attempts = 8
	var wg sync.WaitGroup
	successes := make(chan string, attempts)

	for i := 0; i < attempts; i++ {
		ref := "BK-RACE000" + string(rune('0'+i))
		wg.Add(1)
		go func(ref string) {
			defer wg.Done()
			unlock := ledger.LockSessions(sess.ID)
			defer unlock()

			err := db.Transaction(func(tx *gorm.DB) error {
				if err := ledger.Reserve(tx, sess, 1); err != nil {
					return err
				}
				return tx.Create(&bookingModel.Booking{
					BookingReference: ref,
					SessionID:        sess.ID,
					ClientName:       "Racer",
					ClientEmail:      "racer@example.com",
					Quantity:         1,
					Status:           bookingModel.BookingStatusPending,
				}).Error
			})
			if err == nil {
				successes <- ref
			}
		}(ref)
	}
	wg.Wait()
	close(successes)

	won := 0
	for range successes {
		won++
	}
	if won != 1 {
		t.Fatalf("expected exactly one booking to win the last seat, got %d", won)
	}

	reserved, err := ReservedSeats(db, sess.ID)
	if err != nil {
		t.Fatalf("reserved seats: %v", err)
	}
	if reserved != 1 {
		t.Fatalf("expected 1 reserved seat after the race, got %d", reserved)
	}
}
