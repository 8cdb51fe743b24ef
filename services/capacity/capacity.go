package capacity

import (
	"fmt"
	"sort"
	"sync"

	"gorm.io/gorm"

	bookingModel "session-booking/models/booking"
	sessionModel "session-booking/models/session"
	bookingTypes "session-booking/types/booking"
)

// Ledger is the single authority on seats reserved per session. Reservation
// decisions are never made by summing rows outside of it: callers take the
// per-session lock, open a transaction, and let Reserve re-derive the
// reserved total inside the critical section. That keeps two concurrent
// requests from both observing free capacity and overcommitting a session.
type Ledger struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

// NewLedger creates an empty capacity ledger.
func NewLedger() *Ledger {
	return &Ledger{locks: make(map[uint]*sync.Mutex)}
}

func (l *Ledger) sessionLock(id uint) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	return m
}

// LockSessions acquires the mutexes for the given sessions and returns the
// matching unlock function. Locks are taken in ascending id order so a
// cross-session reschedule can never deadlock against another one running
// the opposite direction. Duplicate ids are collapsed.
func (l *Ledger) LockSessions(ids ...uint) func() {
	uniq := make([]uint, 0, len(ids))
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			uniq = append(uniq, id)
		}
	}
	sort.Slice(uniq, func(i, j int) bool { return uniq[i] < uniq[j] })

	held := make([]*sync.Mutex, 0, len(uniq))
	for _, id := range uniq {
		m := l.sessionLock(id)
		m.Lock()
		held = append(held, m)
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}

// ReservedSeats sums the quantity of every booking currently holding seats
// on the session: status in {pending, approved} and not soft-deleted.
func ReservedSeats(db *gorm.DB, sessionID uint) (int, error) {
	var reserved int64
	err := db.Model(&bookingModel.Booking{}).
		Where("session_id = ? AND is_deleted = ? AND status IN ?",
			sessionID, false,
			[]bookingModel.BookingStatus{bookingModel.BookingStatusPending, bookingModel.BookingStatusApproved}).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&reserved).Error
	if err != nil {
		return 0, err
	}
	return int(reserved), nil
}

// Reserve admits quantity additional seats on the session, or fails with
// CapacityExceeded. The caller must hold the session lock and pass the
// transaction the admitting row will be written in.
func (l *Ledger) Reserve(tx *gorm.DB, sess *sessionModel.Session, quantity int) error {
	if quantity <= 0 {
		return &bookingTypes.EngineError{
			Kind:    bookingTypes.ErrConsistencyFault,
			Message: fmt.Sprintf("reserve of non-positive quantity %d on session %d", quantity, sess.ID),
		}
	}
	reserved, err := ReservedSeats(tx, sess.ID)
	if err != nil {
		return err
	}
	if reserved+quantity > sess.Capacity {
		return &bookingTypes.EngineError{
			Kind: bookingTypes.ErrCapacityExceeded,
			Message: fmt.Sprintf("session %q has %d of %d seats reserved, cannot reserve %d more",
				sess.Title, reserved, sess.Capacity, quantity),
		}
	}
	return nil
}

// Release checks that quantity seats can leave the counted set for the
// session. The seats themselves are freed by the status change committed in
// the same transaction; releasing more than is reserved means a booking was
// double-released and is an internal fault, never a user error.
func (l *Ledger) Release(tx *gorm.DB, sessionID uint, quantity int) error {
	reserved, err := ReservedSeats(tx, sessionID)
	if err != nil {
		return err
	}
	if quantity > reserved {
		return &bookingTypes.EngineError{
			Kind: bookingTypes.ErrConsistencyFault,
			Message: fmt.Sprintf("release of %d seats on session %d exceeds reserved total %d",
				quantity, sessionID, reserved),
		}
	}
	return nil
}
