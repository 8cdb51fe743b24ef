package booking

// BookingStatus is the lifecycle status of a booking
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusApproved  BookingStatus = "approved"
	BookingStatusRejected  BookingStatus = "rejected"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusExpired   BookingStatus = "expired"
)

// BookingAction is an operation on a booking, dispatched by name from the API
type BookingAction string

const (
	ActionApprove    BookingAction = "approve"
	ActionReject     BookingAction = "reject"
	ActionCancel     BookingAction = "cancel"
	ActionSoftDelete BookingAction = "soft_delete"
	ActionRestore    BookingAction = "restore"
	ActionReschedule BookingAction = "reschedule"
	// ActionExpire is system-assigned by the expiry sweep, never accepted
	// from callers and never listed in the action vocabulary.
	ActionExpire BookingAction = "expire"
)

// Helper methods for BookingStatus

func (bs BookingStatus) String() string {
	return string(bs)
}

func (bs BookingStatus) IsValid() bool {
	switch bs {
	case BookingStatusPending, BookingStatusApproved, BookingStatusRejected, BookingStatusCancelled, BookingStatusExpired:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if no further lifecycle action can change the status
func (bs BookingStatus) IsTerminal() bool {
	return bs == BookingStatusRejected || bs == BookingStatusCancelled || bs == BookingStatusExpired
}

// CountsAgainstCapacity returns true if a non-deleted booking in this status
// holds seats on its session
func (bs BookingStatus) CountsAgainstCapacity() bool {
	return bs == BookingStatusPending || bs == BookingStatusApproved
}

// GetAllBookingStatuses returns all valid booking statuses
func GetAllBookingStatuses() []BookingStatus {
	return []BookingStatus{
		BookingStatusPending,
		BookingStatusApproved,
		BookingStatusRejected,
		BookingStatusCancelled,
		BookingStatusExpired,
	}
}

// ParseBookingAction resolves an action name from a request payload.
// The bool result is false for anything outside the caller vocabulary,
// including "expire".
func ParseBookingAction(name string) (BookingAction, bool) {
	a := BookingAction(name)
	for _, valid := range AllBookingActions() {
		if a == valid {
			return a, true
		}
	}
	return "", false
}

// AllBookingActions returns the full caller-facing action vocabulary. Error
// responses for unknown action names enumerate exactly this list, so it and
// AllowedFrom share the same constants and cannot drift apart.
func AllBookingActions() []BookingAction {
	return []BookingAction{
		ActionApprove,
		ActionReject,
		ActionCancel,
		ActionSoftDelete,
		ActionRestore,
		ActionReschedule,
	}
}

// AllowedFrom reports whether the action is legal for a booking with the
// given status and soft-delete flag. This is the single transition table;
// AllowedActions derives the "valid next actions" lists from it.
func (a BookingAction) AllowedFrom(status BookingStatus, deleted bool) bool {
	if deleted {
		return a == ActionRestore
	}
	switch a {
	case ActionApprove, ActionReject:
		return status == BookingStatusPending
	case ActionCancel, ActionReschedule:
		return status == BookingStatusPending || status == BookingStatusApproved
	case ActionSoftDelete:
		return true
	case ActionRestore:
		return false
	case ActionExpire:
		return status == BookingStatusPending
	default:
		return false
	}
}

// AllowedActions returns the caller actions currently legal for a booking
// with the given status and soft-delete flag
func AllowedActions(status BookingStatus, deleted bool) []string {
	var out []string
	for _, a := range AllBookingActions() {
		if a.AllowedFrom(status, deleted) {
			out = append(out, string(a))
		}
	}
	return out
}
