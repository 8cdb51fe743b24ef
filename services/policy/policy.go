package policy

import (
	"fmt"
	"strings"
	"time"

	auditModel "session-booking/models/audit"
	bookingModel "session-booking/models/booking"
	sessionModel "session-booking/models/session"
	settingsModel "session-booking/models/settings"
	bookingTypes "session-booking/types/booking"
)

// ActorType distinguishes staff tooling from anonymous client flows
type ActorType string

const (
	ActorAdmin  ActorType = "admin"
	ActorClient ActorType = "client"
)

// Actor identifies who is attempting a booking mutation. Staff actors carry
// an authenticated identity; client actors carry only a claimed email that
// must match the booking for the ownership check to pass.
type Actor struct {
	Type         ActorType
	Identity     string
	ClaimedEmail string
}

// Admin builds a staff actor from an authenticated identity.
func Admin(identity string) Actor {
	return Actor{Type: ActorAdmin, Identity: identity}
}

// Client builds an anonymous client actor from a claimed email.
func Client(claimedEmail string) Actor {
	return Actor{Type: ActorClient, ClaimedEmail: claimedEmail}
}

// System is the actor used by background jobs such as the expiry sweep.
func System(job string) Actor {
	return Actor{Type: ActorAdmin, Identity: "system:" + job}
}

// AuditActor renders the actor for the audit trail.
func (a Actor) AuditActor() string {
	if a.Type == ActorClient {
		return "client:" + a.ClaimedEmail
	}
	return a.Identity
}

// AuditSource maps the actor type to the audit action source.
func (a Actor) AuditSource() auditModel.ActionSource {
	if a.Type == ActorClient {
		return auditModel.SourceClient
	}
	return auditModel.SourceAdmin
}

// Evaluate decides whether the action is currently permitted for the booking.
// It is a pure function of its arguments: no database access, no wall clock.
// Rules run in a fixed order and the first failing rule wins, so every denial
// reason is independently testable. A nil result means the action is allowed
// (capacity on the target session is still decided by the ledger at commit).
//
// source is the booking's current session; target is only set for reschedule
// and stays nil when the requested target session does not exist.
func Evaluate(
	b *bookingModel.Booking,
	action bookingModel.BookingAction,
	actor Actor,
	cfg *settingsModel.BookingSettings,
	source *sessionModel.Session,
	target *sessionModel.Session,
	at time.Time,
) *bookingTypes.EngineError {
	// 1. Ownership: client actions must come from the booking's own client.
	if actor.Type == ActorClient && !strings.EqualFold(actor.ClaimedEmail, b.ClientEmail) {
		return &bookingTypes.EngineError{
			Kind:    bookingTypes.ErrForbidden,
			Message: "email does not match the booking",
		}
	}

	// 2+3. Deleted-state and status guards, from the single transition table.
	if !action.AllowedFrom(b.Status, b.IsDeleted) {
		return bookingTypes.InvalidTransitionError(
			transitionMessage(b, action),
			b.Status.String(),
			bookingModel.AllowedActions(b.Status, b.IsDeleted),
		)
	}

	if action == bookingModel.ActionReschedule {
		// 4. Temporal guard: neither end of the move may be in the past.
		if source.IsPast(at) {
			return &bookingTypes.EngineError{
				Kind:    bookingTypes.ErrPastSession,
				Message: "the booked session has already ended and cannot be rescheduled",
			}
		}
		if target != nil && target.IsPast(at) {
			return &bookingTypes.EngineError{
				Kind:    bookingTypes.ErrPastSession,
				Message: "the target session has already ended and cannot be rescheduled to",
			}
		}
	}

	if actor.Type == ActorClient {
		// 5. Deadline guard for client reschedule/cancel.
		if action == bookingModel.ActionReschedule && cfg.RescheduleDeadlineHours > 0 {
			deadline := source.StartsAt().Add(-time.Duration(cfg.RescheduleDeadlineHours) * time.Hour)
			if !at.Before(deadline) {
				return &bookingTypes.EngineError{
					Kind: bookingTypes.ErrDeadlinePassed,
					Message: fmt.Sprintf("reschedules close %d hours before the session starts",
						cfg.RescheduleDeadlineHours),
				}
			}
		}
		if action == bookingModel.ActionCancel && cfg.CancellationDeadlineHours > 0 {
			deadline := source.StartsAt().Add(-time.Duration(cfg.CancellationDeadlineHours) * time.Hour)
			if !at.Before(deadline) {
				return &bookingTypes.EngineError{
					Kind: bookingTypes.ErrDeadlinePassed,
					Message: fmt.Sprintf("cancellations close %d hours before the session starts",
						cfg.CancellationDeadlineHours),
				}
			}
		}

		// 6. Quota guard for client reschedule.
		if action == bookingModel.ActionReschedule && b.RescheduleCount >= cfg.MaxReschedulesPerBooking {
			return &bookingTypes.EngineError{
				Kind: bookingTypes.ErrRescheduleLimitExceeded,
				Message: fmt.Sprintf("this booking has already been rescheduled %d of %d allowed times",
					b.RescheduleCount, cfg.MaxReschedulesPerBooking),
			}
		}

		// 7. Feature flags.
		if action == bookingModel.ActionReschedule && !cfg.AllowClientReschedule {
			return &bookingTypes.EngineError{
				Kind:    bookingTypes.ErrFeatureDisabled,
				Message: "client reschedules are currently disabled",
			}
		}
		if action == bookingModel.ActionCancel && !cfg.AllowClientCancellation {
			return &bookingTypes.EngineError{
				Kind:    bookingTypes.ErrFeatureDisabled,
				Message: "client cancellations are currently disabled",
			}
		}
	}

	// 8. Target existence. Capacity on the target is the ledger's call.
	if action == bookingModel.ActionReschedule && target == nil {
		return bookingTypes.NotFoundError("session", "target session not found")
	}

	return nil
}

func transitionMessage(b *bookingModel.Booking, action bookingModel.BookingAction) string {
	if b.IsDeleted && action != bookingModel.ActionRestore {
		return fmt.Sprintf("cannot %s a deleted booking; restore it first", action)
	}
	if action == bookingModel.ActionRestore {
		return "booking is not deleted"
	}
	return fmt.Sprintf("cannot %s a booking with status %q", action, b.Status)
}

// CanClientCancel reports whether the booking's own client could cancel it
// right now under the given settings.
func CanClientCancel(b *bookingModel.Booking, cfg *settingsModel.BookingSettings, at time.Time) bool {
	return Evaluate(b, bookingModel.ActionCancel, Client(b.ClientEmail), cfg, &b.Session, nil, at) == nil
}

// CanClientReschedule reports whether the booking's own client could
// reschedule it right now, independent of any particular target session.
// A NotFound from the target-existence rule means every preceding rule
// passed.
func CanClientReschedule(b *bookingModel.Booking, cfg *settingsModel.BookingSettings, at time.Time) bool {
	err := Evaluate(b, bookingModel.ActionReschedule, Client(b.ClientEmail), cfg, &b.Session, nil, at)
	return err == nil || err.Kind == bookingTypes.ErrNotFound
}

// ReschedulesRemaining returns how many client reschedules the booking has
// left under the configured quota.
func ReschedulesRemaining(b *bookingModel.Booking, cfg *settingsModel.BookingSettings) int {
	remaining := cfg.MaxReschedulesPerBooking - b.RescheduleCount
	if remaining < 0 {
		return 0
	}
	return remaining
}
