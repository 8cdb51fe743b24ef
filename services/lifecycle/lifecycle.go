package lifecycle

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"session-booking/logger"
	auditModel "session-booking/models/audit"
	bookingModel "session-booking/models/booking"
	sessionModel "session-booking/models/session"
	settingsModel "session-booking/models/settings"
	"session-booking/services/audit"
	"session-booking/services/capacity"
	"session-booking/services/clock"
	"session-booking/services/notification"
	"session-booking/services/policy"
	"session-booking/services/registry"
	bookingTypes "session-booking/types/booking"
	"session-booking/utils"
)

// RequestContext carries the network origin of a mutating call. It is
// persisted verbatim into the audit trail.
type RequestContext struct {
	IPAddress *string
	UserAgent string
}

// ActionRequest is one attempted mutation of an existing booking.
type ActionRequest struct {
	Action       string
	Reason       string
	NewSessionID uint
	Actor        policy.Actor
	Ctx          RequestContext
}

// CreateRequest is a new booking submission from the public booking page.
type CreateRequest struct {
	SessionID   uint
	ClientName  string
	ClientEmail string
	ClientPhone *string
	Quantity    int
	Notes       *string
	Actor       policy.Actor
	Ctx         RequestContext
}

// Engine owns the booking lifecycle: it validates every mutation through the
// policy evaluator, executes the transition, settles seats with the capacity
// ledger and appends to the audit trail, all inside one transaction per
// attempt. Lifecycle events go to the dispatcher after commit.
type Engine struct {
	DB         *gorm.DB
	Clock      clock.Clock
	Ledger     *capacity.Ledger
	Dispatcher notification.Dispatcher
}

// NewEngine wires the lifecycle engine.
func NewEngine(db *gorm.DB, clk clock.Clock, ledger *capacity.Ledger, dispatcher notification.Dispatcher) *Engine {
	return &Engine{DB: db, Clock: clk, Ledger: ledger, Dispatcher: dispatcher}
}

// GetByID loads a booking with its session.
func (e *Engine) GetByID(id uint) (*bookingModel.Booking, error) {
	var b bookingModel.Booking
	if err := e.DB.Preload("Session").First(&b, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, bookingTypes.NotFoundError("booking", fmt.Sprintf("booking %d not found", id))
		}
		return nil, err
	}
	return &b, nil
}

// GetByReference loads a booking by its client-facing reference.
func (e *Engine) GetByReference(ref string) (*bookingModel.Booking, error) {
	var b bookingModel.Booking
	err := e.DB.Preload("Session").Where("booking_reference = ?", ref).First(&b).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, bookingTypes.NotFoundError("booking", fmt.Sprintf("booking %s not found", ref))
		}
		return nil, err
	}
	return &b, nil
}

// Create submits a new pending booking, reserving seats through the ledger.
func (e *Engine) Create(req CreateRequest) (*bookingModel.Booking, error) {
	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	unlock := e.Ledger.LockSessions(req.SessionID)
	defer unlock()

	nowT := e.Clock.Now()
	reference := utils.GenerateBookingReference()

	var created bookingModel.Booking
	err := e.DB.Transaction(func(tx *gorm.DB) error {
		sess, err := registry.GetSession(tx, req.SessionID)
		if err != nil {
			return err
		}
		if sess.IsPast(nowT) {
			return &bookingTypes.EngineError{
				Kind:    bookingTypes.ErrPastSession,
				Message: "session has already ended and can no longer be booked",
			}
		}
		if err := e.Ledger.Reserve(tx, sess, req.Quantity); err != nil {
			return err
		}

		created = bookingModel.Booking{
			BookingReference: reference,
			SessionID:        sess.ID,
			ClientName:       req.ClientName,
			ClientEmail:      req.ClientEmail,
			ClientPhone:      req.ClientPhone,
			Quantity:         req.Quantity,
			Notes:            req.Notes,
			Status:           bookingModel.BookingStatusPending,
		}
		if err := tx.Create(&created).Error; err != nil {
			return err
		}

		return audit.Append(tx, &auditModel.AuditLog{
			BookingReference: reference,
			Operation:        "created",
			Action:           req.Actor.AuditSource(),
			Actor:            req.Actor.AuditActor(),
			IPAddress:        req.Ctx.IPAddress,
			UserAgent:        req.Ctx.UserAgent,
			ResultingStatus:  bookingModel.BookingStatusPending.String(),
			PerformedAt:      nowT,
		})
	})
	if err != nil {
		return nil, err
	}

	e.notify(notification.Event{
		BookingReference: created.BookingReference,
		EventType:        "created",
		Actor:            req.Actor.AuditActor(),
		ClientEmail:      created.ClientEmail,
		SessionID:        created.SessionID,
		OccurredAt:       nowT,
	}, nil)

	return e.GetByID(created.ID)
}

// ApplyByID executes a named action against a booking resolved by id.
func (e *Engine) ApplyByID(id uint, req ActionRequest) (*bookingModel.Booking, error) {
	b, err := e.GetByID(id)
	if err != nil {
		e.auditAttempt(fmt.Sprintf("id:%d", id), req, err)
		return nil, err
	}
	return e.apply(b, req)
}

// ApplyByReference executes a named action against a booking resolved by its
// client-facing reference.
func (e *Engine) ApplyByReference(ref string, req ActionRequest) (*bookingModel.Booking, error) {
	b, err := e.GetByReference(ref)
	if err != nil {
		e.auditAttempt(ref, req, err)
		return nil, err
	}
	return e.apply(b, req)
}

// apply runs the full mutation pipeline for a resolved booking: parse the
// action name, lock the affected sessions, then re-read state and evaluate
// policy inside the critical section so concurrent mutations serialize
// cleanly. Exactly one audit entry is written per attempt, allowed or not.
func (e *Engine) apply(stale *bookingModel.Booking, req ActionRequest) (*bookingModel.Booking, error) {
	action, ok := bookingModel.ParseBookingAction(req.Action)
	if !ok {
		err := bookingTypes.InvalidActionError(req.Action, actionVocabulary())
		e.auditAttempt(stale.BookingReference, req, err)
		return nil, err
	}
	return e.execute(stale, action, req)
}

func (e *Engine) execute(stale *bookingModel.Booking, action bookingModel.BookingAction, req ActionRequest) (*bookingModel.Booking, error) {
	lockIDs := []uint{stale.SessionID}
	if action == bookingModel.ActionReschedule && req.NewSessionID != 0 {
		lockIDs = append(lockIDs, req.NewSessionID)
	}
	unlock := e.Ledger.LockSessions(lockIDs...)
	defer unlock()

	nowT := e.Clock.Now()

	var (
		denial    *bookingTypes.EngineError
		resulting bookingModel.BookingStatus
		eventType string
	)

	err := e.DB.Transaction(func(tx *gorm.DB) error {
		// Fresh state under the session lock: a concurrent request may have
		// already moved the booking since the caller resolved it.
		var b bookingModel.Booking
		if err := tx.Preload("Session").First(&b, stale.ID).Error; err != nil {
			return err
		}

		cfg, err := settingsModel.Load(tx)
		if err != nil {
			return err
		}

		var target *sessionModel.Session
		if action == bookingModel.ActionReschedule && req.NewSessionID != 0 {
			target, err = registry.GetSession(tx, req.NewSessionID)
			if err != nil {
				if engErr, ok := err.(*bookingTypes.EngineError); ok && engErr.Kind == bookingTypes.ErrNotFound {
					target = nil
				} else {
					return err
				}
			}
		}

		if engErr := policy.Evaluate(&b, action, req.Actor, cfg, &b.Session, target, nowT); engErr != nil {
			denial = engErr
			return e.auditDenied(tx, &b, action, req, engErr, nowT)
		}

		updates, engErr := e.applyEffect(tx, &b, action, target, req, nowT)
		if engErr != nil {
			if engErr.Kind == bookingTypes.ErrConsistencyFault {
				// Invariant violation: roll everything back and let the
				// caller surface an internal fault.
				return engErr
			}
			denial = engErr
			return e.auditDenied(tx, &b, action, req, engErr, nowT)
		}

		if err := tx.Model(&bookingModel.Booking{}).Where("id = ?", b.ID).Updates(updates).Error; err != nil {
			return err
		}

		resulting = b.Status
		if s, ok := updates["status"].(bookingModel.BookingStatus); ok {
			resulting = s
		}
		eventType = eventTypeFor(action)

		return audit.Append(tx, &auditModel.AuditLog{
			BookingReference: b.BookingReference,
			Operation:        string(action),
			Action:           req.Actor.AuditSource(),
			Actor:            req.Actor.AuditActor(),
			IPAddress:        req.Ctx.IPAddress,
			UserAgent:        req.Ctx.UserAgent,
			ResultingStatus:  resulting.String(),
			Reason:           req.Reason,
			PerformedAt:      nowT,
		})
	})
	if err != nil {
		if engErr, ok := err.(*bookingTypes.EngineError); ok && engErr.Kind == bookingTypes.ErrConsistencyFault {
			logger.Error("booking engine consistency fault", engErr)
		}
		return nil, err
	}
	if denial != nil {
		return nil, denial
	}

	fresh, err := e.GetByID(stale.ID)
	if err != nil {
		return nil, err
	}

	if eventType != "" {
		e.notify(notification.Event{
			BookingReference: fresh.BookingReference,
			EventType:        eventType,
			Actor:            req.Actor.AuditActor(),
			ClientEmail:      fresh.ClientEmail,
			SessionID:        fresh.SessionID,
			Reason:           req.Reason,
			OccurredAt:       nowT,
		}, fresh)
	}

	return fresh, nil
}

// applyEffect computes the column updates for an allowed action and settles
// seats with the ledger. Ledger checks run before any row is written, so a
// capacity denial leaves nothing to roll back except the denial audit entry.
func (e *Engine) applyEffect(
	tx *gorm.DB,
	b *bookingModel.Booking,
	action bookingModel.BookingAction,
	target *sessionModel.Session,
	req ActionRequest,
	nowT time.Time,
) (map[string]interface{}, *bookingTypes.EngineError) {
	actorStr := req.Actor.AuditActor()

	switch action {
	case bookingModel.ActionApprove:
		return map[string]interface{}{
			"status":      bookingModel.BookingStatusApproved,
			"approved_at": nowT,
		}, nil

	case bookingModel.ActionReject:
		if err := e.release(tx, b); err != nil {
			return nil, err
		}
		return map[string]interface{}{
			"status":           bookingModel.BookingStatusRejected,
			"rejection_reason": req.Reason,
		}, nil

	case bookingModel.ActionCancel:
		if err := e.release(tx, b); err != nil {
			return nil, err
		}
		return map[string]interface{}{
			"status":              bookingModel.BookingStatusCancelled,
			"cancelled_at":        nowT,
			"cancelled_by":        actorStr,
			"cancellation_reason": req.Reason,
			"cancelled_by_client": req.Actor.Type == policy.ActorClient,
		}, nil

	case bookingModel.ActionSoftDelete:
		if b.HoldsSeats() {
			if err := e.release(tx, b); err != nil {
				return nil, err
			}
		}
		return map[string]interface{}{
			"is_deleted":      true,
			"deleted_at":      nowT,
			"deleted_by":      actorStr,
			"deletion_reason": req.Reason,
		}, nil

	case bookingModel.ActionRestore:
		// Restore re-attempts the reservation at the preserved status.
		// First successful reserve wins: if the seats were taken while the
		// booking was deleted, the restore is denied with CapacityExceeded.
		if b.Status.CountsAgainstCapacity() {
			if err := e.reserve(tx, b.SessionID, b.Quantity); err != nil {
				return nil, err
			}
		}
		return map[string]interface{}{
			"is_deleted":      false,
			"deleted_at":      nil,
			"deleted_by":      nil,
			"deletion_reason": nil,
		}, nil

	case bookingModel.ActionReschedule:
		// Release on the old session and reserve on the new one must appear
		// atomic. Both are checks against the counted set; the single
		// session_id column update below is the only committed change, so a
		// failed reserve leaves the old reservation untouched.
		if err := e.release(tx, b); err != nil {
			return nil, err
		}
		if err := e.reserveOn(tx, target, b.Quantity); err != nil {
			return nil, err
		}
		return map[string]interface{}{
			"session_id":          target.ID,
			"reschedule_count":    b.RescheduleCount + 1,
			"last_rescheduled_at": nowT,
			"reschedule_reason":   req.Reason,
		}, nil

	case bookingModel.ActionExpire:
		if err := e.release(tx, b); err != nil {
			return nil, err
		}
		return map[string]interface{}{
			"status": bookingModel.BookingStatusExpired,
		}, nil
	}

	return nil, &bookingTypes.EngineError{
		Kind:    bookingTypes.ErrConsistencyFault,
		Message: fmt.Sprintf("no effect implemented for action %q", action),
	}
}

func (e *Engine) release(tx *gorm.DB, b *bookingModel.Booking) *bookingTypes.EngineError {
	if err := e.Ledger.Release(tx, b.SessionID, b.Quantity); err != nil {
		return asEngineError(err)
	}
	return nil
}

func (e *Engine) reserve(tx *gorm.DB, sessionID uint, quantity int) *bookingTypes.EngineError {
	sess, err := registry.GetSession(tx, sessionID)
	if err != nil {
		return asEngineError(err)
	}
	return e.reserveOn(tx, sess, quantity)
}

func (e *Engine) reserveOn(tx *gorm.DB, sess *sessionModel.Session, quantity int) *bookingTypes.EngineError {
	if err := e.Ledger.Reserve(tx, sess, quantity); err != nil {
		return asEngineError(err)
	}
	return nil
}

func asEngineError(err error) *bookingTypes.EngineError {
	if engErr, ok := err.(*bookingTypes.EngineError); ok {
		return engErr
	}
	return &bookingTypes.EngineError{Kind: bookingTypes.ErrConsistencyFault, Message: err.Error()}
}

// auditDenied records a denied attempt inside the mutation transaction. The
// transaction commits with only this row in it, so the denial survives while
// the state change it refused never happens.
func (e *Engine) auditDenied(
	tx *gorm.DB,
	b *bookingModel.Booking,
	action bookingModel.BookingAction,
	req ActionRequest,
	engErr *bookingTypes.EngineError,
	nowT time.Time,
) error {
	return audit.Append(tx, &auditModel.AuditLog{
		BookingReference: b.BookingReference,
		Operation:        string(action),
		Action:           req.Actor.AuditSource(),
		Actor:            req.Actor.AuditActor(),
		IPAddress:        req.Ctx.IPAddress,
		UserAgent:        req.Ctx.UserAgent,
		ResultingStatus:  string(engErr.Kind),
		Reason:           engErr.Message,
		PerformedAt:      nowT,
	})
}

// auditAttempt records an attempt that failed before a booking could be
// resolved (unknown id or reference). The lookup key stands in for the
// booking reference so the attempt stays attributable.
func (e *Engine) auditAttempt(lookupKey string, req ActionRequest, attemptErr error) {
	engErr := asEngineError(attemptErr)
	entry := &auditModel.AuditLog{
		BookingReference: lookupKey,
		Operation:        req.Action,
		Action:           req.Actor.AuditSource(),
		Actor:            req.Actor.AuditActor(),
		IPAddress:        req.Ctx.IPAddress,
		UserAgent:        req.Ctx.UserAgent,
		ResultingStatus:  string(engErr.Kind),
		Reason:           engErr.Message,
		PerformedAt:      e.Clock.Now(),
	}
	if err := audit.Append(e.DB, entry); err != nil {
		logger.Error("failed to audit rejected booking lookup", err)
	}
}

func (e *Engine) notify(ev notification.Event, b *bookingModel.Booking) {
	cfg, err := settingsModel.Load(e.DB)
	if err != nil {
		logger.Error("failed to load settings for notification", err)
		return
	}
	if !notificationEnabled(cfg, ev.EventType) {
		return
	}
	if err := e.Dispatcher.Publish(context.Background(), ev); err != nil {
		// Fire and forget: delivery failure never rolls back the transition.
		logger.Warning(fmt.Sprintf("failed to publish %s notification for %s: %v",
			ev.EventType, ev.BookingReference, err))
	}
}

func notificationEnabled(cfg *settingsModel.BookingSettings, eventType string) bool {
	switch eventType {
	case "cancelled":
		return cfg.SendCancellationEmails
	case "rescheduled":
		return cfg.SendRescheduleEmails
	case "expired":
		return cfg.SendExpiryNotifications
	default:
		return cfg.SendConfirmationEmails
	}
}

func eventTypeFor(action bookingModel.BookingAction) string {
	switch action {
	case bookingModel.ActionApprove:
		return "approved"
	case bookingModel.ActionReject:
		return "rejected"
	case bookingModel.ActionCancel:
		return "cancelled"
	case bookingModel.ActionReschedule:
		return "rescheduled"
	case bookingModel.ActionRestore:
		return "restored"
	case bookingModel.ActionExpire:
		return "expired"
	default:
		// Soft delete is an administrative overlay, not a client-visible
		// lifecycle event.
		return ""
	}
}

func actionVocabulary() []string {
	actions := bookingModel.AllBookingActions()
	out := make([]string, len(actions))
	for i, a := range actions {
		out[i] = string(a)
	}
	return out
}
