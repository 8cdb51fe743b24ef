package booking

import "net/http"

// ErrorKind classifies every way a booking mutation can fail. All kinds
// except ErrConsistencyFault are recoverable by the caller with corrected
// input; ErrConsistencyFault signals an internal invariant violation.
type ErrorKind string

const (
	ErrNotFound                ErrorKind = "not_found"
	ErrInvalidAction           ErrorKind = "invalid_action"
	ErrInvalidTransition       ErrorKind = "invalid_transition"
	ErrForbidden               ErrorKind = "forbidden"
	ErrCapacityExceeded        ErrorKind = "capacity_exceeded"
	ErrPastSession             ErrorKind = "past_session_not_reschedulable"
	ErrDeadlinePassed          ErrorKind = "deadline_passed"
	ErrRescheduleLimitExceeded ErrorKind = "reschedule_limit_exceeded"
	ErrFeatureDisabled         ErrorKind = "feature_disabled"
	ErrConsistencyFault        ErrorKind = "consistency_fault"
)

// EngineError is the structured failure result of a booking mutation. It is
// serialized verbatim into the Data field of the API response so callers can
// self-correct: invalid actions carry the full vocabulary, illegal
// transitions carry the current status and the legal next actions.
type EngineError struct {
	Kind          ErrorKind `json:"error_code"`
	Message       string    `json:"error"`
	Entity        string    `json:"entity,omitempty"`
	CurrentStatus string    `json:"current_status,omitempty"`
	ValidActions  []string  `json:"valid_actions,omitempty"`
}

func (e *EngineError) Error() string {
	return e.Message
}

// HTTPStatus maps the error kind to the response status code.
func (e *EngineError) HTTPStatus() int {
	switch e.Kind {
	case ErrNotFound:
		return http.StatusNotFound
	case ErrForbidden:
		return http.StatusForbidden
	case ErrCapacityExceeded:
		return http.StatusConflict
	case ErrConsistencyFault:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// NotFoundError builds an EngineError for an absent booking or session.
func NotFoundError(entity, message string) *EngineError {
	return &EngineError{Kind: ErrNotFound, Entity: entity, Message: message}
}

// InvalidActionError builds an EngineError carrying the full action
// vocabulary so the caller can self-correct.
func InvalidActionError(name string, vocabulary []string) *EngineError {
	return &EngineError{
		Kind:         ErrInvalidAction,
		Message:      "unrecognized action: " + name,
		ValidActions: vocabulary,
	}
}

// InvalidTransitionError builds an EngineError carrying the current status
// and the actions legal from it.
func InvalidTransitionError(message, currentStatus string, validActions []string) *EngineError {
	return &EngineError{
		Kind:          ErrInvalidTransition,
		Message:       message,
		CurrentStatus: currentStatus,
		ValidActions:  validActions,
	}
}
