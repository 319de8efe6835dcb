package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies application errors so controllers can map them to HTTP
// statuses without string matching.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindNotAvailable
	KindNotYetOpen
	KindAlreadyCompleted
	KindUnauthenticated
	KindForbidden
	KindSequencingFatal
	KindConflict
	KindInvalid
)

// Error is the single error type crossing the service boundary. Details
// carries extra payload keys that belong in the JSON error body (e.g.
// starts_in_seconds for a scheduled quiz, prior final_score for a
// no-retake re-attempt).
type Error struct {
	Kind    Kind
	Message string
	Details map[string]interface{}
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// WithDetail attaches a client-visible payload field and returns the error
// for chaining.
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

func NotFound(message string) *Error         { return New(KindNotFound, message) }
func NotAvailable(message string) *Error     { return New(KindNotAvailable, message) }
func NotYetOpen(message string) *Error       { return New(KindNotYetOpen, message) }
func AlreadyCompleted(message string) *Error { return New(KindAlreadyCompleted, message) }
func Unauthenticated(message string) *Error  { return New(KindUnauthenticated, message) }
func Forbidden(message string) *Error        { return New(KindForbidden, message) }
func SequencingFatal(message string) *Error  { return New(KindSequencingFatal, message) }
func Conflict(message string) *Error         { return New(KindConflict, message) }
func Invalid(message string) *Error          { return New(KindInvalid, message) }
func Internal(message string, err error) *Error {
	return Wrap(KindInternal, message, err)
}

// KindOf extracts the Kind of an error, defaulting to KindInternal for
// anything that is not an *Error.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// HTTPStatus maps an error to the status code the API contract promises.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindNotAvailable:
		return http.StatusNotFound
	case KindNotYetOpen, KindAlreadyCompleted, KindForbidden:
		return http.StatusForbidden
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindInvalid:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindSequencingFatal, KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// Body builds the JSON error body: the message under "error" with any
// Details flattened beside it.
func Body(err error) map[string]interface{} {
	body := map[string]interface{}{"error": err.Error()}
	var appErr *Error
	if errors.As(err, &appErr) {
		body["error"] = appErr.Message
		for k, v := range appErr.Details {
			body[k] = v
		}
	}
	return body
}

// DetailsOf returns the client-visible payload fields of an error, if any.
func DetailsOf(err error) map[string]interface{} {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Details
	}
	return nil
}
