package service

import (
	"errors"
	"fmt"

	"github.com/iliyamo/dorm-booking/internal/repository"
)

// Kind classifies a service error.  The transport layer maps kinds to
// status codes; the message is safe to show to the caller.
type Kind string

const (
	KindValidation            Kind = "VALIDATION_ERROR"
	KindForbidden             Kind = "FORBIDDEN"
	KindNotFound              Kind = "NOT_FOUND"
	KindInsufficientInventory Kind = "INSUFFICIENT_INVENTORY"
	KindInvalidTransition     Kind = "INVALID_TRANSITION"
	KindRoomHasActiveBookings Kind = "ROOM_HAS_ACTIVE_BOOKINGS"
)

// Error is a classified failure returned by every service operation.
// Errors without a Kind (plain errors from storage) are internal.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func validationf(format string, args ...any) error { return newError(KindValidation, format, args...) }
func forbiddenf(format string, args ...any) error  { return newError(KindForbidden, format, args...) }
func notFoundf(format string, args ...any) error   { return newError(KindNotFound, format, args...) }

// AsError returns the classified error inside err, if any.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the kind of err or "" when err is internal.
func KindOf(err error) Kind {
	if e, ok := AsError(err); ok {
		return e.Kind
	}
	return ""
}

// notFoundOr turns repository.ErrNotFound into a NotFound error about what
// and passes every other error through unchanged.
func notFoundOr(err error, what string, id uint64) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFoundf("%s %d not found", what, id)
	}
	return err
}
