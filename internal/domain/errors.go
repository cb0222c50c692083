package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies every failure the rental core reports to callers.
type ErrorKind string

const (
	KindNotFound   ErrorKind = "NOT_FOUND"
	KindConflict   ErrorKind = "CONFLICT"
	KindForbidden  ErrorKind = "FORBIDDEN"
	KindValidation ErrorKind = "VALIDATION"
)

// RentError is the error half of every rental operation result. None of the
// kinds is retried internally.
type RentError struct {
	Kind    ErrorKind
	Message string
}

func (e *RentError) Error() string {
	return e.Message
}

// Expected marks rental rule violations as caller errors for logging.
func (e *RentError) Expected() bool { return true }

// Is makes errors.Is match on kind, so sentinel values below work against
// errors carrying a more specific message.
func (e *RentError) Is(target error) bool {
	t, ok := target.(*RentError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

var (
	ErrNotFound   = &RentError{Kind: KindNotFound}
	ErrConflict   = &RentError{Kind: KindConflict}
	ErrForbidden  = &RentError{Kind: KindForbidden}
	ErrValidation = &RentError{Kind: KindValidation}
)

// Messages shared between the ledger and the storage layers.
const (
	MsgTransportRented   = "transport is rented"
	MsgRentalEnded       = "rental has already ended"
	MsgCannotRentOwn     = "cannot rent own transport"
	MsgInvalidRentType   = "invalid rent type"
	MsgDurationPositive  = "duration must be a positive integer"
	MsgRentNotFound      = "rental not found"
	MsgTransportNotFound = "transport not found"
	MsgAdminRequired     = "admin role required"
	MsgCannotViewRent    = "not allowed to view this rent"
	MsgCannotEndRent     = "only the renter or an admin can end this rent"
	MsgNotTransportOwner = "not the owner of this transport"
)

func NewNotFoundError(format string, args ...any) *RentError {
	return &RentError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func NewConflictError(format string, args ...any) *RentError {
	return &RentError{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func NewForbiddenError(format string, args ...any) *RentError {
	return &RentError{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

func NewValidationError(format string, args ...any) *RentError {
	return &RentError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the first RentError in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var re *RentError
	if errors.As(err, &re) {
		return re.Kind, true
	}
	return "", false
}

// IsKind reports whether err carries a RentError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
