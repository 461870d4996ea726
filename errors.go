package dbval

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	ErrDecodingFailure     = errors.New("value could not be decoded from storage format")
	ErrInvalidUTF8         = errors.New("text is not valid UTF-8")
	ErrUnsupportedType     = errors.New("type has no storage class")
	ErrDB                  = errors.New("an error occured with the DB")
	ErrNotFound            = errors.New("the requested entity could not be found")
	ErrConstraintViolation = errors.New("a constraint was violated")
)

// Error is a typed error returned by the boundary functions of dbval, that is,
// the ones that talk to database/sql or to a storage engine. It contains both a
// message explaining what happened as well as one or more error values it
// considers to be its causes. Error is compatible with the use of errors.Is() -
// calling errors.Is on some Error value err along with any value of error it
// holds as one of its causes will return true. This allows for easy
// examination and failure condition checking without needing to resort to
// manual typecasting.
//
// If Error has at least one cause defined, the result of calling Error.Error()
// will be its primary message with the result of calling Error() on its first
// cause appended to it.
//
// Conversions themselves never return an Error; a value that cannot be decoded
// as a type is reported as a false ok result instead.
//
// Error should not be used directly; call NewError to create one.
type Error struct {
	msg   string
	cause []error
}

// Error returns the message defined for the Error. If a message was defined for
// it when created, that message is returned, concatenated with the result of
// calling Error() on the its first cause if one is defined. If no message or an
// empty message was defined for it when created, but there is at least one
// cause defined for it, the result of calling Error() on the first cause is
// returned. If no message is defined and no causes are defined, returns the
// empty string.
func (e Error) Error() string {
	if e.msg == "" && e.cause != nil {
		return e.cause[0].Error()
	}

	if e.cause != nil {
		return e.msg + ": " + e.cause[0].Error()
	}

	return e.msg
}

// Unwrap returns the causes of Error. The return value will be nil if no causes
// were defined for it.
func (e Error) Unwrap() []error {
	if len(e.cause) > 0 {
		return e.cause
	}
	return nil
}

// Is returns whether Error either Is itself the given target error, or one of
// its causes is.
func (e Error) Is(target error) bool {
	if errTarget, ok := target.(Error); ok {
		if e.msg == errTarget.msg && len(e.cause) == len(errTarget.cause) {
			allCausesEqual := true
			for i := range e.cause {
				if !sameCause(e.cause[i], errTarget.cause[i]) {
					allCausesEqual = false
					break
				}
			}
			if allCausesEqual {
				return true
			}
		}
	}

	for i := range e.cause {
		// nested Errors need the full check, not just equality.
		if sErr, ok := e.cause[i].(Error); ok {
			if sErr.Is(target) {
				return true
			}
		} else if equalErrors(e.cause[i], target) {
			return true
		}
	}
	return false
}

// sameCause compares two causes. Error holds a slice and so cannot be compared
// with ==.
func sameCause(a, b error) bool {
	aErr, aIsErr := a.(Error)
	bErr, bIsErr := b.(Error)
	if aIsErr || bIsErr {
		return aIsErr && bIsErr && aErr.Is(bErr) && bErr.Is(aErr)
	}
	return equalErrors(a, b)
}

// equalErrors is a == b, except that errors of a type that cannot be compared
// are never equal instead of causing a panic.
func equalErrors(a, b error) bool {
	if a == nil || b == nil {
		return a == b
	}
	t := reflect.TypeOf(a)
	if t != reflect.TypeOf(b) || !t.Comparable() {
		return false
	}
	return a == b
}

// NewError creates a new Error with the given message, along with any errors it
// should wrap as its causes. Providing cause errors is not required, but will
// cause it to return true when it is checked against that error via a call to
// errors.Is.
func NewError(msg string, causes ...error) Error {
	err := Error{msg: msg}
	if len(causes) > 0 {
		err.cause = make([]error, len(causes))
		copy(err.cause, causes)
	}
	return err
}

// NewErrorf is NewError with the message built by fmt.Sprintf. All causes must
// be given explicitly; %w is not interpreted.
func NewErrorf(causes []error, format string, a ...any) Error {
	return NewError(fmt.Sprintf(format, a...), causes...)
}
