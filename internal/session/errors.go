package session

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyActive is returned when the owner already has a live session
	// of the requested kind.
	ErrAlreadyActive = errors.New("session already active")

	// ErrInvalidTransition is returned when an input arrives in a state that
	// does not accept it. The session is left unchanged.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrOutOfRange is returned when pagination would move past either end.
	ErrOutOfRange = errors.New("page out of range")

	// ErrSessionClosed is returned for operations on a terminated session.
	ErrSessionClosed = errors.New("session closed")

	// ErrInvalidInput is returned for malformed input values such as an
	// unknown answer letter or an out-of-range item count.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoSession is returned when input is routed to an owner that has no
	// live session of the given kind.
	ErrNoSession = errors.New("no active session")
)

// AlreadyActiveError reports a registry conflict.
type AlreadyActiveError struct {
	Owner OwnerID
	Kind  Kind
}

func (e *AlreadyActiveError) Error() string {
	return fmt.Sprintf("%s session already active for owner %q", e.Kind, e.Owner)
}

func (e *AlreadyActiveError) Unwrap() error { return ErrAlreadyActive }

// TransitionError reports an input that the current state rejects.
type TransitionError struct {
	Kind  Kind
	Input string
	State string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: cannot %s while %s", e.Kind, e.Input, e.State)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

func closedError(kind Kind, op string) error {
	return fmt.Errorf("%s: %s: %w", kind, op, ErrSessionClosed)
}
