package rotator

import "errors"

var (
	// ErrLookup is the class of errors raised when a value cannot be found
	// for a request. Use errors.Is(err, ErrLookup) to match any of them.
	ErrLookup = errors.New("lookup failed")

	// ErrExhausted is returned when a key is requested from an empty key list
	ErrExhausted = errors.New("no keys to rotate")

	// ErrNoPendingKey is returned for a value request with no key issued before it
	ErrNoPendingKey error = &lookupError{msg: "no pending key"}

	// ErrValueNotFound is returned when the pending key has no value mapped to it
	ErrValueNotFound error = &lookupError{msg: "no value for key"}
)

type lookupError struct {
	msg string
}

func (e *lookupError) Error() string {
	return e.msg
}

func (e *lookupError) Is(target error) bool {
	return target == ErrLookup
}
