package model

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the fuzzing core. Callers match them with errors.Is.
var (
	ErrIllegalArgument = errors.New("illegal argument")
	ErrIllegalState    = errors.New("illegal state")
	ErrKeyNotFound     = errors.New("key not found")
	ErrEmptyCollection = errors.New("empty collection")
	ErrMutatorNotFound = errors.New("mutator not found")
)

// IllegalArgument wraps ErrIllegalArgument with a message.
func IllegalArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrIllegalArgument, fmt.Sprintf(format, args...))
}

// IllegalState wraps ErrIllegalState with a message.
func IllegalState(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrIllegalState, fmt.Sprintf(format, args...))
}

// KeyNotFound wraps ErrKeyNotFound with a message.
func KeyNotFound(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrKeyNotFound, fmt.Sprintf(format, args...))
}
