package store

import (
	"errors"
	"fmt"
)

// ErrClosed is returned by a backend after Close.
var ErrClosed = errors.New("store closed")

// CorruptStateError reports a stored blob that could not be decoded.
// Cells recover from it by falling back to their default value.
type CorruptStateError struct {
	Key string
	Err error
}

func (e *CorruptStateError) Error() string {
	return fmt.Sprintf("corrupt state under key %q: %v", e.Key, e.Err)
}

func (e *CorruptStateError) Unwrap() error { return e.Err }

// IsCorruptState reports whether err is, or wraps, a CorruptStateError.
func IsCorruptState(err error) bool {
	var corrupt *CorruptStateError
	return errors.As(err, &corrupt)
}
