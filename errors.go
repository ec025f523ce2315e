// SPDX-License-Identifier: EPL-2.0

package progsnd

import (
	"errors"
	"fmt"
)

// Kind classifies a failed resolution.
type Kind int

const (
	// NotFound: the key is not in the table or the file does not exist.
	NotFound Kind = iota + 1
	// Corrupt: the loader could not decode the resource.
	Corrupt
	// ResourceExhausted: the loader is at capacity.
	ResourceExhausted
	// InvalidHandle: a handle or request was used outside its lifetime.
	InvalidHandle
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not found"
	case Corrupt:
		return "corrupt"
	case ResourceExhausted:
		return "resource exhausted"
	case InvalidHandle:
		return "invalid handle"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ResolutionError is returned by every failing resolver operation.
type ResolutionError struct {
	Kind Kind
	Key  string
	Err  error
}

func (e *ResolutionError) Error() string {
	msg := "progsnd: " + e.Kind.String()
	if e.Key != "" {
		msg += fmt.Sprintf(" (key %q)", e.Key)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// Is matches any ResolutionError of the same kind, so that
// errors.Is(err, ErrNotFound) works for errors carrying a key.
func (e *ResolutionError) Is(target error) bool {
	var t *ResolutionError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind && t.Key == "" && t.Err == nil
}

var (
	ErrNotFound          = &ResolutionError{Kind: NotFound}
	ErrCorrupt           = &ResolutionError{Kind: Corrupt}
	ErrResourceExhausted = &ResolutionError{Kind: ResourceExhausted}
	ErrInvalidHandle     = &ResolutionError{Kind: InvalidHandle}

	ErrCanceled = errors.New("progsnd: resolution canceled")
)

// IsRecoverable reports whether err leaves the caller in a usable state:
// the sound is unavailable but nothing was misused.
func IsRecoverable(err error) bool {
	var re *ResolutionError
	if !errors.As(err, &re) {
		return false
	}
	return re.Kind != InvalidHandle
}
