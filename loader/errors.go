// SPDX-License-Identifier: EPL-2.0

package loader

import "errors"

var (
	ErrNotFound  = errors.New("sound not found")
	ErrCorrupt   = errors.New("sound is corrupt or unsupported")
	ErrExhausted = errors.New("sound capacity exhausted")

	ErrReleased        = errors.New("sound already released")
	ErrNotReady        = errors.New("sound is still loading")
	ErrUnknownMode     = errors.New("unknown sound mode")
	ErrConflictingMode = errors.New("conflicting sound modes")
)
