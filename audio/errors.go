// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize = errors.New("dst size must be multiple of channels")
	ErrClosed         = errors.New("source is closed")
	ErrNoChannels     = errors.New("source has no channels")
)
