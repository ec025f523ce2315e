// SPDX-License-Identifier: EPL-2.0

package loader

import (
	"context"

	"github.com/ik5/progsnd/audio"
)

// Loader creates resources from sound locations.
type Loader interface {
	// Load returns a resource for the sound at path. With ModeNonBlocking it
	// may return before loading finished; the resource's Wait reports the
	// outcome. Errors wrap ErrNotFound, ErrCorrupt or ErrExhausted.
	Load(ctx context.Context, path string, subIndex int, mode Mode) (Resource, error)
}

// Resource is a loaded sound. It must be released exactly once.
type Resource interface {
	// Wait blocks until loading is done and returns its error.
	Wait(ctx context.Context) error
	// Open returns a new stream over the sound.
	Open() (audio.Source, error)
	// Release frees the sound and closes every stream still open on it.
	Release() error
}
