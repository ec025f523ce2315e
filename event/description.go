// SPDX-License-Identifier: EPL-2.0

package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ik5/progsnd"
)

// Callbacks is what an instance needs from the sound resolver.
type Callbacks interface {
	OnCreate(ctx context.Context, key string) (*progsnd.Handle, error)
	OnDestroy(h *progsnd.Handle) error
}

// Description is an event as authored: a path and its parameters.
type Description struct {
	Path       string
	Parameters []ParameterDescription
}

// Parameter finds a parameter by name, including the implicit volume.
func (d *Description) Parameter(name string) (ParameterDescription, bool) {
	for _, p := range d.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	if name == VolumeParameter {
		return defaultVolume, true
	}
	return ParameterDescription{}, false
}

type InstanceOption func(*Instance)

func WithLogger(logger *slog.Logger) InstanceOption {
	return func(i *Instance) { i.logger = logger }
}

// NewInstance creates a stopped instance that will play key. Every
// parameter starts at its default.
func (d *Description) NewInstance(cb Callbacks, key string, opts ...InstanceOption) (*Instance, error) {
	params := make(map[string]float32, len(d.Parameters)+1)
	params[VolumeParameter] = defaultVolume.Default

	for _, p := range d.Parameters {
		if err := p.validate(); err != nil {
			return nil, fmt.Errorf("event %s: %w", d.Path, err)
		}
		params[p.Name] = p.Clamp(p.Default)
	}

	inst := &Instance{
		desc:   d,
		cb:     cb,
		key:    key,
		params: params,
		live:   make(map[*liveSource]struct{}),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(inst)
	}
	inst.logger = inst.logger.With("event", d.Path)

	return inst, nil
}
