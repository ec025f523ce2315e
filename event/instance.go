// SPDX-License-Identifier: EPL-2.0

package event

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ik5/progsnd"
	"github.com/ik5/progsnd/audio"
	"github.com/ik5/progsnd/loader"
)

const renderBufSize = 4096

// LoopRenderSeconds bounds Render for looping sounds when maxFrames is 0.
const LoopRenderSeconds = progsnd.LoopRenderSeconds

// Instance is one playback of an event.
type Instance struct {
	desc   *Description
	cb     Callbacks
	logger *slog.Logger

	mu      sync.Mutex
	key     string
	params  map[string]float32
	handle  *progsnd.Handle
	lastErr error
	live    map[*liveSource]struct{}
}

func (i *Instance) Description() *Description { return i.desc }

func (i *Instance) Key() string {
	i.mu.Lock()
	defer i.mu.Unlock()

	return i.key
}

// SetKey selects the sound played by the next Start.
func (i *Instance) SetKey(key string) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.key = key
}

// SetParameter sets name to v clamped to the parameter's range and returns
// the stored value. NaN is rejected. Volume changes apply to streams
// already open.
func (i *Instance) SetParameter(name string, v float32) (float32, error) {
	p, ok := i.desc.Parameter(name)
	if !ok {
		return 0, fmt.Errorf("%w: %q on %s", ErrUnknownParameter, name, i.desc.Path)
	}
	if isNaN(v) {
		return 0, fmt.Errorf("%w: %q on %s", ErrBadValue, name, i.desc.Path)
	}
	v = p.Clamp(v)

	i.mu.Lock()
	defer i.mu.Unlock()

	i.params[name] = v
	if name == VolumeParameter {
		for s := range i.live {
			s.SetFactor(v)
		}
	}
	return v, nil
}

func (i *Instance) Parameter(name string) (float32, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()

	v, ok := i.params[name]
	return v, ok
}

// Start stops any previous playback and asks for the sound of the current
// key. When the sound is unavailable the instance plays silence: the error
// is kept in Err and Start returns nil. Only misuse errors are returned.
func (i *Instance) Start(ctx context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if err := i.stopLocked(); err != nil {
		return err
	}

	h, err := i.cb.OnCreate(ctx, i.key)
	if err != nil {
		if progsnd.IsRecoverable(err) {
			i.lastErr = err
			i.logger.Warn("event plays silent", "key", i.key, "error", err)
			return nil
		}
		return fmt.Errorf("starting %s: %w", i.desc.Path, err)
	}

	i.handle = h
	i.lastErr = nil
	i.logger.Debug("event started", "key", i.key, "handle", h.ID())
	return nil
}

// Stop gives the sound back. Stopping a stopped instance does nothing.
func (i *Instance) Stop() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	return i.stopLocked()
}

func (i *Instance) stopLocked() error {
	for s := range i.live {
		s.closeLocked()
	}
	clear(i.live)

	if i.handle == nil {
		return nil
	}
	h := i.handle
	i.handle = nil

	if err := i.cb.OnDestroy(h); err != nil {
		return fmt.Errorf("stopping %s: %w", i.desc.Path, err)
	}
	i.logger.Debug("event stopped", "key", h.Key(), "handle", h.ID())
	return nil
}

// Playing reports whether the instance holds a sound.
func (i *Instance) Playing() bool {
	i.mu.Lock()
	defer i.mu.Unlock()

	return i.handle != nil
}

// Err is the reason the last Start played silence.
func (i *Instance) Err() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	return i.lastErr
}

// Handle returns the sound currently held, or nil.
func (i *Instance) Handle() *progsnd.Handle {
	i.mu.Lock()
	defer i.mu.Unlock()

	return i.handle
}

// Open waits for the sound and returns a stream of it with the instance
// volume applied. It returns nil and no error for a silent instance. The
// stream is closed by Stop.
func (i *Instance) Open(ctx context.Context) (audio.Source, error) {
	i.mu.Lock()
	h := i.handle
	i.mu.Unlock()

	if h == nil {
		return nil, nil
	}

	res := h.Resource()
	if err := res.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for %q: %w", h.Key(), err)
	}
	src, err := res.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %q: %w", h.Key(), err)
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if i.handle != h {
		_ = src.Close()
		return nil, nil
	}

	s := &liveSource{Gain: audio.NewGain(src, i.params[VolumeParameter]), owner: i}
	i.live[s] = struct{}{}
	return s, nil
}

// Render plays the current sound into mono 16-bit PCM at rate. maxFrames
// limits the output; 0 renders the whole sound, or LoopRenderSeconds of a
// looping one. A silent instance renders no samples.
func (i *Instance) Render(ctx context.Context, rate int, maxFrames int) ([]int16, error) {
	src, err := i.Open(ctx)
	if err != nil {
		return nil, err
	}
	if src == nil {
		return []int16{}, nil
	}
	defer src.Close()

	if maxFrames <= 0 {
		if h := i.Handle(); h != nil && h.Info().Mode.Has(loader.ModeLoop) {
			maxFrames = rate * LoopRenderSeconds
		}
	}

	pcm, _, err := audio.CollectMono16(src, rate, renderBufSize, maxFrames)
	if err != nil && !errors.Is(err, audio.ErrClosed) {
		return nil, err
	}
	return pcm, nil
}

// liveSource is a stream handed out by Open.
type liveSource struct {
	*audio.Gain
	owner *Instance
	once  sync.Once
}

// closeLocked closes the stream while the owner's lock is held.
func (s *liveSource) closeLocked() {
	s.once.Do(func() { _ = s.Gain.Close() })
}

func (s *liveSource) Close() error {
	var err error
	s.once.Do(func() {
		s.owner.mu.Lock()
		delete(s.owner.live, s)
		s.owner.mu.Unlock()
		err = s.Gain.Close()
	})
	return err
}
