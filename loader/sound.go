// SPDX-License-Identifier: EPL-2.0

package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ik5/progsnd/audio"
)

// Sound is the Resource returned by FileLoader.
type Sound struct {
	id       uuid.UUID
	path     string
	subIndex int
	mode     Mode
	loader   *FileLoader

	done   chan struct{}
	cancel context.CancelFunc

	// written by load before done is closed
	err  error
	dec  audio.Decoder
	file string

	mu       sync.Mutex
	released bool
	buf      *audio.Buffer
	data     []byte
	sources  map[*trackedSource]struct{}

	slotOnce sync.Once
}

func (s *Sound) ID() uuid.UUID { return s.id }
func (s *Sound) Path() string  { return s.path }
func (s *Sound) Mode() Mode    { return s.mode }

func (s *Sound) load(ctx context.Context) {
	defer close(s.done)

	start := time.Now()
	logger := s.loader.logger.With("sound", s.id, "path", s.path, "mode", s.mode)

	if err := s.prepare(ctx); err != nil {
		s.err = err
		logger.Warn("sound load failed", "error", err)
		return
	}
	logger.Debug("sound loaded", "took", time.Since(start))
}

func (s *Sound) prepare(ctx context.Context) error {
	l := s.loader
	s.file = l.resolve(s.path)

	if !isBundle(s.file) && s.subIndex != 0 {
		return fmt.Errorf("%w: sub-index %d on %s which is not a bundle", ErrCorrupt, s.subIndex, s.path)
	}

	if s.mode.Storage() == ModeStream && !isBundle(s.file) {
		dec, err := l.decoderFor(s.file)
		if err != nil {
			return err
		}
		s.dec = dec
		// probe once so a broken file fails the load and not the first Open
		src, err := s.openStream()
		if err != nil {
			return err
		}
		return src.Close()
	}

	enc, err := l.readEncoded(s.file, s.subIndex)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("loading %s: %w", s.path, err)
	}

	s.dec, err = l.decoderFor(enc.name)
	if err != nil {
		return err
	}

	src, err := s.dec.Decode(bytes.NewReader(enc.data))
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrCorrupt, s.path, err)
	}
	defer src.Close()

	if s.mode.Storage() != ModeSample {
		s.data = enc.data
		return nil
	}

	buf, err := audio.ReadAll(src)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrCorrupt, s.path, err)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("loading %s: %w", s.path, err)
	}
	s.buf = buf
	return nil
}

func (s *Sound) openStream() (audio.Source, error) {
	f, err := os.Open(s.file)
	if err != nil {
		return nil, classifyOpenErr(s.file, err)
	}

	// the decoder owns f from here on
	src, err := s.dec.Decode(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %s: %w", ErrCorrupt, s.path, err)
	}
	return src, nil
}

// Wait blocks until the sound finished loading.
func (s *Sound) Wait(ctx context.Context) error {
	select {
	case <-s.done:
		return s.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Ready reports whether loading finished, successfully or not.
func (s *Sound) Ready() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

func (s *Sound) Open() (audio.Source, error) {
	if !s.Ready() {
		return nil, ErrNotReady
	}
	if s.err != nil {
		return nil, s.err
	}

	var (
		src audio.Source
		err error
	)
	if s.mode.Has(ModeLoop) {
		src, err = audio.NewLooper(s.openOnce, 0)
	} else {
		src, err = s.openOnce()
	}
	if err != nil {
		return nil, err
	}

	t := &trackedSource{Source: src, owner: s}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.released {
		_ = src.Close()
		return nil, ErrReleased
	}
	s.sources[t] = struct{}{}
	return t, nil
}

func (s *Sound) openOnce() (audio.Source, error) {
	s.mu.Lock()
	released, buf, data := s.released, s.buf, s.data
	s.mu.Unlock()

	switch {
	case released:
		return nil, ErrReleased
	case buf != nil:
		return buf.NewSource(), nil
	case data != nil:
		src, err := s.dec.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrCorrupt, s.path, err)
		}
		return src, nil
	default:
		return s.openStream()
	}
}

// Release abandons a load in progress, closes every open stream and gives
// the capacity slot back.
func (s *Sound) Release() error {
	s.mu.Lock()
	if s.released {
		s.mu.Unlock()
		return ErrReleased
	}
	s.released = true
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	<-s.done

	s.mu.Lock()
	open := s.sources
	s.sources = nil
	s.buf = nil
	s.data = nil
	s.mu.Unlock()

	var errs []error
	for t := range open {
		if err := t.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	s.freeSlot()
	s.loader.logger.Debug("sound released", "sound", s.id, "path", s.path, "streams", len(open))
	return errors.Join(errs...)
}

func (s *Sound) freeSlot() {
	s.slotOnce.Do(func() {
		if s.loader.slots != nil {
			s.loader.slots.Release(1)
		}
	})
}

func (s *Sound) untrack(t *trackedSource) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sources, t)
}

// trackedSource lets a Sound close the streams handed out by Open.
type trackedSource struct {
	audio.Source
	owner *Sound
	once  sync.Once
}

func (t *trackedSource) Close() error {
	var err error
	t.once.Do(func() {
		t.owner.untrack(t)
		err = t.Source.Close()
	})
	return err
}
