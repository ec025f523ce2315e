// SPDX-License-Identifier: EPL-2.0

// Package player plays event instances on an output backend.
package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/ik5/progsnd/audio"
	"github.com/ik5/progsnd/event"
	"github.com/ik5/progsnd/internal/output"
)

var ErrUnknownPlayback = errors.New("unknown playback")

// Player plays every instance on its own device stream.
type Player struct {
	backend    output.Backend
	sampleRate int
	bufSize    int
	logger     *slog.Logger

	mu        sync.Mutex
	playbacks map[string]*playback
	wg        sync.WaitGroup
}

type Option func(*Player)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Player) { p.logger = logger }
}

// New creates a player writing mono audio at sampleRate in blocks of
// bufSize frames. The backend must be initialized.
func New(backend output.Backend, sampleRate, bufSize int, opts ...Option) *Player {
	p := &Player{
		backend:    backend,
		sampleRate: sampleRate,
		bufSize:    bufSize,
		logger:     slog.Default(),
		playbacks:  make(map[string]*playback),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type playback struct {
	id     string
	inst   *event.Instance
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// Play starts inst if needed and plays it in the background until the
// sound ends, ctx is done or Stop is called. The instance is stopped when
// playback ends. It returns the playback ID.
func (p *Player) Play(ctx context.Context, inst *event.Instance) (string, error) {
	if !inst.Playing() {
		if err := inst.Start(ctx); err != nil {
			return "", err
		}
	}

	src, err := inst.Open(ctx)
	if err != nil {
		_ = inst.Stop()
		return "", err
	}

	id := uuid.NewString()
	if src == nil {
		// unavailable sound, nothing to play
		p.logger.Info("playback silent", "playback", id, "key", inst.Key(), "reason", inst.Err())
		_ = inst.Stop()
		return id, nil
	}

	stream, err := p.backend.OpenStream(float64(p.sampleRate), 1, p.bufSize)
	if err != nil {
		_ = src.Close()
		_ = inst.Stop()
		return "", fmt.Errorf("opening output: %w", err)
	}

	ctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	pb := &playback{
		id:     id,
		inst:   inst,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	p.mu.Lock()
	p.playbacks[id] = pb
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.run(ctx, pb, src, stream)
	}()

	p.logger.Debug("playback started", "playback", id, "key", inst.Key())
	return id, nil
}

func (p *Player) run(ctx context.Context, pb *playback, src audio.Source, stream output.Stream) {
	defer close(pb.done)
	defer func() {
		p.mu.Lock()
		delete(p.playbacks, pb.id)
		p.mu.Unlock()
	}()

	pb.err = p.pump(ctx, src, stream)

	_ = stream.Stop()
	_ = stream.Close()
	_ = src.Close()
	if err := pb.inst.Stop(); err != nil && pb.err == nil {
		pb.err = err
	}

	if pb.err != nil {
		p.logger.Warn("playback failed", "playback", pb.id, "error", pb.err)
		return
	}
	p.logger.Debug("playback finished", "playback", pb.id)
}

func (p *Player) pump(ctx context.Context, src audio.Source, stream output.Stream) error {
	mono := audio.NewMonoMixer(audio.NewResampler(src, p.sampleRate))

	if err := stream.Start(); err != nil {
		return fmt.Errorf("starting output: %w", err)
	}

	buf := make([]float32, p.bufSize)
	for {
		if ctx.Err() != nil {
			return nil
		}

		n, err := mono.ReadSamples(buf)
		if n > 0 {
			if werr := stream.Write(buf[:n]); werr != nil {
				return fmt.Errorf("writing output: %w", werr)
			}
		}
		// a stream closed by Instance.Stop ends playback like EOF
		if errors.Is(err, io.EOF) || errors.Is(err, audio.ErrClosed) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// Stop ends a playback and waits for it to finish.
func (p *Player) Stop(id string) error {
	p.mu.Lock()
	pb, ok := p.playbacks[id]
	p.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPlayback, id)
	}

	pb.cancel()
	<-pb.done
	return pb.err
}

// Wait blocks until the playback ends by itself or ctx is done.
func (p *Player) Wait(ctx context.Context, id string) error {
	p.mu.Lock()
	pb, ok := p.playbacks[id]
	p.mu.Unlock()

	if !ok {
		return nil
	}

	select {
	case <-pb.done:
		return pb.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Active lists running playback IDs.
func (p *Player) Active() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	ids := make([]string, 0, len(p.playbacks))
	for id := range p.playbacks {
		ids = append(ids, id)
	}
	return ids
}

// Close stops every playback.
func (p *Player) Close() {
	p.mu.Lock()
	for _, pb := range p.playbacks {
		pb.cancel()
	}
	p.mu.Unlock()

	p.wg.Wait()
}
