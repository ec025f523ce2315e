// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
)

// Buffer holds fully decoded PCM. It is never modified after ReadAll
// returns, so any number of sources may read it concurrently.
type Buffer struct {
	sampleRate int
	channels   int
	samples    []float32
}

// ReadAll drains src into a Buffer. src is not closed.
func ReadAll(src Source) (*Buffer, error) {
	channels := src.Channels()
	if channels <= 0 {
		return nil, ErrNoChannels
	}

	chunk := src.BufSize()
	if chunk <= 0 {
		chunk = 4096
	}
	// keep reads frame aligned
	chunk -= chunk % channels
	if chunk == 0 {
		chunk = channels
	}

	var samples []float32
	tmp := make([]float32, chunk)
	for {
		n, err := src.ReadSamples(tmp)
		samples = append(samples, tmp[:n]...)

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading samples: %w", err)
		}
	}

	return &Buffer{
		sampleRate: src.SampleRate(),
		channels:   channels,
		samples:    samples,
	}, nil
}

func (b *Buffer) SampleRate() int { return b.sampleRate }
func (b *Buffer) Channels() int   { return b.channels }
func (b *Buffer) Len() int        { return len(b.samples) }
func (b *Buffer) Frames() int     { return len(b.samples) / b.channels }

// NewSource returns a Source with its own read position over b.
func (b *Buffer) NewSource() Source {
	return &bufferSource{buf: b}
}

type bufferSource struct {
	buf    *Buffer
	pos    int
	closed bool
}

func (s *bufferSource) SampleRate() int { return s.buf.sampleRate }
func (s *bufferSource) Channels() int   { return s.buf.channels }
func (s *bufferSource) BufSize() int    { return 4096 }

func (s *bufferSource) Close() error {
	s.closed = true
	return nil
}

func (s *bufferSource) ReadSamples(dst []float32) (int, error) {
	if s.closed {
		return 0, ErrClosed
	}
	if s.pos >= len(s.buf.samples) {
		return 0, io.EOF
	}

	n := copy(dst, s.buf.samples[s.pos:])
	s.pos += n
	if s.pos >= len(s.buf.samples) {
		return n, io.EOF
	}
	return n, nil
}
