// SPDX-License-Identifier: EPL-2.0

// Package intpcm adapts go-audio integer PCM decoders to audio.Source.
package intpcm

import (
	"errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/ik5/progsnd/audio"
	"github.com/ik5/progsnd/utils"
)

// Reader is the part of the go-audio wav and aiff decoders the source needs.
type Reader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

type source struct {
	dec        Reader
	sampleRate int
	channels   int
	offset     int
	scale      float32
	intBuf     *goaudio.IntBuffer
	done       bool
	closed     bool
	closer     io.Closer
}

// NewSource wraps dec. offset is subtracted from every raw sample before
// scaling; it is 128 for unsigned 8-bit WAV data and 0 otherwise. closer,
// when not nil, is closed together with the source.
func NewSource(dec Reader, sampleRate, channels, bitDepth, offset int, closer io.Closer) audio.Source {
	return &source{
		dec:        dec,
		sampleRate: sampleRate,
		channels:   channels,
		offset:     offset,
		scale:      utils.FullScale(bitDepth),
		closer:     closer,
	}
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }

func (s *source) BufSize() int {
	if s.intBuf != nil {
		return cap(s.intBuf.Data)
	}
	return 4096
}

func (s *source) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	if s.closer != nil {
		if err := s.closer.Close(); err != nil {
			return fmt.Errorf("%w", err)
		}
	}
	return nil
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	if s.closed {
		return 0, audio.ErrClosed
	}
	if len(dst) == 0 {
		return 0, nil
	}
	if s.done {
		return 0, io.EOF
	}

	if s.intBuf == nil || cap(s.intBuf.Data) < len(dst) {
		s.intBuf = &goaudio.IntBuffer{
			Data:   make([]int, len(dst)),
			Format: s.dec.Format(),
		}
	}
	s.intBuf.Data = s.intBuf.Data[:len(dst)]

	n, err := s.dec.PCMBuffer(s.intBuf)
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("%w", err)
	}

	for i, v := range s.intBuf.Data[:n] {
		dst[i] = float32(v-s.offset) / s.scale
	}

	// go-audio reports the end of data as a short read
	if n < len(dst) || errors.Is(err, io.EOF) {
		s.done = true
		return n, io.EOF
	}
	return n, nil
}
