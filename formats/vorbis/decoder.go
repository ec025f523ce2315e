// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"fmt"
	"io"

	"github.com/ik5/progsnd/audio"
	"github.com/jfreymuth/oggvorbis"
)

// oggReader is the part of oggvorbis.Reader the source needs
type oggReader interface {
	SampleRate() int
	Channels() int
	Read([]float32) (int, error)
}

type source struct {
	dec        oggReader
	sampleRate int
	channels   int
	closer     io.Closer
	closed     bool
}

func newSource(dec oggReader, closer io.Closer) *source {
	return &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		channels:   dec.Channels(),
		closer:     closer,
	}
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) BufSize() int    { return 4096 }

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
	if len(dst)%s.channels != 0 {
		return 0, audio.ErrInvalidDstSize
	}
	if len(dst) == 0 {
		return 0, nil
	}

	// oggvorbis reads straight into dst and counts interleaved samples
	n, err := s.dec.Read(dst)
	if n == 0 && err == nil {
		return 0, nil
	}
	return n, err
}

// Decoder reads Ogg Vorbis streams. If the reader passed to Decode
// implements io.Closer, closing the source closes it.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	if dec.Channels() < 1 {
		return nil, audio.ErrNoChannels
	}

	closer, _ := r.(io.Closer)
	return newSource(dec, closer), nil
}
