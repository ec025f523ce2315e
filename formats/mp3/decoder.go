// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/ik5/progsnd/audio"
	"github.com/ik5/progsnd/utils"
)

// go-mp3 always decodes to interleaved stereo
const channels = 2

// mp3Reader is the part of gomp3.Decoder the source needs
type mp3Reader interface {
	Read([]byte) (int, error)
	SampleRate() int
}

type source struct {
	dec        mp3Reader
	sampleRate int
	buf        []byte
	// a trailing odd byte from the previous read
	carry  []byte
	closer io.Closer
	closed bool
}

func newSource(dec mp3Reader, closer io.Closer) *source {
	return &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		buf:        make([]byte, 8192),
		closer:     closer,
	}
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return channels }
func (s *source) BufSize() int    { return cap(s.buf) / 2 }

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

	need := len(dst) * 2
	if cap(s.buf) < need {
		s.buf = make([]byte, need)
	}
	buf := s.buf[:need]

	off := copy(buf, s.carry)
	s.carry = s.carry[:0]

	n, err := s.dec.Read(buf[off:])
	n += off
	if n == 0 {
		return 0, err
	}

	if n%2 == 1 {
		s.carry = append(s.carry, buf[n-1])
		n--
	}

	samples := n / 2
	for i := range samples {
		dst[i] = utils.Int16ToFloat32(int16(uint16(buf[2*i]) | uint16(buf[2*i+1])<<8))
	}

	return samples, err
}

// Decoder reads MPEG-1/2 Layer III streams. If the reader passed to Decode
// implements io.Closer, closing the source closes it.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	closer, _ := r.(io.Closer)
	return newSource(dec, closer), nil
}
