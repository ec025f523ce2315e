// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/progsnd/utils"
)

// lowpassAlpha is the coefficient of the one-pole filter applied to
// incoming frames when downsampling.
const lowpassAlpha = 0.5

// maxEmptyReads bounds how many (0, nil) reads are tolerated from a source
// before giving up on it.
const maxEmptyReads = 8

// Resampler streams from src to target sample rate using cubic interpolation.
// Works on interleaved samples; preserves channel count.
type Resampler struct {
	src      Source
	channels int
	dstRate  int

	// source frames consumed per output frame
	step float64
	// fractional position between hist[1] and hist[2]
	pos float64

	// hist[0] = t-1, hist[1] = t0, hist[2] = t+1, hist[3] = t+2
	hist  [4][]float32
	valid [4]bool

	primed bool
	eof    bool

	frame   []float32
	lowpass bool
	lpState []float32
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()
	step := float64(src.SampleRate()) / float64(dstRate)

	r := &Resampler{
		src:      src,
		channels: channels,
		dstRate:  dstRate,
		step:     step,
		frame:    make([]float32, channels),
		lowpass:  step > 1.0,
		lpState:  make([]float32, channels),
	}
	for i := range r.hist {
		r.hist[i] = make([]float32, channels)
	}

	return r
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// readFrame pulls one frame from src into dst. ok is false once the source
// is exhausted.
func (r *Resampler) readFrame(dst []float32) (ok bool, err error) {
	if r.eof {
		return false, nil
	}

	for range maxEmptyReads {
		n, rerr := r.src.ReadSamples(r.frame)
		if errors.Is(rerr, io.EOF) {
			r.eof = true
		} else if rerr != nil {
			return false, fmt.Errorf("%w", rerr)
		}

		if n > 0 {
			copy(dst, r.frame[:n])
			r.filter(dst)
			return true, nil
		}
		if r.eof {
			return false, nil
		}
	}

	return false, io.ErrNoProgress
}

func (r *Resampler) filter(f []float32) {
	if !r.lowpass {
		return
	}
	for c := range f {
		f[c] = lowpassAlpha*f[c] + (1-lowpassAlpha)*r.lpState[c]
		r.lpState[c] = f[c]
	}
}

// prime fills the history with the first frames of the stream. The frame
// before the first one is a copy of it.
func (r *Resampler) prime() error {
	r.primed = true

	n, err := r.src.ReadSamples(r.frame)
	if n == 0 {
		if err == nil || errors.Is(err, io.EOF) {
			r.eof = true
			return io.EOF
		}
		return fmt.Errorf("%w", err)
	}
	if errors.Is(err, io.EOF) {
		r.eof = true
	} else if err != nil {
		return fmt.Errorf("%w", err)
	}

	copy(r.lpState, r.frame)
	copy(r.hist[0], r.frame)
	copy(r.hist[1], r.frame)
	r.valid[0], r.valid[1] = true, true

	for i := 2; i < 4; i++ {
		ok, err := r.readFrame(r.hist[i])
		if err != nil {
			return err
		}
		r.valid[i] = ok
	}
	return nil
}

// shift drops the oldest frame and reads a new one at the front.
func (r *Resampler) shift() error {
	oldest := r.hist[0]
	copy(r.hist[:3], r.hist[1:])
	copy(r.valid[:3], r.valid[1:])
	r.hist[3] = oldest

	ok, err := r.readFrame(r.hist[3])
	r.valid[3] = ok
	return err
}

// ReadSamples produces dst samples at r.dstRate.
// dst length should be a multiple of r.channels.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if r.channels == 0 || len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	frames := len(dst) / r.channels
	written := 0
	for written < frames {
		for r.pos >= 1.0 {
			r.pos -= 1.0
			if err := r.shift(); err != nil {
				return written * r.channels, err
			}
		}

		if !r.valid[1] {
			return written * r.channels, io.EOF
		}

		r.interpolate(dst[written*r.channels : (written+1)*r.channels])
		written++
		r.pos += r.step
	}

	return written * r.channels, nil
}

func (r *Resampler) interpolate(out []float32) {
	x := float32(r.pos)

	for c := range out {
		y1 := r.hist[1][c]

		y0 := y1
		if r.valid[0] {
			y0 = r.hist[0][c]
		}
		y2 := y1
		if r.valid[2] {
			y2 = r.hist[2][c]
		}
		y3 := y2
		if r.valid[3] {
			y3 = r.hist[3][c]
		}

		out[c] = utils.CubicInterpolate(y0, y1, y2, y3, x)
	}
}
