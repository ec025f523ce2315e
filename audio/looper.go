// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
)

// OpenFunc opens a fresh stream positioned at the start of a sound.
type OpenFunc func() (Source, error)

// Looper replays a sound by reopening it each time the current stream
// ends. A count of zero or less loops until closed.
type Looper struct {
	open      OpenFunc
	cur       Source
	remaining int
	infinite  bool
	closed    bool

	// samples delivered by the current pass
	passRead int
}

func NewLooper(open OpenFunc, count int) (*Looper, error) {
	src, err := open()
	if err != nil {
		return nil, fmt.Errorf("opening loop source: %w", err)
	}

	return &Looper{
		open:      open,
		cur:       src,
		remaining: count - 1,
		infinite:  count <= 0,
	}, nil
}

func (l *Looper) SampleRate() int { return l.cur.SampleRate() }
func (l *Looper) Channels() int   { return l.cur.Channels() }
func (l *Looper) BufSize() int    { return l.cur.BufSize() }

func (l *Looper) Close() error {
	if l.closed {
		return nil
	}
	l.closed = true
	return l.cur.Close()
}

func (l *Looper) ReadSamples(dst []float32) (int, error) {
	if l.closed {
		return 0, ErrClosed
	}

	n, err := l.cur.ReadSamples(dst)
	l.passRead += n
	if !errors.Is(err, io.EOF) {
		return n, err
	}

	// an empty pass means the sound has no samples at all
	if l.passRead == 0 || (!l.infinite && l.remaining <= 0) {
		return n, io.EOF
	}

	if rerr := l.rewind(); rerr != nil {
		return n, rerr
	}
	if n > 0 {
		return n, nil
	}
	return l.ReadSamples(dst)
}

func (l *Looper) rewind() error {
	if err := l.cur.Close(); err != nil {
		return fmt.Errorf("closing loop pass: %w", err)
	}

	next, err := l.open()
	if err != nil {
		return fmt.Errorf("reopening loop source: %w", err)
	}

	l.cur = next
	l.passRead = 0
	if !l.infinite {
		l.remaining--
	}
	return nil
}
