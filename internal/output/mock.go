// SPDX-License-Identifier: EPL-2.0

package output

import (
	"fmt"
	"sync"
	"time"
)

// Mock records everything written to it.
type Mock struct {
	mu          sync.Mutex
	initialized bool
	openErr     error
	writeDelay  time.Duration
	streams     []*MockStream
}

func NewMock() *Mock {
	return &Mock{}
}

// SetOpenError makes OpenStream fail with err.
func (m *Mock) SetOpenError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.openErr = err
}

// SetWriteDelay makes every Write block for d, to stand in for a device
// consuming audio in real time.
func (m *Mock) SetWriteDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.writeDelay = d
}

func (m *Mock) Initialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.initialized = true
	return nil
}

func (m *Mock) Terminate() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.initialized = false
	return nil
}

func (m *Mock) OpenStream(sampleRate float64, channels, bufferSize int) (Stream, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return nil, ErrNotInitialized
	}
	if m.openErr != nil {
		return nil, m.openErr
	}
	if channels < 1 || bufferSize < 1 {
		return nil, fmt.Errorf("invalid stream layout: %d channels, %d frames", channels, bufferSize)
	}

	s := &MockStream{
		SampleRate: sampleRate,
		Channels:   channels,
		BufferSize: bufferSize,
		delay:      m.writeDelay,
	}
	m.streams = append(m.streams, s)
	return s, nil
}

// Streams returns every stream opened so far.
func (m *Mock) Streams() []*MockStream {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*MockStream, len(m.streams))
	copy(out, m.streams)
	return out
}

type MockStream struct {
	SampleRate float64
	Channels   int
	BufferSize int

	mu      sync.Mutex
	delay   time.Duration
	started bool
	closed  bool
	written []float32
}

func (s *MockStream) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStreamClosed
	}
	s.started = true
	return nil
}

func (s *MockStream) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.started = false
	return nil
}

func (s *MockStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.started = false
	s.closed = true
	return nil
}

func (s *MockStream) Write(data []float32) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrStreamClosed
	}
	if !s.started {
		s.mu.Unlock()
		return fmt.Errorf("write on stopped stream")
	}
	s.written = append(s.written, data...)
	delay := s.delay
	s.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	return nil
}

// Written returns a copy of every sample written.
func (s *MockStream) Written() []float32 {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]float32, len(s.written))
	copy(out, s.written)
	return out
}

func (s *MockStream) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.closed
}
