// SPDX-License-Identifier: EPL-2.0

package output

import (
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
)

// PortAudio plays through the default output device.
type PortAudio struct {
	mu          sync.Mutex
	initialized bool
}

func NewPortAudio() *PortAudio {
	return &PortAudio{}
}

func (p *PortAudio) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("initializing PortAudio: %w", err)
	}
	p.initialized = true
	return nil
}

func (p *PortAudio) Terminate() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return nil
	}
	p.initialized = false
	return portaudio.Terminate()
}

func (p *PortAudio) OpenStream(sampleRate float64, channels, bufferSize int) (Stream, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return nil, ErrNotInitialized
	}

	buf := make([]float32, bufferSize*channels)
	stream, err := portaudio.OpenDefaultStream(0, channels, sampleRate, bufferSize, buf)
	if err != nil {
		return nil, fmt.Errorf("opening output stream: %w", err)
	}

	return &portAudioStream{stream: stream, buf: buf}, nil
}

type portAudioStream struct {
	stream *portaudio.Stream
	buf    []float32
}

func (s *portAudioStream) Start() error { return s.stream.Start() }
func (s *portAudioStream) Stop() error  { return s.stream.Stop() }
func (s *portAudioStream) Close() error { return s.stream.Close() }

// Write copies data into the device buffer; a short write is padded with
// silence.
func (s *portAudioStream) Write(data []float32) error {
	n := copy(s.buf, data)
	clear(s.buf[n:])
	return s.stream.Write()
}
