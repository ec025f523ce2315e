// SPDX-License-Identifier: EPL-2.0

// Package output abstracts the audio device so players can be tested
// without hardware.
package output

import "errors"

var (
	ErrNotInitialized = errors.New("output backend not initialized")
	ErrStreamClosed   = errors.New("output stream closed")
)

// Backend opens playback streams on an audio device.
type Backend interface {
	Initialize() error
	Terminate() error
	// OpenStream opens a blocking output stream. Writes must hold
	// bufferSize frames of interleaved samples.
	OpenStream(sampleRate float64, channels, bufferSize int) (Stream, error)
}

type Stream interface {
	Start() error
	Stop() error
	Close() error
	Write(data []float32) error
}
