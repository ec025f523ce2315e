// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"errors"
	"testing"
)

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	_, err := Decoder{}.Decode(bytes.NewReader([]byte("This is not AIFF data, only text")))
	if !errors.Is(err, ErrNotAiffFile) {
		t.Errorf("Decode() error = %v, want ErrNotAiffFile", err)
	}
}

func TestDecoder_EmptyInput(t *testing.T) {
	t.Parallel()

	if _, err := (Decoder{}).Decode(bytes.NewReader(nil)); err == nil {
		t.Error("Decode() of empty input succeeded")
	}
}

func TestDecoder_WAVIsNotAIFF(t *testing.T) {
	t.Parallel()

	riff := append([]byte("RIFF\x24\x00\x00\x00WAVE"), make([]byte, 32)...)
	if _, err := (Decoder{}).Decode(bytes.NewReader(riff)); err == nil {
		t.Error("Decode() accepted a RIFF/WAVE stream")
	}
}
