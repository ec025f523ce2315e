// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/ik5/progsnd/audio"
	"github.com/ik5/progsnd/internal/audiotest"
)

type closingReader struct {
	*bytes.Reader
	closed int
}

func (c *closingReader) Close() error {
	c.closed++
	return nil
}

func readAll(t *testing.T, src audio.Source) []float32 {
	t.Helper()

	buf, err := audio.ReadAll(src)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	out := make([]float32, buf.Len())
	n, _ := buf.NewSource().ReadSamples(out)
	return out[:n]
}

func TestDecoder_Mono(t *testing.T) {
	t.Parallel()

	samples := []int16{0, 16384, -16384, 8192}
	src, err := Decoder{}.Decode(bytes.NewReader(audiotest.PCM16WAV(8000, 1, samples)))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if src.SampleRate() != 8000 || src.Channels() != 1 {
		t.Fatalf("format = %d Hz / %d ch, want 8000 / 1", src.SampleRate(), src.Channels())
	}

	got := readAll(t, src)
	want := []float32{0, 0.5, -0.5, 0.25}
	if len(got) != len(want) {
		t.Fatalf("got %d samples, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDecoder_Stereo(t *testing.T) {
	t.Parallel()

	samples := audiotest.Tone(200)
	src, err := Decoder{}.Decode(bytes.NewReader(audiotest.PCM16WAV(44100, 2, samples)))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if src.Channels() != 2 || src.SampleRate() != 44100 {
		t.Fatalf("format = %d Hz / %d ch, want 44100 / 2", src.SampleRate(), src.Channels())
	}
	if got := readAll(t, src); len(got) != 200 {
		t.Errorf("got %d samples, want 200", len(got))
	}
}

// pcm8WAV builds a mono unsigned 8-bit WAV file.
func pcm8WAV(sampleRate int, samples []byte) []byte {
	buf := new(bytes.Buffer)

	buf.WriteString("RIFF")
	_ = binary.Write(buf, binary.LittleEndian, uint32(36+len(samples)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	_ = binary.Write(buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(buf, binary.LittleEndian, uint16(wavFormatPCM))
	_ = binary.Write(buf, binary.LittleEndian, uint16(1))
	_ = binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	_ = binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	_ = binary.Write(buf, binary.LittleEndian, uint16(1))
	_ = binary.Write(buf, binary.LittleEndian, uint16(8))

	buf.WriteString("data")
	_ = binary.Write(buf, binary.LittleEndian, uint32(len(samples)))
	buf.Write(samples)

	return buf.Bytes()
}

func TestDecoder_Unsigned8Bit(t *testing.T) {
	t.Parallel()

	src, err := Decoder{}.Decode(bytes.NewReader(pcm8WAV(8000, []byte{128, 128, 0, 255})))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	got := readAll(t, src)
	want := []float32{0, 0, -1, 0.9921875}
	if len(got) != len(want) {
		t.Fatalf("got %d samples, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDecoder_NotWAV(t *testing.T) {
	t.Parallel()

	_, err := Decoder{}.Decode(bytes.NewReader([]byte("NOT A WAV FILE AT ALL, JUST SOME BYTES")))
	if !errors.Is(err, ErrNotWavFile) {
		t.Errorf("Decode() error = %v, want ErrNotWavFile", err)
	}
}

func TestDecoder_Empty(t *testing.T) {
	t.Parallel()

	if _, err := (Decoder{}).Decode(bytes.NewReader(nil)); err == nil {
		t.Error("Decode() of empty input succeeded")
	}
}

func TestDecoder_FloatFormatRejected(t *testing.T) {
	t.Parallel()

	data := audiotest.PCM16WAV(8000, 1, audiotest.Tone(16))
	// IEEE float format tag
	binary.LittleEndian.PutUint16(data[20:22], 3)

	_, err := Decoder{}.Decode(bytes.NewReader(data))
	if err == nil {
		t.Fatal("Decode() accepted a float WAV")
	}
}

func TestDecoder_PlainReader(t *testing.T) {
	t.Parallel()

	data := audiotest.PCM16WAV(16000, 1, audiotest.Tone(64))
	src, err := Decoder{}.Decode(io.MultiReader(bytes.NewReader(data[:10]), bytes.NewReader(data[10:])))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got := readAll(t, src); len(got) != 64 {
		t.Errorf("got %d samples, want 64", len(got))
	}
}

func TestDecoder_ClosesUnderlyingReader(t *testing.T) {
	t.Parallel()

	r := &closingReader{Reader: bytes.NewReader(audiotest.PCM16WAV(8000, 1, audiotest.Tone(32)))}
	src, err := Decoder{}.Decode(r)
	if err != nil {
		t.Fatal(err)
	}

	_ = src.Close()
	_ = src.Close()
	if r.closed != 1 {
		t.Errorf("reader closed %d times, want 1", r.closed)
	}
}
