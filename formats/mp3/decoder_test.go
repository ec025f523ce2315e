// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/ik5/progsnd/audio"
)

// mockMP3Reader simulates gomp3.Decoder, handing out at most chunk bytes
// per Read so odd-sized reads can be exercised.
type mockMP3Reader struct {
	sampleRate int
	data       []byte
	offset     int
	chunk      int
	fail       error
}

func newMockReader(samples []int16, chunk int) *mockMP3Reader {
	data := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(data[2*i:], uint16(s))
	}
	return &mockMP3Reader{sampleRate: 44100, data: data, chunk: chunk}
}

func (m *mockMP3Reader) SampleRate() int { return m.sampleRate }

func (m *mockMP3Reader) Read(buf []byte) (int, error) {
	if m.fail != nil {
		return 0, m.fail
	}
	if m.offset >= len(m.data) {
		return 0, io.EOF
	}

	end := min(len(m.data), m.offset+len(buf))
	if m.chunk > 0 {
		end = min(end, m.offset+m.chunk)
	}
	n := copy(buf, m.data[m.offset:end])
	m.offset += n
	return n, nil
}

type closeCounter struct{ n int }

func (c *closeCounter) Close() error {
	c.n++
	return nil
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	if _, err := (Decoder{}).Decode(bytes.NewReader([]byte("This is not MP3 data"))); err == nil {
		t.Error("Decode() error = nil, want error for invalid data")
	}
}

func TestDecoder_EmptyInput(t *testing.T) {
	t.Parallel()

	if _, err := (Decoder{}).Decode(bytes.NewReader(nil)); err == nil {
		t.Error("Decode() error = nil, want error for empty input")
	}
}

func TestSource_Metadata(t *testing.T) {
	t.Parallel()

	src := newSource(newMockReader(nil, 0), nil)
	if src.SampleRate() != 44100 || src.Channels() != 2 {
		t.Errorf("format = %d Hz / %d ch, want 44100 / 2", src.SampleRate(), src.Channels())
	}
}

func TestSource_Conversion(t *testing.T) {
	t.Parallel()

	src := newSource(newMockReader([]int16{0, 16384, -16384, -32768}, 0), nil)

	buf := make([]float32, 4)
	n, err := src.ReadSamples(buf)
	if err != nil || n != 4 {
		t.Fatalf("ReadSamples() = %d, %v; want 4, nil", n, err)
	}

	want := []float32{0, 0.5, -0.5, -1}
	for i := range want {
		if buf[i] != want[i] {
			t.Errorf("buf[%d] = %v, want %v", i, buf[i], want[i])
		}
	}

	if n, err := src.ReadSamples(buf); n != 0 || err != io.EOF {
		t.Errorf("ReadSamples() at end = %d, %v; want 0, io.EOF", n, err)
	}
}

func TestSource_OddByteReads(t *testing.T) {
	t.Parallel()

	samples := []int16{100, -200, 300, -400, 500, -600}
	src := newSource(newMockReader(samples, 3), nil)

	var got []float32
	buf := make([]float32, 4)
	for {
		n, err := src.ReadSamples(buf)
		got = append(got, buf[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
	}

	if len(got) != len(samples) {
		t.Fatalf("got %d samples, want %d", len(got), len(samples))
	}
	for i, s := range samples {
		if want := float32(s) / 32768; got[i] != want {
			t.Errorf("sample %d = %v, want %v", i, got[i], want)
		}
	}
}

func TestSource_ReadError(t *testing.T) {
	t.Parallel()

	m := newMockReader([]int16{1}, 0)
	m.fail = io.ErrUnexpectedEOF
	src := newSource(m, nil)

	if _, err := src.ReadSamples(make([]float32, 2)); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("ReadSamples() error = %v, want io.ErrUnexpectedEOF", err)
	}
}

func TestSource_Close(t *testing.T) {
	t.Parallel()

	c := &closeCounter{}
	src := newSource(newMockReader([]int16{1, 2}, 0), c)

	_ = src.Close()
	_ = src.Close()
	if c.n != 1 {
		t.Errorf("closer called %d times, want 1", c.n)
	}
	if _, err := src.ReadSamples(make([]float32, 2)); !errors.Is(err, audio.ErrClosed) {
		t.Errorf("ReadSamples() after Close = %v, want audio.ErrClosed", err)
	}
}
