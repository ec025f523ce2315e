// SPDX-License-Identifier: EPL-2.0

package bundle

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"
)

func makeZip(t *testing.T, files ...string) []byte {
	t.Helper()

	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)
	for _, name := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if name[len(name)-1] != '/' {
			if _, err := w.Write([]byte("data:" + name)); err != nil {
				t.Fatal(err)
			}
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestOpenBytes_NotZip(t *testing.T) {
	t.Parallel()

	_, err := OpenBytes([]byte("RIFF....WAVE"))
	if !errors.Is(err, ErrNotBundle) {
		t.Errorf("OpenBytes() error = %v, want ErrNotBundle", err)
	}
}

func TestBundle_Read(t *testing.T) {
	t.Parallel()

	b, err := OpenBytes(makeZip(t, "lines/", "lines/a.wav", "lines/b.ogg", "c.mp3"))
	if err != nil {
		t.Fatal(err)
	}

	if b.Len() != 3 {
		t.Fatalf("Len() = %d, want 3 (directories skipped)", b.Len())
	}

	tests := []struct {
		index int
		name  string
	}{
		{0, "lines/a.wav"},
		{1, "lines/b.ogg"},
		{2, "c.mp3"},
	}

	for _, tt := range tests {
		name, data, err := b.Read(tt.index)
		if err != nil {
			t.Fatalf("Read(%d) error = %v", tt.index, err)
		}
		if name != tt.name {
			t.Errorf("Read(%d) name = %q, want %q", tt.index, name, tt.name)
		}
		if string(data) != "data:"+tt.name {
			t.Errorf("Read(%d) data = %q", tt.index, data)
		}
	}
}

func TestBundle_ReadOutOfRange(t *testing.T) {
	t.Parallel()

	b, err := OpenBytes(makeZip(t, "a.wav"))
	if err != nil {
		t.Fatal(err)
	}

	for _, idx := range []int{-1, 1, 10} {
		if _, _, err := b.Read(idx); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("Read(%d) error = %v, want ErrIndexOutOfRange", idx, err)
		}
	}
}

func TestBundle_Names(t *testing.T) {
	t.Parallel()

	b, err := OpenBytes(makeZip(t, "x.wav", "y.wav"))
	if err != nil {
		t.Fatal(err)
	}

	names := b.Names()
	if len(names) != 2 || names[0] != "x.wav" || names[1] != "y.wav" {
		t.Errorf("Names() = %v", names)
	}
}
