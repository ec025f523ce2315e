// SPDX-License-Identifier: EPL-2.0

package bundle

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
)

var (
	ErrNotBundle       = errors.New("not a sound bundle")
	ErrIndexOutOfRange = errors.New("bundle sub-index out of range")
)

// maxEntrySize guards against entries that claim absurd sizes.
const maxEntrySize = 256 << 20

type Bundle struct {
	entries []*zip.File
}

func Open(r io.ReaderAt, size int64) (*Bundle, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotBundle, err)
	}

	b := &Bundle{}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		b.entries = append(b.entries, f)
	}
	return b, nil
}

// OpenBytes opens a bundle held in memory.
func OpenBytes(data []byte) (*Bundle, error) {
	return Open(bytes.NewReader(data), int64(len(data)))
}

func (b *Bundle) Len() int { return len(b.entries) }

// Names lists entry names by sub-index.
func (b *Bundle) Names() []string {
	out := make([]string, len(b.entries))
	for i, f := range b.entries {
		out[i] = f.Name
	}
	return out
}

// Read returns the name and the uncompressed contents of entry index.
func (b *Bundle) Read(index int) (string, []byte, error) {
	if index < 0 || index >= len(b.entries) {
		return "", nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(b.entries))
	}

	f := b.entries[index]
	if f.UncompressedSize64 > maxEntrySize {
		return "", nil, fmt.Errorf("%w: entry %q too large", ErrNotBundle, f.Name)
	}

	rc, err := f.Open()
	if err != nil {
		return "", nil, fmt.Errorf("opening entry %q: %w", f.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", nil, fmt.Errorf("reading entry %q: %w", f.Name, err)
	}
	return f.Name, data, nil
}
