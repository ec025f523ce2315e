// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"fmt"
	"io"

	goaiff "github.com/go-audio/aiff"
	"github.com/ik5/progsnd/audio"
	"github.com/ik5/progsnd/formats/internal/intpcm"
	"github.com/ik5/progsnd/utils"
)

// Decoder reads uncompressed AIFF files. If the reader passed to Decode
// implements io.Closer, closing the source closes it.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	// go-audio requires io.ReadSeeker
	rs, err := utils.ReadSeeker(r)
	if err != nil {
		return nil, fmt.Errorf("reading aiff data: %w", err)
	}

	dec := goaiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotAiffFile
	}

	dec.ReadInfo()
	if dec.Err() != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedAiffLayout, dec.Err())
	}

	switch dec.BitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d bits", ErrUnsupportedBitDepth, dec.BitDepth)
	}

	format := dec.Format()
	if format == nil || format.NumChannels < 1 {
		return nil, ErrUnsupportedAiffLayout
	}

	closer, _ := r.(io.Closer)
	return intpcm.NewSource(dec, format.SampleRate, format.NumChannels, int(dec.BitDepth), 0, closer), nil
}
