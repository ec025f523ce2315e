// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	gowav "github.com/go-audio/wav"
	"github.com/ik5/progsnd/audio"
	"github.com/ik5/progsnd/formats/internal/intpcm"
	"github.com/ik5/progsnd/utils"
)

// wavFormatPCM is the WAVE_FORMAT_PCM format tag.
const wavFormatPCM = 1

// unsigned8Offset is the silence level of 8-bit WAV data, which is unsigned.
const unsigned8Offset = 128

// Decoder reads integer PCM WAV files (8, 16, 24 or 32 bit). If the reader
// passed to Decode implements io.Closer, closing the source closes it.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, err := utils.ReadSeeker(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	dec := gowav.NewDecoder(rs)
	if !dec.IsValidFile() {
		if dec.Err() != nil {
			return nil, fmt.Errorf("%w: %w", ErrNotWavFile, dec.Err())
		}
		return nil, ErrNotWavFile
	}

	if dec.WavAudioFormat != wavFormatPCM {
		return nil, fmt.Errorf("%w: format tag %d", ErrOnlyPCMSupported, dec.WavAudioFormat)
	}

	switch dec.BitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d bits", ErrUnsupportedBitDepth, dec.BitDepth)
	}

	format := dec.Format()
	if format == nil || format.NumChannels < 1 {
		return nil, ErrUnsupportedWavLayout
	}

	offset := 0
	if dec.BitDepth == 8 {
		offset = unsigned8Offset
	}

	closer, _ := r.(io.Closer)
	return intpcm.NewSource(dec, format.SampleRate, format.NumChannels, int(dec.BitDepth), offset, closer), nil
}
