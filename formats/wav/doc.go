// SPDX-License-Identifier: EPL-2.0

// Package wav decodes integer PCM WAV files through github.com/go-audio/wav
// and writes 16-bit PCM WAV streams.
//
//	src, err := wav.Decoder{}.Decode(file)
//	...
//	err = wav.WriteWAV16(out, 8000, 1, pcm16)
//
// The decoder follows the RIFF chunk list, so files with LIST or fact
// chunks before the data chunk decode as well as canonical 44-byte headers.
package wav
