// SPDX-License-Identifier: EPL-2.0

// Package audio provides the PCM stream primitives the loader and the
// event engine are built on.
//
//   - Source: interleaved float32 stream, the common currency of the module
//   - Decoder and Registry: format key (file extension) to decoder
//   - Buffer: fully decoded, immutable PCM shared by many readers
//   - Looper: replays a sound by reopening it at end of stream
//   - Gain: runtime adjustable volume
//   - Resampler and MonoMixer: rate conversion and channel folding
//
// # Sample Format
//
// Samples are float32 in [-1.0, 1.0]. ReadSamples returns the number of
// float32 values written, not frames, and io.EOF once the stream is done:
//
//	for {
//	    n, err := src.ReadSamples(buf)
//	    process(buf[:n])
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	}
//
// # Sharing
//
// A Source has a single reader. To play the same decoded sound more than
// once at the same time, decode it into a Buffer with ReadAll and hand out
// one NewSource per reader.
//
// # Rendering
//
//	pcm16, rate, err := audio.ResampleToMono16(src, 8000, 4096)
//
// CollectMono16 does the same with a frame limit, which is required for
// looping sources.
package audio
