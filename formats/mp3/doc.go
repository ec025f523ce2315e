// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MP3 streams through github.com/hajimehoshi/go-mp3.
//
// Output is always stereo at the stream's sample rate; fold it with
// audio.NewMonoMixer when a single channel is needed.
package mp3
