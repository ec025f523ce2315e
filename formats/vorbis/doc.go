// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis streams through
// github.com/jfreymuth/oggvorbis. Samples come out of the decoder already
// normalized, so no conversion is done here.
package vorbis
