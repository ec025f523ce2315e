// SPDX-License-Identifier: EPL-2.0

package loader

import (
	"github.com/ik5/progsnd/audio"
	"github.com/ik5/progsnd/formats/aiff"
	"github.com/ik5/progsnd/formats/mp3"
	"github.com/ik5/progsnd/formats/vorbis"
	"github.com/ik5/progsnd/formats/wav"
)

// DefaultRegistry returns a registry with every decoder the module ships.
func DefaultRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("wav", wav.Decoder{})
	reg.Register("mp3", mp3.Decoder{})
	reg.Register("ogg", vorbis.Decoder{})
	reg.Register("aiff", aiff.Decoder{})
	reg.Register("aif", aiff.Decoder{})
	return reg
}
