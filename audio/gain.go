// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"math"
	"sync/atomic"
)

// Gain scales every sample of src. The factor may be changed from another
// goroutine while the stream is being read.
type Gain struct {
	src    Source
	factor atomic.Uint32
}

func NewGain(src Source, factor float32) *Gain {
	g := &Gain{src: src}
	g.SetFactor(factor)
	return g
}

func (g *Gain) SetFactor(f float32) { g.factor.Store(math.Float32bits(f)) }
func (g *Gain) Factor() float32     { return math.Float32frombits(g.factor.Load()) }

func (g *Gain) SampleRate() int { return g.src.SampleRate() }
func (g *Gain) Channels() int   { return g.src.Channels() }
func (g *Gain) BufSize() int    { return g.src.BufSize() }
func (g *Gain) Close() error    { return g.src.Close() }

func (g *Gain) ReadSamples(dst []float32) (int, error) {
	n, err := g.src.ReadSamples(dst)

	f := g.Factor()
	if f == 1 {
		return n, err
	}
	for i := range n {
		dst[i] *= f
	}
	return n, err
}
