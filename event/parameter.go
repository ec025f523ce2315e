// SPDX-License-Identifier: EPL-2.0

package event

import (
	"errors"
	"fmt"
	"math"
)

// VolumeParameter scales the output of an instance. Every instance has it;
// a description may declare it to change its range or default.
const VolumeParameter = "volume"

var (
	ErrUnknownParameter = errors.New("unknown event parameter")
	ErrBadParameter     = errors.New("invalid parameter description")
	ErrBadValue         = errors.New("parameter value is not a number")
)

type ParameterDescription struct {
	Name    string
	Min     float32
	Max     float32
	Default float32
}

var defaultVolume = ParameterDescription{Name: VolumeParameter, Min: 0, Max: 1, Default: 1}

// Clamp limits v to [Min, Max].
func (p ParameterDescription) Clamp(v float32) float32 {
	return max(p.Min, min(v, p.Max))
}

func (p ParameterDescription) validate() error {
	switch {
	case p.Name == "":
		return fmt.Errorf("%w: empty name", ErrBadParameter)
	case isNaN(p.Min) || isNaN(p.Max) || isNaN(p.Default):
		return fmt.Errorf("%w: %q has a NaN bound or default", ErrBadParameter, p.Name)
	case p.Min > p.Max:
		return fmt.Errorf("%w: %q has min %v above max %v", ErrBadParameter, p.Name, p.Min, p.Max)
	}
	return nil
}

func isNaN(v float32) bool { return math.IsNaN(float64(v)) }
