// SPDX-License-Identifier: EPL-2.0

package loader

import (
	"fmt"
	"strings"
)

// Mode selects how a sound is stored and played.
type Mode uint8

// ModeSample decodes the whole sound into memory at load time.
const ModeSample Mode = 0

const (
	// ModeCompressed keeps the encoded bytes and decodes on every Open.
	ModeCompressed Mode = 1 << iota
	// ModeStream decodes from the file on every Open.
	ModeStream
	// ModeLoop makes Open return a source that restarts at end of stream.
	ModeLoop
	// ModeNonBlocking makes Load return before the sound is ready.
	ModeNonBlocking
)

const storageMask = ModeCompressed | ModeStream

var modeNames = []struct {
	mode Mode
	name string
}{
	{ModeCompressed, "compressed"},
	{ModeStream, "stream"},
	{ModeLoop, "loop"},
	{ModeNonBlocking, "nonblocking"},
}

func (m Mode) Has(flag Mode) bool { return m&flag == flag }

// Storage returns only the storage bits of m.
func (m Mode) Storage() Mode { return m & storageMask }

func (m Mode) String() string {
	parts := make([]string, 0, 4)
	if m.Storage() == ModeSample {
		parts = append(parts, "sample")
	}
	for _, mn := range modeNames {
		if m.Has(mn.mode) {
			parts = append(parts, mn.name)
		}
	}
	return strings.Join(parts, "|")
}

// ParseMode combines mode names, as written in table files, into a Mode.
// Names are case-insensitive; "non-blocking" and "non_blocking" are accepted
// as well.
func ParseMode(names []string) (Mode, error) {
	var m Mode
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		name = strings.NewReplacer("-", "", "_", "").Replace(name)

		switch name {
		case "", "sample":
			continue
		case "compressed":
			m |= ModeCompressed
		case "stream":
			m |= ModeStream
		case "loop":
			m |= ModeLoop
		case "nonblocking":
			m |= ModeNonBlocking
		default:
			return 0, fmt.Errorf("%w: %q", ErrUnknownMode, raw)
		}
	}

	if m.Has(storageMask) {
		return 0, fmt.Errorf("%w: compressed and stream", ErrConflictingMode)
	}
	return m, nil
}
