// SPDX-License-Identifier: EPL-2.0

package table

import (
	"errors"
	"fmt"
	"slices"

	"github.com/ik5/progsnd/loader"
)

var (
	ErrEmptyKey     = errors.New("empty sound key")
	ErrEmptyPath    = errors.New("empty sound path")
	ErrDuplicateKey = errors.New("duplicate sound key")
	ErrBadSubIndex  = errors.New("negative sub-index")
)

// Info is the location of one sound.
type Info struct {
	Key      string
	Path     string
	SubIndex int
	Mode     loader.Mode
}

type Table struct {
	name  string
	infos map[string]Info
	keys  []string
}

// New builds a table. Keys are case-sensitive and must be unique.
func New(name string, infos ...Info) (*Table, error) {
	t := &Table{
		name:  name,
		infos: make(map[string]Info, len(infos)),
		keys:  make([]string, 0, len(infos)),
	}

	for _, info := range infos {
		switch {
		case info.Key == "":
			return nil, ErrEmptyKey
		case info.Path == "":
			return nil, fmt.Errorf("%w: key %q", ErrEmptyPath, info.Key)
		case info.SubIndex < 0:
			return nil, fmt.Errorf("%w: key %q", ErrBadSubIndex, info.Key)
		}
		if _, dup := t.infos[info.Key]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateKey, info.Key)
		}

		t.infos[info.Key] = info
		t.keys = append(t.keys, info.Key)
	}
	slices.Sort(t.keys)

	return t, nil
}

// Empty returns a table without entries.
func Empty(name string) *Table {
	return &Table{name: name, infos: map[string]Info{}}
}

func (t *Table) Name() string {
	if t == nil {
		return ""
	}
	return t.name
}

func (t *Table) Lookup(key string) (Info, bool) {
	if t == nil {
		return Info{}, false
	}
	info, ok := t.infos[key]
	return info, ok
}

// Keys returns all keys in sorted order.
func (t *Table) Keys() []string {
	if t == nil {
		return nil
	}
	return slices.Clone(t.keys)
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// Rename returns a table with the same entries under another name.
func (t *Table) Rename(name string) *Table {
	if t == nil {
		return Empty(name)
	}
	return &Table{name: name, infos: t.infos, keys: t.keys}
}
