// SPDX-License-Identifier: EPL-2.0

// Package loadertest provides an in-memory loader.Loader for tests that
// counts every load and release.
package loadertest

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/ik5/progsnd/audio"
	"github.com/ik5/progsnd/internal/audiotest"
	"github.com/ik5/progsnd/loader"
)

// DefaultFrames is the length of every fake sound at 8 kHz mono.
const DefaultFrames = 800

type Loader struct {
	mu        sync.Mutex
	failures  map[string]error
	resources []*Resource

	// BeforeReturn, when set, runs inside Load before the resource is
	// returned. Tests use it to hold a load in flight.
	BeforeReturn func(ctx context.Context, path string)
}

func New() *Loader {
	return &Loader{failures: make(map[string]error)}
}

// Fail makes every load of path return err.
func (l *Loader) Fail(path string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.failures[path] = err
}

func (l *Loader) Load(ctx context.Context, path string, subIndex int, mode loader.Mode) (loader.Resource, error) {
	l.mu.Lock()
	err := l.failures[path]
	hook := l.BeforeReturn
	l.mu.Unlock()

	if err != nil {
		return nil, err
	}

	res := &Resource{Path: path, SubIndex: subIndex, Mode: mode}
	l.mu.Lock()
	l.resources = append(l.resources, res)
	l.mu.Unlock()

	if hook != nil {
		hook(ctx, path)
	}
	return res, nil
}

// Resources returns every resource produced so far, in load order.
func (l *Loader) Resources() []*Resource {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]*Resource, len(l.resources))
	copy(out, l.resources)
	return out
}

// Live counts resources not yet released.
func (l *Loader) Live() int {
	n := 0
	for _, r := range l.Resources() {
		if r.Releases() == 0 {
			n++
		}
	}
	return n
}

// Resource is a fake sound of DefaultFrames constant samples.
type Resource struct {
	Path     string
	SubIndex int
	Mode     loader.Mode

	releases atomic.Int32
}

func (r *Resource) Wait(context.Context) error { return nil }

func (r *Resource) Open() (audio.Source, error) {
	if r.Releases() > 0 {
		return nil, loader.ErrReleased
	}
	return audiotest.NewConstantSource(8000, 1, DefaultFrames, 0.5), nil
}

func (r *Resource) Release() error {
	if r.releases.Add(1) > 1 {
		return loader.ErrReleased
	}
	return nil
}

// Releases reports how many times Release was called.
func (r *Resource) Releases() int { return int(r.releases.Load()) }
