// SPDX-License-Identifier: EPL-2.0

package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ik5/progsnd/audio"
	"github.com/ik5/progsnd/formats/bundle"
	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/semaphore"
)

const (
	DefaultCacheTTL = 5 * time.Minute

	bundleExt = ".zip"
)

// FileLoader loads sounds from the file system.
type FileLoader struct {
	root     string
	registry *audio.Registry
	slots    *semaphore.Weighted
	cacheTTL time.Duration
	cache    *cache.Cache
	logger   *slog.Logger
}

type Option func(*FileLoader)

// WithRoot sets the directory relative paths are resolved against.
func WithRoot(dir string) Option {
	return func(l *FileLoader) { l.root = dir }
}

func WithRegistry(reg *audio.Registry) Option {
	return func(l *FileLoader) { l.registry = reg }
}

// WithMaxSounds caps the number of sounds alive at the same time. Load
// fails with ErrExhausted while the cap is reached. n <= 0 means no cap.
func WithMaxSounds(n int64) Option {
	return func(l *FileLoader) {
		l.slots = nil
		if n > 0 {
			l.slots = semaphore.NewWeighted(n)
		}
	}
}

// WithCacheTTL sets how long encoded file contents are kept between loads.
// ttl <= 0 disables the cache.
func WithCacheTTL(ttl time.Duration) Option {
	return func(l *FileLoader) { l.cacheTTL = ttl }
}

func WithLogger(logger *slog.Logger) Option {
	return func(l *FileLoader) { l.logger = logger }
}

func NewFileLoader(opts ...Option) *FileLoader {
	l := &FileLoader{
		cacheTTL: DefaultCacheTTL,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}

	if l.registry == nil {
		l.registry = DefaultRegistry()
	}
	if l.cacheTTL > 0 {
		l.cache = cache.New(l.cacheTTL, 2*l.cacheTTL)
	}
	return l
}

func (l *FileLoader) Registry() *audio.Registry { return l.registry }

// Purge drops every cached file. Call it when files change on disk.
func (l *FileLoader) Purge() {
	if l.cache != nil {
		l.cache.Flush()
	}
}

func (l *FileLoader) Load(ctx context.Context, path string, subIndex int, mode Mode) (Resource, error) {
	s, err := l.LoadSound(ctx, path, subIndex, mode)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// LoadSound is Load returning the concrete type.
func (l *FileLoader) LoadSound(ctx context.Context, path string, subIndex int, mode Mode) (*Sound, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if mode.Has(storageMask) {
		return nil, fmt.Errorf("%w: %s", ErrConflictingMode, mode)
	}

	if l.slots != nil && !l.slots.TryAcquire(1) {
		return nil, fmt.Errorf("%w: loading %s", ErrExhausted, path)
	}

	s := &Sound{
		id:       uuid.New(),
		path:     path,
		subIndex: subIndex,
		mode:     mode,
		loader:   l,
		done:     make(chan struct{}),
		sources:  make(map[*trackedSource]struct{}),
	}

	if mode.Has(ModeNonBlocking) {
		// the load outlives the caller's context; Release cancels it
		var loadCtx context.Context
		loadCtx, s.cancel = context.WithCancel(context.WithoutCancel(ctx))
		go s.load(loadCtx)
		return s, nil
	}

	s.load(ctx)
	if s.err != nil {
		s.freeSlot()
		return nil, s.err
	}
	return s, nil
}

func (l *FileLoader) resolve(path string) string {
	if l.root == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(l.root, path)
}

type encoded struct {
	name string
	data []byte
}

// readEncoded returns the encoded bytes of a sound and the name used to pick
// its decoder, going through the cache.
func (l *FileLoader) readEncoded(file string, subIndex int) (encoded, error) {
	key := file + "#" + strconv.Itoa(subIndex)
	if l.cache != nil {
		if v, ok := l.cache.Get(key); ok {
			return v.(encoded), nil
		}
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return encoded{}, classifyOpenErr(file, err)
	}

	enc := encoded{name: file, data: data}
	if isBundle(file) {
		b, err := bundle.OpenBytes(data)
		if err != nil {
			return encoded{}, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		enc.name, enc.data, err = b.Read(subIndex)
		if err != nil {
			return encoded{}, fmt.Errorf("%w: %s: %w", ErrCorrupt, file, err)
		}
	}

	if l.cache != nil {
		l.cache.Set(key, enc, cache.DefaultExpiration)
	}
	return enc, nil
}

func (l *FileLoader) decoderFor(name string) (audio.Decoder, error) {
	dec, format, ok := l.registry.ForPath(name)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported format %q of %s", ErrCorrupt, format, name)
	}
	return dec, nil
}

func isBundle(path string) bool {
	return strings.EqualFold(filepath.Ext(path), bundleExt)
}

func classifyOpenErr(file string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, file)
	}
	return fmt.Errorf("%w: %s: %w", ErrCorrupt, file, err)
}
