// SPDX-License-Identifier: EPL-2.0

package progsnd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/ik5/progsnd/loader"
	"github.com/ik5/progsnd/table"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/ik5/progsnd"

var errNilLoader = errors.New("progsnd: nil loader")

// Resolver turns sound keys into loaded resources. It is safe for
// concurrent use.
type Resolver struct {
	tbl         atomic.Pointer[table.Table]
	loader      loader.Loader
	outstanding atomic.Int64

	logger *slog.Logger
	tracer trace.Tracer
	strict bool
}

// New creates a resolver. A nil table is treated as an empty one.
func New(tbl *table.Table, ld loader.Loader, opts ...Option) (*Resolver, error) {
	if ld == nil {
		return nil, errNilLoader
	}

	r := &Resolver{
		loader: ld,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.tracer == nil {
		r.tracer = otel.Tracer(tracerName)
	}

	r.SwapTable(tbl)
	return r, nil
}

func (r *Resolver) Table() *table.Table { return r.tbl.Load() }

// SwapTable makes tbl the table for every following resolution.
func (r *Resolver) SwapTable(tbl *table.Table) {
	if tbl == nil {
		tbl = table.Empty("")
	}
	old := r.tbl.Swap(tbl)
	if old != nil {
		r.logger.Info("sound table switched", "from", old.Name(), "to", tbl.Name(), "keys", tbl.Len())
	}
}

// Outstanding is the number of handles resolved and not yet released.
func (r *Resolver) Outstanding() int64 { return r.outstanding.Load() }

func (r *Resolver) NewRequest(key string) *Request {
	return &Request{
		id:    uuid.New(),
		key:   key,
		owner: r,
	}
}

// Resolve loads the sound for req. On success req becomes Active and owns
// the returned handle; on failure req becomes Failed.
func (r *Resolver) Resolve(ctx context.Context, req *Request) (*Handle, error) {
	if req == nil || req.owner != r {
		return nil, r.invalid("", "request does not belong to this resolver")
	}

	ctx, span := r.tracer.Start(ctx, "progsnd.Resolve", trace.WithAttributes(
		attribute.String("progsnd.key", req.key),
		attribute.String("progsnd.request", req.id.String()),
	))
	defer span.End()

	req.mu.Lock()
	if req.State() != Pending || req.cancel != nil {
		state := req.State()
		req.mu.Unlock()
		return nil, r.invalid(req.key, "resolving a "+state.String()+" request")
	}
	ctx, cancel := context.WithCancel(ctx)
	req.cancel = cancel
	req.mu.Unlock()
	defer cancel()

	h, err := r.resolve(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("progsnd.handle", h.id.String()))
	return h, nil
}

func (r *Resolver) resolve(ctx context.Context, req *Request) (*Handle, error) {
	logger := r.logger.With("key", req.key, "request", req.id)

	info, ok := r.Table().Lookup(req.key)
	if !ok {
		return nil, r.fail(req, &ResolutionError{Kind: NotFound, Key: req.key})
	}

	res, err := r.loader.Load(ctx, info.Path, info.SubIndex, info.Mode)
	if err != nil {
		if cerr := ctx.Err(); cerr != nil && errors.Is(err, cerr) {
			return nil, r.fail(req, canceled(ctx, req.key))
		}
		logger.Warn("sound load failed", "path", info.Path, "error", err)
		return nil, r.fail(req, classify(req.key, err))
	}

	h := &Handle{
		id:   uuid.New(),
		req:  req,
		info: info,
		res:  res,
	}

	req.mu.Lock()
	req.cancel = nil
	if !req.transition(Pending, Active) {
		req.mu.Unlock()

		// cancelled while the loader was running
		if rerr := res.Release(); rerr != nil {
			logger.Warn("releasing cancelled sound", "error", rerr)
		}
		logger.Debug("resolution cancelled")
		return nil, canceled(ctx, req.key)
	}
	req.handle = h
	req.mu.Unlock()

	r.outstanding.Add(1)
	logger.Debug("sound resolved", "handle", h.id, "path", info.Path, "mode", info.Mode)
	return h, nil
}

// fail moves req to Failed unless it was cancelled meanwhile.
func (r *Resolver) fail(req *Request, err error) error {
	req.mu.Lock()
	defer req.mu.Unlock()

	req.cancel = nil
	if !req.transition(Pending, Failed) {
		return fmt.Errorf("%w: key %q: %w", ErrCanceled, req.key, context.Canceled)
	}
	req.err = err
	return err
}

// Release frees the resource of h and moves its request to Released.
func (r *Resolver) Release(h *Handle) error {
	if h == nil || h.req == nil || h.req.owner != r {
		return r.invalid("", "handle does not belong to this resolver")
	}
	req := h.req

	req.mu.Lock()
	if req.handle != h || !req.transition(Active, Released) {
		req.mu.Unlock()
		return r.invalid(req.key, "handle already released")
	}
	req.mu.Unlock()

	return r.release(h)
}

func (r *Resolver) release(h *Handle) error {
	_, span := r.tracer.Start(context.Background(), "progsnd.Release", trace.WithAttributes(
		attribute.String("progsnd.key", h.req.key),
		attribute.String("progsnd.handle", h.id.String()),
	))
	defer span.End()

	err := h.res.Release()
	r.outstanding.Add(-1)

	if err != nil {
		span.RecordError(err)
		r.logger.Warn("sound release failed", "key", h.req.key, "handle", h.id, "error", err)
		return fmt.Errorf("releasing %q: %w", h.req.key, err)
	}

	r.logger.Debug("sound released", "key", h.req.key, "handle", h.id)
	return nil
}

// Cancel abandons req. A pending request is released and a Resolve running
// for it is interrupted; an active request has its handle released.
func (r *Resolver) Cancel(req *Request) error {
	if req == nil || req.owner != r {
		return r.invalid("", "request does not belong to this resolver")
	}

	req.mu.Lock()
	if req.transition(Pending, Released) {
		cancel := req.cancel
		req.mu.Unlock()

		if cancel != nil {
			cancel()
		}
		r.logger.Debug("request cancelled", "key", req.key, "request", req.id, "in_flight", cancel != nil)
		return nil
	}

	if req.State() == Active {
		h := req.handle
		req.mu.Unlock()
		return r.Release(h)
	}

	state := req.State()
	req.mu.Unlock()
	return r.invalid(req.key, "cancelling a "+state.String()+" request")
}

// OnCreate is the engine's create callback.
func (r *Resolver) OnCreate(ctx context.Context, key string) (*Handle, error) {
	return r.Resolve(ctx, r.NewRequest(key))
}

// OnDestroy is the engine's destroy callback.
func (r *Resolver) OnDestroy(h *Handle) error {
	return r.Release(h)
}

func (r *Resolver) invalid(key, reason string) error {
	err := &ResolutionError{Kind: InvalidHandle, Key: key, Err: errors.New(reason)}
	if r.strict {
		panic(err)
	}
	r.logger.Warn("invalid handle use", "key", key, "reason", reason)
	return err
}

func classify(key string, err error) *ResolutionError {
	kind := Corrupt
	switch {
	case errors.Is(err, loader.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		kind = NotFound
	case errors.Is(err, loader.ErrExhausted):
		kind = ResourceExhausted
	}
	return &ResolutionError{Kind: kind, Key: key, Err: err}
}

func canceled(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: key %q: %w", ErrCanceled, key, err)
	}
	return fmt.Errorf("%w: key %q", ErrCanceled, key)
}
