// SPDX-License-Identifier: EPL-2.0

package progsnd

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

type Option func(*Resolver)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) { r.logger = logger }
}

// WithTracer sets the tracer for resolve and release spans. The default
// comes from the global otel tracer provider.
func WithTracer(tracer trace.Tracer) Option {
	return func(r *Resolver) { r.tracer = tracer }
}

// WithStrict makes InvalidHandle errors panic.
func WithStrict(strict bool) Option {
	return func(r *Resolver) { r.strict = strict }
}
