// Package tracker holds the process-wide tracer and span namer.
package tracker

import (
	"context"
	"sync/atomic"

	"go.opentelemetry.io/otel/trace"
)

// Namer formats span names.
type Namer interface {
	Name(string) string
}

type state struct {
	tracer trace.Tracer
	namer  Namer
}

func (s *state) name(operation string) string {
	if s.namer == nil {
		return operation
	}

	return s.namer.Name(operation)
}

var current atomic.Pointer[state]

func init() {
	current.Store(&state{})
}

// Set replaces the tracer and namer. A nil namer keeps operation names unchanged.
func Set(t trace.Tracer, n Namer) {
	current.Store(&state{tracer: t, namer: n})
}

// Start begins a span with the configured tracer.
// Without a tracer it returns ctx and the span already in it.
func Start(ctx context.Context, operation string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	s := current.Load()
	if s.tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}

	return s.tracer.Start(ctx, s.name(operation), opts...)
}

// Tracer returns the configured tracer, or nil if none is set.
func Tracer() trace.Tracer {
	return current.Load().tracer
}
