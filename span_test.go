package epiload

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func newRecordingTracer(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()

	exp := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp))
	t.Cleanup(func() {
		InitTracing(nil, nil)
		_ = tp.Shutdown(context.Background())
	})
	InitTracing(tp.Tracer("epiload-test"), PrefixNamer{Prefix: "epiload"})

	return exp
}

func TestSpanHelpers(t *testing.T) {
	exp := newRecordingTracer(t)

	ctx, span := Start(context.Background(), "upload.read")
	require.True(t, span.IsRecording())
	assert.NotEmpty(t, TraceID(ctx))

	SetAttributes(ctx, attribute.String("file.name", "basel.json"))
	AddEvent(ctx, "decoded", attribute.Int("bytes", 42))
	RecordError(ctx, nil)
	SetSuccess(ctx)
	span.End()

	spans := exp.GetSpans()
	require.Len(t, spans, 1)
	got := spans[0]
	assert.Equal(t, "epiload.upload.read", got.Name)
	assert.Equal(t, trace.SpanKindInternal, got.SpanKind)
	assert.Equal(t, codes.Ok, got.Status.Code)
	assert.Contains(t, got.Attributes, attribute.String("file.name", "basel.json"))
	require.Len(t, got.Events, 1)
	assert.Equal(t, "decoded", got.Events[0].Name)
}

func TestRecordError(t *testing.T) {
	exp := newRecordingTracer(t)

	ctx, span := Start(context.Background(), "upload.deserialize")
	RecordError(ctx, errors.New("bad document"))
	span.End()

	spans := exp.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Equal(t, "bad document", spans[0].Status.Description)
	require.Len(t, spans[0].Events, 1)
	assert.Equal(t, "exception", spans[0].Events[0].Name)
}

func TestStart_NoTracer(t *testing.T) {
	InitTracing(nil, DefaultNamer{})

	ctx := context.Background()
	ctx2, span := Start(ctx, "upload.process")
	assert.NotNil(t, span)
	assert.False(t, span.IsRecording())
	assert.Equal(t, ctx, ctx2)
	assert.Empty(t, TraceID(ctx2))
}
