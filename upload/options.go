package upload

import (
	"context"

	"github.com/arloliu/epiload/filereader"
	"github.com/arloliu/epiload/internal/tracker"
	"github.com/arloliu/epiload/scenario"
	"go.opentelemetry.io/otel"
	otellog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const instrumentationName = "github.com/arloliu/epiload/upload"

// Reader reads one file into text.
type Reader interface {
	Read(ctx context.Context, f filereader.File) (string, error)
}

// Deserializer turns text into a validated bundle.
type Deserializer interface {
	Deserialize(text string) (*scenario.Bundle, error)
}

// DeserializerFunc adapts a function to Deserializer.
type DeserializerFunc func(text string) (*scenario.Bundle, error)

// Deserialize calls f(text).
func (f DeserializerFunc) Deserialize(text string) (*scenario.Bundle, error) {
	return f(text)
}

type options struct {
	reader       Reader
	deserializer Deserializer
	logger       *zap.Logger
	tp           trace.TracerProvider
	mp           metric.MeterProvider
	lp           otellog.LoggerProvider
}

func defaultOptions() options {
	return options{
		reader:       filereader.New(),
		deserializer: DeserializerFunc(scenario.Deserialize),
		logger:       zap.NewNop(),
	}
}

// Option configures a Pipeline.
type Option func(*options)

// WithReader replaces the file reader.
func WithReader(r Reader) Option {
	return func(o *options) {
		if r != nil {
			o.reader = r
		}
	}
}

// WithDeserializer replaces the scenario deserializer.
func WithDeserializer(d Deserializer) Option {
	return func(o *options) {
		if d != nil {
			o.deserializer = d
		}
	}
}

// WithLogger sets the zap logger. Default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithTracerProvider sets an explicit TracerProvider.
// If not set, spans go through epiload.Start when epiload.InitTracing has
// installed a tracer, so its span namer applies. Otherwise the global
// provider is used.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		o.tp = tp
	}
}

// WithMeterProvider sets an explicit MeterProvider. Default is the global provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) {
		o.mp = mp
	}
}

// WithLoggerProvider sets an explicit OTel LoggerProvider for failure records.
// Default is the global provider.
func WithLoggerProvider(lp otellog.LoggerProvider) Option {
	return func(o *options) {
		o.lp = lp
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

func (o options) tracer() trace.Tracer {
	if o.tp != nil {
		return o.tp.Tracer(instrumentationName)
	}

	return otel.GetTracerProvider().Tracer(instrumentationName)
}

// useTracker reports whether spans should be started through the
// process-wide tracer. Checked per span so a later InitTracing takes effect.
func (o options) useTracker() bool {
	return o.tp == nil && tracker.Tracer() != nil
}

func (o options) meter() metric.Meter {
	mp := o.mp
	if mp == nil {
		mp = otel.GetMeterProvider()
	}

	return mp.Meter(instrumentationName)
}

func (o options) otelLogger() otellog.Logger {
	lp := o.lp
	if lp == nil {
		lp = global.GetLoggerProvider()
	}

	return lp.Logger(instrumentationName)
}
