package epiload

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

var (
	// ErrDisabled is returned when telemetry or the requested signal is disabled.
	ErrDisabled = errors.New("epiload: telemetry is disabled")

	// ErrLogsDisabled is returned when log export is disabled.
	ErrLogsDisabled = errors.New("epiload: logs export is disabled")

	// ErrMetricsDisabled is returned when metrics export is disabled.
	ErrMetricsDisabled = errors.New("epiload: metrics export is disabled")

	// ErrServiceNameRequired is returned when ServiceName is empty but telemetry is enabled.
	ErrServiceNameRequired = errors.New("epiload: service name is required")
)

const defaultMetricInterval = 60 * time.Second

// NewTracerProvider builds an SDK TracerProvider and installs it, together with
// the configured propagators, as the global provider.
// Traces are on by default once telemetry is enabled.
func NewTracerProvider(ctx context.Context, cfg *TelemetryConfig) (*sdktrace.TracerProvider, error) {
	if !cfg.IsEnabled() || !cfg.Traces.enabled(true) {
		return nil, ErrDisabled
	}

	res, err := buildResource(ctx, cfg)
	if err != nil {
		return nil, err
	}

	exporter, err := buildTraceExporter(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(buildSampler(cfg.Sampling)),
		sdktrace.WithBatcher(exporter),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(buildPropagator(cfg))

	return tp, nil
}

// NewLoggerProvider builds an SDK LoggerProvider and installs it globally.
// Log export is opt-in.
func NewLoggerProvider(ctx context.Context, cfg *TelemetryConfig) (*sdklog.LoggerProvider, error) {
	if !cfg.IsEnabled() {
		return nil, ErrDisabled
	}
	if !cfg.Logs.enabled(false) {
		return nil, ErrLogsDisabled
	}

	res, err := buildResource(ctx, cfg)
	if err != nil {
		return nil, err
	}

	exporter, err := buildLogExporter(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build log exporter: %w", err)
	}

	lp := sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
	)
	global.SetLoggerProvider(lp)

	return lp, nil
}

// NewMeterProvider builds an SDK MeterProvider with a periodic reader and installs it globally.
// Metrics export is opt-in.
func NewMeterProvider(ctx context.Context, cfg *TelemetryConfig) (*sdkmetric.MeterProvider, error) {
	if !cfg.IsEnabled() {
		return nil, ErrDisabled
	}
	if cfg.Metrics == nil || !cfg.Metrics.enabled(false) {
		return nil, ErrMetricsDisabled
	}

	res, err := buildResource(ctx, cfg)
	if err != nil {
		return nil, err
	}

	exporter, err := buildMetricExporter(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build metric exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter,
			sdkmetric.WithInterval(metricInterval(cfg.Metrics.Interval)),
		)),
	)
	otel.SetMeterProvider(mp)

	return mp, nil
}

// Shutdown flushes and stops every non-nil provider, joining their errors.
func Shutdown(ctx context.Context, tp *sdktrace.TracerProvider, mp *sdkmetric.MeterProvider, lp *sdklog.LoggerProvider) error {
	var errs []error
	if tp != nil {
		errs = append(errs, tp.Shutdown(ctx))
	}
	if mp != nil {
		errs = append(errs, mp.Shutdown(ctx))
	}
	if lp != nil {
		errs = append(errs, lp.Shutdown(ctx))
	}

	return errors.Join(errs...)
}

func buildResource(ctx context.Context, cfg *TelemetryConfig) (*resource.Resource, error) {
	if cfg.ServiceName == "" {
		return nil, ErrServiceNameRequired
	}

	attrs := []attribute.KeyValue{
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.Version),
		semconv.DeploymentEnvironment(cfg.Environment),
	}
	for key, value := range cfg.ResourceAttributes {
		if key != "" {
			attrs = append(attrs, attribute.String(key, value))
		}
	}

	res, err := resource.New(ctx,
		resource.WithSchemaURL(semconv.SchemaURL),
		resource.WithAttributes(attrs...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	return res, nil
}

// metricInterval treats sub-millisecond values as milliseconds, as OTel does for numeric env vars.
func metricInterval(value time.Duration) time.Duration {
	if value <= 0 {
		return defaultMetricInterval
	}
	if value < time.Millisecond {
		return time.Duration(int64(value)) * time.Millisecond
	}

	return value
}

func buildSampler(cfg *SamplingConfig) sdktrace.Sampler {
	if cfg == nil {
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	}

	switch cfg.Sampler {
	case "always_on":
		return sdktrace.AlwaysSample()
	case "always_off":
		return sdktrace.NeverSample()
	case "traceidratio":
		return sdktrace.TraceIDRatioBased(cfg.SamplerArg)
	case "parentbased_always_off":
		return sdktrace.ParentBased(sdktrace.NeverSample())
	case "parentbased_traceidratio":
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SamplerArg))
	default:
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	}
}
