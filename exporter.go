package epiload

import (
	"context"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutlog"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// exporterParams is the resolved exporter setup for one signal.
type exporterParams struct {
	Type        string // "otlp", "console", "nop"
	Protocol    string // "grpc", "http/protobuf", "http"
	Endpoint    string
	Headers     map[string]string
	Timeout     time.Duration
	Compression string
	Insecure    bool
}

// useHTTP reports whether the OTLP exporter should use HTTP instead of gRPC.
func (p exporterParams) useHTTP() bool {
	return p.Protocol == "http/protobuf" || p.Protocol == "http"
}

// resolveExporterParams merges the shared OTLP settings with a signal's overrides.
func resolveExporterParams(cfg *TelemetryConfig, signal *SignalConfig) exporterParams {
	params := exporterParams{
		Type:     normalizeExporterType(signal.exporter()),
		Protocol: "grpc",
		Endpoint: "localhost:4317",
		Timeout:  10 * time.Second,
		Insecure: true,
	}

	if cfg != nil && cfg.OTLP != nil {
		otlp := cfg.OTLP
		if otlp.Endpoint != "" {
			params.Endpoint = otlp.Endpoint
		}
		if otlp.Protocol != "" {
			params.Protocol = otlp.Protocol
		}
		if otlp.Timeout > 0 {
			params.Timeout = normalizeDuration(otlp.Timeout)
		}
		params.Headers = otlp.Headers
		params.Compression = otlp.Compression
		params.Insecure = otlp.IsInsecure()
	}
	if signal != nil && signal.Endpoint != "" {
		params.Endpoint = signal.Endpoint
	}

	return params
}

type nopSpanExporter struct{}

func (nopSpanExporter) ExportSpans(context.Context, []sdktrace.ReadOnlySpan) error { return nil }
func (nopSpanExporter) Shutdown(context.Context) error                             { return nil }

func buildTraceExporter(ctx context.Context, cfg *TelemetryConfig) (sdktrace.SpanExporter, error) {
	params := resolveExporterParams(cfg, cfg.Traces)

	switch params.Type {
	case "console":
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	case "nop":
		return nopSpanExporter{}, nil
	}

	if params.useHTTP() {
		return otlptracehttp.New(ctx, buildHTTPOptions(params,
			otlptracehttp.WithEndpoint,
			otlptracehttp.WithEndpointURL,
			otlptracehttp.WithHeaders,
			otlptracehttp.WithTimeout,
			otlptracehttp.WithInsecure,
			func() otlptracehttp.Option { return otlptracehttp.WithCompression(otlptracehttp.GzipCompression) },
		)...)
	}

	return otlptracegrpc.New(ctx, buildGRPCOptions(params,
		otlptracegrpc.WithEndpoint,
		otlptracegrpc.WithHeaders,
		otlptracegrpc.WithTimeout,
		otlptracegrpc.WithInsecure,
		func() otlptracegrpc.Option { return otlptracegrpc.WithCompressor("gzip") },
	)...)
}

type nopLogExporter struct{}

func (nopLogExporter) Export(context.Context, []sdklog.Record) error { return nil }
func (nopLogExporter) Shutdown(context.Context) error                { return nil }
func (nopLogExporter) ForceFlush(context.Context) error              { return nil }

func buildLogExporter(ctx context.Context, cfg *TelemetryConfig) (sdklog.Exporter, error) {
	params := resolveExporterParams(cfg, cfg.Logs)

	switch params.Type {
	case "console":
		return stdoutlog.New(stdoutlog.WithPrettyPrint())
	case "nop":
		return nopLogExporter{}, nil
	}

	if params.useHTTP() {
		return otlploghttp.New(ctx, buildHTTPOptions(params,
			otlploghttp.WithEndpoint,
			otlploghttp.WithEndpointURL,
			otlploghttp.WithHeaders,
			otlploghttp.WithTimeout,
			otlploghttp.WithInsecure,
			func() otlploghttp.Option { return otlploghttp.WithCompression(otlploghttp.GzipCompression) },
		)...)
	}

	return otlploggrpc.New(ctx, buildGRPCOptions(params,
		otlploggrpc.WithEndpoint,
		otlploggrpc.WithHeaders,
		otlploggrpc.WithTimeout,
		otlploggrpc.WithInsecure,
		func() otlploggrpc.Option { return otlploggrpc.WithCompressor("gzip") },
	)...)
}

type nopMetricExporter struct{}

func (nopMetricExporter) Export(context.Context, *metricdata.ResourceMetrics) error { return nil }
func (nopMetricExporter) ForceFlush(context.Context) error                         { return nil }
func (nopMetricExporter) Shutdown(context.Context) error                           { return nil }

func (nopMetricExporter) Temporality(k sdkmetric.InstrumentKind) metricdata.Temporality {
	return sdkmetric.DefaultTemporalitySelector(k)
}

func (nopMetricExporter) Aggregation(k sdkmetric.InstrumentKind) sdkmetric.Aggregation {
	return sdkmetric.DefaultAggregationSelector(k)
}

func buildMetricExporter(ctx context.Context, cfg *TelemetryConfig) (sdkmetric.Exporter, error) {
	var signal *SignalConfig
	if cfg.Metrics != nil {
		signal = &cfg.Metrics.SignalConfig
	}
	params := resolveExporterParams(cfg, signal)

	switch params.Type {
	case "console":
		return stdoutmetric.New(stdoutmetric.WithPrettyPrint())
	case "nop":
		return nopMetricExporter{}, nil
	}

	if params.useHTTP() {
		return otlpmetrichttp.New(ctx, buildHTTPOptions(params,
			otlpmetrichttp.WithEndpoint,
			otlpmetrichttp.WithEndpointURL,
			otlpmetrichttp.WithHeaders,
			otlpmetrichttp.WithTimeout,
			otlpmetrichttp.WithInsecure,
			func() otlpmetrichttp.Option { return otlpmetrichttp.WithCompression(otlpmetrichttp.GzipCompression) },
		)...)
	}

	return otlpmetricgrpc.New(ctx, buildGRPCOptions(params,
		otlpmetricgrpc.WithEndpoint,
		otlpmetricgrpc.WithHeaders,
		otlpmetricgrpc.WithTimeout,
		otlpmetricgrpc.WithInsecure,
		func() otlpmetricgrpc.Option { return otlpmetricgrpc.WithCompressor("gzip") },
	)...)
}

// normalizeExporterType maps aliases onto "otlp", "console" and "nop".
// Unset and "none" mean nop so nothing leaves the process unless asked.
func normalizeExporterType(value string) string {
	switch v := strings.ToLower(strings.TrimSpace(value)); v {
	case "", "none", "noop":
		return "nop"
	case "stdout":
		return "console"
	default:
		return v
	}
}

// normalizeDuration treats sub-millisecond values as milliseconds, as OTel does for numeric env vars.
func normalizeDuration(value time.Duration) time.Duration {
	if value > 0 && value < time.Millisecond {
		//nolint:durationcheck // numeric env values are milliseconds
		return value * time.Millisecond
	}

	return value
}

func isHTTPScheme(scheme string) bool {
	switch strings.ToLower(scheme) {
	case "http", "https":
		return true
	default:
		return false
	}
}

func buildHTTPOptions[T any](
	params exporterParams,
	withEndpoint func(string) T,
	withEndpointURL func(string) T,
	withHeaders func(map[string]string) T,
	withTimeout func(time.Duration) T,
	withInsecure func() T,
	withCompression func() T,
) []T {
	var opts []T
	if parsed, err := url.Parse(params.Endpoint); err == nil && isHTTPScheme(parsed.Scheme) {
		opts = append(opts, withEndpointURL(params.Endpoint))
	} else {
		opts = append(opts, withEndpoint(params.Endpoint))
	}

	return append(opts, commonOptions(params, withHeaders, withTimeout, withInsecure, withCompression)...)
}

func buildGRPCOptions[T any](
	params exporterParams,
	withEndpoint func(string) T,
	withHeaders func(map[string]string) T,
	withTimeout func(time.Duration) T,
	withInsecure func() T,
	withCompression func() T,
) []T {
	opts := []T{withEndpoint(params.Endpoint)}

	return append(opts, commonOptions(params, withHeaders, withTimeout, withInsecure, withCompression)...)
}

func commonOptions[T any](
	params exporterParams,
	withHeaders func(map[string]string) T,
	withTimeout func(time.Duration) T,
	withInsecure func() T,
	withCompression func() T,
) []T {
	var opts []T
	if len(params.Headers) > 0 {
		opts = append(opts, withHeaders(params.Headers))
	}
	if params.Timeout > 0 {
		opts = append(opts, withTimeout(params.Timeout))
	}
	if params.Insecure {
		opts = append(opts, withInsecure())
	}
	if params.Compression == "gzip" {
		opts = append(opts, withCompression())
	}

	return opts
}
