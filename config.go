//revive:disable:line-length-limit
package epiload

import (
	"slices"
	"strings"
	"time"

	"github.com/arloliu/epiload/filereader"
)

// Config is the top-level epiload configuration.
type Config struct {
	// Upload configures file acceptance and the visible error list.
	Upload UploadConfig `yaml:"upload"`

	// Log configures the zap logger.
	Log LogConfig `yaml:"log"`

	// Telemetry configures OpenTelemetry export. Disabled by default.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// UploadConfig configures the upload pipeline.
type UploadConfig struct {
	// MaxFileSize is the largest accepted file in bytes.
	MaxFileSize int64 `yaml:"maxFileSize" env:"EPILOAD_MAX_FILE_SIZE" default:"10485760" validate:"gt=0"`

	// Extensions is a comma-separated list of accepted file extensions.
	Extensions string `yaml:"extensions" env:"EPILOAD_EXTENSIONS" default:".json,.yaml,.yml"`

	// MaxErrors bounds the number of messages kept in the visible error list.
	MaxErrors int `yaml:"maxErrors" env:"EPILOAD_MAX_ERRORS" default:"100" validate:"gte=1"`
}

// ExtensionList returns the normalized accepted extensions (lower case, leading dot).
func (c *UploadConfig) ExtensionList() []string {
	raw := ".json,.yaml,.yml"
	if c != nil && strings.TrimSpace(c.Extensions) != "" {
		raw = c.Extensions
	}

	var exts []string
	for e := range strings.SplitSeq(raw, ",") {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		if !slices.Contains(exts, e) {
			exts = append(exts, e)
		}
	}

	return exts
}

// FileSizeLimit returns MaxFileSize, falling back to the reader default.
func (c *UploadConfig) FileSizeLimit() int64 {
	if c == nil || c.MaxFileSize <= 0 {
		return filereader.DefaultMaxSize
	}

	return c.MaxFileSize
}

// ErrorLimit returns MaxErrors, falling back to 100.
func (c *UploadConfig) ErrorLimit() int {
	if c == nil || c.MaxErrors <= 0 {
		return 100
	}

	return c.MaxErrors
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is the minimum log level.
	Level string `yaml:"level" env:"EPILOAD_LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`

	// Format selects "json" (production) or "console" (development) output.
	Format string `yaml:"format" env:"EPILOAD_LOG_FORMAT" default:"console" validate:"oneof=json console"`
}

// TelemetryConfig configures OpenTelemetry.
// Environment variable names follow the OTel specification:
// https://opentelemetry.io/docs/specs/otel/configuration/sdk-environment-variables/
type TelemetryConfig struct {
	// Enabled controls whether telemetry export is active.
	Enabled *bool `yaml:"enabled" default:"false" env:"EPILOAD_TELEMETRY_ENABLED"`

	// ServiceName maps to OTEL_SERVICE_NAME.
	ServiceName string `yaml:"serviceName" env:"OTEL_SERVICE_NAME" default:"epiload"`

	// Version is used in the service.version resource attribute.
	Version string `yaml:"version" env:"OTEL_SERVICE_VERSION"`

	// Environment is used in the deployment.environment resource attribute.
	Environment string `yaml:"environment" env:"OTEL_DEPLOYMENT_ENVIRONMENT" default:"development"`

	// ResourceAttributes contains additional resource attributes.
	ResourceAttributes map[string]string `yaml:"resourceAttributes,omitempty" env:"OTEL_RESOURCE_ATTRIBUTES"`

	// OTLP holds exporter settings shared by all signals.
	OTLP *OTLPConfig `yaml:"otlp,omitempty"`

	// Traces configures the tracing subsystem.
	Traces *SignalConfig `yaml:"traces,omitempty"`

	// Metrics configures the metrics subsystem.
	Metrics *MetricsConfig `yaml:"metrics,omitempty"`

	// Logs configures OTel log export.
	Logs *SignalConfig `yaml:"logs,omitempty"`

	// Sampling configures the trace sampler.
	Sampling *SamplingConfig `yaml:"sampling,omitempty"`

	// Propagators maps to OTEL_PROPAGATORS.
	Propagators string `yaml:"propagators" env:"OTEL_PROPAGATORS" default:"tracecontext,baggage"`

	// SpanPrefix is prepended to span names, e.g. "epiload" gives "epiload.upload.read".
	SpanPrefix string `yaml:"spanPrefix" env:"EPILOAD_SPAN_PREFIX"`
}

// Namer returns the span namer for SpanPrefix.
func (c *TelemetryConfig) Namer() SpanNamer {
	if c.SpanPrefix == "" {
		return DefaultNamer{}
	}

	return PrefixNamer{Prefix: c.SpanPrefix}
}

// OTLPConfig contains shared OTLP exporter settings.
type OTLPConfig struct {
	// Endpoint is "host:port" for gRPC or a full URL for HTTP.
	Endpoint string `yaml:"endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT" default:"localhost:4317"`

	// Insecure disables TLS.
	Insecure *bool `yaml:"insecure" env:"OTEL_EXPORTER_OTLP_INSECURE" default:"true"`

	// Headers are sent with every export request. Avoid logging them.
	Headers map[string]string `yaml:"headers,omitempty" env:"OTEL_EXPORTER_OTLP_HEADERS"`

	// Protocol is one of "grpc", "http/protobuf", "http".
	Protocol string `yaml:"protocol" env:"OTEL_EXPORTER_OTLP_PROTOCOL" default:"grpc" validate:"oneof=grpc http/protobuf http"`

	// Timeout bounds each export request.
	Timeout time.Duration `yaml:"timeout" env:"OTEL_EXPORTER_OTLP_TIMEOUT" default:"10s" validate:"gte=0"`

	// Compression is "gzip" or "none".
	Compression string `yaml:"compression,omitempty" env:"OTEL_EXPORTER_OTLP_COMPRESSION" validate:"omitempty,oneof=gzip none"`
}

// IsInsecure returns true if insecure connection is enabled.
func (c *OTLPConfig) IsInsecure() bool {
	return c == nil || c.Insecure == nil || *c.Insecure
}

// SignalConfig configures one signal's exporter.
type SignalConfig struct {
	Enabled  *bool  `yaml:"enabled"`
	Exporter string `yaml:"exporter" default:"none" validate:"omitempty,oneof=otlp console stdout none"`
	Endpoint string `yaml:"endpoint,omitempty"`
}

// MetricsConfig configures the metrics subsystem.
type MetricsConfig struct {
	SignalConfig `yaml:",inline"`

	// Interval is the periodic export interval.
	Interval time.Duration `yaml:"interval,omitempty" env:"OTEL_METRIC_EXPORT_INTERVAL" default:"60s" validate:"omitempty,gt=0"`
}

// SamplingConfig maps to OTEL_TRACES_SAMPLER and OTEL_TRACES_SAMPLER_ARG.
type SamplingConfig struct {
	Sampler    string  `yaml:"sampler" env:"OTEL_TRACES_SAMPLER" default:"parentbased_always_on" validate:"oneof=always_on always_off traceidratio parentbased_always_on parentbased_always_off parentbased_traceidratio"`
	SamplerArg float64 `yaml:"samplerArg" env:"OTEL_TRACES_SAMPLER_ARG" default:"1.0" validate:"gte=0,lte=1"`
}

// IsEnabled returns true if telemetry is enabled.
func (c *TelemetryConfig) IsEnabled() bool {
	return c != nil && c.Enabled != nil && *c.Enabled
}

// enabled reports whether a signal is on. Traces default to on, logs and metrics to off.
func (c *SignalConfig) enabled(defaultValue bool) bool {
	if c == nil || c.Enabled == nil {
		return defaultValue
	}

	return *c.Enabled
}

// exporter returns the signal exporter type, defaulting to "none".
func (c *SignalConfig) exporter() string {
	if c == nil || c.Exporter == "" {
		return "none"
	}

	return c.Exporter
}

// propagatorNames returns the configured propagators.
func (c *TelemetryConfig) propagatorNames() []string {
	if c == nil || strings.TrimSpace(c.Propagators) == "" {
		return []string{"tracecontext", "baggage"}
	}

	return splitList(c.Propagators)
}

// splitList splits a comma-separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for p := range strings.SplitSeq(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}

	return out
}

// boolPtr returns a pointer to the given boolean value.
func boolPtr(v bool) *bool { return &v }
