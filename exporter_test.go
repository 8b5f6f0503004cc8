package epiload

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOpt struct {
	kind string
	val  string
}

func fakeOptionFuncs() (
	func(string) fakeOpt,
	func(string) fakeOpt,
	func(map[string]string) fakeOpt,
	func(time.Duration) fakeOpt,
	func() fakeOpt,
	func() fakeOpt,
) {
	return func(v string) fakeOpt { return fakeOpt{kind: "endpoint", val: v} },
		func(v string) fakeOpt { return fakeOpt{kind: "endpointURL", val: v} },
		func(map[string]string) fakeOpt { return fakeOpt{kind: "headers"} },
		func(d time.Duration) fakeOpt { return fakeOpt{kind: "timeout", val: d.String()} },
		func() fakeOpt { return fakeOpt{kind: "insecure"} },
		func() fakeOpt { return fakeOpt{kind: "compression"} }
}

func optKinds(opts []fakeOpt) []string {
	out := make([]string, 0, len(opts))
	for _, o := range opts {
		out = append(out, o.kind)
	}

	return out
}

func TestNormalizeExporterType(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"", "nop"},
		{"none", "nop"},
		{"noop", "nop"},
		{"stdout", "console"},
		{"OTLP", "otlp"},
		{"console", "console"},
	}

	for _, tt := range cases {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeExporterType(tt.input))
		})
	}
}

func TestResolveExporterParams(t *testing.T) {
	// nothing configured: nop exporter, local gRPC defaults
	params := resolveExporterParams(&TelemetryConfig{}, nil)
	assert.Equal(t, "nop", params.Type)
	assert.Equal(t, "localhost:4317", params.Endpoint)
	assert.Equal(t, "grpc", params.Protocol)
	assert.True(t, params.Insecure)

	cfg := &TelemetryConfig{
		OTLP: &OTLPConfig{
			Endpoint:    "collector:4317",
			Protocol:    "http/protobuf",
			Insecure:    boolPtr(false),
			Timeout:     5, // numeric env value, milliseconds
			Compression: "gzip",
		},
		Traces: &SignalConfig{Exporter: "otlp", Endpoint: "http://traces:4318/v1/traces"},
	}
	params = resolveExporterParams(cfg, cfg.Traces)
	assert.Equal(t, "otlp", params.Type)
	assert.Equal(t, "http://traces:4318/v1/traces", params.Endpoint)
	assert.True(t, params.useHTTP())
	assert.False(t, params.Insecure)
	assert.Equal(t, 5*time.Millisecond, params.Timeout)
	assert.Equal(t, "gzip", params.Compression)
}

func TestBuildHTTPOptions(t *testing.T) {
	params := exporterParams{
		Endpoint:    "http://localhost:4318/v1/logs",
		Headers:     map[string]string{"k": "v"},
		Timeout:     5 * time.Second,
		Insecure:    true,
		Compression: "gzip",
	}

	endpoint, endpointURL, headers, timeout, insecure, compression := fakeOptionFuncs()
	opts := buildHTTPOptions(params, endpoint, endpointURL, headers, timeout, insecure, compression)
	require.NotEmpty(t, opts)
	assert.Equal(t, "endpointURL", opts[0].kind)
	assert.Equal(t, []string{"endpointURL", "headers", "timeout", "insecure", "compression"}, optKinds(opts))

	params.Endpoint = "localhost:4318"
	params.Headers = nil
	params.Compression = ""
	opts = buildHTTPOptions(params, endpoint, endpointURL, headers, timeout, insecure, compression)
	assert.Equal(t, []string{"endpoint", "timeout", "insecure"}, optKinds(opts))
}

func TestBuildGRPCOptions(t *testing.T) {
	params := exporterParams{
		Endpoint:    "localhost:4317",
		Headers:     map[string]string{"k": "v"},
		Timeout:     2 * time.Second,
		Compression: "gzip",
	}

	endpoint, _, headers, timeout, insecure, compression := fakeOptionFuncs()
	opts := buildGRPCOptions(params, endpoint, headers, timeout, insecure, compression)
	assert.Equal(t, []string{"endpoint", "headers", "timeout", "compression"}, optKinds(opts))
	assert.Equal(t, "localhost:4317", opts[0].val)
}

func TestBuildExporters_Nop(t *testing.T) {
	cfg := &TelemetryConfig{
		Traces:  &SignalConfig{Exporter: "none"},
		Logs:    &SignalConfig{Exporter: "none"},
		Metrics: &MetricsConfig{SignalConfig: SignalConfig{Exporter: "none"}},
	}

	te, err := buildTraceExporter(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, nopSpanExporter{}, te)

	le, err := buildLogExporter(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, nopLogExporter{}, le)

	me, err := buildMetricExporter(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, nopMetricExporter{}, me)
}
