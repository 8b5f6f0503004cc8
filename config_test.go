package epiload

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTelemetryIsEnabled(t *testing.T) {
	assert.False(t, (*TelemetryConfig)(nil).IsEnabled())
	assert.False(t, (&TelemetryConfig{}).IsEnabled())
	assert.True(t, (&TelemetryConfig{Enabled: boolPtr(true)}).IsEnabled())
}

func TestSignalEnabled(t *testing.T) {
	assert.True(t, (*SignalConfig)(nil).enabled(true))
	assert.False(t, (*SignalConfig)(nil).enabled(false))
	assert.False(t, (&SignalConfig{Enabled: boolPtr(false)}).enabled(true))
	assert.Equal(t, "none", (*SignalConfig)(nil).exporter())
}

func TestUploadConfig_ExtensionList(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{"default", "", []string{".json", ".yaml", ".yml"}},
		{"normalized", " JSON, .Yaml ,,yml", []string{".json", ".yaml", ".yml"}},
		{"deduplicated", ".json,.JSON", []string{".json"}},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &UploadConfig{Extensions: tt.in}
			assert.Equal(t, tt.want, cfg.ExtensionList())
		})
	}
}

func TestUploadConfig_Limits(t *testing.T) {
	var zero UploadConfig
	assert.Equal(t, int64(10<<20), zero.FileSizeLimit())
	assert.Equal(t, 100, zero.ErrorLimit())

	cfg := UploadConfig{MaxFileSize: 2048, MaxErrors: 5}
	assert.Equal(t, int64(2048), cfg.FileSizeLimit())
	assert.Equal(t, 5, cfg.ErrorLimit())
}

func TestTelemetryConfig_Namer(t *testing.T) {
	var cfg TelemetryConfig
	assert.Equal(t, "upload.read", cfg.Namer().Name("upload.read"))

	cfg.SpanPrefix = "epiload"
	assert.Equal(t, "epiload.upload.read", cfg.Namer().Name("upload.read"))
}
