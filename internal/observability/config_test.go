package observability

import (
	"testing"

	"github.com/stormline/roofcrm/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestNewConfig(t *testing.T) {
	telemetry := config.TelemetryConfig{LogLevel: "info", OTLPEnabled: true, OTLPProtocol: "grpc", SamplingRatio: 0.2}
	cfg := NewConfig(config.Config{AppName: " ", Environment: " production ", AppVersion: "1.2.0", Telemetry: telemetry})

	assert.Equal(t, defaultServiceName, cfg.ServiceName)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "1.2.0", cfg.Version)
	assert.Equal(t, telemetry, cfg.TelemetryConfig)
	assert.False(t, cfg.Debug())
}

func TestConfigDebug(t *testing.T) {
	tests := []struct {
		env, level string
		want       bool
	}{
		{"production", "info", false},
		{"staging", "debug", true},
		{"production", " DEBUG ", true},
		{"development", "info", true},
		{"test", "warn", true},
		{"", "info", false},
	}
	for _, tt := range tests {
		cfg := Config{Environment: tt.env, TelemetryConfig: config.TelemetryConfig{LogLevel: tt.level}}
		assert.Equal(t, tt.want, cfg.Debug(), "env=%q level=%q", tt.env, tt.level)
	}
}
