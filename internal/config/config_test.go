package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"APP_SERVICE", "PROPOSAL_VALID_DAYS", "PROPOSAL_NUMBER_TEMPLATE", "LOG_LEVEL", "AI_TIMEOUT",
		"OTEL_ENABLED", "OTEL_EXPORTER_OTLP_ENDPOINT", "OTLP_ENDPOINT", "OTEL_SAMPLING_RATIO",
		"OTEL_EXPORTER_OTLP_PROTOCOL", "OTEL_EXPORTER_OTLP_TRACES_PROTOCOL",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "roofcrm", cfg.AppName)
	assert.Equal(t, 30, cfg.Proposal.ValidDays)
	assert.Equal(t, "PR-{YYYY}{MM}-{SEQ5}", cfg.Proposal.NumberTemplate)
	assert.Equal(t, "info", cfg.Telemetry.LogLevel)
	assert.Equal(t, "grpc", cfg.Telemetry.OTLPProtocol)
	assert.Equal(t, "localhost:4317", cfg.Telemetry.OTLPEndpoint)
	assert.Equal(t, 0.1, cfg.Telemetry.SamplingRatio)
	assert.True(t, cfg.Telemetry.OTLPEnabled)
	assert.Equal(t, 30*time.Second, cfg.AI.Timeout)
}

func TestLoad_TelemetryOverrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "staging")
	t.Setenv("DEPLOYMENT_ENV", " production ")
	t.Setenv("APP_VERSION", "0.1.0")
	t.Setenv("SERVICE_VERSION", "1.4.2")
	t.Setenv("LOG_LEVEL", " DEBUG ")
	t.Setenv("LOG_FORMAT", "")
	t.Setenv("OTLP_ENDPOINT", "collector:4317")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "otel:4318")
	t.Setenv("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc")
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_PROTOCOL", "HTTP/protobuf")
	t.Setenv("OTEL_SAMPLING_RATIO", "0.5")
	t.Setenv("OTEL_ENABLED", "off")

	cfg := Load()

	assert.Equal(t, "production", cfg.Environment)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "1.4.2", cfg.AppVersion)
	assert.Equal(t, TelemetryConfig{
		LogLevel:      "debug",
		LogFormat:     "json",
		OTLPEnabled:   false,
		OTLPEndpoint:  "otel:4318",
		OTLPProtocol:  "http/protobuf",
		SamplingRatio: 0.5,
	}, cfg.Telemetry)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("PROPOSAL_VALID_DAYS", "-4")
	t.Setenv("OTEL_SAMPLING_RATIO", "lots")
	t.Setenv("AI_TIMEOUT", "soon")
	t.Setenv("PRICING_CONFIG_PATHS", " /etc/roofcrm , ,./conf ")

	cfg := Load()

	assert.Equal(t, 30, cfg.Proposal.ValidDays)
	assert.Equal(t, 0.1, cfg.Telemetry.SamplingRatio)
	assert.Equal(t, 30*time.Second, cfg.AI.Timeout)
	assert.Equal(t, []string{"/etc/roofcrm", "./conf"}, cfg.Pricing.ConfigPaths)
}
