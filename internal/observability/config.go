package observability

import (
	"strings"

	"github.com/stormline/roofcrm/internal/config"
)

const defaultServiceName = "roofcrm"

// Config is the part of the application config the logger, tracer and
// metrics providers read.
type Config struct {
	ServiceName string
	Environment string
	Version     string
	config.TelemetryConfig
}

func NewConfig(cfg config.Config) Config {
	name := strings.TrimSpace(cfg.AppName)
	if name == "" {
		name = defaultServiceName
	}
	return Config{
		ServiceName:     name,
		Environment:     strings.TrimSpace(cfg.Environment),
		Version:         strings.TrimSpace(cfg.AppVersion),
		TelemetryConfig: cfg.Telemetry,
	}
}

// Debug enables verbose request logs, stack traces on errors and gin debug
// mode. It is on for debug log level and for non-production environments.
func (c Config) Debug() bool {
	if strings.EqualFold(strings.TrimSpace(c.LogLevel), "debug") {
		return true
	}
	switch strings.ToLower(c.Environment) {
	case "dev", "development", "local", "test":
		return true
	}
	return false
}
