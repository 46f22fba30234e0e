package config

import (
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Log       LogConfig       `koanf:"log"`
	Store     StoreConfig     `koanf:"store"`
	Server    ServerConfig    `koanf:"server"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Caller    CallerConfig    `koanf:"caller"`
	Seed      SeedConfig      `koanf:"seed"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json, text
}

type StoreConfig struct {
	Path string `koanf:"path"` // sqlite database path
}

type ServerConfig struct {
	Name      string `koanf:"name"`
	Version   string `koanf:"version"`
	Transport string `koanf:"transport"` // stdio, http
	Addr      string `koanf:"addr"`      // for http transport
}

type TelemetryConfig struct {
	Enabled            bool   `koanf:"enabled"`
	Exporter           string `koanf:"exporter"` // stdout, otlp
	OTLPEndpoint       string `koanf:"otlp_endpoint"`
	OTLPInsecure       bool   `koanf:"otlp_insecure"`
	OTLPTimeoutSeconds int    `koanf:"otlp_timeout_seconds"`
}

type CallerConfig struct {
	ID     string   `koanf:"id"`
	Grants []string `koanf:"grants"`
}

type SeedConfig struct {
	Path string `koanf:"path"`
}

// Global k instance
var k = koanf.New(".")

func Load(path string) (*Config, error) {
	// Defaults
	k.Set("log.level", "info")
	k.Set("log.format", "text")
	k.Set("store.path", "inkwell.db")
	k.Set("server.name", "inkwell")
	k.Set("server.version", "0.1.0")
	k.Set("server.transport", "stdio")
	k.Set("server.addr", "localhost:8080")
	k.Set("telemetry.enabled", false)
	k.Set("telemetry.exporter", "stdout")
	k.Set("caller.id", "adapter")

	// 1. Load from file
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// 2. Load from ENV (INKWELL_LOG_LEVEL -> log.level)
	if err := k.Load(env.Provider("INKWELL_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, "INKWELL_")), "_", ".", -1)
	}), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
