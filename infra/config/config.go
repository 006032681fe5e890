// Package config loads settings from defaults, an optional TOML file and the
// environment, in that order. Later sources override earlier ones.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap/zapcore"
)

const (
	EnvServiceName   = "ITEMS_SERVICE_NAME"
	EnvLogLevel      = "ITEMS_LOG_LEVEL"
	EnvStrictMissing = "ITEMS_STRICT_MISSING"
	EnvLokiURL       = "LOKI_URL"
	EnvOTLPEndpoint  = "OTEL_EXPORTER_OTLP_ENDPOINT"
)

type Config struct {
	ServiceName  string `toml:"service_name"`
	LogLevel     string `toml:"log_level"`
	LokiURL      string `toml:"loki_url"`
	OTLPEndpoint string `toml:"otlp_endpoint"`
	// StrictMissing turns update/delete of an unknown id into item.ErrNotFound.
	StrictMissing bool `toml:"strict_missing"`
}

func Default() Config {
	return Config{
		ServiceName: "items",
		LogLevel:    "info",
	}
}

// Load reads path (skipped when empty) and then applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("loading config file %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return Config{}, fmt.Errorf("loading config file %s: unknown keys %s", path, strings.Join(keys, ", "))
		}
	}
	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvServiceName); ok && v != "" {
		cfg.ServiceName = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		cfg.LogLevel = v
	}
	if v, ok := lookup(EnvLokiURL); ok && v != "" {
		cfg.LokiURL = v
	}
	if v, ok := lookup(EnvOTLPEndpoint); ok && v != "" {
		cfg.OTLPEndpoint = v
	}
	if v, ok := lookup(EnvStrictMissing); ok && v != "" {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvStrictMissing, err)
		}
		cfg.StrictMissing = strict
	}
	return nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return fmt.Errorf("service_name must not be empty")
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}
