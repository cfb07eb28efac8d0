// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 accountd Contributors

// Package config loads service configuration from defaults, an optional
// YAML file, ACCOUNTD_-prefixed environment variables, and command line
// flags, in that order of increasing precedence.
package config

import (
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// EnvPrefix is the prefix for environment variable overrides, e.g.
// ACCOUNTD_DATABASE_URL maps to the database_url key.
const EnvPrefix = "ACCOUNTD_"

// Config holds the full service configuration.
type Config struct {
	DatabaseURL string        `koanf:"database_url"`
	TokenSecret string        `koanf:"token_secret"`
	TokenTTL    time.Duration `koanf:"token_ttl"`
	MetricsAddr string        `koanf:"metrics_addr"`
	LogFormat   string        `koanf:"log_format"`
	LogLevel    string        `koanf:"log_level"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"database_url": "postgres://localhost:5432/accountd",
		"token_ttl":    24 * time.Hour,
		"metrics_addr": ":9090",
		"log_format":   "json",
		"log_level":    "info",
	}
}

// Load builds the configuration. path names an optional YAML file; an
// empty path skips file loading. flags may be nil when no command line
// flags participate.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "defaults").Wrap(err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").
				With("source", "file").
				With("path", path).
				Wrap(err)
		}
	}

	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "env").Wrap(err)
	}

	if flags != nil {
		// Flag names use dashes; config keys use underscores.
		flagProvider := posflag.ProviderWithValue(flags, ".", k,
			func(key, value string) (string, interface{}) {
				return strings.ReplaceAll(key, "-", "_"), value
			})
		if err := k.Load(flagProvider, nil); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "flags").Wrap(err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "unmarshal").Wrap(err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for values the service cannot run
// without. The token secret has no default on purpose; every deployment
// must supply its own.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return oops.Code("CONFIG_INVALID").With("key", "database_url").
			Errorf("database URL must not be empty")
	}
	if c.TokenSecret == "" {
		return oops.Code("CONFIG_INVALID").With("key", "token_secret").
			Errorf("token secret must not be empty")
	}
	if c.TokenTTL <= 0 {
		return oops.Code("CONFIG_INVALID").With("key", "token_ttl").
			Errorf("token TTL must be positive, got %s", c.TokenTTL)
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return oops.Code("CONFIG_INVALID").With("key", "log_format").
			Errorf("log format must be json or text, got %q", c.LogFormat)
	}
	return nil
}
