// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 accountd Contributors

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accountd/accountd/pkg/errutil"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ACCOUNTD_TOKEN_SECRET", "test-secret")

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost:5432/accountd", cfg.DatabaseURL)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, ":9090", cfg.MetricsAddr)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_MissingTokenSecret(t *testing.T) {
	_, err := Load("", nil)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
	errutil.AssertErrorContext(t, err, "key", "token_secret")
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accountd.yaml")
	content := []byte(`database_url: postgres://db.internal:5432/accounts
token_secret: file-secret
token_ttl: 1h
log_format: text
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "postgres://db.internal:5432/accounts", cfg.DatabaseURL)
	assert.Equal(t, "file-secret", cfg.TokenSecret)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, "text", cfg.LogFormat)
	// Keys absent from the file keep their defaults.
	assert.Equal(t, ":9090", cfg.MetricsAddr)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "CONFIG_LOAD_FAILED")
	errutil.AssertErrorContext(t, err, "source", "file")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accountd.yaml")
	require.NoError(t, os.WriteFile(path, []byte("token_secret: file-secret\n"), 0o600))

	t.Setenv("ACCOUNTD_TOKEN_SECRET", "env-secret")
	t.Setenv("ACCOUNTD_METRICS_ADDR", ":9191")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "env-secret", cfg.TokenSecret)
	assert.Equal(t, ":9191", cfg.MetricsAddr)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("ACCOUNTD_TOKEN_SECRET", "env-secret")
	t.Setenv("ACCOUNTD_LOG_FORMAT", "json")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("log-format", "json", "")
	require.NoError(t, flags.Parse([]string{"--log-format=text"}))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "env-secret", cfg.TokenSecret)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			DatabaseURL: "postgres://localhost:5432/accountd",
			TokenSecret: "secret",
			TokenTTL:    time.Hour,
			LogFormat:   "json",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantKey string
	}{
		{"empty database URL", func(c *Config) { c.DatabaseURL = "" }, "database_url"},
		{"empty token secret", func(c *Config) { c.TokenSecret = "" }, "token_secret"},
		{"zero token TTL", func(c *Config) { c.TokenTTL = 0 }, "token_ttl"},
		{"negative token TTL", func(c *Config) { c.TokenTTL = -time.Minute }, "token_ttl"},
		{"unknown log format", func(c *Config) { c.LogFormat = "xml" }, "log_format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
			errutil.AssertErrorContext(t, err, "key", tt.wantKey)
		})
	}

	t.Run("valid passes", func(t *testing.T) {
		require.NoError(t, valid().Validate())
	})
}
