package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(New())
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.DefaultHorizonDays)
	assert.Equal(t, 365, cfg.MaxHorizonDays)
	assert.Nil(t, cfg.DefaultLookbackDays)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.False(t, cfg.LogUseCases)
	assert.Equal(t, "127.0.0.1:8080", cfg.HTTPAddr)
	assert.NotEmpty(t, cfg.DBPath)
	assert.NotEmpty(t, cfg.Actor)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DOCFLOW_DB", "/tmp/env.db")
	t.Setenv("DOCFLOW_DEFAULT_LOOKBACK_DAYS", "14")
	t.Setenv("DOCFLOW_LOG_LEVEL", "debug")
	t.Setenv("DOCFLOW_HTTP_ADDR", ":9090")

	cfg, err := Load(New())
	require.NoError(t, err)
	assert.Equal(t, "/tmp/env.db", cfg.DBPath)
	require.NotNil(t, cfg.DefaultLookbackDays)
	assert.Equal(t, 14, *cfg.DefaultLookbackDays)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
}

func TestLoad_FlagsBeatEnv(t *testing.T) {
	t.Setenv("DOCFLOW_DB", "/tmp/env.db")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("db", "", "")
	flags.String("log-level", "info", "")
	flags.Bool("log-usecases", false, "")
	require.NoError(t, flags.Parse([]string{"--db", "/tmp/flag.db", "--log-usecases"}))

	v := New()
	require.NoError(t, BindFlags(v, flags))

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/flag.db", cfg.DBPath)
	assert.True(t, cfg.LogUseCases)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docflow.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_horizon_days: 90\ndefault_horizon_days: 14\nlog_level: warn\n"), 0o644))
	t.Setenv("DOCFLOW_CONFIG", path)

	cfg, err := Load(New())
	require.NoError(t, err)
	assert.Equal(t, 90, cfg.MaxHorizonDays)
	assert.Equal(t, 14, cfg.DefaultHorizonDays)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad log level", map[string]string{"DOCFLOW_LOG_LEVEL": "chatty"}},
		{"default above max", map[string]string{"DOCFLOW_DEFAULT_HORIZON_DAYS": "400"}},
		{"negative lookback", map[string]string{"DOCFLOW_DEFAULT_LOOKBACK_DAYS": "-2"}},
		{"zero max", map[string]string{"DOCFLOW_MAX_HORIZON_DAYS": "0"}},
		{"missing config file", map[string]string{"DOCFLOW_CONFIG": "/nonexistent/docflow.yaml"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load(New())
			assert.Error(t, err)
		})
	}
}
