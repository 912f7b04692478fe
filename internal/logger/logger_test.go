package logger_test

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	logpkg "github.com/maxviazov/billing-admin-service/internal/logger"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		config    *logpkg.LoggerConfig
		wantErr   bool
		wantLevel zerolog.Level
	}{
		{
			name: "production defaults to info",
			config: &logpkg.LoggerConfig{
				ServiceName: "billing-admin-service",
				Env:         "prod",
				Fields:      map[string]interface{}{"region": "eu"},
			},
			wantLevel: zerolog.InfoLevel,
		},
		{
			name:    "unknown env",
			config:  &logpkg.LoggerConfig{Env: "wrong-env", Level: "debug"},
			wantErr: true,
		},
		{
			name:    "unknown level",
			config:  &logpkg.LoggerConfig{Env: "prod", Level: "loud"},
			wantErr: true,
		},
		{
			name:    "unknown output target",
			config:  &logpkg.LoggerConfig{Env: "prod", OutputTarget: "syslog"},
			wantErr: true,
		},
		{
			name:      "staging warn",
			config:    &logpkg.LoggerConfig{Env: "staging", Level: "warn", Stacktrace: true},
			wantLevel: zerolog.WarnLevel,
		},
		{
			name:      "dev console without debug file",
			config:    &logpkg.LoggerConfig{Env: "dev", Level: "info", TimeFormat: "unix"},
			wantLevel: zerolog.InfoLevel,
		},
		{
			name:      "prod json to stderr",
			config:    &logpkg.LoggerConfig{Env: "prod", Level: "error", OutputTarget: "stderr", TimeFormat: "unix_ms", WithCaller: true},
			wantLevel: zerolog.ErrorLevel,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := logpkg.New(tc.config)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantLevel, zerolog.GlobalLevel())
		})
	}
}

func TestNew_DevDebugMirrorsToFile(t *testing.T) {
	wd, wdErr := os.Getwd()
	require.NoError(t, wdErr)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	_, err := logpkg.New(&logpkg.LoggerConfig{Env: "dev", Level: "debug"})
	require.NoError(t, err)

	_, statErr := os.Stat("logs/debug.log")
	assert.NoError(t, statErr)
}

func TestNew_DefaultsFillConfig(t *testing.T) {
	cfg := &logpkg.LoggerConfig{}
	_, err := logpkg.New(cfg)
	require.NoError(t, err)
	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "ts", cfg.TimeField)
	assert.Equal(t, "billing-admin-service", cfg.ServiceName)
	assert.True(t, cfg.Stacktrace)
}
