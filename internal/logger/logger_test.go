package logger_test

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	logpkg "github.com/maxviazov/member-search-service/internal/logger"
)

func TestNew(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })

	tests := []struct {
		name        string
		config      *logpkg.LoggerConfig
		expectError bool
		wantLevel   zerolog.Level
	}{
		{
			name: "production json",
			config: &logpkg.LoggerConfig{
				ServiceName: "test-service",
				Env:         "prod",
				Level:       "info",
				TimeFormat:  "unix",
				Fields:      map[string]interface{}{"key": "value"},
			},
			wantLevel: zerolog.InfoLevel,
		},
		{
			name:        "wrong env",
			config:      &logpkg.LoggerConfig{Env: "wrong-env", Level: "debug"},
			expectError: true,
		},
		{
			name:        "wrong level",
			config:      &logpkg.LoggerConfig{Env: "prod", Level: "loud"},
			expectError: true,
		},
		{
			name:        "wrong output target",
			config:      &logpkg.LoggerConfig{Env: "prod", OutputTarget: "syslog"},
			expectError: true,
		},
		{
			name: "staging warn to stderr",
			config: &logpkg.LoggerConfig{
				Env:          "staging",
				Level:        "warn",
				OutputTarget: "stderr",
				Stacktrace:   true,
			},
			wantLevel: zerolog.WarnLevel,
		},
		{
			name:      "dev console info",
			config:    &logpkg.LoggerConfig{Env: "dev", Level: "info"},
			wantLevel: zerolog.InfoLevel,
		},
		{
			name:      "defaults to prod info",
			config:    &logpkg.LoggerConfig{},
			wantLevel: zerolog.InfoLevel,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := logpkg.New(tc.config)
			if tc.expectError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.wantLevel, zerolog.GlobalLevel())
		})
	}
}

func TestNew_DevDebugWritesFile(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })
	t.Chdir(t.TempDir())

	l, err := logpkg.New(&logpkg.LoggerConfig{Env: "dev", Level: "debug"})
	assert.NoError(t, err)
	l.Debug().Msg("hello")

	_, statErr := os.Stat("logs/debug.log")
	assert.NoError(t, statErr)
}

func TestNew_AppliesDefaults(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })
	t.Chdir(t.TempDir())
	cfg := &logpkg.LoggerConfig{Env: "dev"}
	_, err := logpkg.New(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assert.Equal(t, "debug", cfg.Level)
	assert.Equal(t, "console", cfg.Format)
	assert.True(t, cfg.WithCaller)
	assert.Equal(t, "member-search-service", cfg.ServiceName)
}
