package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "vacation.db", cfg.DBPath)
	assert.Equal(t, 15*time.Second, cfg.ReadTimeout)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 120, cfg.RateLimit)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:8080"}, cfg.AllowedOrigins)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("VACATION_ADDR", ":9090")
	t.Setenv("VACATION_DB_PATH", ":memory:")
	t.Setenv("VACATION_LOG_FORMAT", "console")
	t.Setenv("VACATION_TIMEZONE", "UTC")
	t.Setenv("VACATION_ALLOWED_ORIGINS", "https://rh.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, ":memory:", cfg.DBPath)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.Equal(t, []string{"https://rh.example.com"}, cfg.AllowedOrigins)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoad_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"log format", "VACATION_LOG_FORMAT", "xml"},
		{"timezone", "VACATION_TIMEZONE", "Mars/Olympus"},
		{"rate limit", "VACATION_RATE_LIMIT", "-1"},
		{"duration", "VACATION_READ_TIMEOUT", "soon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
