package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("DB_PASSWORD", "postgres")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, StorageDriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.App.CORSAllowedOrigins)
	assert.Equal(t, 2, cfg.Notification.Workers)
	assert.Equal(t, 1000, cfg.Notification.QueueSize)
	assert.Equal(t, "en", cfg.Notification.Locale)
	assert.Empty(t, cfg.Notification.SQSQueueURL)
	assert.Equal(t, time.Hour, cfg.Audit.Interval)

	allotment := cfg.Allotment()
	assert.Equal(t, 10, allotment.Sick)
	assert.Equal(t, 10, allotment.Casual)
	assert.Equal(t, 10, allotment.Earned)

	exp, err := cfg.AccessExpiration()
	require.NoError(t, err)
	assert.Equal(t, time.Hour, exp)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("STORAGE_DRIVER", "MEMORY")
	t.Setenv("APP_TIMEZONE", "Asia/Jakarta")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("LEAVE_DEFAULT_SICK", "12")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StorageDriverMemory, cfg.Storage.Driver)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.App.CORSAllowedOrigins)
	assert.Equal(t, 12, cfg.Allotment().Sick)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Jakarta", loc.String())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing jwt secret", map[string]string{"STORAGE_DRIVER": "memory"}},
		{"missing db password", map[string]string{"JWT_SECRET_KEY": "secret"}},
		{"unknown driver", map[string]string{"JWT_SECRET_KEY": "secret", "STORAGE_DRIVER": "redis"}},
		{"bad port", map[string]string{"JWT_SECRET_KEY": "secret", "STORAGE_DRIVER": "memory", "APP_PORT": "abc"}},
		{"bad timezone", map[string]string{"JWT_SECRET_KEY": "secret", "STORAGE_DRIVER": "memory", "APP_TIMEZONE": "Mars/Base"}},
		{"bad expiration", map[string]string{"JWT_SECRET_KEY": "secret", "STORAGE_DRIVER": "memory", "JWT_ACCESS_EXPIRATION_TIME": "soon"}},
		{"negative allotment", map[string]string{"JWT_SECRET_KEY": "secret", "STORAGE_DRIVER": "memory", "LEAVE_DEFAULT_EARNED": "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET_KEY", "")
			t.Setenv("DB_PASSWORD", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
