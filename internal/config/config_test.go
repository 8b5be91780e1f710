package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evgeniy-krivenko/notes-query/internal/config"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := config.Parse()
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.App.DefaultLimit)
	assert.Equal(t, 100, cfg.App.MaxLimit)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, ":9090", cfg.MetricsHTTP.Addr)
	assert.Equal(t, config.DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "localhost:5432", cfg.Database.Addr())
	assert.Equal(t, 5*time.Second, cfg.Database.MonitorInterval)
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("APP_DEFAULT_LIMIT", "5")
	t.Setenv("APP_MAX_LIMIT", "0")
	t.Setenv("HTTP_ALLOWED_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", "/tmp/notes.db")
	t.Setenv("GRPC_KEEPALIVE_TIME", "2m")

	cfg, err := config.Parse()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.App.DefaultLimit)
	assert.Zero(t, cfg.App.MaxLimit)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, config.DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "/tmp/notes.db", cfg.Database.Path)
	assert.Equal(t, 2*time.Minute, cfg.GRPC.KeepaliveTime)
}

func TestParseRejectsInvalid(t *testing.T) {
	for _, tc := range []struct {
		name, key, value string
	}{
		{name: "unknown driver", key: "DB_DRIVER", value: "mongodb"},
		{name: "zero default limit", key: "APP_DEFAULT_LIMIT", value: "0"},
		{name: "negative max limit", key: "APP_MAX_LIMIT", value: "-1"},
		{name: "not a number", key: "APP_DEFAULT_LIMIT", value: "ten"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)

			_, err := config.Parse()
			assert.Error(t, err)
		})
	}
}
