package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, StoreMemory, cfg.Sessions.Store)
	assert.Equal(t, 2*time.Hour, cfg.Sessions.IdleTTL)
	assert.Equal(t, "./public", cfg.Assets.Root)
	assert.Equal(t, "index.html", cfg.Assets.Index)
	assert.Empty(t, cfg.Questionnaire.File)
	assert.Empty(t, cfg.Analytics.DSN)
	assert.Equal(t, "https://www.surveycake.com/s/P8Aza", cfg.Consult.FormURL)
	assert.NotEmpty(t, cfg.Notify.ReportURL)
	assert.Equal(t, 10*time.Second, cfg.Notify.Timeout)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("REDIS_ADDRESS", "cache:6379")
	t.Setenv("SESSION_IDLE_TTL", "45m")
	t.Setenv("QUESTIONNAIRE_FILE", "/etc/nebula/questionnaire.yaml")
	t.Setenv("QUESTIONNAIRE_WATCH", "true")
	t.Setenv("NOTIFY_REPORT_URL", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, StoreRedis, cfg.Sessions.Store)
	assert.Equal(t, "cache:6379", cfg.Redis.Address)
	assert.Equal(t, 45*time.Minute, cfg.Sessions.IdleTTL)
	assert.True(t, cfg.Questionnaire.Watch)
	assert.Empty(t, cfg.Notify.ReportURL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)

	level, err := cfg.Log.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestMalformedNumbersFallBackToDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "eighty")
	t.Setenv("SESSION_SWEEP_INTERVAL", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5*time.Minute, cfg.Sessions.SweepInterval)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Host: "0.0.0.0", Port: 8080},
			Log:      LogConfig{Level: "info"},
			Assets:   AssetsConfig{Root: "./public"},
			Sessions: SessionsConfig{Store: StoreMemory, IdleTTL: time.Hour},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "invalid server port"},
		{"relative public url", func(c *Config) { c.Server.PublicURL = "/guide" }, "invalid public URL"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "invalid log level"},
		{"no assets", func(c *Config) { c.Assets.Root = "" }, "assets directory"},
		{"watch without file", func(c *Config) { c.Questionnaire.Watch = true }, "requires QUESTIONNAIRE_FILE"},
		{"unknown store", func(c *Config) { c.Sessions.Store = "disk" }, "unknown session store"},
		{"redis without address", func(c *Config) { c.Sessions.Store = StoreRedis }, "redis address"},
		{"zero ttl", func(c *Config) { c.Sessions.IdleTTL = 0 }, "idle TTL"},
		{"bad webhook", func(c *Config) { c.Notify.ReportURL = "ftp://hooks" }, "report webhook"},
		{"bad form", func(c *Config) { c.Consult.FormURL = "https://" }, "consult form"},
	}

	require.NoError(t, valid().Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
