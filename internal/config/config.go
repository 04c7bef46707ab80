package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Session store backends
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config holds all configuration for nebula-guide
type Config struct {
	Server        ServerConfig
	Log           LogConfig
	Assets        AssetsConfig
	Questionnaire QuestionnaireConfig
	Sessions      SessionsConfig
	Redis         RedisConfig
	Analytics     AnalyticsConfig
	Notify        NotifyConfig
	Consult       ConsultConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string
	Port           int
	PublicURL      string
	RequestTimeout time.Duration
	AllowedOrigins []string
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level string
}

// AssetsConfig holds the static front end location
type AssetsConfig struct {
	Root  string
	Index string
}

// QuestionnaireConfig holds where the questionnaire definition comes from.
// An empty File uses the built-in definition.
type QuestionnaireConfig struct {
	File     string
	Watch    bool
	Debounce time.Duration
}

// SessionsConfig holds wizard session storage configuration
type SessionsConfig struct {
	Store         string
	IdleTTL       time.Duration
	SweepInterval time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

// AnalyticsConfig holds the tracking event database. An empty DSN disables it.
type AnalyticsConfig struct {
	DSN      string
	MaxConns int
}

// NotifyConfig holds tracking webhook configuration. An empty URL disables that webhook.
type NotifyConfig struct {
	ReportURL  string
	ConsultURL string
	Timeout    time.Duration
}

// ConsultConfig holds the consultation booking form
type ConsultConfig struct {
	FormURL string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           getEnvAsInt("PORT", getEnvAsInt("SERVER_PORT", 8080)),
			PublicURL:      getEnv("PUBLIC_URL", ""),
			RequestTimeout: getEnvAsDuration("REQUEST_TIMEOUT", 30*time.Second),
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Assets: AssetsConfig{
			Root:  getEnv("ASSETS_DIR", "./public"),
			Index: getEnv("ASSETS_INDEX", "index.html"),
		},
		Questionnaire: QuestionnaireConfig{
			File:     getEnv("QUESTIONNAIRE_FILE", ""),
			Watch:    getEnvAsBool("QUESTIONNAIRE_WATCH", false),
			Debounce: getEnvAsDuration("QUESTIONNAIRE_DEBOUNCE", 500*time.Millisecond),
		},
		Sessions: SessionsConfig{
			Store:         getEnv("SESSION_STORE", StoreMemory),
			IdleTTL:       getEnvAsDuration("SESSION_IDLE_TTL", 2*time.Hour),
			SweepInterval: getEnvAsDuration("SESSION_SWEEP_INTERVAL", 5*time.Minute),
		},
		Redis: RedisConfig{
			Address:  getEnv("REDIS_ADDRESS", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Analytics: AnalyticsConfig{
			DSN:      getEnv("ANALYTICS_DSN", ""),
			MaxConns: getEnvAsInt("ANALYTICS_MAX_CONNS", 5),
		},
		Notify: NotifyConfig{
			ReportURL:  getEnv("NOTIFY_REPORT_URL", "https://hook.us2.make.com/osvdwga9wtb365rj4i3v4wxp9lkjpmhy"),
			ConsultURL: getEnv("NOTIFY_CONSULT_URL", "https://hook.us2.make.com/xp2hobtgm7gcrrep16e0zmniox836s7w"),
			Timeout:    getEnvAsDuration("NOTIFY_TIMEOUT", 10*time.Second),
		},
		Consult: ConsultConfig{
			FormURL: getEnv("CONSULT_FORM_URL", "https://www.surveycake.com/s/P8Aza"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.PublicURL != "" {
		if err := checkURL(c.Server.PublicURL); err != nil {
			return fmt.Errorf("invalid public URL: %w", err)
		}
	}

	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}

	if c.Assets.Root == "" {
		return fmt.Errorf("assets directory is required")
	}

	if c.Questionnaire.Watch && c.Questionnaire.File == "" {
		return fmt.Errorf("questionnaire watching requires QUESTIONNAIRE_FILE")
	}

	switch c.Sessions.Store {
	case StoreMemory:
	case StoreRedis:
		if c.Redis.Address == "" {
			return fmt.Errorf("redis address is required for the redis session store")
		}
	default:
		return fmt.Errorf("unknown session store: %q", c.Sessions.Store)
	}

	if c.Sessions.IdleTTL <= 0 {
		return fmt.Errorf("session idle TTL must be positive")
	}

	for name, raw := range map[string]string{
		"report webhook":  c.Notify.ReportURL,
		"consult webhook": c.Notify.ConsultURL,
		"consult form":    c.Consult.FormURL,
	} {
		if raw == "" {
			continue
		}
		if err := checkURL(raw); err != nil {
			return fmt.Errorf("invalid %s URL: %w", name, err)
		}
	}

	return nil
}

// SlogLevel parses the configured log level
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("invalid log level: %q", l.Level)
	}
	return level, nil
}

// Addr returns the listen address
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func checkURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%q is not an http(s) URL", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%q has no host", raw)
	}
	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
