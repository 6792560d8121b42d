package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the server.
type Config struct {
	App      AppConfig
	Mongo    MongoConfig
	Auth     AuthConfig
	Redis    RedisConfig
	Notify   NotifyConfig
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Env             string        `env:"APP_ENV" env-default:"development"`
	Port            string        `env:"PORT" env-default:"4000"`
	CORSOrigins     string        `env:"CORS_ORIGINS" env-default:"*"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// MongoConfig names the cluster plus the databases and collections in use.
type MongoConfig struct {
	URI                string `env:"MONGODB_URI" env-required:"true"`
	FeedbackDB         string `env:"FEEDBACK_DB" env-default:"Ecotrack"`
	FeedbackCollection string `env:"FEEDBACK_COLLECTION" env-default:"feedback"`
	TestDB             string `env:"TEST_DB" env-default:"testdb"`
	TestCollection     string `env:"TEST_COLLECTION" env-default:"testcollection"`
}

// AuthConfig defines bearer token parameters.
type AuthConfig struct {
	Secret   string        `env:"ACCESS_TOKEN_SECRET" env-required:"true"`
	TokenTTL time.Duration `env:"ACCESS_TOKEN_TTL" env-default:"1h"`
}

// RedisConfig enables the cross-instance relay when Addr is set.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" env-default:"0"`
	Channel  string `env:"REDIS_CHANNEL" env-default:"ecotrack:feedback"`
}

// NotifyConfig holds the admin email settings. Email is skipped without an API key.
type NotifyConfig struct {
	ResendAPIKey string `env:"RESEND_API_KEY"`
	FromEmail    string `env:"FROM_EMAIL" env-default:"EcoTrack <noreply@ecotrack.local>"`
	AdminEmail   string `env:"ADMIN_EMAIL"`
}

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	const op = "config.Load"

	// .env is optional, in production the variables are set directly
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if cfg.Auth.TokenTTL <= 0 {
		return nil, fmt.Errorf("%s: ACCESS_TOKEN_TTL must be positive", op)
	}
	return &cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return ":" + a.Port
}

// AllowedOrigins splits CORS_ORIGINS on commas.
func (a AppConfig) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(a.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// IsProduction reports whether APP_ENV is "production".
func (a AppConfig) IsProduction() bool {
	return strings.EqualFold(a.Env, "production")
}

// RelayEnabled reports whether fan-out should go through Redis.
func (r RedisConfig) RelayEnabled() bool {
	return r.Addr != ""
}
