package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Env      string `env:"APP_ENV" envDefault:"development"`
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`
	GinMode  string `env:"GIN_MODE" envDefault:"debug"`

	DB        DBConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Mail      MailConfig
	Telemetry TelemetryConfig

	// FrontendBaseURL is the origin used to build invitation links.
	FrontendBaseURL string `env:"FRONTEND_BASE_URL" envDefault:"http://localhost:3000"`
}

type DBConfig struct {
	Driver   string `env:"DB_DRIVER" envDefault:"mysql"`
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"3306"`
	User     string `env:"DB_USER" envDefault:"orguser"`
	Password string `env:"DB_PASSWORD" envDefault:"orgpassword"`
	Name     string `env:"DB_NAME" envDefault:"org_management"`
	SSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
}

type RedisConfig struct {
	Host     string `env:"REDIS_HOST" envDefault:"localhost"`
	Port     string `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD"`
}

func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}

type AuthConfig struct {
	SessionSecret string        `env:"SESSION_SECRET" envDefault:"default-secret-key-change-me"`
	JWTSecret     string        `env:"JWT_SECRET" envDefault:"default-jwt-secret-change-me"`
	AccessTTL     time.Duration `env:"JWT_ACCESS_TTL" envDefault:"60m"`
	RefreshTTL    time.Duration `env:"JWT_REFRESH_TTL" envDefault:"168h"`
}

type MailConfig struct {
	BaseURL string        `env:"MAILGUN_BASE_URL" envDefault:"https://api.mailgun.net/v3"`
	Domain  string        `env:"MAILGUN_DOMAIN"`
	APIKey  string        `env:"MAILGUN_API_KEY"`
	From    string        `env:"MAILGUN_FROM"`
	Timeout time.Duration `env:"MAIL_TIMEOUT" envDefault:"15s"`
}

// Enabled reports whether enough Mailgun settings are present to send email.
func (m MailConfig) Enabled() bool {
	return m.Domain != "" && m.APIKey != ""
}

type TelemetryConfig struct {
	Endpoint    string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"org-management-api"`
}

func (t TelemetryConfig) Enabled() bool {
	return t.Endpoint != ""
}

func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.GinMode == "release"
}

// Load reads configuration from the environment. In development a .env file
// in the working directory is loaded first if it exists.
func Load() (*Config, error) {
	if getEnvDefault("APP_ENV", "development") == "development" {
		_ = godotenv.Load()
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
