package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const defaultJWTSecret = "change-me-jwt-secret"

type Config struct {
	AppEnv      string `envconfig:"APP_ENV" default:"dev"`
	Port        string `envconfig:"PORT" default:"8080"`
	GinMode     string `envconfig:"GIN_MODE" default:"debug"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat   string `envconfig:"LOG_FORMAT" default:"json"`
	DatabaseURL string `envconfig:"DATABASE_URL" default:"educenter.db"`

	JWTSecret string        `envconfig:"JWT_SECRET" default:"change-me-jwt-secret"`
	JWTTTL    time.Duration `envconfig:"JWT_TTL" default:"12h"`

	// DefaultTimezone is used when a scheduling request does not name a zone.
	DefaultTimezone string `envconfig:"DEFAULT_TIMEZONE" default:"Asia/Ho_Chi_Minh"`

	OverdueSweepCron string `envconfig:"OVERDUE_SWEEP_CRON" default:"0 * * * *"`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS"`

	// Read from TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN, TWILIO_PHONE_NUMBER.
	Twilio TwilioConfig
}

type TwilioConfig struct {
	AccountSID string `envconfig:"ACCOUNT_SID"`
	AuthToken  string `envconfig:"AUTH_TOKEN"`
	FromNumber string `envconfig:"PHONE_NUMBER"`
}

func (t TwilioConfig) Enabled() bool {
	return t.AccountSID != "" && t.AuthToken != "" && t.FromNumber != ""
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.AppEnv = strings.ToLower(strings.TrimSpace(cfg.AppEnv))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if _, err := time.LoadLocation(c.DefaultTimezone); err != nil {
		return fmt.Errorf("invalid DEFAULT_TIMEZONE %q: %w", c.DefaultTimezone, err)
	}
	if isProdLike(c.AppEnv) {
		if isEmptyOrDefault(c.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
	}
	return nil
}

func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}
