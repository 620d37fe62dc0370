package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	DatabaseURL            string        `mapstructure:"DATABASE_URL"`
	JWTSecret              string        `mapstructure:"JWT_SECRET"`
	Port                   string        `mapstructure:"PORT"`
	PublicURL              string        `mapstructure:"PUBLIC_URL"`
	SteamAPIKey            string        `mapstructure:"STEAM_API_KEY"`
	SteamHTTPTimeout       time.Duration `mapstructure:"STEAM_HTTP_TIMEOUT"`
	SessionTTL             time.Duration `mapstructure:"SESSION_TTL"`
	CookieSecure           bool          `mapstructure:"COOKIE_SECURE"`
	CORSAllowedOrigins     string        `mapstructure:"CORS_ALLOWED_ORIGINS"`
	CatalogRefreshSchedule string        `mapstructure:"CATALOG_REFRESH_SCHEDULE"`
	AutoMigrate            bool          `mapstructure:"AUTO_MIGRATE"`
	GinMode                string        `mapstructure:"GIN_MODE"`
}

var defaults = map[string]any{
	"DATABASE_URL":             "",
	"JWT_SECRET":               "",
	"PORT":                     "8080",
	"PUBLIC_URL":               "http://localhost:8080",
	"STEAM_API_KEY":            "",
	"STEAM_HTTP_TIMEOUT":       "10s",
	"SESSION_TTL":              "168h",
	"COOKIE_SECURE":            false,
	"CORS_ALLOWED_ORIGINS":     "https://store.steampowered.com",
	"CATALOG_REFRESH_SCHEDULE": "",
	"AUTO_MIGRATE":             true,
	"GIN_MODE":                 "release",
}

// Load reads an optional .env file from dir and overlays environment variables.
// Every key is registered as a default so viper's AutomaticEnv picks it up on Unmarshal.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.PublicURL = strings.TrimRight(cfg.PublicURL, "/")

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	return nil
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS on commas.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
