package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/hcdl/provider-search/pkg/pagination"
)

type Config struct {
	Port                string        `mapstructure:"PORT"`
	Env                 string        `mapstructure:"ENV"`
	LogLevel            string        `mapstructure:"LOG_LEVEL"`
	PractitionerBaseURL string        `mapstructure:"PRACTITIONER_BASE_URL"`
	DirectoryBaseURL    string        `mapstructure:"DIRECTORY_BASE_URL"`
	UpstreamTimeout     time.Duration `mapstructure:"UPSTREAM_TIMEOUT"`
	RequestTimeout      time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	CORSOrigins         []string      `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS        float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst      int           `mapstructure:"RATE_LIMIT_BURST"`
	SessionTTL          time.Duration `mapstructure:"SESSION_TTL"`
	DefaultResultCount  int           `mapstructure:"DEFAULT_RESULT_COUNT"`
}

var keys = []string{
	"PORT",
	"ENV",
	"LOG_LEVEL",
	"PRACTITIONER_BASE_URL",
	"DIRECTORY_BASE_URL",
	"UPSTREAM_TIMEOUT",
	"REQUEST_TIMEOUT",
	"CORS_ORIGINS",
	"RATE_LIMIT_RPS",
	"RATE_LIMIT_BURST",
	"SESSION_TTL",
	"DEFAULT_RESULT_COUNT",
}

// Load reads an optional .env file in the working directory and the process
// environment, environment taking precedence.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("PRACTITIONER_BASE_URL", "https://public.fhir.flex.optum.com/R4")
	v.SetDefault("DIRECTORY_BASE_URL", "https://flex.optum.com/fhirpublic/R4")
	v.SetDefault("UPSTREAM_TIMEOUT", 10*time.Second)
	v.SetDefault("REQUEST_TIMEOUT", 30*time.Second)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_RPS", 20)
	v.SetDefault("RATE_LIMIT_BURST", 40)
	v.SetDefault("SESSION_TTL", 30*time.Minute)
	v.SetDefault("DEFAULT_RESULT_COUNT", pagination.DefaultCount)

	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return nil, fmt.Errorf("bind %s: %w", k, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read .env: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if len(cfg.CORSOrigins) == 1 && strings.Contains(cfg.CORSOrigins[0], ",") {
		cfg.CORSOrigins = strings.Split(cfg.CORSOrigins[0], ",")
	}
	for i, o := range cfg.CORSOrigins {
		cfg.CORSOrigins[i] = strings.TrimSpace(o)
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Level parses LOG_LEVEL; an empty value means info.
func (c *Config) Level() (zerolog.Level, error) {
	if c.LogLevel == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return lvl, nil
}

// Validate checks that the configuration can serve requests.
func (c *Config) Validate() error {
	if err := validateBaseURL("PRACTITIONER_BASE_URL", c.PractitionerBaseURL); err != nil {
		return err
	}
	if err := validateBaseURL("DIRECTORY_BASE_URL", c.DirectoryBaseURL); err != nil {
		return err
	}
	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT must be positive, got %s", c.UpstreamTimeout)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout)
	}
	// A service search makes two sequential upstream calls.
	if c.RequestTimeout <= 2*c.UpstreamTimeout {
		return fmt.Errorf("REQUEST_TIMEOUT (%s) must exceed twice UPSTREAM_TIMEOUT (%s)", c.RequestTimeout, c.UpstreamTimeout)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	if !pagination.IsAllowed(c.DefaultResultCount) {
		return fmt.Errorf("DEFAULT_RESULT_COUNT must be one of %v, got %d", pagination.AllowedCounts, c.DefaultResultCount)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

func validateBaseURL(key, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an absolute http(s) URL, got %q", key, raw)
	}
	return nil
}
