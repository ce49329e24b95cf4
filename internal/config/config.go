// Package config loads the service configuration from an optional YAML file
// with environment-variable overrides for deployment-specific values.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults for the server configuration.
const (
	DefaultAddr     = ":8080"
	DefaultLogLevel = "info"
	DefaultLogFmt   = "json"
)

// Config holds all service settings.
type Config struct {
	// Addr is the HTTP listen address (default ":8080").
	Addr string `yaml:"addr"`

	// DatabaseURL is the PostgreSQL connection string. Env only
	// (DATABASE_URL); never read from the config file.
	DatabaseURL string `yaml:"-"`

	Log     LogConfig     `yaml:"log"`
	Redis   RedisConfig   `yaml:"redis"`
	Auth    AuthConfig    `yaml:"auth"`
	OIDC    OIDCConfig    `yaml:"oidc"`
	Webhook WebhookConfig `yaml:"webhook"`
	Sim     SimConfig     `yaml:"sim"`
}

// LogConfig controls zap output.
type LogConfig struct {
	// Level is one of: debug | info | warn | error.
	Level string `yaml:"level"`
	// Format is one of: json | console.
	Format string `yaml:"format"`
}

// RedisConfig configures the optional status-summary cache. An empty Addr
// disables the cache entirely.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"-"` // env only (REDIS_PASSWORD)
	DB       int    `yaml:"db"`
}

// AuthConfig controls caregiver authentication on the API.
type AuthConfig struct {
	// Enabled puts the API behind session auth. Off by default so the
	// service behaves like the original open demo deployment.
	Enabled bool `yaml:"enabled"`
}

// OIDCConfig configures optional SSO login for caregivers.
type OIDCConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Issuer      string `yaml:"issuer"`
	ClientID    string `yaml:"client_id"`
	RedirectURL string `yaml:"redirect_url"`
	// ClientSecretEnv names the environment variable holding the secret.
	ClientSecretEnv string `yaml:"client_secret_env"`
}

// ClientSecret returns the OIDC client secret resolved from the environment.
func (o OIDCConfig) ClientSecret() string {
	if o.ClientSecretEnv == "" {
		return ""
	}
	return os.Getenv(o.ClientSecretEnv)
}

// WebhookConfig configures alert webhook delivery.
type WebhookConfig struct {
	// URLEnv names the environment variable that holds the webhook URL.
	// Empty, or an unset variable, disables delivery.
	URLEnv string `yaml:"url_env"`
}

// URL returns the webhook URL resolved from the environment.
func (w WebhookConfig) URL() string {
	if w.URLEnv == "" {
		return ""
	}
	return os.Getenv(w.URLEnv)
}

// SimConfig controls the simulated-data generator.
type SimConfig struct {
	// Seed fixes the generator seed; 0 means seed from the clock.
	Seed int64 `yaml:"seed"`
}

// Load reads the config file at path (skipped when path is empty or the
// file does not exist), applies environment overrides, and validates.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: read %q: %w", path, err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parse yaml: %w", err)
			}
		}
	}

	applyEnv(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Addr: DefaultAddr,
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFmt,
		},
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("ADDR"); v != "" {
		cfg.Addr = v
	}
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

func validate(cfg *Config) error {
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q unknown: want debug|info|warn|error", cfg.Log.Level)
	}
	switch cfg.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format %q unknown: want json|console", cfg.Log.Format)
	}
	if cfg.OIDC.Enabled {
		if cfg.OIDC.Issuer == "" || cfg.OIDC.ClientID == "" || cfg.OIDC.RedirectURL == "" {
			return fmt.Errorf("oidc requires issuer, client_id and redirect_url when enabled")
		}
	}
	return nil
}
