package africapayments

import (
	"strings"
	"time"

	"github.com/go-playground/validator"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/env"
)

// Environment selects which API host the client talks to.
type Environment string

const (
	EnvironmentSandbox    Environment = "sandbox"
	EnvironmentProduction Environment = "production"
)

// Region is the target market for payments.
type Region string

const (
	RegionKE Region = "ke" // Kenya
	RegionNG Region = "ng" // Nigeria
	RegionGH Region = "gh" // Ghana
	RegionZA Region = "za" // South Africa
	RegionTZ Region = "tz" // Tanzania
	RegionUG Region = "ug" // Uganda
)

const (
	productionBaseURL = "https://api.africapayments.com"
	sandboxBaseURL    = "https://api.sandbox.africapayments.com"
)

// Config holds client credentials and connection settings. It is immutable
// after construction and safe to share across goroutines.
type Config struct {
	APIKey        string        `koanf:"api_key" validate:"required"`
	Environment   Environment   `koanf:"environment" validate:"required,oneof=sandbox production"`
	Region        Region        `koanf:"region" validate:"required,oneof=ke ng gh za tz ug"`
	BaseURL       string        `koanf:"base_url" validate:"omitempty,url"`
	Timeout       time.Duration `koanf:"timeout" validate:"gt=0"`
	MaxRetries    int           `koanf:"max_retries" validate:"gte=0"`
	WebhookSecret string        `koanf:"webhook_secret"`
}

// ConfigOption overrides a default Config field.
type ConfigOption func(*Config)

func WithEnvironment(e Environment) ConfigOption {
	return func(c *Config) { c.Environment = e }
}

func WithRegion(r Region) ConfigOption {
	return func(c *Config) { c.Region = r }
}

// WithBaseURL overrides the environment-derived API host.
func WithBaseURL(u string) ConfigOption {
	return func(c *Config) { c.BaseURL = u }
}

func WithTimeout(d time.Duration) ConfigOption {
	return func(c *Config) { c.Timeout = d }
}

func WithMaxRetries(n int) ConfigOption {
	return func(c *Config) { c.MaxRetries = n }
}

func WithWebhookSecret(s string) ConfigOption {
	return func(c *Config) { c.WebhookSecret = s }
}

func defaultConfig() *Config {
	return &Config{
		Environment: EnvironmentSandbox,
		Region:      RegionKE,
		Timeout:     30 * time.Second,
		MaxRetries:  3,
	}
}

// NewConfig builds a validated Config. Defaults: sandbox environment,
// region KE, 30s timeout, 3 retries.
func NewConfig(apiKey string, opts ...ConfigOption) (*Config, error) {
	cfg := defaultConfig()
	cfg.APIKey = apiKey
	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ConfigFromEnv loads configuration from AFRICAPAYMENTS_-prefixed environment
// variables (API_KEY, ENVIRONMENT, REGION, BASE_URL, TIMEOUT, MAX_RETRIES,
// WEBHOOK_SECRET), with a .env file honoured when present.
func ConfigFromEnv() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider("AFRICAPAYMENTS_", ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, "AFRICAPAYMENTS_")),
			"__",
			".",
		)
	}), nil)
	if err != nil {
		return nil, newConfigurationError("failed to load environment variables", err)
	}

	cfg := defaultConfig()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, newConfigurationError("could not unmarshal config", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if err := validator.New().Struct(c); err != nil {
		return newConfigurationError("invalid configuration", err)
	}
	return nil
}

// EffectiveBaseURL returns the override when set, otherwise the default host
// for the configured environment.
func (c *Config) EffectiveBaseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	if c.Environment == EnvironmentProduction {
		return productionBaseURL
	}
	return sandboxBaseURL
}

// Headers returns the fixed header set sent on every request.
func (c *Config) Headers() map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + c.APIKey,
		"Content-Type":  "application/json",
		"Accept":        "application/json",
		"X-Region":      string(c.Region),
	}
}
