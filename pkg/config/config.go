package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values like "30s" parse
type Duration time.Duration

// UnmarshalYAML accepts either a duration string or integer nanoseconds
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, perr := time.ParseDuration(s)
		if perr != nil {
			return fmt.Errorf("invalid duration %q: %w", s, perr)
		}
		*d = Duration(parsed)
		return nil
	}

	var n int64
	if err := value.Decode(&n); err == nil {
		*d = Duration(n)
		return nil
	}
	return fmt.Errorf("invalid duration: %s", value.Value)
}

// MarshalYAML renders the duration in its string form
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Std returns the wrapped time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// Config represents the main configuration for the nichenav service
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Security  SecurityConfig  `yaml:"security"`
	Provider  ProviderConfig  `yaml:"provider"`
	Billing   BillingConfig   `yaml:"billing"`
	Cache     CacheConfig     `yaml:"cache"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig configures the HTTP server
type ServerConfig struct {
	HTTPPort     int      `yaml:"http_port"`
	ReadTimeout  Duration `yaml:"read_timeout"`
	WriteTimeout Duration `yaml:"write_timeout"`
	IdleTimeout  Duration `yaml:"idle_timeout"`
}

// DatabaseConfig configures PostgreSQL storage
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// SecurityConfig configures authentication and CORS
type SecurityConfig struct {
	JWTSecret      string   `yaml:"jwt_secret"`
	TokenTTL       Duration `yaml:"token_ttl"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// ProviderConfig configures the LLM generation provider.
// Any OpenAI-compatible chat-completions endpoint works.
type ProviderConfig struct {
	Endpoint string   `yaml:"endpoint"`
	APIKey   string   `yaml:"api_key"`
	Model    string   `yaml:"model"`
	Timeout  Duration `yaml:"timeout"`
}

// BillingConfig configures the Stripe integration
type BillingConfig struct {
	SecretKey       string `yaml:"secret_key"`
	WebhookSecret   string `yaml:"webhook_secret"`
	ProPriceID      string `yaml:"pro_price_id"`
	SuccessURL      string `yaml:"success_url"`
	CancelURL       string `yaml:"cancel_url"`
	PortalReturnURL string `yaml:"portal_return_url"`
}

// CacheConfig configures generation response caching
type CacheConfig struct {
	Enabled    bool     `yaml:"enabled"`
	Backend    string   `yaml:"backend"` // "memory" or "redis"
	DefaultTTL Duration `yaml:"default_ttl"`
	MaxSize    int      `yaml:"max_size"`
	RedisURL   string   `yaml:"redis_url,omitempty"`
}

// TelemetryConfig configures OpenTelemetry tracing
type TelemetryConfig struct {
	Enabled      bool   `yaml:"enabled"`
	OTLPEndpoint string `yaml:"otlp_endpoint"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:     8080,
			ReadTimeout:  Duration(30 * time.Second),
			WriteTimeout: Duration(30 * time.Second),
			IdleTimeout:  Duration(120 * time.Second),
		},
		Database: DatabaseConfig{
			DSN: "host=localhost port=5432 user=nichenav password=nichenav dbname=nichenav sslmode=disable",
		},
		Security: SecurityConfig{
			TokenTTL:       Duration(24 * time.Hour),
			AllowedOrigins: []string{"*"},
		},
		Provider: ProviderConfig{
			Endpoint: "https://openrouter.ai/api/v1",
			Model:    "google/gemini-2.0-flash-001",
			Timeout:  Duration(60 * time.Second),
		},
		Billing: BillingConfig{
			ProPriceID: "price_pro_monthly",
		},
		Cache: CacheConfig{
			Enabled:    true,
			Backend:    "memory",
			DefaultTTL: Duration(1 * time.Hour),
			MaxSize:    10000,
		},
		Telemetry: TelemetryConfig{
			Enabled:      false,
			OTLPEndpoint: "otel-collector:4317",
		},
	}
}

// LoadConfigFromFile loads configuration from a YAML file at the given
// path, layered over the defaults. Environment variables referenced in
// the file (e.g. ${STRIPE_SECRET_KEY}) are expanded before parsing.
func LoadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	expanded := os.ExpandEnv(string(data))

	config := DefaultConfig()
	if err := yaml.Unmarshal([]byte(expanded), config); err != nil {
		return nil, err
	}

	config.ApplyEnvOverrides()
	return config, nil
}

// ApplyEnvOverrides lets deployment environments override file values
// without editing the config file.
func (c *Config) ApplyEnvOverrides() {
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		c.Database.DSN = dsn
	}
	if key := os.Getenv("OPENROUTER_API_KEY"); key != "" {
		c.Provider.APIKey = key
	}
	if key := os.Getenv("STRIPE_SECRET_KEY"); key != "" {
		c.Billing.SecretKey = key
	}
	if secret := os.Getenv("STRIPE_WEBHOOK_SECRET"); secret != "" {
		c.Billing.WebhookSecret = secret
	}
	if secret := os.Getenv("NICHENAV_JWT_SECRET"); secret != "" {
		c.Security.JWTSecret = secret
	}
	if addr := os.Getenv("REDIS_URL"); addr != "" {
		c.Cache.RedisURL = addr
		c.Cache.Backend = "redis"
	}
	if endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); endpoint != "" {
		c.Telemetry.OTLPEndpoint = endpoint
		c.Telemetry.Enabled = true
	}
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid http_port: %d", c.Server.HTTPPort)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database dsn is required")
	}
	if c.Cache.Backend != "memory" && c.Cache.Backend != "redis" {
		return fmt.Errorf("unknown cache backend: %s", c.Cache.Backend)
	}
	if c.Cache.Backend == "redis" && c.Cache.RedisURL == "" {
		return fmt.Errorf("redis cache backend requires redis_url")
	}
	return nil
}
