package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Response modes for the pixel endpoint. Exactly one mode is active per
// deployment and it applies to every branch of the recorder uniformly.
const (
	ResponseModePixel = "pixel" // 200 + GIF body on every request
	ResponseModeDecoy = "decoy" // 404 + GIF body on every request
)

// Config holds all configuration for the service.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Tracking TrackingConfig `yaml:"tracking"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig holds the PostgreSQL connection settings.
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// RedisConfig holds the optional seen-cache settings.
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	// TTLHours bounds how long a terminal seen marker stays cached.
	TTLHours int `yaml:"ttl_hours"`
}

// TrackingConfig holds recorder and issuer behavior.
type TrackingConfig struct {
	// BaseURL is the externally reachable root of this service, used when
	// building pixel URLs (e.g. "https://open.example.com").
	BaseURL string `yaml:"base_url"`
	// ResponseMode is "pixel" or "decoy"; see the constants above.
	ResponseMode string `yaml:"response_mode"`
	// StoreTimeoutSeconds bounds every store/cache call made while serving
	// an open request. A slow backend must never hang the pixel response.
	StoreTimeoutSeconds int `yaml:"store_timeout_seconds"`
	// AllowedOrigins is the CORS allowlist for the issuer API.
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level     string `yaml:"level"`
	RedactPII *bool  `yaml:"redact_pii"`
}

// StoreTimeout returns the configured store timeout as a duration.
func (t TrackingConfig) StoreTimeout() time.Duration {
	return time.Duration(t.StoreTimeoutSeconds) * time.Second
}

// SeenTTL returns the configured cache TTL as a duration.
func (r RedisConfig) SeenTTL() time.Duration {
	return time.Duration(r.TTLHours) * time.Hour
}

// Load reads and parses the configuration file, applying defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// LoadFromEnv loads the config file (if present) and applies environment
// overrides. A missing file is not an error: everything can come from the
// environment, which is how containerized deploys run.
func LoadFromEnv(path string) (*Config, error) {
	// Load .env if present (ignored in production environments)
	_ = godotenv.Load()

	cfg := &Config{}
	if path != "" {
		if data, err := os.ReadFile(path); err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}

	if host := os.Getenv("SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.Database.URL = dbURL
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
		cfg.Redis.Enabled = true
	}
	if pw := os.Getenv("REDIS_PASSWORD"); pw != "" {
		cfg.Redis.Password = pw
	}
	if base := os.Getenv("TRACKING_BASE_URL"); base != "" {
		cfg.Tracking.BaseURL = base
	}
	if mode := os.Getenv("TRACKING_RESPONSE_MODE"); mode != "" {
		cfg.Tracking.ResponseMode = mode
	}
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		cfg.Log.Level = lvl
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Tracking.ResponseMode == "" {
		c.Tracking.ResponseMode = ResponseModePixel
	}
	if c.Tracking.StoreTimeoutSeconds == 0 {
		c.Tracking.StoreTimeoutSeconds = 3
	}
	if c.Tracking.BaseURL == "" {
		c.Tracking.BaseURL = fmt.Sprintf("http://localhost:%d", c.Server.Port)
	}
	if c.Redis.TTLHours == 0 {
		c.Redis.TTLHours = 24
	}
	if c.Log.Level == "" {
		c.Log.Level = "INFO"
	}
}

// Validate reports deployment misconfiguration. It is called once at startup
// so a bad deploy fails loudly instead of surfacing on the first request.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("database.url is required (set DATABASE_URL)")
	}
	if c.Tracking.ResponseMode != ResponseModePixel && c.Tracking.ResponseMode != ResponseModeDecoy {
		return fmt.Errorf("tracking.response_mode must be %q or %q, got %q",
			ResponseModePixel, ResponseModeDecoy, c.Tracking.ResponseMode)
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required when redis.enabled is true")
	}
	return nil
}
