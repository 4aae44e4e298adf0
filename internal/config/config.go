package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

// Config holds everything the application needs at startup. It is loaded
// once in main and injected into constructors; there is no package-level
// instance.
type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	JWT struct {
		Secret     string `yaml:"secret"`
		TTLMinutes int    `yaml:"ttl_minutes"`
	} `yaml:"jwt"`

	// Iamport payment gateway credentials and endpoint.
	Iamport struct {
		BaseURL        string `yaml:"base_url"`
		Key            string `yaml:"key"`
		Secret         string `yaml:"secret"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"iamport"`

	// Single-plan pricing. Price is in integer currency units (KRW).
	Plan struct {
		Price        int64 `yaml:"price"`
		DurationDays int   `yaml:"duration_days"`
	} `yaml:"plan"`

	Reaper struct {
		IntervalMinutes int `yaml:"interval_minutes"`
	} `yaml:"reaper"`

	Email EmailConfig `yaml:"email"`
}

type EmailConfig struct {
	SMTPHost     string `yaml:"smtp_host"`
	SMTPPort     int    `yaml:"smtp_port"`
	SMTPUsername string `yaml:"smtp_user"`
	SMTPPassword string `yaml:"smtp_password"`
	FromEmail    string `yaml:"from_email"`
	Enabled      bool   `yaml:"enabled"`
}

// Load reads config from config.yaml (path overridable via CONFIG_PATH) or,
// when DATABASE_URL is set, entirely from environment variables. The env
// path is what CI and container deployments use.
func Load() (*Config, error) {
	var cfg Config

	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.Database.DSN = dbURL
		cfg.Server.Host = envOr("SERVER_HOST", "0.0.0.0")
		cfg.Server.Port = envOrInt("SERVER_PORT", 4000)
		cfg.Server.Env = envOr("SERVER_ENV", "production")
		cfg.JWT.Secret = os.Getenv("JWT_SECRET")
		cfg.JWT.TTLMinutes = envOrInt("JWT_TTL_MINUTES", 60)
		cfg.Iamport.BaseURL = envOr("IMP_BASE_URL", "https://api.iamport.kr")
		cfg.Iamport.Key = os.Getenv("IMP_KEY")
		cfg.Iamport.Secret = os.Getenv("IMP_SECRET")
		cfg.Iamport.TimeoutSeconds = envOrInt("IMP_TIMEOUT_SECONDS", 5)
		cfg.Plan.Price = int64(envOrInt("SINGLE_PLAN_PRICE", 4000))
		cfg.Plan.DurationDays = envOrInt("SINGLE_PLAN_DURATION", 30)
		cfg.Reaper.IntervalMinutes = envOrInt("REAPER_INTERVAL_MINUTES", 360)
		cfg.Email.SMTPHost = os.Getenv("SMTP_HOST")
		cfg.Email.SMTPPort = envOrInt("SMTP_PORT", 587)
		cfg.Email.SMTPUsername = os.Getenv("SMTP_USER")
		cfg.Email.SMTPPassword = os.Getenv("SMTP_PASSWORD")
		cfg.Email.FromEmail = envOr("SMTP_FROM", "no-reply@localstorymap.com")
		cfg.Email.Enabled = cfg.Email.SMTPHost != ""
		return &cfg, cfg.validate()
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	f, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("open config file %s: %w", configPath, err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", configPath, err)
	}

	cfg.applyDefaults()
	return &cfg, cfg.validate()
}

func (c *Config) applyDefaults() {
	if c.Iamport.BaseURL == "" {
		c.Iamport.BaseURL = "https://api.iamport.kr"
	}
	if c.Iamport.TimeoutSeconds == 0 {
		c.Iamport.TimeoutSeconds = 5
	}
	if c.Plan.DurationDays == 0 {
		c.Plan.DurationDays = 30
	}
	if c.Reaper.IntervalMinutes == 0 {
		c.Reaper.IntervalMinutes = 360
	}
	if c.JWT.TTLMinutes == 0 {
		c.JWT.TTLMinutes = 60
	}
}

func (c *Config) validate() error {
	if c.Database.DSN == "" {
		return fmt.Errorf("config: database url is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("config: jwt secret is required")
	}
	if c.Iamport.Key == "" || c.Iamport.Secret == "" {
		return fmt.Errorf("config: iamport credentials are required")
	}
	if c.Plan.Price <= 0 {
		return fmt.Errorf("config: plan price must be positive")
	}
	return nil
}

// GatewayTimeout returns the per-request timeout for gateway calls.
func (c *Config) GatewayTimeout() time.Duration {
	return time.Duration(c.Iamport.TimeoutSeconds) * time.Second
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
