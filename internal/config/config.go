package config

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port             string          `yaml:"port"`
	Debug            bool            `yaml:"debug"`
	DatabaseURL      string          `yaml:"database_url"`
	AuthSecret       string          `yaml:"auth_secret"`
	TrustedProxies   []string        `yaml:"trusted_proxies"`
	ExpiringSoonDays int             `yaml:"expiring_soon_days"`
	RateLimitAPI     RateLimitConfig `yaml:"rate_limit_api"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
	Enabled           bool          `yaml:"enabled"`
	CacheSize         int           `yaml:"cache_size"`
	CacheTTL          time.Duration `yaml:"cache_ttl"`
}

func Load() (Config, error) {
	return LoadFromPath("config.yaml")
}

func LoadFromPath(path string) (Config, error) {
	cfg := NewDefaultConfig()

	f, err := os.Open(path)
	if err == nil {
		defer f.Close()
		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			return cfg, err
		}
	} else if !os.IsNotExist(err) {
		return cfg, err
	}

	cfg.LoadEnv()

	if err := cfg.ensureAuthSecret(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func NewDefaultConfig() Config {
	return Config{
		Port:             "8080",
		Debug:            false,
		ExpiringSoonDays: 30,
		RateLimitAPI: RateLimitConfig{
			RequestsPerSecond: 10,
			Burst:             20,
			Enabled:           true,
			CacheSize:         5000,
			CacheTTL:          1 * time.Hour,
		},
	}
}

func (c *Config) LoadEnv() {
	if envPort := os.Getenv("PORT"); envPort != "" {
		c.Port = envPort
	}
	if envDB := os.Getenv("DATABASE_URL"); envDB != "" {
		c.DatabaseURL = envDB
	}
	if envSecret := os.Getenv("AUTH_SECRET"); envSecret != "" {
		c.AuthSecret = envSecret
	}
}

func (c *Config) ensureAuthSecret() error {
	if c.AuthSecret != "" {
		return nil
	}

	slog.Warn("Auth secret not found, generating a random ephemeral one. THIS SECRET WILL BE LOST ON RESTART.")

	secretBytes := make([]byte, 32)
	if _, err := rand.Read(secretBytes); err != nil {
		return fmt.Errorf("failed to generate auth secret: %w", err)
	}
	c.AuthSecret = base64.StdEncoding.EncodeToString(secretBytes)

	return nil
}
