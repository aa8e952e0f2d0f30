package config

import (
	"fmt"
	"gomarketplace_admin/config/values"
	"gopkg.in/yaml.v3"
	"io"
	"os"
	"time"
)

type CatalogConfig struct {
	ApiURL            string        `yaml:"api_url"`
	ApiKey            string        `yaml:"api_key"`
	JWTSecret         string        `yaml:"jwt_secret"`
	SellerID          string        `yaml:"seller_id"`
	Role              string        `yaml:"role"`
	TokenTTL          time.Duration `yaml:"token_ttl"`
	RequestsPerMinute int           `yaml:"requests_per_minute"`
	Burst             int           `yaml:"burst"`
	Timeout           time.Duration `yaml:"timeout"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

type AppConfig struct {
	Catalog  CatalogConfig      `yaml:"catalog"`
	Form     values.FormValues  `yaml:"form"`
	Cache    values.CacheValues `yaml:"cache"`
	Postgres PostgresConfig     `yaml:"postgres"`
	Redis    RedisConfig        `yaml:"redis"`
	Metrics  MetricsConfig      `yaml:"metrics"`
}

// LoadConfig читает YAML-файл и накладывает поверх переменные окружения.
// Пустое имя файла означает конфигурацию только из окружения.
func LoadConfig(filename string) (*AppConfig, error) {
	config := &AppConfig{}
	if filename != "" {
		file, err := os.Open(filename)
		if err != nil {
			return nil, err
		}
		defer file.Close()

		if err := decode(file, config); err != nil {
			return nil, fmt.Errorf("failed to decode config %s: %w", filename, err)
		}
	}

	config.applyEnv()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func decode(r io.Reader, config *AppConfig) error {
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(config); err != nil && err != io.EOF {
		return err
	}
	return nil
}

func (c *AppConfig) applyEnv() {
	c.Catalog.ApiURL = getEnv("CATALOG_API_URL", defaultString(c.Catalog.ApiURL, "http://localhost:8081"))
	c.Catalog.ApiKey = getEnv("CATALOG_API_KEY", c.Catalog.ApiKey)
	c.Catalog.JWTSecret = getEnv("CATALOG_JWT_SECRET", c.Catalog.JWTSecret)
	c.Catalog.SellerID = getEnv("CATALOG_SELLER_ID", c.Catalog.SellerID)
	c.Catalog.Role = getEnv("CATALOG_ROLE", defaultString(c.Catalog.Role, "admin"))
	c.Catalog.TokenTTL = getEnvDuration("CATALOG_TOKEN_TTL", defaultDuration(c.Catalog.TokenTTL, 15*time.Minute))
	c.Catalog.RequestsPerMinute = getEnvInt("CATALOG_RPM", defaultInt(c.Catalog.RequestsPerMinute, 60))
	c.Catalog.Burst = getEnvInt("CATALOG_BURST", defaultInt(c.Catalog.Burst, 5))
	c.Catalog.Timeout = getEnvDuration("CATALOG_TIMEOUT", defaultDuration(c.Catalog.Timeout, 60*time.Second))

	c.Postgres.applyEnv()

	c.Redis.Addr = getEnv("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = getEnv("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = getEnvInt("REDIS_DB", c.Redis.DB)

	c.Metrics.Textfile = getEnv("METRICS_TEXTFILE", c.Metrics.Textfile)

	c.Form.ApplyDefaults()
	c.Cache.ApplyDefaults()
}

func (c *AppConfig) Validate() error {
	if c.Catalog.ApiURL == "" {
		return fmt.Errorf("catalog.api_url is required")
	}
	if c.Catalog.ApiKey == "" && c.Catalog.JWTSecret == "" {
		return fmt.Errorf("either catalog.api_key or catalog.jwt_secret must be set")
	}
	if c.Catalog.RequestsPerMinute <= 0 {
		return fmt.Errorf("catalog.requests_per_minute must be positive, got %d", c.Catalog.RequestsPerMinute)
	}
	return nil
}

func defaultInt(value, fallback int) int {
	if value == 0 {
		return fallback
	}
	return value
}

func defaultDuration(value, fallback time.Duration) time.Duration {
	if value == 0 {
		return fallback
	}
	return value
}
