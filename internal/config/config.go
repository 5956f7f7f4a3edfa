package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	App      AppConfig      `yaml:"app"`
	Logging  LoggingConfig  `yaml:"logging"`
	Cache    CacheConfig    `yaml:"cache"`
	Scraping ScrapingConfig `yaml:"scraping"`
}

type AppConfig struct {
	Name            string        `yaml:"name" validate:"required"`
	Env             string        `yaml:"env"`
	Port            int           `yaml:"port" validate:"min=1,max=65535"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gt=0"`
}

type LoggingConfig struct {
	Level  string       `yaml:"level" validate:"oneof=debug info warn warning error"`
	JSON   bool         `yaml:"json"`
	Color  bool         `yaml:"color"`
	Fluent FluentConfig `yaml:"fluent"`
}

type FluentConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host" validate:"required_if=Enabled true"`
	Port    int    `yaml:"port" validate:"min=0,max=65535"`
	Level   string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
}

// CacheConfig controls the response cache in front of the search route.
type CacheConfig struct {
	Enabled       bool          `yaml:"enabled"`
	TTL           time.Duration `yaml:"ttl" validate:"gt=0"`
	KeyPrefix     string        `yaml:"key_prefix"`
	RedisAddr     string        `yaml:"redis_addr" validate:"required_if=Enabled true"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db" validate:"min=0"`
}

type ScrapingConfig struct {
	Mbl MblConfig `yaml:"mbl"`
}

type MblConfig struct {
	BaseURL      string        `yaml:"base_url" validate:"required,url"`
	Route        string        `yaml:"route" validate:"required,startswith=/"`
	UserAgent    string        `yaml:"user_agent"`
	Timeout      time.Duration `yaml:"timeout" validate:"gt=0"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" validate:"gt=0"`
}

// Default returns the configuration used when no file or variable overrides it.
func Default() *Config {
	return &Config{
		App: AppConfig{
			Name:            "fasteignir-search",
			Env:             "development",
			Port:            8080,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
			Color: true,
			Fluent: FluentConfig{
				Port:  24224,
				Level: "info",
			},
		},
		Cache: CacheConfig{
			TTL:       30 * time.Minute,
			KeyPrefix: "fasteignir:",
			RedisAddr: "localhost:6379",
		},
		Scraping: ScrapingConfig{
			Mbl: MblConfig{
				BaseURL:      "http://www.mbl.is/fasteignir",
				Route:        "/properties/mbl",
				Timeout:      10 * time.Second,
				MaxBodyBytes: 10 << 20,
			},
		},
	}
}

var validate = validator.New()

// LoadConfig layers configs/app.yaml and configs/scraping.yaml from dir over
// the defaults, then .env and the process environment. Missing files are
// skipped; anything unreadable or invalid is an error.
func LoadConfig(dir string) (*Config, error) {
	cfg := Default()

	if err := readYAML(filepath.Join(dir, "app.yaml"), cfg); err != nil {
		return nil, err
	}
	if err := readYAML(filepath.Join(dir, "scraping.yaml"), &cfg.Scraping); err != nil {
		return nil, err
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config: invalid configuration: %w", err)
	}
	return cfg, nil
}

func readYAML(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString("APP_NAME", &cfg.App.Name)
	setString("APP_ENV", &cfg.App.Env)
	setString("LOG_LEVEL", &cfg.Logging.Level)
	setString("MBL_BASE_URL", &cfg.Scraping.Mbl.BaseURL)
	setString("MBL_ROUTE", &cfg.Scraping.Mbl.Route)
	setString("MBL_USER_AGENT", &cfg.Scraping.Mbl.UserAgent)
	setString("REDIS_ADDR", &cfg.Cache.RedisAddr)
	setString("REDIS_PASSWORD", &cfg.Cache.RedisPassword)
	setString("FLUENTBIT_HOST", &cfg.Logging.Fluent.Host)
	setString("FLUENTBIT_LOG_LEVEL", &cfg.Logging.Fluent.Level)

	return errors.Join(
		setInt("PORT", &cfg.App.Port),
		setInt("REDIS_DB", &cfg.Cache.RedisDB),
		setInt("FLUENTBIT_PORT", &cfg.Logging.Fluent.Port),
		setBool("LOG_JSON", &cfg.Logging.JSON),
		setBool("CACHE_ENABLED", &cfg.Cache.Enabled),
		setBool("FLUENTBIT_ENABLED", &cfg.Logging.Fluent.Enabled),
		setDuration("MBL_TIMEOUT", &cfg.Scraping.Mbl.Timeout),
		setDuration("CACHE_TTL", &cfg.Cache.TTL),
	)
}

func setString(key string, dst *string) {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		*dst = value
	}
}

func setInt(key string, dst *int) error {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("config: %s=%q is not an integer", key, value)
	}
	*dst = n
	return nil
}

func setBool(key string, dst *bool) error {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("config: %s=%q is not a boolean", key, value)
	}
	*dst = b
	return nil
}

func setDuration(key string, dst *time.Duration) error {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("config: %s=%q is not a duration", key, value)
	}
	*dst = d
	return nil
}
