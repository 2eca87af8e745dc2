// Package config loads crawler settings from .env, an optional YAML file and
// environment variables, in that order of precedence (env wins).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPath      = "config.yml"
	DefaultBaseURL   = "https://data.etagmb.gov.hk"
	DefaultSchedule  = "0 0 * * *"
	DefaultTimezone  = "Asia/Hong_Kong"
	DefaultBudget    = 540 * time.Second
	DefaultFanOut    = 16
	DefaultPort      = "8080"
	DefaultJWTTTL    = 12 * time.Hour
	devJWTSecret     = "dev-secret-change-me-dev-secret-change-me"
	minJWTSecretSize = 32
)

// Config is the full runtime configuration.
type Config struct {
	Env      string   `yaml:"env"`
	Source   Source   `yaml:"source"`
	Store    Store    `yaml:"store"`
	Schedule Schedule `yaml:"schedule"`
	Server   Server   `yaml:"server"`
}

// Source configures the upstream GMB API client and the crawl fan-out.
type Source struct {
	BaseURL       string        `yaml:"base_url" validate:"required,url"`
	Timeout       time.Duration `yaml:"timeout" validate:"gt=0"`
	FanOutLimit   int           `yaml:"fanout_limit" validate:"gte=1,lte=256"`
	CoordCacheTTL time.Duration `yaml:"coord_cache_ttl" validate:"gte=0"`
}

// Store selects the document store backend.
type Store struct {
	Driver     string `yaml:"driver" validate:"oneof=mysql memory"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	Host       string `yaml:"host"`
	Port       string `yaml:"port" validate:"omitempty,numeric"`
	Name       string `yaml:"name" validate:"required_if=Driver mysql"`
	SkipSchema bool   `yaml:"skip_schema"`
}

// Schedule configures the daily trigger.
type Schedule struct {
	Cron     string        `yaml:"cron" validate:"required"`
	Timezone string        `yaml:"timezone" validate:"required"`
	Budget   time.Duration `yaml:"budget" validate:"gt=0"`
	OnStart  bool          `yaml:"on_start"`
}

// Server configures the ops HTTP surface.
type Server struct {
	Port              string        `yaml:"port" validate:"required,numeric"`
	JWTSecret         string        `yaml:"jwt_secret"`
	JWTTTL            time.Duration `yaml:"jwt_ttl" validate:"gt=0"`
	AdminPasswordHash string        `yaml:"admin_password_hash"`
	DebugDashboard    bool          `yaml:"debug_dashboard"`
}

// Production reports whether ENV is "production".
func (c *Config) Production() bool {
	return strings.EqualFold(c.Env, "production")
}

// Load reads .env (if present), then the YAML file at path (if present), then
// environment overrides, fills defaults and validates the result.
// An empty path means CRAWLER_CONFIG or config.yml.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	if path == "" {
		path = os.Getenv("CRAWLER_CONFIG")
	}
	if path == "" {
		path = DefaultPath
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
		// env only
	default:
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks struct tags and the JWT secret rules.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := time.LoadLocation(c.Schedule.Timezone); err != nil {
		return fmt.Errorf("config: timezone %q: %w", c.Schedule.Timezone, err)
	}

	if c.Server.JWTSecret == "" {
		if c.Production() {
			return errors.New("config: JWT_SECRET must be set in production")
		}
		log.Println("⚠️ WARNING: Using default JWT secret (development only)")
		c.Server.JWTSecret = devJWTSecret
	}
	if len(c.Server.JWTSecret) < minJWTSecretSize {
		return fmt.Errorf("config: JWT_SECRET must be at least %d characters long (current: %d)", minJWTSecretSize, len(c.Server.JWTSecret))
	}
	return nil
}

func applyDefaults(c *Config) {
	if c.Env == "" {
		c.Env = "development"
	}
	if c.Source.BaseURL == "" {
		c.Source.BaseURL = DefaultBaseURL
	}
	if c.Source.Timeout == 0 {
		c.Source.Timeout = DefaultBudget
	}
	if c.Source.FanOutLimit == 0 {
		c.Source.FanOutLimit = DefaultFanOut
	}
	if c.Store.Driver == "" {
		c.Store.Driver = "mysql"
	}
	if c.Store.Host == "" {
		c.Store.Host = "127.0.0.1"
	}
	if c.Store.Port == "" {
		c.Store.Port = "3306"
	}
	if c.Schedule.Cron == "" {
		c.Schedule.Cron = DefaultSchedule
	}
	if c.Schedule.Timezone == "" {
		c.Schedule.Timezone = DefaultTimezone
	}
	if c.Schedule.Budget == 0 {
		c.Schedule.Budget = DefaultBudget
	}
	if c.Server.Port == "" {
		c.Server.Port = DefaultPort
	}
	if c.Server.JWTTTL == 0 {
		c.Server.JWTTTL = DefaultJWTTTL
	}
}

func applyEnv(c *Config) error {
	setString(&c.Env, "ENV")
	setString(&c.Source.BaseURL, "GMB_BASE_URL")
	setString(&c.Store.Driver, "STORE_DRIVER")
	setString(&c.Store.User, "DB_USER")
	setString(&c.Store.Password, "DB_PASS")
	setString(&c.Store.Host, "DB_HOST")
	setString(&c.Store.Port, "DB_PORT")
	setString(&c.Store.Name, "DB_NAME")
	setString(&c.Schedule.Cron, "CRAWL_SCHEDULE")
	setString(&c.Schedule.Timezone, "CRAWL_TIMEZONE")
	setString(&c.Server.Port, "PORT")
	setString(&c.Server.JWTSecret, "JWT_SECRET")
	setString(&c.Server.AdminPasswordHash, "ADMIN_PASSWORD_HASH")

	for _, d := range []struct {
		dst *time.Duration
		key string
	}{
		{&c.Source.Timeout, "GMB_HTTP_TIMEOUT"},
		{&c.Source.CoordCacheTTL, "GMB_COORD_CACHE_TTL"},
		{&c.Schedule.Budget, "CRAWL_BUDGET"},
		{&c.Server.JWTTTL, "JWT_TTL"},
	} {
		if err := setDuration(d.dst, d.key); err != nil {
			return err
		}
	}

	for _, b := range []struct {
		dst *bool
		key string
	}{
		{&c.Store.SkipSchema, "DB_SKIP_SCHEMA"},
		{&c.Schedule.OnStart, "CRAWL_ON_START"},
		{&c.Server.DebugDashboard, "DEBUG_DASHBOARD"},
	} {
		if err := setBool(b.dst, b.key); err != nil {
			return err
		}
	}

	if v := strings.TrimSpace(os.Getenv("GMB_FANOUT_LIMIT")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: GMB_FANOUT_LIMIT=%q: %w", v, err)
		}
		c.Source.FanOutLimit = n
	}
	return nil
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("config: %s=%q: %w", key, v, err)
	}
	*dst = d
	return nil
}

// setBool accepts the forms strconv.ParseBool does ("1", "true", "TRUE", ...).
func setBool(dst *bool, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("config: %s=%q: %w", key, v, err)
	}
	*dst = b
	return nil
}
