// Package config loads service configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the analytics service.
type Config struct {
	Service       ServiceConfig       `yaml:"service"`
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch"`
	Database      DatabaseConfig      `yaml:"database"`
	Redis         RedisConfig         `yaml:"redis"`
	Analytics     AnalyticsConfig     `yaml:"analytics"`
	Logging       LoggingConfig       `yaml:"logging"`
	CORS          CORSConfig          `yaml:"cors"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name          string        `yaml:"name"`
	Version       string        `yaml:"version"`
	Port          int           `yaml:"port" env:"ANALYTICS_PORT"`
	Debug         bool          `yaml:"debug" env:"ANALYTICS_DEBUG"`
	SearchTimeout time.Duration `yaml:"search_timeout"`
}

// ElasticsearchConfig holds Elasticsearch connection configuration.
type ElasticsearchConfig struct {
	URL               string        `yaml:"url" env:"ELASTICSEARCH_URL"`
	Username          string        `yaml:"username" env:"ELASTICSEARCH_USERNAME"`
	Password          string        `yaml:"password" env:"ELASTICSEARCH_PASSWORD"`
	MaxRetries        int           `yaml:"max_retries"`
	Timeout           time.Duration `yaml:"timeout"`
	PostsIndexPattern string        `yaml:"posts_index_pattern" env:"ELASTICSEARCH_POSTS_PATTERN"`
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host     string `yaml:"host" env:"DB_HOST"`
	Port     string `yaml:"port" env:"DB_PORT"`
	User     string `yaml:"user" env:"DB_USER"`
	Password string `yaml:"password" env:"DB_PASSWORD"`
	DBName   string `yaml:"dbname" env:"DB_NAME"`
	SSLMode  string `yaml:"sslmode" env:"DB_SSLMODE"`
}

// RedisConfig holds Redis cache configuration.
type RedisConfig struct {
	Enabled     bool          `yaml:"enabled" env:"REDIS_ENABLED"`
	Addr        string        `yaml:"addr" env:"REDIS_ADDR"`
	Password    string        `yaml:"password" env:"REDIS_PASSWORD"`
	TaxonomyTTL time.Duration `yaml:"taxonomy_ttl"`
}

// AnalyticsConfig holds pipeline tuning knobs.
type AnalyticsConfig struct {
	// IndexCap is the maximum number of hits a single search may request.
	IndexCap int `yaml:"index_cap"`
	// KeywordSampleSize bounds the per-keyword post sample in breakdown views.
	KeywordSampleSize int `yaml:"keyword_sample_size"`
	// FanoutLimit caps concurrent index requests within one response.
	FanoutLimit int `yaml:"fanout_limit"`
	// DefaultRangeDays is the trailing window used when no date range is given.
	DefaultRangeDays int `yaml:"default_range_days"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`
	Format string `yaml:"format" env:"LOG_FORMAT"`
}

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	Enabled          bool     `yaml:"enabled"`
	AllowedOrigins   []string `yaml:"allowed_origins" env:"CORS_ORIGINS"`
	AllowedMethods   []string `yaml:"allowed_methods"`
	AllowedHeaders   []string `yaml:"allowed_headers"`
	AllowCredentials bool     `yaml:"allow_credentials"`
	MaxAge           int      `yaml:"max_age"`
}

// GetConfigPath returns the config file path, honoring CONFIG_PATH.
func GetConfigPath(fallback string) string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return fallback
}

// Load reads the YAML config file, applies defaults and env overrides, and
// validates the result. A missing config file is not fatal: defaults plus
// environment variables are enough to run.
func Load(path string) (*Config, error) {
	// .env files are loaded first so env overrides see them (non-fatal when absent).
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err == nil {
		if unmarshalErr := yaml.Unmarshal(data, cfg); unmarshalErr != nil {
			return nil, fmt.Errorf("parse config: %w", unmarshalErr)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	setDefaults(cfg)
	applyEnvOverrides(cfg)

	if validateErr := cfg.Validate(); validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return cfg, nil
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	if cfg.Service.Name == "" {
		cfg.Service.Name = "pulse-analytics"
	}
	if cfg.Service.Version == "" {
		cfg.Service.Version = "1.0.0"
	}
	if cfg.Service.Port == 0 {
		cfg.Service.Port = 8094
	}
	if cfg.Service.SearchTimeout == 0 {
		cfg.Service.SearchTimeout = 10 * time.Second
	}

	if cfg.Elasticsearch.URL == "" {
		cfg.Elasticsearch.URL = "http://localhost:9200"
	}
	if cfg.Elasticsearch.MaxRetries == 0 {
		cfg.Elasticsearch.MaxRetries = 3
	}
	if cfg.Elasticsearch.Timeout == 0 {
		cfg.Elasticsearch.Timeout = 30 * time.Second
	}
	if cfg.Elasticsearch.PostsIndexPattern == "" {
		cfg.Elasticsearch.PostsIndexPattern = "social_posts_*"
	}

	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == "" {
		cfg.Database.Port = "5432"
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "pulse"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}

	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Redis.TaxonomyTTL == 0 {
		cfg.Redis.TaxonomyTTL = 5 * time.Minute
	}

	if cfg.Analytics.IndexCap == 0 {
		cfg.Analytics.IndexCap = 10000
	}
	if cfg.Analytics.KeywordSampleSize == 0 {
		cfg.Analytics.KeywordSampleSize = 10
	}
	if cfg.Analytics.FanoutLimit == 0 {
		cfg.Analytics.FanoutLimit = 8
	}
	if cfg.Analytics.DefaultRangeDays == 0 {
		cfg.Analytics.DefaultRangeDays = 90
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if len(cfg.CORS.AllowedOrigins) == 0 {
		cfg.CORS.AllowedOrigins = []string{"*"}
	}
	if len(cfg.CORS.AllowedMethods) == 0 {
		cfg.CORS.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(cfg.CORS.AllowedHeaders) == 0 {
		cfg.CORS.AllowedHeaders = []string{"Content-Type", "Authorization"}
	}
}

// applyEnvOverrides applies environment variable overrides. Env always wins.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ANALYTICS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Service.Port = port
		}
	}
	if v := os.Getenv("ANALYTICS_DEBUG"); v != "" {
		cfg.Service.Debug = v == "true" || v == "1"
	}
	if v := os.Getenv("ELASTICSEARCH_URL"); v != "" {
		cfg.Elasticsearch.URL = v
	}
	if v := os.Getenv("ELASTICSEARCH_USERNAME"); v != "" {
		cfg.Elasticsearch.Username = v
	}
	if v := os.Getenv("ELASTICSEARCH_PASSWORD"); v != "" {
		cfg.Elasticsearch.Password = v
	}
	if v := os.Getenv("ELASTICSEARCH_POSTS_PATTERN"); v != "" {
		cfg.Elasticsearch.PostsIndexPattern = v
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		cfg.Database.Port = v
	}
	if v := os.Getenv("DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		cfg.Database.DBName = v
	}
	if v := os.Getenv("DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("REDIS_ENABLED"); v != "" {
		cfg.Redis.Enabled = v == "true" || v == "1"
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Service.Port < 1 || c.Service.Port > 65535 {
		return fmt.Errorf("service.port: invalid port %d", c.Service.Port)
	}
	if c.Elasticsearch.URL == "" {
		return fmt.Errorf("elasticsearch.url: is required")
	}
	if c.Elasticsearch.PostsIndexPattern == "" {
		return fmt.Errorf("elasticsearch.posts_index_pattern: is required")
	}
	if c.Analytics.IndexCap < 1 {
		return fmt.Errorf("analytics.index_cap: must be greater than 0")
	}
	if c.Analytics.KeywordSampleSize < 1 {
		return fmt.Errorf("analytics.keyword_sample_size: must be greater than 0")
	}
	if c.Analytics.FanoutLimit < 1 {
		return fmt.Errorf("analytics.fanout_limit: must be greater than 0")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error", "fatal":
	default:
		return fmt.Errorf("logging.level: unknown level %q", c.Logging.Level)
	}
	return nil
}
