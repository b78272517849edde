package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	applog "spendwise/internal/log"
)

// Backend names accepted by DATA_BACKEND.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

var validBackends = []string{BackendMemory, BackendFile, BackendSQLite}

type Config struct {
	// HTTP Server
	Port string
	// Requests per client IP per minute, 0 disables limiting
	RateLimitPerMinute int

	// Storage
	DataBackend  string
	DataDir      string
	SQLiteDBPath string
	SeedDemo     bool

	// AMQP, disabled when AMQPURL is empty
	AMQPURL        string
	AMQPExchange   string
	AMQPRoutingKey string

	// Analytics cache, disabled when CacheSize is 0
	CacheSize int
	CacheTTL  time.Duration

	// Logging
	LogLevel  string
	LogFormat string
}

var defaults = map[string]any{
	"PORT":                  "8081",
	"RATE_LIMIT_PER_MINUTE": 120,
	"DATA_BACKEND":          BackendFile,
	"DATA_DIR":              "./data",
	"SQLITE_DB_PATH":        "./data/spendwise.db",
	"SEED_DEMO":             true,
	"AMQP_URL":              "",
	"AMQP_EXCHANGE":         "spendwise",
	"AMQP_ROUTING_KEY":      "transactions",
	"CACHE_SIZE":            256,
	"CACHE_TTL":             "5m",
	"LOG_LEVEL":             "info",
	"LOG_FORMAT":            "text",
}

// Load reads the configuration from environment variables.
func Load() *Config {
	cfg, _ := LoadFile("")
	return cfg
}

// LoadFile reads the optional config file at path, then lets environment
// variables override it. Keys in the file use the env variable names.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var err error
	if path != "" {
		v.SetConfigFile(path)
		if rerr := v.ReadInConfig(); rerr != nil {
			err = fmt.Errorf("read config file %s: %w", path, rerr)
		}
	}

	return &Config{
		Port:               v.GetString("PORT"),
		RateLimitPerMinute: v.GetInt("RATE_LIMIT_PER_MINUTE"),
		DataBackend:        strings.ToLower(v.GetString("DATA_BACKEND")),
		DataDir:            v.GetString("DATA_DIR"),
		SQLiteDBPath:       v.GetString("SQLITE_DB_PATH"),
		SeedDemo:           v.GetBool("SEED_DEMO"),
		AMQPURL:            v.GetString("AMQP_URL"),
		AMQPExchange:       v.GetString("AMQP_EXCHANGE"),
		AMQPRoutingKey:     v.GetString("AMQP_ROUTING_KEY"),
		CacheSize:          v.GetInt("CACHE_SIZE"),
		CacheTTL:           v.GetDuration("CACHE_TTL"),
		LogLevel:           v.GetString("LOG_LEVEL"),
		LogFormat:          strings.ToLower(v.GetString("LOG_FORMAT")),
	}, err
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.RateLimitPerMinute < 0 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must not be negative", c.RateLimitPerMinute))
	}

	switch c.DataBackend {
	case BackendMemory:
	case BackendFile:
		if c.DataDir == "" {
			errors = append(errors, "data directory cannot be empty when using file backend")
		}
	case BackendSQLite:
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		}
	default:
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPRoutingKey == "" {
			errors = append(errors, "AMQP routing key cannot be empty when AMQP URL is provided")
		}
	}

	if c.CacheSize < 0 {
		errors = append(errors, fmt.Sprintf("invalid cache size %d: must not be negative", c.CacheSize))
	}
	if c.CacheSize > 0 && c.CacheTTL <= 0 {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must be positive", c.CacheTTL))
	}

	if _, err := applog.ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, err.Error())
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be text or json", c.LogFormat))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

// CacheEnabled reports whether analytics results are memoized.
func (c *Config) CacheEnabled() bool {
	return c.CacheSize > 0
}

// RateLimitEnabled reports whether the API limits requests per client.
func (c *Config) RateLimitEnabled() bool {
	return c.RateLimitPerMinute > 0
}

// Addr is the HTTP listen address.
func (c *Config) Addr() string {
	return ":" + c.Port
}
