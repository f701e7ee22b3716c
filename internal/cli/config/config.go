// Package config loads chandas settings from chandas.yaml and the
// environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// CHANDAS_SERVER_PORT for server.port.
const EnvPrefix = "CHANDAS"

// Config represents the chandas configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Matcher   MatcherConfig   `mapstructure:"matcher"`
	Catalogue CatalogueConfig `mapstructure:"catalogue"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Generator GeneratorConfig `mapstructure:"generator"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	TLSCert      string        `mapstructure:"tls_cert"`
	TLSKey       string        `mapstructure:"tls_key"`
	// Profiling mounts pprof behind the admin token
	Profiling bool `mapstructure:"profiling"`
}

// Address returns host:port for the listener
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// MatcherConfig holds identification settings
type MatcherConfig struct {
	Threshold float64 `mapstructure:"threshold"`
}

// CatalogueConfig says where meter definitions come from. With a driver
// set the catalogue is read from SQL, otherwise from Path.
type CatalogueConfig struct {
	Path   string `mapstructure:"path"`
	Watch  bool   `mapstructure:"watch"`
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
	Query  string `mapstructure:"query"`
}

// UsesSQL reports whether the catalogue is read from a database
func (c CatalogueConfig) UsesSQL() bool {
	return c.Driver != ""
}

// CacheConfig configures the analysis cache
type CacheConfig struct {
	Backend string        `mapstructure:"backend"`
	TTL     time.Duration `mapstructure:"ttl"`
	Prefix  string        `mapstructure:"prefix"`
	Redis   RedisConfig   `mapstructure:"redis"`
}

// RedisConfig holds the Redis connection shared by the redis cache and
// rate limit backends
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig holds the signing secret for admin tokens. An empty secret
// leaves the reload endpoint open.
type AuthConfig struct {
	Secret   string        `mapstructure:"secret"`
	TokenTTL time.Duration `mapstructure:"token_ttl"`
}

// GeneratorConfig configures the language model used by generate-and-verify
type GeneratorConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	BaseURL     string        `mapstructure:"base_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxAttempts int           `mapstructure:"max_attempts"`
}

// RateLimitConfig throttles generate-and-verify per client IP
type RateLimitConfig struct {
	Backend string        `mapstructure:"backend"`
	Limit   int           `mapstructure:"limit"`
	Window  time.Duration `mapstructure:"window"`
}

// CORSConfig lists origins allowed to call the API
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LogConfig configures the process logger
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// Load loads the configuration from chandas.yaml or chandas.yml in the
// working directory, then applies environment overrides.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("chandas")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// names the deployment already uses
	if err := v.BindEnv("matcher.threshold", EnvPrefix+"_MATCHER_THRESHOLD", "SIMILARITY_THRESHOLD"); err != nil {
		return nil, fmt.Errorf("failed to bind environment: %w", err)
	}
	if err := v.BindEnv("generator.api_key", EnvPrefix+"_GENERATOR_API_KEY", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind environment: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 120*time.Second)
	v.SetDefault("server.tls_cert", "")
	v.SetDefault("server.tls_key", "")
	v.SetDefault("server.profiling", false)

	v.SetDefault("matcher.threshold", 0.65)

	v.SetDefault("catalogue.path", "chandas_db.json")
	v.SetDefault("catalogue.watch", true)
	v.SetDefault("catalogue.driver", "")
	v.SetDefault("catalogue.dsn", "")
	v.SetDefault("catalogue.query", "")

	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.ttl", 10*time.Minute)
	v.SetDefault("cache.prefix", "chandas:")
	v.SetDefault("cache.redis.addr", "localhost:6379")
	v.SetDefault("cache.redis.password", "")
	v.SetDefault("cache.redis.db", 0)

	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.token_ttl", 24*time.Hour)

	v.SetDefault("generator.api_key", "")
	v.SetDefault("generator.model", "gemini-1.5-flash")
	v.SetDefault("generator.base_url", "https://generativelanguage.googleapis.com")
	v.SetDefault("generator.timeout", 30*time.Second)
	v.SetDefault("generator.max_attempts", 5)

	v.SetDefault("ratelimit.backend", "memory")
	v.SetDefault("ratelimit.limit", 10)
	v.SetDefault("ratelimit.window", time.Minute)

	v.SetDefault("cors.allowed_origins", []string{"*"})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if cfg.Matcher.Threshold < 0 || cfg.Matcher.Threshold > 1 {
		return fmt.Errorf("matcher.threshold must be between 0 and 1, got: %v", cfg.Matcher.Threshold)
	}
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got: %d", cfg.Server.Port)
	}
	if (cfg.Server.TLSCert == "") != (cfg.Server.TLSKey == "") {
		return fmt.Errorf("server.tls_cert and server.tls_key must be set together")
	}

	switch cfg.Cache.Backend {
	case "none", "memory", "redis":
	default:
		return fmt.Errorf("cache.backend must be one of none, memory, redis, got: %s", cfg.Cache.Backend)
	}

	switch cfg.Catalogue.Driver {
	case "", "sqlite3", "postgres":
	default:
		return fmt.Errorf("catalogue.driver must be sqlite3 or postgres, got: %s", cfg.Catalogue.Driver)
	}
	if cfg.Catalogue.UsesSQL() && cfg.Catalogue.DSN == "" {
		return fmt.Errorf("catalogue.dsn is required when catalogue.driver is %s", cfg.Catalogue.Driver)
	}
	if !cfg.Catalogue.UsesSQL() && cfg.Catalogue.Path == "" {
		return fmt.Errorf("catalogue.path is required when no catalogue.driver is set")
	}

	switch cfg.RateLimit.Backend {
	case "none":
	case "memory", "redis":
		if cfg.RateLimit.Limit < 1 || cfg.RateLimit.Window <= 0 {
			return fmt.Errorf("ratelimit.limit and ratelimit.window must be positive")
		}
	default:
		return fmt.Errorf("ratelimit.backend must be one of none, memory, redis, got: %s", cfg.RateLimit.Backend)
	}

	if cfg.Generator.MaxAttempts < 1 {
		return fmt.Errorf("generator.max_attempts must be at least 1, got: %d", cfg.Generator.MaxAttempts)
	}
	return nil
}
