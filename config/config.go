package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config Application Configuration
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Order    OrderConfig    `mapstructure:"order"`
	Log      LogConfig      `mapstructure:"log"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Outbox   OutboxConfig   `mapstructure:"outbox"`
	AMQP     AMQPConfig     `mapstructure:"amqp"`
}

// AppConfig Application Configuration
type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
	Env     string `mapstructure:"env"` // development, staging, production
}

// ServerConfig Server Configuration
type ServerConfig struct {
	Port            string          `mapstructure:"port"`
	ReadTimeout     time.Duration   `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration   `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration   `mapstructure:"shutdown_timeout"`
	RateLimit       RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig Rate Limiting Configuration
type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	Rate    float64 `mapstructure:"rate"`  // Requests per second
	Burst   int     `mapstructure:"burst"` // Burst capacity
}

// DatabaseConfig Database Configuration
type DatabaseConfig struct {
	Type                 string        `mapstructure:"type"` // postgres, mysql, memory
	URL                  string        `mapstructure:"url"`
	Host                 string        `mapstructure:"host"`
	Port                 string        `mapstructure:"port"`
	Username             string        `mapstructure:"username"`
	Password             string        `mapstructure:"password"`
	Database             string        `mapstructure:"database"`
	SSLMode              string        `mapstructure:"ssl_mode"`
	MaxOpenConns         int           `mapstructure:"max_open_conns"`
	MaxIdleConns         int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime      time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime      time.Duration `mapstructure:"conn_max_idle_time"`
	ConnectTimeout       time.Duration `mapstructure:"connect_timeout"`
	LogLevel             string        `mapstructure:"log_level"`
	HoldWarningThreshold time.Duration `mapstructure:"hold_warning_threshold"`
	AutoMigrate          bool          `mapstructure:"auto_migrate"`
	Retry                RetryConfig   `mapstructure:"retry"`
}

// RetryConfig Retry configuration for transient transaction failures
type RetryConfig struct {
	Enabled            bool          `mapstructure:"enabled"`
	MaxAttempts        int           `mapstructure:"max_attempts"`
	InitialDelay       time.Duration `mapstructure:"initial_delay"`
	MaxDelay           time.Duration `mapstructure:"max_delay"`
	BackoffFactor      float64       `mapstructure:"backoff_factor"`
	JitterEnabled      bool          `mapstructure:"jitter_enabled"`
	RetryOnDeadlock    bool          `mapstructure:"retry_on_deadlock"`
	RetryOnLockTimeout bool          `mapstructure:"retry_on_lock_timeout"`
	RetryOnSerialize   bool          `mapstructure:"retry_on_serialization_failure"`
}

// AuthConfig Credential configuration. JWTSecret has no default.
type AuthConfig struct {
	JWTSecret  string        `mapstructure:"jwt_secret"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
	BcryptCost int           `mapstructure:"bcrypt_cost"`
	Issuer     string        `mapstructure:"issuer"`
}

// OrderConfig Order placement and lifecycle policy
type OrderConfig struct {
	PricePolicy      string `mapstructure:"price_policy"` // catalog, strict
	StrictLifecycle  bool   `mapstructure:"strict_lifecycle"`
	DefaultListLimit int    `mapstructure:"default_list_limit"`
	AdminListLimit   int    `mapstructure:"admin_list_limit"`
}

// LogConfig Log Configuration
type LogConfig struct {
	Level    string `mapstructure:"level"`  // debug, info, warn, error
	Format   string `mapstructure:"format"` // json, console
	Output   string `mapstructure:"output"` // stdout, file
	FilePath string `mapstructure:"file_path"`
}

// CORSConfig CORS Configuration
type CORSConfig struct {
	AllowOrigins     []string `mapstructure:"allow_origins"`
	AllowMethods     []string `mapstructure:"allow_methods"`
	AllowHeaders     []string `mapstructure:"allow_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// OutboxConfig Outbox relay configuration
type OutboxConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	BatchSize    int           `mapstructure:"batch_size"`
	MaxRetries   int           `mapstructure:"max_retries"`
	Publisher    string        `mapstructure:"publisher"` // log, amqp
}

// AMQPConfig Broker used by the amqp outbox publisher
type AMQPConfig struct {
	URL      string `mapstructure:"url"`
	Exchange string `mapstructure:"exchange"`
}

// IsDevelopment Whether it's development environment
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// IsProduction Whether it's production environment
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		errs = append(errs, errors.New("auth.jwt_secret is required (set JWT_SECRET)"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("auth.token_ttl must be positive"))
	}
	switch c.Database.Type {
	case "postgres", "mysql", "memory":
	default:
		errs = append(errs, fmt.Errorf("database.type %q is not supported", c.Database.Type))
	}
	switch c.Order.PricePolicy {
	case "catalog", "strict":
	default:
		errs = append(errs, fmt.Errorf("order.price_policy %q is not supported", c.Order.PricePolicy))
	}
	if c.Outbox.Enabled {
		switch c.Outbox.Publisher {
		case "log":
		case "amqp":
			if c.AMQP.URL == "" {
				errs = append(errs, errors.New("amqp.url is required when outbox.publisher is amqp"))
			}
		default:
			errs = append(errs, fmt.Errorf("outbox.publisher %q is not supported", c.Outbox.Publisher))
		}
	}
	return errors.Join(errs...)
}

// Load Load Configuration
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("CAMPUSFOOD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindLegacyEnv(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// bindLegacyEnv accepts the unprefixed variable names deployments already set.
func bindLegacyEnv(v *viper.Viper) {
	_ = v.BindEnv("database.url", "CAMPUSFOOD_DATABASE_URL", "DATABASE_URL")
	_ = v.BindEnv("auth.jwt_secret", "CAMPUSFOOD_AUTH_JWT_SECRET", "JWT_SECRET")
	_ = v.BindEnv("server.port", "CAMPUSFOOD_SERVER_PORT", "PORT")
	_ = v.BindEnv("app.env", "CAMPUSFOOD_APP_ENV", "APP_ENV")
}

// setDefaults Set default configuration
func setDefaults(v *viper.Viper) {
	// App
	v.SetDefault("app.name", "campusfood")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.env", "development")

	// Server
	v.SetDefault("server.port", "5000")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.rate_limit.enabled", true)
	v.SetDefault("server.rate_limit.rate", 100)
	v.SetDefault("server.rate_limit.burst", 200)

	// Database
	v.SetDefault("database.type", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.username", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.database", "campus_food")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.conn_max_idle_time", "30s")
	v.SetDefault("database.connect_timeout", "10s")
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("database.hold_warning_threshold", "5s")
	v.SetDefault("database.auto_migrate", false)

	// Transactions are attempted once unless operators opt in.
	v.SetDefault("database.retry.enabled", false)
	v.SetDefault("database.retry.max_attempts", 3)
	v.SetDefault("database.retry.initial_delay", "100ms")
	v.SetDefault("database.retry.max_delay", "2s")
	v.SetDefault("database.retry.backoff_factor", 2.0)
	v.SetDefault("database.retry.jitter_enabled", true)
	v.SetDefault("database.retry.retry_on_deadlock", true)
	v.SetDefault("database.retry.retry_on_lock_timeout", true)
	v.SetDefault("database.retry.retry_on_serialization_failure", true)

	// Auth
	v.SetDefault("auth.token_ttl", "168h")
	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("auth.issuer", "campusfood")

	// Order
	v.SetDefault("order.price_policy", "catalog")
	v.SetDefault("order.strict_lifecycle", false)
	v.SetDefault("order.default_list_limit", 50)
	v.SetDefault("order.admin_list_limit", 100)

	// Log
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.file_path", "logs/app.log")

	// CORS
	v.SetDefault("cors.allow_origins", []string{"http://localhost:3000"})
	v.SetDefault("cors.allow_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allow_headers", []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"})
	v.SetDefault("cors.allow_credentials", true)
	v.SetDefault("cors.max_age", 86400)

	// Outbox
	v.SetDefault("outbox.enabled", false)
	v.SetDefault("outbox.poll_interval", "2s")
	v.SetDefault("outbox.batch_size", 50)
	v.SetDefault("outbox.max_retries", 5)
	v.SetDefault("outbox.publisher", "log")

	// AMQP
	v.SetDefault("amqp.exchange", "campusfood.events")
}
