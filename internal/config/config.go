package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type (
	// Config holds configuration settings for the mock API service
	Config struct {
		// API Server
		APIHost  string
		APIPort  int
		LogLevel string

		// Mock routing
		BypassPolicy  string
		ResponseDelay time.Duration

		// Preferences & Locales
		Settings        SettingsConfig
		DefaultLanguage string
		LocaleBucketURL string
		LocalePrefix    string

		ShutdownTimeout time.Duration
	}

	// SettingsConfig selects and configures the preference store backend
	SettingsConfig struct {
		Backend  string
		Addr     string
		Password string
		DB       int
		Prefix   string
	}
)

const (
	BypassPolicyBypass = "bypass"
	BypassPolicyWarn   = "warn"
	BypassPolicyError  = "error"

	SettingsBackendMemory = "memory"
	SettingsBackendRedis  = "redis"
)

const (
	DefaultShutdownTimeout = 10 * time.Second

	DefaultAPIPort = 3000
	DefaultAPIHost = "0.0.0.0"
	MaxTCPPort     = 65535
	DefaultRedisDB = 0

	DefaultRedisEndpoint   = "localhost:6379"
	DefaultRedisPrefix     = "flowdesk"
	DefaultLanguage        = "en"
	DefaultBypassPolicy    = BypassPolicyBypass
	DefaultSettingsBackend = SettingsBackendMemory
	DefaultLocalePrefix    = "locales/"

	MaxResponseDelay   = time.Minute
	MaxShutdownTimeout = 5 * time.Minute
	MaxRedisDB         = 15
)

var (
	ErrInvalidAPIPort         = errors.New("invalid API port")
	ErrInvalidBypassPolicy    = errors.New("invalid bypass policy")
	ErrInvalidSettingsBackend = errors.New("invalid settings backend")
	ErrInvalidResponseDelay   = errors.New(
		"response delay must not be negative",
	)
	ErrInvalidShutdownTimeout = errors.New(
		"shutdown timeout must be positive",
	)
	ErrMissingRedisAddr = errors.New(
		"redis settings backend requires an address",
	)
	ErrMissingDefaultLanguage = errors.New("default language is required")
)

// NewDefaultConfig creates a configuration with sensible defaults for the
// mock server, preference store, and locale loading
func NewDefaultConfig() *Config {
	return &Config{
		APIPort:      DefaultAPIPort,
		APIHost:      DefaultAPIHost,
		LogLevel:     "info",
		BypassPolicy: DefaultBypassPolicy,
		Settings: SettingsConfig{
			Backend: DefaultSettingsBackend,
			Addr:    DefaultRedisEndpoint,
			DB:      DefaultRedisDB,
			Prefix:  DefaultRedisPrefix,
		},
		DefaultLanguage: DefaultLanguage,
		LocalePrefix:    DefaultLocalePrefix,
		ShutdownTimeout: DefaultShutdownTimeout,
	}
}

// LoadFromEnv populates configuration values from environment variables.
// Returns an error if any env var cannot be parsed.
func (c *Config) LoadFromEnv() error {
	LoadSettingsConfigFromEnv(&c.Settings, "SETTINGS")

	if apiHost := os.Getenv("API_HOST"); apiHost != "" {
		c.APIHost = apiHost
	}
	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.LogLevel = logLevel
	}
	if policy := os.Getenv("BYPASS_POLICY"); policy != "" {
		c.BypassPolicy = strings.ToLower(policy)
	}
	if lang := os.Getenv("DEFAULT_LANGUAGE"); lang != "" {
		c.DefaultLanguage = lang
	}
	if bucketURL := os.Getenv("LOCALE_BUCKET_URL"); bucketURL != "" {
		c.LocaleBucketURL = bucketURL
	}
	if prefix := os.Getenv("LOCALE_PREFIX"); prefix != "" {
		c.LocalePrefix = prefix
	}

	if err := loadEnvInt("API_PORT", &c.APIPort, 0, MaxTCPPort); err != nil {
		return err
	}
	if err := loadEnvDuration(
		"RESPONSE_DELAY", &c.ResponseDelay, MaxResponseDelay,
	); err != nil {
		return err
	}
	if err := loadEnvDuration(
		"SHUTDOWN_TIMEOUT", &c.ShutdownTimeout, MaxShutdownTimeout,
	); err != nil {
		return err
	}

	return nil
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	if c.APIPort <= 0 || c.APIPort > MaxTCPPort {
		return fmt.Errorf("%w: %d", ErrInvalidAPIPort, c.APIPort)
	}

	switch c.BypassPolicy {
	case BypassPolicyBypass, BypassPolicyWarn, BypassPolicyError:
	default:
		return fmt.Errorf("%w: %s", ErrInvalidBypassPolicy, c.BypassPolicy)
	}

	if c.ResponseDelay < 0 {
		return ErrInvalidResponseDelay
	}

	if c.ShutdownTimeout <= 0 {
		return ErrInvalidShutdownTimeout
	}

	if strings.TrimSpace(c.DefaultLanguage) == "" {
		return ErrMissingDefaultLanguage
	}

	switch c.Settings.Backend {
	case SettingsBackendMemory:
	case SettingsBackendRedis:
		if c.Settings.Addr == "" {
			return ErrMissingRedisAddr
		}
	default:
		return fmt.Errorf("%w: %s",
			ErrInvalidSettingsBackend, c.Settings.Backend)
	}

	return nil
}

// LoadSettingsConfigFromEnv loads preference store configuration from
// environment variables with the given prefix (e.g., "SETTINGS")
func LoadSettingsConfigFromEnv(s *SettingsConfig, prefix string) {
	if backend := os.Getenv(prefix + "_BACKEND"); backend != "" {
		s.Backend = strings.ToLower(backend)
	}
	if addr := os.Getenv(prefix + "_REDIS_ADDR"); addr != "" {
		s.Addr = addr
	}
	if password := os.Getenv(prefix + "_REDIS_PASSWORD"); password != "" {
		s.Password = password
	}
	if dbStr := os.Getenv(prefix + "_REDIS_DB"); dbStr != "" {
		db, err := strconv.Atoi(dbStr)
		if err == nil && db >= 0 && db <= MaxRedisDB {
			s.DB = db
		}
	}
	if envPrefix := os.Getenv(prefix + "_REDIS_PREFIX"); envPrefix != "" {
		s.Prefix = envPrefix
	}
}

// loadEnvInt reads key from the environment, parses it as an integer, and
// sets *dst if the value is in the range (min, max]. Returns an error if
// the value cannot be parsed or falls outside the valid range.
func loadEnvInt[T ~int | ~int64](key string, dst *T, min, max T) error {
	s := os.Getenv(key)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid %s: %q", key, s)
	}
	tv := T(v)
	if tv <= min || tv > max {
		return fmt.Errorf("invalid %s: %d out of range [%d, %d]",
			key, tv, min+1, max)
	}
	*dst = tv
	return nil
}

// loadEnvDuration reads key as a Go duration string ("250ms", "2s") and sets
// *dst when the value falls within [0, max]
func loadEnvDuration(key string, dst *time.Duration, max time.Duration) error {
	s := os.Getenv(key)
	if s == "" {
		return nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid %s: %q", key, s)
	}
	if d < 0 || d > max {
		return fmt.Errorf("invalid %s: %s out of range [0, %s]", key, d, max)
	}
	*dst = d
	return nil
}
