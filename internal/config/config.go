// Package config handles configuration loading for the paper repository service.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const minJWTSecretLength = 32

// Config holds all configuration for the paper repository service.
type Config struct {
	Port        string
	Environment string
	LogLevel    string

	DBDriver       string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSSLMode      string
	DBMaxOpenConns int
	DBMaxIdleConns int
	MigrateOnStart bool

	RedisHost     string
	RedisPort     string
	RedisPassword string
	CacheTTL      time.Duration

	JWTSecret string
	JWTExpiry time.Duration

	AllowAdminRegistration bool

	UploadDir       string
	UploadURLPrefix string
	MaxFileSize     int64

	FoundingYear int

	JanitorSchedule   string
	OrphanGracePeriod time.Duration

	SwaggerHost string
}

// RedisEnabled reports whether a Redis host was configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisHost != ""
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// source resolves keys against the environment first, then the optional config file.
type source struct {
	file map[string]string
}

// Load reads configuration from environment variables. When CONFIG_FILE points to a
// YAML file, its keys (named like the environment variables) provide defaults.
func Load() (*Config, error) {
	src := source{file: map[string]string{}}
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		values, err := readFile(path)
		if err != nil {
			return nil, err
		}
		src.file = values
	}

	cfg := &Config{
		Port:        src.get("PORT", "5000"),
		Environment: src.get("ENVIRONMENT", "development"),
		LogLevel:    src.get("LOG_LEVEL", "info"),

		DBDriver:       strings.ToLower(src.get("DB_DRIVER", "postgres")),
		DBHost:         src.get("DB_HOST", "localhost"),
		DBPort:         src.get("DB_PORT", ""),
		DBUser:         src.get("DB_USER", "postgres"),
		DBPassword:     src.get("DB_PASSWORD", ""),
		DBName:         src.get("DB_NAME", "bracu_repo"),
		DBSSLMode:      src.get("DB_SSLMODE", "disable"),
		DBMaxOpenConns: src.getInt("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdleConns: src.getInt("DB_MAX_IDLE_CONNS", 5),
		MigrateOnStart: src.getBool("MIGRATE_ON_START", false),

		RedisHost:     src.get("REDIS_HOST", ""),
		RedisPort:     src.get("REDIS_PORT", "6379"),
		RedisPassword: src.get("REDIS_PASSWORD", ""),
		CacheTTL:      parseDuration(src.get("CACHE_TTL", "5m"), 5*time.Minute),

		JWTSecret: src.get("JWT_SECRET", ""),
		JWTExpiry: parseDuration(src.get("JWT_EXPIRY", "24h"), 24*time.Hour),

		AllowAdminRegistration: src.getBool("ALLOW_ADMIN_REGISTRATION", false),

		UploadDir:       src.get("UPLOAD_PATH", "./uploads"),
		UploadURLPrefix: strings.TrimSuffix(src.get("UPLOAD_URL_PREFIX", "/uploads"), "/"),
		MaxFileSize:     src.getInt64("MAX_FILE_SIZE", 10*1024*1024),

		FoundingYear: src.getInt("FOUNDING_YEAR", 2001),

		JanitorSchedule:   src.get("JANITOR_SCHEDULE", "@every 1h"),
		OrphanGracePeriod: parseDuration(src.get("ORPHAN_GRACE_PERIOD", "1h"), time.Hour),

		SwaggerHost: src.get("SWAGGER_HOST", ""),
	}

	if cfg.DBPort == "" {
		cfg.DBPort = defaultDBPort(cfg.DBDriver)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that have no usable default.
func (c *Config) Validate() error {
	var errs []error
	if len(c.JWTSecret) < minJWTSecretLength {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d bytes", minJWTSecretLength))
	}
	if c.DBDriver != "postgres" && c.DBDriver != "mysql" {
		errs = append(errs, fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver))
	}
	if c.MaxFileSize <= 0 {
		errs = append(errs, errors.New("MAX_FILE_SIZE must be positive"))
	}
	if c.UploadDir == "" {
		errs = append(errs, errors.New("UPLOAD_PATH must not be empty"))
	}
	return errors.Join(errs...)
}

func defaultDBPort(driver string) string {
	if driver == "mysql" {
		return "3306"
	}
	return "5432"
}

func readFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	values := map[string]string{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return values, nil
}

func (s source) get(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	if value, ok := s.file[key]; ok && value != "" {
		return value
	}
	return defaultValue
}

func (s source) getInt(key string, defaultValue int) int {
	if i, err := strconv.Atoi(s.get(key, "")); err == nil {
		return i
	}
	return defaultValue
}

func (s source) getInt64(key string, defaultValue int64) int64 {
	if i, err := strconv.ParseInt(s.get(key, ""), 10, 64); err == nil {
		return i
	}
	return defaultValue
}

// getBool accepts "1", "true", "yes" as true; any other non-empty value is false.
func (s source) getBool(key string, defaultValue bool) bool {
	value := strings.ToLower(s.get(key, ""))
	if value == "" {
		return defaultValue
	}
	return value == "1" || value == "true" || value == "yes"
}

func parseDuration(value string, defaultValue time.Duration) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}
