package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-timeleave-go/internal/domain/leave"
	"github.com/joho/godotenv"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type Config struct {
	App          AppConfig
	Database     DatabaseConfig
	Storage      StorageConfig
	JWT          JWTConfig
	Notification NotificationConfig
	Leave        LeaveConfig
	Audit        AuditConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port               int
	Env                string
	LogLevel           string
	Timezone           string
	CORSAllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type StorageConfig struct {
	Driver string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

type NotificationConfig struct {
	Workers     int
	QueueSize   int
	Locale      string
	SQSQueueURL string
	AWSRegion   string
	AWSEndpoint string
}

// LeaveConfig holds the per-type allotment given to a new balance.
type LeaveConfig struct {
	DefaultSick   int
	DefaultCasual int
	DefaultEarned int
}

type AuditConfig struct {
	Interval time.Duration
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	} else if err != nil {
		slog.Debug("no .env file found, using process environment")
	}

	config := &Config{}

	// Application configuration
	appPort, err := getEnvInt("APP_PORT", 8080)
	if err != nil {
		return nil, err
	}

	config.App = AppConfig{
		Port:               appPort,
		Env:                getEnv("APP_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		Timezone:           getEnv("APP_TIMEZONE", "UTC"),
		CORSAllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}

	// Database configuration
	dbPort, err := getEnvInt("DB_PORT", 5432)
	if err != nil {
		return nil, err
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "hris_timeleave"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	config.Storage = StorageConfig{
		Driver: strings.ToLower(getEnv("STORAGE_DRIVER", StorageDriverPostgres)),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Notification configuration
	workers, err := getEnvInt("NOTIFICATION_WORKERS", 2)
	if err != nil {
		return nil, err
	}
	queueSize, err := getEnvInt("NOTIFICATION_QUEUE_SIZE", 1000)
	if err != nil {
		return nil, err
	}

	config.Notification = NotificationConfig{
		Workers:     workers,
		QueueSize:   queueSize,
		Locale:      getEnv("NOTIFICATION_LOCALE", "en"),
		SQSQueueURL: getEnv("NOTIFICATION_SQS_QUEUE_URL", ""),
		AWSRegion:   getEnv("AWS_REGION", "ap-southeast-1"),
		AWSEndpoint: getEnv("AWS_ENDPOINT", ""),
	}

	// Leave allotment
	defaults := leave.DefaultAllotment()
	sick, err := getEnvInt("LEAVE_DEFAULT_SICK", defaults.Sick)
	if err != nil {
		return nil, err
	}
	casual, err := getEnvInt("LEAVE_DEFAULT_CASUAL", defaults.Casual)
	if err != nil {
		return nil, err
	}
	earned, err := getEnvInt("LEAVE_DEFAULT_EARNED", defaults.Earned)
	if err != nil {
		return nil, err
	}

	config.Leave = LeaveConfig{
		DefaultSick:   sick,
		DefaultCasual: casual,
		DefaultEarned: earned,
	}

	// Audit job
	auditInterval, err := time.ParseDuration(getEnv("ATTENDANCE_AUDIT_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_AUDIT_INTERVAL: %w", err)
	}
	config.Audit = AuditConfig{Interval: auditInterval}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageDriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case StorageDriverMemory:
	default:
		return fmt.Errorf("STORAGE_DRIVER must be one of %s, %s", StorageDriverPostgres, StorageDriverMemory)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := c.AccessExpiration(); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	if c.Leave.DefaultSick < 0 || c.Leave.DefaultCasual < 0 || c.Leave.DefaultEarned < 0 {
		return fmt.Errorf("leave allotments must not be negative")
	}
	if c.Audit.Interval <= 0 {
		return fmt.Errorf("ATTENDANCE_AUDIT_INTERVAL must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// Location is the time zone that defines an employee's calendar day.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.App.Timezone)
}

func (c *Config) AccessExpiration() (time.Duration, error) {
	return time.ParseDuration(c.JWT.AccessExpiration)
}

func (c *Config) Allotment() leave.Allotment {
	return leave.Allotment{
		Sick:   c.Leave.DefaultSick,
		Casual: c.Leave.DefaultCasual,
		Earned: c.Leave.DefaultEarned,
	}
}

func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvSlice(env string, fallback []string) []string {
	value := getEnv(env, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
