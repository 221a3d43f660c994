package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode            string
	Port               string
	RateLimitPerMinute int
	Database           DatabaseConfig
	JWT                JWTConfig
	Redis              RedisConfig
	Queue              QueueConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	LockWaitTimeout int // seconds, sent as innodb_lock_wait_timeout
	MaxIdleConns    int
	MaxOpenConns    int
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret          string
	AccessTokenMins int
}

// RedisConfig holds the pub/sub connection; an empty Addr keeps events in-process
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Channel  string
}

// Enabled reports whether a Redis address is configured
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// QueueConfig holds queue and scheduler settings
type QueueConfig struct {
	AverageServiceMinutes int
	ResetCron             string
	ResetReason           string
	AnalyticsBuffer       int
	SeedCounters          int
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("ℹ️ .env file not found, using environment variables")
	}

	// trim spaces for Windows compatibility
	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	config := &Config{
		AppMode:            appMode,
		Port:               getEnv("PORT", "3000"),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 100),
		Database:           loadDatabaseConfig(appMode),
		JWT:                loadJWTConfig(appMode),
		Redis:              loadRedisConfig(),
		Queue:              loadQueueConfig(),
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	AppConfig = config

	log.Printf("✅ Configuration loaded successfully [MODE: %s]", appMode)
	return config, nil
}

func (c *Config) validate() error {
	if c.Queue.AverageServiceMinutes < 0 {
		return fmt.Errorf("AVG_SERVICE_MINUTES must not be negative, got %d", c.Queue.AverageServiceMinutes)
	}
	if c.Database.LockWaitTimeout <= 0 {
		return fmt.Errorf("DB_LOCK_WAIT_TIMEOUT must be positive, got %d", c.Database.LockWaitTimeout)
	}
	if c.IsProd() && c.JWT.Secret == defaultJWTSecret {
		return fmt.Errorf("PROD_JWT_SECRET must be set in prod mode")
	}
	return nil
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) DatabaseConfig {
	prefix := modePrefix(mode)

	return DatabaseConfig{
		Host:            getEnv(prefix+"DB_HOST", "localhost"),
		Port:            getEnv(prefix+"DB_PORT", "3306"),
		User:            getEnv(prefix+"DB_USER", "root"),
		Password:        getEnv(prefix+"DB_PASS", ""),
		DBName:          getEnv(prefix+"DB_NAME", "shopserve"),
		LockWaitTimeout: getEnvInt("DB_LOCK_WAIT_TIMEOUT", 5),
		MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 10),
		MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 100),
	}
}

const defaultJWTSecret = "default_secret"

// loadJWTConfig loads JWT config based on mode
func loadJWTConfig(mode string) JWTConfig {
	return JWTConfig{
		Secret:          getEnv(modePrefix(mode)+"JWT_SECRET", defaultJWTSecret),
		AccessTokenMins: getEnvInt("ACCESS_TOKEN_MINUTES", 15),
	}
}

func loadRedisConfig() RedisConfig {
	return RedisConfig{
		Addr:     getEnv("REDIS_ADDR", ""),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
		Channel:  getEnv("REDIS_CHANNEL", "shopserve:events"),
	}
}

func loadQueueConfig() QueueConfig {
	return QueueConfig{
		AverageServiceMinutes: getEnvInt("AVG_SERVICE_MINUTES", 10),
		ResetCron:             getEnv("QUEUE_RESET_CRON", "0 0 22 * * *"),
		ResetReason:           getEnv("QUEUE_RESET_REASON", "end of day reset"),
		AnalyticsBuffer:       getEnvInt("ANALYTICS_BUFFER", 256),
		SeedCounters:          getEnvInt("SEED_COUNTERS", 3),
	}
}

func modePrefix(mode string) string {
	if mode == "prod" {
		return "PROD_"
	}
	return "DEV_"
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt parses an integer variable, falling back on absence or garbage
func getEnvInt(key string, defaultValue int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		log.Printf("⚠️ %s=%q is not a number, using %d", key, raw, defaultValue)
		return defaultValue
	}
	return v
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "http://localhost:3000"
	}
	return origins
}
