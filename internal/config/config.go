package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Cache backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// Config is the heart-risk server configuration.
type Config struct {
	HTTP struct {
		Addr string
	}
	Model struct {
		Path    string
		URL     string
		Timeout time.Duration
	}
	Log struct {
		Level  string
		Format string
		Buffer int
	}
	Cache struct {
		Backend         string
		TTL             time.Duration
		CleanupInterval time.Duration
		MaxEntries      int
	}
	Redis struct {
		Addr     string
		Password string
		DB       int
	}
	// Startup bounds the retries used while waiting for Postgres and Redis.
	Startup struct {
		Retries int
		Backoff time.Duration
	}
	HistoryEnabled bool
	Database       DatabaseConfig
}

// DatabaseConfig holds the Postgres connection settings for the prediction history.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MaxIdle  int
}

// DSN returns a lib/pq connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// Load reads the configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")

	cfg.Model.Path = getEnv("MODEL_PATH", "models/heart_failure_model.json")
	cfg.Model.URL = getEnv("MODEL_URL", "")
	cfg.Model.Timeout = time.Duration(parseInt(getEnv("MODEL_TIMEOUT_MS", "5000"), 5000)) * time.Millisecond

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")
	cfg.Log.Buffer = parseInt(getEnv("LOG_BUFFER", "1000"), 1000)

	cfg.Cache.Backend = getEnv("CACHE_BACKEND", CacheMemory)
	cfg.Cache.TTL = time.Duration(parseInt(getEnv("CACHE_TTL_SECONDS", "600"), 600)) * time.Second
	cfg.Cache.CleanupInterval = time.Duration(parseInt(getEnv("CACHE_CLEANUP_SECONDS", "30"), 30)) * time.Second
	cfg.Cache.MaxEntries = parseInt(getEnv("CACHE_MAX_ENTRIES", "10000"), 10000)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = parseInt(getEnv("REDIS_DB", "0"), 0)

	cfg.Startup.Retries = parseInt(getEnv("STARTUP_RETRIES", "5"), 5)
	cfg.Startup.Backoff = time.Duration(parseInt(getEnv("STARTUP_BACKOFF_MS", "500"), 500)) * time.Millisecond

	cfg.HistoryEnabled = getEnv("HISTORY_ENABLED", "false") == "true"
	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = parseInt(getEnv("DB_PORT", "5432"), 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "heart_risk")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxConns = parseInt(getEnv("DB_MAX_CONNS", "5"), 5)
	cfg.Database.MaxIdle = parseInt(getEnv("DB_MAX_IDLE", "2"), 2)

	return cfg
}

// Validate reports settings that cannot work together.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case CacheMemory, CacheRedis, CacheNone:
	default:
		return fmt.Errorf("unknown CACHE_BACKEND %q", c.Cache.Backend)
	}
	if c.Model.URL == "" && c.Model.Path == "" {
		return fmt.Errorf("either MODEL_URL or MODEL_PATH must be set")
	}
	if c.Cache.Backend != CacheNone && c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL_SECONDS must be positive")
	}
	if c.Cache.Backend == CacheMemory && c.Cache.CleanupInterval <= 0 {
		return fmt.Errorf("CACHE_CLEANUP_SECONDS must be positive")
	}
	if c.Cache.Backend == CacheMemory && c.Cache.MaxEntries <= 0 {
		return fmt.Errorf("CACHE_MAX_ENTRIES must be positive")
	}
	if c.Startup.Retries < 0 {
		return fmt.Errorf("STARTUP_RETRIES must not be negative")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
