package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type RESTConfig struct {
	PORT               string
	CORSAllowedOrigins []string
	ShutdownTimeout    time.Duration
}

type DatabaseConfig struct {
	URL               string
	ReferralsURL      string // пусто: рефералы живут в основной базе
	MaxConns          int32
	CollectionsSchema string
	RunMigrations     bool
}

type CacheConfig struct {
	Backend   string // memory | redis
	TTL       time.Duration
	RedisAddr string
	RedisPass string
	RedisDB   int
	KeyPrefix string
}

type CatalogConfig struct {
	DefaultLimit   int
	MaxLimit       int
	PriorityTraits []string
}

type RabbitMQConfig struct {
	Enabled      bool
	URL          string
	BatchSize    int
	BatchTimeout time.Duration
}

type StdoutLogConfig struct {
	Level  string
	JSON   bool
	Colors bool
}

type FluentBitConfig struct {
	Host    string
	Port    int
	Enabled bool
	Level   string
}

// AppConfig вся конфигурация сервиса
type AppConfig struct {
	AppName      string
	Rest         RESTConfig
	Database     DatabaseConfig
	Cache        CacheConfig
	Catalog      CatalogConfig
	RabbitMQ     RabbitMQConfig
	StdoutLogger StdoutLogConfig
	FluentBit    FluentBitConfig
}

// LoadConfig читает .env (если он есть) и переменные окружения.
// Переменные окружения имеют приоритет над .env.
func LoadConfig(envPath ...string) (*AppConfig, error) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath...)
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("could not load .env file (path: %v): %w", envPath, err)
		}
		log.Printf("Info: .env file not found (path: %v), using process environment\n", envPath)
	}

	cfg := &AppConfig{}

	cfg.AppName = getEnvAsString("APP_NAME", "catalog-service")

	cfg.Rest.PORT = getEnvAsString("PORT", "8080")
	cfg.Rest.CORSAllowedOrigins = getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"})
	cfg.Rest.ShutdownTimeout = getEnvAsDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second)

	cfg.Database.URL = os.Getenv("DATABASE_URL")
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	cfg.Database.ReferralsURL = getEnvAsString("REFERRALS_DATABASE_URL", "")
	cfg.Database.MaxConns = int32(getEnvAsInt("DB_MAX_CONNS", 10))
	if cfg.Database.MaxConns < 1 {
		return nil, fmt.Errorf("DB_MAX_CONNS must be positive, got %d", cfg.Database.MaxConns)
	}
	cfg.Database.CollectionsSchema = getEnvAsString("DB_COLLECTIONS_SCHEMA", "gifts")
	if cfg.Database.CollectionsSchema == "" {
		return nil, fmt.Errorf("DB_COLLECTIONS_SCHEMA must not be empty")
	}
	cfg.Database.RunMigrations = getEnvAsBool("DB_RUN_MIGRATIONS", true)

	cfg.Cache.Backend = strings.ToLower(getEnvAsString("CACHE_BACKEND", "memory"))
	cfg.Cache.TTL = getEnvAsDuration("CACHE_TTL", 5*time.Minute)
	cfg.Cache.RedisAddr = getEnvAsString("REDIS_ADDR", "localhost:6379")
	cfg.Cache.RedisPass = getEnvAsString("REDIS_PASSWORD", "")
	cfg.Cache.RedisDB = getEnvAsInt("REDIS_DB", 0)
	cfg.Cache.KeyPrefix = getEnvAsString("REDIS_KEY_PREFIX", "catalog")
	switch cfg.Cache.Backend {
	case "memory", "redis":
	default:
		return nil, fmt.Errorf("CACHE_BACKEND must be memory or redis, got %q", cfg.Cache.Backend)
	}
	if cfg.Cache.TTL <= 0 {
		return nil, fmt.Errorf("CACHE_TTL must be positive")
	}

	cfg.Catalog.MaxLimit = getEnvAsInt("CATALOG_MAX_LIMIT", 96)
	cfg.Catalog.DefaultLimit = getEnvAsInt("CATALOG_DEFAULT_LIMIT", 12)
	cfg.Catalog.PriorityTraits = getEnvAsList("CATALOG_PRIORITY_TRAITS", []string{"Model", "Backdrop", "Symbol"})
	if cfg.Catalog.MaxLimit < 1 || cfg.Catalog.DefaultLimit < 1 || cfg.Catalog.DefaultLimit > cfg.Catalog.MaxLimit {
		return nil, fmt.Errorf("invalid catalog limits: default %d, max %d", cfg.Catalog.DefaultLimit, cfg.Catalog.MaxLimit)
	}

	cfg.RabbitMQ.Enabled = getEnvAsBool("RABBITMQ_ENABLED", false)
	if cfg.RabbitMQ.Enabled {
		cfg.RabbitMQ.URL = os.Getenv("RABBITMQ_URL")
		if cfg.RabbitMQ.URL == "" {
			return nil, fmt.Errorf("RABBITMQ_URL environment variable is required when RABBITMQ_ENABLED is true")
		}
		cfg.RabbitMQ.BatchSize = getEnvAsInt("RABBITMQ_BATCH_SIZE", 100)
		cfg.RabbitMQ.BatchTimeout = getEnvAsDuration("RABBITMQ_BATCH_TIMEOUT", 2*time.Second)
	}

	cfg.StdoutLogger.Level = getEnvAsString("STDOUT_LOG_LEVEL", "debug")
	cfg.StdoutLogger.JSON = getEnvAsBool("STDOUT_LOG_JSON", false)
	cfg.StdoutLogger.Colors = getEnvAsBool("STDOUT_LOG_COLORS", true)

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = os.Getenv("FLUENTBIT_HOST")
		if cfg.FluentBit.Host == "" {
			log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}
		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
		cfg.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", "info")
	}

	return cfg, nil
}

func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt при ошибке разбора пишет предупреждение и берет значение по умолчанию
func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(strings.TrimSpace(valueStr))
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as int: %v. Using default value: %d\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(strings.TrimSpace(valStr))
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as bool: %v. Using default value: %t\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valBool
}

// getEnvAsDuration принимает "5m", "30s" и т.п.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	d, err := time.ParseDuration(strings.TrimSpace(valStr))
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as duration: %v. Using default value: %s\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return d
}

// getEnvAsList список через запятую, пустые элементы отбрасываются
func getEnvAsList(key string, defaultValue []string) []string {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
