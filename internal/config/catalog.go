package config

import (
	"fmt"
	"log/slog"
	"time"
)

const (
	StoreFile     = "file"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

const (
	defaultHTTPAddr          = ":8080"
	defaultStoreDriver       = StoreFile
	defaultDataFile          = "data/products.json"
	defaultMigrationsPath    = "migrations/catalog"
	defaultCatalogDocument   = "products"
	defaultRedisKey          = "catalog:products"
	defaultCORSOrigins       = "*"
	defaultReadHeaderTimeout = 5 * time.Second

	defaultDBMaxOpenConns    = 10
	defaultDBMaxIdleConns    = 2
	defaultDBConnMaxLifetime = 5 * time.Minute
	defaultDBPingTimeout     = 5 * time.Second
)

type Catalog struct {
	HTTPAddr          string
	LogLevel          slog.Level
	StoreDriver       string
	StrictLoad        bool
	DataFile          string
	RabbitMQURL       string
	CORSOrigins       []string
	ShutdownTimeout   time.Duration
	ReadHeaderTimeout time.Duration

	DatabaseURL       string
	MigrationsPath    string
	CatalogDocument   string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration
	DBPingTimeout     time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisKey      string
}

// LoadCatalog reads the catalog service configuration from the environment.
// Backend settings are only required for the selected STORE_DRIVER; an empty
// RABBITMQ_URL disables event publishing.
func LoadCatalog() (Catalog, error) {
	cfg := Catalog{
		HTTPAddr:          getEnv("HTTP_ADDR", defaultHTTPAddr),
		StoreDriver:       getEnv("STORE_DRIVER", defaultStoreDriver),
		DataFile:          getEnv("DATA_FILE", defaultDataFile),
		RabbitMQURL:       getEnv("RABBITMQ_URL", ""),
		CORSOrigins:       getEnvList("CORS_ALLOWED_ORIGINS", defaultCORSOrigins),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		MigrationsPath:    getEnv("MIGRATIONS_PATH", defaultMigrationsPath),
		CatalogDocument:   getEnv("CATALOG_DOCUMENT", defaultCatalogDocument),
		DBMaxOpenConns:    defaultDBMaxOpenConns,
		DBMaxIdleConns:    defaultDBMaxIdleConns,
		DBConnMaxLifetime: defaultDBConnMaxLifetime,
		DBPingTimeout:     defaultDBPingTimeout,
		RedisAddr:         getEnv("REDIS_ADDR", ""),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RedisKey:          getEnv("REDIS_KEY", defaultRedisKey),
	}

	var err error
	if cfg.LogLevel, err = ParseLogLevel(getEnv("LOG_LEVEL", defaultLogLevel)); err != nil {
		return Catalog{}, err
	}
	if cfg.StrictLoad, err = getEnvBool("CATALOG_STRICT_LOAD", true); err != nil {
		return Catalog{}, err
	}
	if cfg.RedisDB, err = getEnvInt("REDIS_DB", 0); err != nil {
		return Catalog{}, err
	}
	if cfg.ShutdownTimeout, err = getEnvDuration("SHUTDOWN_TIMEOUT", defaultShutdownTimeout); err != nil {
		return Catalog{}, err
	}
	if cfg.ReadHeaderTimeout, err = getEnvDuration("READ_HEADER_TIMEOUT", defaultReadHeaderTimeout); err != nil {
		return Catalog{}, err
	}

	switch cfg.StoreDriver {
	case StoreFile:
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			return Catalog{}, fmt.Errorf("DATABASE_URL is required")
		}
	case StoreRedis:
		if cfg.RedisAddr == "" {
			return Catalog{}, fmt.Errorf("REDIS_ADDR is required")
		}
	default:
		return Catalog{}, fmt.Errorf("STORE_DRIVER %q is not one of file, postgres, redis", cfg.StoreDriver)
	}

	return cfg, nil
}
