package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"product-catalog/internal/catalog"
	cataloghttp "product-catalog/internal/catalog/http"
	"product-catalog/internal/catalog/messaging"
	"product-catalog/internal/catalog/service"
	"product-catalog/internal/catalog/store"
	"product-catalog/internal/config"

	_ "product-catalog/docs"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
)

const (
	metricCreatedTotal  = "catalog_products_created_total"
	metricUpdatedTotal  = "catalog_products_updated_total"
	metricDeletedTotal  = "catalog_products_deleted_total"
	migrateSourcePrefix = "file://"
	postgresDriverName  = "postgres"
)

// catalogStore is what the service and the health endpoint need from a backend.
type catalogStore interface {
	service.Store
	cataloghttp.HealthChecker
}

// @title        Product Catalog API
// @version      1.0
// @description  Product catalog with validated CRUD over a single persisted document.
// @host         localhost:8080
// @BasePath     /
func main() {
	_ = godotenv.Load()
	os.Exit(run())
}

func run() int {
	cfg, err := config.LoadCatalog()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stderr, nil)).Error("load config", "error", err)
		return 1
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	productStore, closeStore, err := openStore(cfg, logger)
	if err != nil {
		logger.Error("open store", "driver", cfg.StoreDriver, "error", err)
		return 1
	}
	defer closeStore()

	publisher, closePublisher, err := openPublisher(cfg.RabbitMQURL, logger)
	if err != nil {
		logger.Error("init publisher", "error", err)
		return 1
	}
	defer closePublisher()

	metrics := service.Metrics{
		Created: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricCreatedTotal,
			Help: "Total number of products created",
		}),
		Updated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricUpdatedTotal,
			Help: "Total number of products updated",
		}),
		Deleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricDeletedTotal,
			Help: "Total number of products deleted",
		}),
	}
	prometheus.MustRegister(metrics.Created, metrics.Updated, metrics.Deleted)

	svc := service.New(productStore, publisher, logger, metrics)
	handler := cataloghttp.NewHandler(svc)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cataloghttp.RequestIDMiddleware())
	router.Use(cataloghttp.AccessLogMiddleware(logger))
	router.Use(cataloghttp.CORSMiddleware(cfg.CORSOrigins))
	cataloghttp.RegisterRoutes(router, handler, productStore)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("catalog service started", "addr", cfg.HTTPAddr, "store", cfg.StoreDriver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	exitCode := 0
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("http server failed", "error", err)
		exitCode = 1
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		return 1
	}
	logger.Info("catalog service stopped")
	return exitCode
}

func openStore(cfg config.Catalog, logger *slog.Logger) (catalogStore, func(), error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		if err := runMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			return nil, nil, fmt.Errorf("run migrations: %w", err)
		}

		db, err := sql.Open(postgresDriverName, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("open database: %w", err)
		}
		db.SetMaxOpenConns(cfg.DBMaxOpenConns)
		db.SetMaxIdleConns(cfg.DBMaxIdleConns)
		db.SetConnMaxLifetime(cfg.DBConnMaxLifetime)

		ctx, cancel := context.WithTimeout(context.Background(), cfg.DBPingTimeout)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("ping database: %w", err)
		}
		return store.NewPostgres(db, cfg.CatalogDocument, cfg.StrictLoad, logger), func() { _ = db.Close() }, nil

	case config.StoreRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})

		ctx, cancel := context.WithTimeout(context.Background(), cfg.DBPingTimeout)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("ping redis: %w", err)
		}
		return store.NewRedis(rdb, cfg.RedisKey, cfg.StrictLoad, logger), func() { _ = rdb.Close() }, nil

	default:
		fs := store.NewFile(cfg.DataFile, cfg.StrictLoad, logger)
		logger.Info("using file store", "path", fs.Path())
		return fs, func() {}, nil
	}
}

func openPublisher(url string, logger *slog.Logger) (service.Publisher, func(), error) {
	if url == "" {
		logger.Info("RABBITMQ_URL not set, product events disabled")
		return messaging.NopPublisher{}, func() {}, nil
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("connect rabbitmq: %w", err)
	}

	publisher, err := messaging.NewRabbitPublisher(conn, catalog.EventsQueue)
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}

	return publisher, func() {
		_ = publisher.Close()
		_ = conn.Close()
	}, nil
}

func runMigrations(databaseURL, migrationsPath string) error {
	m, err := migrate.New(migrateSourcePrefix+migrationsPath, databaseURL)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	return nil
}
