package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"product-catalog/internal/catalog"
	"product-catalog/internal/config"
	"product-catalog/internal/notifications"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
)

func main() {
	_ = godotenv.Load()
	os.Exit(run())
}

func run() int {
	cfg, err := config.LoadNotifications()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stderr, nil)).Error("load config", "error", err)
		return 1
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		logger.Error("connect rabbitmq", "error", err)
		return 1
	}
	defer conn.Close()

	consumer, err := notifications.NewConsumer(conn, catalog.EventsQueue, logger)
	if err != nil {
		logger.Error("init consumer", "error", err)
		return 1
	}
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("notifications service started", "queue", catalog.EventsQueue)
		errCh <- consumer.Listen(ctx)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("consumer failed", "error", err)
			return 1
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")

		deadline := time.NewTimer(cfg.ShutdownTimeout)
		defer deadline.Stop()
		select {
		case err := <-errCh:
			if err != nil {
				logger.Error("consumer stop failed", "error", err)
				return 1
			}
		case <-deadline.C:
			logger.Warn("consumer shutdown timeout reached")
		}
	}

	logger.Info("notifications service stopped")
	return 0
}
