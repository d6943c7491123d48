package config

import (
	"fmt"
	"log/slog"
	"time"
)

type Notifications struct {
	RabbitMQURL     string
	LogLevel        slog.Level
	ShutdownTimeout time.Duration
}

func LoadNotifications() (Notifications, error) {
	cfg := Notifications{
		RabbitMQURL: getEnv("RABBITMQ_URL", ""),
	}

	if cfg.RabbitMQURL == "" {
		return Notifications{}, fmt.Errorf("RABBITMQ_URL is required")
	}

	var err error
	if cfg.LogLevel, err = ParseLogLevel(getEnv("LOG_LEVEL", defaultLogLevel)); err != nil {
		return Notifications{}, err
	}
	if cfg.ShutdownTimeout, err = getEnvDuration("SHUTDOWN_TIMEOUT", defaultShutdownTimeout); err != nil {
		return Notifications{}, err
	}

	return cfg, nil
}
