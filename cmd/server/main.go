package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"live-service/internal/config"
	"live-service/internal/database"
	"live-service/internal/router"
	"live-service/internal/transport"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(getEnv("CONFIG_PATH", "config.yaml"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var logger *zap.Logger
	if cfg.Server.Env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Starting Live Service",
		zap.Int("port", cfg.Server.Port),
		zap.String("basePath", cfg.Server.BasePath),
		zap.String("env", cfg.Server.Env))

	// The fan-out backbone is mandatory for multi-process deployments: a
	// process that cannot reach it at startup must not accept connections.
	// An empty redis host opts into explicit single-process mode.
	tr, redisClient := setupTransport(cfg, logger)

	r, hub := router.Setup(cfg, tr, redisClient, logger)

	if err := tr.Subscribe(context.Background(), hub.HandleBackbone); err != nil {
		logger.Fatal("Failed to subscribe to fan-out backbone", zap.Error(err))
	}
	defer tr.Close()

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("Live Service started", zap.String("address", addr))

	if err := r.Run(addr); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}

func setupTransport(cfg *config.Config, logger *zap.Logger) (transport.Transport, *redis.Client) {
	if cfg.Redis.Host == "" {
		logger.Warn("Redis host not configured, running single-process fan-out only")
		return transport.NewLocal(), nil
	}

	client, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to fan-out backbone", zap.Error(err))
	}
	logger.Info("Fan-out backbone connected",
		zap.String("host", cfg.Redis.Host),
		zap.String("channel", cfg.Redis.Channel))

	return transport.NewRedis(client, cfg.Redis.Channel, logger), client
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
