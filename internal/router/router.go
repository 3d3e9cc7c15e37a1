package router

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"live-service/internal/config"
	"live-service/internal/handler"
	"live-service/internal/metrics"
	"live-service/internal/middleware"
	"live-service/internal/realtime"
	"live-service/internal/transport"
)

// Setup wires the realtime core and the HTTP surface. The returned hub must
// be subscribed to the transport by the caller before serving traffic.
func Setup(cfg *config.Config, tr transport.Transport, redisClient *redis.Client, logger *zap.Logger) (*gin.Engine, *realtime.Hub) {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.WebSocket.AllowedOrigin))
	r.Use(metrics.Middleware())

	// Realtime core
	registry := realtime.NewRegistry()
	presence := realtime.NewPresenceTracker(registry)
	rooms := realtime.NewRoomManager()
	matches := realtime.NewMatchStateStore()
	hub := realtime.NewHub(registry, presence, rooms, matches, tr, logger)

	// Handlers
	validator := middleware.NewAuthServiceValidator(cfg.Auth.ServiceURL, cfg.Auth.SecretKey, logger)
	wsHandler := handler.NewWSHandler(hub, validator, &cfg.WebSocket, logger)
	statsHandler := handler.NewStatsHandler(hub, logger)
	healthHandler := handler.NewHealthHandler(redisClient)

	// Health endpoints (no auth)
	r.GET("/health", healthHandler.Health)
	r.GET("/ready", healthHandler.Ready)
	r.GET("/metrics", metrics.Handler())

	api := r.Group(cfg.Server.BasePath)
	{
		api.GET("/health", healthHandler.Health)
		api.GET("/ready", healthHandler.Ready)

		// WebSocket entry; auth happens in the handler before the upgrade
		api.GET("/ws", wsHandler.HandleWebSocket)
		api.GET("/ws/config", wsHandler.HandleConfig)

		authenticated := api.Group("")
		authenticated.Use(middleware.AuthMiddleware(validator))
		{
			authenticated.GET("/presence/online", statsHandler.GetOnlineUsers)
			authenticated.GET("/presence/status/:userId", statsHandler.GetUserStatus)
			authenticated.GET("/rooms/:name/members", statsHandler.GetRoomMembers)
			authenticated.GET("/matches/:matchId", statsHandler.GetMatch)
			authenticated.GET("/stats", statsHandler.GetStats)
		}
	}

	return r, hub
}
