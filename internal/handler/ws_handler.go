// internal/handler/ws_handler.go
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"live-service/internal/config"
	"live-service/internal/middleware"
	"live-service/internal/realtime"
)

type WSHandler struct {
	hub       *realtime.Hub
	validator middleware.TokenValidator
	cfg       *config.WebSocketConfig
	upgrader  websocket.Upgrader
	logger    *zap.Logger
}

func NewWSHandler(hub *realtime.Hub, validator middleware.TokenValidator, cfg *config.WebSocketConfig, logger *zap.Logger) *WSHandler {
	return &WSHandler{
		hub:       hub,
		validator: validator,
		cfg:       cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return middleware.OriginAllowed(cfg.AllowedOrigin, r.Header.Get("Origin"))
			},
		},
		logger: logger,
	}
}

// HandleWebSocket authenticates and upgrades a client connection. A missing
// or invalid token is rejected before any registration happens; the client
// sees a plain connection refusal.
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	identity, err := h.validator.ValidateToken(ctx, token)
	if err != nil {
		h.logger.Warn("rejected websocket connect", zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	displayName := c.Query("name")
	if displayName == "" {
		displayName = identity.DisplayName
	}
	if displayName == "" {
		displayName = "Unknown"
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("failed to upgrade connection", zap.Error(err))
		return
	}

	client := realtime.NewClient(h.hub, conn, identity.UserID, displayName, h.cfg.MaxMessageSize, h.logger)
	client.Run()
}

// HandleConfig hands clients the reconnection backoff parameters so every
// app version backs off the same way.
func (h *WSHandler) HandleConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"maxMessageSize": h.cfg.MaxMessageSize,
		"reconnect":      h.cfg.Reconnect,
	})
}
