// internal/handler/stats_handler.go
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"live-service/internal/realtime"
)

// StatsHandler exposes read-only views over the live in-memory state for
// dashboards and debugging. Nothing here mutates the realtime core.
type StatsHandler struct {
	hub    *realtime.Hub
	logger *zap.Logger
}

func NewStatsHandler(hub *realtime.Hub, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{hub: hub, logger: logger}
}

// GetOnlineUsers returns everyone currently online or away.
func (h *StatsHandler) GetOnlineUsers(c *gin.Context) {
	c.JSON(http.StatusOK, h.hub.Presence().OnlineUsers())
}

// GetUserStatus returns a single user's presence; unknown users are offline.
func (h *StatsHandler) GetUserStatus(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   gin.H{"code": "BAD_REQUEST", "message": "Invalid user ID"},
		})
		return
	}

	c.JSON(http.StatusOK, h.hub.Presence().Status(userID))
}

// GetRoomMembers returns the member count of one room, zero for absent rooms.
func (h *StatsHandler) GetRoomMembers(c *gin.Context) {
	name := c.Param("name")
	c.JSON(http.StatusOK, gin.H{
		"room":    name,
		"members": h.hub.Rooms().MemberCount(name),
	})
}

// GetMatch returns the live state of one match room.
func (h *StatsHandler) GetMatch(c *gin.Context) {
	snap, ok := h.hub.Matches().Snapshot(c.Param("matchId"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   gin.H{"code": "NOT_FOUND", "message": "No live state for this match"},
		})
		return
	}

	c.JSON(http.StatusOK, snap)
}

// GetStats returns coarse liveness counters.
func (h *StatsHandler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"connectedUsers": h.hub.Registry().Count(),
		"activeRooms":    h.hub.Rooms().RoomCount(),
		"activeMatches":  h.hub.Matches().Count(),
	})
}
