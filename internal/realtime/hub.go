// internal/realtime/hub.go
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"live-service/internal/metrics"
	"live-service/internal/model"
	"live-service/internal/transport"
)

// Hub is the inbound event router. It owns no state of its own: it mutates
// the registry, rooms, match store and presence tracker, and routes every
// resulting broadcast through the fan-out transport so all server processes
// deliver it.
//
// Handlers return errors for testability; on the wire everything stays
// fire-and-forget. A malformed event is logged and dropped, never answered
// and never a reason to disconnect the client.
type Hub struct {
	registry  *Registry
	presence  *PresenceTracker
	rooms     *RoomManager
	matches   *MatchStateStore
	transport transport.Transport
	origin    string
	logger    *zap.Logger
}

func NewHub(
	registry *Registry,
	presence *PresenceTracker,
	rooms *RoomManager,
	matches *MatchStateStore,
	tr transport.Transport,
	logger *zap.Logger,
) *Hub {
	h := &Hub{
		registry:  registry,
		presence:  presence,
		rooms:     rooms,
		matches:   matches,
		transport: tr,
		origin:    uuid.NewString(),
		logger:    logger,
	}

	// Match state lives and dies with its room.
	rooms.OnEmpty(func(name string) {
		if matchID := MatchIDFromRoom(name); matchID != "" {
			matches.Delete(matchID)
		}
		metrics.SetActiveRooms(rooms.RoomCount())
		metrics.SetActiveMatches(matches.Count())
	})

	return h
}

func (h *Hub) Registry() *Registry        { return h.registry }
func (h *Hub) Presence() *PresenceTracker { return h.presence }
func (h *Hub) Rooms() *RoomManager        { return h.rooms }
func (h *Hub) Matches() *MatchStateStore  { return h.matches }

// Connect registers an authenticated connection. The caller has already
// verified identity; an unauthenticated connection never reaches the hub.
func (h *Hub) Connect(c Conn) {
	metrics.RecordConnection()
	if first := h.registry.Register(c); first {
		rec := h.presence.MarkOnline(c.UserID())
		h.emitAll(model.EventPresenceOnline, rec)
	}
	h.logger.Info("connection registered",
		zap.String("connId", c.ID()),
		zap.String("userId", c.UserID().String()))
}

// Disconnect tears down everything the connection touched: room
// memberships (emitting user-left per room), the registry entry and, for
// the user's last connection, presence. Safe to call more than once.
func (h *Hub) Disconnect(c Conn) {
	for _, name := range h.rooms.RoomsOf(c.ID()) {
		h.leaveRoom(c, name)
	}

	removed, last := h.registry.Unregister(c.UserID(), c.ID())
	if !removed {
		return // already torn down
	}
	if last {
		rec := h.presence.MarkOffline(c.UserID())
		h.emitAll(model.EventPresenceOffline, rec)
	}
	metrics.RecordDisconnection()

	h.logger.Info("connection unregistered",
		zap.String("connId", c.ID()),
		zap.String("userId", c.UserID().String()))
}

// HandleFrame dispatches one inbound client frame.
func (h *Hub) HandleFrame(c Conn, raw []byte) error {
	var frame model.ClientFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		metrics.RecordEventDropped()
		return fmt.Errorf("%w: %v", model.ErrMalformedEvent, err)
	}

	metrics.RecordEventReceived(frame.Type)

	var err error
	switch frame.Type {
	case model.EventMatchJoin:
		var p model.MatchJoinPayload
		if err = decode(frame.Data, &p); err == nil {
			err = h.matchJoin(c, &p)
		}
	case model.EventMatchLeave:
		var p model.MatchLeavePayload
		if err = decode(frame.Data, &p); err == nil {
			err = h.matchLeave(c, &p)
		}
	case model.EventMatchScoreUpdate:
		var p model.ScoreUpdatePayload
		if err = decode(frame.Data, &p); err == nil {
			err = h.scoreUpdate(c, &p)
		}
	case model.EventMatchEventLogged:
		var p model.MatchEventPayload
		if err = decode(frame.Data, &p); err == nil {
			err = h.matchEventLogged(c, &p)
		}
	case model.EventMatchStatusChange:
		var p model.StatusChangePayload
		if err = decode(frame.Data, &p); err == nil {
			err = h.statusChange(c, &p)
		}
	case model.EventNotificationSend:
		var p model.NotificationSendPayload
		if err = decode(frame.Data, &p); err == nil {
			err = h.notificationSend(c, &p)
		}
	case model.EventNotificationRead:
		var p model.NotificationReadPayload
		if err = decode(frame.Data, &p); err == nil {
			err = h.notificationRead(c, &p)
		}
	case model.EventPresenceChange:
		var p model.PresenceChangePayload
		if err = decode(frame.Data, &p); err == nil {
			err = h.presenceChange(c, &p)
		}
	case model.EventTeamJoin:
		var p model.TeamJoinPayload
		if err = decode(frame.Data, &p); err == nil {
			err = h.teamJoin(c, &p)
		}
	case model.EventTeamMessage:
		var p model.TeamMessagePayload
		if err = decode(frame.Data, &p); err == nil {
			err = h.teamMessage(c, &p)
		}
	case model.EventTeamLeave:
		var p model.TeamLeavePayload
		if err = decode(frame.Data, &p); err == nil {
			err = h.teamLeave(c, &p)
		}
	default:
		err = fmt.Errorf("%w: unknown event type %q", model.ErrMalformedEvent, frame.Type)
	}

	if err != nil {
		metrics.RecordEventDropped()
	}
	return err
}

func decode(data json.RawMessage, p interface{ Validate() error }) error {
	if len(data) > 0 {
		if err := json.Unmarshal(data, p); err != nil {
			return fmt.Errorf("%w: %v", model.ErrMalformedEvent, err)
		}
	}
	return p.Validate()
}

// ===== match rooms =====

func (h *Hub) matchJoin(c Conn, p *model.MatchJoinPayload) error {
	name := MatchRoomName(p.MatchID)
	if !h.rooms.Join(c, name) {
		return nil // already a member
	}

	total := h.matches.AddViewer(p.MatchID, c.ID(), model.MatchViewer{
		UserID:      c.UserID(),
		DisplayName: c.DisplayName(),
		Role:        p.Role,
	})
	metrics.SetActiveRooms(h.rooms.RoomCount())
	metrics.SetActiveMatches(h.matches.Count())

	h.emitRoom(name, model.EventMatchUserJoined, model.MatchUserEvent{
		MatchID:    p.MatchID,
		UserID:     c.UserID(),
		TotalUsers: total,
		Timestamp:  time.Now().UTC(),
	}, "")
	return nil
}

func (h *Hub) matchLeave(c Conn, p *model.MatchLeavePayload) error {
	h.leaveRoom(c, MatchRoomName(p.MatchID))
	return nil
}

func (h *Hub) scoreUpdate(c Conn, p *model.ScoreUpdatePayload) error {
	now := time.Now().UTC()
	score := model.Score{HomeGoals: *p.HomeGoals, AwayGoals: *p.AwayGoals}

	// The relay does not require live state: a score for a match nobody
	// watches here may still have viewers on another process.
	h.matches.SetScore(p.MatchID, score, now)

	h.emitRoom(MatchRoomName(p.MatchID), model.EventMatchScoreUpdated, model.ScoreUpdatedEvent{
		MatchID:   p.MatchID,
		HomeGoals: score.HomeGoals,
		AwayGoals: score.AwayGoals,
		Minute:    p.Minute,
		Timestamp: now, // server-stamped; client clocks are not trusted
	}, "")
	return nil
}

func (h *Hub) matchEventLogged(c Conn, p *model.MatchEventPayload) error {
	h.emitRoom(MatchRoomName(p.MatchID), model.EventMatchEventLogged, model.MatchEventLoggedEvent{
		MatchID:     p.MatchID,
		EventType:   p.EventType,
		PlayerID:    p.PlayerID,
		PlayerName:  p.PlayerName,
		Minute:      *p.Minute,
		Description: p.Description,
		Timestamp:   time.Now().UTC(),
	}, "")
	return nil
}

func (h *Hub) statusChange(c Conn, p *model.StatusChangePayload) error {
	now := time.Now().UTC()
	h.matches.SetStatus(p.MatchID, p.Status, now)

	h.emitRoom(MatchRoomName(p.MatchID), model.EventMatchStatusNotice, model.StatusChangedEvent{
		MatchID:   p.MatchID,
		Status:    p.Status,
		Timestamp: now,
	}, "")
	return nil
}

// leaveRoom removes the connection from a room and tells the remaining
// members. Used by explicit leaves and by disconnect teardown.
func (h *Hub) leaveRoom(c Conn, name string) {
	left, _ := h.rooms.Leave(c.ID(), name)
	if !left {
		return
	}
	now := time.Now().UTC()

	if matchID := MatchIDFromRoom(name); matchID != "" {
		total, _ := h.matches.RemoveViewer(matchID, c.ID())
		h.emitRoom(name, model.EventMatchUserLeft, model.MatchUserEvent{
			MatchID:    matchID,
			UserID:     c.UserID(),
			TotalUsers: total,
			Timestamp:  now,
		}, "")
	} else if teamID := TeamIDFromRoom(name); teamID != "" {
		h.emitRoom(name, model.EventTeamUserLeft, model.TeamUserEvent{
			TeamID:    teamID,
			UserID:    c.UserID(),
			Timestamp: now,
		}, "")
	}

	metrics.SetActiveRooms(h.rooms.RoomCount())
	metrics.SetActiveMatches(h.matches.Count())
}

// ===== team rooms =====

func (h *Hub) teamJoin(c Conn, p *model.TeamJoinPayload) error {
	name := TeamRoomName(p.TeamID)
	if !h.rooms.Join(c, name) {
		return nil
	}
	metrics.SetActiveRooms(h.rooms.RoomCount())

	h.emitRoom(name, model.EventTeamUserJoined, model.TeamUserEvent{
		TeamID:    p.TeamID,
		UserID:    c.UserID(),
		Timestamp: time.Now().UTC(),
	}, "")
	return nil
}

func (h *Hub) teamMessage(c Conn, p *model.TeamMessagePayload) error {
	msgType := p.Type
	if msgType == "" {
		msgType = model.DefaultTeamMessageType
	}

	// Verbatim relay: no history, no filtering. A member that joined after
	// this message simply never sees it.
	h.emitRoom(TeamRoomName(p.TeamID), model.EventTeamMessageRecv, model.TeamMessageEvent{
		TeamID:    p.TeamID,
		UserID:    c.UserID(),
		Message:   p.Message,
		Type:      msgType,
		Timestamp: time.Now().UTC(),
	}, "")
	return nil
}

func (h *Hub) teamLeave(c Conn, p *model.TeamLeavePayload) error {
	h.leaveRoom(c, TeamRoomName(p.TeamID))
	return nil
}

// ===== presence =====

func (h *Hub) presenceChange(c Conn, p *model.PresenceChangePayload) error {
	rec, ok := h.presence.SetStatus(c.UserID(), p.Status)
	if !ok {
		return nil
	}
	h.emitAll(model.EventPresenceStatus, rec)
	return nil
}

// ===== fan-out plumbing =====

// HandleBackbone is the transport subscriber entry point. Envelopes this
// process published are already delivered locally and are skipped here.
func (h *Hub) HandleBackbone(env *model.Envelope) {
	if env.Origin == h.origin {
		return
	}
	h.deliverLocal(env)
}

func (h *Hub) emitRoom(room, event string, payload interface{}, excludeConnID string) {
	h.publish(&model.Envelope{Room: room, Exclude: excludeConnID, Event: event, Data: mustMarshal(payload)})
}

func (h *Hub) emitUser(userID uuid.UUID, event string, payload interface{}) {
	h.publish(&model.Envelope{RecipientID: &userID, Event: event, Data: mustMarshal(payload)})
}

func (h *Hub) emitAll(event string, payload interface{}) {
	h.publish(&model.Envelope{Event: event, Data: mustMarshal(payload)})
}

func (h *Hub) publish(env *model.Envelope) {
	env.Origin = h.origin
	metrics.RecordBroadcast()

	h.deliverLocal(env)

	// Local delivery already happened, so a backbone failure only costs
	// remote processes; the transport logs the degradation.
	if err := h.transport.Publish(context.Background(), env); err != nil {
		h.logger.Debug("backbone publish failed", zap.String("event", env.Event), zap.Error(err))
	}
}

func (h *Hub) deliverLocal(env *model.Envelope) {
	frame, err := json.Marshal(model.ClientFrame{Type: env.Event, Data: env.Data})
	if err != nil {
		h.logger.Error("failed to marshal outbound frame", zap.Error(err))
		return
	}

	switch {
	case env.RecipientID != nil:
		for _, c := range h.registry.ConnectionsOf(*env.RecipientID) {
			c.Send(frame)
		}
	case env.Room != "":
		h.rooms.Broadcast(env.Room, frame, env.Exclude)
	default:
		for _, c := range h.registry.AllConns() {
			if c.ID() != env.Exclude {
				c.Send(frame)
			}
		}
	}
}

func mustMarshal(payload interface{}) json.RawMessage {
	data, err := json.Marshal(payload)
	if err != nil {
		// Payloads are our own structs; this cannot fail at runtime.
		panic(err)
	}
	return data
}
