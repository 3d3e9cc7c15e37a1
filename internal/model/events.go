// internal/model/events.go
package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Inbound event names.
const (
	EventMatchJoin         = "match:join"
	EventMatchLeave        = "match:leave"
	EventMatchScoreUpdate  = "match:score-update"
	EventMatchEventLogged  = "match:event-logged"
	EventMatchStatusChange = "match:status-change"
	EventNotificationSend  = "notification:send"
	EventNotificationRead  = "notification:read"
	EventPresenceChange    = "presence:status-change"
	EventTeamJoin          = "team:join"
	EventTeamMessage       = "team:message"
	EventTeamLeave         = "team:leave"
)

// Outbound event names.
const (
	EventMatchUserJoined   = "match:user-joined"
	EventMatchUserLeft     = "match:user-left"
	EventMatchScoreUpdated = "match:score-updated"
	EventMatchStatusNotice = "match:status-changed"
	EventNotificationNew   = "notification:new"
	EventNotificationAck   = "notification:acknowledged"
	EventPresenceOnline    = "presence:user-online"
	EventPresenceOffline   = "presence:user-offline"
	EventPresenceStatus    = "presence:user-status"
	EventTeamUserJoined    = "team:user-joined"
	EventTeamUserLeft      = "team:user-left"
	EventTeamMessageRecv   = "team:message-received"
)

// DefaultTeamMessageType is applied when team:message carries no type tag.
const DefaultTeamMessageType = "TEXT"

// ===== Inbound payloads =====
//
// One struct per inbound event, required fields checked by Validate.
// A failing Validate means the event is dropped as malformed.

type MatchJoinPayload struct {
	MatchID string     `json:"matchId"`
	TeamID  string     `json:"teamId,omitempty"`
	Role    ViewerRole `json:"role,omitempty"`
}

func (p *MatchJoinPayload) Validate() error {
	if p.MatchID == "" {
		return fmt.Errorf("%w: match:join requires matchId", ErrMalformedEvent)
	}
	return nil
}

type MatchLeavePayload struct {
	MatchID string `json:"matchId"`
}

func (p *MatchLeavePayload) Validate() error {
	if p.MatchID == "" {
		return fmt.Errorf("%w: match:leave requires matchId", ErrMalformedEvent)
	}
	return nil
}

type ScoreUpdatePayload struct {
	MatchID   string `json:"matchId"`
	HomeGoals *int   `json:"homeGoals"`
	AwayGoals *int   `json:"awayGoals"`
	Minute    *int   `json:"minute,omitempty"`
}

func (p *ScoreUpdatePayload) Validate() error {
	if p.MatchID == "" || p.HomeGoals == nil || p.AwayGoals == nil {
		return fmt.Errorf("%w: match:score-update requires matchId, homeGoals and awayGoals", ErrMalformedEvent)
	}
	return nil
}

type MatchEventPayload struct {
	MatchID     string `json:"matchId"`
	EventType   string `json:"eventType"`
	PlayerID    string `json:"playerId"`
	PlayerName  string `json:"playerName,omitempty"`
	Minute      *int   `json:"minute"`
	Description string `json:"description,omitempty"`
}

func (p *MatchEventPayload) Validate() error {
	if p.MatchID == "" || p.EventType == "" || p.PlayerID == "" || p.Minute == nil {
		return fmt.Errorf("%w: match:event-logged requires matchId, eventType, playerId and minute", ErrMalformedEvent)
	}
	return nil
}

type StatusChangePayload struct {
	MatchID string      `json:"matchId"`
	Status  MatchStatus `json:"status"`
}

func (p *StatusChangePayload) Validate() error {
	if p.MatchID == "" {
		return fmt.Errorf("%w: match:status-change requires matchId", ErrMalformedEvent)
	}
	if !p.Status.Valid() {
		return fmt.Errorf("%w: unknown match status %q", ErrMalformedEvent, p.Status)
	}
	return nil
}

type NotificationSendPayload struct {
	RecipientID uuid.UUID              `json:"recipientId"`
	Type        NotificationType       `json:"type"`
	Title       string                 `json:"title"`
	Message     string                 `json:"message"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

func (p *NotificationSendPayload) Validate() error {
	if p.RecipientID == uuid.Nil || p.Type == "" || p.Title == "" || p.Message == "" {
		return fmt.Errorf("%w: notification:send requires recipientId, type, title and message", ErrMalformedEvent)
	}
	return nil
}

type NotificationReadPayload struct {
	NotificationID uuid.UUID `json:"notificationId"`
}

func (p *NotificationReadPayload) Validate() error {
	if p.NotificationID == uuid.Nil {
		return fmt.Errorf("%w: notification:read requires notificationId", ErrMalformedEvent)
	}
	return nil
}

type PresenceChangePayload struct {
	Status PresenceStatus `json:"status"`
}

func (p *PresenceChangePayload) Validate() error {
	if !p.Status.Valid() {
		return fmt.Errorf("%w: unknown presence status %q", ErrMalformedEvent, p.Status)
	}
	return nil
}

type TeamJoinPayload struct {
	TeamID string `json:"teamId"`
}

func (p *TeamJoinPayload) Validate() error {
	if p.TeamID == "" {
		return fmt.Errorf("%w: team:join requires teamId", ErrMalformedEvent)
	}
	return nil
}

type TeamLeavePayload struct {
	TeamID string `json:"teamId"`
}

func (p *TeamLeavePayload) Validate() error {
	if p.TeamID == "" {
		return fmt.Errorf("%w: team:leave requires teamId", ErrMalformedEvent)
	}
	return nil
}

type TeamMessagePayload struct {
	TeamID  string `json:"teamId"`
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
}

func (p *TeamMessagePayload) Validate() error {
	if p.TeamID == "" || p.Message == "" {
		return fmt.Errorf("%w: team:message requires teamId and message", ErrMalformedEvent)
	}
	return nil
}

// ===== Outbound payloads =====

type MatchUserEvent struct {
	MatchID    string    `json:"matchId"`
	UserID     uuid.UUID `json:"userId"`
	TotalUsers int       `json:"totalUsers"`
	Timestamp  time.Time `json:"timestamp"`
}

type TeamUserEvent struct {
	TeamID    string    `json:"teamId"`
	UserID    uuid.UUID `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
}

type ScoreUpdatedEvent struct {
	MatchID   string    `json:"matchId"`
	HomeGoals int       `json:"homeGoals"`
	AwayGoals int       `json:"awayGoals"`
	Minute    *int      `json:"minute,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type MatchEventLoggedEvent struct {
	MatchID     string    `json:"matchId"`
	EventType   string    `json:"eventType"`
	PlayerID    string    `json:"playerId"`
	PlayerName  string    `json:"playerName,omitempty"`
	Minute      int       `json:"minute"`
	Description string    `json:"description,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

type StatusChangedEvent struct {
	MatchID   string      `json:"matchId"`
	Status    MatchStatus `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
}

type NotificationAckEvent struct {
	NotificationID uuid.UUID `json:"notificationId"`
	Read           bool      `json:"read"`
	Timestamp      time.Time `json:"timestamp"`
}

type TeamMessageEvent struct {
	TeamID    string    `json:"teamId"`
	UserID    uuid.UUID `json:"userId"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}
