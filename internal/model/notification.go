// internal/model/notification.go
package model

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationMatchUpdate NotificationType = "MATCH_UPDATE"
	NotificationGoal        NotificationType = "GOAL"
	NotificationCard        NotificationType = "CARD"
	NotificationInjury      NotificationType = "INJURY"
	NotificationTeamMessage NotificationType = "TEAM_MESSAGE"
	NotificationSystem      NotificationType = "SYSTEM"
)

// Notification is an ephemeral fire-and-forget message. It is delivered to
// whatever connections the recipient has open right now; nothing is queued
// or persisted for offline users.
type Notification struct {
	ID          uuid.UUID              `json:"id"`
	Type        NotificationType       `json:"type"`
	Title       string                 `json:"title"`
	Message     string                 `json:"message"`
	RecipientID uuid.UUID              `json:"recipientId"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	IsRead      bool                   `json:"isRead"`
	CreatedAt   time.Time              `json:"createdAt"`
}
