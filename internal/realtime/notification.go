// internal/realtime/notification.go
package realtime

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"live-service/internal/metrics"
	"live-service/internal/model"
)

// notificationSend builds the payload and pushes it to every live
// connection of the recipient, here and on every other process. A recipient
// with no live connection anywhere simply never sees it: no queue, no
// retry, no persistence.
func (h *Hub) notificationSend(c Conn, p *model.NotificationSendPayload) error {
	notification := model.Notification{
		ID:          uuid.New(),
		Type:        p.Type,
		Title:       p.Title,
		Message:     p.Message,
		RecipientID: p.RecipientID,
		Metadata:    p.Metadata,
		IsRead:      false,
		CreatedAt:   time.Now().UTC(),
	}

	h.emitUser(p.RecipientID, model.EventNotificationNew, notification)

	if n := len(h.registry.ConnectionsOf(p.RecipientID)); n > 0 {
		metrics.RecordNotificationDelivered(n)
	} else {
		metrics.RecordNotificationDropped()
		h.logger.Debug("notification recipient has no live connection here",
			zap.String("recipientId", p.RecipientID.String()),
			zap.String("type", string(p.Type)))
	}
	return nil
}

// notificationRead acknowledges a read to the reader's own connections
// (other open tabs). Read state itself lives in the system of record.
func (h *Hub) notificationRead(c Conn, p *model.NotificationReadPayload) error {
	h.emitUser(c.UserID(), model.EventNotificationAck, model.NotificationAckEvent{
		NotificationID: p.NotificationID,
		Read:           true,
		Timestamp:      time.Now().UTC(),
	})
	return nil
}
