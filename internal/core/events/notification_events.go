package events

import (
	"time"

	"github.com/google/uuid"
)

// EventTypeNotification is the single event type the admin client publishes:
// transient user-facing notices about mutation outcomes.
const EventTypeNotification = "notification"

// Notification levels.
const (
	LevelInfo  = "info"
	LevelError = "error"
)

// NewNotification builds a transient notification event.
func NewNotification(level, message string) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      EventTypeNotification,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"level":   level,
			"message": message,
		},
	}
}

// NotificationMessage pulls the message out of a notification event.
func NotificationMessage(e Event) string {
	data, ok := e.Payload().(map[string]interface{})
	if !ok {
		return ""
	}
	msg, _ := data["message"].(string)
	return msg
}

// NotificationLevel pulls the level out of a notification event.
func NotificationLevel(e Event) string {
	data, ok := e.Payload().(map[string]interface{})
	if !ok {
		return ""
	}
	level, _ := data["level"].(string)
	return level
}
