package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// NotificationEvent is a business event addressed to a single user.
// Payload is carried through untouched.
type NotificationEvent struct {
	EventID   string          `json:"eventId"`
	UserID    string          `json:"userId"`
	EventType string          `json:"eventType"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// Timestamps without an offset are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05.999999999Z07",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
}

// ParseTimestamp parses an ISO-8601 instant. Offsets may be extended
// (+02:00), basic (+0200) or hours only (+02).
func ParseTimestamp(value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unparsable timestamp %q", ErrInvalidEvent, value)
}

// NotificationCommand is the audit record of an event entering the pipeline.
type NotificationCommand struct {
	EventID    string    `json:"eventId"`
	UserID     string    `json:"userId"`
	EventType  string    `json:"eventType"`
	OccurredAt time.Time `json:"occurredAt"`
	ReceivedAt time.Time `json:"receivedAt"`
}

func NewNotificationCommand(event NotificationEvent, receivedAt time.Time) NotificationCommand {
	return NotificationCommand{
		EventID:    event.EventID,
		UserID:     event.UserID,
		EventType:  event.EventType,
		OccurredAt: event.Timestamp,
		ReceivedAt: receivedAt.UTC(),
	}
}
