package processevent

import (
	"encoding/json"
	"fmt"

	"github.com/medeiros-dev/notification-decision/internal/domain"
)

// ProcessEventInputDTO is the body of POST /event.
type ProcessEventInputDTO struct {
	EventID   string          `json:"eventId" binding:"required"`
	UserID    string          `json:"userId" binding:"required"`
	EventType string          `json:"eventType" binding:"required"`
	Timestamp string          `json:"timestamp" binding:"required"`
	Payload   json.RawMessage `json:"payload"`
}

func (in ProcessEventInputDTO) ToEvent() (domain.NotificationEvent, error) {
	ts, err := domain.ParseTimestamp(in.Timestamp)
	if err != nil {
		return domain.NotificationEvent{}, fmt.Errorf("event %s: %w", in.EventID, err)
	}
	return domain.NotificationEvent{
		EventID:   in.EventID,
		UserID:    in.UserID,
		EventType: in.EventType,
		Timestamp: ts,
		Payload:   in.Payload,
	}, nil
}
