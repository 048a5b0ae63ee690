package domain

import (
	"fmt"
	"time"
)

type EventTypePreference struct {
	Enabled  bool     `json:"enabled"`
	Channels []string `json:"channels"`
}

// EventTypes maps an event type to its subscription settings.
// An absent key means the event type is not configured.
type EventTypes map[string]EventTypePreference

type UserPreferences struct {
	UserID     string     `json:"userId"`
	EventTypes EventTypes `json:"eventTypes"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// Clone returns a deep copy, so callers can't alias stored channel slices.
func (e EventTypes) Clone() EventTypes {
	out := make(EventTypes, len(e))
	for name, pref := range e {
		channels := make([]string, len(pref.Channels))
		copy(channels, pref.Channels)
		out[name] = EventTypePreference{Enabled: pref.Enabled, Channels: channels}
	}
	return out
}

func (e EventTypes) Validate() error {
	for name, pref := range e {
		if name == "" {
			return fmt.Errorf("%w: empty event type name", ErrInvalidPreferences)
		}
		for _, ch := range pref.Channels {
			if ch == "" {
				return fmt.Errorf("%w: empty channel for event type %q", ErrInvalidPreferences, name)
			}
		}
	}
	return nil
}
