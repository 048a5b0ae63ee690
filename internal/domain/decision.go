package domain

type Outcome string

const (
	OutcomeProcessNotification Outcome = "PROCESS_NOTIFICATION"
	OutcomeDoNotNotify         Outcome = "DO_NOT_NOTIFY"
)

type Reason string

const (
	ReasonUserNotFound         Reason = "USER_NOT_FOUND"
	ReasonUserUnsubscribed     Reason = "USER_UNSUBSCRIBED"
	ReasonDndActive            Reason = "DND_ACTIVE"
	ReasonNoChannelsConfigured Reason = "NO_CHANNELS_CONFIGURED"
)

// Decision is the terminal output of the decision chain. Outcome selects
// which of Channels (PROCESS_NOTIFICATION) or Reason (DO_NOT_NOTIFY) is set.
type Decision struct {
	Outcome  Outcome  `json:"decision"`
	EventID  string   `json:"eventId"`
	UserID   string   `json:"userId"`
	Channels []string `json:"channels,omitempty"`
	Reason   Reason   `json:"reason,omitempty"`
}

func ProcessNotification(event NotificationEvent, channels []string) Decision {
	out := make([]string, len(channels))
	copy(out, channels)
	return Decision{
		Outcome:  OutcomeProcessNotification,
		EventID:  event.EventID,
		UserID:   event.UserID,
		Channels: out,
	}
}

func DoNotNotify(event NotificationEvent, reason Reason) Decision {
	return Decision{
		Outcome: OutcomeDoNotNotify,
		EventID: event.EventID,
		UserID:  event.UserID,
		Reason:  reason,
	}
}
