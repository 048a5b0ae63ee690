package chain

import (
	"context"
	"errors"
	"fmt"

	"github.com/medeiros-dev/notification-decision/internal/app/dnd"
	"github.com/medeiros-dev/notification-decision/internal/domain"
	"github.com/medeiros-dev/notification-decision/internal/domain/port/store"
)

// UserExists halts with USER_NOT_FOUND when the user has no preferences.
// This is the only stage that treats domain.ErrNotFound as a decision.
type UserExists struct {
	store store.PreferencesReader
}

func NewUserExists(s store.PreferencesReader) *UserExists {
	return &UserExists{store: s}
}

func (h *UserExists) Name() string { return "user_exists" }

func (h *UserExists) Evaluate(ctx context.Context, event domain.NotificationEvent) (Result, error) {
	if _, err := h.store.GetUserPreferences(ctx, event.UserID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return Halt(domain.DoNotNotify(event, domain.ReasonUserNotFound)), nil
		}
		return Result{}, fmt.Errorf("fetching preferences for user %s: %w", event.UserID, err)
	}
	return Next(), nil
}

// EventTypeSubscription halts with USER_UNSUBSCRIBED when the event type is
// missing from the user's preferences or disabled.
type EventTypeSubscription struct {
	store store.PreferencesReader
}

func NewEventTypeSubscription(s store.PreferencesReader) *EventTypeSubscription {
	return &EventTypeSubscription{store: s}
}

func (h *EventTypeSubscription) Name() string { return "event_type_subscription" }

func (h *EventTypeSubscription) Evaluate(ctx context.Context, event domain.NotificationEvent) (Result, error) {
	prefs, err := h.store.GetUserPreferences(ctx, event.UserID)
	if err != nil {
		return Result{}, fmt.Errorf("fetching preferences for user %s: %w", event.UserID, err)
	}
	pref, ok := prefs.EventTypes[event.EventType]
	if !ok || !pref.Enabled {
		return Halt(domain.DoNotNotify(event, domain.ReasonUserUnsubscribed)), nil
	}
	return Next(), nil
}

// Dnd halts with DND_ACTIVE when the event timestamp falls inside any of
// the user's do-not-disturb windows.
type Dnd struct {
	store store.PreferencesReader
}

func NewDnd(s store.PreferencesReader) *Dnd {
	return &Dnd{store: s}
}

func (h *Dnd) Name() string { return "dnd" }

func (h *Dnd) Evaluate(ctx context.Context, event domain.NotificationEvent) (Result, error) {
	windows, err := h.store.GetDndWindows(ctx, event.UserID)
	if err != nil {
		return Result{}, fmt.Errorf("fetching dnd windows for user %s: %w", event.UserID, err)
	}
	active, err := dnd.AnyContains(windows, event.Timestamp)
	if err != nil {
		return Result{}, fmt.Errorf("evaluating dnd windows for user %s: %w", event.UserID, err)
	}
	if active {
		return Halt(domain.DoNotNotify(event, domain.ReasonDndActive)), nil
	}
	return Next(), nil
}

// ChannelConfiguration always decides: PROCESS_NOTIFICATION with the stored
// channels in order, or NO_CHANNELS_CONFIGURED when there are none.
type ChannelConfiguration struct {
	store store.PreferencesReader
}

func NewChannelConfiguration(s store.PreferencesReader) *ChannelConfiguration {
	return &ChannelConfiguration{store: s}
}

func (h *ChannelConfiguration) Name() string { return "channel_configuration" }

func (h *ChannelConfiguration) Evaluate(ctx context.Context, event domain.NotificationEvent) (Result, error) {
	prefs, err := h.store.GetUserPreferences(ctx, event.UserID)
	if err != nil {
		return Result{}, fmt.Errorf("fetching preferences for user %s: %w", event.UserID, err)
	}
	// The event type may have been removed since the subscription check.
	pref, ok := prefs.EventTypes[event.EventType]
	if !ok || len(pref.Channels) == 0 {
		return Halt(domain.DoNotNotify(event, domain.ReasonNoChannelsConfigured)), nil
	}
	return Halt(domain.ProcessNotification(event, pref.Channels)), nil
}
