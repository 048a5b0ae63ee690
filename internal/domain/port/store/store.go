package store

import (
	"context"

	"github.com/medeiros-dev/notification-decision/internal/domain"
)

// PreferencesReader is the read side used by the decision chain.
type PreferencesReader interface {
	// GetUserPreferences returns domain.ErrNotFound when the user has none.
	GetUserPreferences(ctx context.Context, userID string) (domain.UserPreferences, error)
	// GetDndWindows returns an empty slice when the user has no windows.
	GetDndWindows(ctx context.Context, userID string) ([]domain.DndWindow, error)
}

// PreferencesStore must be safe for concurrent use.
type PreferencesStore interface {
	PreferencesReader

	// SetUserPreferences replaces the event types and resets both timestamps.
	SetUserPreferences(ctx context.Context, userID string, eventTypes domain.EventTypes) error
	// UpdateUserPreferences replaces the event types of an existing user and
	// bumps UpdatedAt. Returns domain.ErrNotFound if the user has none.
	UpdateUserPreferences(ctx context.Context, userID string, eventTypes domain.EventTypes) error
	// AddDndWindow stores a window and returns its generated id.
	AddDndWindow(ctx context.Context, userID string, window domain.DndWindow) (string, error)
	// RemoveDndWindow is a no-op when the window does not exist.
	RemoveDndWindow(ctx context.Context, userID, windowID string) error
}
