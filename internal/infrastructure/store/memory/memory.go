package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/medeiros-dev/notification-decision/configs"
	"github.com/medeiros-dev/notification-decision/internal/app/registry"
	"github.com/medeiros-dev/notification-decision/internal/domain"
	"github.com/medeiros-dev/notification-decision/internal/domain/port/store"
)

const DriverName = "memory"

func init() {
	if err := registry.RegisterStoreFactory(DriverName, func(cfg *configs.Config) (store.PreferencesStore, error) {
		return New(), nil
	}); err != nil {
		panic(err)
	}
}

// Store keeps preferences and windows in process memory. Values are copied
// on the way in and out.
type Store struct {
	mu      sync.RWMutex
	prefs   map[string]domain.UserPreferences
	windows map[string][]domain.DndWindow

	now   func() time.Time
	newID func() string
}

func New() *Store {
	return &Store{
		prefs:   make(map[string]domain.UserPreferences),
		windows: make(map[string][]domain.DndWindow),
		now:     func() time.Time { return time.Now().UTC() },
		newID:   func() string { return uuid.New().String() },
	}
}

func (s *Store) GetUserPreferences(ctx context.Context, userID string) (domain.UserPreferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prefs, ok := s.prefs[userID]
	if !ok {
		return domain.UserPreferences{}, domain.ErrNotFound
	}
	prefs.EventTypes = prefs.EventTypes.Clone()
	return prefs, nil
}

func (s *Store) SetUserPreferences(ctx context.Context, userID string, eventTypes domain.EventTypes) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.prefs[userID] = domain.UserPreferences{
		UserID:     userID,
		EventTypes: eventTypes.Clone(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return nil
}

func (s *Store) UpdateUserPreferences(ctx context.Context, userID string, eventTypes domain.EventTypes) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefs, ok := s.prefs[userID]
	if !ok {
		return domain.ErrNotFound
	}
	prefs.EventTypes = eventTypes.Clone()
	prefs.UpdatedAt = s.now()
	s.prefs[userID] = prefs
	return nil
}

func (s *Store) GetDndWindows(ctx context.Context, userID string) ([]domain.DndWindow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.windows[userID]
	out := make([]domain.DndWindow, 0, len(stored))
	for _, w := range stored {
		out = append(out, copyWindow(w))
	}
	return out, nil
}

func (s *Store) AddDndWindow(ctx context.Context, userID string, window domain.DndWindow) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := copyWindow(window)
	w.WindowID = s.newID()
	w.UserID = userID
	w.CreatedAt = s.now()
	if w.Timezone == "" {
		w.Timezone = domain.DefaultTimezone
	}
	s.windows[userID] = append(s.windows[userID], w)
	return w.WindowID, nil
}

func (s *Store) RemoveDndWindow(ctx context.Context, userID, windowID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := s.windows[userID]
	for i, w := range stored {
		if w.WindowID == windowID {
			s.windows[userID] = append(stored[:i:i], stored[i+1:]...)
			break
		}
	}
	if len(s.windows[userID]) == 0 {
		delete(s.windows, userID)
	}
	return nil
}

func copyWindow(w domain.DndWindow) domain.DndWindow {
	days := make([]string, len(w.Days))
	copy(days, w.Days)
	w.Days = days
	return w
}
