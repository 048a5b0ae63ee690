package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/medeiros-dev/notification-decision/configs"
	"github.com/medeiros-dev/notification-decision/internal/app/registry"
	"github.com/medeiros-dev/notification-decision/internal/domain"
	"github.com/medeiros-dev/notification-decision/internal/domain/port/store"
	"github.com/medeiros-dev/notification-decision/pkg/logger"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const DriverName = "sqlite"

func init() {
	if err := registry.RegisterStoreFactory(DriverName, func(cfg *configs.Config) (store.PreferencesStore, error) {
		return Open(context.Background(), cfg.SQLiteDSN)
	}); err != nil {
		panic(err)
	}
}

// Store persists preferences and DND windows in SQLite.
type Store struct {
	db    *sql.DB
	now   func() time.Time
	newID func() string
}

// Open connects to the database at dsn and applies the schema.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	// SQLite allows a single writer; serialising here avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	logger.L().Info("SQLite preferences store ready", zap.String("dsn", dsn))
	return New(db), nil
}

// New wraps an existing connection whose schema is already applied.
func New(db *sql.DB) *Store {
	return &Store{
		db:    db,
		now:   func() time.Time { return time.Now().UTC() },
		newID: func() string { return uuid.New().String() },
	}
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) GetUserPreferences(ctx context.Context, userID string) (domain.UserPreferences, error) {
	var (
		rawEventTypes        string
		createdAt, updatedAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT event_types, created_at, updated_at FROM user_preferences WHERE user_id = ?`,
		userID,
	).Scan(&rawEventTypes, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.UserPreferences{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.UserPreferences{}, fmt.Errorf("querying preferences: %w", err)
	}

	prefs := domain.UserPreferences{UserID: userID}
	if err := json.Unmarshal([]byte(rawEventTypes), &prefs.EventTypes); err != nil {
		return domain.UserPreferences{}, fmt.Errorf("%w: event types for user %s: %v", domain.ErrMalformedRecord, userID, err)
	}
	if prefs.EventTypes == nil {
		prefs.EventTypes = domain.EventTypes{}
	}
	if prefs.CreatedAt, err = parseTime(createdAt); err != nil {
		return domain.UserPreferences{}, err
	}
	if prefs.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return domain.UserPreferences{}, err
	}
	return prefs, nil
}

func (s *Store) SetUserPreferences(ctx context.Context, userID string, eventTypes domain.EventTypes) error {
	raw, err := encodeEventTypes(eventTypes)
	if err != nil {
		return err
	}
	now := formatTime(s.now())
	_, err = s.db.ExecContext(ctx, `
INSERT INTO user_preferences (user_id, event_types, created_at, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(user_id) DO UPDATE SET
    event_types = excluded.event_types,
    created_at = excluded.created_at,
    updated_at = excluded.updated_at`,
		userID, raw, now, now,
	)
	if err != nil {
		return fmt.Errorf("writing preferences: %w", err)
	}
	return nil
}

func (s *Store) UpdateUserPreferences(ctx context.Context, userID string, eventTypes domain.EventTypes) error {
	raw, err := encodeEventTypes(eventTypes)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE user_preferences SET event_types = ?, updated_at = ? WHERE user_id = ?`,
		raw, formatTime(s.now()), userID,
	)
	if err != nil {
		return fmt.Errorf("updating preferences: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating preferences: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) GetDndWindows(ctx context.Context, userID string) ([]domain.DndWindow, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT window_id, days, start_time, end_time, timezone, created_at
FROM dnd_windows WHERE user_id = ? ORDER BY seq`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying dnd windows: %w", err)
	}
	defer rows.Close()

	windows := []domain.DndWindow{}
	for rows.Next() {
		var (
			w                domain.DndWindow
			rawDays, created string
		)
		if err := rows.Scan(&w.WindowID, &rawDays, &w.StartTime, &w.EndTime, &w.Timezone, &created); err != nil {
			return nil, fmt.Errorf("scanning dnd window: %w", err)
		}
		if err := json.Unmarshal([]byte(rawDays), &w.Days); err != nil {
			return nil, fmt.Errorf("%w: days of window %s: %v", domain.ErrMalformedRecord, w.WindowID, err)
		}
		if w.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		w.UserID = userID
		windows = append(windows, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating dnd windows: %w", err)
	}
	return windows, nil
}

func (s *Store) AddDndWindow(ctx context.Context, userID string, window domain.DndWindow) (string, error) {
	days := window.Days
	if days == nil {
		days = []string{}
	}
	rawDays, err := json.Marshal(days)
	if err != nil {
		return "", fmt.Errorf("encoding days: %w", err)
	}
	timezone := window.Timezone
	if timezone == "" {
		timezone = domain.DefaultTimezone
	}

	windowID := s.newID()
	_, err = s.db.ExecContext(ctx, `
INSERT INTO dnd_windows (window_id, user_id, days, start_time, end_time, timezone, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		windowID, userID, string(rawDays), window.StartTime, window.EndTime, timezone, formatTime(s.now()),
	)
	if err != nil {
		return "", fmt.Errorf("inserting dnd window: %w", err)
	}
	return windowID, nil
}

func (s *Store) RemoveDndWindow(ctx context.Context, userID, windowID string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM dnd_windows WHERE user_id = ? AND window_id = ?`,
		userID, windowID,
	); err != nil {
		return fmt.Errorf("deleting dnd window: %w", err)
	}
	return nil
}

func encodeEventTypes(eventTypes domain.EventTypes) (string, error) {
	normalised := make(domain.EventTypes, len(eventTypes))
	for name, pref := range eventTypes {
		if pref.Channels == nil {
			pref.Channels = []string{}
		}
		normalised[name] = pref
	}
	raw, err := json.Marshal(normalised)
	if err != nil {
		return "", fmt.Errorf("encoding event types: %w", err)
	}
	return string(raw), nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: timestamp %q: %v", domain.ErrMalformedRecord, value, err)
	}
	return t, nil
}
