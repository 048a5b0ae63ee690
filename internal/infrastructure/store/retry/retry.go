// Package retry wraps a preferences store so transient failures are retried
// with exponential backoff. Not-found results, validation errors, malformed
// stored records and cancelled contexts are returned immediately.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/medeiros-dev/notification-decision/internal/domain"
	"github.com/medeiros-dev/notification-decision/internal/domain/port/store"
	"github.com/medeiros-dev/notification-decision/internal/observability/metrics"
	"github.com/medeiros-dev/notification-decision/pkg/backoff"
	"github.com/medeiros-dev/notification-decision/pkg/logger"
	"go.uber.org/zap"
)

type Store struct {
	inner      store.PreferencesStore
	maxRetries int
	baseDelay  time.Duration
	sleep      func(ctx context.Context, d time.Duration) error
}

// Wrap returns inner unchanged when maxRetries is not positive.
func Wrap(inner store.PreferencesStore, maxRetries int, baseDelay time.Duration) store.PreferencesStore {
	if maxRetries <= 0 {
		return inner
	}
	return &Store{
		inner:      inner,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		sleep:      backoff.Sleep,
	}
}

// Unwrap exposes the decorated store, e.g. to close it.
func (s *Store) Unwrap() store.PreferencesStore {
	return s.inner
}

func retryable(err error) bool {
	switch {
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrInvalidPreferences),
		errors.Is(err, domain.ErrInvalidWindow),
		errors.Is(err, domain.ErrMalformedRecord),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return false
	}
	return true
}

func (s *Store) do(ctx context.Context, operation string, fn func() error) error {
	var err error
	for attempt := 1; attempt <= s.maxRetries+1; attempt++ {
		if attempt > 1 {
			delay := backoff.CalculateRetryDelay(attempt, s.baseDelay)
			metrics.StoreRetriesTotal.WithLabelValues(operation).Inc()
			logger.Ctx(ctx).Warn("Retrying preferences store call",
				zap.String("operation", operation),
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
				zap.Error(err),
			)
			if sleepErr := s.sleep(ctx, delay); sleepErr != nil {
				return errors.Join(sleepErr, err)
			}
		}
		err = fn()
		if err == nil || !retryable(err) {
			return err
		}
	}
	logger.Ctx(ctx).Error("Preferences store call failed after retries",
		zap.String("operation", operation),
		zap.Int("attempts", s.maxRetries+1),
		zap.Error(err),
	)
	return err
}

func (s *Store) GetUserPreferences(ctx context.Context, userID string) (domain.UserPreferences, error) {
	var prefs domain.UserPreferences
	err := s.do(ctx, "get_user_preferences", func() error {
		var err error
		prefs, err = s.inner.GetUserPreferences(ctx, userID)
		return err
	})
	return prefs, err
}

func (s *Store) GetDndWindows(ctx context.Context, userID string) ([]domain.DndWindow, error) {
	var windows []domain.DndWindow
	err := s.do(ctx, "get_dnd_windows", func() error {
		var err error
		windows, err = s.inner.GetDndWindows(ctx, userID)
		return err
	})
	return windows, err
}

func (s *Store) SetUserPreferences(ctx context.Context, userID string, eventTypes domain.EventTypes) error {
	return s.do(ctx, "set_user_preferences", func() error {
		return s.inner.SetUserPreferences(ctx, userID, eventTypes)
	})
}

func (s *Store) UpdateUserPreferences(ctx context.Context, userID string, eventTypes domain.EventTypes) error {
	return s.do(ctx, "update_user_preferences", func() error {
		return s.inner.UpdateUserPreferences(ctx, userID, eventTypes)
	})
}

// AddDndWindow is not retried: a write that failed after committing would
// be repeated under a fresh window id.
func (s *Store) AddDndWindow(ctx context.Context, userID string, window domain.DndWindow) (string, error) {
	return s.inner.AddDndWindow(ctx, userID, window)
}

func (s *Store) RemoveDndWindow(ctx context.Context, userID, windowID string) error {
	return s.do(ctx, "remove_dnd_window", func() error {
		return s.inner.RemoveDndWindow(ctx, userID, windowID)
	})
}
