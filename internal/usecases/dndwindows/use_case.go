package dndwindows

import (
	"context"
	"fmt"

	"github.com/medeiros-dev/notification-decision/internal/app/dnd"
	"github.com/medeiros-dev/notification-decision/internal/domain"
	"github.com/medeiros-dev/notification-decision/internal/domain/port/store"
	"github.com/medeiros-dev/notification-decision/internal/observability/tracing"
	"github.com/medeiros-dev/notification-decision/pkg/logger"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// DndWindowsUseCase manages a user's do-not-disturb windows.
type DndWindowsUseCase interface {
	Add(ctx context.Context, userID string, window domain.DndWindow) (string, error)
	List(ctx context.Context, userID string) ([]domain.DndWindow, error)
	Remove(ctx context.Context, userID, windowID string) error
}

type dndWindowsUseCase struct {
	store store.PreferencesStore
}

func NewDndWindowsUseCase(s store.PreferencesStore) DndWindowsUseCase {
	return &dndWindowsUseCase{store: s}
}

// Normalize validates a window and returns it with lower-case day names
// and an explicit timezone.
func Normalize(w domain.DndWindow) (domain.DndWindow, error) {
	if len(w.Days) == 0 {
		return domain.DndWindow{}, fmt.Errorf("%w: at least one day is required", domain.ErrInvalidWindow)
	}
	days := make([]string, 0, len(w.Days))
	for _, name := range w.Days {
		day, err := domain.ParseWeekday(name)
		if err != nil {
			return domain.DndWindow{}, err
		}
		days = append(days, domain.WeekdayName(day))
	}
	w.Days = days

	if _, err := dnd.ParseClock(w.StartTime); err != nil {
		return domain.DndWindow{}, err
	}
	if _, err := dnd.ParseClock(w.EndTime); err != nil {
		return domain.DndWindow{}, err
	}
	if w.Timezone == "" {
		w.Timezone = domain.DefaultTimezone
	}
	if _, err := w.Location(); err != nil {
		return domain.DndWindow{}, err
	}
	return w, nil
}

func (u *dndWindowsUseCase) Add(ctx context.Context, userID string, window domain.DndWindow) (string, error) {
	ctx, span := tracing.Tracer.Start(ctx, "DndWindowsUseCase.Add")
	defer span.End()
	span.SetAttributes(attribute.String("notification.user_id", userID))

	window, err := Normalize(window)
	if err != nil {
		return "", err
	}
	windowID, err := u.store.AddDndWindow(ctx, userID, window)
	if err != nil {
		return "", fmt.Errorf("adding dnd window for user %s: %w", userID, err)
	}
	logger.Ctx(ctx).Info("DND window added",
		zap.String("userID", userID),
		zap.String("windowID", windowID),
		zap.Strings("days", window.Days),
		zap.String("startTime", window.StartTime),
		zap.String("endTime", window.EndTime),
		zap.String("timezone", window.Timezone),
	)
	return windowID, nil
}

func (u *dndWindowsUseCase) List(ctx context.Context, userID string) ([]domain.DndWindow, error) {
	ctx, span := tracing.Tracer.Start(ctx, "DndWindowsUseCase.List")
	defer span.End()
	span.SetAttributes(attribute.String("notification.user_id", userID))

	windows, err := u.store.GetDndWindows(ctx, userID)
	if err != nil {
		return nil, err
	}
	if windows == nil {
		windows = []domain.DndWindow{}
	}
	return windows, nil
}

// Remove succeeds whether or not the window exists.
func (u *dndWindowsUseCase) Remove(ctx context.Context, userID, windowID string) error {
	ctx, span := tracing.Tracer.Start(ctx, "DndWindowsUseCase.Remove")
	defer span.End()
	span.SetAttributes(
		attribute.String("notification.user_id", userID),
		attribute.String("dnd.window_id", windowID),
	)

	if err := u.store.RemoveDndWindow(ctx, userID, windowID); err != nil {
		return fmt.Errorf("removing dnd window %s: %w", windowID, err)
	}
	logger.Ctx(ctx).Info("DND window removed",
		zap.String("userID", userID),
		zap.String("windowID", windowID),
	)
	return nil
}
