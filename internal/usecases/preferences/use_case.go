package preferences

import (
	"context"
	"fmt"

	"github.com/medeiros-dev/notification-decision/internal/domain"
	"github.com/medeiros-dev/notification-decision/internal/domain/port/store"
	"github.com/medeiros-dev/notification-decision/internal/observability/tracing"
	"github.com/medeiros-dev/notification-decision/pkg/logger"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// PreferencesUseCase manages the per-user event type subscriptions.
type PreferencesUseCase interface {
	Get(ctx context.Context, userID string) (domain.UserPreferences, error)
	Set(ctx context.Context, userID string, eventTypes domain.EventTypes) error
	Update(ctx context.Context, userID string, eventTypes domain.EventTypes) error
}

type preferencesUseCase struct {
	store store.PreferencesStore
}

func NewPreferencesUseCase(s store.PreferencesStore) PreferencesUseCase {
	return &preferencesUseCase{store: s}
}

func (u *preferencesUseCase) Get(ctx context.Context, userID string) (domain.UserPreferences, error) {
	ctx, span := tracing.Tracer.Start(ctx, "PreferencesUseCase.Get")
	defer span.End()
	span.SetAttributes(attribute.String("notification.user_id", userID))

	return u.store.GetUserPreferences(ctx, userID)
}

// Set replaces the whole preferences record, creating it if needed.
func (u *preferencesUseCase) Set(ctx context.Context, userID string, eventTypes domain.EventTypes) error {
	ctx, span := tracing.Tracer.Start(ctx, "PreferencesUseCase.Set")
	defer span.End()
	span.SetAttributes(attribute.String("notification.user_id", userID))

	if err := eventTypes.Validate(); err != nil {
		return err
	}
	if err := u.store.SetUserPreferences(ctx, userID, eventTypes); err != nil {
		return fmt.Errorf("setting preferences for user %s: %w", userID, err)
	}
	logger.Ctx(ctx).Info("User preferences set",
		zap.String("userID", userID),
		zap.Int("eventTypes", len(eventTypes)),
	)
	return nil
}

// Update replaces the event types of an existing record.
func (u *preferencesUseCase) Update(ctx context.Context, userID string, eventTypes domain.EventTypes) error {
	ctx, span := tracing.Tracer.Start(ctx, "PreferencesUseCase.Update")
	defer span.End()
	span.SetAttributes(attribute.String("notification.user_id", userID))

	if err := eventTypes.Validate(); err != nil {
		return err
	}
	if err := u.store.UpdateUserPreferences(ctx, userID, eventTypes); err != nil {
		return fmt.Errorf("updating preferences for user %s: %w", userID, err)
	}
	logger.Ctx(ctx).Info("User preferences updated", zap.String("userID", userID))
	return nil
}
