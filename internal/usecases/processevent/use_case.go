package processevent

import (
	"context"
	"fmt"
	"time"

	"github.com/medeiros-dev/notification-decision/internal/domain"
	"github.com/medeiros-dev/notification-decision/internal/domain/port/audit"
	"github.com/medeiros-dev/notification-decision/internal/observability/metrics"
	"github.com/medeiros-dev/notification-decision/internal/observability/tracing"
	"github.com/medeiros-dev/notification-decision/pkg/logger"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// ProcessEventUseCase decides how a notification event is handled.
type ProcessEventUseCase interface {
	Execute(ctx context.Context, event domain.NotificationEvent) (domain.Decision, error)
}

// Decider runs the decision chain for one event.
type Decider interface {
	Process(ctx context.Context, event domain.NotificationEvent) (domain.Decision, error)
}

type processEventUseCase struct {
	decider  Decider
	recorder audit.Recorder
	now      func() time.Time
}

func NewProcessEventUseCase(decider Decider, recorder audit.Recorder) ProcessEventUseCase {
	return &processEventUseCase{
		decider:  decider,
		recorder: recorder,
		now:      time.Now,
	}
}

// Execute records the event's command while the chain runs and waits for
// both. A failed recording fails the whole call, even with a decision.
func (u *processEventUseCase) Execute(ctx context.Context, event domain.NotificationEvent) (domain.Decision, error) {
	ctx, span := tracing.Tracer.Start(ctx, "ProcessEventUseCase.Execute")
	defer span.End()
	span.SetAttributes(
		attribute.String("notification.event_id", event.EventID),
		attribute.String("notification.user_id", event.UserID),
		attribute.String("notification.event_type", event.EventType),
	)

	cmd := domain.NewNotificationCommand(event, u.now())
	recorded := make(chan error, 1)
	go func() {
		recorded <- u.recorder.Record(ctx, cmd)
	}()

	decision, chainErr := u.decider.Process(ctx, event)
	auditErr := <-recorded

	if chainErr != nil {
		span.RecordError(chainErr)
		span.SetStatus(codes.Error, chainErr.Error())
		return domain.Decision{}, chainErr
	}
	if auditErr != nil {
		span.RecordError(auditErr)
		span.SetStatus(codes.Error, auditErr.Error())
		return domain.Decision{}, fmt.Errorf("recording notification command: %w", auditErr)
	}

	metrics.DecisionsTotal.WithLabelValues(string(decision.Outcome), string(decision.Reason)).Inc()
	span.SetAttributes(
		attribute.String("decision.outcome", string(decision.Outcome)),
		attribute.String("decision.reason", string(decision.Reason)),
	)
	logger.Ctx(ctx).Info("Notification decision reached",
		zap.String("eventID", event.EventID),
		zap.String("userID", event.UserID),
		zap.String("decision", string(decision.Outcome)),
		zap.String("reason", string(decision.Reason)),
		zap.Strings("channels", decision.Channels),
	)
	return decision, nil
}
