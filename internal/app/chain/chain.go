package chain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/medeiros-dev/notification-decision/internal/domain"
	"github.com/medeiros-dev/notification-decision/internal/domain/port/store"
	"github.com/medeiros-dev/notification-decision/internal/observability/metrics"
	"github.com/medeiros-dev/notification-decision/internal/observability/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// ErrNoDecision means every stage asked to continue.
var ErrNoDecision = errors.New("decision chain ended without a decision")

type DecisionChain struct {
	handlers []Handler
}

// New builds the standard chain:
// UserExists, EventTypeSubscription, Dnd, ChannelConfiguration.
func New(s store.PreferencesReader) *DecisionChain {
	return NewWithHandlers(
		NewUserExists(s),
		NewEventTypeSubscription(s),
		NewDnd(s),
		NewChannelConfiguration(s),
	)
}

func NewWithHandlers(handlers ...Handler) *DecisionChain {
	return &DecisionChain{handlers: handlers}
}

// Process runs the stages in order and returns the first halting decision.
func (c *DecisionChain) Process(ctx context.Context, event domain.NotificationEvent) (domain.Decision, error) {
	for _, h := range c.handlers {
		result, err := c.evaluate(ctx, h, event)
		if err != nil {
			return domain.Decision{}, fmt.Errorf("%s stage: %w", h.Name(), err)
		}
		if !result.Continue {
			return result.Decision, nil
		}
	}
	return domain.Decision{}, ErrNoDecision
}

func (c *DecisionChain) evaluate(ctx context.Context, h Handler, event domain.NotificationEvent) (Result, error) {
	ctx, span := tracing.Tracer.Start(ctx, "DecisionChain."+h.Name())
	defer span.End()
	defer metrics.ObserveStage(h.Name(), time.Now())

	result, err := h.Evaluate(ctx, event)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Result{}, err
	}
	span.SetAttributes(attribute.Bool("chain.continue", result.Continue))
	if !result.Continue {
		span.SetAttributes(
			attribute.String("decision.outcome", string(result.Decision.Outcome)),
			attribute.String("decision.reason", string(result.Decision.Reason)),
		)
	}
	return result, nil
}
