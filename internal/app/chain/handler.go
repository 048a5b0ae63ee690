// Package chain evaluates a notification event against an ordered list of
// policy stages. The first stage that halts supplies the decision.
package chain

import (
	"context"

	"github.com/medeiros-dev/notification-decision/internal/domain"
)

// Result is a stage outcome. Decision is only meaningful when Continue is false.
type Result struct {
	Continue bool
	Decision domain.Decision
}

func Next() Result {
	return Result{Continue: true}
}

func Halt(decision domain.Decision) Result {
	return Result{Decision: decision}
}

// Handler is a single policy stage. Implementations hold no per-event state.
type Handler interface {
	Name() string
	Evaluate(ctx context.Context, event domain.NotificationEvent) (Result, error)
}
