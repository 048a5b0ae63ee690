package audit

import (
	"context"

	"github.com/medeiros-dev/notification-decision/internal/domain"
)

type Recorder interface {
	Record(ctx context.Context, cmd domain.NotificationCommand) error
}
