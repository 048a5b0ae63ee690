// Package auditlog records notification commands as structured log lines.
package auditlog

import (
	"context"

	"github.com/medeiros-dev/notification-decision/configs"
	"github.com/medeiros-dev/notification-decision/internal/app/registry"
	"github.com/medeiros-dev/notification-decision/internal/domain"
	"github.com/medeiros-dev/notification-decision/internal/domain/port/audit"
	"github.com/medeiros-dev/notification-decision/internal/observability/metrics"
	"github.com/medeiros-dev/notification-decision/pkg/logger"
	"go.uber.org/zap"
)

const DriverName = "log"

func init() {
	if err := registry.RegisterRecorderFactory(DriverName, func(cfg *configs.Config) (audit.Recorder, error) {
		return NewRecorder(), nil
	}); err != nil {
		panic(err)
	}
}

type Recorder struct{}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Record(ctx context.Context, cmd domain.NotificationCommand) error {
	if err := ctx.Err(); err != nil {
		metrics.RecordAudit(DriverName, err)
		return err
	}
	logger.Ctx(ctx).Info("Processing notification command",
		zap.String("eventID", cmd.EventID),
		zap.String("userID", cmd.UserID),
		zap.String("eventType", cmd.EventType),
		zap.Time("occurredAt", cmd.OccurredAt),
		zap.Time("receivedAt", cmd.ReceivedAt),
	)
	metrics.RecordAudit(DriverName, nil)
	return nil
}
