// Package broker publishes notification commands to Kafka.
package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/medeiros-dev/notification-decision/configs"
	"github.com/medeiros-dev/notification-decision/internal/app/registry"
	"github.com/medeiros-dev/notification-decision/internal/domain"
	"github.com/medeiros-dev/notification-decision/internal/domain/port/audit"
	"github.com/medeiros-dev/notification-decision/internal/observability/metrics"
	"github.com/medeiros-dev/notification-decision/internal/observability/tracing"
	"github.com/medeiros-dev/notification-decision/pkg/logger"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
)

const (
	DriverName   = "kafka"
	writeTimeout = 10 * time.Second
)

func init() {
	if err := registry.RegisterRecorderFactory(DriverName, func(cfg *configs.Config) (audit.Recorder, error) {
		return NewKafkaRecorder(Config{Brokers: cfg.KafkaBrokers, Topic: cfg.KafkaAuditTopic})
	}); err != nil {
		panic(err)
	}
}

type Config struct {
	Brokers []string
	Topic   string
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaRecorder writes each command as a JSON message keyed by event id, with
// the caller's trace context in the message headers.
type KafkaRecorder struct {
	writer     messageWriter
	topic      string
	propagator propagation.TextMapPropagator
}

func NewKafkaRecorder(cfg Config) (*KafkaRecorder, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka brokers cannot be empty")
	}
	if cfg.Topic == "" {
		return nil, errors.New("kafka audit topic cannot be empty")
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	}
	return newKafkaRecorder(w, cfg.Topic), nil
}

func newKafkaRecorder(w messageWriter, topic string) *KafkaRecorder {
	return &KafkaRecorder{
		writer:     w,
		topic:      topic,
		propagator: propagation.TraceContext{},
	}
}

func (r *KafkaRecorder) Record(ctx context.Context, cmd domain.NotificationCommand) error {
	ctx, span := tracing.Tracer.Start(ctx, "KafkaRecorder.Record")
	defer span.End()
	span.SetAttributes(
		attribute.String("messaging.destination", r.topic),
		attribute.String("notification.event_id", cmd.EventID),
	)

	value, err := json.Marshal(cmd)
	if err != nil {
		metrics.ErrorTotal.WithLabelValues("marshal_json").Inc()
		metrics.RecordAudit(DriverName, err)
		return fmt.Errorf("failed to marshal command %s: %w", cmd.EventID, err)
	}

	headers := []kafka.Header{
		{Key: eventTypeHeader, Value: []byte(cmd.EventType)},
		{Key: schemaHeader, Value: []byte(commandSchema)},
	}
	r.propagator.Inject(ctx, headerCarrier{headers: &headers})

	msg := kafka.Message{
		Topic:   r.topic,
		Key:     []byte(cmd.EventID),
		Value:   value,
		Headers: headers,
	}

	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	start := time.Now()
	err = r.writer.WriteMessages(writeCtx, msg)
	metrics.KafkaPublishDuration.Observe(time.Since(start).Seconds())
	metrics.RecordAudit(DriverName, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		metrics.ErrorTotal.WithLabelValues("kafka_publish").Inc()
		logger.Ctx(ctx).Error("Failed to publish notification command",
			zap.String("eventID", cmd.EventID),
			zap.String("topic", r.topic),
			zap.Error(err),
		)
		return fmt.Errorf("failed to publish notification command: %w", err)
	}

	logger.Ctx(ctx).Debug("Published notification command",
		zap.String("eventID", cmd.EventID),
		zap.String("topic", r.topic),
	)
	return nil
}

func (r *KafkaRecorder) Close() error {
	logger.L().Info("Closing Kafka writer...")
	if err := r.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer: %w", err)
	}
	return nil
}
