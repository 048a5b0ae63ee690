package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc/credentials"

	"github.com/medeiros-dev/notification-decision/configs"
	"github.com/medeiros-dev/notification-decision/pkg/logger"
	"go.uber.org/zap"
)

const defaultTracerName = "notification-decision"

var (
	shutdownFunc = func(ctx context.Context) error { return nil }

	// Tracer starts out on the global provider, which is a no-op until
	// InitTracer installs the SDK provider.
	Tracer trace.Tracer = otel.Tracer(defaultTracerName)

	// newExporterFunc is swapped in tests.
	newExporterFunc = func(ctx context.Context, cfg *configs.Config) (tracesdk.SpanExporter, error) {
		if cfg.OtelInsecure {
			return otlptracegrpc.New(ctx,
				otlptracegrpc.WithEndpoint(cfg.OtelEndpoint),
				otlptracegrpc.WithInsecure(),
			)
		}
		return otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpoint(cfg.OtelEndpoint),
			otlptracegrpc.WithTLSCredentials(credentials.NewClientTLSFromCert(nil, "")),
		)
	}
)

// InitTracer installs a batching OTLP tracer provider and the W3C trace
// context propagator. The returned func flushes and stops the provider.
func InitTracer(cfg *configs.Config) (func(context.Context) error, error) {
	ctx := context.Background()

	exporter, err := newExporterFunc(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.OtelServiceName),
		),
	)
	if err != nil {
		_ = exporter.Shutdown(ctx)
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tp := tracesdk.NewTracerProvider(
		tracesdk.WithBatcher(exporter),
		tracesdk.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	name := cfg.OtelServiceName
	if name == "" {
		name = defaultTracerName
	}
	Tracer = tp.Tracer(name)
	shutdownFunc = tp.Shutdown
	return shutdownFunc, nil
}

func GetTracer() trace.Tracer {
	return Tracer
}

func ShutdownTracer(ctx context.Context) {
	if err := shutdownFunc(ctx); err != nil {
		logger.L().Error("Error shutting down tracer provider", zap.Error(err))
	}
}
