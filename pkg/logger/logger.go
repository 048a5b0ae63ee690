package logger

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log *zap.Logger

func init() {
	if err := InitializeLogger(false); err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
	}
}

// InitializeLogger replaces the global logger. Production mode writes JSON;
// development mode writes coloured console output. LOG_LEVEL overrides the
// default level when it names a valid zap level.
func InitializeLogger(isDevelopment bool) error {
	config := productionConfig()
	if isDevelopment {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config.Level.SetLevel(zap.InfoLevel)
	}

	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		var level zapcore.Level
		if err := level.Set(raw); err == nil {
			config.Level.SetLevel(level)
		} else if log != nil {
			log.Warn("Invalid LOG_LEVEL, keeping default level", zap.String("logLevel", raw))
		}
	}

	built, err := config.Build(zap.AddCallerSkip(1))
	if err != nil {
		log = zap.NewNop()
		return err
	}
	log = built
	zap.RedirectStdLog(log)
	return nil
}

func productionConfig() zap.Config {
	config := zap.NewProductionConfig()
	config.Encoding = "json"
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.MessageKey = "message"
	config.EncoderConfig.LevelKey = "level"
	config.EncoderConfig.CallerKey = "caller"
	config.EncoderConfig.StacktraceKey = "stacktrace"
	return config
}

// L returns the global logger instance.
func L() *zap.Logger {
	return log
}

// Ctx returns the global logger with the request trace id attached, if any.
func Ctx(ctx context.Context) *zap.Logger {
	if traceID := TraceIDFromContext(ctx); traceID != "" {
		return log.With(zap.String("traceID", traceID))
	}
	return log
}

// SetLogger swaps the global logger, mainly for tests observing output.
func SetLogger(l *zap.Logger) {
	log = l
}

// Sync flushes any buffered log entries.
func Sync() error {
	if log != nil {
		return log.Sync()
	}
	return nil
}
