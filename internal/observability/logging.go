// Package observability provides logging, metrics, and tracing.
package observability

import (
	"context"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

// Logger wraps slog.Logger so call sites depend on one place for the
// handler choice.
type Logger struct {
	*slog.Logger
}

// GlobalLogger is the default logger instance for the application.
var GlobalLogger *Logger

func init() {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	GlobalLogger = &Logger{Logger: slog.New(handler)}
}

// LogContextKey is a type for context keys used by the logging package.
type LogContextKey string

// CorrelationID keys the per-operation correlation id in a context.
const CorrelationID LogContextKey = "correlation_id"

// GenerateCorrelationID creates a new unique correlation ID.
func GenerateCorrelationID() string {
	return uuid.NewString()
}

// WithCorrelationID returns a new context with the given correlation ID.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CorrelationID, id)
}

// ExtractCorrelationID retrieves the correlation ID from the context.
func ExtractCorrelationID(ctx context.Context) string {
	if id := ctx.Value(CorrelationID); id != nil {
		return id.(string)
	}
	return ""
}

// OperationLogger provides structured logging for public API operations.
type OperationLogger struct {
	logger *Logger
}

// NewOperationLogger returns an OperationLogger on the global logger.
func NewOperationLogger() *OperationLogger {
	return &OperationLogger{logger: GlobalLogger}
}

// LogCall logs the start of an operation invocation.
func (l *OperationLogger) LogCall(ctx context.Context, operation string) {
	l.logger.InfoContext(ctx, "operation call",
		slog.String("operation", operation),
		slog.String("correlation_id", ExtractCorrelationID(ctx)),
	)
}

// LogSuccess logs a completed operation.
func (l *OperationLogger) LogSuccess(ctx context.Context, operation string) {
	l.logger.InfoContext(ctx, "operation ok",
		slog.String("operation", operation),
		slog.String("correlation_id", ExtractCorrelationID(ctx)),
	)
}

// LogError logs a failed operation.
func (l *OperationLogger) LogError(ctx context.Context, operation string, err error) {
	l.logger.ErrorContext(ctx, "operation failed",
		slog.String("operation", operation),
		slog.String("error", err.Error()),
		slog.String("correlation_id", ExtractCorrelationID(ctx)),
	)
}
