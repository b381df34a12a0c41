package logging

import (
	"context"
	"log/slog"
	"runtime"
	"sort"
	"time"
)

func (l *Logger) with(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...), serviceName: l.serviceName}
}

// fieldArgs flattens a field map into slog key/value pairs in key order,
// so the same event always serializes the same way.
func fieldArgs(fields map[string]any, prefix ...any) []any {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := append(make([]any, 0, len(prefix)+len(fields)*2), prefix...)
	for _, k := range keys {
		args = append(args, k, fields[k])
	}
	return args
}

// WithContext adds the request, correlation and trace ids carried by ctx
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}
	if attrs := contextAttrs(ctx); len(attrs) > 0 {
		return l.with(attrs...)
	}
	return l
}

// WithFields adds multiple fields to the logger
func (l *Logger) WithFields(fields map[string]any) *Logger {
	return l.with(fieldArgs(fields)...)
}

// WithError adds an error to the logger
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}
	return l.with("error", err.Error())
}

// WithComponent names the part of the service emitting the record
func (l *Logger) WithComponent(component string) *Logger {
	return l.with("component", component)
}

// Event logs a business event such as an item being added or a pallet shipping
func (l *Logger) Event(ctx context.Context, eventType string, data map[string]any) {
	l.WithContext(ctx).Info("Business event", fieldArgs(data, "eventType", eventType)...)
}

// Audit logs a state change on a catalog entry, pallet or setting
func (l *Logger) Audit(ctx context.Context, action, resource, resourceID string, details map[string]any) {
	l.WithContext(ctx).Info("Audit event",
		fieldArgs(details, "auditAction", action, "resource", resource, "resourceId", resourceID)...)
}

// Performance logs how long an operation took
func (l *Logger) Performance(ctx context.Context, operation string, duration time.Duration, success bool, details map[string]any) {
	l.WithContext(ctx).Info("Performance metric",
		fieldArgs(details, "operation", operation, "durationMs", duration.Milliseconds(), "success", success)...)
}

// HTTPRequest writes one access log line, at warn for 4xx and error for 5xx
func (l *Logger) HTTPRequest(ctx context.Context, status int, attrs ...any) {
	level := slog.LevelInfo
	switch {
	case status >= 500:
		level = slog.LevelError
	case status >= 400:
		level = slog.LevelWarn
	}
	l.WithContext(ctx).Log(ctx, level, "HTTP request", append([]any{"status", status}, attrs...)...)
}

// DatabaseQuery logs a Mongo operation. Failures are logged at error.
func (l *Logger) DatabaseQuery(ctx context.Context, collection, operation string, duration time.Duration, success bool) {
	l.logOutcome(ctx, success, "Database query",
		"collection", collection,
		"operation", operation,
		"durationMs", duration.Milliseconds(),
		"success", success,
	)
}

// KafkaPublish logs a published event
func (l *Logger) KafkaPublish(ctx context.Context, topic, eventType string, success bool, duration time.Duration) {
	l.logOutcome(ctx, success, "Kafka publish",
		"topic", topic,
		"eventType", eventType,
		"success", success,
		"durationMs", duration.Milliseconds(),
	)
}

// KafkaConsume logs a handled message from the item feed
func (l *Logger) KafkaConsume(ctx context.Context, topic, eventType string, success bool, duration time.Duration) {
	l.logOutcome(ctx, success, "Kafka consume",
		"topic", topic,
		"eventType", eventType,
		"success", success,
		"durationMs", duration.Milliseconds(),
	)
}

// Panic logs a recovered panic together with the goroutine stack
func (l *Logger) Panic(ctx context.Context, recovered any, attrs ...any) {
	stack := make([]byte, 4096)
	n := runtime.Stack(stack, false)
	l.WithContext(ctx).Error("Panic recovered",
		append([]any{"panic", recovered, "stack", string(stack[:n])}, attrs...)...)
}

func (l *Logger) logOutcome(ctx context.Context, success bool, msg string, attrs ...any) {
	level := slog.LevelDebug
	if !success {
		level = slog.LevelError
	}
	l.WithContext(ctx).Log(ctx, level, msg, attrs...)
}
