package log

import (
	"context"
	"log/slog"
	"net/http"
)

// ContextKey type for context keys
type ContextKey string

// LoggerContextKey is the context key for the logger
const LoggerContextKey ContextKey = "logger"

// NewContext returns ctx carrying logger.
func NewContext(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, LoggerContextKey, logger)
}

// FromContext extracts a logger from the context, falling back to slog's default.
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(LoggerContextKey).(*Logger); ok {
		return logger
	}
	return &Logger{
		Logger:    slog.Default(),
		component: "unknown",
	}
}

// Middleware creates HTTP middleware that adds a logger to the request context
func Middleware(logger *Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), logger)))
		})
	}
}

// RequestIDMiddleware enriches the request logger with the request ID.
func RequestIDMiddleware(extractRequestID func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := FromContext(r.Context()).With(FieldRequestID, extractRequestID(r))
			next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), logger)))
		})
	}
}

// StructuredLogger emits the ledger's domain events with consistent fields.
type StructuredLogger struct {
	logger *Logger
}

func NewStructuredLogger(logger *Logger) *StructuredLogger {
	return &StructuredLogger{logger: logger}
}

// LogHTTPEnd logs the completion of an HTTP request, raising the level for failures.
func (sl *StructuredLogger) LogHTTPEnd(ctx context.Context, r *http.Request, statusCode int, durationMs int64, clientIP string) {
	level := slog.LevelInfo
	if statusCode >= 400 && statusCode < 500 {
		level = slog.LevelWarn
	} else if statusCode >= 500 {
		level = slog.LevelError
	}

	fields := NewFields().
		WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, r.Header.Get("User-Agent")).
		WithHTTPResponse(statusCode, durationMs).
		WithClientIP(clientIP)

	args := append([]any{FieldComponent, ComponentHTTP}, fields.ToSlice()...)
	sl.logger.Logger.Log(ctx, level, "HTTP request completed", args...)
}

// LogTransactionAdded logs a successful AddTransaction.
func (sl *StructuredLogger) LogTransactionAdded(ctx context.Context, id, kind string, amountCents int64, date, recurrence string, rev uint64) {
	fields := NewFields().
		WithTransaction(id, kind, amountCents, date, recurrence).
		WithRevision(rev).
		WithOperation(OpCreate)
	sl.logger.WithComponent(ComponentLedger).InfoContext(ctx, "Transaction added", fields.ToSlice()...)
}

// LogTransactionDeleted logs a DeleteTransaction; found is false for unknown IDs.
func (sl *StructuredLogger) LogTransactionDeleted(ctx context.Context, id string, found bool, rev uint64) {
	fields := NewFields().WithRevision(rev).WithOperation(OpDelete)
	fields[FieldTransactionID] = id
	fields[FieldSuccess] = found
	sl.logger.WithComponent(ComponentLedger).InfoContext(ctx, "Transaction deleted", fields.ToSlice()...)
}

// LogAnchorSet logs a new initial balance.
func (sl *StructuredLogger) LogAnchorSet(ctx context.Context, amountCents int64, date string, rev uint64) {
	fields := NewFields().WithRevision(rev).WithOperation(OpUpdate)
	fields[FieldAmountCents] = amountCents
	fields[FieldDate] = date
	sl.logger.WithComponent(ComponentLedger).InfoContext(ctx, "Initial balance set", fields.ToSlice()...)
}

// LogLedgerCleared logs ClearAll.
func (sl *StructuredLogger) LogLedgerCleared(ctx context.Context, removed int, rev uint64) {
	fields := NewFields().WithRevision(rev).WithOperation(OpClear)
	fields[FieldCount] = removed
	sl.logger.WithComponent(ComponentLedger).WarnContext(ctx, "Ledger cleared", fields.ToSlice()...)
}

// LogError logs an error with structured context
func (sl *StructuredLogger) LogError(ctx context.Context, msg string, err error, component string, operation string, fields LogFields) {
	if fields == nil {
		fields = NewFields()
	}
	fields.WithError(err).WithOperation(operation)
	sl.logger.WithComponent(component).ErrorContext(ctx, msg, fields.ToSlice()...)
}
