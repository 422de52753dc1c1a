package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
)

type ctxKey string

const (
	requestIDKey ctxKey = "request_id"
	userIDKey    ctxKey = "user_id"
	centerIDKey  ctxKey = "center_id"
)

var defaultLogger *slog.Logger

// Init configures the process-wide logger. format is "json" or "text".
func Init(level, format string) {
	InitWithWriter(os.Stdout, level, format)
}

func InitWithWriter(w io.Writer, level, format string) {
	var logLevel slog.Level
	switch strings.ToUpper(level) {
	case "DEBUG":
		logLevel = slog.LevelDebug
	case "WARN":
		logLevel = slog.LevelWarn
	case "ERROR":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
}

func Get() *slog.Logger {
	if defaultLogger == nil {
		Init("INFO", "json")
	}
	return defaultLogger
}

// WithContext returns the default logger annotated with whatever request
// metadata the middleware stored on ctx.
func WithContext(ctx context.Context) *slog.Logger {
	l := Get()
	if ctx == nil {
		return l
	}
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		l = l.With("request_id", v)
	}
	if v, ok := ctx.Value(userIDKey).(int64); ok && v != 0 {
		l = l.With("user_id", v)
	}
	if v, ok := ctx.Value(centerIDKey).(int64); ok && v != 0 {
		l = l.With("center_id", v)
	}
	return l
}

func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func ContextWithUser(ctx context.Context, userID, centerID int64) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, centerIDKey, centerID)
}

func RequestIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}

func NewRequestID() string {
	return uuid.New().String()
}

// Fatal logs at error level and exits; slog has no fatal level.
func Fatal(msg string, args ...any) {
	Get().Error(msg, args...)
	os.Exit(1)
}
