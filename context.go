package esappender

import "context"

type contextKey string

const loggerNameKey contextKey = "esappender_logger_name"

// WithLogger returns a context that makes the slog Handler record name as
// the event's logger, overriding the handler's own name.
func WithLogger(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, loggerNameKey, name)
}

// LoggerFromContext retrieves the logger name set by WithLogger.
func LoggerFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v := ctx.Value(loggerNameKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
