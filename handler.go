package esappender

import (
	"context"
	"log/slog"
	"time"
)

// Handler implements slog.Handler on top of an Appender.
type Handler struct {
	appender   *Appender
	loggerName string
	attrs      []slog.Attr
	groups     []string
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithLoggerName sets the logger name included in documents.
func WithLoggerName(name string) HandlerOption {
	return func(h *Handler) {
		h.loggerName = name
	}
}

// NewHandler creates a slog.Handler forwarding records to a.
func NewHandler(a *Appender, opts ...HandlerOption) *Handler {
	h := &Handler{
		appender:   a,
		loggerName: "go",
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Enabled reports whether the handler handles records at the given level.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return FromSlog(level).IsAsSevereAs(h.appender.Threshold())
}

// Handle converts r into an Event and appends it. It always returns nil.
func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	// Build logger name with groups
	loggerName := LoggerFromContext(ctx)
	if loggerName == "" {
		loggerName = h.loggerName
		for _, g := range h.groups {
			loggerName += "." + g
		}
	}

	ev := Event{
		Level:      FromSlog(r.Level),
		Message:    r.Message,
		LoggerName: loggerName,
		Time:       r.Time,
	}
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}

	fields := make(map[string]any)
	collect := func(a slog.Attr) bool {
		if err, ok := a.Value.Resolve().Any().(error); ok && ev.Err == nil {
			ev.Err = err
			return true
		}
		if a.Key != "" {
			fields[a.Key] = resolveValue(a.Value)
		}
		return true
	}
	for _, a := range h.attrs {
		collect(a)
	}
	r.Attrs(collect)
	if len(fields) > 0 {
		ev.Fields = fields
	}

	if ev.Err != nil {
		ev.Stack = trimToCaller(callers(2), r.PC)
	}

	h.appender.Append(ev)
	return nil
}

// WithAttrs returns a new Handler with additional attributes.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newHandler := *h
	newHandler.attrs = make([]slog.Attr, len(h.attrs)+len(attrs))
	copy(newHandler.attrs, h.attrs)
	copy(newHandler.attrs[len(h.attrs):], attrs)
	return &newHandler
}

// WithGroup returns a new Handler with a group name.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	newHandler := *h
	newHandler.groups = make([]string, len(h.groups)+1)
	copy(newHandler.groups, h.groups)
	newHandler.groups[len(h.groups)] = name
	return &newHandler
}

// trimToCaller drops the frames above pc, which are slog and handler
// internals. pcs is returned unchanged if pc is not found.
func trimToCaller(pcs []uintptr, pc uintptr) []uintptr {
	if pc == 0 {
		return pcs
	}
	for i, p := range pcs {
		if p == pc {
			return pcs[i:]
		}
	}
	return pcs
}

// resolveValue converts slog.Value to a JSON-serializable value.
func resolveValue(v slog.Value) any {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindInt64:
		return v.Int64()
	case slog.KindUint64:
		return v.Uint64()
	case slog.KindFloat64:
		return v.Float64()
	case slog.KindBool:
		return v.Bool()
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	case slog.KindGroup:
		attrs := v.Group()
		m := make(map[string]any, len(attrs))
		for _, a := range attrs {
			m[a.Key] = resolveValue(a.Value)
		}
		return m
	case slog.KindAny:
		return v.Any()
	default:
		return v.String()
	}
}
