package esappender

import (
	"github.com/sirupsen/logrus"
)

// LoggerField is the logrus field read as the event's logger name.
const LoggerField = "logger"

// Hook implements logrus.Hook on top of an Appender.
type Hook struct {
	appender *Appender
}

// NewHook creates a logrus hook forwarding entries to a.
func NewHook(a *Appender) *Hook {
	return &Hook{appender: a}
}

// Levels returns the logrus levels at or above the appender's threshold at
// the time the hook is registered. Threshold changes made later are still
// applied by Append.
func (h *Hook) Levels() []logrus.Level {
	var levels []logrus.Level
	for _, l := range logrus.AllLevels {
		if FromLogrus(l).IsAsSevereAs(h.appender.Threshold()) {
			levels = append(levels, l)
		}
	}
	return levels
}

// Fire converts entry into an Event and appends it. It always returns nil.
func (h *Hook) Fire(entry *logrus.Entry) error {
	ev := Event{
		Level:   FromLogrus(entry.Level),
		Message: entry.Message,
		Time:    entry.Time,
	}

	fields := make(map[string]any, len(entry.Data))
	for k, v := range entry.Data {
		switch k {
		case logrus.ErrorKey:
			if err, ok := v.(error); ok {
				ev.Err = err
				continue
			}
		case LoggerField:
			if name, ok := v.(string); ok {
				ev.LoggerName = name
				continue
			}
		}
		fields[k] = v
	}
	if len(fields) > 0 {
		ev.Fields = fields
	}

	if ev.Err != nil {
		ev.Stack = callers(2)
	}

	h.appender.Append(ev)
	return nil
}
