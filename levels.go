package esappender

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/sirupsen/logrus"
)

// Level is the severity of a log event. Values are spaced like log/slog so
// slog levels convert without a lookup table.
type Level int

// Supported levels, least to most severe.
const (
	LevelTrace Level = -8
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
	LevelFatal Level = 12
	// LevelOff as a threshold disables the appender.
	LevelOff Level = 1 << 30
)

// String returns the upper-case tag written to documents.
func (l Level) String() string {
	switch {
	case l >= LevelOff:
		return "OFF"
	case l >= LevelFatal:
		return "FATAL"
	case l >= LevelError:
		return "ERROR"
	case l >= LevelWarn:
		return "WARN"
	case l >= LevelInfo:
		return "INFO"
	case l >= LevelDebug:
		return "DEBUG"
	default:
		return "TRACE"
	}
}

// IsAsSevereAs reports whether l meets threshold.
func (l Level) IsAsSevereAs(threshold Level) bool {
	return l >= threshold
}

// ParseLevel converts a level name to a Level. Matching is case insensitive
// and WARNING, CRITICAL and PANIC are accepted as aliases.
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE", "ALL":
		return LevelTrace, nil
	case "DEBUG":
		return LevelDebug, nil
	case "INFO":
		return LevelInfo, nil
	case "WARN", "WARNING":
		return LevelWarn, nil
	case "ERROR":
		return LevelError, nil
	case "FATAL", "CRITICAL", "PANIC":
		return LevelFatal, nil
	case "OFF":
		return LevelOff, nil
	}
	return LevelInfo, fmt.Errorf("invalid log level %q", s)
}

// FromSlog converts a slog.Level.
func FromSlog(level slog.Level) Level {
	return Level(level)
}

// FromLogrus converts a logrus.Level.
func FromLogrus(level logrus.Level) Level {
	switch level {
	case logrus.PanicLevel, logrus.FatalLevel:
		return LevelFatal
	case logrus.ErrorLevel:
		return LevelError
	case logrus.WarnLevel:
		return LevelWarn
	case logrus.InfoLevel:
		return LevelInfo
	case logrus.DebugLevel:
		return LevelDebug
	default:
		return LevelTrace
	}
}
