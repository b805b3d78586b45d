package esappender

import (
	"runtime"
	"time"
)

// maxStackDepth bounds the frames captured for an event carrying an error.
const maxStackDepth = 32

// Event is a single log event. It is not modified after construction.
type Event struct {
	Level      Level
	Message    string
	LoggerName string
	Time       time.Time
	// Fields holds structured attributes attached to the log call.
	Fields map[string]any
	// Err is the error attached to the log call, if any.
	Err error
	// Stack holds the program counters of the logging call site. It is only
	// captured when Err is set.
	Stack []uintptr
}

// NewEvent builds an Event stamped with the current time. When err is not
// nil the caller's stack is captured so it can be rendered on the worker.
func NewEvent(level Level, loggerName, msg string, err error) Event {
	ev := Event{
		Level:      level,
		Message:    msg,
		LoggerName: loggerName,
		Time:       time.Now(),
		Err:        err,
	}
	if err != nil {
		ev.Stack = callers(3)
	}
	return ev
}

// callers returns the program counters above skip frames.
func callers(skip int) []uintptr {
	var pcs [maxStackDepth]uintptr
	n := runtime.Callers(skip, pcs[:])
	out := make([]uintptr, n)
	copy(out, pcs[:n])
	return out
}
