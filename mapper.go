package esappender

import (
	"encoding/json"
	"fmt"
	"reflect"
	"runtime"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Document is the field map indexed for one event.
type Document map[string]any

// Document field names.
const (
	FieldHostName        = "hostName"
	FieldApplicationName = "applicationName"
	FieldTimestamp       = "timestamp"
	FieldLogger          = "logger"
	FieldLevel           = "level"
	FieldMessage         = "message"
	FieldClassName       = "className"
	FieldStackTrace      = "stackTrace"
	FieldFields          = "fields"
)

// stackTracer is implemented by errors created with github.com/pkg/errors.
type stackTracer interface {
	StackTrace() errors.StackTrace
}

// MapEvent converts ev into a Document. hostName and applicationName are
// taken as given so callers can pass the identifiers configured at the time
// the event is processed.
func MapEvent(ev Event, hostName, applicationName string) Document {
	doc := Document{
		FieldHostName:        hostName,
		FieldApplicationName: applicationName,
		FieldTimestamp:       ev.Time.UnixMilli(),
		FieldLogger:          ev.LoggerName,
		FieldLevel:           ev.Level.String(),
		FieldMessage:         ev.Message,
	}

	if len(ev.Fields) > 0 {
		doc[FieldFields] = encodableFields(ev.Fields)
	}

	if ev.Err != nil {
		doc[FieldClassName] = ClassName(ev.Err)
		doc[FieldStackTrace] = StackTrace(ev.Err, ev.Stack)
	}

	return doc
}

// encodableFields returns a copy of fields in which every value JSON cannot
// encode, such as NaN or a func, is replaced by its fmt.Sprint form. Nested
// groups are checked per value.
func encodableFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if group, ok := v.(map[string]any); ok {
			out[k] = encodableFields(group)
			continue
		}
		if _, err := json.Marshal(v); err != nil {
			out[k] = fmt.Sprint(v)
			continue
		}
		out[k] = v
	}
	return out
}

// ClassName returns the fully qualified type name of err, e.g.
// "io/fs.PathError". Pointer indirection is dropped. Unnamed types fall back
// to their %T form.
func ClassName(err error) string {
	t := reflect.TypeOf(err)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return fmt.Sprintf("%T", err)
	}
	if t.PkgPath() == "" {
		return t.Name()
	}
	return t.PkgPath() + "." + t.Name()
}

// StackTrace renders err and its stack as one text blob. A stack recorded by
// github.com/pkg/errors anywhere in the chain wins over pcs. Wrapped causes
// are listed after the trace.
func StackTrace(err error, pcs []uintptr) string {
	var buf strings.Builder
	buf.WriteString(ClassName(err))
	buf.WriteString(": ")
	buf.WriteString(err.Error())
	buf.WriteString("\n")

	var st stackTracer
	if errors.As(err, &st) {
		for _, f := range st.StackTrace() {
			fmt.Fprintf(&buf, "\tat %+v\n", f)
		}
	} else {
		writeFrames(&buf, pcs)
	}

	for cause := errors.Unwrap(err); cause != nil; cause = errors.Unwrap(cause) {
		buf.WriteString("Caused by: ")
		buf.WriteString(ClassName(cause))
		buf.WriteString(": ")
		buf.WriteString(cause.Error())
		buf.WriteString("\n")
	}

	return buf.String()
}

func writeFrames(buf *strings.Builder, pcs []uintptr) {
	if len(pcs) == 0 {
		return
	}
	frames := runtime.CallersFrames(pcs)
	for {
		frame, more := frames.Next()
		buf.WriteString("\tat ")
		buf.WriteString(frame.Function)
		buf.WriteString("\n\t\t")
		buf.WriteString(frame.File)
		buf.WriteString(":")
		buf.WriteString(strconv.Itoa(frame.Line))
		buf.WriteString("\n")
		if !more {
			break
		}
	}
}
