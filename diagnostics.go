package esappender

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Diagnostics reports the appender's own failures. Output is throttled so an
// unreachable backend produces at most one line per interval; it never goes
// through the appender itself.
type Diagnostics struct {
	mu         sync.Mutex
	out        io.Writer
	limiter    *rate.Limiter
	suppressed int
}

// NewDiagnostics creates a reporter writing to out at most once per interval.
// A nil out writes to stderr; a non-positive interval disables throttling.
func NewDiagnostics(out io.Writer, interval time.Duration) *Diagnostics {
	if out == nil {
		out = os.Stderr
	}
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Diagnostics{
		out:     out,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Report prints a diagnostic line unless the throttle is exhausted, in which
// case the line is only counted.
func (d *Diagnostics) Report(format string, args ...any) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.limiter.Allow() {
		d.suppressed++
		return
	}

	msg := fmt.Sprintf(format, args...)
	if d.suppressed > 0 {
		msg = fmt.Sprintf("%s (%d similar messages suppressed)", msg, d.suppressed)
		d.suppressed = 0
	}
	fmt.Fprintf(d.out, "[esappender] %s\n", msg)
}

// Suppressed returns the number of lines dropped since the last printed one.
func (d *Diagnostics) Suppressed() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.suppressed
}
