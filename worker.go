package esappender

import (
	"sync"
	"sync/atomic"
	"time"
)

// Worker runs a process function over submitted events on exactly one
// goroutine, in submission order. The queue is unbounded: Submit never
// blocks on process, so a slow backend grows memory instead of stalling the
// logging call site.
type Worker struct {
	process func(Event)
	diag    *Diagnostics

	mu      sync.Mutex
	queue   []Event
	stopped bool

	submitted atomic.Uint64

	// wake has capacity 1 and is signalled after every queue change.
	wake  chan struct{}
	abort chan struct{}
	done  chan struct{}

	stopOnce  sync.Once
	discarded int
}

// NewWorker starts a worker calling process for every submitted event.
// Panics raised by process are recovered and reported to diag.
func NewWorker(process func(Event), diag *Diagnostics) *Worker {
	if diag == nil {
		diag = NewDiagnostics(nil, 0)
	}
	w := &Worker{
		process: process,
		diag:    diag,
		wake:    make(chan struct{}, 1),
		abort:   make(chan struct{}),
		done:    make(chan struct{}),
	}
	go w.run()
	return w
}

// Submit queues ev and returns immediately. It reports false if the worker
// has been stopped, in which case ev is dropped.
func (w *Worker) Submit(ev Event) bool {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return false
	}
	w.queue = append(w.queue, ev)
	w.mu.Unlock()

	w.submitted.Add(1)
	w.signal()
	return true
}

// Pending returns the number of queued events not yet picked up.
func (w *Worker) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.queue)
}

// Submitted returns the number of events accepted since start.
func (w *Worker) Submitted() uint64 {
	return w.submitted.Load()
}

// Stop stops accepting events and lets the goroutine drain the queue for up
// to timeout. Events still queued after that are discarded and their count
// is returned. An event being processed when the timeout fires is left to
// finish on its own. Stop is idempotent; later calls return 0.
func (w *Worker) Stop(timeout time.Duration) int {
	discarded := 0
	w.stopOnce.Do(func() {
		w.mu.Lock()
		w.stopped = true
		w.mu.Unlock()
		w.signal()

		timer := time.NewTimer(timeout)
		defer timer.Stop()

		select {
		case <-w.done:
		case <-timer.C:
			close(w.abort)
			w.mu.Lock()
			w.discarded = len(w.queue)
			w.queue = nil
			w.mu.Unlock()
		}
		discarded = w.discarded
	})
	return discarded
}

func (w *Worker) signal() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *Worker) run() {
	defer close(w.done)
	for {
		select {
		case <-w.abort:
			return
		default:
		}

		ev, ok, stopped := w.next()
		if ok {
			w.safeProcess(ev)
			continue
		}
		if stopped {
			return
		}

		select {
		case <-w.wake:
		case <-w.abort:
			return
		}
	}
}

// next pops the oldest event. When the queue is empty it also reports
// whether the worker has been stopped.
func (w *Worker) next() (Event, bool, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.queue) == 0 {
		return Event{}, false, w.stopped
	}
	ev := w.queue[0]
	w.queue[0] = Event{}
	w.queue = w.queue[1:]
	return ev, true, false
}

func (w *Worker) safeProcess(ev Event) {
	defer func() {
		if r := recover(); r != nil {
			w.diag.Report("recovered panic while processing log event: %v", r)
		}
	}()
	w.process(ev)
}
