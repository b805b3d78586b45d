// Package esappender provides a log appender that indexes log events in
// Elasticsearch.
//
// Events are filtered by a severity threshold on the caller's goroutine and
// handed to a single background worker, which turns each one into a document
// and submits it to the backend. Delivery is best effort: backend failures
// are reported on stderr (throttled) and otherwise dropped, so logging never
// fails the host application.
//
// Basic usage with log/slog:
//
//	cfg, err := esappender.LoadConfig()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	app := esappender.New(cfg)
//	_ = app.ActivateOptions()
//	defer app.Close()
//
//	slog.SetDefault(slog.New(esappender.NewHandler(app)))
//	slog.Error("disk full", "error", err)
//
// With logrus:
//
//	logrus.AddHook(esappender.NewHook(app))
package esappender

// Version is the library version.
const Version = "1.0.0"
