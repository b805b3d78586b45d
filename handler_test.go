package esappender

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"syscall"
	"testing"

	"github.com/sirupsen/logrus"
)

// --- slog Handler Tests ---

func TestHandlerIndexesRecord(t *testing.T) {
	client := &fakeClient{}
	a := newTestAppender(t, nil, client, &syncBuffer{})

	logger := slog.New(NewHandler(a, WithLoggerName("billing")))
	logger.Info("invoice sent", "invoice", 42, "paid", true)
	a.Close()

	calls := client.Calls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 document, got %d", len(calls))
	}
	doc := calls[0].doc
	if doc[FieldLogger] != "billing" || doc[FieldLevel] != "INFO" || doc[FieldMessage] != "invoice sent" {
		t.Errorf("unexpected document: %v", doc)
	}
	fields, ok := doc[FieldFields].(map[string]any)
	if !ok {
		t.Fatalf("expected fields map, got %T", doc[FieldFields])
	}
	if fields["invoice"] != int64(42) || fields["paid"] != true {
		t.Errorf("unexpected fields: %v", fields)
	}
	if _, ok := doc[FieldClassName]; ok {
		t.Error("expected no className without an error")
	}
}

func TestHandlerErrorAttr(t *testing.T) {
	client := &fakeClient{}
	a := newTestAppender(t, nil, client, &syncBuffer{})

	logger := slog.New(NewHandler(a))
	ioErr := &fs.PathError{Op: "write", Path: "/data", Err: syscall.ENOSPC}
	logger.Error("disk full", "err", ioErr)
	a.Close()

	calls := client.Calls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 document, got %d", len(calls))
	}
	doc := calls[0].doc
	if doc[FieldClassName] != "io/fs.PathError" {
		t.Errorf("expected className=io/fs.PathError, got %v", doc[FieldClassName])
	}
	stackTrace, _ := doc[FieldStackTrace].(string)
	if !strings.Contains(stackTrace, "TestHandlerErrorAttr") {
		t.Errorf("expected stack to start at the logging call site, got:\n%s", stackTrace)
	}
	if _, ok := doc[FieldFields]; ok {
		t.Errorf("expected the error attr not to be duplicated in fields, got %v", doc[FieldFields])
	}
}

func TestHandlerLoggerName(t *testing.T) {
	client := &fakeClient{}
	a := newTestAppender(t, nil, client, &syncBuffer{})

	logger := slog.New(NewHandler(a, WithLoggerName("api"))).WithGroup("auth").With("user", "ana")
	logger.Info("login")
	logger.InfoContext(WithLogger(context.Background(), "override"), "logout")
	a.Close()

	calls := client.Calls()
	if len(calls) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(calls))
	}
	if calls[0].doc[FieldLogger] != "api.auth" {
		t.Errorf("expected logger=api.auth, got %v", calls[0].doc[FieldLogger])
	}
	if calls[1].doc[FieldLogger] != "override" {
		t.Errorf("expected logger=override, got %v", calls[1].doc[FieldLogger])
	}
	fields, _ := calls[0].doc[FieldFields].(map[string]any)
	if fields["user"] != "ana" {
		t.Errorf("expected user=ana from WithAttrs, got %v", fields)
	}
}

func TestHandlerUnencodableAttrs(t *testing.T) {
	var mu sync.Mutex
	var docs []map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var doc map[string]any
		if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
			t.Errorf("invalid document: %v", err)
		}
		mu.Lock()
		docs = append(docs, doc)
		mu.Unlock()
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	var out syncBuffer
	a := New(configFor(t, server), WithDiagnostics(NewDiagnostics(&out, 0)))
	defer a.Close()
	if err := a.ActivateOptions(); err != nil {
		t.Fatalf("ActivateOptions failed: %v", err)
	}

	logger := slog.New(NewHandler(a))
	logger.Error("disk full", "ratio", math.NaN())
	logger.Error("disk full", "cb", func() {}, slog.Group("req", "limit", math.Inf(1), "path", "/data"))
	a.Close()

	mu.Lock()
	defer mu.Unlock()
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d (diagnostics: %q)", len(docs), out.String())
	}

	first, _ := docs[0][FieldFields].(map[string]any)
	if first["ratio"] != "NaN" {
		t.Errorf("expected ratio=NaN as text, got %v", first["ratio"])
	}
	if docs[0][FieldLevel] != "ERROR" || docs[0][FieldMessage] != "disk full" {
		t.Errorf("expected base fields kept, got %v", docs[0])
	}

	second, _ := docs[1][FieldFields].(map[string]any)
	if cb, _ := second["cb"].(string); cb == "" {
		t.Errorf("expected cb rendered as text, got %v", second["cb"])
	}
	req, _ := second["req"].(map[string]any)
	if req["limit"] != "+Inf" || req["path"] != "/data" {
		t.Errorf("expected req.limit=+Inf and req.path=/data, got %v", req)
	}
}

func TestHandlerEnabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Threshold = LevelWarn
	a := New(cfg, WithDiagnostics(NewDiagnostics(io.Discard, 0)))
	defer a.Close()

	h := NewHandler(a)
	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("expected INFO disabled at WARN threshold")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("expected ERROR enabled at WARN threshold")
	}

	a.SetThreshold(LevelInfo)
	if !h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("expected INFO enabled after lowering threshold")
	}
}

// --- logrus Hook Tests ---

func TestHookFire(t *testing.T) {
	client := &fakeClient{}
	a := newTestAppender(t, nil, client, &syncBuffer{})

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.AddHook(NewHook(a))

	logger.WithError(errors.New("connection reset")).
		WithField(LoggerField, "worker").
		WithField("attempt", 3).
		Error("sync failed")
	a.Close()

	calls := client.Calls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 document, got %d", len(calls))
	}
	doc := calls[0].doc
	if doc[FieldLogger] != "worker" || doc[FieldLevel] != "ERROR" || doc[FieldMessage] != "sync failed" {
		t.Errorf("unexpected document: %v", doc)
	}
	if doc[FieldClassName] != "errors.errorString" {
		t.Errorf("expected className=errors.errorString, got %v", doc[FieldClassName])
	}
	fields, _ := doc[FieldFields].(map[string]any)
	if len(fields) != 1 || fields["attempt"] != 3 {
		t.Errorf("expected only attempt=3 in fields, got %v", fields)
	}
}

func TestHookLevels(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Threshold = LevelWarn
	a := New(cfg, WithDiagnostics(NewDiagnostics(io.Discard, 0)))
	defer a.Close()

	levels := NewHook(a).Levels()
	want := []logrus.Level{logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel, logrus.WarnLevel}
	if len(levels) != len(want) {
		t.Fatalf("expected %v, got %v", want, levels)
	}
	for i := range want {
		if levels[i] != want[i] {
			t.Errorf("levels[%d]: expected %s, got %s", i, want[i], levels[i])
		}
	}
}
