package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

// capture points the global logger at a buffer for the duration of f.
func capture(t *testing.T, level Level, format Format, f func()) string {
	t.Helper()
	var buf bytes.Buffer
	InitLoggerTo(&buf, level, format)
	defer InitLogger(LevelInfo, FormatJSON)
	f()
	return buf.String()
}

func decode(t *testing.T, line string) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		t.Fatalf("invalid JSON log line %q: %v", line, err)
	}
	return m
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"", LevelInfo, false},
		{"INFO", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"loud", LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr || got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, %v", tt.in, got, err)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("text"); err != nil || f != FormatText {
		t.Errorf("ParseFormat(text) = %v, %v", f, err)
	}
	if f, err := ParseFormat(""); err != nil || f != FormatJSON {
		t.Errorf("ParseFormat(\"\") = %v, %v", f, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat(xml) should fail")
	}
}

func TestInitLoggerLevels(t *testing.T) {
	out := capture(t, LevelWarn, FormatJSON, func() {
		Info("hidden")
		Warn("shown")
	})
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("unexpected output at warn level: %s", out)
	}

	out = capture(t, LevelDebug, FormatText, func() { Debug("visible", "k", "v") })
	if !strings.Contains(out, "msg=visible") || !strings.Contains(out, "k=v") {
		t.Errorf("text output = %q", out)
	}
}

func TestTimestampFormat(t *testing.T) {
	out := capture(t, LevelInfo, FormatJSON, func() { Info("tick") })
	m := decode(t, strings.TrimSpace(out))
	ts, ok := m["time"].(string)
	if !ok {
		t.Fatalf("time field missing: %v", m)
	}
	if _, err := time.Parse(time.RFC3339, ts); err != nil {
		t.Errorf("time %q is not RFC3339: %v", ts, err)
	}
}

func TestRequestIDContext(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	if got := GetRequestID(ctx); got != "req-1" {
		t.Errorf("GetRequestID() = %q", got)
	}
	if got := GetRequestID(context.Background()); got != "" {
		t.Errorf("GetRequestID(empty) = %q", got)
	}

	out := capture(t, LevelInfo, FormatJSON, func() { ErrorContext(ctx, "with id") })
	if decode(t, strings.TrimSpace(out))["request_id"] != "req-1" {
		t.Errorf("request_id missing: %s", out)
	}
}

func TestDomainHelpers(t *testing.T) {
	tests := []struct {
		name  string
		log   func()
		msg   string
		level string
		field string
	}{
		{"dictionary loaded", func() { DictionaryLoaded("wanikani", 60, 2000) }, "dictionary_loaded", "INFO", "kanji"},
		{"dictionary fallback", func() { DictionaryFallback("custom", "default", errors.New("bad group")) }, "dictionary_fallback", "WARN", "error"},
		{"annotation pass", func() { AnnotationPass(context.Background(), 10, 2, time.Millisecond) }, "annotation_pass", "DEBUG", "markers"},
		{"setting changed", func() { SettingChanged("level", "value", 5) }, "setting_changed", "INFO", "key"},
		{"websocket", func() { WebSocketEvent("connect", 1) }, "websocket_event", "INFO", "client_count"},
		{"startup", func() { ServerStartup("http", "tcp", 8080) }, "server_startup", "INFO", "port"},
		{"security", func() { SecurityEvent("origin_rejected", "websocket") }, "security_event", "WARN", "component"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := capture(t, LevelDebug, FormatJSON, tt.log)
			m := decode(t, strings.TrimSpace(out))
			if m["msg"] != tt.msg || m["level"] != tt.level {
				t.Errorf("got msg=%v level=%v, want %s/%s", m["msg"], m["level"], tt.msg, tt.level)
			}
			if _, ok := m[tt.field]; !ok {
				t.Errorf("field %q missing in %v", tt.field, m)
			}
		})
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	id := w.Header().Get("X-Request-ID")
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("generated request ID %q is not a UUID: %v", id, err)
	}
	if seen != id {
		t.Errorf("context ID %q != header ID %q", seen, id)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "client-id")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-ID"); got != "client-id" {
		t.Errorf("X-Request-ID = %q, want client-id", got)
	}
}

func TestLoggingMiddleware(t *testing.T) {
	out := capture(t, LevelInfo, FormatJSON, func() {
		h := CombinedMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
			w.WriteHeader(http.StatusOK)
		}))
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/annotate", nil))
	})

	m := decode(t, strings.TrimSpace(out))
	if m["msg"] != "http_request" || m["path"] != "/annotate" || m["method"] != "POST" {
		t.Errorf("unexpected log entry %v", m)
	}
	if m["status_code"] != float64(http.StatusTeapot) {
		t.Errorf("status_code = %v, want first written status", m["status_code"])
	}
	if m["request_id"] == nil {
		t.Error("request_id missing from request log")
	}
}

func TestResponseWriterDefaultsToOK(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: rec, statusCode: http.StatusOK}
	if _, err := rw.Write([]byte("x")); err != nil {
		t.Fatal(err)
	}
	if rw.statusCode != http.StatusOK || rec.Code != http.StatusOK {
		t.Errorf("status = %d/%d", rw.statusCode, rec.Code)
	}
	if rw.Unwrap() != rec {
		t.Error("Unwrap() should return the wrapped writer")
	}
}

func TestResponseWriterHijackUnsupported(t *testing.T) {
	rw := &responseWriter{ResponseWriter: httptest.NewRecorder(), statusCode: http.StatusOK}
	if _, _, err := rw.Hijack(); err == nil {
		t.Error("Hijack() on a recorder should fail")
	}
}
