package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/tradepulse/internal/logger"
)

func TestToString(t *testing.T) {
	if s := toString(nil); s != "" {
		t.Fatalf("nil -> %q, want empty", s)
	}
	if s := toString("abc"); s != "abc" {
		t.Fatalf("string -> %q, want 'abc'", s)
	}
	if s := toString(123); s != "" {
		t.Fatalf("non-string -> %q, want empty", s)
	}
}

// captureLog routes the global logger into a buffer for the test's duration.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	t.Setenv("LOG_PRETTY", "false")
	t.Setenv("LOG_LEVEL", "debug")
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	logger.Init()
	t.Cleanup(func() {
		logger.SetOutput(nil)
		logger.Init()
	})
	return &buf
}

func lastLogLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var entry map[string]any
	if err := json.Unmarshal(lines[len(lines)-1], &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%s)", err, buf.String())
	}
	return entry
}

func TestRequestLogger_LevelFollowsStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		status int
		level  string
	}{
		{"ok", http.StatusCreated, "info"},
		{"client error", http.StatusBadRequest, "warn"},
		{"server error", http.StatusServiceUnavailable, "error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLog(t)
			router := gin.New()
			router.Use(RequestID(), RequestLogger())
			router.POST("/api/v1/trades", func(c *gin.Context) { c.Status(tt.status) })

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/trades", nil))

			entry := lastLogLine(t, buf)
			if entry["level"] != tt.level {
				t.Fatalf("level = %v, want %s", entry["level"], tt.level)
			}
			if entry["route"] != "/api/v1/trades" || entry["method"] != http.MethodPost {
				t.Fatalf("unexpected entry %v", entry)
			}
			if entry["request_id"] != w.Header().Get(RequestIDHeader) {
				t.Fatalf("request_id = %v, header = %s", entry["request_id"], w.Header().Get(RequestIDHeader))
			}
			if int(entry["status"].(float64)) != tt.status {
				t.Fatalf("status = %v, want %d", entry["status"], tt.status)
			}
		})
	}
}

func TestRequestLogger_UnmatchedRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLog(t)
	router := gin.New()
	router.Use(RequestLogger())

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	entry := lastLogLine(t, buf)
	if entry["path"] != "/nowhere" || entry["route"] != "" {
		t.Fatalf("unexpected entry %v", entry)
	}
	if entry["level"] != "warn" {
		t.Fatalf("404 should log at warn, got %v", entry["level"])
	}
}
