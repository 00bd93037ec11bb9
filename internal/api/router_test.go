package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/tradepulse/internal/domain/dto"
	"github.com/guttosm/tradepulse/internal/notify"
)

func TestNewRouter_WiringAndMiddlewares(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := NewHandler(&mockReportService{resp: sampleReport()}, &mockTradeService{})
	r := NewRouter(h, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/report", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected X-Request-ID header to be set")
	}

	var out dto.ReportResponse
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if out.Summary.Total != 1 {
		t.Fatalf("unexpected body: %+v", out)
	}

	// No webhook configured: /callback is not mounted.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/callback", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for /callback, got %d", w.Code)
	}
}

func TestNewRouter_MountsWebhook(t *testing.T) {
	gin.SetMode(gin.TestMode)

	wh := NewWebhookHandler(testSecret, &mockTradeService{}, &fakeReplier{})
	r := NewRouter(NewHandler(&mockReportService{}, &mockTradeService{}), wh)

	body := []byte(`{"events":[]}`)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/callback", bytes.NewReader(body)))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unsigned callback: expected 400, got %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/callback", bytes.NewReader(body))
	req.Header.Set(notify.SignatureHeader, notify.Sign(testSecret, body))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("signed callback: expected 200, got %d", w.Code)
	}
}

func TestNewRouter_RateLimitOption(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := NewRouter(NewHandler(&mockReportService{resp: sampleReport()}, &mockTradeService{}), nil, WithRateLimit(2, time.Minute))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/report", nil))
		codes = append(codes, w.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("codes = %v, want [200 200 429]", codes)
	}
}
