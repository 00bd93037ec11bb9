package dto

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestErrorResponse_Error(t *testing.T) {
	tests := []struct {
		name string
		resp ErrorResponse
		want string
	}{
		{"message only", ErrorResponse{Message: "invalid request body"}, "invalid request body"},
		{"with details", ErrorResponse{Message: "invalid request body", ErrorDetails: `unknown action "HOLD"`}, `invalid request body: unknown action "HOLD"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.resp.Error(); got != tt.want {
				t.Fatalf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewErrorResponse(t *testing.T) {
	e := NewErrorResponse("trade log is malformed", nil)
	if e.Message != "trade log is malformed" || e.ErrorDetails != "" {
		t.Fatalf("unexpected %+v", e)
	}
	if e.Timestamp.IsZero() || time.Since(e.Timestamp) > time.Second || e.Timestamp.Location() != time.UTC {
		t.Fatalf("timestamp not set to now in UTC: %v", e.Timestamp)
	}

	e2 := NewErrorResponse("failed to append trade", errors.New("disk full"))
	if e2.ErrorDetails != "disk full" {
		t.Fatalf("unexpected %+v", e2)
	}

	var asErr error = e2
	var target ErrorResponse
	if !errors.As(asErr, &target) || target.Message != "failed to append trade" {
		t.Fatalf("errors.As did not recover the response: %+v", target)
	}
}

func TestErrorResponse_JSONOmitsEmptyDetails(t *testing.T) {
	raw, err := json.Marshal(NewErrorResponse("not found", nil))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(raw), "error_details") {
		t.Fatalf("empty details should be omitted: %s", raw)
	}
	for _, key := range []string{`"message":"not found"`, `"timestamp"`} {
		if !strings.Contains(string(raw), key) {
			t.Fatalf("missing %s in %s", key, raw)
		}
	}
}
