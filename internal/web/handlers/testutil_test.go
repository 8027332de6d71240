package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/face-attendance/internal/config"
	"github.com/kozaktomas/face-attendance/internal/database"
	"github.com/kozaktomas/face-attendance/internal/database/mock"
	"github.com/kozaktomas/face-attendance/internal/logger"
)

// testConfig creates a minimal config for testing
func testConfig() *config.Config {
	d := config.LoadDefaults()
	return &config.Config{
		Matching:   d.Matching,
		Liveness:   d.Liveness,
		Enrollment: d.Enrollment,
	}
}

// fixedClock returns a clock stuck at 2024-03-05 09:30:00 UTC
func fixedClock() func() time.Time {
	at := time.Date(2024, 3, 5, 9, 30, 0, 0, time.UTC)
	return func() time.Time { return at }
}

// newTestLedger creates a mock ledger with two days of records
func newTestLedger() *mock.MockLedger {
	l := mock.NewMockLedger()
	l.Now = fixedClock()
	l.AddRecord(database.AttendanceRecord{Name: "Alice", Date: "2024-03-04", Time: "08:01:00"})
	l.AddRecord(database.AttendanceRecord{Name: "Bob", Date: "2024-03-05", Time: "08:15:30"})
	l.AddRecord(database.AttendanceRecord{Name: "Alice", Date: "2024-03-05", Time: "08:20:00"})
	return l
}

// testLogger discards all output
func testLogger() *logger.Logger {
	return logger.Nop()
}

// requestWithChiParams creates a request with chi URL parameters
func requestWithChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// parseJSONResponse parses a JSON response body into the target type
func parseJSONResponse(t *testing.T, recorder *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), target); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nBody: %s", err, recorder.Body.String())
	}
}

// assertStatusCode checks if the response has the expected status code
func assertStatusCode(t *testing.T, recorder *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if recorder.Code != expected {
		t.Errorf("expected status %d, got %d\nBody: %s", expected, recorder.Code, recorder.Body.String())
	}
}

// assertContentType checks if the response has the expected content type
func assertContentType(t *testing.T, recorder *httptest.ResponseRecorder, expected string) {
	t.Helper()
	ct := recorder.Header().Get("Content-Type")
	if ct != expected {
		t.Errorf("expected Content-Type '%s', got '%s'", expected, ct)
	}
}

// assertJSONError checks if the response is a JSON error with the expected message
func assertJSONError(t *testing.T, recorder *httptest.ResponseRecorder, expectedMessage string) {
	t.Helper()
	var result map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse error response: %v\nBody: %s", err, recorder.Body.String())
	}
	if result["error"] != expectedMessage {
		t.Errorf("expected error '%s', got '%s'", expectedMessage, result["error"])
	}
}
