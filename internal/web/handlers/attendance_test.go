package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kozaktomas/face-attendance/internal/database"
)

func TestAttendanceHandler_List(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantCount int
		wantFirst string
	}{
		{"all records", "", 3, "Alice"},
		{"one day", "?date=2024-03-05", 2, "Bob"},
		{"day without records", "?date=2024-01-01", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewAttendanceHandler(newTestLedger(), testLogger())

			req := httptest.NewRequest("GET", "/api/v1/attendance"+tt.query, nil)
			recorder := httptest.NewRecorder()
			handler.List(recorder, req)

			assertStatusCode(t, recorder, http.StatusOK)

			var resp AttendanceResponse
			parseJSONResponse(t, recorder, &resp)
			if resp.Count != tt.wantCount || len(resp.Records) != tt.wantCount {
				t.Fatalf("got %d records, want %d", len(resp.Records), tt.wantCount)
			}
			if resp.Records == nil {
				t.Error("records should be an empty array, not null")
			}
			if tt.wantCount > 0 && resp.Records[0].Name != tt.wantFirst {
				t.Errorf("records[0].name = %q, want %q", resp.Records[0].Name, tt.wantFirst)
			}
		})
	}
}

func TestAttendanceHandler_List_InvalidDate(t *testing.T) {
	handler := NewAttendanceHandler(newTestLedger(), testLogger())

	req := httptest.NewRequest("GET", "/api/v1/attendance?date=yesterday", nil)
	recorder := httptest.NewRecorder()
	handler.List(recorder, req)

	assertStatusCode(t, recorder, http.StatusBadRequest)
	assertJSONError(t, recorder, "invalid date, expected YYYY-MM-DD")
}

func TestAttendanceHandler_List_LedgerError(t *testing.T) {
	ledger := newTestLedger()
	ledger.RecordsError = errors.New("locked")
	handler := NewAttendanceHandler(ledger, testLogger())

	req := httptest.NewRequest("GET", "/api/v1/attendance", nil)
	recorder := httptest.NewRecorder()
	handler.List(recorder, req)

	assertStatusCode(t, recorder, http.StatusInternalServerError)
	assertJSONError(t, recorder, "failed to read attendance records")
}

func TestAttendanceHandler_Today(t *testing.T) {
	tests := []struct {
		name        string
		param       string
		wantName    string
		wantPresent bool
	}{
		{"marked today", "Bob", "Bob", true},
		{"only marked yesterday", "Carol", "Carol", false},
		{"exact match only", "alice", "alice", false},
		{"percent sign kept", "100%", "100%", false},
		{"surrounding spaces trimmed", "  Bob ", "Bob", true},
		{"decomposed form matches composed record", "Zoe\u0308", "Zo\u00eb", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := newTestLedger()
			ledger.AddRecord(database.AttendanceRecord{Name: "Zo\u00eb", Date: "2024-03-05", Time: "08:45:00"})
			handler := NewAttendanceHandler(ledger, testLogger())
			handler.now = fixedClock()

			req := httptest.NewRequest("GET", "/api/v1/attendance/x/today", nil)
			req = requestWithChiParams(req, map[string]string{"name": tt.param})
			recorder := httptest.NewRecorder()
			handler.Today(recorder, req)

			assertStatusCode(t, recorder, http.StatusOK)

			var resp PresenceResponse
			parseJSONResponse(t, recorder, &resp)
			if resp.Name != tt.wantName {
				t.Errorf("name = %q, want %q", resp.Name, tt.wantName)
			}
			if resp.Present != tt.wantPresent {
				t.Errorf("present = %v, want %v", resp.Present, tt.wantPresent)
			}
			if resp.Date != "2024-03-05" {
				t.Errorf("date = %q, want %q", resp.Date, "2024-03-05")
			}
		})
	}
}

func TestAttendanceHandler_Today_Errors(t *testing.T) {
	t.Run("empty name", func(t *testing.T) {
		handler := NewAttendanceHandler(newTestLedger(), testLogger())
		req := requestWithChiParams(httptest.NewRequest("GET", "/", nil), map[string]string{"name": ""})
		recorder := httptest.NewRecorder()
		handler.Today(recorder, req)

		assertStatusCode(t, recorder, http.StatusBadRequest)
		assertJSONError(t, recorder, "invalid name")
	})

	t.Run("blank name", func(t *testing.T) {
		handler := NewAttendanceHandler(newTestLedger(), testLogger())
		req := requestWithChiParams(httptest.NewRequest("GET", "/", nil), map[string]string{"name": "   "})
		recorder := httptest.NewRecorder()
		handler.Today(recorder, req)

		assertStatusCode(t, recorder, http.StatusBadRequest)
		assertJSONError(t, recorder, "invalid name")
	})

	t.Run("escaped slash", func(t *testing.T) {
		handler := NewAttendanceHandler(newTestLedger(), testLogger())
		req := httptest.NewRequest("GET", "/api/v1/attendance/A%2FB/today", nil)
		req = requestWithChiParams(req, map[string]string{"name": "A%2FB"})
		recorder := httptest.NewRecorder()
		handler.Today(recorder, req)

		assertStatusCode(t, recorder, http.StatusBadRequest)
		assertJSONError(t, recorder, "invalid name")
	})

	t.Run("ledger error", func(t *testing.T) {
		ledger := newTestLedger()
		ledger.IsMarkedPresentError = errors.New("locked")
		handler := NewAttendanceHandler(ledger, testLogger())
		req := requestWithChiParams(httptest.NewRequest("GET", "/", nil), map[string]string{"name": "Bob"})
		recorder := httptest.NewRecorder()
		handler.Today(recorder, req)

		assertStatusCode(t, recorder, http.StatusInternalServerError)
		assertJSONError(t, recorder, "failed to check attendance")
	})
}
