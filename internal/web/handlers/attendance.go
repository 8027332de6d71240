package handlers

import (
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/face-attendance/internal/constants"
	"github.com/kozaktomas/face-attendance/internal/database"
	"github.com/kozaktomas/face-attendance/internal/facematch"
	"github.com/kozaktomas/face-attendance/internal/logger"
)

// AttendanceHandler serves the attendance ledger
type AttendanceHandler struct {
	ledger database.Ledger
	log    *logger.Logger
	now    func() time.Time
}

// NewAttendanceHandler creates a new attendance handler
func NewAttendanceHandler(ledger database.Ledger, log *logger.Logger) *AttendanceHandler {
	return &AttendanceHandler{ledger: ledger, log: log, now: time.Now}
}

// AttendanceResponse is the list of ledger rows, optionally for one date
type AttendanceResponse struct {
	Date    string                      `json:"date,omitempty"`
	Count   int                         `json:"count"`
	Records []database.AttendanceRecord `json:"records"`
}

// PresenceResponse answers whether one person is marked for today
type PresenceResponse struct {
	Name    string `json:"name"`
	Date    string `json:"date"`
	Present bool   `json:"present"`
}

// List returns ledger rows in file order. With ?date=YYYY-MM-DD only rows of
// that day are returned.
func (h *AttendanceHandler) List(w http.ResponseWriter, r *http.Request) {
	date, ok := parseDate(r.URL.Query().Get("date"))
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	records, err := h.ledger.Records(r.Context(), date)
	if err != nil {
		h.log.Error(err, "failed to read attendance records")
		respondError(w, http.StatusInternalServerError, "failed to read attendance records")
		return
	}
	if records == nil {
		records = []database.AttendanceRecord{}
	}

	respondJSON(w, http.StatusOK, AttendanceResponse{
		Date:    date,
		Count:   len(records),
		Records: records,
	})
}

// Today reports whether the named person already has a record for today.
func (h *AttendanceHandler) Today(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	// chi matches on the escaped path when the request needed one
	if r.URL.RawPath != "" {
		unescaped, err := url.PathUnescape(name)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid name")
			return
		}
		name = unescaped
	}
	name, err := facematch.CleanIdentityName(name)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid name")
		return
	}

	present, err := h.ledger.IsMarkedPresent(r.Context(), name)
	if err != nil {
		h.log.Errorf(err, "failed to check presence of %s", sanitizeForLog(name))
		respondError(w, http.StatusInternalServerError, "failed to check attendance")
		return
	}

	respondJSON(w, http.StatusOK, PresenceResponse{
		Name:    name,
		Date:    h.now().Format(constants.DateLayout),
		Present: present,
	})
}
