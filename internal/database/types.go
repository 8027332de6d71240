package database

import (
	"time"

	"github.com/kozaktomas/face-attendance/internal/constants"
)

// Identity is one enrolled person with their averaged face descriptor
type Identity struct {
	Name      string
	Embedding []float64
	UpdatedAt time.Time
}

// AttendanceRecord is one row of the attendance ledger
type AttendanceRecord struct {
	Name string `json:"name"`
	Date string `json:"date"` // constants.DateLayout
	Time string `json:"time"` // constants.TimeLayout
}

// NewAttendanceRecord builds a record for name at the given instant.
func NewAttendanceRecord(name string, at time.Time) AttendanceRecord {
	return AttendanceRecord{
		Name: name,
		Date: at.Format(constants.DateLayout),
		Time: at.Format(constants.TimeLayout),
	}
}

