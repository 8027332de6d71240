package mariadb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kozaktomas/face-attendance/internal/constants"
	"github.com/kozaktomas/face-attendance/internal/database"
)

// AttendanceRepository is the attendance ledger stored in the attendance table
type AttendanceRepository struct {
	pool *Pool
	now  func() time.Time
}

// NewAttendanceRepository creates a new MariaDB attendance ledger
func NewAttendanceRepository(pool *Pool) *AttendanceRepository {
	return &AttendanceRepository{pool: pool, now: time.Now}
}

// SetClock replaces the clock used for today's date and new records
func (r *AttendanceRepository) SetClock(now func() time.Time) {
	r.now = now
}

// IsMarkedPresent reports whether name has a record dated today
func (r *AttendanceRepository) IsMarkedPresent(ctx context.Context, name string) (bool, error) {
	today := r.now().Format(constants.DateLayout)

	var exists bool
	err := r.pool.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM attendance WHERE name = ? AND date = ?)",
		name, today,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check attendance: %w", err)
	}
	return exists, nil
}

// MarkAttendance inserts a record for name with the current date and time
func (r *AttendanceRepository) MarkAttendance(ctx context.Context, name string) (database.AttendanceRecord, error) {
	rec := database.NewAttendanceRecord(name, r.now())

	_, err := r.pool.db.ExecContext(ctx,
		"INSERT INTO attendance (id, name, date, time) VALUES (?, ?, ?, ?)",
		uuid.NewString(), rec.Name, rec.Date, rec.Time,
	)
	if err != nil {
		return rec, fmt.Errorf("insert attendance for %s: %w", name, err)
	}
	return rec, nil
}

// Records returns ledger rows in insertion order, optionally limited to one date
func (r *AttendanceRepository) Records(ctx context.Context, date string) ([]database.AttendanceRecord, error) {
	query := `
		SELECT name, DATE_FORMAT(date, '%Y-%m-%d'), TIME_FORMAT(time, '%H:%i:%s')
		FROM attendance
		WHERE ? = '' OR date = ?
		ORDER BY date, time, marked_at
	`
	rows, err := r.pool.db.QueryContext(ctx, query, date, date)
	if err != nil {
		return nil, fmt.Errorf("query attendance: %w", err)
	}
	defer rows.Close()

	var records []database.AttendanceRecord
	for rows.Next() {
		var rec database.AttendanceRecord
		if err := rows.Scan(&rec.Name, &rec.Date, &rec.Time); err != nil {
			return nil, fmt.Errorf("scan attendance: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attendance: %w", err)
	}
	return records, nil
}

var _ database.Ledger = (*AttendanceRepository)(nil)
