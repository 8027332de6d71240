package filestore

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/kozaktomas/face-attendance/internal/constants"
	"github.com/kozaktomas/face-attendance/internal/database"
	"github.com/kozaktomas/face-attendance/internal/logger"
)

var ledgerHeader = []string{"Name", "Date", "Time"}

// CSVLedger appends attendance records to a CSV file with a Name,Date,Time header.
type CSVLedger struct {
	path string
	now  func() time.Time
	log  *logger.Logger
	mu   sync.Mutex
}

// NewCSVLedger opens the ledger at path, creating it with the header row when
// it does not exist or is empty. Existing content is never touched.
func NewCSVLedger(path string, log *logger.Logger) (*CSVLedger, error) {
	if path == "" {
		return nil, errors.New("attendance file path is required")
	}
	if log == nil {
		log = logger.Nop()
	}
	l := &CSVLedger{path: path, now: time.Now, log: log}
	if err := l.ensureHeader(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *CSVLedger) ensureHeader() error {
	if dir := filepath.Dir(l.path); dir != "." {
		if err := ensureDir(dir); err != nil {
			return err
		}
	}

	info, err := os.Stat(l.path)
	switch {
	case err == nil && info.Size() > 0:
		return nil
	case err != nil && !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("checking attendance log: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("creating attendance log: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(ledgerHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	return nil
}

// SetClock replaces the clock used for today's date and new records.
func (l *CSVLedger) SetClock(now func() time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = now
}

// Path returns the CSV file location.
func (l *CSVLedger) Path() string {
	return l.path
}

func isHeader(row []string) bool {
	return len(row) == len(ledgerHeader) &&
		row[0] == ledgerHeader[0] && row[1] == ledgerHeader[1] && row[2] == ledgerHeader[2]
}

// readAll returns every data row. A missing file is an empty ledger.
func (l *CSVLedger) readAll() ([]database.AttendanceRecord, error) {
	f, err := os.Open(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening attendance log: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var records []database.AttendanceRecord
	for first := true; ; first = false {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			l.log.Warnf("Skipping malformed attendance row: %v", parseErr)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading attendance log: %w", err)
		}
		if first && isHeader(row) {
			continue
		}
		if len(row) < 3 {
			continue
		}
		records = append(records, database.AttendanceRecord{Name: row[0], Date: row[1], Time: row[2]})
	}
	return records, nil
}

func (l *CSVLedger) IsMarkedPresent(_ context.Context, name string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	records, err := l.readAll()
	if err != nil {
		return false, err
	}
	today := l.now().Format(constants.DateLayout)
	for _, r := range records {
		if r.Name == name && r.Date == today {
			return true, nil
		}
	}
	return false, nil
}

func (l *CSVLedger) MarkAttendance(_ context.Context, name string) (database.AttendanceRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec := database.NewAttendanceRecord(name, l.now())

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return rec, fmt.Errorf("opening attendance log: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{rec.Name, rec.Date, rec.Time}); err != nil {
		return rec, fmt.Errorf("writing record: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return rec, fmt.Errorf("flushing attendance log: %w", err)
	}
	return rec, nil
}

func (l *CSVLedger) Records(_ context.Context, date string) ([]database.AttendanceRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	records, err := l.readAll()
	if err != nil || date == "" {
		return records, err
	}

	var filtered []database.AttendanceRecord
	for _, r := range records {
		if r.Date == date {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

var _ database.Ledger = (*CSVLedger)(nil)
