package database

import (
	"context"
)

// EmbeddingReader provides read-only access to enrolled identities
type EmbeddingReader interface {
	// LoadAll returns every stored identity keyed by name.
	// Unreadable records are skipped by the backend.
	LoadAll(ctx context.Context) (map[string][]float64, error)
	// Exists checks whether an identity with that exact name is stored
	Exists(ctx context.Context, name string) (bool, error)
	// List returns stored identities sorted by name
	List(ctx context.Context) ([]Identity, error)
}

// EmbeddingWriter provides write access to enrolled identities
type EmbeddingWriter interface {
	EmbeddingReader

	// Save stores the descriptor for name, replacing any existing record
	Save(ctx context.Context, name string, embedding []float64) error
}

// Ledger is the append-only attendance log
type Ledger interface {
	// IsMarkedPresent reports whether name already has a record for today
	IsMarkedPresent(ctx context.Context, name string) (bool, error)
	// MarkAttendance appends a record for name with the current date and time
	MarkAttendance(ctx context.Context, name string) (AttendanceRecord, error)
	// Records returns all records, or only those of date when it is non-empty
	Records(ctx context.Context, date string) ([]AttendanceRecord, error)
}
