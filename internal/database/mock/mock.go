// Package mock provides mock implementations of database interfaces for testing.
package mock

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/kozaktomas/face-attendance/internal/constants"
	"github.com/kozaktomas/face-attendance/internal/database"
)

// MockEmbeddingStore is an in-memory implementation of database.EmbeddingWriter
type MockEmbeddingStore struct {
	mu         sync.RWMutex
	identities map[string][]float64

	// Error injection
	LoadAllError error
	ExistsError  error
	ListError    error
	SaveError    error

	// SaveCalls counts successful and failed Save calls
	SaveCalls int
}

// NewMockEmbeddingStore creates a new mock embedding store
func NewMockEmbeddingStore() *MockEmbeddingStore {
	return &MockEmbeddingStore{identities: make(map[string][]float64)}
}

// AddIdentity stores an identity without going through Save
func (m *MockEmbeddingStore) AddIdentity(name string, embedding []float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.identities[name] = embedding
}

// Get returns the stored embedding for name, or nil
func (m *MockEmbeddingStore) Get(name string) []float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.identities[name]
}

func (m *MockEmbeddingStore) LoadAll(_ context.Context) (map[string][]float64, error) {
	if m.LoadAllError != nil {
		return nil, m.LoadAllError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string][]float64, len(m.identities))
	for name, v := range m.identities {
		out[name] = v
	}
	return out, nil
}

func (m *MockEmbeddingStore) Exists(_ context.Context, name string) (bool, error) {
	if m.ExistsError != nil {
		return false, m.ExistsError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.identities[name]
	return ok, nil
}

func (m *MockEmbeddingStore) List(_ context.Context) ([]database.Identity, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]database.Identity, 0, len(m.identities))
	for name, v := range m.identities {
		out = append(out, database.Identity{Name: name, Embedding: v})
	}
	slices.SortFunc(out, func(a, b database.Identity) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (m *MockEmbeddingStore) Save(_ context.Context, name string, embedding []float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls++
	if m.SaveError != nil {
		return m.SaveError
	}
	m.identities[name] = embedding
	return nil
}

// MockLedger is an in-memory implementation of database.Ledger
type MockLedger struct {
	mu      sync.RWMutex
	records []database.AttendanceRecord

	// Now is the clock used for new records and today's date
	Now func() time.Time

	// Error injection
	IsMarkedPresentError error
	MarkAttendanceError  error
	RecordsError         error
}

// NewMockLedger creates a new mock ledger using the real clock
func NewMockLedger() *MockLedger {
	return &MockLedger{Now: time.Now}
}

// AddRecord appends a record without going through MarkAttendance
func (m *MockLedger) AddRecord(rec database.AttendanceRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
}

// Count returns the number of stored records
func (m *MockLedger) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

func (m *MockLedger) IsMarkedPresent(_ context.Context, name string) (bool, error) {
	if m.IsMarkedPresentError != nil {
		return false, m.IsMarkedPresentError
	}
	today := m.Now().Format(constants.DateLayout)
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.records {
		if r.Name == name && r.Date == today {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockLedger) MarkAttendance(_ context.Context, name string) (database.AttendanceRecord, error) {
	if m.MarkAttendanceError != nil {
		return database.AttendanceRecord{}, m.MarkAttendanceError
	}
	rec := database.NewAttendanceRecord(name, m.Now())
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	return rec, nil
}

func (m *MockLedger) Records(_ context.Context, date string) ([]database.AttendanceRecord, error) {
	if m.RecordsError != nil {
		return nil, m.RecordsError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []database.AttendanceRecord
	for _, r := range m.records {
		if date == "" || r.Date == date {
			out = append(out, r)
		}
	}
	return out, nil
}

var (
	_ database.EmbeddingWriter = (*MockEmbeddingStore)(nil)
	_ database.Ledger          = (*MockLedger)(nil)
)
