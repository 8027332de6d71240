package database

import (
	"context"
	"fmt"
	"sync"
)

// Backend holds the repository constructors of one storage implementation.
// Storage packages register themselves to avoid import cycles.
type Backend struct {
	Name            string
	EmbeddingReader func() EmbeddingReader
	EmbeddingWriter func() EmbeddingWriter
	Ledger          func() Ledger
}

var (
	backendMu sync.RWMutex
	backend   *Backend
)

// RegisterBackend makes b the active backend, replacing any earlier one.
func RegisterBackend(b Backend) {
	backendMu.Lock()
	defer backendMu.Unlock()
	backend = &b
}

// ResetBackend unregisters the active backend.
func ResetBackend() {
	backendMu.Lock()
	defer backendMu.Unlock()
	backend = nil
}

// IsInitialized returns whether a storage backend has been registered.
func IsInitialized() bool {
	backendMu.RLock()
	defer backendMu.RUnlock()
	return backend != nil
}

// BackendName returns the name of the active backend, or "" if none is registered.
func BackendName() string {
	backendMu.RLock()
	defer backendMu.RUnlock()
	if backend == nil {
		return ""
	}
	return backend.Name
}

func activeBackend() (*Backend, error) {
	backendMu.RLock()
	defer backendMu.RUnlock()
	if backend == nil {
		return nil, fmt.Errorf("storage backend not initialized")
	}
	return backend, nil
}

// GetEmbeddingReader returns an EmbeddingReader from the active backend
func GetEmbeddingReader(_ context.Context) (EmbeddingReader, error) {
	b, err := activeBackend()
	if err != nil {
		return nil, err
	}
	if b.EmbeddingReader == nil {
		return nil, fmt.Errorf("%s embedding reader not registered", b.Name)
	}
	return b.EmbeddingReader(), nil
}

// GetEmbeddingWriter returns an EmbeddingWriter from the active backend
func GetEmbeddingWriter(_ context.Context) (EmbeddingWriter, error) {
	b, err := activeBackend()
	if err != nil {
		return nil, err
	}
	if b.EmbeddingWriter == nil {
		return nil, fmt.Errorf("%s embedding writer not registered", b.Name)
	}
	return b.EmbeddingWriter(), nil
}

// GetLedger returns the attendance Ledger from the active backend
func GetLedger(_ context.Context) (Ledger, error) {
	b, err := activeBackend()
	if err != nil {
		return nil, err
	}
	if b.Ledger == nil {
		return nil, fmt.Errorf("%s ledger not registered", b.Name)
	}
	return b.Ledger(), nil
}
