// Package filestore keeps identities and the attendance ledger in plain files:
// one gob record per identity and a CSV attendance log.
package filestore

import (
	"errors"
	"fmt"
	"os"

	"github.com/kozaktomas/face-attendance/internal/config"
	"github.com/kozaktomas/face-attendance/internal/database"
	"github.com/kozaktomas/face-attendance/internal/logger"
)

// Initialize opens the file backend and registers it as the active storage backend.
func Initialize(cfg *config.StorageConfig, log *logger.Logger) error {
	if cfg == nil {
		return errors.New("storage config is required")
	}

	store, err := NewEmbeddingStore(cfg.EncodingsDir, log)
	if err != nil {
		return err
	}
	ledger, err := NewCSVLedger(cfg.AttendanceFile, log)
	if err != nil {
		return err
	}

	database.RegisterBackend(database.Backend{
		Name:            database.BackendFile,
		EmbeddingReader: func() database.EmbeddingReader { return store },
		EmbeddingWriter: func() database.EmbeddingWriter { return store },
		Ledger:          func() database.Ledger { return ledger },
	})
	return nil
}

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	return nil
}
