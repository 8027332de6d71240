// Package mariadb stores identities and the attendance ledger in MariaDB or
// MySQL. Descriptors are kept as JSON arrays since there is no vector type.
package mariadb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/kozaktomas/face-attendance/internal/config"
	"github.com/kozaktomas/face-attendance/internal/database"
)

// Pool manages a MariaDB connection pool.
type Pool struct {
	db *sql.DB
}

var (
	globalPool *Pool
	poolMu     sync.RWMutex
)

// schema is applied on every start; all statements are idempotent.
// Names use a binary collation so lookups match exactly, like the file backend.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS identities (
		name VARCHAR(255) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL PRIMARY KEY,
		embedding_json MEDIUMBLOB NOT NULL,
		updated_at DATETIME(6) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS attendance (
		id CHAR(36) NOT NULL PRIMARY KEY,
		name VARCHAR(255) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL,
		date DATE NOT NULL,
		time TIME NOT NULL,
		marked_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
		INDEX idx_attendance_date (date),
		INDEX idx_attendance_name_date (name, date)
	)`,
}

// normalizeDSN forces parseTime so DATETIME columns scan into time.Time.
func normalizeDSN(dsn string) (string, error) {
	if dsn == "" {
		return "", errors.New("MariaDB DSN is required")
	}
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid MariaDB DSN: %w", err)
	}
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

// NewPool creates a new MariaDB connection pool.
func NewPool(cfg *config.DatabaseConfig) (*Pool, error) {
	dsn, err := normalizeDSN(cfg.MariaDBDSN)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MariaDB: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping MariaDB: %w", err)
	}

	return &Pool{db: db}, nil
}

// EnsureSchema creates the tables if they do not exist yet.
func (p *Pool) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := p.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// Close closes the connection pool.
func (p *Pool) Close() error {
	if p.db != nil {
		if err := p.db.Close(); err != nil {
			return fmt.Errorf("closing database connection: %w", err)
		}
	}
	return nil
}

// SetGlobalPool sets the global pool instance.
func SetGlobalPool(p *Pool) {
	poolMu.Lock()
	defer poolMu.Unlock()
	globalPool = p
}

// GetGlobalPool returns the global pool instance, or nil before Initialize.
func GetGlobalPool() *Pool {
	poolMu.RLock()
	defer poolMu.RUnlock()
	return globalPool
}

// Initialize connects, applies the schema and registers the MariaDB backend.
func Initialize(cfg *config.DatabaseConfig) error {
	if cfg == nil || cfg.MariaDBDSN == "" {
		return errors.New("MariaDB DSN is required")
	}

	pool, err := NewPool(cfg)
	if err != nil {
		return err
	}
	if err := pool.EnsureSchema(context.Background()); err != nil {
		pool.Close()
		return err
	}

	SetGlobalPool(pool)
	Register(pool)
	return nil
}

// Register makes the repositories over pool the active storage backend.
func Register(pool *Pool) {
	identities := NewIdentityRepository(pool)
	ledger := NewAttendanceRepository(pool)

	database.RegisterBackend(database.Backend{
		Name:            database.BackendMariaDB,
		EmbeddingReader: func() database.EmbeddingReader { return identities },
		EmbeddingWriter: func() database.EmbeddingWriter { return identities },
		Ledger:          func() database.Ledger { return ledger },
	})
}
