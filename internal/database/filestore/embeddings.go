package filestore

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/kozaktomas/face-attendance/internal/database"
	"github.com/kozaktomas/face-attendance/internal/logger"
)

const recordExt = ".gob"

// record is the on-disk form of one identity
type record struct {
	Name      string
	Embedding []float64
	UpdatedAt time.Time
}

// EmbeddingStore stores one gob file per identity, named <name>.gob.
type EmbeddingStore struct {
	dir string
	log *logger.Logger
}

// NewEmbeddingStore opens dir, creating it when missing.
func NewEmbeddingStore(dir string, log *logger.Logger) (*EmbeddingStore, error) {
	if dir == "" {
		return nil, errors.New("encodings directory is required")
	}
	if err := ensureDir(dir); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop()
	}
	return &EmbeddingStore{dir: dir, log: log}, nil
}

func (s *EmbeddingStore) path(name string) string {
	return filepath.Join(s.dir, name+recordExt)
}

// Save writes the record through a temp file so an interrupted write never
// leaves a truncated record behind.
func (s *EmbeddingStore) Save(_ context.Context, name string, embedding []float64) error {
	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	rec := record{Name: name, Embedding: embedding, UpdatedAt: time.Now()}
	if err := gob.NewEncoder(tmp).Encode(rec); err != nil {
		tmp.Close()
		return fmt.Errorf("encoding record for %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(name)); err != nil {
		return fmt.Errorf("writing record for %s: %w", name, err)
	}
	return nil
}

func (s *EmbeddingStore) Exists(_ context.Context, name string) (bool, error) {
	info, err := os.Stat(s.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking record for %s: %w", name, err)
	}
	return info.Mode().IsRegular(), nil
}

func readRecord(path string) (record, error) {
	var rec record
	f, err := os.Open(path) //nolint:gosec // path is built from the configured directory
	if err != nil {
		return rec, err
	}
	defer f.Close()

	if err := gob.NewDecoder(f).Decode(&rec); err != nil {
		return rec, fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}
	if len(rec.Embedding) == 0 {
		return rec, fmt.Errorf("decoding %s: empty embedding", filepath.Base(path))
	}
	return rec, nil
}

// list reads every record in the directory. Unreadable records are logged and skipped.
func (s *EmbeddingStore) list(ctx context.Context) ([]database.Identity, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading encodings directory: %w", err)
	}

	var identities []database.Identity
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.IsDir() || filepath.Ext(e.Name()) != recordExt {
			continue
		}

		name := strings.TrimSuffix(e.Name(), recordExt)
		rec, err := readRecord(filepath.Join(s.dir, e.Name()))
		if err != nil {
			s.log.Errorf(err, "Skipping unreadable encoding for %s", name)
			continue
		}
		identities = append(identities, database.Identity{
			Name:      name,
			Embedding: rec.Embedding,
			UpdatedAt: rec.UpdatedAt,
		})
	}

	slices.SortFunc(identities, func(a, b database.Identity) int {
		return strings.Compare(a.Name, b.Name)
	})
	return identities, nil
}

func (s *EmbeddingStore) List(ctx context.Context) ([]database.Identity, error) {
	return s.list(ctx)
}

func (s *EmbeddingStore) LoadAll(ctx context.Context) (map[string][]float64, error) {
	identities, err := s.list(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]float64, len(identities))
	for _, id := range identities {
		out[id.Name] = id.Embedding
	}
	return out, nil
}

var _ database.EmbeddingWriter = (*EmbeddingStore)(nil)
