package mariadb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kozaktomas/face-attendance/internal/constants"
	"github.com/kozaktomas/face-attendance/internal/database"
)

// IdentityRepository stores one averaged descriptor per identity as JSON
type IdentityRepository struct {
	pool *Pool
}

// NewIdentityRepository creates a new MariaDB identity repository
func NewIdentityRepository(pool *Pool) *IdentityRepository {
	return &IdentityRepository{pool: pool}
}

// Save upserts the descriptor for name. The format is [e1, e2, ..., e128].
func (r *IdentityRepository) Save(ctx context.Context, name string, embedding []float64) error {
	if len(embedding) != constants.DescriptorDim {
		return fmt.Errorf("embedding for %s has %d dimensions, expected %d", name, len(embedding), constants.DescriptorDim)
	}
	data, err := json.Marshal(embedding)
	if err != nil {
		return fmt.Errorf("marshal embedding: %w", err)
	}

	query := `
		INSERT INTO identities (name, embedding_json, updated_at)
		VALUES (?, ?, NOW(6))
		ON DUPLICATE KEY UPDATE
			embedding_json = VALUES(embedding_json),
			updated_at = NOW(6)
	`
	if _, err := r.pool.db.ExecContext(ctx, query, name, data); err != nil {
		return fmt.Errorf("save identity %s: %w", name, err)
	}
	return nil
}

// Exists checks if an identity with that exact name is stored
func (r *IdentityRepository) Exists(ctx context.Context, name string) (bool, error) {
	var one int
	err := r.pool.db.QueryRowContext(ctx, "SELECT 1 FROM identities WHERE name = ?", name).Scan(&one)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("check identity exists: %w", err)
	}
	return true, nil
}

// List returns every identity ordered by name
func (r *IdentityRepository) List(ctx context.Context) ([]database.Identity, error) {
	rows, err := r.pool.db.QueryContext(ctx, "SELECT name, embedding_json, updated_at FROM identities ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("query identities: %w", err)
	}
	defer rows.Close()

	var identities []database.Identity
	for rows.Next() {
		var id database.Identity
		var data []byte
		if err := rows.Scan(&id.Name, &data, &id.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan identity: %w", err)
		}
		if err := json.Unmarshal(data, &id.Embedding); err != nil {
			return nil, fmt.Errorf("decode embedding for %s: %w", id.Name, err)
		}
		identities = append(identities, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate identities: %w", err)
	}
	return identities, nil
}

// LoadAll returns every identity keyed by name
func (r *IdentityRepository) LoadAll(ctx context.Context) (map[string][]float64, error) {
	identities, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]float64, len(identities))
	for _, id := range identities {
		out[id.Name] = id.Embedding
	}
	return out, nil
}

var _ database.EmbeddingWriter = (*IdentityRepository)(nil)
