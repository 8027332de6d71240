package postgres

import (
	"context"
	"fmt"

	"github.com/pgvector/pgvector-go"

	"github.com/kozaktomas/face-attendance/internal/constants"
	"github.com/kozaktomas/face-attendance/internal/database"
	"github.com/kozaktomas/face-attendance/internal/facematch"
)

// IdentityRepository stores one averaged descriptor per identity in a vector(128) column
type IdentityRepository struct {
	pool *Pool
}

// NewIdentityRepository creates a new PostgreSQL identity repository
func NewIdentityRepository(pool *Pool) *IdentityRepository {
	return &IdentityRepository{pool: pool}
}

// Save upserts the descriptor for name
func (r *IdentityRepository) Save(ctx context.Context, name string, embedding []float64) error {
	if len(embedding) != constants.DescriptorDim {
		return fmt.Errorf("embedding for %s has %d dimensions, expected %d", name, len(embedding), constants.DescriptorDim)
	}

	query := `
		INSERT INTO identities (name, embedding, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (name) DO UPDATE SET
			embedding = EXCLUDED.embedding,
			updated_at = NOW()
	`
	vec := pgvector.NewVector(facematch.ToFloat32(embedding))
	if _, err := r.pool.Exec(ctx, query, name, vec); err != nil {
		return fmt.Errorf("save identity %s: %w", name, err)
	}
	return nil
}

// Exists checks if an identity with that exact name is stored
func (r *IdentityRepository) Exists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM identities WHERE name = $1)", name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check identity exists: %w", err)
	}
	return exists, nil
}

// List returns every identity ordered by name
func (r *IdentityRepository) List(ctx context.Context) ([]database.Identity, error) {
	rows, err := r.pool.Query(ctx, "SELECT name, embedding, updated_at FROM identities ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("query identities: %w", err)
	}
	defer rows.Close()

	var identities []database.Identity
	for rows.Next() {
		var id database.Identity
		var vec pgvector.Vector
		if err := rows.Scan(&id.Name, &vec, &id.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan identity: %w", err)
		}
		id.Embedding = facematch.ToFloat64(vec.Slice())
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
