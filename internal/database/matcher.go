package database

import (
	"context"
	"fmt"

	"github.com/kozaktomas/face-attendance/internal/facematch"
)

// LoadMatcher reads every identity from r and builds the requested matcher.
func LoadMatcher(ctx context.Context, r EmbeddingReader, useHNSW bool) (facematch.Matcher, error) {
	identities, err := r.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading identities: %w", err)
	}
	if useHNSW {
		return NewHNSWIndexFromIdentities(identities), nil
	}
	return facematch.NewLinearMatcher(identities), nil
}
