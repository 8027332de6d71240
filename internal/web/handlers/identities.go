package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/kozaktomas/face-attendance/internal/database"
	"github.com/kozaktomas/face-attendance/internal/facematch"
	"github.com/kozaktomas/face-attendance/internal/logger"
)

// IdentitiesHandler lists enrolled people
type IdentitiesHandler struct {
	reader database.EmbeddingReader
	log    *logger.Logger
}

// NewIdentitiesHandler creates a new identities handler
func NewIdentitiesHandler(reader database.EmbeddingReader, log *logger.Logger) *IdentitiesHandler {
	return &IdentitiesHandler{reader: reader, log: log}
}

// IdentityResponse is one enrolled person. The embedding itself is not exposed.
type IdentityResponse struct {
	Name       string     `json:"name"`
	Dimensions int        `json:"dimensions"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}

// IdentitiesResponse wraps the identity list
type IdentitiesResponse struct {
	Count      int                `json:"count"`
	Identities []IdentityResponse `json:"identities"`
}

// List returns all identities sorted by name. The optional q parameter keeps
// only names containing it, ignoring case and diacritics.
func (h *IdentitiesHandler) List(w http.ResponseWriter, r *http.Request) {
	identities, err := h.reader.List(r.Context())
	if err != nil {
		h.log.Error(err, "failed to list identities")
		respondError(w, http.StatusInternalServerError, "failed to list identities")
		return
	}

	query := facematch.NormalizePersonName(strings.TrimSpace(r.URL.Query().Get("q")))

	out := make([]IdentityResponse, 0, len(identities))
	for _, id := range identities {
		if query != "" && !strings.Contains(facematch.NormalizePersonName(id.Name), query) {
			continue
		}
		item := IdentityResponse{Name: id.Name, Dimensions: len(id.Embedding)}
		if !id.UpdatedAt.IsZero() {
			updated := id.UpdatedAt
			item.UpdatedAt = &updated
		}
		out = append(out, item)
	}

	respondJSON(w, http.StatusOK, IdentitiesResponse{Count: len(out), Identities: out})
}
