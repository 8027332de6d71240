package handlers

import (
	"net/http"

	"github.com/kozaktomas/face-attendance/internal/config"
	"github.com/kozaktomas/face-attendance/internal/database"
)

// ConfigHandler exposes the recognition settings the attendance loop runs with
type ConfigHandler struct {
	config *config.Config
}

// NewConfigHandler creates a new config handler
func NewConfigHandler(cfg *config.Config) *ConfigHandler {
	return &ConfigHandler{
		config: cfg,
	}
}

// ConfigResponse represents the configuration response
type ConfigResponse struct {
	Backend        string  `json:"backend"`
	Matcher        string  `json:"matcher"`
	MatchThreshold float64 `json:"match_threshold"`
	EARThreshold   float64 `json:"ear_threshold"`
	NoseMovementPx int     `json:"nose_movement_px"`
	WebcamCaptures int     `json:"webcam_captures"`
}

// Get returns the active configuration
func (h *ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	matcher := "linear"
	if h.config.Matching.UseHNSW() {
		matcher = "hnsw"
	}

	respondJSON(w, http.StatusOK, ConfigResponse{
		Backend:        database.BackendName(),
		Matcher:        matcher,
		MatchThreshold: h.config.Matching.Threshold,
		EARThreshold:   h.config.Liveness.EARThreshold,
		NoseMovementPx: h.config.Liveness.NoseMovementPx,
		WebcamCaptures: h.config.Enrollment.WebcamCaptures,
	})
}
