package database

import (
	"maps"
	"math"
	"slices"
	"sync"

	"github.com/coder/hnsw"

	"github.com/kozaktomas/face-attendance/internal/facematch"
)

// HNSWIndex is an approximate nearest-neighbour matcher over identity descriptors.
// Candidates from the graph are re-ranked by exact Euclidean distance.
// All indexed vectors share one dimension; the graph cannot compare others.
type HNSWIndex struct {
	mu      sync.RWMutex
	graph   *hnsw.Graph[string]
	vectors map[string][]float64
	dim     int
}

// NewHNSWIndex creates a new empty HNSW index.
func NewHNSWIndex() *HNSWIndex {
	return &HNSWIndex{
		graph:   newGraph(),
		vectors: make(map[string][]float64),
	}
}

// NewHNSWIndexFromIdentities builds an index over a name -> descriptor mapping.
// The most common descriptor length wins (ties go to the first name in sorted
// order); identities of any other length are left out.
func NewHNSWIndexFromIdentities(identities map[string][]float64) *HNSWIndex {
	h := NewHNSWIndex()
	h.dim = dominantDim(identities)
	if h.dim == 0 {
		return h
	}

	for _, name := range slices.Sorted(maps.Keys(identities)) {
		v := identities[name]
		if len(v) != h.dim {
			continue
		}
		h.vectors[name] = v
		h.graph.Add(hnsw.MakeNode(name, facematch.ToFloat32(v)))
	}
	return h
}

func dominantDim(identities map[string][]float64) int {
	counts := make(map[int]int)
	best, bestCount := 0, 0
	for _, name := range slices.Sorted(maps.Keys(identities)) {
		n := len(identities[name])
		if n == 0 {
			continue
		}
		counts[n]++
		if counts[n] > bestCount {
			best, bestCount = n, counts[n]
		}
	}
	return best
}

func newGraph() *hnsw.Graph[string] {
	g := hnsw.NewGraph[string]()
	g.M = HNSWMaxNeighbors
	g.Ml = 1.0 / float64(HNSWMaxNeighbors) // Standard HNSW formula
	g.Distance = hnsw.EuclideanDistance
	return g
}

// Dim returns the descriptor length of the indexed identities, 0 when empty.
func (h *HNSWIndex) Dim() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.dim
}

// Nearest implements facematch.Matcher.
func (h *HNSWIndex) Nearest(probe []float64) (string, float64, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.vectors) == 0 || len(probe) != h.dim {
		return "", 0, false
	}

	k := min(HNSWSearchCandidates, len(h.vectors))
	neighbors := h.graph.Search(facematch.ToFloat32(probe), k)

	bestName := ""
	bestDist := math.Inf(1)
	for _, n := range neighbors {
		d := facematch.EuclideanDistance(probe, h.vectors[n.Key])
		if d < bestDist || (d == bestDist && n.Key < bestName) {
			bestDist = d
			bestName = n.Key
		}
	}
	if bestName == "" {
		return "", 0, false
	}
	return bestName, bestDist, true
}

// Len returns the number of indexed identities.
func (h *HNSWIndex) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.vectors)
}

var _ facematch.Matcher = (*HNSWIndex)(nil)
