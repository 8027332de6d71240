package facematch

import (
	"math"
	"slices"
)

// LinearMatcher compares the probe with every stored identity.
// Equal distances resolve to the lexicographically smaller name.
type LinearMatcher struct {
	names   []string
	vectors map[string][]float64
}

// NewLinearMatcher creates a matcher over a name -> descriptor mapping.
func NewLinearMatcher(identities map[string][]float64) *LinearMatcher {
	m := &LinearMatcher{vectors: make(map[string][]float64, len(identities))}
	for name, v := range identities {
		m.vectors[name] = v
		m.names = append(m.names, name)
	}
	slices.Sort(m.names)
	return m
}

func (m *LinearMatcher) Nearest(probe []float64) (string, float64, bool) {
	if len(m.names) == 0 {
		return "", 0, false
	}

	bestName := ""
	bestDist := math.Inf(1)
	for _, name := range m.names {
		d := EuclideanDistance(probe, m.vectors[name])
		if d < bestDist {
			bestDist = d
			bestName = name
		}
	}
	if bestName == "" {
		// every stored vector had a different dimension
		return m.names[0], bestDist, true
	}
	return bestName, bestDist, true
}

func (m *LinearMatcher) Len() int {
	return len(m.names)
}
