// Package facematch provides the descriptor maths and identity matching shared
// by enrollment, the recognition loop and the report server.
package facematch

import "github.com/kozaktomas/face-attendance/internal/constants"

// Match is the outcome of comparing a probe descriptor against the stored identities.
type Match struct {
	Name     string  // identity name, or constants.UnknownName
	Distance float64 // distance to the nearest identity, meaningful only when HasCandidate
	// HasCandidate is false when no identities are stored
	HasCandidate bool
}

// Known reports whether the match resolved to an enrolled identity.
func (m Match) Known() bool {
	return m.Name != constants.UnknownName
}

// Matcher finds the stored identity nearest to a probe descriptor.
type Matcher interface {
	// Nearest returns the closest identity and its Euclidean distance.
	// ok is false when there is nothing to match against.
	Nearest(probe []float64) (name string, distance float64, ok bool)
	// Len returns the number of identities the matcher holds.
	Len() int
}

// Identify resolves a probe to a name: the nearest identity when its
// distance is strictly below threshold, otherwise constants.UnknownName.
func Identify(m Matcher, probe []float64, threshold float64) Match {
	name, distance, ok := m.Nearest(probe)
	if !ok {
		return Match{Name: constants.UnknownName}
	}
	match := Match{Name: constants.UnknownName, Distance: distance, HasCandidate: true}
	if distance < threshold {
		match.Name = name
	}
	return match
}
