// Package scoring turns raw trigram distances into scores and owns every rule
// that depends on the scoring mode: the normalization formula, the ordering of
// results, the "no information" sentinel and the confidence formula.
package scoring

import (
	"cmp"
	"fmt"
	"strings"

	"trilang/internal/trigram"
)

// Mode selects one of the two incompatible scoring conventions.
type Mode uint8

const (
	// ModeDefault scores in [0, 1]; higher is more similar and 0 means the
	// sample shares nothing with the profile.
	ModeDefault Mode = iota
	// ModeCompat keeps integer distances: scores in [0, threshold], lower
	// is more similar.
	ModeCompat
)

// String returns the flag spelling of m.
func (m Mode) String() string {
	switch m {
	case ModeDefault:
		return "default"
	case ModeCompat:
		return "compat"
	default:
		return "unknown"
	}
}

// ParseMode converts a flag or config value to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default":
		return ModeDefault, nil
	case "compat", "integer":
		return ModeCompat, nil
	default:
		return ModeDefault, fmt.Errorf("invalid scoring mode: %q (expected: default|compat)", s)
	}
}

// Normalize maps a raw distance to a score. count is the number of trigrams
// in the target rank table; a non-positive count means threshold, which is
// what comparisons between two stored profiles use.
func (m Mode) Normalize(distance, count, threshold int) float64 {
	if count <= 0 {
		count = threshold
	}
	if m == ModeCompat {
		return float64(distance / count)
	}
	return 1 - float64(distance)/float64(count)/float64(threshold)
}

// Compare orders two scores best first: descending in ModeDefault,
// ascending in ModeCompat.
func (m Mode) Compare(a, b float64) int {
	if m == ModeCompat {
		return cmp.Compare(a, b)
	}
	return cmp.Compare(b, a)
}

// Better reports whether a is strictly more similar than b.
func (m Mode) Better(a, b float64) bool {
	return m.Compare(a, b) < 0
}

// Sentinel is the score of a sample that shares no trigram with a profile.
// A winning score equal to it carries no information.
func (m Mode) Sentinel(threshold int) float64 {
	if m == ModeCompat {
		return float64(threshold)
	}
	return 0
}

// Confidence measures how far the best score is ahead of the runner-up.
func (m Mode) Confidence(best, second float64, threshold int) float64 {
	if m == ModeCompat {
		return (second - best) / float64(threshold)
	}
	return best - second
}

// Edges reports which boundary trigrams samples are extracted with. Compat
// samples have no leading edge trigram.
func (m Mode) Edges() trigram.Edges {
	if m == ModeCompat {
		return trigram.EdgeTrailing
	}
	return trigram.EdgesAll
}
