package scoring

import (
	"cmp"
	"slices"
	"strings"
)

// Result is the score of one language for one sample.
type Result struct {
	Language string  `json:"language"`
	Score    float64 `json:"score"`
}

// Sort orders results best first for mode. Equal scores keep language
// name order so that parallel and sequential scoring agree.
func Sort(results []Result, mode Mode) {
	slices.SortStableFunc(results, func(a, b Result) int {
		if c := mode.Compare(a.Score, b.Score); c != 0 {
			return c
		}
		return strings.Compare(a.Language, b.Language)
	})
}

// SortAscending orders results by score ascending whatever the mode.
func SortAscending(results []Result) {
	slices.SortStableFunc(results, func(a, b Result) int {
		if c := cmp.Compare(a.Score, b.Score); c != 0 {
			return c
		}
		return strings.Compare(a.Language, b.Language)
	})
}
