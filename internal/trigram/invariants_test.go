package trigram_test

import (
	"strings"
	"testing"

	"trilang/internal/testkit"
	"trilang/internal/trigram"
)

func TestProfileInvariants(t *testing.T) {
	samples := []string{
		"",
		"ab",
		"  lots   of\tspace  \n\n here ",
		"Le cœur a ses raisons que la raison ne connaît point.",
		"Ὅτι μὲν ὑμεῖς, ὦ ἄνδρες Ἀθηναῖοι, πεπόνθατε",
		strings.Repeat("the quick brown fox jumps over the lazy dog ", 40),
		"1234 5678 it's 90",
	}
	for _, sample := range samples {
		for _, edges := range []trigram.Edges{trigram.EdgesNone, trigram.EdgeTrailing, trigram.EdgesAll} {
			freqs, err := trigram.Extract(sample, edges)
			if err != nil {
				t.Fatalf("Extract(%q): %v", sample, err)
			}
			if err := testkit.CheckFrequencies(freqs); err != nil {
				t.Errorf("Extract(%q, %v): %v", sample, edges, err)
			}
			for _, threshold := range []int{1, 10, trigram.DefaultThreshold} {
				if err := testkit.CheckRankTable(trigram.Rank(freqs, threshold), threshold); err != nil {
					t.Errorf("Rank(%q, %d): %v", sample, threshold, err)
				}
			}
		}
	}
}
