package trigram

import (
	"cmp"
	"slices"
	"strings"
)

// DefaultThreshold is the rank table size the reference profiles were built with.
const DefaultThreshold = 300

// RankTable maps a trigram to its rank; rank 0 is the most frequent trigram.
type RankTable map[string]int

type rankEntry struct {
	trigram string
	count   int
}

// Rank orders freqs by count descending, breaking ties by trigram ascending
// (byte-wise), and keeps the first threshold entries. A non-positive
// threshold means DefaultThreshold.
func Rank(freqs Frequencies, threshold int) RankTable {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	entries := make([]rankEntry, 0, len(freqs))
	for tri, count := range freqs {
		entries = append(entries, rankEntry{trigram: tri, count: count})
	}
	slices.SortFunc(entries, func(x, y rankEntry) int {
		if c := cmp.Compare(y.count, x.count); c != 0 {
			return c
		}
		return strings.Compare(x.trigram, y.trigram)
	})
	if len(entries) > threshold {
		entries = entries[:threshold]
	}

	table := make(RankTable, len(entries))
	for i, e := range entries {
		table[e.trigram] = i
	}
	return table
}

// FromOrdered builds a rank table from trigrams listed in rank order.
// Duplicates keep their first rank.
func FromOrdered(trigrams []string) RankTable {
	table := make(RankTable, len(trigrams))
	for i, tri := range trigrams {
		if _, seen := table[tri]; !seen {
			table[tri] = i
		}
	}
	return table
}

// Ordered returns the trigrams of t sorted by rank.
func (t RankTable) Ordered() []string {
	out := make([]string, 0, len(t))
	for tri := range t {
		out = append(out, tri)
	}
	slices.SortFunc(out, func(a, b string) int {
		if c := cmp.Compare(t[a], t[b]); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
	return out
}

// Clone returns a copy of t.
func (t RankTable) Clone() RankTable {
	out := make(RankTable, len(t))
	for tri, rank := range t {
		out[tri] = rank
	}
	return out
}
