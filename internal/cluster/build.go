package cluster

import (
	"math"
	"slices"
	"strings"

	"trilang/internal/scoring"
)

// Build clusters the languages of m agglomeratively. Each step merges the
// most similar pair of open forks until two forks remain, MaxIterations
// merges have happened, or the best remaining pair is perfectly dissimilar.
//
// Pairs are visited with forks ordered by key, and only a strictly better
// pair replaces the current best, so ties go to the first pair in that order.
//
// Similarity follows mode: in compat mode, where scores are distances, the
// pair with the lowest distance is merged and the fork with the smaller row
// sum becomes the representative.
func Build(m *scoring.Matrix, mode scoring.Mode, threshold int) *Dendrogram {
	d := &Dendrogram{
		mode:   mode,
		leaves: make(map[string]NodeID, m.Len()),
	}
	// matrix row of each leaf, indexed by NodeID
	row := make([]int, 0, m.Len())
	for i, name := range m.Names() {
		d.addLeaf(name)
		row = append(row, i)
	}

	forks := make([]NodeID, 0, m.Len())
	for id := range d.nodes {
		forks = append(forks, NodeID(id))
	}
	score := func(a, b NodeID) float64 {
		return m.At(row[d.nodes[a].Alias], row[d.nodes[b].Alias])
	}
	sentinel := mode.Sentinel(threshold)

	for iteration := 1; len(forks) > 2 && iteration <= MaxIterations; iteration++ {
		slices.SortFunc(forks, func(a, b NodeID) int {
			return strings.Compare(d.nodes[a].Key, d.nodes[b].Key)
		})

		bi, bj := -1, -1
		var best float64
		for i := range forks {
			for j := i + 1; j < len(forks); j++ {
				s := score(forks[i], forks[j])
				if bi < 0 || mode.Better(s, best) {
					bi, bj, best = i, j, s
				}
			}
		}
		if best == sentinel {
			break
		}

		first, second := forks[bi], forks[bj]
		var sum1, sum2 float64
		for _, f := range forks {
			if f != first {
				sum1 += score(first, f)
			}
			if f != second {
				sum2 += score(second, f)
			}
		}
		rep, abs := second, first
		if mode.Better(sum1, sum2) {
			rep, abs = first, second
		}

		merged := d.addMerge(rep, abs, iteration, best, math.Abs(sum1-sum2))
		forks = slices.DeleteFunc(forks, func(f NodeID) bool { return f == first || f == second })
		forks = append(forks, merged)
	}

	slices.SortFunc(forks, func(a, b NodeID) int {
		return strings.Compare(d.nodes[a].Key, d.nodes[b].Key)
	})
	d.roots = forks
	return d
}
