package cluster

import (
	"slices"
	"strings"
)

// Scored is the score of one fork during a search.
type Scored struct {
	Node  NodeID
	Key   string
	Score float64
}

// SearchResult describes one descent through the dendrogram.
type SearchResult struct {
	Language    string
	Score       float64
	Comparisons int      // profiles scored against the sample
	Path        []NodeID // root first, leaf last
	Scores      []Scored // every fork scored, best first
}

// Search scores the open forks with score, picks the best one and descends
// through its children until a leaf is reached. At each merge the
// representative child wins only when it is strictly better than the absorbed
// one. score receives a language name and is called at most once per
// language.
func (d *Dendrogram) Search(score func(language string) float64) SearchResult {
	var res SearchResult
	if len(d.roots) == 0 {
		return res
	}

	cache := make(map[NodeID]float64)
	eval := func(id NodeID) float64 {
		alias := d.nodes[id].Alias
		s, ok := cache[alias]
		if !ok {
			s = score(d.nodes[alias].Language)
			cache[alias] = s
			res.Comparisons++
		}
		res.Scores = append(res.Scores, Scored{Node: id, Key: d.nodes[id].Key, Score: s})
		return s
	}

	cur := d.roots[0]
	best := eval(cur)
	for _, id := range d.roots[1:] {
		if s := eval(id); d.mode.Better(s, best) {
			cur, best = id, s
		}
	}
	res.Path = append(res.Path, cur)

	for !d.nodes[cur].IsLeaf() {
		n := d.nodes[cur]
		rs, as := eval(n.Rep), eval(n.Abs)
		if d.mode.Better(rs, as) {
			cur, best = n.Rep, rs
		} else {
			cur, best = n.Abs, as
		}
		res.Path = append(res.Path, cur)
	}

	res.Language = d.nodes[cur].Language
	res.Score = best
	slices.SortStableFunc(res.Scores, func(a, b Scored) int {
		if c := d.mode.Compare(a.Score, b.Score); c != 0 {
			return c
		}
		return strings.Compare(a.Key, b.Key)
	})
	return res
}
