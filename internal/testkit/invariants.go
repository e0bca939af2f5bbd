// Package testkit holds structural checks shared by the tests of several
// packages.
package testkit

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"trilang/internal/cluster"
	"trilang/internal/trigram"
)

// CheckFrequencies verifies an extracted trigram map:
// 1) every count is positive
// 2) no trigram holds two adjacent spaces
func CheckFrequencies(f trigram.Frequencies) error {
	for tri, n := range f {
		if n <= 0 {
			return fmt.Errorf("trigram %q has count %d", tri, n)
		}
		if strings.Contains(tri, "  ") {
			return fmt.Errorf("trigram %q holds two adjacent spaces", tri)
		}
	}
	return nil
}

// CheckRankTable verifies that t has at most threshold entries and that its
// ranks are exactly 0..len(t)-1.
func CheckRankTable(t trigram.RankTable, threshold int) error {
	if len(t) > threshold {
		return fmt.Errorf("rank table has %d entries, threshold is %d", len(t), threshold)
	}
	seen := make([]bool, len(t))
	for tri, r := range t {
		if r < 0 || r >= len(t) {
			return fmt.Errorf("trigram %q has rank %d outside [0, %d)", tri, r, len(t))
		}
		if seen[r] {
			return fmt.Errorf("rank %d is used twice", r)
		}
		seen[r] = true
	}
	return nil
}

// CheckDendrogram verifies the arena of a built dendrogram:
// 1) every alias is a leaf and every merge keeps the alias of its
// representative child
// 2) merge keys are "rep:abs" and merges stay within MaxIterations
// 3) every language resolves through Leaf to a leaf reachable from exactly
// one root, exactly once
func CheckDendrogram(d *cluster.Dendrogram) error {
	if d == nil {
		return fmt.Errorf("nil dendrogram")
	}
	if n := len(d.Merges()); n > cluster.MaxIterations {
		return fmt.Errorf("%d merges exceed %d iterations", n, cluster.MaxIterations)
	}

	for i := range d.Len() {
		id, err := safecast.Conv[cluster.NodeID](i)
		if err != nil {
			return fmt.Errorf("node index overflow: %w", err)
		}
		n := d.Node(id)
		if !d.Node(n.Alias).IsLeaf() {
			return fmt.Errorf("node %q has alias %d which is not a leaf", n.Key, n.Alias)
		}
		if n.IsLeaf() {
			if n.Alias != id || n.Key != n.Language {
				return fmt.Errorf("leaf %q is inconsistent: alias %d key %q", n.Language, n.Alias, n.Key)
			}
			continue
		}
		if n.Rep >= id || n.Abs >= id {
			return fmt.Errorf("merge %q refers to a later node", n.Key)
		}
		if want := d.Key(n.Rep) + ":" + d.Key(n.Abs); n.Key != want {
			return fmt.Errorf("merge key %q, want %q", n.Key, want)
		}
		if n.Alias != d.Node(n.Rep).Alias {
			return fmt.Errorf("merge %q does not keep the alias of its representative", n.Key)
		}
	}

	visits := make(map[string]int)
	var walk func(id cluster.NodeID)
	walk = func(id cluster.NodeID) {
		n := d.Node(id)
		if n.IsLeaf() {
			visits[n.Language]++
			return
		}
		walk(n.Rep)
		walk(n.Abs)
	}
	for _, root := range d.Roots() {
		walk(root)
	}
	for _, lang := range d.Languages() {
		id, ok := d.Leaf(lang)
		if !ok || d.Node(id).Language != lang || d.Alias(id) != lang {
			return fmt.Errorf("leaf %q does not resolve to itself", lang)
		}
		if visits[lang] != 1 {
			return fmt.Errorf("leaf %q reached %d times from the roots", lang, visits[lang])
		}
	}
	if len(visits) != len(d.Languages()) {
		return fmt.Errorf("roots reach %d leaves, dendrogram has %d", len(visits), len(d.Languages()))
	}
	return nil
}
