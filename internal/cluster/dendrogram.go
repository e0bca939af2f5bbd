// Package cluster builds a similarity dendrogram over the language profiles
// and searches it top-down, so a sample can be classified with fewer distance
// computations than a full scan.
//
// Nodes live in an arena and are addressed by NodeID. A leaf stands for one
// language; a merge node joins a representative child, whose profile the
// merged fork keeps, and an absorbed child. The alias of every node is the
// leaf whose profile it is scored with.
package cluster

import (
	"slices"
	"strings"

	"trilang/internal/scoring"
)

// MaxIterations bounds the number of merges Build performs.
const MaxIterations = 200

// NodeID addresses a node of a Dendrogram.
type NodeID int32

// NoNode marks a missing child.
const NoNode NodeID = -1

// Node is one fork of the dendrogram.
type Node struct {
	// Key is the composite "rep:abs" name of a merge, or the language of a leaf.
	Key      string
	Language string // leaves only
	Alias    NodeID
	Rep      NodeID
	Abs      NodeID

	Iteration int     // 1-based merge step
	Score     float64 // similarity of the two children
	Diff      float64 // |row sum of rep - row sum of abs|
}

// IsLeaf reports whether n stands for a single language.
func (n Node) IsLeaf() bool { return n.Rep == NoNode }

// Dendrogram is the result of Build. It is immutable and safe for concurrent
// searches.
type Dendrogram struct {
	mode   scoring.Mode
	nodes  []Node
	roots  []NodeID
	merges []NodeID
	leaves map[string]NodeID
}

// Mode returns the scoring mode the dendrogram was built with.
func (d *Dendrogram) Mode() scoring.Mode { return d.mode }

// Len returns the number of nodes, leaves included.
func (d *Dendrogram) Len() int { return len(d.nodes) }

// Node returns the node with the given id.
func (d *Dendrogram) Node(id NodeID) Node { return d.nodes[id] }

// Key returns the composite key of id.
func (d *Dendrogram) Key(id NodeID) string { return d.nodes[id].Key }

// Alias returns the language whose profile id is scored with.
func (d *Dendrogram) Alias(id NodeID) string {
	return d.nodes[d.nodes[id].Alias].Language
}

// Roots returns the open forks ordered by key.
func (d *Dendrogram) Roots() []NodeID { return slices.Clone(d.roots) }

// Merges returns the merge nodes in the order they were created.
func (d *Dendrogram) Merges() []NodeID { return slices.Clone(d.merges) }

// Leaf returns the leaf of a language.
func (d *Dendrogram) Leaf(language string) (NodeID, bool) {
	id, ok := d.leaves[language]
	return id, ok
}

// Languages returns the leaf languages in name order.
func (d *Dendrogram) Languages() []string {
	out := make([]string, 0, len(d.leaves))
	for name := range d.leaves {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

func (d *Dendrogram) addLeaf(language string) NodeID {
	id := NodeID(len(d.nodes))
	d.nodes = append(d.nodes, Node{
		Key:      language,
		Language: language,
		Alias:    id,
		Rep:      NoNode,
		Abs:      NoNode,
	})
	d.leaves[language] = id
	return id
}

func (d *Dendrogram) addMerge(rep, abs NodeID, iteration int, score, diff float64) NodeID {
	id := NodeID(len(d.nodes))
	d.nodes = append(d.nodes, Node{
		Key:       d.nodes[rep].Key + ":" + d.nodes[abs].Key,
		Alias:     d.nodes[rep].Alias,
		Rep:       rep,
		Abs:       abs,
		Iteration: iteration,
		Score:     score,
		Diff:      diff,
	})
	d.merges = append(d.merges, id)
	return id
}

// Label renders the key of id with every language passed through label.
func (d *Dendrogram) Label(id NodeID, label func(string) string) string {
	n := d.nodes[id]
	if n.IsLeaf() {
		return label(n.Language)
	}
	var b strings.Builder
	b.WriteString(d.Label(n.Rep, label))
	b.WriteByte(':')
	b.WriteString(d.Label(n.Abs, label))
	return b.String()
}
