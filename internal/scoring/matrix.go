package scoring

import (
	"encoding/json"
	"slices"
)

// Matrix holds one score per unordered pair of languages. Set writes both
// orientations, so Get(a, b) and Get(b, a) always read the same value.
type Matrix struct {
	names []string
	index map[string]int
	cells [][]float64
}

// NewMatrix allocates a matrix over names. The names are sorted and
// deduplicated.
func NewMatrix(names []string) *Matrix {
	sorted := slices.Clone(names)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	m := &Matrix{
		names: sorted,
		index: make(map[string]int, len(sorted)),
		cells: make([][]float64, len(sorted)),
	}
	for i, name := range sorted {
		m.index[name] = i
		m.cells[i] = make([]float64, len(sorted))
	}
	return m
}

// Len returns the number of languages.
func (m *Matrix) Len() int {
	if m == nil {
		return 0
	}
	return len(m.names)
}

// Names returns the languages in index order.
func (m *Matrix) Names() []string {
	if m == nil {
		return nil
	}
	return slices.Clone(m.names)
}

// Name returns the language at index i.
func (m *Matrix) Name(i int) string {
	return m.names[i]
}

// Index returns the index of name.
func (m *Matrix) Index(name string) (int, bool) {
	if m == nil {
		return 0, false
	}
	i, ok := m.index[name]
	return i, ok
}

// Set stores score for the pair (i, j) in both orientations. Distinct pairs
// may be set from different goroutines.
func (m *Matrix) Set(i, j int, score float64) {
	m.cells[i][j] = score
	m.cells[j][i] = score
}

// At returns the score of the pair (i, j).
func (m *Matrix) At(i, j int) float64 {
	return m.cells[i][j]
}

// Get returns the score of two languages. Self pairs and unknown names are
// reported as missing.
func (m *Matrix) Get(a, b string) (float64, bool) {
	i, ok := m.Index(a)
	if !ok {
		return 0, false
	}
	j, ok := m.Index(b)
	if !ok || i == j {
		return 0, false
	}
	return m.cells[i][j], true
}

// Row returns the scores of name against every other language, in name order.
func (m *Matrix) Row(name string) ([]Result, bool) {
	i, ok := m.Index(name)
	if !ok {
		return nil, false
	}
	row := make([]Result, 0, len(m.names)-1)
	for j, other := range m.names {
		if j == i {
			continue
		}
		row = append(row, Result{Language: other, Score: m.cells[i][j]})
	}
	return row, true
}

// Relabel returns a copy whose names are passed through fn. It is used to
// render names in another naming scheme; fn must stay injective.
func (m *Matrix) Relabel(fn func(string) string) *Matrix {
	out := &Matrix{
		names: make([]string, len(m.names)),
		index: make(map[string]int, len(m.names)),
		cells: make([][]float64, len(m.cells)),
	}
	for i, name := range m.names {
		label := fn(name)
		out.names[i] = label
		out.index[label] = i
		out.cells[i] = slices.Clone(m.cells[i])
	}
	return out
}

// MarshalJSON encodes the matrix as {"a": {"b": score, ...}, ...} without
// self pairs.
func (m *Matrix) MarshalJSON() ([]byte, error) {
	out := make(map[string]map[string]float64, len(m.names))
	for i, a := range m.names {
		row := make(map[string]float64, len(m.names)-1)
		for j, b := range m.names {
			if i != j {
				row[b] = m.cells[i][j]
			}
		}
		out[a] = row
	}
	return json.Marshal(out)
}
