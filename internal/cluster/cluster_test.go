package cluster

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"trilang/internal/scoring"
)

func matrixOf(t *testing.T, names []string, pairs map[[2]string]float64) *scoring.Matrix {
	t.Helper()
	m := scoring.NewMatrix(names)
	for p, s := range pairs {
		i, ok1 := m.Index(p[0])
		j, ok2 := m.Index(p[1])
		if !ok1 || !ok2 {
			t.Fatalf("unknown pair %v", p)
		}
		m.Set(i, j, s)
	}
	return m
}

func fourLanguages(t *testing.T) *scoring.Matrix {
	return matrixOf(t, []string{"a", "b", "c", "d"}, map[[2]string]float64{
		{"a", "b"}: 0.9,
		{"c", "d"}: 0.8,
		{"a", "c"}: 0.1,
		{"a", "d"}: 0.2,
		{"b", "c"}: 0.15,
		{"b", "d"}: 0.05,
	})
}

func keys(d *Dendrogram, ids []NodeID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = d.Key(id)
	}
	return out
}

func TestBuildMergesMostSimilar(t *testing.T) {
	d := Build(fourLanguages(t), scoring.ModeDefault, 300)

	if got := strings.Join(keys(d, d.Merges()), " "); got != "a:b d:c" {
		t.Fatalf("merges = %q, want %q", got, "a:b d:c")
	}
	if got := strings.Join(keys(d, d.Roots()), " "); got != "a:b d:c" {
		t.Fatalf("roots = %q", got)
	}

	first := d.Node(d.Merges()[0])
	if first.Iteration != 1 || first.Score != 0.9 || d.Alias(d.Merges()[0]) != "a" {
		t.Errorf("first merge = %+v", first)
	}
	if math.Abs(first.Diff-0.1) > 1e-9 {
		t.Errorf("first merge diff = %v, want 0.1", first.Diff)
	}
	// d is more similar to the remaining field than c
	second := d.Node(d.Merges()[1])
	if d.Key(second.Rep) != "d" || d.Key(second.Abs) != "c" || d.Alias(d.Merges()[1]) != "d" {
		t.Errorf("second merge rep/abs = %s/%s", d.Key(second.Rep), d.Key(second.Abs))
	}
}

func TestBuildTieGoesToSecondKey(t *testing.T) {
	m := matrixOf(t, []string{"c", "b", "a"}, map[[2]string]float64{
		{"a", "b"}: 0.5,
		{"a", "c"}: 0.5,
		{"b", "c"}: 0.5,
	})
	d := Build(m, scoring.ModeDefault, 300)
	if got := strings.Join(keys(d, d.Roots()), " "); got != "b:a c" {
		t.Fatalf("roots = %q, want %q", got, "b:a c")
	}
}

func TestBuildStopsOnDissimilar(t *testing.T) {
	m := scoring.NewMatrix([]string{"a", "b", "c"})
	d := Build(m, scoring.ModeDefault, 300)
	if len(d.Merges()) != 0 || len(d.Roots()) != 3 {
		t.Fatalf("merges = %d, roots = %d", len(d.Merges()), len(d.Roots()))
	}

	m = matrixOf(t, []string{"a", "b", "c"}, map[[2]string]float64{
		{"a", "b"}: 300, {"a", "c"}: 300, {"b", "c"}: 300,
	})
	if d := Build(m, scoring.ModeCompat, 300); len(d.Merges()) != 0 {
		t.Fatalf("compat merged perfectly dissimilar forks")
	}
}

func TestBuildCompatPicksLowest(t *testing.T) {
	m := matrixOf(t, []string{"a", "b", "c"}, map[[2]string]float64{
		{"a", "b"}: 200,
		{"a", "c"}: 40,
		{"b", "c"}: 250,
	})
	d := Build(m, scoring.ModeCompat, 300)
	merges := d.Merges()
	if len(merges) != 1 {
		t.Fatalf("merges = %v", keys(d, merges))
	}
	// a sums 240, c sums 290: a is closer to the field
	if got := d.Key(merges[0]); got != "a:c" {
		t.Errorf("merge = %q, want a:c", got)
	}
}

func TestBuildTerminates(t *testing.T) {
	for _, n := range []int{0, 1, 2, 10, 250} {
		t.Run(fmt.Sprint(n), func(t *testing.T) {
			names := make([]string, n)
			for i := range names {
				names[i] = fmt.Sprintf("lang%03d", i)
			}
			m := scoring.NewMatrix(names)
			for i := 0; i < n; i++ {
				for j := i + 1; j < n; j++ {
					m.Set(i, j, float64((i*7+j*13)%97+1)/100)
				}
			}
			d := Build(m, scoring.ModeDefault, 300)

			wantMerges := max(0, min(n-2, MaxIterations))
			if len(d.Merges()) != wantMerges {
				t.Errorf("merges = %d, want %d", len(d.Merges()), wantMerges)
			}
			if len(d.Roots()) != n-wantMerges {
				t.Errorf("roots = %d, want %d", len(d.Roots()), n-wantMerges)
			}
			for id := 0; id < d.Len(); id++ {
				alias := d.Node(NodeID(id)).Alias
				if !d.Node(alias).IsLeaf() {
					t.Fatalf("alias of %s is not a leaf", d.Key(NodeID(id)))
				}
			}
		})
	}
}

func TestSearch(t *testing.T) {
	d := Build(fourLanguages(t), scoring.ModeDefault, 300)
	sample := map[string]float64{"a": 0.3, "b": 0.6, "c": 0.1, "d": 0.2}
	calls := 0
	res := d.Search(func(lang string) float64 {
		calls++
		return sample[lang]
	})

	if res.Language != "b" || res.Score != 0.6 {
		t.Fatalf("Search = %s %v, want b 0.6", res.Language, res.Score)
	}
	if res.Comparisons != 3 || calls != 3 {
		t.Errorf("comparisons = %d, calls = %d, want 3", res.Comparisons, calls)
	}
	if got := strings.Join(keys(d, res.Path), " "); got != "a:b b" {
		t.Errorf("path = %q", got)
	}
	var order []string
	for _, s := range res.Scores {
		order = append(order, s.Key)
	}
	if got := strings.Join(order, " "); got != "b a a:b d:c" {
		t.Errorf("scores order = %q", got)
	}
}

func TestSearchTieGoesToAbsorbed(t *testing.T) {
	d := Build(fourLanguages(t), scoring.ModeDefault, 300)
	res := d.Search(func(lang string) float64 {
		if lang == "a" || lang == "b" {
			return 0.5
		}
		return 0
	})
	if res.Language != "b" {
		t.Errorf("Search = %s, want b", res.Language)
	}
}

func TestSearchEmpty(t *testing.T) {
	d := Build(scoring.NewMatrix(nil), scoring.ModeDefault, 300)
	if res := d.Search(func(string) float64 { return 1 }); res.Language != "" || res.Comparisons != 0 {
		t.Errorf("Search on empty dendrogram = %+v", res)
	}
}

func TestLabel(t *testing.T) {
	d := Build(fourLanguages(t), scoring.ModeDefault, 300)
	got := d.Label(d.Merges()[0], strings.ToUpper)
	if got != "A:B" {
		t.Errorf("Label = %q", got)
	}
}
