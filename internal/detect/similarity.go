package detect

import (
	"context"
	"slices"
	"strconv"

	"golang.org/x/sync/errgroup"

	"trilang/internal/scoring"
	"trilang/internal/trace"
	"trilang/internal/trigram"
)

// pairScore compares two stored profiles. The lexicographically smaller name
// is the reference, so the score does not depend on argument order.
func (d *Detector) pairScore(a, b string, mode scoring.Mode) float64 {
	if b < a {
		a, b = b, a
	}
	ref, _ := d.db.Profile(a)
	target, _ := d.db.Profile(b)
	return d.refScore(ref, target, mode)
}

func (d *Detector) directedScore(ref, target string, mode scoring.Mode) float64 {
	r, _ := d.db.Profile(ref)
	t, _ := d.db.Profile(target)
	return d.refScore(r, t, mode)
}

func (d *Detector) refScore(ref, target trigram.RankTable, mode scoring.Mode) float64 {
	// stored profiles are normalized as if they had threshold trigrams
	return mode.Normalize(trigram.Distance(ref, target, d.threshold), 0, d.threshold)
}

// Similarity scores two active languages against each other. ok is false
// when either is not active.
func (d *Detector) Similarity(ctx context.Context, a, b string) (score float64, ok bool, err error) {
	if err := d.check(); err != nil {
		return 0, false, err
	}
	st := d.snapshot()
	a, b = d.resolve(a, st.names), d.resolve(b, st.names)
	if !isActive(st.languages, a) || !isActive(st.languages, b) {
		return 0, false, nil
	}

	span := trace.Begin(d.tracerFor(ctx), trace.ScopeOperation, "similarity", trace.ParentFromContext(ctx))
	defer span.End(a + "/" + b)
	return d.pairScore(a, b, st.mode), true, nil
}

// SimilarityTo scores every other active language with lang as the
// reference profile. Results are ordered by ascending score in both modes.
func (d *Detector) SimilarityTo(ctx context.Context, lang string) ([]scoring.Result, bool, error) {
	if err := d.check(); err != nil {
		return nil, false, err
	}
	st := d.snapshot()
	lang = d.resolve(lang, st.names)
	if !isActive(st.languages, lang) {
		return nil, false, nil
	}

	span := trace.Begin(d.tracerFor(ctx), trace.ScopeOperation, "similarity", trace.ParentFromContext(ctx))
	defer span.End(lang)

	results := make([]scoring.Result, 0, len(st.languages)-1)
	for _, other := range st.languages {
		if other == lang {
			continue
		}
		results = append(results, scoring.Result{
			Language: other,
			Score:    d.directedScore(lang, other, st.mode),
		})
	}
	scoring.SortAscending(results)
	for i := range results {
		results[i].Language = st.names.Label(results[i].Language)
	}
	return results, true, nil
}

// SimilarityMatrix scores every unordered pair of active languages once.
func (d *Detector) SimilarityMatrix(ctx context.Context) (*scoring.Matrix, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	st := d.snapshot()
	m, err := d.matrix(ctx, st)
	if err != nil {
		return nil, err
	}
	if st.names != NameModeName {
		m = m.Relabel(st.names.Label)
	}
	return m, nil
}

// matrix fills one row per task. Row i owns the pairs (i, j) with j > i,
// so no two tasks write the same cell.
func (d *Detector) matrix(ctx context.Context, st state) (*scoring.Matrix, error) {
	tr := d.tracerFor(ctx)
	span := trace.Begin(tr, trace.ScopeOperation, "similarity-matrix", trace.ParentFromContext(ctx))
	m := scoring.NewMatrix(st.languages)
	n := m.Len()
	span.WithExtra("pairs", strconv.Itoa(n*(n-1)/2))
	defer span.End("")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.jobs(n))
	for i := range n {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for j := i + 1; j < n; j++ {
				m.Set(i, j, d.pairScore(m.Name(i), m.Name(j), st.mode))
			}
			trace.Point(tr, trace.ScopeLanguage, "row:"+m.Name(i), span.ID(), "")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return m, nil
}

func isActive(active []string, name string) bool {
	_, found := slices.BinarySearch(active, name)
	return found
}
