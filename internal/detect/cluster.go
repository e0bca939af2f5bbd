package detect

import (
	"context"
	"fmt"
	"strconv"

	"trilang/internal/cluster"
	"trilang/internal/trace"
)

// ClusterLanguages builds the dendrogram of the active languages. The result
// is cached until the active set or the scoring mode changes. Node keys use
// database names; render them with Label.
func (d *Detector) ClusterLanguages(ctx context.Context) (*cluster.Dendrogram, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	return d.dendrogramFor(ctx, d.snapshot())
}

func (d *Detector) dendrogramFor(ctx context.Context, st state) (*cluster.Dendrogram, error) {
	d.clusterMu.Lock()
	defer d.clusterMu.Unlock()
	if d.dendrogram != nil && d.clusterGen == st.gen {
		return d.dendrogram, nil
	}

	tr := d.tracerFor(ctx)
	span := trace.Begin(tr, trace.ScopeOperation, "cluster", trace.ParentFromContext(ctx))
	defer span.End("")

	m, err := d.matrix(trace.WithSpan(ctx, span), st)
	if err != nil {
		return nil, err
	}
	dg := cluster.Build(m, st.mode, d.threshold)
	for _, id := range dg.Merges() {
		n := dg.Node(id)
		trace.Point(tr, trace.ScopeStep, "merge", span.ID(),
			fmt.Sprintf("#%d %s score=%g", n.Iteration, n.Key, n.Score))
	}
	span.WithExtra("merges", strconv.Itoa(len(dg.Merges()))).
		WithExtra("roots", strconv.Itoa(len(dg.Roots())))

	d.dendrogram, d.clusterGen = dg, st.gen
	d.log.Debug("languages clustered", "languages", len(st.languages), "merges", len(dg.Merges()))
	return dg, nil
}

// ClusteredSearch classifies sample by descending the dendrogram instead of
// scoring every language. The result language is rendered in the current
// name mode; it is None when the sample has no trigram.
func (d *Detector) ClusteredSearch(ctx context.Context, sample string) (cluster.SearchResult, error) {
	if err := d.check(); err != nil {
		return cluster.SearchResult{}, err
	}
	st := d.snapshot()
	dg, err := d.dendrogramFor(ctx, st)
	if err != nil {
		return cluster.SearchResult{}, err
	}

	tr := d.tracerFor(ctx)
	span := trace.Begin(tr, trace.ScopeOperation, "search", trace.ParentFromContext(ctx))
	defer span.End("")

	profile, err := d.sampleProfile(sample, st.mode)
	if err != nil {
		return cluster.SearchResult{}, fmt.Errorf("clustered search: %w", err)
	}
	if len(profile) == 0 || dg.Len() == 0 {
		return cluster.SearchResult{Language: None}, nil
	}

	res := dg.Search(func(lang string) float64 {
		ref, _ := d.db.Profile(lang)
		s := d.score(ref, profile, st.mode)
		trace.Point(tr, trace.ScopeStep, "score:"+lang, span.ID(), strconv.FormatFloat(s, 'g', 6, 64))
		return s
	})
	span.WithExtra("comparisons", strconv.Itoa(res.Comparisons))
	res.Language = st.names.Label(res.Language)
	for i := range res.Scores {
		res.Scores[i].Key = dg.Label(res.Scores[i].Node, st.names.Label)
	}
	return res, nil
}
