package detect

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"trilang/internal/scoring"
	"trilang/internal/trace"
	"trilang/internal/trigram"
)

func (d *Detector) tracerFor(ctx context.Context) trace.Tracer {
	if d.tracer != nil {
		return d.tracer
	}
	return trace.FromContext(ctx)
}

// sampleProfile transcodes and ranks a sample. An empty table means the
// sample carries no trigram.
func (d *Detector) sampleProfile(sample string, mode scoring.Mode) (trigram.RankTable, error) {
	if d.transcoder != nil {
		var err error
		if sample, err = d.transcoder.Transcode(sample); err != nil {
			return nil, err
		}
	}
	if strings.TrimSpace(sample) == "" {
		return trigram.RankTable{}, nil
	}
	return trigram.Profile(sample, d.threshold, mode.Edges())
}

func (d *Detector) score(ref, target trigram.RankTable, mode scoring.Mode) float64 {
	return mode.Normalize(trigram.Distance(ref, target, d.threshold), len(target), d.threshold)
}

func (d *Detector) jobs(n int) int {
	return max(1, min(d.workers, n))
}

// scoreAll scores sample against languages. Results keep the order of
// languages whatever the scheduling.
func (d *Detector) scoreAll(ctx context.Context, sample trigram.RankTable, languages []string, mode scoring.Mode, tr trace.Tracer, parent uint64) ([]scoring.Result, error) {
	results := make([]scoring.Result, len(languages))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.jobs(len(languages)))
	for i, name := range languages {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ref, _ := d.db.Profile(name)
			s := d.score(ref, sample, mode)
			results[i] = scoring.Result{Language: name, Score: s}
			trace.Point(tr, trace.ScopeLanguage, "score:"+name, parent, strconv.FormatFloat(s, 'g', 6, 64))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Detect scores sample against every active language and returns the
// results best first. limit > 0 truncates the list. A blank sample or one
// too short to produce a trigram yields an empty list.
func (d *Detector) Detect(ctx context.Context, sample string, limit int) ([]scoring.Result, error) {
	results, _, err := d.detect(ctx, sample, limit)
	return results, err
}

func (d *Detector) detect(ctx context.Context, sample string, limit int) ([]scoring.Result, state, error) {
	if err := d.check(); err != nil {
		return nil, state{}, err
	}
	st := d.snapshot()
	tr := d.tracerFor(ctx)
	span := trace.Begin(tr, trace.ScopeOperation, "detect", trace.ParentFromContext(ctx))
	defer span.End("")

	profile, err := d.sampleProfile(sample, st.mode)
	if err != nil {
		return nil, st, fmt.Errorf("detect: %w", err)
	}
	span.WithExtra("trigrams", strconv.Itoa(len(profile)))
	if len(profile) == 0 || len(st.languages) == 0 {
		return []scoring.Result{}, st, nil
	}

	results, err := d.scoreAll(ctx, profile, st.languages, st.mode, tr, span.ID())
	if err != nil {
		return nil, st, err
	}
	scoring.Sort(results, st.mode)
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	for i := range results {
		results[i].Language = st.names.Label(results[i].Language)
	}
	return results, st, nil
}

// DetectSimple returns the best language for sample, or None when nothing
// is active, the sample has no trigram, or even the best language shares
// nothing with it.
func (d *Detector) DetectSimple(ctx context.Context, sample string) (string, error) {
	results, st, err := d.detect(ctx, sample, 1)
	if err != nil {
		return "", err
	}
	if len(results) == 0 || results[0].Score == st.mode.Sentinel(d.threshold) {
		return None, nil
	}
	return results[0].Language, nil
}

// Confidence is the answer of DetectConfidence.
type Confidence struct {
	Language   string
	Similarity float64
	// Confidence is how far the best language is ahead of the runner-up.
	// It is only meaningful when HasConfidence is set.
	Confidence    float64
	HasConfidence bool
}

// MarshalJSON encodes a missing confidence as null.
func (c Confidence) MarshalJSON() ([]byte, error) {
	out := struct {
		Language   string   `json:"language"`
		Similarity float64  `json:"similarity"`
		Confidence *float64 `json:"confidence"`
	}{Language: c.Language, Similarity: c.Similarity}
	if c.HasConfidence {
		out.Confidence = &c.Confidence
	}
	return json.Marshal(out)
}

// DetectConfidence returns the best language with its score and its lead
// over the second best. ok is false in the cases where DetectSimple
// answers None.
func (d *Detector) DetectConfidence(ctx context.Context, sample string) (Confidence, bool, error) {
	results, st, err := d.detect(ctx, sample, 2)
	if err != nil {
		return Confidence{}, false, err
	}
	mode := st.mode
	if len(results) == 0 || results[0].Score == mode.Sentinel(d.threshold) {
		return Confidence{}, false, nil
	}
	c := Confidence{Language: results[0].Language, Similarity: results[0].Score}
	if len(results) > 1 {
		c.Confidence = mode.Confidence(results[0].Score, results[1].Score, d.threshold)
		c.HasConfidence = true
	}
	return c, true, nil
}
