package detect

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"testing"

	"trilang/internal/langdb"
	"trilang/internal/scoring"
	"trilang/internal/textenc"
	"trilang/internal/trigram"
)

const (
	englishSample = "The children were walking home from school when the rain started, so they ran into the bookshop and waited there with their friends."
	frenchSample  = "Les enfants rentraient de l'école quand la pluie a commencé, alors ils sont entrés dans la librairie pour attendre leurs amis."
	germanSample  = "Die Kinder gingen nach der Schule nach Hause, als der Regen begann, also liefen sie in die Buchhandlung und warteten dort auf ihre Freunde."
)

func corpusDatabase(t *testing.T) *langdb.Database {
	t.Helper()
	profiles := make(map[string]trigram.RankTable)
	for _, name := range []string{"english", "french", "german"} {
		data, err := os.ReadFile(filepath.Join("testdata", "corpus", name+".txt"))
		if err != nil {
			t.Fatal(err)
		}
		table, err := trigram.Profile(string(data), trigram.DefaultThreshold, trigram.EdgesAll)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		profiles[name] = table
	}
	db, err := langdb.New(trigram.DefaultThreshold, profiles)
	if err != nil {
		t.Fatal(err)
	}
	return db
}

func TestDetectCorpus(t *testing.T) {
	db := corpusDatabase(t)
	ctx := context.Background()
	samples := map[string]string{"english": englishSample, "french": frenchSample, "german": germanSample}

	for _, mode := range []scoring.Mode{scoring.ModeDefault, scoring.ModeCompat} {
		d := New(db, WithMode(mode))
		for want, sample := range samples {
			t.Run(mode.String()+"/"+want, func(t *testing.T) {
				results, err := d.Detect(ctx, sample, 0)
				if err != nil {
					t.Fatal(err)
				}
				if len(results) != 3 {
					t.Fatalf("got %d results, want 3", len(results))
				}
				if results[0].Language != want {
					t.Errorf("best = %v, want %s", results, want)
				}
				for i := 1; i < len(results); i++ {
					if mode.Better(results[i].Score, results[i-1].Score) {
						t.Errorf("results out of %s order: %v", mode, results)
					}
				}
			})
		}
	}
}

func TestDetectLimitAndSimple(t *testing.T) {
	d := New(corpusDatabase(t))
	ctx := context.Background()

	results, err := d.Detect(ctx, frenchSample, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("limit 2 returned %d results", len(results))
	}

	got, err := d.DetectSimple(ctx, germanSample)
	if err != nil || got != "german" {
		t.Errorf("DetectSimple = %q, %v; want german", got, err)
	}

	c, ok, err := d.DetectConfidence(ctx, englishSample)
	if err != nil || !ok {
		t.Fatalf("DetectConfidence = %+v, %v, %v", c, ok, err)
	}
	if c.Language != "english" || !c.HasConfidence || c.Confidence <= 0 {
		t.Errorf("DetectConfidence = %+v", c)
	}
}

func TestBlankSamples(t *testing.T) {
	d := New(corpusDatabase(t))
	ctx := context.Background()

	for _, sample := range []string{"", "   \t\n  ", "!!", "?!., ;"} {
		results, err := d.Detect(ctx, sample, 0)
		if err != nil {
			t.Fatalf("Detect(%q): %v", sample, err)
		}
		if results == nil || len(results) != 0 {
			t.Errorf("Detect(%q) = %#v, want empty slice", sample, results)
		}
		if got, _ := d.DetectSimple(ctx, sample); got != None {
			t.Errorf("DetectSimple(%q) = %q, want %q", sample, got, None)
		}
		if _, ok, _ := d.DetectConfidence(ctx, sample); ok {
			t.Errorf("DetectConfidence(%q) reported a result", sample)
		}
		if res, err := d.ClusteredSearch(ctx, sample); err != nil || res.Language != None {
			t.Errorf("ClusteredSearch(%q) = %+v, %v", sample, res, err)
		}
	}
}

func TestNothingShared(t *testing.T) {
	ctx := context.Background()
	for _, mode := range []scoring.Mode{scoring.ModeDefault, scoring.ModeCompat} {
		d := New(corpusDatabase(t), WithMode(mode))
		got, err := d.DetectSimple(ctx, "ζζζ ξξξ ψψψ")
		if err != nil {
			t.Fatal(err)
		}
		if got != None {
			t.Errorf("%s: DetectSimple = %q, want %q", mode, got, None)
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	ctx := context.Background()
	sample := "caf\xe9 au lait"

	d := New(corpusDatabase(t))
	if _, err := d.Detect(ctx, sample, 0); !errors.Is(err, trigram.ErrDecode) {
		t.Fatalf("Detect error = %v, want ErrDecode", err)
	}

	tr, err := textenc.New(textenc.Auto)
	if err != nil {
		t.Fatal(err)
	}
	d = New(corpusDatabase(t), WithTranscoder(tr))
	if _, err := d.Detect(ctx, sample, 0); err != nil {
		t.Fatalf("Detect with transcoder: %v", err)
	}
}

func TestSetupErrors(t *testing.T) {
	ctx := context.Background()
	if _, err := New(nil).Detect(ctx, englishSample, 0); !errors.Is(err, ErrNoDatabase) {
		t.Errorf("nil database: %v", err)
	}
	empty, err := langdb.New(trigram.DefaultThreshold, nil)
	if err != nil {
		t.Fatal(err)
	}
	d := New(empty)
	if _, err := d.DetectSimple(ctx, englishSample); !errors.Is(err, ErrEmptyDatabase) {
		t.Errorf("empty database: %v", err)
	}
	if _, err := d.OmitLanguages([]string{"english"}, false); !errors.Is(err, ErrEmptyDatabase) {
		t.Errorf("OmitLanguages on empty database: %v", err)
	}
	if _, err := d.ClusterLanguages(ctx); !errors.Is(err, ErrEmptyDatabase) {
		t.Errorf("ClusterLanguages on empty database: %v", err)
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	db := corpusDatabase(t)
	ctx := context.Background()
	seq, err := New(db, WithWorkers(1)).Detect(ctx, englishSample, 0)
	if err != nil {
		t.Fatal(err)
	}
	par, err := New(db, WithWorkers(8)).Detect(ctx, englishSample, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(seq, par) {
		t.Errorf("sequential %v != parallel %v", seq, par)
	}
}

func TestOmitLanguages(t *testing.T) {
	d := New(corpusDatabase(t))
	ctx := context.Background()

	if n, err := d.OmitLanguages([]string{"klingon"}, false); err != nil || n != 0 {
		t.Fatalf("omit absent = %d, %v", n, err)
	}
	if n, _ := d.OmitLanguages([]string{"French"}, false); n != 1 {
		t.Fatalf("omit French removed %d", n)
	}
	if n, _ := d.LanguageCount(); n != 2 {
		t.Errorf("LanguageCount = %d, want 2", n)
	}
	if ok, _ := d.LanguageExists("french"); ok {
		t.Error("french still exists after omit")
	}
	if got, _ := d.DetectSimple(ctx, frenchSample); got == "french" {
		t.Error("omitted language detected")
	}

	d.ResetLanguages()
	if n, _ := d.LanguageCount(); n != 3 {
		t.Errorf("LanguageCount after reset = %d", n)
	}

	if n, _ := d.OmitLanguages([]string{"english", "german"}, true); n != 1 {
		t.Errorf("include-only removed %d, want 1", n)
	}
	if langs, _ := d.Languages(); !slices.Equal(langs, []string{"english", "german"}) {
		t.Errorf("Languages = %v", langs)
	}
	if ok, _ := d.LanguageExists(); ok {
		t.Error("LanguageExists() with no names is true")
	}
	if ok, _ := d.LanguageExists("english", "german"); !ok {
		t.Error("LanguageExists(english, german) is false")
	}
}

func TestIdenticalProfiles(t *testing.T) {
	table, err := trigram.Profile(englishSample, trigram.DefaultThreshold, trigram.EdgesAll)
	if err != nil {
		t.Fatal(err)
	}
	db, err := langdb.New(trigram.DefaultThreshold, map[string]trigram.RankTable{"alpha": table, "beta": table})
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	tests := []struct {
		mode scoring.Mode
		want float64
	}{
		{scoring.ModeDefault, 1},
		{scoring.ModeCompat, 0},
	}
	for _, tt := range tests {
		d := New(db, WithMode(tt.mode))
		got, ok, err := d.Similarity(ctx, "alpha", "beta")
		if err != nil || !ok || got != tt.want {
			t.Errorf("%s: Similarity = %v, %v, %v; want %v", tt.mode, got, ok, err, tt.want)
		}

		c, ok, err := d.DetectConfidence(ctx, frenchSample)
		if err != nil || !ok {
			t.Fatalf("%s: DetectConfidence = %+v, %v, %v", tt.mode, c, ok, err)
		}
		if !c.HasConfidence || c.Confidence != 0 {
			t.Errorf("%s: identical profiles give confidence %+v, want 0", tt.mode, c)
		}
	}
}

func TestConfidenceSingleLanguage(t *testing.T) {
	d := New(corpusDatabase(t))
	ctx := context.Background()
	if _, err := d.OmitLanguages([]string{"english"}, true); err != nil {
		t.Fatal(err)
	}
	c, ok, err := d.DetectConfidence(ctx, englishSample)
	if err != nil || !ok {
		t.Fatalf("DetectConfidence = %+v, %v, %v", c, ok, err)
	}
	if c.Language != "english" || c.HasConfidence {
		t.Errorf("single language: %+v, want english without confidence", c)
	}
	data, err := json.Marshal(c)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if v, present := decoded["confidence"]; !present || v != nil {
		t.Errorf("confidence encoded as %v, want null", v)
	}
}

func TestConfidenceCompat(t *testing.T) {
	d := New(corpusDatabase(t), WithMode(scoring.ModeCompat))
	ctx := context.Background()

	results, err := d.Detect(ctx, englishSample, 2)
	if err != nil || len(results) != 2 {
		t.Fatalf("Detect = %v, %v", results, err)
	}
	c, ok, err := d.DetectConfidence(ctx, englishSample)
	if err != nil || !ok {
		t.Fatalf("DetectConfidence = %+v, %v, %v", c, ok, err)
	}
	want := (results[1].Score - results[0].Score) / float64(d.Threshold())
	if c.Language != "english" || c.Similarity != results[0].Score || c.Confidence != want {
		t.Errorf("compat confidence = %+v, want english %v with %v", c, results[0].Score, want)
	}
	if c.Confidence <= 0 {
		t.Errorf("compat confidence %v is not positive", c.Confidence)
	}
}

func TestSimilarity(t *testing.T) {
	d := New(corpusDatabase(t))
	ctx := context.Background()

	m, err := d.SimilarityMatrix(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for _, pair := range [][2]string{{"english", "french"}, {"english", "german"}, {"french", "german"}} {
		ab, ok1, _ := d.Similarity(ctx, pair[0], pair[1])
		ba, ok2, _ := d.Similarity(ctx, pair[1], pair[0])
		cell, ok3 := m.Get(pair[1], pair[0])
		if !ok1 || !ok2 || !ok3 || ab != ba || ab != cell {
			t.Errorf("%v: %v / %v / matrix %v", pair, ab, ba, cell)
		}
	}

	if _, ok, err := d.Similarity(ctx, "english", "klingon"); ok || err != nil {
		t.Errorf("unknown language: ok=%v err=%v", ok, err)
	}

	row, ok, err := d.SimilarityTo(ctx, "english")
	if err != nil || !ok || len(row) != 2 {
		t.Fatalf("SimilarityTo = %v, %v, %v", row, ok, err)
	}
	if row[0].Score > row[1].Score {
		t.Errorf("SimilarityTo not ascending: %v", row)
	}
}

func TestSimilarityToKeepsLanguageAsReference(t *testing.T) {
	short := trigram.RankTable{"abc": 0, "bcd": 1, "cde": 2}
	long := trigram.RankTable{"cde": 0, "abc": 1, "xyz": 2, "pqr": 3, "bcd": 4}
	db, err := langdb.New(trigram.DefaultThreshold, map[string]trigram.RankTable{"short": short, "long": long})
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	threshold := trigram.DefaultThreshold

	for _, mode := range []scoring.Mode{scoring.ModeDefault, scoring.ModeCompat} {
		d := New(db, WithMode(mode))
		tests := []struct {
			lang, other string
			ref, target trigram.RankTable
		}{
			{"short", "long", short, long},
			{"long", "short", long, short},
		}
		for _, tt := range tests {
			want := mode.Normalize(trigram.Distance(tt.ref, tt.target, threshold), 0, threshold)
			reversed := mode.Normalize(trigram.Distance(tt.target, tt.ref, threshold), 0, threshold)
			if want == reversed {
				t.Fatalf("%s: distances do not depend on direction", mode)
			}
			row, ok, err := d.SimilarityTo(ctx, tt.lang)
			if err != nil || !ok || len(row) != 1 || row[0].Language != tt.other {
				t.Fatalf("%s: SimilarityTo(%s) = %v, %v, %v", mode, tt.lang, row, ok, err)
			}
			if row[0].Score != want {
				t.Errorf("%s: SimilarityTo(%s) = %v, want %v (reversed would be %v)", mode, tt.lang, row[0].Score, want, reversed)
			}
		}
	}
}

func TestNameModes(t *testing.T) {
	d := New(corpusDatabase(t), WithNameMode(NameModeISO2))
	ctx := context.Background()

	got, err := d.DetectSimple(ctx, englishSample)
	if err != nil || got != "en" {
		t.Errorf("DetectSimple = %q, %v; want en", got, err)
	}
	if langs, _ := d.Languages(); !slices.Equal(langs, []string{"de", "en", "fr"}) {
		t.Errorf("Languages = %v", langs)
	}
	if ok, _ := d.LanguageExists("FR", "german"); !ok {
		t.Error("codes are not accepted in iso2 mode")
	}

	d.SetNameMode(NameModeISO3)
	if _, ok, _ := d.Similarity(ctx, "eng", "fra"); !ok {
		t.Error("Similarity(eng, fra) not found in iso3 mode")
	}
	m, err := d.SimilarityMatrix(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if names := slices.Sorted(slices.Values(m.Names())); !slices.Equal(names, []string{"deu", "eng", "fra"}) {
		t.Errorf("matrix names = %v", names)
	}
	if _, ok := m.Get("eng", "deu"); !ok {
		t.Error("relabelled matrix lost eng/deu")
	}

	d.SetNameMode(NameModeName)
	if ok, _ := d.LanguageExists("fr"); ok {
		t.Error("codes accepted in name mode")
	}
}

func TestConfidenceJSON(t *testing.T) {
	data, err := json.Marshal(Confidence{Language: "english", Similarity: 0.5})
	if err != nil {
		t.Fatal(err)
	}
	if got := string(data); got != `{"language":"english","similarity":0.5,"confidence":null}` {
		t.Errorf("JSON = %s", got)
	}
	data, _ = json.Marshal(Confidence{Language: "english", Similarity: 0.5, Confidence: 0.25, HasConfidence: true})
	if got := string(data); got != `{"language":"english","similarity":0.5,"confidence":0.25}` {
		t.Errorf("JSON = %s", got)
	}
}

func TestClusterCache(t *testing.T) {
	d := New(corpusDatabase(t))
	ctx := context.Background()

	first, err := d.ClusterLanguages(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(first.Merges()) != 1 || len(first.Roots()) != 2 {
		t.Fatalf("merges = %d, roots = %d", len(first.Merges()), len(first.Roots()))
	}
	again, _ := d.ClusterLanguages(ctx)
	if again != first {
		t.Error("dendrogram rebuilt without a change")
	}

	d.SetMode(scoring.ModeCompat)
	compat, _ := d.ClusterLanguages(ctx)
	if compat == first {
		t.Error("dendrogram not rebuilt after mode change")
	}
	if _, err := d.OmitLanguages([]string{"german"}, false); err != nil {
		t.Fatal(err)
	}
	small, _ := d.ClusterLanguages(ctx)
	if small == compat || len(small.Languages()) != 2 {
		t.Errorf("dendrogram not rebuilt after omit: %v", small.Languages())
	}
}

func TestClusteredSearch(t *testing.T) {
	d := New(corpusDatabase(t))
	ctx := context.Background()

	res, err := d.ClusteredSearch(ctx, englishSample)
	if err != nil {
		t.Fatal(err)
	}
	if ok, _ := d.LanguageExists(res.Language); !ok {
		t.Fatalf("ClusteredSearch returned %q", res.Language)
	}
	dg, _ := d.ClusterLanguages(ctx)
	if want := len(dg.Roots()) + len(res.Path) - 1; res.Comparisons != want {
		t.Errorf("comparisons = %d, want %d", res.Comparisons, want)
	}
	if res.Comparisons > 3 {
		t.Errorf("searched %d profiles of 3", res.Comparisons)
	}
}
