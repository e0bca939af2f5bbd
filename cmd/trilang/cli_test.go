package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"trilang/internal/scoring"
)

const englishText = "The children were walking home from school when the rain started, so they ran into the bookshop and waited there with their friends."

// run executes one trilang invocation and returns its stdout.
func run(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--color", "off", "--quiet"}, args...))
	if err := root.Execute(); err != nil {
		t.Fatalf("trilang %s: %v\nstderr: %s", strings.Join(args, " "), err, errOut.String())
	}
	return out.String()
}

// trainedDB builds a database from the detector test corpus in a scratch
// working directory and returns its path.
func trainedDB(t *testing.T) string {
	t.Helper()
	corpusDir, err := filepath.Abs(filepath.Join("..", "..", "internal", "detect", "testdata", "corpus"))
	if err != nil {
		t.Fatal(err)
	}
	t.Chdir(t.TempDir())
	run(t, "", "train", corpusDir, "--out", "langs.msgpack", "--ui", "off")
	if _, err := os.Stat("langs.msgpack"); err != nil {
		t.Fatalf("train wrote nothing: %v", err)
	}
	return "langs.msgpack"
}

func TestTrainAndDetect(t *testing.T) {
	db := trainedDB(t)

	if got := strings.TrimSpace(run(t, "", "--db", db, "detect", "--simple", englishText)); got != "english" {
		t.Errorf("detect --simple = %q, want english", got)
	}
	// stdin is read when no text argument is given
	if got := strings.TrimSpace(run(t, englishText, "--db", db, "detect", "--simple")); got != "english" {
		t.Errorf("detect --simple from stdin = %q, want english", got)
	}

	var results []scoring.Result
	if err := json.Unmarshal([]byte(run(t, "", "--db", db, "detect", "--format", "json", englishText)), &results); err != nil {
		t.Fatalf("decode detect output: %v", err)
	}
	if len(results) != 3 || results[0].Language != "english" {
		t.Errorf("detect json = %+v", results)
	}

	limited := run(t, "", "--db", db, "detect", "--limit", "1", englishText)
	if strings.Count(limited, "\n") != 1 || !strings.Contains(limited, "english") {
		t.Errorf("detect --limit 1 = %q", limited)
	}

	var c struct {
		Language   string   `json:"language"`
		Confidence *float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(run(t, "", "--db", db, "detect", "--confidence", "--format", "json", englishText)), &c); err != nil {
		t.Fatalf("decode confidence: %v", err)
	}
	if c.Language != "english" || c.Confidence == nil || *c.Confidence <= 0 {
		t.Errorf("confidence = %+v", c)
	}

	if got := strings.TrimSpace(run(t, "", "--db", db, "--names", "iso2", "detect", "--simple", englishText)); got != "en" {
		t.Errorf("detect with iso2 names = %q, want en", got)
	}
	if got := strings.TrimSpace(run(t, "", "--db", db, "--omit", "english", "detect", "--simple", englishText)); got == "english" {
		t.Errorf("omitted language was detected")
	}
}

func TestClusteredCommands(t *testing.T) {
	db := trainedDB(t)

	var res searchJSON
	if err := json.Unmarshal([]byte(run(t, "", "--db", db, "search", "--format", "json", englishText)), &res); err != nil {
		t.Fatalf("decode search: %v", err)
	}
	if res.Language != "english" || res.Comparisons < 1 || res.Comparisons > 3 {
		t.Errorf("search = %+v", res)
	}
	if len(res.Path) == 0 || res.Path[len(res.Path)-1] != "english" {
		t.Errorf("search path = %v", res.Path)
	}

	var tree clusterJSON
	if err := json.Unmarshal([]byte(run(t, "", "--db", db, "cluster", "--format", "json")), &tree); err != nil {
		t.Fatalf("decode cluster: %v", err)
	}
	if len(tree.Roots) == 0 || tree.Mode != "default" {
		t.Errorf("cluster = %+v", tree)
	}
	leaves := 0
	var walk func(n *treeJSON)
	walk = func(n *treeJSON) {
		if len(n.Children) == 0 {
			leaves++
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	for _, r := range tree.Roots {
		walk(r)
	}
	if leaves != 3 {
		t.Errorf("dendrogram has %d leaves, want 3", leaves)
	}
}

func TestSimilarityCommand(t *testing.T) {
	db := trainedDB(t)

	ab, err := strconv.ParseFloat(strings.TrimSpace(run(t, "", "--db", db, "similarity", "english", "french")), 64)
	if err != nil {
		t.Fatal(err)
	}
	ba, err := strconv.ParseFloat(strings.TrimSpace(run(t, "", "--db", db, "similarity", "french", "english")), 64)
	if err != nil {
		t.Fatal(err)
	}
	if ab != ba || ab <= 0 || ab >= 1 {
		t.Errorf("similarity english/french = %v, french/english = %v", ab, ba)
	}

	var row []scoring.Result
	if err := json.Unmarshal([]byte(run(t, "", "--db", db, "similarity", "--format", "json", "german")), &row); err != nil {
		t.Fatal(err)
	}
	if len(row) != 2 || row[0].Score > row[1].Score {
		t.Errorf("similarity german = %+v, want two results ascending", row)
	}

	matrix := run(t, "", "--db", db, "similarity")
	for _, name := range []string{"english", "french", "german"} {
		if !strings.Contains(matrix, name) {
			t.Errorf("matrix lacks %s:\n%s", name, matrix)
		}
	}
}

func TestConvertAndLanguages(t *testing.T) {
	db := trainedDB(t)
	run(t, "", "convert", db, "langs.db")

	if got := strings.TrimSpace(run(t, "", "--db", "langs.db", "languages", "--count")); got != "3" {
		t.Errorf("languages --count = %q, want 3", got)
	}
	if got := strings.TrimSpace(run(t, "", "--db", "langs.db", "languages", "--exists", "english", "german")); got != "true" {
		t.Errorf("languages --exists english german = %q", got)
	}
	if got := strings.TrimSpace(run(t, "", "--db", "langs.db", "languages", "--exists", "english", "klingon")); got != "false" {
		t.Errorf("languages --exists english klingon = %q", got)
	}

	var rows []languageJSON
	if err := json.Unmarshal([]byte(run(t, "", "--db", "langs.db", "--names", "iso3", "languages", "--format", "json")), &rows); err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 || rows[0].Label != "deu" || rows[0].Name != "german" || rows[0].Tag != "de" {
		t.Errorf("languages = %+v", rows)
	}
}

func TestConfigFileSuppliesDefaults(t *testing.T) {
	db := trainedDB(t)
	cfg := "[database]\npath = \"" + db + "\"\n\n[detect]\nnames = \"iso3\"\n"
	if err := os.WriteFile("trilang.toml", []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(run(t, "", "detect", "--simple", englishText)); got != "eng" {
		t.Errorf("detect with config = %q, want eng", got)
	}
	// flags win over the file
	if got := strings.TrimSpace(run(t, "", "--names", "name", "detect", "--simple", englishText)); got != "english" {
		t.Errorf("detect with --names = %q, want english", got)
	}
}

func TestVersionJSON(t *testing.T) {
	var v versionPayload
	if err := json.Unmarshal([]byte(run(t, "", "version", "--format", "json")), &v); err != nil {
		t.Fatal(err)
	}
	if v.Tool != "trilang" || v.Version == "" {
		t.Errorf("version = %+v", v)
	}
}

func TestFlagValues(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want uiMode
		ok   bool
	}{
		{"", uiModeAuto, true},
		{"ON", uiModeOn, true},
		{" off ", uiModeOff, true},
		{"sometimes", "", false},
	} {
		got, err := readUIMode(tc.in)
		if (err == nil) != tc.ok || got != tc.want {
			t.Errorf("readUIMode(%q) = %q, %v", tc.in, got, err)
		}
	}
	if err := applyColor("rainbow"); err == nil {
		t.Error("applyColor accepted an unknown value")
	}
	if _, err := checkFormat("yaml"); err == nil {
		t.Error("checkFormat accepted yaml")
	}
}
