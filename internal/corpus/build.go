// Package corpus precomputes language profiles from plain-text corpus
// files, one file per language named after it ("english.txt").
package corpus

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"trilang/internal/langdb"
	"trilang/internal/logging"
	"trilang/internal/textenc"
	"trilang/internal/trace"
	"trilang/internal/trigram"
)

// Ext is the extension of corpus files.
const Ext = ".txt"

var (
	// ErrNoFiles is returned when a corpus directory holds no corpus file.
	ErrNoFiles = errors.New("no corpus files")
	// ErrDuplicateLanguage is returned when two files map to the same language.
	ErrDuplicateLanguage = errors.New("duplicate corpus language")
)

// File is one corpus file and the language it defines.
type File struct {
	Path     string
	Language string
}

// Options controls Build.
type Options struct {
	Threshold  int                // rank table size, default trigram.DefaultThreshold
	Jobs       int                // parallel files, default GOMAXPROCS
	Transcoder textenc.Transcoder // default textenc.Auto
	Sink       Sink
}

// ListFiles returns the corpus files directly inside dir, sorted by language.
func ListFiles(dir string) ([]File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]string, len(entries))
	var files []File
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), Ext) {
			continue
		}
		if e.Type()&fs.ModeSymlink == 0 && !e.Type().IsRegular() {
			continue
		}
		lang := strings.ToLower(strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
		if lang == "" {
			continue
		}
		if prev, dup := seen[lang]; dup {
			return nil, fmt.Errorf("%w: %s and %s", ErrDuplicateLanguage, prev, e.Name())
		}
		seen[lang] = e.Name()
		files = append(files, File{Path: filepath.Join(dir, e.Name()), Language: lang})
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoFiles, dir)
	}

	// Сортируем для детерминированного порядка
	sort.Slice(files, func(i, j int) bool { return files[i].Language < files[j].Language })
	return files, nil
}

// Build profiles every corpus file of dir in parallel. Files without a
// single trigram are skipped with a warning.
func Build(ctx context.Context, dir string, opts Options) (*langdb.Database, error) {
	files, err := ListFiles(dir)
	if err != nil {
		return nil, err
	}
	return BuildFiles(ctx, files, opts)
}

// BuildFiles profiles the given files.
func BuildFiles(ctx context.Context, files []File, opts Options) (*langdb.Database, error) {
	threshold := opts.Threshold
	if threshold <= 0 {
		threshold = trigram.DefaultThreshold
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	sink := opts.Sink
	if sink == nil {
		sink = nopSink{}
	}
	tc := opts.Transcoder
	if tc == nil {
		tc, _ = textenc.New(textenc.Auto)
	}

	tr := trace.FromContext(ctx)
	span := trace.Begin(tr, trace.ScopeOperation, "train", trace.ParentFromContext(ctx))
	defer span.End("")

	for _, f := range files {
		sink.OnEvent(Event{Language: f.Language, File: f.Path, Status: StatusQueued})
	}

	// индекс i уникален для каждой горутины, мьютекс не нужен
	tables := make([]trigram.RankTable, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(files))))
	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			sink.OnEvent(Event{Language: f.Language, File: f.Path, Status: StatusWorking})

			table, err := profileFile(f.Path, threshold, tc)
			if err != nil {
				sink.OnEvent(Event{Language: f.Language, File: f.Path, Status: StatusError, Err: err, Elapsed: time.Since(start)})
				return fmt.Errorf("%s: %w", f.Path, err)
			}
			status := StatusDone
			if len(table) == 0 {
				status = StatusSkipped
			}
			tables[i] = table
			sink.OnEvent(Event{Language: f.Language, File: f.Path, Status: status, Trigrams: len(table), Elapsed: time.Since(start)})
			trace.Point(tr, trace.ScopeLanguage, "profile:"+f.Language, span.ID(), fmt.Sprintf("%d trigrams", len(table)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	profiles := make(map[string]trigram.RankTable, len(files))
	for i, f := range files {
		if len(tables[i]) == 0 {
			logging.Warn("corpus file has no trigrams, skipped", "file", f.Path)
			continue
		}
		profiles[f.Language] = tables[i]
	}
	logging.Info("profiles built", "languages", len(profiles), "threshold", threshold)
	return langdb.New(threshold, profiles)
}

func profileFile(path string, threshold int, tc textenc.Transcoder) (trigram.RankTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	text, err := tc.Transcode(string(data))
	if err != nil {
		return nil, err
	}
	// профили строятся с обоими граничными триграммами
	return trigram.Profile(text, threshold, trigram.EdgesAll)
}
