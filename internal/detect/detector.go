// Package detect identifies the natural language of a text sample by
// comparing its trigram rank table against every profile of a language
// database.
//
// A Detector never modifies the database it was built from. Omitting
// languages narrows the Detector's own active set, which ResetLanguages
// restores. All methods are safe for concurrent use.
package detect

import (
	"errors"
	"io"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"trilang/internal/cluster"
	"trilang/internal/iso639"
	"trilang/internal/langdb"
	"trilang/internal/scoring"
	"trilang/internal/textenc"
	"trilang/internal/trace"
	"trilang/internal/trigram"
)

var (
	// ErrNoDatabase is returned by every operation of a Detector built without a database.
	ErrNoDatabase = errors.New("no language database")
	// ErrEmptyDatabase is returned when the database has no languages.
	ErrEmptyDatabase = errors.New("language database is empty")
)

// None is the answer of DetectSimple when no language can be told apart.
const None = "none"

// Detector scores samples against a language database.
type Detector struct {
	db         *langdb.Database
	threshold  int
	workers    int
	transcoder textenc.Transcoder
	tracer     trace.Tracer
	log        *log.Logger

	mu     sync.RWMutex
	mode   scoring.Mode
	names  NameMode
	active []string // sorted
	gen    uint64   // bumped whenever active or mode changes

	clusterMu  sync.Mutex
	dendrogram *cluster.Dendrogram
	clusterGen uint64
}

// New returns a Detector over db. A nil or empty db is reported by the
// first operation.
func New(db *langdb.Database, opts ...Option) *Detector {
	d := &Detector{
		db:        db,
		threshold: trigram.DefaultThreshold,
		workers:   runtime.GOMAXPROCS(0),
		log:       log.New(io.Discard),
		active:    db.Names(),
	}
	if db != nil {
		d.threshold = db.Threshold()
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.workers < 1 {
		d.workers = 1
	}
	return d
}

func (d *Detector) check() error {
	if d.db == nil {
		return ErrNoDatabase
	}
	if d.db.Len() == 0 {
		return ErrEmptyDatabase
	}
	return nil
}

// state is a consistent copy of the mutable settings.
type state struct {
	languages []string
	mode      scoring.Mode
	names     NameMode
	gen       uint64
}

func (d *Detector) snapshot() state {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return state{
		languages: d.active,
		mode:      d.mode,
		names:     d.names,
		gen:       d.gen,
	}
}

// resolve maps user input to a database name. In ISO name modes two- and
// three-letter codes are accepted too.
func (d *Detector) resolve(input string, names NameMode) string {
	name := strings.ToLower(strings.TrimSpace(input))
	if names != NameModeName && !d.db.Has(name) {
		if byCode, ok := iso639.NameForCode(name); ok {
			return byCode
		}
	}
	return name
}

// Threshold returns the rank table size used for samples.
func (d *Detector) Threshold() int { return d.threshold }

// Mode returns the scoring mode.
func (d *Detector) Mode() scoring.Mode {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.mode
}

// SetMode switches the scoring mode.
func (d *Detector) SetMode(mode scoring.Mode) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.mode != mode {
		d.mode = mode
		d.gen++
	}
}

// NameMode returns the naming of results.
func (d *Detector) NameMode() NameMode {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.names
}

// SetNameMode switches the naming of results and input.
func (d *Detector) SetNameMode(mode NameMode) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.names = mode
}

// Label renders a database language name in the current name mode.
func (d *Detector) Label(name string) string {
	return d.NameMode().Label(name)
}

// OmitLanguages removes names from the active set, or with includeOnly keeps
// only names. Matching ignores case and names that are not active are
// ignored. It returns the number of languages removed.
func (d *Detector) OmitLanguages(names []string, includeOnly bool) (int, error) {
	if err := d.check(); err != nil {
		return 0, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	listed := make(map[string]bool, len(names))
	for _, n := range names {
		listed[d.resolve(n, d.names)] = true
	}
	kept := make([]string, 0, len(d.active))
	for _, name := range d.active {
		if listed[name] == includeOnly {
			kept = append(kept, name)
		}
	}
	removed := len(d.active) - len(kept)
	if removed > 0 {
		d.active = kept
		d.gen++
		d.log.Info("languages omitted", "removed", removed, "active", len(kept), "include_only", includeOnly)
	}
	return removed, nil
}

// ResetLanguages makes every language of the database active again.
func (d *Detector) ResetLanguages() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.active) != d.db.Len() {
		d.active = d.db.Names()
		d.gen++
	}
}

// LanguageCount returns the number of active languages.
func (d *Detector) LanguageCount() (int, error) {
	if err := d.check(); err != nil {
		return 0, err
	}
	return len(d.snapshot().languages), nil
}

// LanguageExists reports whether every name is an active language. It is
// false when no name is given.
func (d *Detector) LanguageExists(names ...string) (bool, error) {
	if err := d.check(); err != nil {
		return false, err
	}
	if len(names) == 0 {
		return false, nil
	}
	st := d.snapshot()
	for _, n := range names {
		if _, found := slices.BinarySearch(st.languages, d.resolve(n, st.names)); !found {
			return false, nil
		}
	}
	return true, nil
}

// Languages returns the active languages in the current name mode, sorted.
func (d *Detector) Languages() ([]string, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	st := d.snapshot()
	out := make([]string, len(st.languages))
	for i, name := range st.languages {
		out[i] = st.names.Label(name)
	}
	slices.Sort(out)
	return out, nil
}
