// Package langdb holds the language profile database: an immutable mapping
// from lower-case language name to a precomputed trigram rank table, plus the
// codecs that persist it (msgpack files and sqlite databases).
package langdb

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"trilang/internal/trigram"
)

var (
	// ErrMalformed reports a database whose structure violates the profile rules.
	ErrMalformed = errors.New("malformed language database")
	// ErrUnsupportedSchema reports a persisted database written by another schema version.
	ErrUnsupportedSchema = errors.New("unsupported language database schema")
)

// Database is a read-only set of language profiles. It is safe for concurrent
// use and may be shared by any number of detectors.
type Database struct {
	threshold int
	names     []string
	profiles  map[string]trigram.RankTable
}

// New validates profiles and returns a database that owns copies of them.
func New(threshold int, profiles map[string]trigram.RankTable) (*Database, error) {
	if threshold <= 0 {
		return nil, fmt.Errorf("%w: threshold must be positive, got %d", ErrMalformed, threshold)
	}

	db := &Database{
		threshold: threshold,
		names:     make([]string, 0, len(profiles)),
		profiles:  make(map[string]trigram.RankTable, len(profiles)),
	}
	for name, table := range profiles {
		if err := validateProfile(name, table, threshold); err != nil {
			return nil, err
		}
		db.names = append(db.names, name)
		db.profiles[name] = table.Clone()
	}
	slices.Sort(db.names)
	return db, nil
}

func validateProfile(name string, table trigram.RankTable, threshold int) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: empty language name", ErrMalformed)
	}
	if name != strings.ToLower(name) {
		return fmt.Errorf("%w: language name %q is not lower case", ErrMalformed, name)
	}
	if table == nil {
		return fmt.Errorf("%w: %s: missing rank table", ErrMalformed, name)
	}
	if len(table) > threshold {
		return fmt.Errorf("%w: %s: %d trigrams exceed threshold %d", ErrMalformed, name, len(table), threshold)
	}
	seen := make([]bool, threshold)
	for tri, rank := range table {
		if rank < 0 || rank >= threshold {
			return fmt.Errorf("%w: %s: rank %d of %q out of range", ErrMalformed, name, rank, tri)
		}
		if seen[rank] {
			return fmt.Errorf("%w: %s: rank %d assigned twice", ErrMalformed, name, rank)
		}
		seen[rank] = true
	}
	return nil
}

// Threshold returns the rank table size the profiles were built with.
func (db *Database) Threshold() int {
	if db == nil {
		return 0
	}
	return db.threshold
}

// Len returns the number of languages.
func (db *Database) Len() int {
	if db == nil {
		return 0
	}
	return len(db.names)
}

// Names returns the language names in ascending order.
func (db *Database) Names() []string {
	if db == nil {
		return nil
	}
	return slices.Clone(db.names)
}

// Has reports whether name has a profile.
func (db *Database) Has(name string) bool {
	_, ok := db.Profile(name)
	return ok
}

// Profile returns the rank table of name. Callers must not modify it.
func (db *Database) Profile(name string) (trigram.RankTable, bool) {
	if db == nil {
		return nil, false
	}
	table, ok := db.profiles[name]
	return table, ok
}
