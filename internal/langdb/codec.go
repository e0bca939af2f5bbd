package langdb

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"trilang/internal/trigram"
)

// Current schema version - increment when payload format changes
const schemaVersion uint16 = 1

// payload is the msgpack form of a Database. Trigrams are stored in rank
// order, so ranks are implicit and always dense.
type payload struct {
	Schema    uint16
	Threshold uint16
	Languages []languagePayload
}

type languagePayload struct {
	Name     string
	Trigrams []string
}

// Encode writes db to w as msgpack.
func Encode(w io.Writer, db *Database) error {
	threshold, err := safecast.Conv[uint16](db.Threshold())
	if err != nil {
		return fmt.Errorf("encode language database: threshold: %w", err)
	}
	p := payload{
		Schema:    schemaVersion,
		Threshold: threshold,
		Languages: make([]languagePayload, 0, db.Len()),
	}
	for _, name := range db.names {
		p.Languages = append(p.Languages, languagePayload{
			Name:     name,
			Trigrams: db.profiles[name].Ordered(),
		})
	}
	if err := msgpack.NewEncoder(w).Encode(&p); err != nil {
		return fmt.Errorf("encode language database: %w", err)
	}
	return nil
}

// Decode reads a msgpack database written by Encode.
func Decode(r io.Reader) (*Database, error) {
	var p payload
	if err := msgpack.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if p.Schema != schemaVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrUnsupportedSchema, p.Schema, schemaVersion)
	}

	profiles := make(map[string]trigram.RankTable, len(p.Languages))
	for _, lang := range p.Languages {
		if _, dup := profiles[lang.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate language %q", ErrMalformed, lang.Name)
		}
		table := trigram.FromOrdered(lang.Trigrams)
		if len(table) != len(lang.Trigrams) {
			return nil, fmt.Errorf("%w: %s: duplicate trigrams", ErrMalformed, lang.Name)
		}
		profiles[lang.Name] = table
	}
	return New(int(p.Threshold), profiles)
}

// Save writes db to path atomically.
func Save(path string, db *Database) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".trilang-*")
	if err != nil {
		return err
	}
	defer func() {
		// после успешного Rename файла уже нет
		_ = os.Remove(f.Name())
	}()

	w := bufio.NewWriter(f)
	if err := Encode(w, db); err != nil {
		_ = f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), path)
}

// Load reads a msgpack database from path.
func Load(path string) (*Database, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open language database: %w", err)
	}
	defer f.Close()

	db, err := Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return db, nil
}
