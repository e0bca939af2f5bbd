package langdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"

	"fortio.org/safecast"

	"trilang/internal/trigram"

	_ "modernc.org/sqlite" // pure-Go driver, registers "sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS meta (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS profiles (
	language TEXT NOT NULL,
	trigram TEXT NOT NULL,
	rank INTEGER NOT NULL,
	PRIMARY KEY (language, trigram)
);

CREATE INDEX IF NOT EXISTS idx_profiles_language ON profiles(language, rank);
`

// SaveSQLite replaces the contents of the sqlite database at path with db.
func SaveSQLite(ctx context.Context, path string, db *Database) error {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM profiles`); err != nil {
		return err
	}
	meta := map[string]string{
		"schema":    strconv.Itoa(int(schemaVersion)),
		"threshold": strconv.Itoa(db.Threshold()),
	}
	for key, value := range meta {
		if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)`, key, value); err != nil {
			return err
		}
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO profiles (language, trigram, rank) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, name := range db.names {
		for tri, rank := range db.profiles[name] {
			if _, err := stmt.ExecContext(ctx, name, tri, rank); err != nil {
				return fmt.Errorf("insert %s/%q: %w", name, tri, err)
			}
		}
	}
	return tx.Commit()
}

// LoadSQLite reads a database written by SaveSQLite.
func LoadSQLite(ctx context.Context, path string) (*Database, error) {
	// sql.Open would silently create an empty file
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open language database: %w", err)
	}
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer conn.Close()

	meta, err := readMeta(ctx, conn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if meta["schema"] != strconv.Itoa(int(schemaVersion)) {
		return nil, fmt.Errorf("%s: %w: got %q, want %d", path, ErrUnsupportedSchema, meta["schema"], schemaVersion)
	}
	threshold, err := strconv.Atoi(meta["threshold"])
	if err != nil {
		return nil, fmt.Errorf("%s: %w: threshold %q", path, ErrMalformed, meta["threshold"])
	}

	rows, err := conn.QueryContext(ctx, `SELECT language, trigram, rank FROM profiles ORDER BY language, rank`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", path, ErrMalformed, err)
	}
	defer rows.Close()

	profiles := make(map[string]trigram.RankTable)
	for rows.Next() {
		var (
			name, tri string
			stored    int64
		)
		if err := rows.Scan(&name, &tri, &stored); err != nil {
			return nil, err
		}
		rank, err := safecast.Conv[int](stored)
		if err != nil {
			return nil, fmt.Errorf("%s: %w: %s/%q: %w", path, ErrMalformed, name, tri, err)
		}
		table := profiles[name]
		if table == nil {
			table = make(trigram.RankTable)
			profiles[name] = table
		}
		table[tri] = rank
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	db, err := New(threshold, profiles)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return db, nil
}

func readMeta(ctx context.Context, conn *sql.DB) (map[string]string, error) {
	rows, err := conn.QueryContext(ctx, `SELECT key, value FROM meta`)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	defer rows.Close()

	meta := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		meta[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(meta) == 0 {
		return nil, errors.Join(ErrMalformed, errors.New("missing meta table contents"))
	}
	return meta, nil
}
