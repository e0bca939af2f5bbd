package langdb

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format selects the on-disk representation of a database.
type Format string

const (
	FormatAuto    Format = "auto"
	FormatMsgpack Format = "msgpack"
	FormatSQLite  Format = "sqlite"
)

var sqliteMagic = []byte("SQLite format 3\x00")

// ParseFormat converts a flag or config value to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatAuto, nil
	case FormatAuto, FormatMsgpack, FormatSQLite:
		return f, nil
	default:
		return FormatAuto, fmt.Errorf("invalid database format: %q (expected: auto|msgpack|sqlite)", s)
	}
}

// Open loads the database at path. FormatAuto sniffs the sqlite file header.
func Open(ctx context.Context, path string, format Format) (*Database, error) {
	if format == FormatAuto || format == "" {
		var err error
		if format, err = sniff(path); err != nil {
			return nil, err
		}
	}
	switch format {
	case FormatSQLite:
		return LoadSQLite(ctx, path)
	case FormatMsgpack:
		return Load(path)
	default:
		return nil, fmt.Errorf("invalid database format: %q", format)
	}
}

// Write stores db at path. FormatAuto picks sqlite for .db, .sqlite and
// .sqlite3 files and msgpack otherwise.
func Write(ctx context.Context, path string, db *Database, format Format) error {
	if format == FormatAuto || format == "" {
		format = formatForExt(path)
	}
	switch format {
	case FormatSQLite:
		return SaveSQLite(ctx, path, db)
	case FormatMsgpack:
		return Save(path, db)
	default:
		return fmt.Errorf("invalid database format: %q", format)
	}
}

func formatForExt(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite
	default:
		return FormatMsgpack
	}
}

func sniff(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open language database: %w", err)
	}
	defer f.Close()

	head := make([]byte, len(sqliteMagic))
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("open language database: %w", err)
	}
	if bytes.Equal(head[:n], sqliteMagic) {
		return FormatSQLite, nil
	}
	return FormatMsgpack, nil
}
