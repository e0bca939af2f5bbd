// Package config reads trilang.toml, the optional project file that sets
// defaults for the database, detection and training commands.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the name of the project configuration file.
const FileName = "trilang.toml"

// ErrUnknownKey is returned for keys trilang does not understand.
var ErrUnknownKey = errors.New("unknown configuration key")

// Database locates the language database.
type Database struct {
	Path   string `toml:"path"`
	Format string `toml:"format"` // auto | msgpack | sqlite
}

// Detect holds detection defaults.
type Detect struct {
	Mode      string   `toml:"mode"`  // default | compat
	Names     string   `toml:"names"` // name | iso2 | iso3
	Threshold int      `toml:"threshold"`
	Workers   int      `toml:"workers"`
	Encoding  string   `toml:"encoding"`
	Limit     int      `toml:"limit"`
	Omit      []string `toml:"omit"`
	Only      []string `toml:"only"`
}

// Train holds defaults of the train command.
type Train struct {
	Corpus    string `toml:"corpus"`
	Out       string `toml:"out"`
	Threshold int    `toml:"threshold"`
	Jobs      int    `toml:"jobs"`
	Encoding  string `toml:"encoding"`
}

// Config is a decoded trilang.toml.
type Config struct {
	Database Database `toml:"database"`
	Detect   Detect   `toml:"detect"`
	Train    Train    `toml:"train"`

	// Path of the file the values came from; empty for Default.
	Path string `toml:"-"`
	meta toml.MetaData
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Database: Database{Path: "languages.msgpack", Format: "auto"},
		Detect:   Detect{Mode: "default", Names: "name", Encoding: "auto"},
		Train:    Train{Out: "languages.msgpack", Encoding: "auto"},
	}
}

// Find walks up from startDir to locate trilang.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load decodes path over the defaults. Relative paths in the file are
// resolved against the file's directory.
func Load(path string) (*Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: %w: %s", path, ErrUnknownKey, strings.Join(keys, ", "))
	}
	cfg.Path = path
	cfg.meta = meta

	base := filepath.Dir(path)
	cfg.Database.Path = resolve(base, cfg.Database.Path, meta.IsDefined("database", "path"))
	cfg.Train.Corpus = resolve(base, cfg.Train.Corpus, meta.IsDefined("train", "corpus"))
	cfg.Train.Out = resolve(base, cfg.Train.Out, meta.IsDefined("train", "out"))
	return cfg, nil
}

// Discover loads the trilang.toml found from startDir, or the defaults when
// there is none.
func Discover(startDir string) (*Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// IsDefined reports whether the file set the key, e.g. IsDefined("detect", "mode").
func (c *Config) IsDefined(key ...string) bool {
	if c == nil || c.Path == "" {
		return false
	}
	return c.meta.IsDefined(key...)
}

func resolve(base, path string, defined bool) string {
	path = strings.TrimSpace(path)
	if !defined || path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}
