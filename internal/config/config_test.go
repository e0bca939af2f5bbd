package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	content := `
[database]
path = "data/langs.db"

[detect]
mode = "compat"
omit = ["latin", "pidgin"]
`
	if err := os.WriteFile(filepath.Join(root, FileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	cfg, err := Discover(nested)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Path != filepath.Join(root, FileName) {
		t.Errorf("Path = %q", cfg.Path)
	}
	if cfg.Database.Path != filepath.Join(root, "data", "langs.db") {
		t.Errorf("database path = %q", cfg.Database.Path)
	}
	if cfg.Detect.Mode != "compat" || !slices.Equal(cfg.Detect.Omit, []string{"latin", "pidgin"}) {
		t.Errorf("detect = %+v", cfg.Detect)
	}
	// untouched keys keep their defaults
	if cfg.Detect.Names != "name" || cfg.Database.Format != "auto" {
		t.Errorf("defaults lost: %+v %+v", cfg.Detect, cfg.Database)
	}
	if !cfg.IsDefined("detect", "mode") || cfg.IsDefined("detect", "names") {
		t.Error("IsDefined does not track the file")
	}
}

func TestDiscoverWithoutFile(t *testing.T) {
	cfg, err := Discover(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Path != "" || cfg.IsDefined("detect", "mode") {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("[detect\nmode ="), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("Load accepted invalid TOML")
	}

	unknown := filepath.Join(dir, "unknown.toml")
	if err := os.WriteFile(unknown, []byte("[detect]\nspeed = 11\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(unknown); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("unknown key: %v", err)
	}
}
