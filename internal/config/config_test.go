// # internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "getdocs.toml")
	content := `
base_dir = "./src"
pretty = true
metrics_addr = ":9090"

[exclude]
dirs = ["node_modules", "vendor"]
files = ["*.d.ts"]

[watch]
debounce = 250000000
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.BaseDir != "./src" {
		t.Errorf("BaseDir = %q", cfg.BaseDir)
	}
	if !cfg.Pretty {
		t.Error("Pretty should be true")
	}
	if cfg.MetricsAddr != ":9090" {
		t.Errorf("MetricsAddr = %q", cfg.MetricsAddr)
	}
	if len(cfg.Exclude.Dirs) != 2 || cfg.Exclude.Dirs[1] != "vendor" {
		t.Errorf("Exclude.Dirs = %v", cfg.Exclude.Dirs)
	}
	if cfg.Watch.Debounce != 250*time.Millisecond {
		t.Errorf("Debounce = %v", cfg.Watch.Debounce)
	}
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "getdocs.toml")
	if err := os.WriteFile(path, []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Watch.Debounce != 500*time.Millisecond {
		t.Errorf("default Debounce = %v", cfg.Watch.Debounce)
	}
	if len(cfg.Exclude.Dirs) == 0 {
		t.Error("default exclude dirs should not be empty")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/getdocs.toml"); err == nil {
		t.Error("expected error for missing file")
	}
}
