package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg != Defaults() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadOverlaysNonZeroFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ocrctl.toml")
	content := "model-dir = \"/opt/models\"\nthreads = 8\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ModelDir != "/opt/models" {
		t.Fatalf("expected overlaid model-dir, got %q", cfg.ModelDir)
	}
	if cfg.Threads != 8 {
		t.Fatalf("expected overlaid threads, got %d", cfg.Threads)
	}
	if cfg.DetectorParallelism != Defaults().DetectorParallelism {
		t.Fatalf("expected untouched field to keep its default")
	}
}
