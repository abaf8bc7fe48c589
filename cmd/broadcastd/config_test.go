package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigFile_Defaults(t *testing.T) {
	// WHAT: No config path yields a fully defaulted config.
	cfg, err := loadConfigFile("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Listen != ":8086" || cfg.DBPath != "broadcast.db" || cfg.MCPOwnerID != "local" {
		t.Errorf("defaults = %+v", cfg)
	}
}

func TestLoadConfigFile_PartialOverride(t *testing.T) {
	// WHAT: Explicit values win, unset ones still default.
	path := filepath.Join(t.TempDir(), "broadcastd.yaml")
	if err := os.WriteFile(path, []byte("listen: \":9090\"\nviewer_base: \"https://view.example.test/b\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := loadConfigFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Listen != ":9090" {
		t.Errorf("listen = %q", cfg.Listen)
	}
	if cfg.ViewerBase != "https://view.example.test/b" {
		t.Errorf("viewer_base = %q", cfg.ViewerBase)
	}
	if cfg.BlobDir != "blobs" {
		t.Errorf("blob_dir = %q", cfg.BlobDir)
	}
}

func TestLoadConfigFile_Missing(t *testing.T) {
	if _, err := loadConfigFile("/nonexistent/broadcastd.yaml"); err == nil {
		t.Fatal("missing explicit config file must error")
	}
}
