package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.LabelColumn != "Label" || c.MaxRows != 100000 || c.SheetIndex != 1 || c.Strict {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.Palette != DefaultPalette() {
		t.Fatalf("palette = %+v", c.Palette)
	}
}

func TestSaveLoadRoundTripAndEnv(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	c, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	c.LabelColumn = "Name"
	c.Strict = true
	c.Palette.Changed = "#FFA500"
	if err := Save(c, ""); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, ".scatterdiff", "config.yaml")); err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	got, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if got.LabelColumn != "Name" || !got.Strict || got.Palette.Changed != "#FFA500" || got.Palette.Added != DefaultPalette().Added {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	t.Setenv("SCATTERDIFF_LABEL_COLUMN", "Id")
	t.Setenv("SCATTERDIFF_PALETTE_REMOVED", "1")
	got, err = Load("")
	if err != nil {
		t.Fatal(err)
	}
	if got.LabelColumn != "Id" || got.Palette.Removed != "1" {
		t.Fatalf("env overrides not applied: %+v", got)
	}
}

func TestLoadExplicitFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	p := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(p, []byte("label_column: Model\nmax_rows: 10\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(p)
	if err != nil {
		t.Fatal(err)
	}
	if c.LabelColumn != "Model" || c.MaxRows != 10 {
		t.Fatalf("unexpected config: %+v", c)
	}
	if err := os.WriteFile(p, []byte("label_column: [unterminated\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(p); err == nil {
		t.Fatalf("expected error for malformed config")
	}
}
