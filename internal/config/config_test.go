package config

import (
	"path/filepath"
	"testing"
)

func TestSaveThenLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nescore.json")

	c := New()
	c.Window.Scale = 3
	c.Input.Player1Keys.A = "Z"
	if err := c.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile: %v", err)
	}

	loaded := &Config{}
	if err := loaded.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if loaded.Window.Scale != 3 {
		t.Fatalf("Scale = %d, want 3", loaded.Window.Scale)
	}
	if loaded.Input.Player1Keys.A != "Z" {
		t.Fatalf("Player1Keys.A = %q, want Z", loaded.Input.Player1Keys.A)
	}
}

func TestLoadMissingFileWritesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nescore.json")

	c := New()
	if err := c.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if matches, err := filepath.Glob(path); err != nil || len(matches) != 1 {
		t.Fatalf("default config not written to %s: matches=%v err=%v", path, matches, err)
	}
}

func TestWindowResolutionScalesNESFrame(t *testing.T) {
	c := New()
	c.Window.Scale = 2
	w, h := c.GetWindowResolution()
	if w != 512 || h != 480 {
		t.Fatalf("resolution = %dx%d, want 512x480", w, h)
	}
}

func TestInvalidScaleClampedToOne(t *testing.T) {
	c := New()
	c.Window.Scale = 0
	c.validate()
	if c.Window.Scale != 1 {
		t.Fatalf("Scale = %d, want 1", c.Window.Scale)
	}
}
