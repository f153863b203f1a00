package engine

import (
	"os"
	"path/filepath"
	"testing"

	"klack/bank"
)

func TestCacheStartsEmpty(t *testing.T) {
	c := NewCache(t.TempDir())
	if !c.Bank().Empty() {
		t.Fatal("fresh cache bank not empty")
	}
	if got := c.Preset(); got != PresetBlue {
		t.Fatalf("Preset() = %q, want %q", got, PresetBlue)
	}
}

func TestCacheMissingPresetDir(t *testing.T) {
	c := NewCache(filepath.Join(t.TempDir(), "nope"))
	b := c.SetPreset(PresetBrown)
	if !b.Empty() {
		t.Fatal("bank from missing directory not empty")
	}
	if len(b.Skipped) != 0 {
		t.Fatalf("Skipped = %v, want none", b.Skipped)
	}
}

func TestCacheLoadsPresetDir(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "red")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	writeWAV(t, filepath.Join(dir, "a.wav"), 16, bank.Channels, bank.SampleRate, 8192)
	writeWAV(t, filepath.Join(dir, "b.wav"), 16, bank.Channels, bank.SampleRate, 8192)

	c := NewCache(root)
	b := c.SetPreset(PresetRed)
	if len(b.Clips) != 2 {
		t.Fatalf("loaded %d clips, want 2", len(b.Clips))
	}
	if b.Clips[0].Name != "a.wav" || b.Clips[1].Name != "b.wav" {
		t.Fatalf("clips not in name order: %q, %q", b.Clips[0].Name, b.Clips[1].Name)
	}
}

func TestCacheCustomWithoutDir(t *testing.T) {
	c := NewCache(t.TempDir())
	b := c.SetPreset(PresetCustom)
	if !b.Empty() {
		t.Fatal("custom preset without a folder should be empty")
	}
}

func TestCacheSetCustomDirReloadsOnlyWhenCustom(t *testing.T) {
	dir := t.TempDir()
	writeWAV(t, filepath.Join(dir, "click.wav"), 16, bank.Channels, bank.SampleRate, 8192)

	c := NewCache(t.TempDir())

	// Not on Custom: the folder is remembered but nothing reloads.
	b := c.SetCustomDir(dir)
	if !b.Empty() {
		t.Fatal("SetCustomDir reloaded the bank while a preset was active")
	}
	if got := c.CustomDir(); got != dir {
		t.Fatalf("CustomDir() = %q, want %q", got, dir)
	}

	b = c.SetPreset(PresetCustom)
	if len(b.Clips) != 1 {
		t.Fatalf("loaded %d clips from custom folder, want 1", len(b.Clips))
	}

	// On Custom: changing the folder reloads immediately.
	b = c.SetCustomDir(t.TempDir())
	if !b.Empty() {
		t.Fatal("expected empty bank after pointing at an empty folder")
	}
}

func TestCacheReloadPicksUpNewFiles(t *testing.T) {
	dir := t.TempDir()
	c := NewCache(t.TempDir())
	c.SetCustomDir(dir)
	if b := c.SetPreset(PresetCustom); !b.Empty() {
		t.Fatal("expected empty custom bank")
	}

	writeWAV(t, filepath.Join(dir, "new.wav"), 16, bank.Channels, bank.SampleRate, 8192)
	b := c.Reload()
	if len(b.Clips) != 1 {
		t.Fatalf("Reload() found %d clips, want 1", len(b.Clips))
	}
}

func TestCacheSnapshotSurvivesSwap(t *testing.T) {
	dir := t.TempDir()
	writeWAV(t, filepath.Join(dir, "click.wav"), 16, bank.Channels, bank.SampleRate, 8192)

	c := NewCache(t.TempDir())
	c.SetCustomDir(dir)
	old := c.SetPreset(PresetCustom)
	clip := old.Clips[0]

	c.SetPreset(PresetBlue)
	if c.Bank() == old {
		t.Fatal("swap did not publish a new bank")
	}
	// The old snapshot stays intact for voices still reading it.
	if clip.Frames() != 16 || old.Clips[0] != clip {
		t.Fatal("old bank snapshot mutated by swap")
	}
}
