package settings

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	s := Defaults()
	if s.Preset != "blue" || s.Volume != 0.5 || !s.Enabled {
		t.Fatalf("Defaults() = %+v", s)
	}
	if s.CustomDir != "" || s.StartAtLogin {
		t.Fatalf("Defaults() = %+v, custom dir and login must be off", s)
	}
}

func TestLoadMissingFile(t *testing.T) {
	s := Load(filepath.Join(t.TempDir(), "nope", "config.toml"))
	if s != Defaults() {
		t.Fatalf("Load(missing) = %+v, want defaults", s)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "klack", "config.toml")
	in := Settings{
		Preset:       "macbook",
		Volume:       0.75,
		Enabled:      false,
		CustomDir:    "/home/me/sounds",
		StartAtLogin: true,
	}
	if err := Save(in, path); err != nil {
		t.Fatal(err)
	}

	out := Load(path)
	if out != in {
		t.Fatalf("round trip: got %+v, want %+v", out, in)
	}
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("preset = [broken"), 0644); err != nil {
		t.Fatal(err)
	}
	if s := Load(path); s != Defaults() {
		t.Fatalf("Load(corrupt) = %+v, want defaults", s)
	}
}

func TestLoadClampsVolume(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("preset = \"red\"\nvolume = 3.5\nenabled = true\n"), 0644); err != nil {
		t.Fatal(err)
	}
	s := Load(path)
	if s.Volume != 1 {
		t.Fatalf("Volume = %v, want clamp to 1", s.Volume)
	}
	if s.Preset != "red" {
		t.Fatalf("Preset = %q, want red", s.Preset)
	}
}

func TestSaveClampsVolume(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	in := Defaults()
	in.Volume = -2
	if err := Save(in, path); err != nil {
		t.Fatal(err)
	}
	if got := Load(path).Volume; got != 0 {
		t.Fatalf("Volume = %v, want clamp to 0", got)
	}
}

func TestSaveCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "config.toml")
	if err := Save(Defaults(), path); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatal(err)
	}
}
