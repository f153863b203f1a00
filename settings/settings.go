// Package settings persists the small user configuration record as a
// TOML file under the XDG config directory.
package settings

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

const (
	DefaultPreset = "blue"
	DefaultVolume = 0.5
)

type Settings struct {
	Preset       string  `toml:"preset"`
	Volume       float64 `toml:"volume"`
	Enabled      bool    `toml:"enabled"`
	CustomDir    string  `toml:"custom_dir"`
	StartAtLogin bool    `toml:"start_at_login"`
}

func Defaults() Settings {
	return Settings{
		Preset:  DefaultPreset,
		Volume:  DefaultVolume,
		Enabled: true,
	}
}

// Path returns the config file location. Uses XDG_CONFIG_HOME when set,
// otherwise ~/.config.
func Path() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "klack", "config.toml")
}

// Load reads settings from path (default location when empty). A
// missing or unparseable file yields the defaults; the volume is
// clamped on the way in so a hand-edited file cannot push gain out of
// range.
func Load(path string) Settings {
	if path == "" {
		path = Path()
	}

	s := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	if err := toml.Unmarshal(data, &s); err != nil {
		// Corrupt file: fall back to defaults wholesale rather than
		// keep a half-parsed record.
		return Defaults()
	}

	s.Volume = clamp(s.Volume)
	return s
}

// Save writes the settings to path (default location when empty),
// creating parent directories as needed.
func Save(s Settings, path string) error {
	if path == "" {
		path = Path()
	}
	if path == "" {
		return errors.New("settings: cannot resolve config path")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	s.Volume = clamp(s.Volume)
	data, err := toml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
