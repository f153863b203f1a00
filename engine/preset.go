package engine

import "path/filepath"

// Preset names a built-in sound set, or Custom for a user-chosen folder.
type Preset string

const (
	PresetBlue    Preset = "blue"
	PresetBrown   Preset = "brown"
	PresetRed     Preset = "red"
	PresetMacBook Preset = "macbook"
	PresetCustom  Preset = "custom"
)

// Presets lists every selectable preset, built-ins first.
func Presets() []Preset {
	return []Preset{PresetBlue, PresetBrown, PresetRed, PresetMacBook, PresetCustom}
}

// ParsePreset maps a stored string to a Preset, falling back to
// PresetBlue for anything unrecognized.
func ParsePreset(s string) Preset {
	switch Preset(s) {
	case PresetBlue, PresetBrown, PresetRed, PresetMacBook, PresetCustom:
		return Preset(s)
	}
	return PresetBlue
}

// Label returns the preset's menu title.
func (p Preset) Label() string {
	switch p {
	case PresetBlue:
		return "Blue switches"
	case PresetBrown:
		return "Brown switches"
	case PresetRed:
		return "Red switches"
	case PresetMacBook:
		return "MacBook style"
	case PresetCustom:
		return "Custom folder"
	}
	return string(p)
}

// dir resolves the preset's sound directory under root. Custom has no
// built-in directory.
func (p Preset) dir(root string) string {
	if p == PresetCustom {
		return ""
	}
	return filepath.Join(root, string(p))
}
