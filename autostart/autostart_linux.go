//go:build linux

// Package autostart manages the start-with-OS registration.
package autostart

import (
	"fmt"
	"os"
	"path/filepath"
)

const desktopName = "klack.desktop"

func desktopPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(configHome, "autostart", desktopName)
}

func Enabled() bool {
	_, err := os.Stat(desktopPath())
	return err == nil
}

func Enable() error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}

	entry := fmt.Sprintf(`[Desktop Entry]
Type=Application
Name=klack
Comment=Mechanical keyboard sounds
Exec=%s
Terminal=false
X-GNOME-Autostart-enabled=true
`, exe)

	path := desktopPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create autostart dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(entry), 0644); err != nil {
		return fmt.Errorf("write desktop entry: %w", err)
	}
	return nil
}

func Disable() error {
	if err := os.Remove(desktopPath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove desktop entry: %w", err)
	}
	return nil
}
