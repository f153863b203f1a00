// Package hotkey registers the global enable/disable combination
// (Ctrl+Shift+K) so sounds can be muted without touching the tray.
package hotkey

type Hotkey interface {
	Register() error
	Unregister()
	Keydown() <-chan struct{}
}
