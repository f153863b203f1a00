//go:build !linux

package autostart

import "fmt"

func Enabled() bool { return false }

func Enable() error {
	return fmt.Errorf("start at login is not supported on this platform")
}

func Disable() error { return nil }
