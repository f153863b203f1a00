//go:build !gui

package main

import (
	"klack/log"
	"klack/settings"
)

func initGUI() {
	panic("klack: built without GUI support (rebuild with -tags gui)")
}

func showSettingsWindow() {
	log.Warnf("settings window unavailable in this build; edit custom_dir in %s or rebuild with -tags gui", settings.Path())
}
