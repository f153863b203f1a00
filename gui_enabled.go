//go:build gui

package main

import (
	"runtime"

	"klack/engine"
	"klack/gui"
	"klack/settings"
	"klack/tray"
)

var guiApp *gui.App

func initGUI() {
	// Fyne/GLFW needs the main OS thread.
	runtime.LockOSThread()

	s := settings.Load("")

	presets := engine.Presets()
	opts := make([]gui.Option, len(presets))
	for i, p := range presets {
		opts[i] = gui.Option{ID: string(p), Label: p.Label()}
	}

	guiApp = gui.NewApp(
		gui.State{
			Presets:      opts,
			Preset:       s.Preset,
			Volume:       s.Volume,
			Enabled:      s.Enabled,
			CustomDir:    s.CustomDir,
			StartAtLogin: s.StartAtLogin,
		},
		gui.Callbacks{
			OnPreset:    applyPreset,
			OnVolume:    applyVolume,
			OnCustomDir: applyCustomDir,
			OnEnabled: func(on bool) {
				applyEnabled(on)
				tray.SetEnabled(on)
			},
			OnLogin: applyLogin,
		},
		func() {
			go run()
		},
	)
	if err := gui.Run(guiApp); err != nil {
		panic(err)
	}
}

func showSettingsWindow() {
	if guiApp != nil {
		guiApp.Show()
	}
}
