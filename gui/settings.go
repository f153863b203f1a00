//go:build gui

// Package gui provides the optional settings window, enabled with
// -tags gui. The tray remains the primary control surface; this window
// only mirrors it with richer widgets.
package gui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// State seeds the window's widgets with the current settings.
type State struct {
	Presets      []Option
	Preset       string
	Volume       float64
	Enabled      bool
	CustomDir    string
	StartAtLogin bool
}

type Option struct {
	ID    string
	Label string
}

// Callbacks fire on the fyne event thread when the user changes a
// control; implementations must not block.
type Callbacks struct {
	OnPreset    func(id string)
	OnVolume    func(v float64)
	OnCustomDir func(dir string)
	OnEnabled   func(on bool)
	OnLogin     func(on bool)
}

type App struct {
	fyneApp fyne.App
	window  fyne.Window
	state   State
	cb      Callbacks
	onReady func()
}

func NewApp(state State, cb Callbacks, onReady func()) *App {
	return &App{state: state, cb: cb, onReady: onReady}
}

// Show brings the settings window to the front. Safe to call from any
// goroutine.
func (a *App) Show() {
	if a.window != nil {
		fyne.Do(func() { a.window.Show() })
	}
}

// Run builds the window and enters the fyne main loop. Must be called
// on the main goroutine; blocks until the app quits.
func Run(a *App) error {
	a.fyneApp = app.NewWithID("io.klack.settings")
	a.window = a.fyneApp.NewWindow("klack Settings")

	labels := make([]string, len(a.state.Presets))
	byLabel := make(map[string]string, len(a.state.Presets))
	current := ""
	for i, p := range a.state.Presets {
		labels[i] = p.Label
		byLabel[p.Label] = p.ID
		if p.ID == a.state.Preset {
			current = p.Label
		}
	}

	presetSelect := widget.NewSelect(labels, func(label string) {
		if a.cb.OnPreset != nil {
			a.cb.OnPreset(byLabel[label])
		}
	})
	presetSelect.SetSelected(current)

	volumeLabel := widget.NewLabel(fmt.Sprintf("%d%%", int(a.state.Volume*100)))
	volumeSlider := widget.NewSlider(0, 1)
	volumeSlider.Step = 0.05
	volumeSlider.Value = a.state.Volume
	volumeSlider.OnChanged = func(v float64) {
		volumeLabel.SetText(fmt.Sprintf("%d%%", int(v*100)))
		if a.cb.OnVolume != nil {
			a.cb.OnVolume(v)
		}
	}

	dirEntry := widget.NewEntry()
	dirEntry.SetText(a.state.CustomDir)
	dirEntry.OnSubmitted = func(dir string) {
		if a.cb.OnCustomDir != nil {
			a.cb.OnCustomDir(dir)
		}
	}
	browse := widget.NewButton("Browse…", func() {
		dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
			if err != nil || uri == nil {
				return
			}
			dirEntry.SetText(uri.Path())
			if a.cb.OnCustomDir != nil {
				a.cb.OnCustomDir(uri.Path())
			}
		}, a.window)
	})

	enabledCheck := widget.NewCheck("Play sounds on key press", func(on bool) {
		if a.cb.OnEnabled != nil {
			a.cb.OnEnabled(on)
		}
	})
	enabledCheck.SetChecked(a.state.Enabled)

	loginCheck := widget.NewCheck("Start at login", func(on bool) {
		if a.cb.OnLogin != nil {
			a.cb.OnLogin(on)
		}
	})
	loginCheck.SetChecked(a.state.StartAtLogin)

	form := widget.NewForm(
		widget.NewFormItem("Sound set", presetSelect),
		widget.NewFormItem("Volume", container.NewBorder(nil, nil, nil, volumeLabel, volumeSlider)),
		widget.NewFormItem("Custom folder", container.NewBorder(nil, nil, nil, browse, dirEntry)),
	)

	a.window.SetContent(container.NewVBox(enabledCheck, form, loginCheck))
	a.window.Resize(fyne.NewSize(420, 240))

	// Closing the window hides it; the tray owns the process lifetime.
	a.window.SetCloseIntercept(func() { a.window.Hide() })

	if a.onReady != nil {
		a.onReady()
	}

	a.window.ShowAndRun()
	return nil
}
