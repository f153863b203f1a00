// Package tray renders the system tray icon and menu. State setters and
// callback registration happen before Init; the menu itself is built on
// the systray goroutine.
package tray

import (
	"fmt"
	"sync"
	"time"

	"fyne.io/systray"
)

// PresetItem is one selectable entry in the preset submenu.
type PresetItem struct {
	ID    string
	Label string
}

var volumeSteps = []int{0, 25, 50, 75, 100}

var (
	quitCh    = make(chan struct{})
	closeOnce sync.Once

	stateMu  sync.Mutex
	enabled  bool
	selected string
	volume   int // percent, snapped to the nearest step
	loginOn  bool
	presets  []PresetItem

	enabledCb func(bool)
	presetCb  func(string)
	volumeCb  func(float64)
	folderCb  func()
	loginCb   func(bool)

	mEnabled    *systray.MenuItem
	presetItems []*systray.MenuItem
	volItems    []*systray.MenuItem
	mLogin      *systray.MenuItem
)

func OnEnabledToggle(fn func(bool)) { enabledCb = fn }
func OnPresetSelect(fn func(string)) { presetCb = fn }
func OnVolume(fn func(float64))     { volumeCb = fn }
func OnChooseFolder(fn func())      { folderCb = fn }
func OnStartAtLogin(fn func(bool))  { loginCb = fn }

// SetPresets declares the preset submenu entries. Must be called before
// Init.
func SetPresets(items []PresetItem, selectedID string) {
	stateMu.Lock()
	presets = items
	selected = selectedID
	stateMu.Unlock()
}

// SetState seeds the menu's initial enabled/volume/login state. Must be
// called before Init.
func SetState(on bool, vol float64, login bool) {
	stateMu.Lock()
	enabled = on
	volume = snapVolume(vol)
	loginOn = login
	stateMu.Unlock()
}

// Init starts the tray loop on its own goroutine and returns a channel
// that closes when Quit is chosen.
func Init() <-chan struct{} {
	go systray.Run(onReady, func() {})
	return quitCh
}

func Quit() {
	closeOnce.Do(func() {
		close(quitCh)
		systray.Quit()
	})
}

// SetEnabled flips the icon and checkbox, e.g. after the global hotkey.
func SetEnabled(on bool) {
	stateMu.Lock()
	enabled = on
	item := mEnabled
	stateMu.Unlock()

	updateIcon(on)
	if item != nil {
		if on {
			item.Check()
		} else {
			item.Uncheck()
		}
	}
}

// SetError surfaces a non-fatal problem in the tooltip for a while.
func SetError(msg string) {
	systray.SetTooltip("klack – " + msg)
	go func() {
		time.Sleep(10 * time.Second)
		systray.SetTooltip("klack – keyboard sounds")
	}()
}

func updateIcon(on bool) {
	if on {
		systray.SetIcon(iconEnabled)
	} else {
		systray.SetIcon(iconMuted)
	}
}

func onReady() {
	stateMu.Lock()
	on := enabled
	vol := volume
	login := loginOn
	items := presets
	sel := selected
	stateMu.Unlock()

	updateIcon(on)
	systray.SetTooltip("klack – keyboard sounds")

	mEnabled = systray.AddMenuItemCheckbox("Enabled", "Play sounds on key press (Ctrl+Shift+K)", on)
	go func() {
		for range mEnabled.ClickedCh {
			stateMu.Lock()
			enabled = !enabled
			now := enabled
			stateMu.Unlock()
			SetEnabled(now)
			if enabledCb != nil {
				enabledCb(now)
			}
		}
	}()

	systray.AddSeparator()

	mPresets := systray.AddMenuItem("Sound Set", "Select the active sound set")
	for _, it := range items {
		item := mPresets.AddSubMenuItemCheckbox(it.Label, "", it.ID == sel)
		presetItems = append(presetItems, item)
		go func(id string, item *systray.MenuItem) {
			for range item.ClickedCh {
				selectPreset(id)
				if presetCb != nil {
					presetCb(id)
				}
			}
		}(it.ID, item)
	}

	mVolume := systray.AddMenuItem("Volume", "Playback volume")
	for _, step := range volumeSteps {
		item := mVolume.AddSubMenuItemCheckbox(fmt.Sprintf("%d%%", step), "", step == vol)
		volItems = append(volItems, item)
		go func(step int, item *systray.MenuItem) {
			for range item.ClickedCh {
				selectVolume(step)
				if volumeCb != nil {
					volumeCb(float64(step) / 100)
				}
			}
		}(step, item)
	}

	mFolder := systray.AddMenuItem("Custom Sound Folder…", "Pick a folder of wav/mp3/ogg files")
	go func() {
		for range mFolder.ClickedCh {
			if folderCb != nil {
				folderCb()
			}
		}
	}()

	systray.AddSeparator()

	mLogin = systray.AddMenuItemCheckbox("Start at Login", "Run klack when you log in", login)
	go func() {
		for range mLogin.ClickedCh {
			stateMu.Lock()
			loginOn = !loginOn
			now := loginOn
			stateMu.Unlock()
			if now {
				mLogin.Check()
			} else {
				mLogin.Uncheck()
			}
			if loginCb != nil {
				loginCb(now)
			}
		}
	}()

	systray.AddSeparator()

	mQuit := systray.AddMenuItem("Quit", "Exit klack")
	go func() {
		<-mQuit.ClickedCh
		Quit()
	}()
}

func selectPreset(id string) {
	stateMu.Lock()
	selected = id
	items := presets
	stateMu.Unlock()

	for i, it := range items {
		if i >= len(presetItems) {
			break
		}
		if it.ID == id {
			presetItems[i].Check()
		} else {
			presetItems[i].Uncheck()
		}
	}
}

func selectVolume(step int) {
	stateMu.Lock()
	volume = step
	stateMu.Unlock()

	for i, s := range volumeSteps {
		if i >= len(volItems) {
			break
		}
		if s == step {
			volItems[i].Check()
		} else {
			volItems[i].Uncheck()
		}
	}
}

func snapVolume(v float64) int {
	pct := int(v*100 + 0.5)
	best := volumeSteps[0]
	for _, s := range volumeSteps {
		if abs(pct-s) < abs(pct-best) {
			best = s
		}
	}
	return best
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
