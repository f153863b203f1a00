package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"klack/audio"
	"klack/autostart"
	"klack/engine"
	"klack/hotkey"
	"klack/keys"
	"klack/log"
	"klack/settings"
	"klack/shutdown"
	"klack/tray"
)

var version = "dev"

var (
	eng      *engine.Engine
	audioCtx audio.Context
	keySrc   keys.Source

	soundsEnabled atomic.Bool
	triggerCount  atomic.Uint64

	settMu sync.Mutex
	sett   settings.Settings

	watchMu     sync.Mutex
	folderWatch *engine.FolderWatcher
)

var shutdownOnce sync.Once

func main() {
	for _, arg := range os.Args[1:] {
		if arg == "-gui" {
			initGUI()
			return
		}
	}
	run()
}

func run() {
	versionFlag := flag.Bool("version", false, "Print version and exit")
	logPathFlag := flag.String("logpath", "", "log directory path (default: OS-specific location, use ./ for current dir)")
	noSoundFlag := flag.Bool("nosound", false, "Do not open the audio device (diagnostics)")
	flag.Bool("gui", false, "Run with the settings window (handled before flag parsing)")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("klack %s\n", version)
		os.Exit(0)
	}

	logPath, err := log.ResolveDir(*logPathFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to resolve log directory: %v\n", err)
		os.Exit(1)
	}
	log.SetDir(logPath)
	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}

	settMu.Lock()
	sett = settings.Load("")
	s := sett
	settMu.Unlock()
	soundsEnabled.Store(s.Enabled)
	log.SessionStart(s.Preset, s.Volume, s.Enabled)

	cache := engine.NewCache(soundRoot())

	var ctxErr error
	if !*noSoundFlag {
		audioCtx, ctxErr = audio.NewContext()
		if ctxErr != nil {
			log.DeviceError(ctxErr)
		}
	}

	eng = engine.New(audioCtx, cache)
	eng.SetVolume(s.Volume)
	if audioCtx != nil && ctxErr == nil {
		if err := eng.Start(); err != nil {
			log.DeviceError(err)
		}
	}

	eng.SetCustomDir(s.CustomDir)
	p := engine.ParsePreset(s.Preset)
	b := eng.SetPreset(p)
	log.BankLoaded(string(p), b.Dir, len(b.Clips), len(b.Skipped))
	refreshWatcher()

	keySrc = keys.New()
	if err := keySrc.Start(); err != nil {
		log.Warnf("key capture: %v", err)
	}

	hk := hotkey.New()
	if err := hk.Register(); err != nil {
		log.Warnf("hotkey register: %v", err)
	}
	defer hk.Unregister()

	tray.SetPresets(presetItems(), string(p))
	tray.SetState(s.Enabled, s.Volume, s.StartAtLogin)
	tray.OnEnabledToggle(applyEnabled)
	tray.OnPresetSelect(applyPreset)
	tray.OnVolume(applyVolume)
	tray.OnChooseFolder(showSettingsWindow)
	tray.OnStartAtLogin(applyLogin)
	trayQuit := tray.Init()

	if eng.Disabled() {
		if err := eng.Err(); err != nil {
			tray.SetError("no audio output: " + err.Error())
		}
	}

	sigChan := make(chan os.Signal, 1)
	shutdown.Notify(sigChan)

	for {
		select {
		case <-keySrc.Events():
			if soundsEnabled.Load() {
				eng.Trigger()
				triggerCount.Add(1)
			}

		case <-hk.Keydown():
			on := !soundsEnabled.Load()
			applyEnabled(on)
			tray.SetEnabled(on)

		case <-sigChan:
			gracefulShutdown()

		case <-trayQuit:
			gracefulShutdown()
		}
	}
}

func gracefulShutdown() {
	shutdownOnce.Do(func() {
		log.SessionEnd(triggerCount.Load())

		watchMu.Lock()
		if folderWatch != nil {
			folderWatch.Stop()
			folderWatch = nil
		}
		watchMu.Unlock()

		if keySrc != nil {
			keySrc.Stop()
		}
		// Device render stops before any shared state is released.
		if eng != nil {
			eng.Close()
		}
		if audioCtx != nil {
			audioCtx.Close()
		}
		tray.Quit()
		log.Close()
		os.Exit(0)
	})
}

func applyEnabled(on bool) {
	soundsEnabled.Store(on)
	log.EnabledChanged(on)
	saveSettings(func(s *settings.Settings) { s.Enabled = on })
}

func applyPreset(id string) {
	if eng == nil {
		return
	}
	p := engine.ParsePreset(id)
	b := eng.SetPreset(p)
	log.BankLoaded(string(p), b.Dir, len(b.Clips), len(b.Skipped))
	if b.Empty() && p == engine.PresetCustom {
		tray.SetError("custom folder has no playable sounds")
	}
	saveSettings(func(s *settings.Settings) { s.Preset = string(p) })
	refreshWatcher()
}

func applyVolume(v float64) {
	if eng == nil {
		return
	}
	eng.SetVolume(v)
	log.VolumeChanged(eng.Volume())
	saveSettings(func(s *settings.Settings) { s.Volume = eng.Volume() })
}

func applyCustomDir(dir string) {
	if eng == nil {
		return
	}
	b := eng.SetCustomDir(dir)
	if eng.Preset() == engine.PresetCustom {
		log.BankLoaded(string(engine.PresetCustom), b.Dir, len(b.Clips), len(b.Skipped))
	}
	saveSettings(func(s *settings.Settings) { s.CustomDir = dir })
	refreshWatcher()
}

func applyLogin(on bool) {
	var err error
	if on {
		err = autostart.Enable()
	} else {
		err = autostart.Disable()
	}
	if err != nil {
		log.Warnf("start at login: %v", err)
		tray.SetError(err.Error())
		return
	}
	saveSettings(func(s *settings.Settings) { s.StartAtLogin = on })
}

func saveSettings(mutate func(*settings.Settings)) {
	settMu.Lock()
	mutate(&sett)
	cp := sett
	settMu.Unlock()
	if err := settings.Save(cp, ""); err != nil {
		log.Warnf("settings save: %v", err)
	}
}

// refreshWatcher keeps a folder watcher alive only while the Custom
// preset points at a real directory.
func refreshWatcher() {
	watchMu.Lock()
	defer watchMu.Unlock()

	if folderWatch != nil {
		folderWatch.Stop()
		folderWatch = nil
	}
	if eng == nil || eng.Preset() != engine.PresetCustom {
		return
	}
	dir := eng.CustomDir()
	if dir == "" {
		return
	}

	fw, err := engine.NewFolderWatcher(dir, func() {
		b := eng.Cache().Reload()
		log.BankLoaded(string(engine.PresetCustom), b.Dir, len(b.Clips), len(b.Skipped))
	})
	if err != nil {
		log.Warnf("folder watch: %v", err)
		return
	}
	if err := fw.Start(); err != nil {
		log.Warnf("folder watch: %v", err)
		fw.Stop()
		return
	}
	folderWatch = fw
}

func presetItems() []tray.PresetItem {
	presets := engine.Presets()
	items := make([]tray.PresetItem, len(presets))
	for i, p := range presets {
		items[i] = tray.PresetItem{ID: string(p), Label: p.Label()}
	}
	return items
}

// soundRoot locates the built-in sound sets: a "sounds" directory next
// to the executable, falling back to the working directory.
func soundRoot() string {
	if exe, err := os.Executable(); err == nil {
		dir := filepath.Join(filepath.Dir(exe), "sounds")
		if _, err := os.Stat(dir); err == nil {
			return dir
		}
	}
	return "sounds"
}
