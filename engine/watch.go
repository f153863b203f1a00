package engine

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 500 * time.Millisecond

// FolderWatcher watches a sound directory and invokes onChange
// (debounced) when audio files inside it are added, rewritten or
// removed. Used to hot-reload the custom preset while the settings
// panel or a file manager is writing into the folder.
type FolderWatcher struct {
	watcher  *fsnotify.Watcher
	dir      string
	onChange func()

	mu      sync.Mutex
	running bool
	done    chan struct{}
}

func NewFolderWatcher(dir string, onChange func()) (*FolderWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &FolderWatcher{
		watcher:  w,
		dir:      dir,
		onChange: onChange,
		done:     make(chan struct{}),
	}, nil
}

func (fw *FolderWatcher) Start() error {
	fw.mu.Lock()
	if fw.running {
		fw.mu.Unlock()
		return nil
	}
	fw.running = true
	fw.mu.Unlock()

	if err := fw.watcher.Add(fw.dir); err != nil {
		return err
	}

	go fw.watch()
	return nil
}

func (fw *FolderWatcher) watch() {
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if !isAudioFile(event.Name) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				// Debounce: bulk copies produce event storms.
				if timer == nil {
					timer = time.AfterFunc(reloadDebounce, fw.onChange)
				} else {
					timer.Reset(reloadDebounce)
				}
			}

		case _, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}

		case <-fw.done:
			return
		}
	}
}

func (fw *FolderWatcher) Stop() {
	fw.mu.Lock()
	if !fw.running {
		fw.mu.Unlock()
		return
	}
	fw.running = false
	fw.mu.Unlock()

	close(fw.done)
	fw.watcher.Close()
}

func isAudioFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".wav", ".mp3", ".ogg":
		return true
	}
	return false
}
