package engine

import (
	"sync"
	"sync/atomic"

	"klack/bank"
)

// Cache resolves the active preset to a sound directory and owns the
// current bank. Banks are immutable; publishing swaps a single atomic
// pointer, so the trigger path reads a coherent snapshot without locks
// and voices started from an older bank keep their clips alive until
// they finish.
//
// Reloads run synchronously on the calling thread (disk I/O and decode)
// and must stay off the render path.
type Cache struct {
	root string

	mu        sync.Mutex // serializes reloads and guards preset/customDir
	preset    Preset
	customDir string

	bank atomic.Pointer[bank.Bank]
}

// NewCache builds a cache rooted at the built-in sound directory. The
// initial bank is empty until SetPreset is called.
func NewCache(root string) *Cache {
	c := &Cache{root: root, preset: PresetBlue}
	c.bank.Store(&bank.Bank{})
	return c
}

// Bank returns the current bank snapshot. Never nil.
func (c *Cache) Bank() *bank.Bank { return c.bank.Load() }

func (c *Cache) Preset() Preset {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.preset
}

func (c *Cache) CustomDir() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.customDir
}

// SetPreset switches the active preset, synchronously loads its bank and
// publishes it. Returns the newly published bank.
func (c *Cache) SetPreset(p Preset) *bank.Bank {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.preset = p
	return c.reloadLocked()
}

// SetCustomDir updates the custom sound folder. When the active preset
// is Custom the bank reloads immediately; otherwise the path is only
// remembered. Returns the current bank.
func (c *Cache) SetCustomDir(dir string) *bank.Bank {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.customDir = dir
	if c.preset != PresetCustom {
		return c.bank.Load()
	}
	return c.reloadLocked()
}

// Reload re-reads the active preset's directory and publishes the
// result, e.g. after files changed on disk.
func (c *Cache) Reload() *bank.Bank {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reloadLocked()
}

func (c *Cache) reloadLocked() *bank.Bank {
	dir := c.preset.dir(c.root)
	if c.preset == PresetCustom {
		dir = c.customDir
	}

	var b *bank.Bank
	if dir == "" {
		b = &bank.Bank{}
	} else {
		b = bank.Load(dir)
	}
	c.bank.Store(b)
	return b
}
